package service_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"basegraph.app/issuesync/internal/model"
	"basegraph.app/issuesync/internal/service"
)

var _ = Describe("ProjectSyncService", func() {
	var (
		ctx      context.Context
		source   *mockProjectSource
		projects *mockProjectStore
		upserted []model.Project
		txCalls  int
		svc      service.ProjectSyncService
	)

	BeforeEach(func() {
		ctx = context.Background()
		upserted = nil
		txCalls = 0
		source = &mockProjectSource{}
		projects = &mockProjectStore{
			upsertFn: func(_ context.Context, p model.Project) error {
				upserted = append(upserted, p)
				return nil
			},
		}
		svc = service.NewProjectSyncService(source, &mockTxRunner{
			withTxFn: func(ctx context.Context, fn func(stores service.StoreProvider) error) error {
				txCalls++
				return fn(&mockStoreProvider{projects: projects})
			},
		})
	})

	It("upserts every fetched project in one transaction", func() {
		name := "Alpha"
		source.fetchProjectsFn = func(context.Context) ([]model.Project, error) {
			return []model.Project{
				{ID: 1, Key: "ABC", Name: &name},
				{ID: 2, Key: "DEF"},
			}, nil
		}

		count, err := svc.Sync(ctx)

		Expect(err).NotTo(HaveOccurred())
		Expect(count).To(Equal(2))
		Expect(txCalls).To(Equal(1))
		Expect(upserted).To(HaveLen(2))
		Expect(upserted[0].Key).To(Equal("ABC"))
	})

	It("skips the transaction when jira returns nothing", func() {
		count, err := svc.Sync(ctx)

		Expect(err).NotTo(HaveOccurred())
		Expect(count).To(Equal(0))
		Expect(txCalls).To(Equal(0))
	})

	It("reports fetch failures", func() {
		cause := errors.New("401")
		source.fetchProjectsFn = func(context.Context) ([]model.Project, error) {
			return nil, cause
		}

		count, err := svc.Sync(ctx)

		Expect(count).To(Equal(0))
		Expect(err).To(MatchError(service.ErrProjectFetchFailed))
		Expect(errors.Is(err, cause)).To(BeTrue())
	})

	It("reports persistence failures", func() {
		cause := errors.New("unique violation")
		source.fetchProjectsFn = func(context.Context) ([]model.Project, error) {
			return []model.Project{{ID: 1, Key: "ABC"}}, nil
		}
		projects.upsertFn = func(context.Context, model.Project) error {
			return cause
		}

		count, err := svc.Sync(ctx)

		Expect(count).To(Equal(0))
		Expect(err).To(MatchError(service.ErrProjectPersistFailed))
		Expect(errors.Is(err, cause)).To(BeTrue())
	})
})
