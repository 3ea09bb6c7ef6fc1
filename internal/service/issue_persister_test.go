package service_test

import (
	"context"
	"errors"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"basegraph.app/issuesync/internal/model"
	"basegraph.app/issuesync/internal/service"
)

var _ = Describe("IssuePersister", func() {
	var (
		ctx       context.Context
		projects  *mockProjectStore
		issues    *mockIssueStore
		txCalls   int
		calls     []string
		persister service.IssuePersister
	)

	BeforeEach(func() {
		ctx = context.Background()
		txCalls = 0
		calls = nil
		projects = &mockProjectStore{
			upsertPlaceholderFn: func(_ context.Context, id int64, key string) error {
				calls = append(calls, fmt.Sprintf("project:%d:%s", id, key))
				return nil
			},
		}
		issues = &mockIssueStore{
			upsertFn: func(_ context.Context, issue model.Issue) error {
				calls = append(calls, "issue:"+issue.Key)
				return nil
			},
		}
		persister = service.NewIssuePersister(&mockTxRunner{
			withTxFn: func(ctx context.Context, fn func(stores service.StoreProvider) error) error {
				txCalls++
				return fn(&mockStoreProvider{projects: projects, issues: issues})
			},
		})
	})

	It("does not open a transaction for an empty batch", func() {
		out, err := persister.PersistBatch(ctx, []model.Issue{})

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(BeEmpty())
		Expect(txCalls).To(Equal(0))
	})

	It("registers each project once before upserting issues", func() {
		batch := []model.Issue{
			newIssue(1, "ABC-1", 10),
			newIssue(2, "DEF-7", 20),
			newIssue(3, "ABC-2", 10),
		}

		out, err := persister.PersistBatch(ctx, batch)

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal(batch))
		Expect(txCalls).To(Equal(1))
		Expect(calls).To(Equal([]string{
			"project:10:ABC",
			"project:20:DEF",
			"issue:ABC-1",
			"issue:DEF-7",
			"issue:ABC-2",
		}))
	})

	It("rejects an issue key without a project prefix", func() {
		_, err := persister.PersistBatch(ctx, []model.Issue{newIssue(1, "NOPREFIX", 10)})

		Expect(err).To(MatchError(model.ErrInvalidIssueKey))
		Expect(calls).To(BeEmpty())
	})

	It("aborts the batch when an issue upsert fails", func() {
		cause := errors.New("fk violation")
		issues.upsertFn = func(_ context.Context, issue model.Issue) error {
			if issue.ID == 2 {
				return cause
			}
			calls = append(calls, "issue:"+issue.Key)
			return nil
		}

		out, err := persister.PersistBatch(ctx, []model.Issue{
			newIssue(1, "ABC-1", 10),
			newIssue(2, "ABC-2", 10),
			newIssue(3, "ABC-3", 10),
		})

		Expect(out).To(BeNil())
		Expect(errors.Is(err, cause)).To(BeTrue())
		Expect(calls).NotTo(ContainElement("issue:ABC-3"))
	})

	It("aborts the batch when a placeholder upsert fails", func() {
		cause := errors.New("duplicate key")
		projects.upsertPlaceholderFn = func(context.Context, int64, string) error {
			return cause
		}

		_, err := persister.PersistBatch(ctx, []model.Issue{newIssue(1, "ABC-1", 10)})

		Expect(errors.Is(err, cause)).To(BeTrue())
		Expect(calls).To(BeEmpty())
	})
})
