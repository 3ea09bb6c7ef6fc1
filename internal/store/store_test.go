package store_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"basegraph.app/issuesync/core/db"
	"basegraph.app/issuesync/internal/model"
	"basegraph.app/issuesync/internal/service"
	"basegraph.app/issuesync/internal/store"
)

func issueFixture(id int64, key string, projectID int64) model.Issue {
	desc := "body of " + key
	return model.Issue{
		ID:          id,
		ProjectID:   projectID,
		Key:         key,
		Summary:     "summary " + key,
		Description: &desc,
		Type:        model.IssueTypeBug,
		Priority:    model.IssuePriorityHigh,
		CreatedAt:   time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2025, 1, 11, 9, 0, 0, 0, time.UTC),
	}
}

var _ = Describe("Jira stores", func() {
	var (
		ctx    context.Context
		stores *store.Stores
	)

	BeforeEach(func() {
		requireDB()
		ctx = context.Background()
		stores = store.NewStores(testDB.Queries())
	})

	Describe("ProjectStore", func() {
		It("lists nothing on an empty table", func() {
			keys, err := stores.Projects().ListKeys(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(keys).To(BeEmpty())
			Expect(keys).NotTo(BeNil())
		})

		It("keeps a known name when a placeholder is upserted again", func() {
			name := "Alpha"
			Expect(stores.Projects().Upsert(ctx, model.Project{ID: 10, Key: "ABC", Name: &name})).To(Succeed())
			Expect(stores.Projects().UpsertPlaceholder(ctx, 10, "ABC")).To(Succeed())

			got, err := stores.Projects().GetByID(ctx, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Name).NotTo(BeNil())
			Expect(*got.Name).To(Equal("Alpha"))
		})

		It("fills in the name of a placeholder", func() {
			Expect(stores.Projects().UpsertPlaceholder(ctx, 10, "ABC")).To(Succeed())
			name := "Alpha"
			Expect(stores.Projects().Upsert(ctx, model.Project{ID: 10, Key: "ABC", Name: &name})).To(Succeed())

			got, err := stores.Projects().GetByID(ctx, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(*got.Name).To(Equal("Alpha"))

			keys, err := stores.Projects().ListKeys(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(keys).To(Equal([]string{"ABC"}))
		})

		It("returns ErrNotFound for a missing project", func() {
			_, err := stores.Projects().GetByID(ctx, 999)
			Expect(err).To(MatchError(store.ErrNotFound))
		})
	})

	Describe("IssueStore", func() {
		BeforeEach(func() {
			Expect(stores.Projects().UpsertPlaceholder(ctx, 10, "ABC")).To(Succeed())
		})

		It("round-trips an issue", func() {
			issue := issueFixture(1, "ABC-1", 10)
			Expect(stores.Issues().Upsert(ctx, issue)).To(Succeed())

			got, err := stores.Issues().GetByID(ctx, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(*got).To(Equal(issue))
		})

		It("overwrites mutable fields but keeps created_at", func() {
			Expect(stores.Issues().Upsert(ctx, issueFixture(1, "ABC-1", 10))).To(Succeed())

			changed := issueFixture(1, "ABC-1", 10)
			changed.Summary = "renamed"
			changed.Description = nil
			changed.Priority = model.IssuePriorityLowest
			changed.CreatedAt = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
			changed.UpdatedAt = time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
			Expect(stores.Issues().Upsert(ctx, changed)).To(Succeed())

			got, err := stores.Issues().GetByID(ctx, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Summary).To(Equal("renamed"))
			Expect(got.Description).To(BeNil())
			Expect(got.Priority).To(Equal(model.IssuePriorityLowest))
			Expect(got.UpdatedAt).To(Equal(changed.UpdatedAt))
			Expect(got.CreatedAt).To(Equal(time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)))

			count, err := stores.Issues().Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(1)))
		})

		It("returns ErrNotFound for a missing issue", func() {
			_, err := stores.Issues().GetByID(ctx, 999)
			Expect(err).To(MatchError(store.ErrNotFound))
		})
	})

	Describe("batch persistence", func() {
		var persister service.IssuePersister

		BeforeEach(func() {
			persister = service.NewIssuePersister(service.NewTxRunner(testDB))
		})

		It("creates placeholder projects for unseen keys", func() {
			_, err := persister.PersistBatch(ctx, []model.Issue{
				issueFixture(1, "ABC-1", 10),
				issueFixture(2, "DEF-4", 20),
			})
			Expect(err).NotTo(HaveOccurred())

			keys, err := stores.Projects().ListKeys(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(keys).To(ConsistOf("ABC", "DEF"))

			p, err := stores.Projects().GetByID(ctx, 20)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Name).To(BeNil())
		})

		It("is idempotent", func() {
			batch := []model.Issue{issueFixture(1, "ABC-1", 10), issueFixture(2, "ABC-2", 10)}
			_, err := persister.PersistBatch(ctx, batch)
			Expect(err).NotTo(HaveOccurred())
			_, err = persister.PersistBatch(ctx, batch)
			Expect(err).NotTo(HaveOccurred())

			count, err := stores.Issues().Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(2)))
		})

		It("rolls back the whole batch on failure", func() {
			bad := issueFixture(2, "ABC-2", 10)
			bad.Type = model.IssueType("initiative")

			_, err := persister.PersistBatch(ctx, []model.Issue{issueFixture(1, "ABC-1", 10), bad})
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, db.ErrTxFailed)).To(BeTrue())

			count, err := stores.Issues().Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(BeZero())

			keys, err := stores.Projects().ListKeys(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(keys).To(BeEmpty())
		})
	})

	Describe("SyncRunStore", func() {
		It("records a run from start to finish", func() {
			since := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
			run, err := stores.SyncRuns().Start(ctx, model.SyncRun{
				ID:        42,
				Kind:      model.SyncKindIssues,
				Watermark: &since,
				Attempt:   1,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(run.Status).To(Equal(model.SyncRunStatusRunning))
			Expect(run.FinishedAt).To(BeNil())

			Expect(stores.SyncRuns().Finish(ctx, 42, model.SyncRunStatusSucceeded, 7, nil)).To(Succeed())

			got, err := stores.SyncRuns().GetByID(ctx, 42)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Status).To(Equal(model.SyncRunStatusSucceeded))
			Expect(got.SyncedCount).To(Equal(int32(7)))
			Expect(got.FinishedAt).NotTo(BeNil())
			Expect(got.Watermark.Equal(since)).To(BeTrue())
		})

		It("resets a failed run when it is started again", func() {
			_, err := stores.SyncRuns().Start(ctx, model.SyncRun{ID: 43, Kind: model.SyncKindProjects, Attempt: 1})
			Expect(err).NotTo(HaveOccurred())
			msg := "jira down"
			Expect(stores.SyncRuns().Finish(ctx, 43, model.SyncRunStatusFailed, 0, &msg)).To(Succeed())

			run, err := stores.SyncRuns().Start(ctx, model.SyncRun{ID: 43, Kind: model.SyncKindProjects, Attempt: 2})
			Expect(err).NotTo(HaveOccurred())
			Expect(run.Status).To(Equal(model.SyncRunStatusRunning))
			Expect(run.Attempt).To(Equal(int32(2)))
			Expect(run.Error).To(BeNil())
		})

		It("returns ErrNotFound for a missing run", func() {
			_, err := stores.SyncRuns().GetByID(ctx, 1)
			Expect(err).To(MatchError(store.ErrNotFound))
		})
	})
})
