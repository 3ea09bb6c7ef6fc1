package service_test

import (
	"context"
	"iter"
	"time"

	"basegraph.app/issuesync/internal/model"
	"basegraph.app/issuesync/internal/queue"
	"basegraph.app/issuesync/internal/service"
	"basegraph.app/issuesync/internal/store"
)

type mockProjectStore struct {
	listKeysFn          func(ctx context.Context) ([]string, error)
	getByIDFn           func(ctx context.Context, id int64) (*model.Project, error)
	upsertPlaceholderFn func(ctx context.Context, id int64, key string) error
	upsertFn            func(ctx context.Context, project model.Project) error
}

func (m *mockProjectStore) ListKeys(ctx context.Context) ([]string, error) {
	if m.listKeysFn != nil {
		return m.listKeysFn(ctx)
	}
	return nil, nil
}

func (m *mockProjectStore) GetByID(ctx context.Context, id int64) (*model.Project, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockProjectStore) UpsertPlaceholder(ctx context.Context, id int64, key string) error {
	if m.upsertPlaceholderFn != nil {
		return m.upsertPlaceholderFn(ctx, id, key)
	}
	return nil
}

func (m *mockProjectStore) Upsert(ctx context.Context, project model.Project) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, project)
	}
	return nil
}

type mockIssueStore struct {
	getByIDFn func(ctx context.Context, id int64) (*model.Issue, error)
	upsertFn  func(ctx context.Context, issue model.Issue) error
	countFn   func(ctx context.Context) (int64, error)
}

func (m *mockIssueStore) GetByID(ctx context.Context, id int64) (*model.Issue, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockIssueStore) Upsert(ctx context.Context, issue model.Issue) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, issue)
	}
	return nil
}

func (m *mockIssueStore) Count(ctx context.Context) (int64, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}

type mockSyncRunStore struct {
	startFn   func(ctx context.Context, run model.SyncRun) (*model.SyncRun, error)
	finishFn  func(ctx context.Context, id int64, status model.SyncRunStatus, syncedCount int32, errMsg *string) error
	getByIDFn func(ctx context.Context, id int64) (*model.SyncRun, error)
}

func (m *mockSyncRunStore) Start(ctx context.Context, run model.SyncRun) (*model.SyncRun, error) {
	if m.startFn != nil {
		return m.startFn(ctx, run)
	}
	return &run, nil
}

func (m *mockSyncRunStore) Finish(ctx context.Context, id int64, status model.SyncRunStatus, syncedCount int32, errMsg *string) error {
	if m.finishFn != nil {
		return m.finishFn(ctx, id, status, syncedCount, errMsg)
	}
	return nil
}

func (m *mockSyncRunStore) GetByID(ctx context.Context, id int64) (*model.SyncRun, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

type mockStoreProvider struct {
	projects *mockProjectStore
	issues   *mockIssueStore
	syncRuns *mockSyncRunStore
}

func (m *mockStoreProvider) Projects() store.ProjectStore {
	return m.projects
}

func (m *mockStoreProvider) Issues() store.IssueStore {
	return m.issues
}

func (m *mockStoreProvider) SyncRuns() store.SyncRunStore {
	return m.syncRuns
}

type mockTxRunner struct {
	withTxFn func(ctx context.Context, fn func(stores service.StoreProvider) error) error
}

func (m *mockTxRunner) WithTx(ctx context.Context, fn func(stores service.StoreProvider) error) error {
	if m.withTxFn != nil {
		return m.withTxFn(ctx, fn)
	}
	return nil
}

type mockRegistry struct {
	projectKeysFn func(ctx context.Context) ([]string, error)
}

func (m *mockRegistry) ProjectKeys(ctx context.Context) ([]string, error) {
	if m.projectKeysFn != nil {
		return m.projectKeysFn(ctx)
	}
	return nil, nil
}

// sourceItem is one element of a scripted issue sequence.
type sourceItem struct {
	batch []model.Issue
	err   error
}

type mockIssueSource struct {
	items      []sourceItem
	calls      int
	yielded    int
	gotKeys    []string
	gotSince   time.Time
	fetchIssue func(ctx context.Context, keys []string, since time.Time) iter.Seq2[[]model.Issue, error]
}

func (m *mockIssueSource) FetchIssues(ctx context.Context, keys []string, since time.Time) iter.Seq2[[]model.Issue, error] {
	m.calls++
	m.gotKeys = keys
	m.gotSince = since
	if m.fetchIssue != nil {
		return m.fetchIssue(ctx, keys, since)
	}
	return func(yield func([]model.Issue, error) bool) {
		for _, item := range m.items {
			m.yielded++
			if !yield(item.batch, item.err) {
				return
			}
			if item.err != nil {
				return
			}
		}
	}
}

type mockProjectSource struct {
	fetchProjectsFn func(ctx context.Context) ([]model.Project, error)
}

func (m *mockProjectSource) FetchProjects(ctx context.Context) ([]model.Project, error) {
	if m.fetchProjectsFn != nil {
		return m.fetchProjectsFn(ctx)
	}
	return nil, nil
}

type mockPersister struct {
	persistFn func(ctx context.Context, issues []model.Issue) ([]model.Issue, error)
	batches   [][]model.Issue
}

func (m *mockPersister) PersistBatch(ctx context.Context, issues []model.Issue) ([]model.Issue, error) {
	m.batches = append(m.batches, issues)
	if m.persistFn != nil {
		return m.persistFn(ctx, issues)
	}
	return issues, nil
}

type mockIssueSyncService struct {
	syncFn func(ctx context.Context, since time.Time) (int, error)
}

func (m *mockIssueSyncService) Sync(ctx context.Context, since time.Time) (int, error) {
	if m.syncFn != nil {
		return m.syncFn(ctx, since)
	}
	return 0, nil
}

type mockProjectSyncService struct {
	syncFn func(ctx context.Context) (int, error)
}

func (m *mockProjectSyncService) Sync(ctx context.Context) (int, error) {
	if m.syncFn != nil {
		return m.syncFn(ctx)
	}
	return 0, nil
}

func newIssue(id int64, key string, projectID int64) model.Issue {
	return model.Issue{
		ID:        id,
		ProjectID: projectID,
		Key:       key,
		Summary:   "summary " + key,
		Type:      model.IssueTypeTask,
		Priority:  model.IssuePriorityMedium,
		CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
	}
}

type mockProducer struct {
	enqueueFn func(ctx context.Context, task queue.Task) error
	tasks     []queue.Task
}

func (m *mockProducer) Enqueue(ctx context.Context, task queue.Task) error {
	if m.enqueueFn != nil {
		if err := m.enqueueFn(ctx, task); err != nil {
			return err
		}
	}
	m.tasks = append(m.tasks, task)
	return nil
}

func (m *mockProducer) Close() error {
	return nil
}
