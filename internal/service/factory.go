package service

import (
	"basegraph.app/issuesync/common/id"
	"basegraph.app/issuesync/internal/queue"
	"basegraph.app/issuesync/internal/service/issue_tracker"
	"basegraph.app/issuesync/internal/store"
)

type ServicesConfig struct {
	Stores   *store.Stores
	TxRunner TxRunner
	// Jira is nil in the admin server, which only enqueues.
	Jira *issue_tracker.JiraClient
	// Producer is nil in the one-shot CLI, which never enqueues.
	Producer queue.Producer
}

type Services struct {
	stores   *store.Stores
	txRunner TxRunner
	jira     *issue_tracker.JiraClient
	producer queue.Producer
}

func NewServices(cfg ServicesConfig) *Services {
	return &Services{
		stores:   cfg.Stores,
		txRunner: cfg.TxRunner,
		jira:     cfg.Jira,
		producer: cfg.Producer,
	}
}

func (s *Services) IssueSync() IssueSyncService {
	return NewIssueSyncService(
		NewProjectKeyRegistry(s.stores.Projects()),
		s.jira,
		NewIssuePersister(s.txRunner),
	)
}

func (s *Services) ProjectSync() ProjectSyncService {
	return NewProjectSyncService(s.jira, s.txRunner)
}

func (s *Services) SyncRunner() SyncRunner {
	return NewSyncRunner(s.stores.SyncRuns(), s.IssueSync(), s.ProjectSync())
}

func (s *Services) SyncDispatcher() SyncDispatcher {
	return NewSyncDispatcher(s.producer, s.stores.SyncRuns(), id.New)
}
