package store

import (
	"basegraph.app/issuesync/core/db/sqlc"
)

type Stores struct {
	queries *sqlc.Queries
}

func NewStores(queries *sqlc.Queries) *Stores {
	return &Stores{queries: queries}
}

func (s *Stores) Projects() ProjectStore {
	return newProjectStore(s.queries)
}

func (s *Stores) Issues() IssueStore {
	return newIssueStore(s.queries)
}

func (s *Stores) SyncRuns() SyncRunStore {
	return newSyncRunStore(s.queries)
}
