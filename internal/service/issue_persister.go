package service

import (
	"context"
	"fmt"

	"basegraph.app/issuesync/internal/model"
)

// IssuePersister writes one page of issues atomically.
type IssuePersister interface {
	PersistBatch(ctx context.Context, issues []model.Issue) ([]model.Issue, error)
}

type issuePersister struct {
	txRunner TxRunner
}

func NewIssuePersister(txRunner TxRunner) IssuePersister {
	return &issuePersister{txRunner: txRunner}
}

// PersistBatch registers a placeholder for every project referenced by the
// batch, then upserts the issues, all in one transaction. An empty batch
// does not open a transaction.
func (p *issuePersister) PersistBatch(ctx context.Context, issues []model.Issue) ([]model.Issue, error) {
	if len(issues) == 0 {
		return issues, nil
	}

	err := p.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		registered := make(map[int64]struct{})
		for _, issue := range issues {
			if _, ok := registered[issue.ProjectID]; ok {
				continue
			}

			key, err := issue.ProjectKey()
			if err != nil {
				return fmt.Errorf("deriving project key for issue %d: %w", issue.ID, err)
			}
			if err := stores.Projects().UpsertPlaceholder(ctx, issue.ProjectID, key); err != nil {
				return fmt.Errorf("upserting project %d (%s): %w", issue.ProjectID, key, err)
			}
			registered[issue.ProjectID] = struct{}{}
		}

		for _, issue := range issues {
			if err := stores.Issues().Upsert(ctx, issue); err != nil {
				return fmt.Errorf("upserting issue %s: %w", issue.Key, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return issues, nil
}
