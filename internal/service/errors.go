package service

import (
	"errors"
	"fmt"
)

// Sync failure kinds. Returned errors wrap both the kind and the cause, so
// errors.Is matches either.
var (
	ErrProjectKeyFetchFailed = errors.New("failed to fetch project keys")
	ErrIssueFetchFailed      = errors.New("failed to fetch issues from jira")
	ErrIssuePersistFailed    = errors.New("failed to persist issues")
	ErrProjectFetchFailed    = errors.New("failed to fetch projects from jira")
	ErrProjectPersistFailed  = errors.New("failed to persist projects")
)

func syncFailure(kind, cause error) error {
	return fmt.Errorf("%w: %w", kind, cause)
}
