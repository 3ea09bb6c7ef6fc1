package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrUnknownIssueType     = errors.New("unknown issue type")
	ErrUnknownIssuePriority = errors.New("unknown issue priority")
	ErrInvalidIssueKey      = errors.New("invalid issue key")
)

// IssueType mirrors the jira_issue_type database enum.
type IssueType string

const (
	IssueTypeEpic    IssueType = "epic"
	IssueTypeStory   IssueType = "story"
	IssueTypeTask    IssueType = "task"
	IssueTypeSubtask IssueType = "subtask"
	IssueTypeBug     IssueType = "bug"
)

// ParseIssueType resolves a Jira issue type name case-insensitively.
// Jira Cloud names subtasks "Sub-task", so that spelling is accepted too.
func ParseIssueType(name string) (IssueType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "epic":
		return IssueTypeEpic, nil
	case "story":
		return IssueTypeStory, nil
	case "task":
		return IssueTypeTask, nil
	case "subtask", "sub-task":
		return IssueTypeSubtask, nil
	case "bug":
		return IssueTypeBug, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownIssueType, name)
}

// IssuePriority mirrors the jira_issue_priority database enum.
type IssuePriority string

const (
	IssuePriorityLowest  IssuePriority = "lowest"
	IssuePriorityLow     IssuePriority = "low"
	IssuePriorityMedium  IssuePriority = "medium"
	IssuePriorityHigh    IssuePriority = "high"
	IssuePriorityHighest IssuePriority = "highest"
)

var priorityRank = map[IssuePriority]int{
	IssuePriorityLowest:  1,
	IssuePriorityLow:     2,
	IssuePriorityMedium:  3,
	IssuePriorityHigh:    4,
	IssuePriorityHighest: 5,
}

// ParseIssuePriority resolves a Jira priority name case-insensitively.
func ParseIssuePriority(name string) (IssuePriority, error) {
	p := IssuePriority(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := priorityRank[p]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownIssuePriority, name)
	}
	return p, nil
}

// Rank orders priorities from 1 (lowest) to 5 (highest). Unknown values rank 0.
func (p IssuePriority) Rank() int {
	return priorityRank[p]
}

// Less reports whether p is a lower priority than other.
func (p IssuePriority) Less(other IssuePriority) bool {
	return p.Rank() < other.Rank()
}

// Issue is a Jira issue as replicated into the local store.
type Issue struct {
	ID          int64         `json:"id"`
	ProjectID   int64         `json:"project_id"`
	Key         string        `json:"key"`
	Summary     string        `json:"summary"`
	Description *string       `json:"description,omitempty"`
	Type        IssueType     `json:"issue_type"`
	Priority    IssuePriority `json:"priority"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// ProjectKey returns the owning project's key, taken from the issue key prefix.
func (i Issue) ProjectKey() (string, error) {
	return ProjectKeyFromIssueKey(i.Key)
}

// ProjectKeyFromIssueKey splits "ABC-123" into "ABC". The suffix must be a
// positive issue number.
func ProjectKeyFromIssueKey(key string) (string, error) {
	idx := strings.LastIndexByte(key, '-')
	if idx <= 0 || idx == len(key)-1 {
		return "", fmt.Errorf("%w: %q", ErrInvalidIssueKey, key)
	}

	n, err := strconv.ParseUint(key[idx+1:], 10, 64)
	if err != nil || n == 0 {
		return "", fmt.Errorf("%w: %q", ErrInvalidIssueKey, key)
	}

	return key[:idx], nil
}
