package mapper

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"basegraph.app/issuesync/internal/model"
)

// ErrUnmappable marks a Jira record that cannot become a domain entity.
// Callers drop the record instead of failing the sync.
var ErrUnmappable = errors.New("unmappable jira record")

// Jira Cloud renders timestamps as 2025-01-15T10:00:00.000+0000.
var jiraTimeLayouts = []string{
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02T15:04:05-0700",
	time.RFC3339Nano,
}

type JiraMapper struct{}

func NewJiraMapper() *JiraMapper {
	return &JiraMapper{}
}

// MapIssue converts a search record into a model.Issue. Any failure wraps
// ErrUnmappable with the reason.
func (m *JiraMapper) MapIssue(raw JiraIssue) (model.Issue, error) {
	id, err := parseID(raw.ID)
	if err != nil {
		return model.Issue{}, unmappable("issue id", err)
	}

	if raw.Fields.Project == nil {
		return model.Issue{}, unmappable("project", errors.New("missing"))
	}
	projectID, err := parseID(raw.Fields.Project.ID)
	if err != nil {
		return model.Issue{}, unmappable("project id", err)
	}

	if _, err := model.ProjectKeyFromIssueKey(raw.Key); err != nil {
		return model.Issue{}, unmappable("issue key", err)
	}

	// Stored as sent; only a blank summary is rejected.
	summary := raw.Fields.Summary
	if strings.TrimSpace(summary) == "" {
		return model.Issue{}, unmappable("summary", errors.New("empty"))
	}

	if raw.Fields.IssueType == nil {
		return model.Issue{}, unmappable("issue type", errors.New("missing"))
	}
	issueType, err := model.ParseIssueType(raw.Fields.IssueType.Name)
	if err != nil {
		return model.Issue{}, unmappable("issue type", err)
	}

	if raw.Fields.Priority == nil {
		return model.Issue{}, unmappable("priority", errors.New("missing"))
	}
	priority, err := model.ParseIssuePriority(raw.Fields.Priority.Name)
	if err != nil {
		return model.Issue{}, unmappable("priority", err)
	}

	createdAt, err := parseJiraTime(raw.Fields.Created)
	if err != nil {
		return model.Issue{}, unmappable("created", err)
	}
	updatedAt, err := parseJiraTime(raw.Fields.Updated)
	if err != nil {
		return model.Issue{}, unmappable("updated", err)
	}

	var description *string
	if raw.Fields.Description != nil {
		if text := ExtractADFText(raw.Fields.Description); text != "" {
			description = &text
		}
	}

	return model.Issue{
		ID:          id,
		ProjectID:   projectID,
		Key:         raw.Key,
		Summary:     summary,
		Description: description,
		Type:        issueType,
		Priority:    priority,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

// MapProject converts a project listing entry into a model.Project.
func (m *JiraMapper) MapProject(raw JiraProject) (model.Project, error) {
	id, err := parseID(raw.ID)
	if err != nil {
		return model.Project{}, unmappable("project id", err)
	}

	key := strings.TrimSpace(raw.Key)
	if key == "" {
		return model.Project{}, unmappable("project key", errors.New("empty"))
	}

	var name *string
	if n := strings.TrimSpace(raw.Name); n != "" {
		name = &n
	}

	return model.Project{ID: id, Key: key, Name: name}, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("not positive: %d", id)
	}
	return id, nil
}

func parseJiraTime(s string) (time.Time, error) {
	for _, layout := range jiraTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func unmappable(field string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrUnmappable, field, err)
}
