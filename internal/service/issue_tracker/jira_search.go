package issue_tracker

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"basegraph.app/issuesync/common/logger"
	"basegraph.app/issuesync/internal/mapper"
	"basegraph.app/issuesync/internal/model"
	"go.opentelemetry.io/otel/attribute"
)

// ErrSessionConsumed is yielded when an issue sequence is ranged over twice.
var ErrSessionConsumed = errors.New("issue fetch session already consumed")

// jqlTimeLayout is the minute-precision format JQL accepts for date comparisons.
const jqlTimeLayout = "2006-01-02 15:04"

type searchRequest struct {
	JQL           string   `json:"jql"`
	Fields        []string `json:"fields"`
	MaxResults    int      `json:"maxResults"`
	NextPageToken string   `json:"nextPageToken,omitempty"`
}

type searchResponse struct {
	Issues        []mapper.JiraIssue `json:"issues"`
	IsLast        bool               `json:"isLast"`
	NextPageToken string             `json:"nextPageToken"`
}

// searchState is the cursor of one fetch session. It is passed by value
// between steps and never stored.
type searchState struct {
	jql       string
	pageToken string
	page      int
	done      bool
}

// BuildJQL scopes a search to the given projects and to issues updated at or
// after since (UTC, minute precision).
func BuildJQL(projectKeys []string, since time.Time) string {
	quoted := make([]string, len(projectKeys))
	for i, k := range projectKeys {
		quoted[i] = strconv.Quote(k)
	}
	return fmt.Sprintf("project in (%s) AND updated >= '%s'",
		strings.Join(quoted, ", "),
		since.UTC().Format(jqlTimeLayout))
}

// FetchIssues returns a lazy sequence of mapped issue pages. No request is
// made for an empty key set. Iteration stops after the last page or after
// the first error item.
func (c *JiraClient) FetchIssues(ctx context.Context, projectKeys []string, since time.Time) iter.Seq2[[]model.Issue, error] {
	var consumed atomic.Bool
	keys := append([]string(nil), projectKeys...)

	return func(yield func([]model.Issue, error) bool) {
		if consumed.Swap(true) {
			yield(nil, ErrSessionConsumed)
			return
		}
		if len(keys) == 0 {
			return
		}

		ctx := logger.WithLogFields(ctx, logger.LogFields{Component: "issuesync.jira.client"})
		state := searchState{jql: BuildJQL(keys, since)}
		slog.DebugContext(ctx, "starting jira issue search", "jql", logger.Truncate(state.jql, 256))

		for !state.done {
			batch, next, err := c.searchStep(ctx, state)
			if err != nil {
				yield(nil, fmt.Errorf("fetching page %d: %w", state.page+1, err))
				return
			}
			if !yield(batch, nil) {
				return
			}
			state = next
		}
	}
}

// searchStep fetches the page described by state and returns its mapped
// issues together with the state for the following page.
func (c *JiraClient) searchStep(ctx context.Context, state searchState) ([]model.Issue, searchState, error) {
	if state.page > 0 {
		if err := pause(ctx, c.cfg.PageDelay); err != nil {
			return nil, state, err
		}
	}

	pageNum := state.page + 1
	ctx = logger.WithLogFields(ctx, logger.LogFields{Page: logger.Ptr(pageNum)})
	sc := logger.StartSpan(ctx, "jira.search_page")
	defer sc.End()
	ctx = sc.Context()

	body := searchRequest{
		JQL:           state.jql,
		Fields:        searchFields,
		MaxResults:    searchPageSize,
		NextPageToken: state.pageToken,
	}

	resp, err := fetchJSON[searchResponse](ctx, c, "search issues", func() (*http.Request, error) {
		return c.newRequest(ctx, http.MethodPost, searchPath, body)
	})
	if err != nil {
		sc.Fail(err)
		return nil, state, err
	}

	batch := c.mapIssues(ctx, resp.Issues)
	sc.SetAttributes(
		attribute.Int("jira.page", pageNum),
		attribute.Int("jira.records", len(resp.Issues)),
		attribute.Int("jira.mapped", len(batch)),
	)

	next := searchState{
		jql:       state.jql,
		pageToken: resp.NextPageToken,
		page:      pageNum,
		done:      resp.IsLast,
	}
	if !resp.IsLast && resp.NextPageToken == "" {
		slog.WarnContext(ctx, "ending search early", "error", errNoPageToken)
		next.done = true
	}

	slog.DebugContext(ctx, "fetched jira page",
		"records", len(resp.Issues),
		"mapped", len(batch),
		"is_last", next.done)

	return batch, next, nil
}

func (c *JiraClient) mapIssues(ctx context.Context, raw []mapper.JiraIssue) []model.Issue {
	issues := make([]model.Issue, 0, len(raw))
	for _, r := range raw {
		issue, err := c.mapper.MapIssue(r)
		if err != nil {
			slog.WarnContext(ctx, "dropping unmappable jira issue",
				"issue_id", r.ID,
				"issue_key", r.Key,
				"error", err)
			continue
		}
		issues = append(issues, issue)
	}
	return issues
}
