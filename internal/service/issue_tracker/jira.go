package issue_tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"basegraph.app/issuesync/common/logger"
	"basegraph.app/issuesync/core/config"
	"basegraph.app/issuesync/internal/mapper"
	"basegraph.app/issuesync/internal/model"
	"github.com/cenkalti/backoff/v5"
)

const (
	searchPath     = "/rest/api/3/search/jql"
	projectPath    = "/rest/api/3/project"
	searchPageSize = 100
	maxErrorBody   = 512

	// DefaultPageDelay paces consecutive search pages.
	DefaultPageDelay = time.Second
)

var searchFields = []string{"project", "summary", "description", "issuetype", "priority", "created", "updated"}

// BackoffConfig bounds the retries of a single Jira request.
type BackoffConfig struct {
	InitialInterval time.Duration
	Multiplier      float64
	MaxElapsedTime  time.Duration
}

func DefaultBackoffConfig() BackoffConfig {
	return BackoffConfig{
		InitialInterval: 500 * time.Millisecond,
		Multiplier:      2,
		MaxElapsedTime:  30 * time.Second,
	}
}

type JiraConfig struct {
	BaseURL  string
	Email    string
	APIToken string

	// Timeout applies to each HTTP round trip. Defaults to 30s.
	Timeout time.Duration

	// PageDelay is observed before every search page after the first.
	// Defaults to DefaultPageDelay.
	PageDelay time.Duration

	Backoff BackoffConfig
}

// JiraConfigFrom assembles client settings from the loaded environment.
func JiraConfigFrom(jira config.JiraConfig, sync config.SyncConfig) JiraConfig {
	return JiraConfig{
		BaseURL:   jira.BaseURL,
		Email:     jira.Email,
		APIToken:  jira.APIToken,
		Timeout:   jira.Timeout,
		PageDelay: sync.PageDelay,
		Backoff: BackoffConfig{
			InitialInterval: sync.BackoffInitial,
			Multiplier:      sync.BackoffMultiplier,
			MaxElapsedTime:  sync.BackoffMaxElapsed,
		},
	}
}

// APIError is a non-2xx response from Jira.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("jira api returned status %d: %s", e.StatusCode, e.Body)
}

type JiraClient struct {
	cfg        JiraConfig
	httpClient *http.Client
	mapper     *mapper.JiraMapper
}

func NewJiraClient(cfg JiraConfig) *JiraClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	if cfg.PageDelay <= 0 {
		cfg.PageDelay = DefaultPageDelay
	}

	defaults := DefaultBackoffConfig()
	if cfg.Backoff.InitialInterval <= 0 {
		cfg.Backoff.InitialInterval = defaults.InitialInterval
	}
	if cfg.Backoff.Multiplier < 1 {
		cfg.Backoff.Multiplier = defaults.Multiplier
	}
	if cfg.Backoff.MaxElapsedTime <= 0 {
		cfg.Backoff.MaxElapsedTime = defaults.MaxElapsedTime
	}

	return &JiraClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		mapper:     mapper.NewJiraMapper(),
	}
}

// FetchProjects lists all projects, dropping entries that cannot be mapped.
func (c *JiraClient) FetchProjects(ctx context.Context) ([]model.Project, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "issuesync.jira.client"})

	raw, err := fetchJSON[[]mapper.JiraProject](ctx, c, "list projects", func() (*http.Request, error) {
		return c.newRequest(ctx, http.MethodGet, projectPath, nil)
	})
	if err != nil {
		return nil, err
	}

	projects := make([]model.Project, 0, len(raw))
	for _, r := range raw {
		p, err := c.mapper.MapProject(r)
		if err != nil {
			slog.WarnContext(ctx, "dropping unmappable jira project",
				"project_id", r.ID,
				"project_key", r.Key,
				"error", err)
			continue
		}
		projects = append(projects, p)
	}
	return projects, nil
}

func (c *JiraClient) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.SetBasicAuth(c.cfg.Email, c.cfg.APIToken)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// fetchJSON sends the request built by newReq and decodes a 2xx JSON body
// into a T. Network errors, non-2xx statuses and undecodable bodies are
// retried with exponential backoff until the elapsed budget runs out. Each
// attempt decodes into a fresh T, so a partly decoded body never leaks into
// the result.
func fetchJSON[T any](ctx context.Context, c *JiraClient, op string, newReq func() (*http.Request, error)) (T, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.cfg.Backoff.InitialInterval
	b.Multiplier = c.cfg.Backoff.Multiplier

	attempt := 0
	out, err := backoff.Retry(ctx, func() (T, error) {
		attempt++
		var v T
		req, err := newReq()
		if err != nil {
			return v, backoff.Permanent(err)
		}
		if err := c.do(req, &v); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return v, backoff.Permanent(ctxErr)
			}
			return v, err
		}
		return v, nil
	},
		backoff.WithBackOff(b),
		backoff.WithMaxElapsedTime(c.cfg.Backoff.MaxElapsedTime),
		backoff.WithNotify(func(err error, next time.Duration) {
			slog.WarnContext(ctx, "jira request failed, retrying",
				"op", op,
				"attempt", attempt,
				"retry_in", next,
				"error", err)
		}),
	)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%s after %d attempts: %w", op, attempt, err)
	}
	return out, nil
}

func (c *JiraClient) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// pause blocks for d unless ctx ends first.
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

var errNoPageToken = errors.New("jira reported more pages without a continuation token")
