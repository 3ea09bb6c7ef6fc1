package model

import "time"

// Project is a Jira project. Name stays nil for placeholder rows created while
// syncing issues, until a project sync supplies it.
type Project struct {
	ID        int64     `json:"id"`
	Key       string    `json:"key"`
	Name      *string   `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
