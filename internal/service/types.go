// Package service defines the backend-agnostic interface for task operations.
package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ID is an opaque server identifier. The wire form may be a JSON string or a
// JSON number; both decode to the same string.
type ID string

// UnmarshalJSON accepts strings, numbers and null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid id %s", data)
	}
	*id = ID(n.String())
	return nil
}

// Timestamp is a server time that tolerates timezone-less ISO 8601 values.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// UnmarshalJSON parses the layouts seen from task backends. null and "" are
// the zero time.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid timestamp %s", data)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q", s)
}

// MarshalJSON writes RFC 3339, or null for the zero time.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339Nano))
}

// MarshalYAML writes RFC 3339, or nothing for the zero time.
func (t Timestamp) MarshalYAML() (interface{}, error) {
	if t.IsZero() {
		return nil, nil
	}
	return t.Format(time.RFC3339), nil
}

// Task represents a single server-owned task.
type Task struct {
	ID          ID        `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Completed   bool      `json:"completed" yaml:"completed"`
	CreatedAt   Timestamp `json:"created_at" yaml:"created_at,omitempty"`
}

// Priority is the client-only severity tag of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"

	// DefaultPriority applies to tasks with no recorded priority.
	DefaultPriority = PriorityMedium
)

// Valid reports whether p is one of the three levels.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ParsePriority parses a priority level, case-insensitive and trimmed.
// The empty string parses to "" (no priority chosen).
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if p == "" || p.Valid() {
		return p, nil
	}
	return "", fmt.Errorf("invalid priority: %s (want low, medium or high)", s)
}

// DisplayedTask is a Task merged with its priority annotation.
type DisplayedTask struct {
	Task     `yaml:",inline"`
	Priority Priority `json:"priority" yaml:"priority"`
}

// Filter is the view filter. A nil Completed or empty Priority means no
// constraint.
type Filter struct {
	Completed *bool
	Priority  Priority
}

// Matches reports whether t passes both constraints.
func (f Filter) Matches(t DisplayedTask) bool {
	return f.MatchesCompleted(t) && f.MatchesPriority(t)
}

// MatchesCompleted applies only the completion constraint.
func (f Filter) MatchesCompleted(t DisplayedTask) bool {
	return f.Completed == nil || t.Completed == *f.Completed
}

// MatchesPriority applies only the priority constraint.
func (f Filter) MatchesPriority(t DisplayedTask) bool {
	return f.Priority == "" || t.Priority == f.Priority
}

// ListFilter is the part of the filter the server understands.
type ListFilter struct {
	Completed *bool
}

// NewTask holds the remote fields of a task to create.
type NewTask struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// TaskUpdate holds the remote fields of a task edit. Nil fields are left
// unchanged by the server.
type TaskUpdate struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// DeleteAck acknowledges a deletion. Task is set when the server echoed the
// deleted record.
type DeleteAck struct {
	Success bool
	Message string
	Task    *Task
}

// Credentials identify a user to the auth endpoints.
type Credentials struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

// Account is the payload returned by registration.
type Account struct {
	ID       ID     `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// Session is the credential and identity established by login.
type Session struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type,omitempty"`
	UserID    ID     `json:"user_id"`
	Username  string `json:"username,omitempty"`
}

// Valid reports whether the session can be used for task calls.
func (s Session) Valid() bool {
	return s.Token != "" && s.UserID != ""
}

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }

// String returns a pointer to s.
func String(s string) *string { return &s }
