package models

import (
	"fmt"
	"strings"
	"time"
)

// Priority of a task
type Priority string

// Priority constants
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is a known priority
func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Rank orders priorities low < medium < high
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	default:
		return 0
	}
}

// Status of a task
type Status string

// Status constants
const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// Valid reports whether s is a known status
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusInProgress || s == StatusCompleted
}

// SortField selects the ordering of a task list
type SortField string

// SortField constants
const (
	SortByDueDate   SortField = "due_date"
	SortByPriority  SortField = "priority"
	SortByCreatedAt SortField = "created_at"
)

// Valid reports whether f is a known sort field
func (f SortField) Valid() bool {
	return f == SortByDueDate || f == SortByPriority || f == SortByCreatedAt
}

// Task represents a task in the system
type Task struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Priority    Priority   `json:"priority"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	AssigneeID  *int       `json:"assignee_id"`
	CreatorID   int        `json:"creator_id"`
}

// CanEdit reports whether the user is the creator or the assignee of the task
func (t *Task) CanEdit(userID int) bool {
	return t.CreatorID == userID || (t.AssigneeID != nil && *t.AssigneeID == userID)
}

// TaskFilter holds list query parameters. Empty values mean "no filter".
type TaskFilter struct {
	Status   Status
	Priority Priority
	SortBy   SortField
}

// CreateTaskRequest represents a request to create a task
type CreateTaskRequest struct {
	Title       string           `json:"title"`
	Description Optional[string] `json:"description" swaggertype:"string"`
	DueDate     Optional[string] `json:"due_date" swaggertype:"string" example:"2026-05-01T17:00:00Z"`
	Priority    Optional[string] `json:"priority" swaggertype:"string" enums:"low,medium,high"`
	Status      Optional[string] `json:"status" swaggertype:"string" enums:"pending,in-progress,completed"`
	AssigneeID  UserRef          `json:"assignee_id" swaggertype:"integer"`
}

// UpdateTaskRequest represents a partial task update.
// Only keys present in the JSON body are applied.
type UpdateTaskRequest struct {
	Title       Optional[string] `json:"title" swaggertype:"string"`
	Description Optional[string] `json:"description" swaggertype:"string"`
	DueDate     Optional[string] `json:"due_date" swaggertype:"string"`
	Priority    Optional[string] `json:"priority" swaggertype:"string" enums:"low,medium,high"`
	Status      Optional[string] `json:"status" swaggertype:"string" enums:"pending,in-progress,completed"`
	AssigneeID  UserRef          `json:"assignee_id" swaggertype:"integer"`
}

// dueDateLayouts are tried in order; layouts without a zone are read as UTC
var dueDateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"Jan 2, 2006",
	"Jan 2 2006",
	"2 Jan 2006",
	"January 2, 2006",
	"Mon, 02 Jan 2006 15:04:05 MST",
}

// ParseDueDate parses a due date written in one of the common date or date-time forms
func ParseDueDate(value string) (time.Time, error) {
	s := strings.TrimSpace(value)
	for _, layout := range dueDateLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %q", value)
}
