// Package model defines the task record persisted by the board and the
// closed value sets (status, priority) it is built from.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "inprogress"
	StatusDone       Status = "done"
)

// Statuses lists every status in column display order.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusDone}

func (s Status) IsValid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Title is the column heading shown for the status.
func (s Status) Title() string {
	switch s {
	case StatusTodo:
		return "To Do"
	case StatusInProgress:
		return "In Progress"
	case StatusDone:
		return "Done"
	default:
		return string(s)
	}
}

// Color is the column accent colour as a hex triplet.
func (s Status) Color() string {
	switch s {
	case StatusTodo:
		return "#3498db"
	case StatusInProgress:
		return "#f39c12"
	case StatusDone:
		return "#27ae60"
	default:
		return "#95a5a6"
	}
}

// ParseStatus accepts the canonical value plus a few spellings people type
// on the command line ("in_progress", "in-progress", "doing").
func ParseStatus(s string) (Status, error) {
	switch s {
	case "todo", "to-do", "to_do":
		return StatusTodo, nil
	case "inprogress", "in_progress", "in-progress", "doing":
		return StatusInProgress, nil
	case "done":
		return StatusDone, nil
	}
	return "", fmt.Errorf("invalid status: %q (want todo, inprogress or done)", s)
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

var priorityCycle = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Next returns the following priority in the cycle low → medium → high → low.
// An unknown priority restarts the cycle at low.
func (p Priority) Next() Priority {
	for i, q := range priorityCycle {
		if q == p {
			return priorityCycle[(i+1)%len(priorityCycle)]
		}
	}
	return priorityCycle[0]
}

func ParsePriority(s string) (Priority, error) {
	p := Priority(s)
	if !p.IsValid() {
		return "", fmt.Errorf("invalid priority: %q (want low, medium or high)", s)
	}
	return p, nil
}

// TaskID is an opaque task identifier.
type TaskID string

// UnmarshalJSON accepts a string or a bare JSON number. Snapshots written by
// the browser board used millisecond timestamps as ids.
func (id *TaskID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = TaskID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("invalid task id %s: %w", b, err)
	}
	*id = TaskID(n.String())
	return nil
}

// GenerateID returns a new id of the form "tk-" followed by 8 hex chars.
func GenerateID() TaskID {
	u := uuid.New()
	return TaskID(fmt.Sprintf("tk-%x", u[:4]))
}

type Task struct {
	ID          TaskID    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	DueDate     *Date     `json:"dueDate,omitempty"`
	Status      Status    `json:"status"`
	Priority    Priority  `json:"priority"`
	CreatedAt   time.Time `json:"createdAt"`
	Order       int       `json:"order"`
}

// UnmarshalJSON decodes a task record, treating an empty dueDate string the
// same as an absent one.
func (t *Task) UnmarshalJSON(b []byte) error {
	type plain Task
	aux := struct {
		*plain
		DueDate *string `json:"dueDate"`
	}{plain: (*plain)(t)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	t.DueDate = nil
	if aux.DueDate == nil || *aux.DueDate == "" {
		return nil
	}
	var d Date
	if err := d.UnmarshalJSON([]byte(fmt.Sprintf("%q", *aux.DueDate))); err != nil {
		return err
	}
	t.DueDate = &d
	return nil
}
