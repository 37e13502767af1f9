package main

import (
	"time"

	"github.com/baiirun/kanban/internal/model"
	"github.com/baiirun/kanban/internal/view"
)

// TaskJSON is the JSON output shape for a task.
type TaskJSON struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	Order       int    `json:"order"`
	DueDate     string `json:"dueDate,omitempty"`
	Urgency     string `json:"urgency,omitempty"`
	DueLabel    string `json:"dueLabel,omitempty"`
	CreatedAt   string `json:"createdAt"`
}

// StatusJSON is the JSON output shape for the status command.
type StatusJSON struct {
	Total    int            `json:"total"`
	Counts   map[string]int `json:"counts"`
	Overdue  []TaskJSON     `json:"overdue"`
	DueToday []TaskJSON     `json:"dueToday"`
	DueSoon  []TaskJSON     `json:"dueSoon"`
}

func toTaskJSON(t model.Task, today time.Time) TaskJSON {
	out := TaskJSON{
		ID:          string(t.ID),
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		Order:       t.Order,
		CreatedAt:   t.CreatedAt.UTC().Format(time.RFC3339),
	}
	if t.DueDate != nil {
		out.DueDate = t.DueDate.String()
	}
	if u, ok := view.DueUrgency(t.DueDate, today); ok {
		out.Urgency = string(u.Kind)
		out.DueLabel = u.Label()
	}
	return out
}

func toTaskListJSON(tasks []model.Task, today time.Time) []TaskJSON {
	out := make([]TaskJSON, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskJSON(t, today))
	}
	return out
}

func toStatusJSON(r view.Report, today time.Time) StatusJSON {
	counts := make(map[string]int, len(r.Counts))
	for s, n := range r.Counts {
		counts[string(s)] = n
	}
	return StatusJSON{
		Total:    r.Total,
		Counts:   counts,
		Overdue:  toTaskListJSON(r.Overdue, today),
		DueToday: toTaskListJSON(r.DueToday, today),
		DueSoon:  toTaskListJSON(r.DueSoon, today),
	}
}
