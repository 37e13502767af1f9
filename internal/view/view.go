// Package view derives what the board shows from the task collection. Every
// function is pure and recomputed on each render.
package view

import (
	"sort"

	"github.com/baiirun/kanban/internal/model"
)

// Column returns the tasks with the given status sorted by order. Tasks with
// equal order keep their collection order.
func Column(tasks []model.Task, status model.Status) []model.Task {
	out := []model.Task{}
	for _, t := range tasks {
		if t.Status == status {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Order < out[j].Order
	})
	return out
}

// ColumnView is one rendered column.
type ColumnView struct {
	Status model.Status
	Title  string
	Color  string
	Tasks  []model.Task
}

func (c ColumnView) Count() int { return len(c.Tasks) }

// Board returns every column in display order.
func Board(tasks []model.Task) []ColumnView {
	cols := make([]ColumnView, 0, len(model.Statuses))
	for _, s := range model.Statuses {
		cols = append(cols, ColumnView{
			Status: s,
			Title:  s.Title(),
			Color:  s.Color(),
			Tasks:  Column(tasks, s),
		})
	}
	return cols
}
