package view

import (
	"sort"
	"time"

	"github.com/baiirun/kanban/internal/model"
)

// Report contains aggregated board status.
type Report struct {
	Total    int
	Counts   map[model.Status]int
	Overdue  []model.Task // not done, due before today, most overdue first
	DueToday []model.Task // not done, due today
	DueSoon  []model.Task // not done, due within the next 3 days
}

// Summarize builds a status report. Done tasks never count as overdue.
func Summarize(tasks []model.Task, today time.Time) Report {
	r := Report{
		Total:  len(tasks),
		Counts: make(map[model.Status]int, len(model.Statuses)),
	}
	for _, s := range model.Statuses {
		r.Counts[s] = 0
	}

	for _, col := range Board(tasks) {
		r.Counts[col.Status] = col.Count()
		if col.Status == model.StatusDone {
			continue
		}
		for _, t := range col.Tasks {
			u, ok := DueUrgency(t.DueDate, today)
			if !ok {
				continue
			}
			switch u.Kind {
			case Overdue:
				r.Overdue = append(r.Overdue, t)
			case DueToday:
				r.DueToday = append(r.DueToday, t)
			case DueTomorrow, DueSoon:
				r.DueSoon = append(r.DueSoon, t)
			}
		}
	}

	sortByDue(r.Overdue)
	sortByDue(r.DueSoon)
	return r
}

func sortByDue(tasks []model.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].DueDate.Time().Before(tasks[j].DueDate.Time())
	})
}
