package board

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/baiirun/kanban/internal/model"
)

// Reorder moves dragged next to target, into target's column, and renumbers
// that column 0..n-1. insertBefore places it above target, otherwise below.
// Dropping a task on itself, or naming an unknown task, changes nothing.
func (s *Store) Reorder(ctx context.Context, draggedID, targetID model.TaskID, insertBefore bool) (bool, error) {
	if draggedID == targetID {
		return false, nil
	}
	di, ti := s.index(draggedID), s.index(targetID)
	if di < 0 || ti < 0 {
		return false, nil
	}

	dragged := s.tasks[di]
	dest := s.tasks[ti].Status
	dragged.Status = dest

	// Visible order of the destination column without the dragged task,
	// taken before the collection is spliced.
	var seq []model.TaskID
	for _, i := range columnOrder(s.tasks, dest, draggedID) {
		seq = append(seq, s.tasks[i].ID)
	}
	at := 0
	for i, id := range seq {
		if id == targetID {
			at = i
			break
		}
	}
	if !insertBefore {
		at++
	}
	seq = insertAt(seq, at, draggedID)

	rest := make([]model.Task, 0, len(s.tasks))
	rest = append(rest, s.tasks[:di]...)
	rest = append(rest, s.tasks[di+1:]...)
	pos := indexOf(rest, targetID)
	if !insertBefore {
		pos++
	}
	rest = insertAt(rest, pos, dragged)

	for order, id := range seq {
		rest[indexOf(rest, id)].Order = order
	}
	s.tasks = rest

	return true, s.commit(ctx, "reorder", logrus.Fields{
		"task_id":   draggedID,
		"target_id": targetID,
		"before":    insertBefore,
		"status":    dest,
	})
}

// AppendToColumn moves the task to the end of status: its order becomes one
// more than the largest order among the column's other tasks, or 0 when it
// has none. Other tasks are not renumbered.
func (s *Store) AppendToColumn(ctx context.Context, id model.TaskID, status model.Status) (bool, error) {
	i := s.index(id)
	if i < 0 || !status.IsValid() {
		return false, nil
	}

	order, empty := 0, true
	for _, t := range s.tasks {
		if t.Status != status || t.ID == id {
			continue
		}
		if empty || t.Order+1 > order {
			order = t.Order + 1
			empty = false
		}
	}

	s.tasks[i].Status = status
	s.tasks[i].Order = order
	return true, s.commit(ctx, "append", logrus.Fields{"task_id": id, "status": status, "order": order})
}

func insertAt[T any](s []T, i int, v T) []T {
	if i < 0 {
		i = 0
	}
	if i > len(s) {
		i = len(s)
	}
	var zero T
	s = append(s, zero)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}
