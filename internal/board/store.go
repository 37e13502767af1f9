// Package board owns the task collection. All mutations go through Store,
// and each one is written through to the persister before it returns.
//
// Invalid input and unknown ids are not errors: the operation reports false
// and leaves the collection alone. The only errors are persistence failures.
package board

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/baiirun/kanban/internal/model"
)

// Persister loads and saves the full collection.
type Persister interface {
	Load(ctx context.Context) []model.Task
	Save(ctx context.Context, tasks []model.Task) error
}

// Store is the single owner of the task collection. It is not safe for
// concurrent use; callers that receive overlapping events must serialize.
type Store struct {
	tasks   []model.Task
	persist Persister
	now     func() time.Time
	newID   func() model.TaskID
	log     logrus.FieldLogger
}

type Option func(*Store)

// WithClock sets the time source used for createdAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithIDGenerator(gen func() model.TaskID) Option {
	return func(s *Store) { s.newID = gen }
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Store) { s.log = log }
}

// New loads the persisted collection and returns a store that owns it.
func New(ctx context.Context, p Persister, opts ...Option) *Store {
	s := &Store{
		persist: p,
		now:     time.Now,
		newID:   model.GenerateID,
		log:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.tasks = p.Load(ctx)
	if s.tasks == nil {
		s.tasks = []model.Task{}
	}
	return s
}

// Tasks returns a copy of the collection in collection order.
func (s *Store) Tasks() []model.Task {
	out := make([]model.Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = cloneTask(t)
	}
	return out
}

func (s *Store) Get(id model.TaskID) (model.Task, bool) {
	i := s.index(id)
	if i < 0 {
		return model.Task{}, false
	}
	return cloneTask(s.tasks[i]), true
}

func (s *Store) Len() int { return len(s.tasks) }

// Add appends a new todo task at the end of the todo column. A title that is
// empty after trimming is rejected. An unknown priority falls back to medium.
func (s *Store) Add(ctx context.Context, title, description string, due *model.Date, priority model.Priority) (model.Task, bool, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Task{}, false, nil
	}
	if !priority.IsValid() {
		priority = model.PriorityMedium
	}

	task := model.Task{
		ID:          s.uniqueID(),
		Title:       title,
		Description: strings.TrimSpace(description),
		Status:      model.StatusTodo,
		Priority:    priority,
		CreatedAt:   s.now(),
		Order:       s.count(model.StatusTodo),
	}
	if due != nil {
		d := *due
		task.DueDate = &d
	}
	s.tasks = append(s.tasks, task)

	err := s.commit(ctx, "add", logrus.Fields{"task_id": task.ID, "order": task.Order})
	return cloneTask(task), true, err
}

// Delete removes the task. Siblings keep their order values; the gap is
// closed by the next reorder of that column.
func (s *Store) Delete(ctx context.Context, id model.TaskID) (bool, error) {
	i := s.index(id)
	if i < 0 {
		return false, nil
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	return true, s.commit(ctx, "delete", logrus.Fields{"task_id": id})
}

// CyclePriority advances low → medium → high → low.
func (s *Store) CyclePriority(ctx context.Context, id model.TaskID) (bool, error) {
	i := s.index(id)
	if i < 0 {
		return false, nil
	}
	s.tasks[i].Priority = s.tasks[i].Priority.Next()
	return true, s.commit(ctx, "cycle priority", logrus.Fields{"task_id": id, "priority": s.tasks[i].Priority})
}

// MoveToStatus sets status and order verbatim.
func (s *Store) MoveToStatus(ctx context.Context, id model.TaskID, status model.Status, order int) (bool, error) {
	i := s.index(id)
	if i < 0 || !status.IsValid() {
		return false, nil
	}
	s.tasks[i].Status = status
	s.tasks[i].Order = order
	return true, s.commit(ctx, "move", logrus.Fields{"task_id": id, "status": status, "order": order})
}

func (s *Store) commit(ctx context.Context, op string, fields logrus.Fields) error {
	log := s.log.WithFields(fields).WithField("op", op)
	if err := s.persist.Save(ctx, s.tasks); err != nil {
		log.WithError(err).Error("failed to persist board")
		return err
	}
	log.Debug("board updated")
	return nil
}

func (s *Store) index(id model.TaskID) int {
	return indexOf(s.tasks, id)
}

func (s *Store) count(status model.Status) int {
	n := 0
	for _, t := range s.tasks {
		if t.Status == status {
			n++
		}
	}
	return n
}

func (s *Store) uniqueID() model.TaskID {
	for {
		id := s.newID()
		if id != "" && s.index(id) < 0 {
			return id
		}
	}
}

func indexOf(tasks []model.Task, id model.TaskID) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// columnOrder returns the indices of tasks with the given status in visible
// order: ascending order value, collection position breaking ties.
func columnOrder(tasks []model.Task, status model.Status, skip model.TaskID) []int {
	var idx []int
	for i, t := range tasks {
		if t.Status == status && t.ID != skip {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return tasks[idx[a]].Order < tasks[idx[b]].Order
	})
	return idx
}

func cloneTask(t model.Task) model.Task {
	if t.DueDate != nil {
		d := *t.DueDate
		t.DueDate = &d
	}
	return t
}
