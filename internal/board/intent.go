package board

import (
	"context"

	"github.com/baiirun/kanban/internal/model"
)

// Intent is one requested mutation. Presentation adapters translate gestures
// into intents and hand them to Store.Apply.
type Intent interface {
	apply(ctx context.Context, s *Store) (bool, error)
}

type AddIntent struct {
	Title       string
	Description string
	DueDate     *model.Date
	Priority    model.Priority
}

type DeleteIntent struct {
	ID model.TaskID
}

type CyclePriorityIntent struct {
	ID model.TaskID
}

type MoveIntent struct {
	ID     model.TaskID
	Status model.Status
	Order  int
}

// ReorderIntent is a drop on a sibling card.
type ReorderIntent struct {
	Dragged model.TaskID
	Target  model.TaskID
	Before  bool
}

// AppendIntent is a drop on a column's background.
type AppendIntent struct {
	Dragged model.TaskID
	Status  model.Status
}

func (in AddIntent) apply(ctx context.Context, s *Store) (bool, error) {
	_, ok, err := s.Add(ctx, in.Title, in.Description, in.DueDate, in.Priority)
	return ok, err
}

func (in DeleteIntent) apply(ctx context.Context, s *Store) (bool, error) {
	return s.Delete(ctx, in.ID)
}

func (in CyclePriorityIntent) apply(ctx context.Context, s *Store) (bool, error) {
	return s.CyclePriority(ctx, in.ID)
}

func (in MoveIntent) apply(ctx context.Context, s *Store) (bool, error) {
	return s.MoveToStatus(ctx, in.ID, in.Status, in.Order)
}

func (in ReorderIntent) apply(ctx context.Context, s *Store) (bool, error) {
	return s.Reorder(ctx, in.Dragged, in.Target, in.Before)
}

func (in AppendIntent) apply(ctx context.Context, s *Store) (bool, error) {
	return s.AppendToColumn(ctx, in.Dragged, in.Status)
}

// Apply dispatches the intent to the matching store operation.
func (s *Store) Apply(ctx context.Context, in Intent) (bool, error) {
	if in == nil {
		return false, nil
	}
	return in.apply(ctx, s)
}
