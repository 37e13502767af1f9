// Package storage persists the board snapshot: a JSON array of task records
// kept under one key in a key-value slot.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/baiirun/kanban/internal/model"
)

// DefaultKey is the slot key the board snapshot lives under.
const DefaultKey = "kanbanTasks"

// ErrNotFound is returned by Slot.Get when nothing is stored under the key.
var ErrNotFound = errors.New("slot is empty")

// Slot is a single-value-per-key store.
type Slot interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Encode serializes the collection in its current order.
func Encode(tasks []model.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []model.Task{}
	}
	b, err := json.Marshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tasks: %w", err)
	}
	return b, nil
}

// Decode parses a snapshot. Records written before a field existed are
// accepted: a missing priority becomes medium, a missing order is 0 and a
// missing due date stays nil. A record without an id, with a duplicate id or
// with an unknown status makes the whole snapshot invalid.
func Decode(b []byte) ([]model.Task, error) {
	var tasks []model.Task
	if err := json.Unmarshal(b, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}
	if tasks == nil {
		// "null"
		return nil, fmt.Errorf("failed to decode tasks: snapshot is not an array")
	}

	seen := make(map[model.TaskID]bool, len(tasks))
	for i := range tasks {
		t := &tasks[i]
		if t.ID == "" {
			return nil, fmt.Errorf("record %d: missing id", i)
		}
		if seen[t.ID] {
			return nil, fmt.Errorf("record %d: duplicate id %s", i, t.ID)
		}
		seen[t.ID] = true
		if !t.Status.IsValid() {
			return nil, fmt.Errorf("record %d: invalid status: %q", i, t.Status)
		}
		if t.Priority == "" {
			t.Priority = model.PriorityMedium
		}
	}
	return tasks, nil
}

// Adapter reads and writes the board snapshot through a Slot.
type Adapter struct {
	slot Slot
	key  string
	log  logrus.FieldLogger
}

func NewAdapter(slot Slot, key string, log logrus.FieldLogger) *Adapter {
	if key == "" {
		key = DefaultKey
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Adapter{slot: slot, key: key, log: log.WithField("key", key)}
}

// Load returns the persisted collection. An empty, unreadable or malformed
// slot yields an empty collection; Load never fails.
func (a *Adapter) Load(ctx context.Context) []model.Task {
	b, err := a.slot.Get(ctx, a.key)
	if errors.Is(err, ErrNotFound) {
		a.log.Debug("no saved board, starting empty")
		return []model.Task{}
	}
	if err != nil {
		a.log.WithError(err).Warn("failed to read saved board, starting empty")
		return []model.Task{}
	}

	tasks, err := Decode(b)
	if err != nil {
		a.log.WithError(err).Warn("saved board is malformed, starting empty")
		return []model.Task{}
	}
	a.log.WithField("tasks", len(tasks)).Debug("loaded board")
	return tasks
}

// Save writes the full collection with a single Set.
func (a *Adapter) Save(ctx context.Context, tasks []model.Task) error {
	b, err := Encode(tasks)
	if err != nil {
		return err
	}
	if err := a.slot.Set(ctx, a.key, b); err != nil {
		return fmt.Errorf("failed to save board: %w", err)
	}
	return nil
}

func (a *Adapter) Close() error {
	return a.slot.Close()
}
