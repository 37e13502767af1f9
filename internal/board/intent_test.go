package board

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baiirun/kanban/internal/model"
)

func TestApply(t *testing.T) {
	ctx := context.Background()
	s, p := setupStore(t)

	steps := []struct {
		intent Intent
		want   bool
	}{
		{AddIntent{Title: "first", Priority: model.PriorityLow}, true},   // t1
		{AddIntent{Title: "second", Priority: model.PriorityHigh}, true}, // t2
		{AddIntent{Title: "   "}, false},
		{CyclePriorityIntent{ID: "t1"}, true},
		{ReorderIntent{Dragged: "t2", Target: "t1", Before: true}, true},
		{ReorderIntent{Dragged: "t2", Target: "t2"}, false},
		{AppendIntent{Dragged: "t1", Status: model.StatusInProgress}, true},
		{MoveIntent{ID: "t2", Status: model.StatusDone, Order: 0}, true},
		{DeleteIntent{ID: "t404"}, false},
		{DeleteIntent{ID: "t2"}, true},
		{nil, false},
	}

	for i, step := range steps {
		ok, err := s.Apply(ctx, step.intent)
		require.NoError(t, err, "step %d", i)
		assert.Equal(t, step.want, ok, "step %d (%T)", i, step.intent)
	}

	require.Equal(t, 1, s.Len())
	got, _ := s.Get("t1")
	assert.Equal(t, model.StatusInProgress, got.Status)
	assert.Equal(t, model.PriorityMedium, got.Priority)
	assert.Equal(t, 0, got.Order)

	// One write per successful step.
	assert.Len(t, p.saves, 7)
}
