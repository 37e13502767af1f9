package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baiirun/kanban/internal/board"
	"github.com/baiirun/kanban/internal/model"
	"github.com/baiirun/kanban/internal/storage"
	"github.com/baiirun/kanban/internal/view"
)

var fixedNow = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func task(id string, status model.Status, order int) model.Task {
	return model.Task{
		ID:        model.TaskID(id),
		Title:     "Task " + id,
		Status:    status,
		Priority:  model.PriorityMedium,
		CreatedAt: fixedNow,
		Order:     order,
	}
}

// setupModel returns a model over a store seeded with tasks, sized like a
// 120x40 terminal.
func setupModel(t *testing.T, tasks ...model.Task) (Model, *board.Store) {
	t.Helper()
	ctx := context.Background()

	log := logrus.New()
	log.SetOutput(io.Discard)

	slot := storage.NewMemorySlot()
	if len(tasks) > 0 {
		b, err := storage.Encode(tasks)
		require.NoError(t, err)
		require.NoError(t, slot.Set(ctx, storage.DefaultKey, b))
	}
	n := 0
	store := board.New(ctx, storage.NewAdapter(slot, storage.DefaultKey, log),
		board.WithClock(func() time.Time { return fixedNow }),
		board.WithIDGenerator(func() model.TaskID {
			n++
			return model.TaskID(fmt.Sprintf("new%d", n))
		}),
		board.WithLogger(log),
	)

	m := New(ctx, store)
	m.now = func() time.Time { return fixedNow }
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model), store
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends keys in order and returns the model with the last command.
func press(m Model, keys ...string) (Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(key(k))
		m = next.(Model)
	}
	return m, cmd
}

// run executes an action command and feeds its result back into the model.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd, "expected an action command")
	msg, ok := cmd().(actionMsg)
	require.True(t, ok, "expected actionMsg")
	next, _ := m.Update(msg)
	return next.(Model)
}

func mouse(m Model, action tea.MouseAction, x, y int) (Model, tea.Cmd) {
	next, cmd := m.Update(tea.MouseMsg{X: x, Y: y, Action: action, Button: tea.MouseButtonLeft})
	return next.(Model), cmd
}

func ids(tasks []model.Task) []model.TaskID {
	out := make([]model.TaskID, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func column(s *board.Store, status model.Status) []model.TaskID {
	return ids(view.Column(s.Tasks(), status))
}

func TestNavigation(t *testing.T) {
	m, _ := setupModel(t,
		task("a", model.StatusTodo, 0),
		task("b", model.StatusTodo, 1),
		task("c", model.StatusDone, 0),
	)

	m, _ = press(m, "j", "j", "j")
	assert.Equal(t, 1, m.cursor, "cursor stops at the last card")

	m, _ = press(m, "l")
	assert.Equal(t, 1, m.col)
	assert.Equal(t, 0, m.cursor, "empty column clamps the cursor")

	m, _ = press(m, "l", "l", "l")
	assert.Equal(t, 2, m.col, "stops at the last column")
	sel, ok := m.selected()
	require.True(t, ok)
	assert.Equal(t, model.TaskID("c"), sel.ID)

	m, _ = press(m, "h", "h", "h", "k")
	assert.Equal(t, 0, m.col)
	assert.Equal(t, 0, m.cursor)
}

func TestAddTask(t *testing.T) {
	m, store := setupModel(t)

	m, _ = press(m, "n", "Buy milk", "enter", "2% only", "enter", "2025-06-03")
	assert.Equal(t, InputDue, m.inputMode)
	m, cmd := press(m, "enter")
	assert.Equal(t, InputNone, m.inputMode)

	m = run(t, m, cmd)
	require.Equal(t, 1, store.Len())
	got := store.Tasks()[0]
	assert.Equal(t, "Buy milk", got.Title)
	assert.Equal(t, "2% only", got.Description)
	assert.Equal(t, model.PriorityMedium, got.Priority)
	assert.Equal(t, model.StatusTodo, got.Status)
	require.NotNil(t, got.DueDate)
	assert.Equal(t, "2025-06-03", got.DueDate.String())
	assert.Contains(t, m.message, "Buy milk")
	assert.False(t, m.pending)
}

func TestAddTask_TitleRequired(t *testing.T) {
	m, store := setupModel(t)

	m, cmd := press(m, "n", "   ", "enter")
	assert.Nil(t, cmd)
	assert.Equal(t, InputTitle, m.inputMode, "form stays open")
	assert.Error(t, m.err)
	assert.Equal(t, 0, store.Len())
}

func TestAddTask_InvalidDueDate(t *testing.T) {
	m, store := setupModel(t)

	m, cmd := press(m, "n", "Pay rent", "enter", "enter", "next friday", "enter")
	assert.Nil(t, cmd)
	assert.Equal(t, InputDue, m.inputMode)
	assert.Error(t, m.err)
	assert.Equal(t, 0, store.Len())
}

func TestAddTask_EscCancels(t *testing.T) {
	m, store := setupModel(t)

	m, cmd := press(m, "n", "Nope", "esc")
	assert.Nil(t, cmd)
	assert.Equal(t, InputNone, m.inputMode)
	assert.Equal(t, 0, store.Len())

	// The next form starts empty.
	m, _ = press(m, "n")
	assert.Equal(t, "", m.input.Value())
}

func TestDelete(t *testing.T) {
	m, store := setupModel(t,
		task("a", model.StatusTodo, 0),
		task("b", model.StatusTodo, 1),
	)

	m, cmd := press(m, "j", "x")
	m = run(t, m, cmd)

	assert.Equal(t, []model.TaskID{"a"}, column(store, model.StatusTodo))
	assert.Equal(t, 0, m.cursor, "cursor clamps after the last card goes")
}

func TestCyclePriority(t *testing.T) {
	m, store := setupModel(t, task("a", model.StatusTodo, 0))

	m, cmd := press(m, "p")
	m = run(t, m, cmd)

	got, ok := store.Get("a")
	require.True(t, ok)
	assert.Equal(t, model.PriorityHigh, got.Priority)
	assert.Contains(t, m.message, "high")
}

func TestPendingActionBlocksAnother(t *testing.T) {
	m, store := setupModel(t,
		task("a", model.StatusTodo, 0),
		task("b", model.StatusTodo, 1),
	)

	m, first := press(m, "x")
	require.NotNil(t, first)
	m, second := press(m, "x")
	assert.Nil(t, second)

	run(t, m, first)
	assert.Equal(t, 1, store.Len())
}

func TestKeyboardMove_WithinColumn(t *testing.T) {
	m, store := setupModel(t,
		task("a", model.StatusTodo, 0),
		task("b", model.StatusTodo, 1),
		task("c", model.StatusTodo, 2),
	)

	// Grab a, aim at the bottom half of b.
	m, _ = press(m, " ", "j", "j", "j")
	fb := m.drag.Feedback()
	require.True(t, fb.Dragging)
	require.NotNil(t, fb.Candidate)
	assert.Equal(t, model.TaskID("b"), fb.Candidate.TaskID)
	assert.False(t, fb.Candidate.Before)

	m, cmd := press(m, "enter")
	m = run(t, m, cmd)

	assert.Equal(t, []model.TaskID{"b", "a", "c"}, column(store, model.StatusTodo))
	assert.False(t, m.drag.Dragging())
	assert.Equal(t, 1, m.cursor, "focus follows the moved card")
}

func TestKeyboardMove_ToEmptyColumn(t *testing.T) {
	m, store := setupModel(t,
		task("a", model.StatusTodo, 0),
		task("b", model.StatusTodo, 1),
	)

	m, _ = press(m, " ", "l")
	fb := m.drag.Feedback()
	require.NotNil(t, fb.Column)
	assert.Equal(t, model.StatusInProgress, *fb.Column)

	m, cmd := press(m, "enter")
	m = run(t, m, cmd)

	got, _ := store.Get("a")
	assert.Equal(t, model.StatusInProgress, got.Status)
	assert.Equal(t, 0, got.Order)
	assert.Equal(t, 1, m.col)
}

func TestKeyboardMove_PastLastCardAppends(t *testing.T) {
	m, store := setupModel(t,
		task("a", model.StatusTodo, 0),
		task("x", model.StatusDone, 0),
		task("y", model.StatusDone, 1),
	)

	// Two cards in done: slots 0..3 are cards, slot 4 the background.
	m, _ = press(m, " ", "l", "l", "j", "j", "j", "j", "j", "j")
	assert.Equal(t, 4, m.pointer.slot)

	m, cmd := press(m, "enter")
	run(t, m, cmd)

	assert.Equal(t, []model.TaskID{"x", "y", "a"}, column(store, model.StatusDone))
	got, _ := store.Get("a")
	assert.Equal(t, 2, got.Order)
}

func TestKeyboardMove_EscCancels(t *testing.T) {
	m, store := setupModel(t,
		task("a", model.StatusTodo, 0),
		task("b", model.StatusTodo, 1),
	)
	before := store.Tasks()

	m, _ = press(m, " ", "j", "j", "j")
	m, cmd := press(m, "esc")

	assert.Nil(t, cmd)
	assert.False(t, m.drag.Dragging())
	assert.Equal(t, before, store.Tasks())
}

func TestMouseDrag_OntoOtherColumnCard(t *testing.T) {
	m, store := setupModel(t,
		task("a", model.StatusTodo, 0),
		task("z", model.StatusInProgress, 0),
	)
	lay := m.layout()

	m, _ = mouse(m, tea.MouseActionPress, lay.columnX(0)+3, lay.cardY(0)+2)
	require.True(t, m.drag.Dragging())
	assert.Equal(t, model.TaskID("a"), m.drag.Subject())

	// Top edge of z: insert before it.
	m, _ = mouse(m, tea.MouseActionMotion, lay.columnX(1)+3, lay.cardY(0))
	fb := m.drag.Feedback()
	require.NotNil(t, fb.Candidate)
	assert.True(t, fb.Candidate.Before)

	m, cmd := mouse(m, tea.MouseActionRelease, lay.columnX(1)+3, lay.cardY(0))
	m = run(t, m, cmd)

	assert.Equal(t, []model.TaskID{"a", "z"}, column(store, model.StatusInProgress))
	assert.Empty(t, column(store, model.StatusTodo))
	assert.Equal(t, 1, m.col)
	assert.Equal(t, 0, m.cursor)
}

func TestMouseDrag_OntoColumnBackground(t *testing.T) {
	m, store := setupModel(t, task("a", model.StatusTodo, 0))
	lay := m.layout()

	m, _ = mouse(m, tea.MouseActionPress, lay.columnX(0)+1, lay.cardY(0)+1)
	m, cmd := mouse(m, tea.MouseActionRelease, lay.columnX(2)+1, lay.cardY(3))
	run(t, m, cmd)

	got, _ := store.Get("a")
	assert.Equal(t, model.StatusDone, got.Status)
}

func TestMouseDrag_ReleaseOutsideAborts(t *testing.T) {
	m, store := setupModel(t, task("a", model.StatusTodo, 0))
	before := store.Tasks()
	lay := m.layout()

	m, _ = mouse(m, tea.MouseActionPress, lay.columnX(0)+1, lay.cardY(0)+1)
	m, cmd := mouse(m, tea.MouseActionRelease, 0, lay.cardY(0))

	assert.Nil(t, cmd)
	assert.False(t, m.drag.Dragging())
	assert.Equal(t, before, store.Tasks())
}

func TestMouseClickSelects(t *testing.T) {
	m, _ := setupModel(t,
		task("a", model.StatusTodo, 0),
		task("b", model.StatusTodo, 1),
	)
	lay := m.layout()

	m, _ = mouse(m, tea.MouseActionPress, lay.columnX(0)+1, lay.cardY(1)+2)
	m, cmd := mouse(m, tea.MouseActionRelease, lay.columnX(0)+1, lay.cardY(1)+2)

	assert.Nil(t, cmd)
	assert.Equal(t, 1, m.cursor)
	assert.False(t, m.drag.Dragging())
}

func TestLayoutHit(t *testing.T) {
	lay := newLayout(120, []int{2, 0, 1})
	require.Equal(t, 38, lay.columnWidth)

	tests := []struct {
		name string
		x, y int
		want hit
	}{
		{"left margin", 0, 10, hit{col: -1, card: -1}},
		{"column header", 2, 2, hit{col: 0, card: -1}},
		{"first card top row", 2, 4, hit{col: 0, card: 0, offsetY: 0.5}},
		{"second card bottom row", 39, 13, hit{col: 0, card: 1, offsetY: 4.5}},
		{"below the cards", 10, 14, hit{col: 0, card: -1}},
		{"gap between columns", 40, 5, hit{col: -1, card: -1}},
		{"empty column", 41, 4, hit{col: 1, card: -1}},
		{"third column card", 80, 6, hit{col: 2, card: 0, offsetY: 2.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lay.hit(tt.x, tt.y))
		})
	}
}

func TestNewLayout_MinimumWidth(t *testing.T) {
	lay := newLayout(30, []int{0, 0, 0})
	assert.Equal(t, minColumnWidth, lay.columnWidth)
}

func TestView(t *testing.T) {
	overdue := task("a", model.StatusTodo, 0)
	overdue.Title = "File taxes"
	due := model.DateOf(fixedNow).AddDays(-2)
	overdue.DueDate = &due
	m, _ := setupModel(t, overdue, task("b", model.StatusDone, 0))

	out := m.View()
	assert.Contains(t, out, "To Do (1)")
	assert.Contains(t, out, "In Progress (0)")
	assert.Contains(t, out, "Done (1)")
	assert.Contains(t, out, "File taxes")
	assert.Contains(t, out, "Overdue")
	assert.Contains(t, out, "No tasks")

	m, _ = press(m, " ", "l")
	assert.Contains(t, m.View(), "drop at end")
}

func TestView_CardsFollowLayout(t *testing.T) {
	m, _ := setupModel(t,
		task("a", model.StatusTodo, 0),
		task("b", model.StatusTodo, 1),
	)

	lines := strings.Split(m.View(), "\n")
	lay := m.layout()
	// Each card's title sits one row below its top border.
	assert.Contains(t, lines[lay.cardY(0)+1], "Task a")
	assert.Contains(t, lines[lay.cardY(1)+1], "Task b")
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"much too long", 8, "much to…"},
		{"two\nlines", 20, "two lines"},
		{"abc", 0, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, truncate(tt.in, tt.width))
	}
}
