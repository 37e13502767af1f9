// Package tui provides an interactive terminal kanban board using Bubble Tea.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/baiirun/kanban/internal/board"
	"github.com/baiirun/kanban/internal/drag"
	"github.com/baiirun/kanban/internal/model"
	"github.com/baiirun/kanban/internal/view"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// InputMode represents which field of the new-task form is active.
type InputMode int

const (
	InputNone        InputMode = iota
	InputTitle                 // Entering new task title
	InputDescription           // Entering new task description
	InputDue                   // Entering due date (YYYY-MM-DD, blank for none)
)

// Model is the main Bubble Tea model for the board.
type Model struct {
	ctx   context.Context
	store *board.Store
	tasks []model.Task // snapshot of the store, refreshed after each action
	now   func() time.Time

	col    int // focused column
	cursor int // focused card within the column

	drag      drag.Controller
	pointer   pointer      // keyboard drop point while grabbing
	mouseDrag bool         // the drag was started with the mouse
	follow    model.TaskID // card to focus once the pending action lands

	// Form state
	inputMode InputMode
	input     textinput.Model
	draft     draft

	// pending is set while a mutation command is in flight. Mutating keys
	// are ignored until it lands so commands never overlap.
	pending bool

	// UI state
	width   int
	height  int
	err     error
	message string // temporary status message
}

type draft struct {
	title       string
	description string
}

// pointer is a virtual drop point that moves in half-card steps: slot 2i
// is the top half of card i, 2i+1 its bottom half, and 2n the column
// background below the last card.
type pointer struct {
	col  int
	slot int
}

// New creates a board model backed by store.
func New(ctx context.Context, store *board.Store) Model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 40

	return Model{
		ctx:   ctx,
		store: store,
		tasks: store.Tasks(),
		now:   time.Now,
		input: ti,
	}
}

// Messages
type actionMsg struct {
	message string
	err     error
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Clear message on any key
		m.message = ""
		m.err = nil
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-20, 10)
		return m, nil

	case actionMsg:
		m.pending = false
		m.tasks = m.store.Tasks()
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.message = msg.message
		}
		m.focusFollowed()
		m.clampCursor()
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.inputMode != InputNone {
		return m.handleInputKey(msg)
	}
	if m.drag.Dragging() {
		return m.handleDragKey(msg)
	}
	return m.handleBoardKey(msg)
}

func (m Model) handleBoardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "left", "h":
		if m.col > 0 {
			m.col--
			m.clampCursor()
		}

	case "right", "l":
		if m.col < len(model.Statuses)-1 {
			m.col++
			m.clampCursor()
		}

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.column(m.col))-1 {
			m.cursor++
		}

	case "n":
		m.inputMode = InputTitle
		m.draft = draft{}
		m.input.Placeholder = "Task title"
		m.input.SetValue("")
		return m, m.input.Focus()

	case "x", "delete":
		if t, ok := m.selected(); ok {
			return m.apply(board.DeleteIntent{ID: t.ID}, fmt.Sprintf("Deleted %q", t.Title))
		}

	case "p":
		if t, ok := m.selected(); ok {
			m.follow = t.ID
			return m.apply(board.CyclePriorityIntent{ID: t.ID}, fmt.Sprintf("Priority of %q is now %s", t.Title, t.Priority.Next()))
		}

	case " ":
		if t, ok := m.selected(); ok && !m.pending && m.drag.Start(t.ID) {
			m.pointer = pointer{col: m.col, slot: 2 * m.cursor}
			m.hoverPointer()
			m.message = "Moving " + t.Title + ": j/k/h/l to aim, enter to drop, esc to cancel"
		}
	}

	return m, nil
}

func (m Model) handleDragKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mouseDrag {
		return m, nil
	}

	switch msg.String() {
	case "esc":
		m.drag.Cancel()
		m.message = "Move canceled"
		return m, nil

	case "enter", " ":
		subject := m.drag.Subject()
		in, ok := m.drag.Drop()
		if !ok {
			return m, nil
		}
		m.follow = subject
		return m.apply(in, "")

	case "up", "k":
		if m.pointer.slot > 0 {
			m.pointer.slot--
		}

	case "down", "j":
		if m.pointer.slot < 2*len(m.column(m.pointer.col)) {
			m.pointer.slot++
		}

	case "left", "h":
		if m.pointer.col > 0 {
			m.pointer.col--
			m.pointer.slot = min(m.pointer.slot, 2*len(m.column(m.pointer.col)))
		}

	case "right", "l":
		if m.pointer.col < len(model.Statuses)-1 {
			m.pointer.col++
			m.pointer.slot = min(m.pointer.slot, 2*len(m.column(m.pointer.col)))
		}
	}

	m.hoverPointer()
	return m, nil
}

// hoverPointer reports the keyboard drop point to the drag controller as if
// a pointer sat a quarter of the way into the chosen half of a card.
func (m *Model) hoverPointer() {
	status := model.Statuses[m.pointer.col]
	cards := m.column(m.pointer.col)
	if m.pointer.slot >= 2*len(cards) {
		m.drag.OverColumn(status)
		return
	}
	offset := 0.25 * cardHeight
	if m.pointer.slot%2 == 1 {
		offset = 0.75 * cardHeight
	}
	m.drag.OverTask(cards[m.pointer.slot/2].ID, status, offset, cardHeight)
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.inputMode != InputNone {
		return m, nil
	}
	if m.drag.Dragging() && !m.mouseDrag {
		return m, nil
	}

	h := m.layout().hit(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !h.onCard() || m.pending {
			return m, nil
		}
		m.col, m.cursor = h.col, h.card
		t := m.column(h.col)[h.card]
		if m.drag.Start(t.ID) {
			m.mouseDrag = true
			m.hoverHit(h)
		}

	case tea.MouseActionMotion:
		if m.mouseDrag {
			m.hoverHit(h)
		}

	case tea.MouseActionRelease:
		if !m.mouseDrag {
			return m, nil
		}
		m.mouseDrag = false
		m.hoverHit(h)
		subject := m.drag.Subject()
		in, ok := m.drag.Drop()
		if !ok {
			return m, nil
		}
		if r, isReorder := in.(board.ReorderIntent); isReorder && r.Dragged == r.Target {
			// A click without movement.
			return m, nil
		}
		m.follow = subject
		return m.apply(in, "")
	}

	return m, nil
}

func (m *Model) hoverHit(h hit) {
	switch {
	case h.onCard():
		m.drag.OverTask(m.column(h.col)[h.card].ID, model.Statuses[h.col], h.offsetY, cardHeight)
	case h.onColumn():
		m.drag.OverColumn(model.Statuses[h.col])
	default:
		m.drag.Leave()
	}
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.inputMode = InputNone
		m.draft = draft{}
		m.input.SetValue("")
		m.input.Blur()
		return m, nil

	case "enter":
		return m.submitInput()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submitInput() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())

	switch m.inputMode {
	case InputTitle:
		if text == "" {
			m.err = fmt.Errorf("title is required")
			return m, nil
		}
		m.draft.title = text
		m.inputMode = InputDescription
		m.input.Placeholder = "Description (optional)"
		m.input.SetValue("")
		return m, nil

	case InputDescription:
		m.draft.description = text
		m.inputMode = InputDue
		m.input.Placeholder = model.DateLayout + " (optional)"
		m.input.SetValue("")
		return m, nil

	case InputDue:
		var due *model.Date
		if text != "" {
			d, err := model.ParseDate(text)
			if err != nil {
				m.err = err
				return m, nil
			}
			due = &d
		}
		in := board.AddIntent{
			Title:       m.draft.title,
			Description: m.draft.description,
			DueDate:     due,
			Priority:    model.PriorityMedium,
		}
		m.inputMode = InputNone
		m.draft = draft{}
		m.input.SetValue("")
		m.input.Blur()
		m.col = 0
		return m.apply(in, fmt.Sprintf("Added %q", in.Title))
	}

	return m, nil
}

// apply runs the intent against the store in a command.
func (m Model) apply(in board.Intent, message string) (Model, tea.Cmd) {
	if m.pending {
		return m, nil
	}
	m.pending = true
	ctx, store := m.ctx, m.store
	return m, func() tea.Msg {
		changed, err := store.Apply(ctx, in)
		if err != nil {
			return actionMsg{err: err}
		}
		if !changed {
			return actionMsg{}
		}
		return actionMsg{message: message}
	}
}

func (m Model) column(col int) []model.Task {
	return view.Column(m.tasks, model.Statuses[col])
}

func (m Model) selected() (model.Task, bool) {
	cards := m.column(m.col)
	if m.cursor < 0 || m.cursor >= len(cards) {
		return model.Task{}, false
	}
	return cards[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.column(m.col))
	if m.cursor >= n {
		m.cursor = max(0, n-1)
	}
}

// focusFollowed moves the focus onto the card recorded in follow.
func (m *Model) focusFollowed() {
	if m.follow == "" {
		return
	}
	id := m.follow
	m.follow = ""
	for col := range model.Statuses {
		for i, t := range m.column(col) {
			if t.ID == id {
				m.col, m.cursor = col, i
				return
			}
		}
	}
}

func (m Model) layout() layout {
	counts := make([]int, len(model.Statuses))
	for i := range model.Statuses {
		counts[i] = len(m.column(i))
	}
	return newLayout(m.width, counts)
}

// Run starts the TUI.
func Run(ctx context.Context, store *board.Store) error {
	m := New(ctx, store)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
