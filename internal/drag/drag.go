// Package drag tracks a drag gesture over the board and turns the drop into
// a board intent. It never touches the store itself; rendering code reads
// Feedback to draw the insertion point.
package drag

import (
	"github.com/baiirun/kanban/internal/board"
	"github.com/baiirun/kanban/internal/model"
)

type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// Candidate is the sibling card the subject would land next to.
type Candidate struct {
	TaskID model.TaskID `json:"taskId"`
	Status model.Status `json:"status"`
	Before bool         `json:"insertBefore"`
}

// Feedback is everything a renderer needs to draw the drag in progress.
// At most one of Candidate and Column is set.
type Feedback struct {
	Dragging  bool          `json:"dragging"`
	Subject   model.TaskID  `json:"subject,omitempty"`
	Candidate *Candidate    `json:"candidate,omitempty"`
	Column    *model.Status `json:"hoveredColumn,omitempty"`
}

// Controller is the idle → dragging → idle state machine. The zero value is
// an idle controller.
type Controller struct {
	state     State
	subject   model.TaskID
	candidate *Candidate
	column    *model.Status
}

// InsertBefore reports whether a pointer offsetY from the top of a card of
// the given height is in the card's top half.
func InsertBefore(offsetY, height float64) bool {
	return offsetY < height/2
}

func (c *Controller) State() State { return c.state }

func (c *Controller) Dragging() bool { return c.state == Dragging }

func (c *Controller) Subject() model.TaskID { return c.subject }

// Start begins dragging id. It is ignored while a drag is already active.
func (c *Controller) Start(id model.TaskID) bool {
	if c.state == Dragging || id == "" {
		return false
	}
	c.state = Dragging
	c.subject = id
	c.candidate = nil
	c.column = nil
	return true
}

// OverTask records the pointer over a card, replacing any previous hover.
func (c *Controller) OverTask(target model.TaskID, status model.Status, offsetY, height float64) {
	if c.state != Dragging {
		return
	}
	c.candidate = &Candidate{TaskID: target, Status: status, Before: InsertBefore(offsetY, height)}
	c.column = nil
}

// OverColumn records the pointer over a column's background: the drop would
// append to that column.
func (c *Controller) OverColumn(status model.Status) {
	if c.state != Dragging {
		return
	}
	c.candidate = nil
	s := status
	c.column = &s
}

// Leave clears the hover; a drop now would have no target.
func (c *Controller) Leave() {
	c.candidate = nil
	c.column = nil
}

// Drop ends the drag. It returns the intent for the last hovered target, or
// false when nothing was hovered (the drag is aborted).
func (c *Controller) Drop() (board.Intent, bool) {
	if c.state != Dragging {
		return nil, false
	}
	subject, candidate, column := c.subject, c.candidate, c.column
	c.reset()

	switch {
	case candidate != nil:
		return board.ReorderIntent{Dragged: subject, Target: candidate.TaskID, Before: candidate.Before}, true
	case column != nil:
		return board.AppendIntent{Dragged: subject, Status: *column}, true
	default:
		return nil, false
	}
}

// DropOnTask is OverTask followed by Drop.
func (c *Controller) DropOnTask(target model.TaskID, status model.Status, offsetY, height float64) (board.Intent, bool) {
	c.OverTask(target, status, offsetY, height)
	return c.Drop()
}

// DropOnColumn is OverColumn followed by Drop.
func (c *Controller) DropOnColumn(status model.Status) (board.Intent, bool) {
	c.OverColumn(status)
	return c.Drop()
}

// Cancel abandons the drag without an intent.
func (c *Controller) Cancel() {
	c.reset()
}

func (c *Controller) Feedback() Feedback {
	if c.state != Dragging {
		return Feedback{}
	}
	fb := Feedback{Dragging: true, Subject: c.subject}
	if c.candidate != nil {
		cand := *c.candidate
		fb.Candidate = &cand
	}
	if c.column != nil {
		s := *c.column
		fb.Column = &s
	}
	return fb
}

func (c *Controller) reset() {
	c.state = Idle
	c.subject = ""
	c.candidate = nil
	c.column = nil
}
