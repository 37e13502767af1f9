package tui

import (
	"fmt"
	"strings"

	"github.com/baiirun/kanban/internal/drag"
	"github.com/baiirun/kanban/internal/model"
	"github.com/baiirun/kanban/internal/view"
	"github.com/charmbracelet/lipgloss"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229"))

	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("241")).
			Padding(0, 1)

	focusedColor = lipgloss.Color("39")
	dropColor    = lipgloss.Color("205")

	priorityColors = map[model.Priority]lipgloss.Color{
		model.PriorityLow:    lipgloss.Color("42"),
		model.PriorityMedium: lipgloss.Color("214"),
		model.PriorityHigh:   lipgloss.Color("196"),
	}

	urgencyColors = map[view.UrgencyKind]lipgloss.Color{
		view.Overdue:     lipgloss.Color("196"),
		view.DueToday:    lipgloss.Color("208"),
		view.DueTomorrow: lipgloss.Color("220"),
		view.DueSoon:     lipgloss.Color("220"),
		view.DueLater:    lipgloss.Color("245"),
	}
)

func (m Model) View() string {
	lay := m.layout()
	fb := m.drag.Feedback()

	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("kanban"))
	b.WriteString(fmt.Sprintf("  %d tasks", len(m.tasks)))
	if fb.Dragging {
		b.WriteString(dimStyle.Render("  moving"))
	}
	b.WriteString("\n\n")

	cols := view.Board(m.tasks)
	rendered := make([]string, 0, len(cols)*2)
	for i, c := range cols {
		if i > 0 {
			rendered = append(rendered, strings.Repeat(" ", columnGap))
		}
		rendered = append(rendered, m.renderColumn(i, c, lay.columnWidth, fb))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	b.WriteString("\n\n")

	// Form or help
	switch m.inputMode {
	case InputTitle, InputDescription, InputDue:
		b.WriteString(inputStyle.Render(inputLabel(m.inputMode)))
		b.WriteString(m.input.View())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter: next  esc: cancel"))
	default:
		b.WriteString(m.renderHelp(fb.Dragging))
	}

	// Status message
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
	} else if m.message != "" {
		b.WriteString("\n")
		b.WriteString(messageStyle.Render(m.message))
	}

	return lipgloss.NewStyle().PaddingLeft(contentPadding).Render(b.String())
}

func inputLabel(mode InputMode) string {
	switch mode {
	case InputTitle:
		return "Title: "
	case InputDescription:
		return "Description: "
	case InputDue:
		return "Due: "
	}
	return ""
}

func (m Model) renderHelp(dragging bool) string {
	if dragging {
		return helpStyle.Render("j/k: aim within column  h/l: change column  enter: drop  esc: cancel")
	}
	return helpStyle.Render("h/l: column  j/k: card  n: new  x: delete  p: priority  space: move  q: quit")
}

// renderColumn draws a header line, a rule line and one cardHeight block per
// card, matching layout.
func (m Model) renderColumn(idx int, c view.ColumnView, width int, fb drag.Feedback) string {
	color := lipgloss.Color(c.Color)
	hovered := fb.Column != nil && *fb.Column == c.Status

	header := lipgloss.NewStyle().Bold(true).Foreground(color)
	if hovered {
		header = header.Reverse(true)
	}

	rule := strings.Repeat("─", width)
	ruleStyle := lipgloss.NewStyle().Foreground(color)
	if hovered {
		rule = padRule("drop at end", width)
		ruleStyle = ruleStyle.Foreground(dropColor)
	}

	lines := []string{
		header.Render(truncate(fmt.Sprintf("%s (%d)", c.Title, c.Count()), width)),
		ruleStyle.Render(rule),
	}
	for i, t := range c.Tasks {
		focused := !fb.Dragging && m.inputMode == InputNone && idx == m.col && i == m.cursor
		lines = append(lines, m.renderCard(t, width, focused, fb))
	}
	if len(c.Tasks) == 0 {
		lines = append(lines, dimStyle.Render(truncate("No tasks", width)))
	}

	return lipgloss.NewStyle().Width(width).Render(strings.Join(lines, "\n"))
}

func (m Model) renderCard(t model.Task, width int, focused bool, fb drag.Feedback) string {
	// Border and horizontal padding take four cells.
	inner := max(width-4, 1)

	style := cardStyle.Width(width - 2)
	if focused {
		style = style.BorderForeground(focusedColor)
	}
	if fb.Subject == t.ID {
		style = style.Faint(true)
	}
	if fb.Candidate != nil && fb.Candidate.TaskID == t.ID {
		style = style.Border(lipgloss.ThickBorder())
		if fb.Candidate.Before {
			style = style.BorderTopForeground(dropColor)
		} else {
			style = style.BorderBottomForeground(dropColor)
		}
	}

	title := lipgloss.NewStyle().Bold(true).Render(truncate(t.Title, inner))
	desc := dimStyle.Render(truncate(t.Description, inner))

	meta := lipgloss.NewStyle().Foreground(priorityColors[t.Priority]).Render("● " + string(t.Priority))
	if u, ok := view.DueUrgency(t.DueDate, m.now()); ok {
		label := truncate(u.Label(), max(inner-len(t.Priority)-4, 0))
		meta += "  " + lipgloss.NewStyle().Foreground(urgencyColors[u.Kind]).Render(label)
	}

	return style.Render(strings.Join([]string{title, desc, meta}, "\n"))
}

// truncate shortens s to at most width cells, marking the cut with an
// ellipsis.
func truncate(s string, width int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if lipgloss.Width(s) <= width {
		return s
	}
	if width <= 1 {
		return strings.Repeat("…", width)
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r)) > width-1 {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}

func padRule(label string, width int) string {
	label = " " + truncate(label, max(width-4, 0)) + " "
	left := (width - lipgloss.Width(label)) / 2
	if left < 0 {
		return truncate(label, width)
	}
	right := width - left - lipgloss.Width(label)
	return strings.Repeat("─", left) + label + strings.Repeat("─", right)
}
