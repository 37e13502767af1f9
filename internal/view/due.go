package view

import (
	"fmt"
	"math"
	"time"

	"github.com/baiirun/kanban/internal/model"
)

type UrgencyKind string

const (
	Overdue     UrgencyKind = "overdue"
	DueToday    UrgencyKind = "due-today"
	DueTomorrow UrgencyKind = "due-tomorrow"
	DueSoon     UrgencyKind = "due-soon"
	DueLater    UrgencyKind = "due-later"
)

// soonDays is the furthest a due date can be and still count as soon.
const soonDays = 3

// Urgency classifies a due date relative to today. Days is the number of
// calendar days from today to the due date (negative when overdue).
type Urgency struct {
	Kind UrgencyKind `json:"kind"`
	Days int         `json:"days"`
}

// DueUrgency compares due with the calendar day of today. It reports false
// when there is no due date.
func DueUrgency(due *model.Date, today time.Time) (Urgency, bool) {
	if due == nil {
		return Urgency{}, false
	}
	days := DaysUntil(*due, today)

	switch {
	case days < 0:
		return Urgency{Kind: Overdue, Days: days}, true
	case days == 0:
		return Urgency{Kind: DueToday}, true
	case days == 1:
		return Urgency{Kind: DueTomorrow, Days: 1}, true
	case days <= soonDays:
		return Urgency{Kind: DueSoon, Days: days}, true
	default:
		return Urgency{Kind: DueLater, Days: days}, true
	}
}

// DaysUntil counts whole calendar days from today's date to due, ignoring
// time of day.
func DaysUntil(due model.Date, today time.Time) int {
	from := model.DateOf(today).Time()
	return int(math.Ceil(due.Time().Sub(from).Hours() / 24))
}

func (u Urgency) Label() string {
	switch u.Kind {
	case Overdue:
		return "Overdue"
	case DueToday:
		return "Due today"
	case DueTomorrow:
		return "Due tomorrow"
	case DueSoon, DueLater:
		return fmt.Sprintf("Due in %d days", u.Days)
	default:
		return ""
	}
}
