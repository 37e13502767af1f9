package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestGenerateID(t *testing.T) {
	id := GenerateID()

	if !strings.HasPrefix(string(id), "tk-") {
		t.Errorf("expected prefix %q, got %q", "tk-", id)
	}

	// prefix (3 chars) + 8 hex chars
	if len(id) != 11 {
		t.Errorf("expected length 11, got %d (%q)", len(id), id)
	}
}

func TestGenerateID_Uniqueness(t *testing.T) {
	seen := make(map[TaskID]bool)
	for i := 0; i < 100; i++ {
		id := GenerateID()
		if seen[id] {
			t.Errorf("duplicate ID generated: %s", id)
		}
		seen[id] = true
	}
}

func TestStatus_IsValid(t *testing.T) {
	tests := []struct {
		status Status
		valid  bool
	}{
		{StatusTodo, true},
		{StatusInProgress, true},
		{StatusDone, true},
		{Status("todo"), true},
		{Status(""), false},
		{Status("in_progress"), false}, // only the canonical spelling is stored
		{Status("Done"), false},        // case sensitive
		{Status("blocked"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{"todo", StatusTodo, false},
		{"in_progress", StatusInProgress, false},
		{"in-progress", StatusInProgress, false},
		{"inprogress", StatusInProgress, false},
		{"done", StatusDone, false},
		{"archived", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStatus(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseStatus(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseStatus(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestStatus_Columns(t *testing.T) {
	want := map[Status]string{
		StatusTodo:       "To Do",
		StatusInProgress: "In Progress",
		StatusDone:       "Done",
	}
	if len(Statuses) != 3 {
		t.Fatalf("expected 3 statuses, got %d", len(Statuses))
	}
	for _, s := range Statuses {
		if s.Title() != want[s] {
			t.Errorf("%s.Title() = %q, want %q", s, s.Title(), want[s])
		}
		if !strings.HasPrefix(s.Color(), "#") {
			t.Errorf("%s.Color() = %q, want hex colour", s, s.Color())
		}
	}
}

func TestPriority_Next(t *testing.T) {
	tests := []struct {
		from Priority
		want Priority
	}{
		{PriorityLow, PriorityMedium},
		{PriorityMedium, PriorityHigh},
		{PriorityHigh, PriorityLow},
		{Priority("urgent"), PriorityLow},
	}

	for _, tt := range tests {
		t.Run(string(tt.from), func(t *testing.T) {
			if got := tt.from.Next(); got != tt.want {
				t.Errorf("Next() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPriority_CycleLength(t *testing.T) {
	for _, p := range []Priority{PriorityLow, PriorityMedium, PriorityHigh} {
		if got := p.Next().Next().Next(); got != p {
			t.Errorf("three steps from %q landed on %q", p, got)
		}
	}
}

func TestTaskID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in   string
		want TaskID
	}{
		{`"tk-0a1b2c3d"`, "tk-0a1b2c3d"},
		{`1700000000000`, "1700000000000"},
		{` 42 `, "42"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var id TaskID
			if err := json.Unmarshal([]byte(tt.in), &id); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if id != tt.want {
				t.Errorf("got %q, want %q", id, tt.want)
			}
		})
	}

	var id TaskID
	if err := json.Unmarshal([]byte(`{"x":1}`), &id); err == nil {
		t.Error("expected error for object id")
	}
}

func TestDate(t *testing.T) {
	d, err := ParseDate("2024-02-28")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := d.AddDays(1).String(); got != "2024-02-29" {
		t.Errorf("AddDays(1) = %s, want 2024-02-29", got)
	}
	if got := d.AddDays(2).String(); got != "2024-03-01" {
		t.Errorf("AddDays(2) = %s, want 2024-03-01", got)
	}

	local := time.Date(2024, 5, 6, 23, 30, 0, 0, time.FixedZone("X", -7*3600))
	if got := DateOf(local).String(); got != "2024-05-06" {
		t.Errorf("DateOf = %s, want the local calendar day 2024-05-06", got)
	}

	if _, err := ParseDate("06/05/2024"); err == nil {
		t.Error("expected error for non ISO date")
	}
}

func TestTask_UnmarshalDueDate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string // "" means nil
	}{
		{"absent", `{"id":"a","title":"t","status":"todo"}`, ""},
		{"null", `{"id":"a","dueDate":null}`, ""},
		{"empty", `{"id":"a","dueDate":""}`, ""},
		{"date", `{"id":"a","dueDate":"2025-01-31"}`, "2025-01-31"},
		{"timestamp", `{"id":"a","dueDate":"2025-01-31T00:00:00.000Z"}`, "2025-01-31"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var task Task
			if err := json.Unmarshal([]byte(tt.in), &task); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if task.ID != "a" {
				t.Errorf("id = %q, want a", task.ID)
			}
			switch {
			case tt.want == "" && task.DueDate != nil:
				t.Errorf("dueDate = %s, want nil", task.DueDate)
			case tt.want != "" && task.DueDate == nil:
				t.Errorf("dueDate = nil, want %s", tt.want)
			case tt.want != "" && task.DueDate.String() != tt.want:
				t.Errorf("dueDate = %s, want %s", task.DueDate, tt.want)
			}
		})
	}

	var task Task
	if err := json.Unmarshal([]byte(`{"id":"a","dueDate":"tomorrow"}`), &task); err == nil {
		t.Error("expected error for unparsable due date")
	}
}
