package models

import (
	"errors"
	"strings"
)

// Priority is the importance label attached to a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists the selectable priorities in display order.
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// ParsePriority returns the priority named by s, ignoring case and surrounding space.
func ParsePriority(s string) (Priority, bool) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	return p, p.Valid()
}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Label returns the priority with its first letter capitalized.
func (p Priority) Label() string {
	if p == "" {
		return ""
	}
	s := string(p)
	return strings.ToUpper(s[:1]) + s[1:]
}

// Task represents a single to-do item.
type Task struct {
	ID        string   `json:"id"`
	Text      string   `json:"text"`
	Completed bool     `json:"completed"`
	Priority  Priority `json:"priority"`
	Editing   bool     `json:"editing"`
}

// Validate checks that the task has valid field values.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("id is required")
	}

	if strings.TrimSpace(t.Text) == "" {
		return errors.New("text is required")
	}

	if !t.Priority.Valid() {
		return errors.New("priority must be 'high', 'medium', or 'low'")
	}

	return nil
}

// Matches reports whether the task text contains term, ignoring case.
// The term is expected to be lowercased and trimmed already.
func (t *Task) Matches(term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.Text), term)
}
