package models

import "strings"

// Filter selects tasks by completion state.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// ParseFilter maps s to a Filter. Anything unrecognised selects all tasks.
func ParseFilter(s string) Filter {
	switch f := Filter(strings.ToLower(strings.TrimSpace(s))); f {
	case FilterActive, FilterCompleted:
		return f
	default:
		return FilterAll
	}
}

// Includes reports whether t passes the filter.
func (f Filter) Includes(t Task) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}
