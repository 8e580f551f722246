package domain

import (
	"slices"
	"strings"
)

type Priority string

const (
	PriorityNone   Priority = ""
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

var validPriorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Priorities returns the selectable priorities from highest to lowest.
func Priorities() []Priority {
	return []Priority{PriorityHigh, PriorityMedium, PriorityLow}
}

// ParsePriority normalizes user input into a priority. Empty input is unset.
func ParsePriority(raw string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(raw)))
	if p == PriorityNone {
		return PriorityNone, nil
	}
	if !slices.Contains(validPriorities, p) {
		return PriorityNone, ErrInvalidPriority
	}
	return p, nil
}

// Valid reports whether p is unset or one of the known priorities.
func (p Priority) Valid() bool {
	return p == PriorityNone || slices.Contains(validPriorities, p)
}
