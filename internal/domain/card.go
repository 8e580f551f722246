package domain

import (
	"strings"
	"time"
)

const DueDateLayout = "2006-01-02"

const duplicateSuffix = " (Copy)"

type Card struct {
	ID          string
	ColumnID    string
	Title       string
	Description string
	Priority    Priority
	DueDate     *time.Time
	Completed   bool
	CreatedAt   time.Time
}

type CardInput struct {
	ID          string
	ColumnID    string
	Title       string
	Description string
	Priority    Priority
	DueDate     *time.Time
}

func NewCard(in CardInput, now time.Time) (Card, error) {
	in.ID = strings.TrimSpace(in.ID)
	in.ColumnID = strings.TrimSpace(in.ColumnID)
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)

	if in.ID == "" {
		return Card{}, ErrInvalidID
	}
	if in.ColumnID == "" {
		return Card{}, ErrInvalidColumnID
	}
	if in.Title == "" {
		return Card{}, ErrInvalidTitle
	}
	if !in.Priority.Valid() {
		return Card{}, ErrInvalidPriority
	}

	return Card{
		ID:          in.ID,
		ColumnID:    in.ColumnID,
		Title:       in.Title,
		Description: in.Description,
		Priority:    in.Priority,
		DueDate:     NormalizeDueDate(in.DueDate),
		CreatedAt:   now.UTC(),
	}, nil
}

// Duplicate copies every field of c under a new id and a " (Copy)" title.
func (c Card) Duplicate(id string, now time.Time) Card {
	out := c
	out.ID = id
	out.Title = c.Title + duplicateSuffix
	out.DueDate = NormalizeDueDate(c.DueDate)
	out.CreatedAt = now.UTC()
	return out
}

// IsOverdue reports whether the due date lies before the calendar day of now.
func (c Card) IsOverdue(now time.Time) bool {
	if c.DueDate == nil {
		return false
	}
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return c.DueDate.Before(today)
}

// ParseDueDate parses a YYYY-MM-DD calendar date. Blank input yields nil.
func ParseDueDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	ts, err := time.Parse(DueDateLayout, raw)
	if err != nil {
		return nil, ErrInvalidDueDate
	}
	return &ts, nil
}

// FormatDueDate renders a due date for display and form prefill.
func FormatDueDate(due *time.Time) string {
	if due == nil {
		return ""
	}
	return due.Format(DueDateLayout)
}

// NormalizeDueDate strips time-of-day and zone, keeping the calendar date.
func NormalizeDueDate(due *time.Time) *time.Time {
	if due == nil {
		return nil
	}
	y, m, d := due.Date()
	out := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &out
}
