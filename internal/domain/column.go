package domain

import (
	"strings"
	"unicode"
)

// Column is an ordered card container. Cards keep insertion order.
type Column struct {
	ID    string
	Title string
	Color string
	Cards []Card
}

// ColumnIDFromTitle lowercases the title and removes all whitespace.
func ColumnIDFromTitle(title string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, strings.ToLower(title))
}

// NewColumn derives the id from title and returns an empty column.
func NewColumn(title, color string) (Column, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Column{}, ErrInvalidTitle
	}
	return Column{
		ID:    ColumnIDFromTitle(title),
		Title: title,
		Color: strings.TrimSpace(color),
		Cards: []Card{},
	}, nil
}

// CardIndex returns the position of cardID in the column or -1.
func (c Column) CardIndex(cardID string) int {
	for i, card := range c.Cards {
		if card.ID == cardID {
			return i
		}
	}
	return -1
}
