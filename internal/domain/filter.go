package domain

import "strings"

// Filter narrows cards by a case-insensitive query over title and
// description, and by exact priority. Zero value matches everything.
type Filter struct {
	Query    string
	Priority Priority
}

func (f Filter) IsIdentity() bool {
	return f.Query == "" && f.Priority == PriorityNone
}

func (f Filter) Matches(card Card) bool {
	if f.Priority != PriorityNone && card.Priority != f.Priority {
		return false
	}
	if f.Query == "" {
		return true
	}
	q := strings.ToLower(f.Query)
	return strings.Contains(strings.ToLower(card.Title), q) ||
		strings.Contains(strings.ToLower(card.Description), q)
}

// Filter projects b through f. Every column is kept, possibly empty.
func (b Board) Filter(f Filter) Board {
	columns := make([]Column, 0, len(b.Columns))
	for _, col := range b.Columns {
		cards := make([]Card, 0, len(col.Cards))
		for _, card := range col.Cards {
			if f.Matches(card) {
				cards = append(cards, card)
			}
		}
		col.Cards = cards
		columns = append(columns, col)
	}
	return Board{Columns: columns}
}
