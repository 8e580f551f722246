package domain

import (
	"slices"
	"strings"
	"time"
)

// Board is an immutable snapshot of the column list. Every mutation returns
// a new Board and leaves slices reachable from the receiver untouched.
// Invalid intents return the receiver unchanged.
type Board struct {
	Columns []Column
}

func NewBoard(columns ...Column) Board {
	out := make([]Column, 0, len(columns))
	for _, col := range columns {
		col.Cards = slices.Clone(col.Cards)
		if col.Cards == nil {
			col.Cards = []Card{}
		}
		out = append(out, col)
	}
	return Board{Columns: out}
}

// Column returns the column with id.
func (b Board) Column(id string) (Column, bool) {
	idx := b.columnIndex(id)
	if idx < 0 {
		return Column{}, false
	}
	return b.Columns[idx], true
}

func (b Board) HasColumn(id string) bool {
	return b.columnIndex(id) >= 0
}

// FindCard returns the first card with id, scanning columns in order.
func (b Board) FindCard(id string) (Card, bool) {
	colIdx, cardIdx := b.locate(id)
	if colIdx < 0 {
		return Card{}, false
	}
	return b.Columns[colIdx].Cards[cardIdx], true
}

func (b Board) CardCount() int {
	total := 0
	for _, col := range b.Columns {
		total += len(col.Cards)
	}
	return total
}

// AddCard appends card to the end of columnID.
func (b Board) AddCard(columnID string, card Card) Board {
	idx := b.columnIndex(columnID)
	if idx < 0 {
		return b
	}
	card.ColumnID = columnID
	cards := make([]Card, 0, len(b.Columns[idx].Cards)+1)
	cards = append(cards, b.Columns[idx].Cards...)
	cards = append(cards, card)
	return b.withCards(idx, cards)
}

// RemoveCard drops cardID from columnID.
func (b Board) RemoveCard(columnID, cardID string) Board {
	idx := b.columnIndex(columnID)
	if idx < 0 {
		return b
	}
	pos := b.Columns[idx].CardIndex(cardID)
	if pos < 0 {
		return b
	}
	return b.withCards(idx, without(b.Columns[idx].Cards, pos))
}

// MoveCard relocates cardID to the end of targetColumnID. The source is the
// first column holding the card. Same-column moves are no-ops.
func (b Board) MoveCard(cardID, targetColumnID string) Board {
	srcIdx, cardIdx := b.locate(cardID)
	if srcIdx < 0 {
		return b
	}
	dstIdx := b.columnIndex(targetColumnID)
	if dstIdx < 0 || dstIdx == srcIdx {
		return b
	}

	card := b.Columns[srcIdx].Cards[cardIdx]
	card.ColumnID = targetColumnID

	dst := make([]Card, 0, len(b.Columns[dstIdx].Cards)+1)
	dst = append(dst, b.Columns[dstIdx].Cards...)
	dst = append(dst, card)

	out := b.withCards(srcIdx, without(b.Columns[srcIdx].Cards, cardIdx))
	out.Columns[dstIdx].Cards = dst
	return out
}

// ToggleComplete flips the completion flag of the first card with cardID.
func (b Board) ToggleComplete(cardID string) Board {
	colIdx, cardIdx := b.locate(cardID)
	if colIdx < 0 {
		return b
	}
	cards := slices.Clone(b.Columns[colIdx].Cards)
	cards[cardIdx].Completed = !cards[cardIdx].Completed
	return b.withCards(colIdx, cards)
}

// DuplicateCard appends a copy of card, under newID, to card's column.
func (b Board) DuplicateCard(card Card, newID string, now time.Time) Board {
	if strings.TrimSpace(newID) == "" {
		return b
	}
	return b.AddCard(card.ColumnID, card.Duplicate(newID, now))
}

// EditCard replaces the editable fields of the card whose id matches
// updated.ID. The card is located by scanning every column, so a stale
// updated.ColumnID never misses and never relocates the card.
func (b Board) EditCard(updated Card) Board {
	if strings.TrimSpace(updated.Title) == "" || !updated.Priority.Valid() {
		return b
	}
	colIdx, cardIdx := b.locate(updated.ID)
	if colIdx < 0 {
		return b
	}
	cards := slices.Clone(b.Columns[colIdx].Cards)
	current := cards[cardIdx]
	current.Title = strings.TrimSpace(updated.Title)
	current.Description = strings.TrimSpace(updated.Description)
	current.Priority = updated.Priority
	current.DueDate = NormalizeDueDate(updated.DueDate)
	current.Completed = updated.Completed
	cards[cardIdx] = current
	return b.withCards(colIdx, cards)
}

// AddColumn appends an empty column. Blank titles and titles whose derived
// id collides with an existing column are ignored.
func (b Board) AddColumn(title, color string) Board {
	col, err := NewColumn(title, color)
	if err != nil || b.HasColumn(col.ID) {
		return b
	}
	columns := make([]Column, 0, len(b.Columns)+1)
	columns = append(columns, b.Columns...)
	columns = append(columns, col)
	return Board{Columns: columns}
}

// RemoveColumn drops columnID together with its cards.
func (b Board) RemoveColumn(columnID string) Board {
	idx := b.columnIndex(columnID)
	if idx < 0 {
		return b
	}
	columns := make([]Column, 0, len(b.Columns)-1)
	columns = append(columns, b.Columns[:idx]...)
	columns = append(columns, b.Columns[idx+1:]...)
	return Board{Columns: columns}
}

// ClearCards empties every column and keeps the columns themselves.
func (b Board) ClearCards() Board {
	columns := make([]Column, len(b.Columns))
	for i, col := range b.Columns {
		col.Cards = []Card{}
		columns[i] = col
	}
	return Board{Columns: columns}
}

// Stats counts cards, columns and completed cards.
func (b Board) Stats() Stats {
	st := Stats{Columns: len(b.Columns)}
	for _, col := range b.Columns {
		st.Cards += len(col.Cards)
		for _, card := range col.Cards {
			if card.Completed {
				st.Completed++
			}
		}
	}
	return st
}

// Stats summarizes a board for the profile panel.
type Stats struct {
	Cards     int
	Columns   int
	Completed int
}

func (b Board) columnIndex(id string) int {
	for i, col := range b.Columns {
		if col.ID == id {
			return i
		}
	}
	return -1
}

func (b Board) locate(cardID string) (int, int) {
	for i, col := range b.Columns {
		if j := col.CardIndex(cardID); j >= 0 {
			return i, j
		}
	}
	return -1, -1
}

// withCards returns a board sharing every column except idx, whose card
// slice is replaced.
func (b Board) withCards(idx int, cards []Card) Board {
	columns := slices.Clone(b.Columns)
	columns[idx].Cards = cards
	return Board{Columns: columns}
}

func without(cards []Card, idx int) []Card {
	out := make([]Card, 0, len(cards)-1)
	out = append(out, cards[:idx]...)
	return append(out, cards[idx+1:]...)
}
