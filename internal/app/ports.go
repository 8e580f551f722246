package app

import (
	"context"

	"github.com/evanschultz/tavla/internal/domain"
)

// BoardState is everything the session keeps about the one board.
type BoardState struct {
	Name    string
	Profile domain.Profile
	Board   domain.Board
}

// Repository stores the current board state. LoadState returns ErrNotFound
// until the first SaveState.
type Repository interface {
	LoadState(context.Context) (BoardState, error)
	SaveState(context.Context, BoardState) error
}
