package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	charmLog "github.com/charmbracelet/log"

	"github.com/evanschultz/tavla/internal/domain"
)

// DefaultBoardName is used when no board name is configured.
const DefaultBoardName = "My Board"

// ServiceConfig holds configuration for service.
type ServiceConfig struct {
	BoardName   string
	ProfileName string
	Columns     []ColumnTemplate
	Logger      *charmLog.Logger
}

// ColumnTemplate seeds one column of a fresh board.
type ColumnTemplate struct {
	ID    string
	Title string
	Color string
}

// IDGenerator returns unique identifiers for new entities.
type IDGenerator func() string

// Clock returns the current time.
type Clock func() time.Time

// Service owns the board snapshot for one session. Every write loads the
// current state, applies a pure board mutation and stores the result.
type Service struct {
	mu        sync.RWMutex
	repo      Repository
	idGen     IDGenerator
	clock     Clock
	logger    *charmLog.Logger
	boardName string
	profile   string
	templates []ColumnTemplate
}

// NewService constructs a new value for this package.
func NewService(repo Repository, idGen IDGenerator, clock Clock, cfg ServiceConfig) *Service {
	if idGen == nil {
		idGen = func() string { return "" }
	}
	if clock == nil {
		clock = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = charmLog.New(io.Discard)
	}
	if strings.TrimSpace(cfg.BoardName) == "" {
		cfg.BoardName = DefaultBoardName
	}
	if strings.TrimSpace(cfg.ProfileName) == "" {
		cfg.ProfileName = domain.DefaultProfileName
	}
	templates := sanitizeColumnTemplates(cfg.Columns)
	if len(templates) == 0 {
		templates = DefaultColumnTemplates()
	}

	return &Service{
		repo:      repo,
		idGen:     idGen,
		clock:     clock,
		logger:    cfg.Logger,
		boardName: strings.TrimSpace(cfg.BoardName),
		profile:   strings.TrimSpace(cfg.ProfileName),
		templates: templates,
	}
}

// DefaultColumnTemplates returns the To Do / In Progress / Done layout.
func DefaultColumnTemplates() []ColumnTemplate {
	return []ColumnTemplate{
		{ID: "todo", Title: "To Do", Color: "#818cf8"},
		{ID: "inprogress", Title: "In Progress", Color: "#f59e0b"},
		{ID: "done", Title: "Done", Color: "#10b981"},
	}
}

// EnsureBoard seeds the repository with the configured board when empty.
func (s *Service) EnsureBoard(ctx context.Context) (BoardState, error) {
	if err := ctx.Err(); err != nil {
		return BoardState{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Snapshot returns the full current state.
func (s *Service) Snapshot(ctx context.Context) (BoardState, error) {
	if err := ctx.Err(); err != nil {
		return BoardState{}, err
	}
	s.mu.RLock()
	state, err := s.repo.LoadState(ctx)
	s.mu.RUnlock()
	if errors.Is(err, ErrNotFound) {
		return s.EnsureBoard(ctx)
	}
	return state, err
}

// Board returns the current unfiltered board.
func (s *Service) Board(ctx context.Context) (domain.Board, error) {
	state, err := s.Snapshot(ctx)
	if err != nil {
		return domain.Board{}, err
	}
	return state.Board, nil
}

// View returns the board projected through filter.
func (s *Service) View(ctx context.Context, filter domain.Filter) (domain.Board, error) {
	board, err := s.Board(ctx)
	if err != nil {
		return domain.Board{}, err
	}
	return board.Filter(filter), nil
}

// CreateCardInput holds input values for create card operations.
type CreateCardInput struct {
	ColumnID    string
	Title       string
	Description string
	Priority    domain.Priority
	DueDate     *time.Time
}

// UpdateCardInput holds input values for edit card operations. A nil
// Completed keeps the current flag.
type UpdateCardInput struct {
	CardID      string
	Title       string
	Description string
	Priority    domain.Priority
	DueDate     *time.Time
	Completed   *bool
}

// AddCard creates a card at the end of the requested column.
func (s *Service) AddCard(ctx context.Context, in CreateCardInput) (domain.Card, error) {
	var created domain.Card
	err := s.update(ctx, func(state BoardState) (BoardState, error) {
		if !state.Board.HasColumn(in.ColumnID) {
			return state, fmt.Errorf("column %q: %w", in.ColumnID, ErrNotFound)
		}
		card, err := domain.NewCard(domain.CardInput{
			ID:          s.idGen(),
			ColumnID:    in.ColumnID,
			Title:       in.Title,
			Description: in.Description,
			Priority:    in.Priority,
			DueDate:     in.DueDate,
		}, s.clock())
		if err != nil {
			return state, err
		}
		created = card
		state.Board = state.Board.AddCard(in.ColumnID, card)
		return state, nil
	})
	if err != nil {
		return domain.Card{}, err
	}
	s.logger.Debug("card added", "card_id", created.ID, "column_id", created.ColumnID)
	return created, nil
}

// RemoveCard deletes a card from its column.
func (s *Service) RemoveCard(ctx context.Context, columnID, cardID string) error {
	return s.update(ctx, func(state BoardState) (BoardState, error) {
		col, ok := state.Board.Column(columnID)
		if !ok || col.CardIndex(cardID) < 0 {
			return state, fmt.Errorf("card %q in column %q: %w", cardID, columnID, ErrNotFound)
		}
		state.Board = state.Board.RemoveCard(columnID, cardID)
		s.logger.Debug("card removed", "card_id", cardID, "column_id", columnID)
		return state, nil
	})
}

// MoveCard appends the card to the end of columnID. Moving a card onto its
// own column succeeds without changing anything.
func (s *Service) MoveCard(ctx context.Context, cardID, columnID string) error {
	return s.update(ctx, func(state BoardState) (BoardState, error) {
		card, ok := state.Board.FindCard(cardID)
		if !ok {
			return state, fmt.Errorf("card %q: %w", cardID, ErrNotFound)
		}
		if !state.Board.HasColumn(columnID) {
			return state, fmt.Errorf("column %q: %w", columnID, ErrNotFound)
		}
		if card.ColumnID == columnID {
			return state, nil
		}
		state.Board = state.Board.MoveCard(cardID, columnID)
		s.logger.Debug("card moved", "card_id", cardID, "from", card.ColumnID, "to", columnID)
		return state, nil
	})
}

// ToggleComplete flips the completion flag and returns the updated card.
func (s *Service) ToggleComplete(ctx context.Context, cardID string) (domain.Card, error) {
	var out domain.Card
	err := s.update(ctx, func(state BoardState) (BoardState, error) {
		if _, ok := state.Board.FindCard(cardID); !ok {
			return state, fmt.Errorf("card %q: %w", cardID, ErrNotFound)
		}
		state.Board = state.Board.ToggleComplete(cardID)
		out, _ = state.Board.FindCard(cardID)
		return state, nil
	})
	return out, err
}

// DuplicateCard appends a copy of the card to the same column.
func (s *Service) DuplicateCard(ctx context.Context, cardID string) (domain.Card, error) {
	var out domain.Card
	err := s.update(ctx, func(state BoardState) (BoardState, error) {
		card, ok := state.Board.FindCard(cardID)
		if !ok {
			return state, fmt.Errorf("card %q: %w", cardID, ErrNotFound)
		}
		newID := s.idGen()
		if strings.TrimSpace(newID) == "" {
			return state, domain.ErrInvalidID
		}
		state.Board = state.Board.DuplicateCard(card, newID, s.clock())
		out, _ = state.Board.FindCard(newID)
		return state, nil
	})
	if err != nil {
		return domain.Card{}, err
	}
	s.logger.Debug("card duplicated", "source_id", cardID, "card_id", out.ID)
	return out, nil
}

// EditCard replaces the editable fields of a card wherever it lives.
func (s *Service) EditCard(ctx context.Context, in UpdateCardInput) (domain.Card, error) {
	var out domain.Card
	err := s.update(ctx, func(state BoardState) (BoardState, error) {
		current, ok := state.Board.FindCard(in.CardID)
		if !ok {
			return state, fmt.Errorf("card %q: %w", in.CardID, ErrNotFound)
		}
		if strings.TrimSpace(in.Title) == "" {
			return state, domain.ErrInvalidTitle
		}
		if !in.Priority.Valid() {
			return state, domain.ErrInvalidPriority
		}
		updated := current
		updated.Title = in.Title
		updated.Description = in.Description
		updated.Priority = in.Priority
		updated.DueDate = in.DueDate
		if in.Completed != nil {
			updated.Completed = *in.Completed
		}
		state.Board = state.Board.EditCard(updated)
		out, _ = state.Board.FindCard(in.CardID)
		return state, nil
	})
	return out, err
}

// AddColumn appends an empty column whose id derives from title.
func (s *Service) AddColumn(ctx context.Context, title, color string) (domain.Column, error) {
	var out domain.Column
	err := s.update(ctx, func(state BoardState) (BoardState, error) {
		col, err := domain.NewColumn(title, color)
		if err != nil {
			return state, err
		}
		if state.Board.HasColumn(col.ID) {
			return state, fmt.Errorf("column %q: %w", col.ID, ErrDuplicateColumn)
		}
		state.Board = state.Board.AddColumn(title, color)
		out, _ = state.Board.Column(col.ID)
		return state, nil
	})
	if err != nil {
		return domain.Column{}, err
	}
	s.logger.Debug("column added", "column_id", out.ID)
	return out, nil
}

// RemoveColumn deletes a column and every card in it.
func (s *Service) RemoveColumn(ctx context.Context, columnID string) error {
	return s.update(ctx, func(state BoardState) (BoardState, error) {
		if !state.Board.HasColumn(columnID) {
			return state, fmt.Errorf("column %q: %w", columnID, ErrNotFound)
		}
		state.Board = state.Board.RemoveColumn(columnID)
		s.logger.Debug("column removed", "column_id", columnID)
		return state, nil
	})
}

// ClearCards removes every card and keeps the columns.
func (s *Service) ClearCards(ctx context.Context) error {
	return s.update(ctx, func(state BoardState) (BoardState, error) {
		state.Board = state.Board.ClearCards()
		s.logger.Debug("board cleared", "columns", len(state.Board.Columns))
		return state, nil
	})
}

// RenameBoard sets the board display name.
func (s *Service) RenameBoard(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.ErrInvalidName
	}
	return s.update(ctx, func(state BoardState) (BoardState, error) {
		state.Name = name
		return state, nil
	})
}

// UpdateProfile sets the profile display name.
func (s *Service) UpdateProfile(ctx context.Context, name string) (domain.Profile, error) {
	profile, err := domain.NewProfile(name)
	if err != nil {
		return domain.Profile{}, err
	}
	err = s.update(ctx, func(state BoardState) (BoardState, error) {
		state.Profile = profile
		return state, nil
	})
	if err != nil {
		return domain.Profile{}, err
	}
	return profile, nil
}

// update runs fn against the current state under the write lock and saves
// the result. The stored state is untouched when fn fails.
func (s *Service) update(ctx context.Context, fn func(BoardState) (BoardState, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load(ctx)
	if err != nil {
		return err
	}
	next, err := fn(state)
	if err != nil {
		return err
	}
	return s.repo.SaveState(ctx, next)
}

// load reads the stored state, seeding it on first use. Callers hold mu.
func (s *Service) load(ctx context.Context) (BoardState, error) {
	state, err := s.repo.LoadState(ctx)
	if err == nil {
		return state, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return BoardState{}, err
	}
	state = s.seedState()
	if err := s.repo.SaveState(ctx, state); err != nil {
		return BoardState{}, err
	}
	s.logger.Info("board seeded", "name", state.Name, "columns", len(state.Board.Columns))
	return state, nil
}

func (s *Service) seedState() BoardState {
	columns := make([]domain.Column, 0, len(s.templates))
	for _, tpl := range s.templates {
		columns = append(columns, domain.Column{ID: tpl.ID, Title: tpl.Title, Color: tpl.Color})
	}
	return BoardState{
		Name:    s.boardName,
		Profile: domain.Profile{Name: s.profile},
		Board:   domain.NewBoard(columns...),
	}
}

// sanitizeColumnTemplates trims templates, derives missing ids, normalizes
// explicit ids the way AddColumn derives them and drops blank or colliding
// entries.
func sanitizeColumnTemplates(in []ColumnTemplate) []ColumnTemplate {
	out := make([]ColumnTemplate, 0, len(in))
	seen := map[string]struct{}{}
	for _, tpl := range in {
		tpl.Title = strings.TrimSpace(tpl.Title)
		tpl.Color = strings.TrimSpace(tpl.Color)
		if tpl.Title == "" {
			continue
		}
		tpl.ID = domain.ColumnIDFromTitle(tpl.ID)
		if tpl.ID == "" {
			tpl.ID = domain.ColumnIDFromTitle(tpl.Title)
		}
		if _, ok := seen[tpl.ID]; ok {
			continue
		}
		seen[tpl.ID] = struct{}{}
		out = append(out, tpl)
	}
	return out
}
