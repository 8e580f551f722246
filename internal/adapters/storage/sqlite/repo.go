package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/evanschultz/tavla/internal/app"
	"github.com/evanschultz/tavla/internal/domain"
	_ "modernc.org/sqlite"
)

// driverName defines a package constant value.
const driverName = "sqlite"

// Repository keeps the session board in a private in-memory database. The
// database lives exactly as long as the process.
type Repository struct {
	db *sql.DB
}

// OpenInMemory opens a fresh session store.
func OpenInMemory() (*Repository, error) {
	db, err := sql.Open(driverName, ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open sqlite memory: %w", err)
	}
	// Every pooled connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)
	repo := &Repository{db: db}
	if err := repo.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// Close closes the requested operation.
func (r *Repository) Close() error {
	return r.db.Close()
}

// migrate handles migrate.
func (r *Repository) migrate(ctx context.Context) error {
	stmts := []string{
		`PRAGMA foreign_keys = ON;`,
		`CREATE TABLE IF NOT EXISTS board_meta (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			name TEXT NOT NULL,
			profile_name TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS board_columns (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			color TEXT NOT NULL DEFAULT '',
			position INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS cards (
			id TEXT PRIMARY KEY,
			column_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			priority TEXT NOT NULL DEFAULT '',
			due_date TEXT,
			completed INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL,
			FOREIGN KEY(column_id) REFERENCES board_columns(id) ON DELETE CASCADE
		);`,
		`CREATE INDEX IF NOT EXISTS idx_cards_column_position ON cards(column_id, position);`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	return nil
}

// LoadState reads the board, returning app.ErrNotFound before the first save.
func (r *Repository) LoadState(ctx context.Context) (app.BoardState, error) {
	var state app.BoardState
	row := r.db.QueryRowContext(ctx, `SELECT name, profile_name FROM board_meta WHERE id = 1`)
	if err := row.Scan(&state.Name, &state.Profile.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return app.BoardState{}, app.ErrNotFound
		}
		return app.BoardState{}, fmt.Errorf("load board meta: %w", err)
	}

	columns, err := r.loadColumns(ctx)
	if err != nil {
		return app.BoardState{}, err
	}
	index := make(map[string]int, len(columns))
	for i, col := range columns {
		index[col.ID] = i
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, column_id, title, description, priority, due_date, completed, created_at
		FROM cards
		ORDER BY column_id, position
	`)
	if err != nil {
		return app.BoardState{}, fmt.Errorf("load cards: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return app.BoardState{}, err
		}
		i, ok := index[card.ColumnID]
		if !ok {
			continue
		}
		columns[i].Cards = append(columns[i].Cards, card)
	}
	if err := rows.Err(); err != nil {
		return app.BoardState{}, fmt.Errorf("load cards: %w", err)
	}

	state.Board = domain.NewBoard(columns...)
	return state, nil
}

// SaveState replaces the stored board in a single transaction.
func (r *Repository) SaveState(ctx context.Context, state app.BoardState) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, stmt := range []string{`DELETE FROM cards`, `DELETE FROM board_columns`, `DELETE FROM board_meta`} {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clear board: %w", err)
		}
	}
	if _, err = tx.ExecContext(ctx, `INSERT INTO board_meta(id, name, profile_name) VALUES (1, ?, ?)`, state.Name, state.Profile.Name); err != nil {
		return fmt.Errorf("save board meta: %w", err)
	}
	for colPos, col := range state.Board.Columns {
		if _, err = tx.ExecContext(ctx, `INSERT INTO board_columns(id, title, color, position) VALUES (?, ?, ?, ?)`,
			col.ID, col.Title, col.Color, colPos); err != nil {
			return fmt.Errorf("save column %q: %w", col.ID, err)
		}
		for cardPos, card := range col.Cards {
			if _, err = tx.ExecContext(ctx, `
				INSERT INTO cards(id, column_id, position, title, description, priority, due_date, completed, created_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			`, card.ID, col.ID, cardPos, card.Title, card.Description, string(card.Priority),
				nullableDate(card.DueDate), boolToInt(card.Completed), card.CreatedAt.UTC().Format(time.RFC3339Nano)); err != nil {
				return fmt.Errorf("save card %q: %w", card.ID, err)
			}
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

func (r *Repository) loadColumns(ctx context.Context) ([]domain.Column, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, title, color FROM board_columns ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("load columns: %w", err)
	}
	defer rows.Close()
	out := []domain.Column{}
	for rows.Next() {
		var col domain.Column
		if err := rows.Scan(&col.ID, &col.Title, &col.Color); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		out = append(out, col)
	}
	return out, rows.Err()
}

// scanner is the shared surface of sql.Row and sql.Rows.
type scanner interface {
	Scan(...any) error
}

func scanCard(s scanner) (domain.Card, error) {
	var (
		card      domain.Card
		priority  string
		dueRaw    sql.NullString
		completed int
		createdAt string
	)
	if err := s.Scan(&card.ID, &card.ColumnID, &card.Title, &card.Description, &priority, &dueRaw, &completed, &createdAt); err != nil {
		return domain.Card{}, fmt.Errorf("scan card: %w", err)
	}
	card.Priority = domain.Priority(priority)
	card.Completed = completed != 0
	if dueRaw.Valid {
		due, err := domain.ParseDueDate(dueRaw.String)
		if err != nil {
			return domain.Card{}, fmt.Errorf("parse due date %q: %w", dueRaw.String, err)
		}
		card.DueDate = due
	}
	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return domain.Card{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	card.CreatedAt = ts
	return card, nil
}

func nullableDate(due *time.Time) any {
	if due == nil {
		return nil
	}
	return domain.FormatDueDate(due)
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
