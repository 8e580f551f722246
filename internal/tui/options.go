package tui

import (
	"time"

	charmLog "github.com/charmbracelet/log"

	"github.com/evanschultz/tavla/internal/drag"
	"github.com/evanschultz/tavla/internal/theme"
)

// Option configures a Model.
type Option func(*Model)

// DragOptions holds gesture tuning in terminal cells.
type DragOptions struct {
	PressThreshold int
	SwipeThreshold int
	GhostOffsetX   int
	GhostOffsetY   int
	Flash          time.Duration
}

// DefaultDragOptions returns cell-scale gesture defaults.
func DefaultDragOptions() DragOptions {
	return DragOptions{
		PressThreshold: 2,
		SwipeThreshold: 3,
		GhostOffsetX:   -2,
		GhostOffsetY:   -1,
		Flash:          500 * time.Millisecond,
	}
}

// controllerConfig maps drag options onto controller thresholds. Thresholds
// below one cell fall back to the cell-scale defaults.
func (o DragOptions) controllerConfig() drag.Config {
	defaults := DefaultDragOptions()
	if o.PressThreshold < 1 {
		o.PressThreshold = defaults.PressThreshold
	}
	if o.SwipeThreshold < 1 {
		o.SwipeThreshold = defaults.SwipeThreshold
	}
	return drag.Config{
		PressThreshold: o.PressThreshold,
		SwipeThreshold: o.SwipeThreshold,
		GhostOffset:    drag.Point{X: o.GhostOffsetX, Y: o.GhostOffsetY},
	}
}

// WithDragOptions overrides gesture tuning.
func WithDragOptions(opts DragOptions) Option {
	return func(m *Model) {
		m.dragOpts = opts
	}
}

// WithTheme sets the palettes and the starting mode.
func WithTheme(set theme.Set, dark bool) Option {
	return func(m *Model) {
		m.themes = set
		m.dark = dark
	}
}

// WithShowDescriptions toggles description excerpts on cards.
func WithShowDescriptions(show bool) Option {
	return func(m *Model) {
		m.showDescriptions = show
	}
}

// WithMarkdown toggles glamour rendering in the card info view.
func WithMarkdown(enabled bool) Option {
	return func(m *Model) {
		m.markdown = enabled
	}
}

// WithLogger routes model debug logs. Drag logs derive a "drag" prefix from
// it unless WithDragLogger is set.
func WithLogger(logger *charmLog.Logger) Option {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithDragLogger routes drag session transitions.
func WithDragLogger(logger *charmLog.Logger) Option {
	return func(m *Model) {
		if logger != nil {
			m.dragLogger = logger
		}
	}
}

// WithClipboard replaces the clipboard writer.
func WithClipboard(write func(string) error) Option {
	return func(m *Model) {
		if write != nil {
			m.copyText = write
		}
	}
}

// WithClock replaces the clock used for overdue badges.
func WithClock(now func() time.Time) Option {
	return func(m *Model) {
		if now != nil {
			m.now = now
		}
	}
}
