package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// ThemeMode selects the built-in palette.
type ThemeMode string

const (
	ThemeLight ThemeMode = "light"
	ThemeDark  ThemeMode = "dark"
)

type Config struct {
	Board   BoardConfig   `toml:"board"`
	Profile ProfileConfig `toml:"profile"`
	UI      UIConfig      `toml:"ui"`
	Drag    DragConfig    `toml:"drag"`
	Logging LoggingConfig `toml:"logging"`
}

type BoardConfig struct {
	Name    string         `toml:"name"`
	Columns []ColumnConfig `toml:"columns"`
}

type ColumnConfig struct {
	ID    string `toml:"id"`
	Title string `toml:"title"`
	Color string `toml:"color"`
}

type ProfileConfig struct {
	Name string `toml:"name"`
}

type UIConfig struct {
	Theme            ThemeMode `toml:"theme"`
	ThemeFile        string    `toml:"theme_file"`
	ShowDescriptions bool      `toml:"show_descriptions"`
	Markdown         bool      `toml:"markdown"`
}

// DragConfig holds gesture thresholds in terminal cells.
type DragConfig struct {
	PressThreshold int `toml:"press_threshold"`
	SwipeThreshold int `toml:"swipe_threshold"`
	GhostOffsetX   int `toml:"ghost_offset_x"`
	GhostOffsetY   int `toml:"ghost_offset_y"`
	FlashMS        int `toml:"flash_ms"`
}

type LoggingConfig struct {
	Level   string        `toml:"level"`
	DevFile DevFileConfig `toml:"dev_file"`
}

type DevFileConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

func defaultColumns() []ColumnConfig {
	return []ColumnConfig{
		{ID: "todo", Title: "To Do", Color: "#818cf8"},
		{ID: "inprogress", Title: "In Progress", Color: "#f59e0b"},
		{ID: "done", Title: "Done", Color: "#10b981"},
	}
}

func Default() Config {
	return Config{
		Board: BoardConfig{
			Name:    "My Board",
			Columns: defaultColumns(),
		},
		Profile: ProfileConfig{
			Name: "User",
		},
		UI: UIConfig{
			Theme:            ThemeLight,
			ShowDescriptions: true,
			Markdown:         true,
		},
		Drag: DragConfig{
			PressThreshold: 2,
			SwipeThreshold: 3,
			GhostOffsetX:   -2,
			GhostOffsetY:   -1,
			FlashMS:        500,
		},
		Logging: LoggingConfig{
			Level: "info",
			DevFile: DevFileConfig{
				Enabled: true,
				Dir:     ".tavla/log",
			},
		},
	}
}

func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	// Column tables replace the defaults instead of extending them.
	cfg.Board.Columns = nil
	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}
	if len(cfg.Board.Columns) == 0 {
		cfg.Board.Columns = append([]ColumnConfig(nil), defaults.Board.Columns...)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// columnID matches the id the board derives for a column title.
func columnID(raw string) string {
	return strings.Join(strings.Fields(strings.ToLower(raw)), "")
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Board.Name) == "" {
		return errors.New("board.name is required")
	}
	seen := map[string]struct{}{}
	for idx, col := range c.Board.Columns {
		title := strings.TrimSpace(col.Title)
		if title == "" {
			return fmt.Errorf("board.columns[%d].title is required", idx)
		}
		id := columnID(col.ID)
		if id == "" {
			id = columnID(title)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("board.columns[%d].id is duplicated: %s", idx, id)
		}
		seen[id] = struct{}{}
		if color := strings.TrimSpace(col.Color); color != "" && !isHexColor(color) {
			return fmt.Errorf("board.columns[%d].color must be #rrggbb: %q", idx, col.Color)
		}
	}

	if strings.TrimSpace(c.Profile.Name) == "" {
		return errors.New("profile.name is required")
	}

	switch ThemeMode(strings.ToLower(strings.TrimSpace(string(c.UI.Theme)))) {
	case ThemeLight, ThemeDark:
	default:
		return fmt.Errorf("invalid ui.theme: %q", c.UI.Theme)
	}

	if c.Drag.PressThreshold < 1 {
		return fmt.Errorf("drag.press_threshold must be >= 1: %d", c.Drag.PressThreshold)
	}
	if c.Drag.SwipeThreshold < 1 {
		return fmt.Errorf("drag.swipe_threshold must be >= 1: %d", c.Drag.SwipeThreshold)
	}
	if c.Drag.FlashMS < 0 {
		return fmt.Errorf("drag.flash_ms must be >= 0: %d", c.Drag.FlashMS)
	}

	switch strings.ToLower(strings.TrimSpace(c.Logging.Level)) {
	case "debug", "info", "warn", "error", "fatal":
	default:
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}
	return nil
}

// DarkMode reports whether the dark palette is selected.
func (c Config) DarkMode() bool {
	return ThemeMode(strings.ToLower(strings.TrimSpace(string(c.UI.Theme)))) == ThemeDark
}

func EnsureConfigDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func isHexColor(v string) bool {
	if len(v) != 7 || v[0] != '#' {
		return false
	}
	for _, r := range v[1:] {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
