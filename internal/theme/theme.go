// Package theme holds the light and dark palettes used by the board UI.
package theme

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Palette is a set of hex colors. Empty entries mean "use the preset".
type Palette struct {
	Accent         string `yaml:"accent"`
	Text           string `yaml:"text"`
	Subtle         string `yaml:"subtle"`
	Border         string `yaml:"border"`
	CardBorder     string `yaml:"card_border"`
	Selected       string `yaml:"selected"`
	DropTarget     string `yaml:"drop_target"`
	Flash          string `yaml:"flash"`
	Ghost          string `yaml:"ghost"`
	Danger         string `yaml:"danger"`
	PriorityHigh   string `yaml:"priority_high"`
	PriorityMedium string `yaml:"priority_medium"`
	PriorityLow    string `yaml:"priority_low"`
	StatusFg       string `yaml:"status_fg"`
}

// Light returns the light preset.
func Light() Palette {
	return Palette{
		Accent:         "#4f46e5",
		Text:           "#1f2937",
		Subtle:         "#6b7280",
		Border:         "#d1d5db",
		CardBorder:     "#e5e7eb",
		Selected:       "#4f46e5",
		DropTarget:     "#6366f1",
		Flash:          "#22c55e",
		Ghost:          "#6366f1",
		Danger:         "#dc2626",
		PriorityHigh:   "#dc2626",
		PriorityMedium: "#d97706",
		PriorityLow:    "#059669",
		StatusFg:       "#374151",
	}
}

// Dark returns the dark preset.
func Dark() Palette {
	return Palette{
		Accent:         "#818cf8",
		Text:           "#e5e7eb",
		Subtle:         "#9ca3af",
		Border:         "#374151",
		CardBorder:     "#4b5563",
		Selected:       "#a5b4fc",
		DropTarget:     "#818cf8",
		Flash:          "#4ade80",
		Ghost:          "#a5b4fc",
		Danger:         "#f87171",
		PriorityHigh:   "#f87171",
		PriorityMedium: "#fbbf24",
		PriorityLow:    "#34d399",
		StatusFg:       "#d1d5db",
	}
}

// Preset returns the dark or light palette.
func Preset(dark bool) Palette {
	if dark {
		return Dark()
	}
	return Light()
}

// MergeFrom copies every non-empty entry of other onto p.
func (p *Palette) MergeFrom(other Palette) {
	merge := func(dst *string, src string) {
		if v := strings.TrimSpace(src); v != "" {
			*dst = v
		}
	}
	merge(&p.Accent, other.Accent)
	merge(&p.Text, other.Text)
	merge(&p.Subtle, other.Subtle)
	merge(&p.Border, other.Border)
	merge(&p.CardBorder, other.CardBorder)
	merge(&p.Selected, other.Selected)
	merge(&p.DropTarget, other.DropTarget)
	merge(&p.Flash, other.Flash)
	merge(&p.Ghost, other.Ghost)
	merge(&p.Danger, other.Danger)
	merge(&p.PriorityHigh, other.PriorityHigh)
	merge(&p.PriorityMedium, other.PriorityMedium)
	merge(&p.PriorityLow, other.PriorityLow)
	merge(&p.StatusFg, other.StatusFg)
}

// Overrides are per-mode palette overrides read from a YAML theme file:
//
//	light:
//	  accent: "#ff0000"
//	dark:
//	  drop_target: "#00ff00"
type Overrides struct {
	Light Palette `yaml:"light"`
	Dark  Palette `yaml:"dark"`
}

// Set holds the resolved light and dark palettes.
type Set struct {
	light Palette
	dark  Palette
}

// NewSet applies overrides to both presets.
func NewSet(overrides Overrides) Set {
	light, dark := Light(), Dark()
	light.MergeFrom(overrides.Light)
	dark.MergeFrom(overrides.Dark)
	return Set{light: light, dark: dark}
}

// Palette returns the palette for the requested mode.
func (s Set) Palette(dark bool) Palette {
	if dark {
		return s.dark
	}
	return s.light
}

// LoadOverrides reads a theme file. A blank path or missing file yields no
// overrides.
func LoadOverrides(path string) (Overrides, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Overrides{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Overrides{}, nil
		}
		return Overrides{}, fmt.Errorf("read theme file: %w", err)
	}
	var out Overrides
	if err := yaml.Unmarshal(data, &out); err != nil {
		return Overrides{}, fmt.Errorf("decode theme file: %w", err)
	}
	return out, nil
}

// ColumnColor is one selectable column accent.
type ColumnColor struct {
	Name string
	Hex  string
}

// ColumnColors returns the accents offered when creating a column.
func ColumnColors() []ColumnColor {
	return []ColumnColor{
		{Name: "Indigo", Hex: "#818cf8"},
		{Name: "Amber", Hex: "#f59e0b"},
		{Name: "Emerald", Hex: "#10b981"},
		{Name: "Red", Hex: "#ef4444"},
		{Name: "Purple", Hex: "#8b5cf6"},
		{Name: "Blue", Hex: "#3b82f6"},
		{Name: "Pink", Hex: "#ec4899"},
		{Name: "Teal", Hex: "#14b8a6"},
	}
}
