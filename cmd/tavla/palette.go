package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/evanschultz/tavla/internal/theme"
)

// newPaletteCommand prints the list colors and both resolved palettes.
func newPaletteCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "palette",
		Short: "Show list colors and the light and dark palettes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			paths, err := resolvePaths(opts)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(configPathFor(opts, paths), opts)
			if err != nil {
				return err
			}
			overrides, err := theme.LoadOverrides(themePathFor(cfg, paths))
			if err != nil {
				return fmt.Errorf("load theme: %w", err)
			}
			return writePalettes(cmd.OutOrStdout(), theme.NewSet(overrides))
		},
	}
}

// writePalettes renders the palette tables to out.
func writePalettes(out io.Writer, set theme.Set) error {
	lists := newPaletteTable("Color", "Hex", "Sample")
	for _, c := range theme.ColumnColors() {
		lists.Row(c.Name, c.Hex, swatch(c.Hex, "#ffffff"))
	}

	roles := newPaletteTable("Role", "Light", "Dark")
	light, dark := paletteEntries(set.Palette(false)), paletteEntries(set.Palette(true))
	for i := range light {
		roles.Row(light[i].name, swatch(light[i].hex, "#000000"), swatch(dark[i].hex, "#ffffff"))
	}

	if _, err := fmt.Fprintf(out, "List colors\n%s\n\nTheme roles\n%s\n", lists.Render(), roles.Render()); err != nil {
		return fmt.Errorf("write palette: %w", err)
	}
	return nil
}

func newPaletteTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("62"))).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}

func swatch(hex, fg string) string {
	return lipgloss.NewStyle().
		Background(lipgloss.Color(hex)).
		Foreground(lipgloss.Color(fg)).
		Width(10).
		Align(lipgloss.Center).
		Render(hex)
}

type paletteEntry struct {
	name string
	hex  string
}

func paletteEntries(p theme.Palette) []paletteEntry {
	return []paletteEntry{
		{"accent", p.Accent},
		{"text", p.Text},
		{"subtle", p.Subtle},
		{"border", p.Border},
		{"card_border", p.CardBorder},
		{"selected", p.Selected},
		{"drop_target", p.DropTarget},
		{"flash", p.Flash},
		{"ghost", p.Ghost},
		{"danger", p.Danger},
		{"priority_high", p.PriorityHigh},
		{"priority_medium", p.PriorityMedium},
		{"priority_low", p.PriorityLow},
		{"status_fg", p.StatusFg},
	}
}
