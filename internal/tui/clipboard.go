package tui

import (
	"errors"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/evanschultz/tavla/internal/domain"
)

var errClipboardUnavailable = errors.New("clipboard unavailable")

// writeClipboard copies text to the system clipboard.
func writeClipboard(text string) error {
	if clipboard.Unsupported {
		return errClipboardUnavailable
	}
	return clipboard.WriteAll(text)
}

// cardClipboardText formats a card as plain text for pasting.
func cardClipboardText(card domain.Card) string {
	var b strings.Builder
	b.WriteString(card.Title)
	if desc := strings.TrimSpace(card.Description); desc != "" {
		b.WriteString("\n\n")
		b.WriteString(desc)
	}
	var meta []string
	if card.Priority != domain.PriorityNone {
		meta = append(meta, "priority: "+string(card.Priority))
	}
	if due := domain.FormatDueDate(card.DueDate); due != "" {
		meta = append(meta, "due: "+due)
	}
	if card.Completed {
		meta = append(meta, "completed")
	}
	if len(meta) > 0 {
		b.WriteString("\n\n")
		b.WriteString(strings.Join(meta, " · "))
	}
	return b.String()
}
