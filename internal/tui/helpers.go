package tui

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hostdesk/hostdesk/pkg/domain"
)

// formatTime renders a relative timestamp for list displays.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

// formatStay renders a check-in/check-out pair as "Jan 02 → Jan 05".
// Unparseable dates are shown as sent.
func formatStay(checkIn, checkOut string) string {
	return shortDate(checkIn) + " → " + shortDate(checkOut)
}

func shortDate(s string) string {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return s
	}
	return d.Format("Jan 02")
}

// truncStr truncates a string to maxLen runes, appending an ellipsis if needed.
func truncStr(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-1]) + "…"
}

// oneLine collapses newlines and runs of whitespace so a message body fits
// on a single list row.
func oneLine(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

// wrapText wraps s at width runes on word boundaries.
func wrapText(s string, width int) []string {
	if width < 10 {
		width = 10
	}
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			if utf8.RuneCountInString(line)+1+utf8.RuneCountInString(w) > width {
				lines = append(lines, line)
				line = w
				continue
			}
			line += " " + w
		}
		lines = append(lines, line)
	}
	return lines
}

// deref returns the pointed-to string, or fallback when p is nil or empty.
func deref(p *string, fallback string) string {
	if p == nil || *p == "" {
		return fallback
	}
	return *p
}

// separator renders a dim horizontal rule for the given width.
func separator(width int) string {
	w := width - 2
	if w < 4 {
		w = 4
	}
	return " " + metaStyle.Render(strings.Repeat("─", w))
}

// scrollWindow returns the [start, end) range of rows to show so that cursor
// stays visible within maxVisible rows.
func scrollWindow(cursor, total, maxVisible int) (int, int) {
	if maxVisible < 1 {
		maxVisible = 1
	}
	start := 0
	if cursor >= maxVisible {
		start = cursor - maxVisible + 1
	}
	end := start + maxVisible
	if end > total {
		end = total
	}
	return start, end
}

// indexByID returns the index of the item whose id matches, or -1.
func indexByID[T any](items []T, id int64, idOf func(T) int64) int {
	for i, it := range items {
		if idOf(it) == id {
			return i
		}
	}
	return -1
}

func reservationID(r domain.Reservation) int64 { return r.ID }

func messageID(m domain.InboxMessage) int64 { return m.ID }
