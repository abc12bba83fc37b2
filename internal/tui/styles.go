package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Shimmer animation for the HOSTDESK logo.
type shimmerTickMsg time.Time

func shimmerTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return shimmerTickMsg(t)
	})
}

// renderShimmerLogo renders "H O S T D E S K" as a slow wave of teal light.
// Deep teal (#0f3b3a) -> bright aqua (#2dd4bf).
func renderShimmerLogo(frame int) string {
	const text = "HOSTDESK"
	n := len(text)

	var out string
	t := float64(frame)

	for i := 0; i < n; i++ {
		x := float64(i) / float64(n-1)

		phase := t*0.1 - x*3.0
		phase += math.Sin(t*0.023) * 2.0

		b := math.Sin(phase)*0.5 + 0.5
		b = math.Pow(b, 1.3)

		tide := math.Sin(t*0.035) * 0.12
		b = b*0.75 + tide + 0.18

		if b > 1.0 {
			b = 1.0
		} else if b < 0.05 {
			b = 0.05
		}

		// Deep:   (15, 59, 58)    #0f3b3a
		// Bright: (45, 212, 191)  #2dd4bf
		r := clampByte(15 + b*(45-15))
		g := clampByte(59 + b*(212-59))
		bl := clampByte(58 + b*(191-58))

		color := fmt.Sprintf("#%02X%02X%02X", r, g, bl)
		s := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(color))
		out += s.Render(string(text[i]))

		if i < n-1 {
			out += "  "
		}
	}

	return out
}

func clampByte(v float64) int {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return int(v)
}

var (
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0c4d0"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	// Help bar
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#2dd4bf"))

	headerLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#5eead4")).
				Bold(true)

	headerVoiceStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#7a8a99")).
				Italic(true)

	statusOKStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ade80"))

	statusErrStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e06060"))

	suggestionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c8a84c")).
			Italic(true)

	unreadDotStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#2dd4bf"))

	// Selected row background
	selectedRowBg = lipgloss.NewStyle().Background(lipgloss.Color("#1e1e2a"))

	inputPromptStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#2dd4bf")).
				Bold(true)

	inputPlaceholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#343c4a"))

	inputTextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec"))

	channelColors = map[string]lipgloss.Color{
		"airbnb":  lipgloss.Color("#ff5a5f"),
		"booking": lipgloss.Color("#60a0e0"),
		"expedia": lipgloss.Color("#facc15"),
		"vrbo":    lipgloss.Color("#3ecce4"),
		"direct":  lipgloss.Color("#4ade80"),
		"email":   lipgloss.Color("#b080d0"),
		"sms":     lipgloss.Color("#f0944a"),
	}

	severityColors = map[string]lipgloss.Color{
		"info":     lipgloss.Color("#60a0e0"),
		"warning":  lipgloss.Color("#f59e0b"),
		"critical": lipgloss.Color("#e06060"),
	}

	statusColors = map[string]lipgloss.Color{
		"new":          lipgloss.Color("#2dd4bf"),
		"replied":      lipgloss.Color("#8890a0"),
		"handled":      lipgloss.Color("#505868"),
		"confirmed":    lipgloss.Color("#60a0e0"),
		"checked_in":   lipgloss.Color("#4ade80"),
		"checked_out":  lipgloss.Color("#505868"),
		"cancelled":    lipgloss.Color("#b45555"),
		"pending":      lipgloss.Color("#f59e0b"),
		"sent":         lipgloss.Color("#60a0e0"),
		"acknowledged": lipgloss.Color("#4ade80"),
		"failed":       lipgloss.Color("#e06060"),
	}
)

// ChannelStyle returns a bold style colored for an OTA or messaging channel.
func ChannelStyle(channel string) lipgloss.Style {
	if c, ok := channelColors[strings.ToLower(channel)]; ok {
		return lipgloss.NewStyle().Foreground(c).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#8890a0")).Bold(true)
}

// SeverityStyle returns the style for an alert severity.
func SeverityStyle(severity string) lipgloss.Style {
	if c, ok := severityColors[severity]; ok {
		return lipgloss.NewStyle().Foreground(c).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#606878")).Bold(true)
}

func statusStyle(status string) lipgloss.Style {
	if c, ok := statusColors[status]; ok {
		return lipgloss.NewStyle().Foreground(c)
	}
	return metaStyle
}

// severityMark is the single-rune marker shown before an alert.
func severityMark(severity string) string {
	switch severity {
	case "critical":
		return SeverityStyle(severity).Render("!!")
	case "warning":
		return SeverityStyle(severity).Render("! ")
	}
	return SeverityStyle(severity).Render("· ")
}

// helpEntry renders a single "key label" pair for help bars.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}

// helpBar joins help entries into a help bar line.
func helpBar(entries ...string) string {
	return " " + strings.Join(entries, "  ")
}

// helpItem is a selectable link in the help overlay.
type helpItem struct {
	label string
	desc  string
	url   string
}

// helpItems links to the API server the console is talking to.
func helpItems(baseURL string) []helpItem {
	if baseURL == "" {
		return nil
	}
	return []helpItem{
		{"API docs", baseURL + "/docs", baseURL + "/docs"},
		{"API server", baseURL, baseURL},
	}
}

// helpView renders the interactive help overlay with a cursor.
func helpView(items []helpItem, cursor int, version string) string {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#2dd4bf")).
		Bold(true).
		Render("H O S T D E S K")

	sub := headerVoiceStyle.Render("guest messages, reservations and follow-ups")

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	sectionStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)
	selected := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2dd4bf"))
	linkDescStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)

	commands := []struct{ cmd, desc string }{
		{"hostdesk", "Open the console"},
		{"hostdesk login", "Save an API token"},
		{"hostdesk logout", "Remove the saved token"},
		{"hostdesk inbox", "Print the inbox"},
		{"hostdesk push", "Manage push notifications"},
		{"hostdesk version", "Show version"},
	}
	keys := []struct{ key, desc string }{
		{"1-4", "Inbox, Reservations, Alerts, Properties"},
		{"P", "Push notifications"},
		{"r", "Refresh the current tab"},
		{"h", "Toggle this help"},
		{"q", "Quit"},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s  %s\n  %s\n\n", title, metaStyle.Render(version), sub)

	fmt.Fprintf(&b, "  %s\n", sectionStyle.Render("Commands"))
	for _, c := range commands {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", c.cmd)), descStyle.Render(c.desc))
	}

	fmt.Fprintf(&b, "\n  %s\n", sectionStyle.Render("Keys"))
	for _, k := range keys {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", k.key)), descStyle.Render(k.desc))
	}

	if len(items) > 0 {
		fmt.Fprintf(&b, "\n  %s\n", sectionStyle.Render("Links (enter to open)"))
		for i, item := range items {
			label := cmdStyle.Render(fmt.Sprintf("%-20s", item.label))
			prefix := "    "
			if i == cursor {
				label = selected.Render(fmt.Sprintf("%-20s", item.label))
				prefix = "  > "
			}
			fmt.Fprintf(&b, "%s%s  %s\n", prefix, label, linkDescStyle.Render(item.desc))
		}
	}
	return b.String()
}
