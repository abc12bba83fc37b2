package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hostdesk/hostdesk/internal/browser"
	"github.com/hostdesk/hostdesk/pkg/client"
)

type view int

const (
	viewInbox view = iota
	viewReservations
	viewAlerts
	viewProperties
)

// App is the root Bubbletea model.
type App struct {
	client       *client.Client
	version      string
	view         view
	inbox        inboxModel
	reservations reservationsModel
	alerts       alertsModel
	properties   propertiesModel
	push         pushModel
	pushOpen     bool
	helpOpen     bool
	helpCursor   int
	helpItems    []helpItem
	width        int
	height       int
	frame        int // logo shimmer animation frame
}

// NewApp creates a new TUI application. pushFactory may be nil when push
// notifications are not configured.
func NewApp(c *client.Client, pushFactory PushFactory, version string) App {
	var items []helpItem
	if c != nil {
		items = helpItems(c.BaseURL())
	}
	return App{
		client:       c,
		version:      version,
		inbox:        newInboxModel(c),
		reservations: newReservationsModel(c),
		alerts:       newAlertsModel(c),
		properties:   newPropertiesModel(c),
		push:         newPushModel(c, pushFactory),
		helpItems:    items,
	}
}

func (a App) Init() tea.Cmd {
	// Alerts load up front so the tab badge is populated.
	return tea.Batch(a.inbox.Init(), a.alerts.Init(), shimmerTickCmd())
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Chrome: header(2) + tabs(1) + help(1) = 4 lines
		bodyMsg := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 4}
		a.inbox, _ = a.inbox.Update(bodyMsg)
		a.reservations, _ = a.reservations.Update(bodyMsg)
		a.alerts, _ = a.alerts.Update(bodyMsg)
		a.properties, _ = a.properties.Update(bodyMsg)
		return a, nil

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	// Results arrive asynchronously and may belong to a tab that is no
	// longer shown, so every sub-model sees them.
	var cmds [5]tea.Cmd
	a.inbox, cmds[0] = a.inbox.Update(msg)
	a.reservations, cmds[1] = a.reservations.Update(msg)
	a.alerts, cmds[2] = a.alerts.Update(msg)
	a.properties, cmds[3] = a.properties.Update(msg)
	a.push, cmds[4] = a.push.Update(msg)
	return a, tea.Batch(cmds[:]...)
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Help overlay captures all keys when open
	if a.helpOpen {
		switch msg.String() {
		case "h", "esc":
			a.helpOpen = false
		case "q", "ctrl+c":
			return a, tea.Quit
		case "j", "down":
			if a.helpCursor < len(a.helpItems)-1 {
				a.helpCursor++
			}
		case "k", "up":
			if a.helpCursor > 0 {
				a.helpCursor--
			}
		case "enter":
			if a.helpCursor < len(a.helpItems) {
				browser.Open(a.helpItems[a.helpCursor].url) //nolint:errcheck // best-effort browser open
			}
		}
		return a, nil
	}

	// Push overlay captures all keys when open
	if a.pushOpen {
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		var cmd tea.Cmd
		a.push, cmd = a.push.Update(msg)
		if a.push.closed {
			a.pushOpen = false
		}
		return a, cmd
	}

	if !a.isEditing() {
		switch msg.String() {
		case "h":
			a.helpOpen = true
			a.helpCursor = 0
			return a, nil
		case "q", "ctrl+c":
			return a, tea.Quit
		case "P":
			a.pushOpen = true
			a.push.closed = false
			a.push.statusMsg = ""
			return a, a.push.Init()
		case "1":
			return a.switchTo(viewInbox)
		case "2":
			return a.switchTo(viewReservations)
		case "3":
			return a.switchTo(viewAlerts)
		case "4":
			return a.switchTo(viewProperties)
		}
	} else if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	var cmd tea.Cmd
	switch a.view {
	case viewInbox:
		a.inbox, cmd = a.inbox.Update(msg)
	case viewReservations:
		a.reservations, cmd = a.reservations.Update(msg)
	case viewAlerts:
		a.alerts, cmd = a.alerts.Update(msg)
	case viewProperties:
		a.properties, cmd = a.properties.Update(msg)
	}
	return a, cmd
}

// switchTo changes tab and reloads it.
func (a App) switchTo(v view) (tea.Model, tea.Cmd) {
	if a.view == v {
		return a, nil
	}
	a.view = v
	switch v {
	case viewInbox:
		a.inbox.loading = true
		return a, a.inbox.Init()
	case viewReservations:
		a.reservations.loading = true
		return a, a.reservations.Init()
	case viewAlerts:
		return a, a.alerts.Init()
	case viewProperties:
		a.properties.loading = true
		return a, a.properties.Init()
	}
	return a, nil
}

func (a App) isEditing() bool {
	return a.view == viewReservations && a.reservations.assigning
}

func (a App) View() string {
	logo := renderShimmerLogo(a.frame)
	logoPad := max((a.width-lipgloss.Width(logo))/2, 0)
	header := strings.Repeat(" ", logoPad) + logo

	var stats []string
	if n := a.inbox.unreadCount(); n > 0 {
		stats = append(stats, fmt.Sprintf("%d unread", n))
	}
	if n := a.alerts.unreadCount(); n > 0 {
		stats = append(stats, fmt.Sprintf("%d alerts", n))
	}
	if n := a.reservations.unassignedCount(); n > 0 {
		stats = append(stats, fmt.Sprintf("%d unassigned", n))
	}
	if len(stats) > 0 {
		statsLine := metaStyle.Render(strings.Join(stats, " · "))
		statsPad := max((a.width-lipgloss.Width(statsLine))/2, 0)
		header += "\n" + strings.Repeat(" ", statsPad) + statsLine
	} else {
		header += "\n"
	}

	type tabEntry struct {
		key   string
		name  string
		v     view
		badge int
	}
	tabs := []tabEntry{
		{"1", "Inbox", viewInbox, a.inbox.unreadCount()},
		{"2", "Reservations", viewReservations, a.reservations.unassignedCount()},
		{"3", "Alerts", viewAlerts, a.alerts.unreadCount()},
		{"4", "Properties", viewProperties, 0},
	}

	colWidth := a.width / len(tabs)
	var tabBar strings.Builder
	for _, t := range tabs {
		var label string
		if t.v == a.view {
			label = accentStyle.Render(t.key) + " " + selectedStyle.Underline(true).Render(t.name)
		} else {
			label = metaStyle.Render(t.key) + " " + dimStyle.Render(t.name)
		}
		if t.badge > 0 {
			label += " " + unreadDotStyle.Render("●") + dimStyle.Render(fmt.Sprintf("%d", t.badge))
		}
		labelWidth := lipgloss.Width(label)
		leftPad := max((colWidth-labelWidth)/2, 0)
		rightPad := max(colWidth-labelWidth-leftPad, 0)
		tabBar.WriteString(strings.Repeat(" ", leftPad) + label + strings.Repeat(" ", rightPad))
	}

	var body, help string
	switch a.view {
	case viewInbox:
		body, help = a.inbox.View(), a.inbox.helpKeys()
	case viewReservations:
		body, help = a.reservations.View(), a.reservations.helpKeys()
	case viewAlerts:
		body, help = a.alerts.View(), a.alerts.helpKeys()
	case viewProperties:
		body, help = a.properties.View(), a.properties.helpKeys()
	}

	if a.pushOpen {
		body, help = a.push.View(), a.push.helpKeys()
	}
	if a.helpOpen {
		body = helpView(a.helpItems, a.helpCursor, a.version)
		help = helpBar(helpEntry("j/k", "nav"), helpEntry("enter", "open"), helpEntry("esc", "close"))
	}

	const chrome = 4
	body = strings.TrimRight(truncateToHeight(body, a.height-chrome), "\n")

	return fmt.Sprintf("%s\n%s\n%s\n%s", header, tabBar.String(), body, help)
}
