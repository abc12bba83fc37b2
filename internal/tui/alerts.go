package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/hostdesk/hostdesk/pkg/client"
	"github.com/hostdesk/hostdesk/pkg/domain"
)

type alertsSection int

const (
	sectionAlerts alertsSection = iota
	sectionStaff
)

type alertsModel struct {
	client    *client.Client
	section   alertsSection
	alerts    []domain.Notification
	staff     []domain.StaffNotification
	cursor    int
	loading   bool
	err       error
	staffErr  error
	statusMsg string
	statusErr bool
	now       func() time.Time
	width     int
	height    int
}

type alertsLoadedMsg struct {
	alerts []domain.Notification
	err    error
}

type staffLoadedMsg struct {
	staff []domain.StaffNotification
	err   error
}

// alertReadMsg reports a mark-read; a nil id means all alerts.
type alertReadMsg struct {
	id  *uuid.UUID
	err error
}

type alertDeletedMsg struct {
	id  uuid.UUID
	err error
}

type staffUpdatedMsg struct {
	item *domain.StaffNotification
	err  error
}

func newAlertsModel(c *client.Client) alertsModel {
	return alertsModel{
		client:  c,
		loading: true,
		now:     time.Now,
	}
}

func (m alertsModel) Init() tea.Cmd {
	return tea.Batch(m.loadAlerts(), m.loadStaff())
}

func (m alertsModel) loadAlerts() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		alerts, err := c.ListNotifications(context.Background(), client.NotificationFilter{Limit: pageSize})
		return alertsLoadedMsg{alerts: alerts, err: err}
	}
}

func (m alertsModel) loadStaff() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		staff, err := c.ListStaffNotifications(context.Background(), client.StaffNotificationFilter{Limit: pageSize})
		return staffLoadedMsg{staff: staff, err: err}
	}
}

func (m alertsModel) unreadCount() int {
	n := 0
	for _, a := range m.alerts {
		if !a.Read {
			n++
		}
	}
	return n
}

func (m alertsModel) listLen() int {
	if m.section == sectionStaff {
		return len(m.staff)
	}
	return len(m.alerts)
}

func (m alertsModel) Update(msg tea.Msg) (alertsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case alertsLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.alerts = msg.alerts
		}
		m.clampCursor()
		return m, nil

	case staffLoadedMsg:
		m.staffErr = msg.err
		if msg.err == nil {
			m.staff = msg.staff
		}
		m.clampCursor()
		return m, nil

	case alertReadMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("mark read failed: %v", msg.err), true)
			return m, nil
		}
		for i := range m.alerts {
			if msg.id == nil || m.alerts[i].ID == *msg.id {
				m.alerts[i].Read = true
			}
		}
		if msg.id == nil {
			m.setStatus("all alerts marked read", false)
		}
		return m, nil

	case alertDeletedMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("delete failed: %v", msg.err), true)
			return m, nil
		}
		kept := m.alerts[:0]
		for _, a := range m.alerts {
			if a.ID != msg.id {
				kept = append(kept, a)
			}
		}
		m.alerts = kept
		m.clampCursor()
		return m, nil

	case staffUpdatedMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("update failed: %v", msg.err), true)
			return m, nil
		}
		for i := range m.staff {
			if m.staff[i].ID == msg.item.ID {
				m.staff[i] = *msg.item
			}
		}
		m.setStatus("acknowledged", false)
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		m.statusMsg = ""
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m *alertsModel) setStatus(s string, isErr bool) {
	m.statusMsg = s
	m.statusErr = isErr
}

func (m *alertsModel) clampCursor() {
	if m.cursor >= m.listLen() {
		m.cursor = max(m.listLen()-1, 0)
	}
}

func (m alertsModel) updateKeys(msg tea.KeyMsg) (alertsModel, tea.Cmd) {
	c := m.client
	switch msg.String() {
	case "j", "down":
		if m.cursor < m.listLen()-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "tab":
		if m.section == sectionAlerts {
			m.section = sectionStaff
		} else {
			m.section = sectionAlerts
		}
		m.cursor = 0
	case "x":
		if m.section != sectionAlerts || m.cursor >= len(m.alerts) || m.alerts[m.cursor].Read {
			return m, nil
		}
		id := m.alerts[m.cursor].ID
		return m, func() tea.Msg {
			return alertReadMsg{id: &id, err: c.MarkNotificationRead(context.Background(), id)}
		}
	case "X":
		return m, func() tea.Msg {
			return alertReadMsg{err: c.MarkAllNotificationsRead(context.Background())}
		}
	case "D":
		if m.section != sectionAlerts || m.cursor >= len(m.alerts) {
			return m, nil
		}
		id := m.alerts[m.cursor].ID
		return m, func() tea.Msg {
			return alertDeletedMsg{id: id, err: c.DeleteNotification(context.Background(), id)}
		}
	case "a":
		if m.section != sectionStaff || m.cursor >= len(m.staff) {
			return m, nil
		}
		item := m.staff[m.cursor]
		if item.Status == domain.StaffStatusAcknowledged {
			return m, nil
		}
		status := domain.StaffStatusAcknowledged
		return m, func() tea.Msg {
			updated, err := c.UpdateStaffNotification(context.Background(), item.ID, domain.StaffNotificationUpdate{Status: &status})
			return staffUpdatedMsg{item: updated, err: err}
		}
	case "r":
		m.loading = true
		return m, m.Init()
	}
	return m, nil
}

func (m alertsModel) helpKeys() string {
	if m.section == sectionStaff {
		return helpBar(helpEntry("1-4", "tabs"), helpEntry("j/k", "nav"), helpEntry("a", "acknowledge"),
			helpEntry("tab", "alerts"), helpEntry("r", "refresh"), helpEntry("h", "help"), helpEntry("q", "quit"))
	}
	return helpBar(helpEntry("1-4", "tabs"), helpEntry("j/k", "nav"), helpEntry("x", "read"),
		helpEntry("X", "all read"), helpEntry("D", "delete"), helpEntry("tab", "staff"),
		helpEntry("r", "refresh"), helpEntry("h", "help"), helpEntry("q", "quit"))
}

func (m alertsModel) View() string {
	var b strings.Builder

	alertsTab := dimStyle.Render(fmt.Sprintf("[alerts %d]", m.unreadCount()))
	staffTab := dimStyle.Render(fmt.Sprintf("[staff %d]", len(m.staff)))
	if m.section == sectionAlerts {
		alertsTab = accentStyle.Render(fmt.Sprintf("[alerts %d]", m.unreadCount()))
	} else {
		staffTab = accentStyle.Render(fmt.Sprintf("[staff %d]", len(m.staff)))
	}
	b.WriteString(" " + headerLabelStyle.Render("FOLLOW-UPS") + "  " + alertsTab + " " + staffTab + "  " + helpKeyStyle.Render("tab") + "\n")
	b.WriteString(separator(m.width) + "\n")

	if m.statusMsg != "" {
		style := statusOKStyle
		if m.statusErr {
			style = statusErrStyle
		}
		b.WriteString(" " + style.Render(m.statusMsg) + "\n")
	}

	if m.loading {
		b.WriteString(" " + dimStyle.Render("loading..."))
		return b.String()
	}
	if m.section == sectionStaff {
		return b.String() + m.viewStaff()
	}
	return b.String() + m.viewAlerts()
}

func (m alertsModel) viewAlerts() string {
	if m.err != nil {
		return " " + dimStyle.Render(fmt.Sprintf("error: %v", m.err))
	}
	if len(m.alerts) == 0 {
		return " " + dimStyle.Render("nothing to follow up")
	}

	var b strings.Builder
	now := m.now()
	start, end := scrollWindow(m.cursor, len(m.alerts), m.height-6)
	for i := start; i < end; i++ {
		a := m.alerts[i]
		cursor := "  "
		textStyle := dimStyle
		if i == m.cursor {
			cursor = accentStyle.Render("▸") + " "
			textStyle = normalStyle.Bold(true)
		}
		if a.Read {
			textStyle = metaStyle
		}

		due := ""
		if a.DueAt != nil {
			due = "due " + a.DueAt.Local().Format("Jan 02 15:04")
			if a.Overdue(now) {
				due = statusErrStyle.Render("overdue")
			} else {
				due = metaStyle.Render(due)
			}
		}
		prop := metaStyle.Render(fmt.Sprintf("%-8s", truncStr(deref(a.PropertyCode, ""), 8)))
		titleWidth := max(m.width-4-3-9-14, 10)
		title := fmt.Sprintf("%-*s", titleWidth, truncStr(oneLine(a.Title), titleWidth))

		line := cursor + severityMark(a.Severity) + " " + prop + " " + textStyle.Render(title) + " " + due
		if i == m.cursor {
			line = selectedRowBg.Render(line + strings.Repeat(" ", max(m.width-lipgloss.Width(line), 0)))
		}
		b.WriteString(line + "\n")
	}

	if m.cursor < len(m.alerts) && m.alerts[m.cursor].Body != "" {
		b.WriteString("\n")
		for _, line := range wrapText(m.alerts[m.cursor].Body, m.width-4) {
			b.WriteString("  " + dimStyle.Render(line) + "\n")
		}
	}
	return b.String()
}

func (m alertsModel) viewStaff() string {
	if m.staffErr != nil {
		return " " + dimStyle.Render(fmt.Sprintf("error: %v", m.staffErr))
	}
	if len(m.staff) == 0 {
		return " " + dimStyle.Render("no staff notifications")
	}

	var b strings.Builder
	start, end := scrollWindow(m.cursor, len(m.staff), m.height-6)
	for i := start; i < end; i++ {
		s := m.staff[i]
		cursor := "  "
		textStyle := dimStyle
		if i == m.cursor {
			cursor = accentStyle.Render("▸") + " "
			textStyle = normalStyle.Bold(true)
		}
		name := fmt.Sprintf("%-14s", truncStr(s.StaffName, 14))
		status := statusStyle(s.Status).Render(fmt.Sprintf("%-12s", s.Status))
		msgWidth := max(m.width-4-15-13-10, 10)
		text := fmt.Sprintf("%-*s", msgWidth, truncStr(oneLine(s.Message), msgWidth))
		when := metaStyle.Render(formatTime(s.CreatedAt))

		line := cursor + textStyle.Render(name) + " " + status + " " + textStyle.Render(text) + " " + when
		if i == m.cursor {
			line = selectedRowBg.Render(line + strings.Repeat(" ", max(m.width-lipgloss.Width(line), 0)))
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}
