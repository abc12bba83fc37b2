package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hostdesk/hostdesk/pkg/client"
	"github.com/hostdesk/hostdesk/pkg/domain"
)

type reservationsModel struct {
	client         *client.Client
	reservations   []domain.Reservation
	options        *client.FilterOptions
	propertyIdx    int // -1 = all properties
	groupIdx       int // -1 = all groups
	unassignedOnly bool
	cursor         int
	assigning      bool  // typing a room number
	assignID       int64 // reservation the input was opened on
	roomInput      string
	loading        bool
	err            error
	optionsErr     error
	statusMsg      string
	statusErr      bool
	width          int
	height         int
}

type filterOptionsMsg struct {
	options *client.FilterOptions
	err     error
}

type reservationsLoadedMsg struct {
	reservations []domain.Reservation
	err          error
}

type roomAssignedMsg struct {
	reservation *domain.Reservation
	err         error
}

func newReservationsModel(c *client.Client) reservationsModel {
	return reservationsModel{
		client:      c,
		propertyIdx: -1,
		groupIdx:    -1,
		loading:     true,
	}
}

func (m reservationsModel) Init() tea.Cmd {
	if m.options == nil {
		return tea.Batch(m.loadOptions(), m.load())
	}
	return m.load()
}

func (m reservationsModel) loadOptions() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		opts, err := c.LoadFilterOptions(context.Background())
		return filterOptionsMsg{options: opts, err: err}
	}
}

func (m reservationsModel) filter() client.ReservationFilter {
	f := client.ReservationFilter{UnassignedOnly: m.unassignedOnly, Limit: pageSize}
	if code := m.propertyCode(); code != "" {
		f.PropertyCodes = []string{code}
	}
	f.GroupCode = m.groupCode()
	return f
}

func (m reservationsModel) propertyCode() string {
	if m.options == nil || m.propertyIdx < 0 || m.propertyIdx >= len(m.options.Properties) {
		return ""
	}
	return m.options.Properties[m.propertyIdx].PropertyCode
}

func (m reservationsModel) groupCode() string {
	if m.options == nil || m.groupIdx < 0 || m.groupIdx >= len(m.options.Groups) {
		return ""
	}
	return m.options.Groups[m.groupIdx].GroupCode
}

func (m reservationsModel) load() tea.Cmd {
	c := m.client
	f := m.filter()
	return func() tea.Msg {
		res, err := c.ListReservations(context.Background(), f)
		return reservationsLoadedMsg{reservations: res, err: err}
	}
}

func (m reservationsModel) selectedID() (int64, bool) {
	if m.cursor < 0 || m.cursor >= len(m.reservations) {
		return 0, false
	}
	return m.reservations[m.cursor].ID, true
}

func (m reservationsModel) unassignedCount() int {
	n := 0
	for _, r := range m.reservations {
		if !r.Assigned() && r.Status != domain.ReservationStatusCancelled {
			n++
		}
	}
	return n
}

func (m reservationsModel) Update(msg tea.Msg) (reservationsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case filterOptionsMsg:
		m.optionsErr = msg.err
		if msg.err == nil {
			m.options = msg.options
		}
		return m, nil

	case reservationsLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			prevID, hadSel := m.selectedID()
			m.reservations = msg.reservations
			if i := indexByID(m.reservations, prevID, reservationID); hadSel && i >= 0 {
				m.cursor = i
			}
		}
		if m.cursor >= len(m.reservations) {
			m.cursor = 0
		}
		return m, nil

	case roomAssignedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("assign failed: %v", msg.err)
			m.statusErr = true
			return m, nil
		}
		for i := range m.reservations {
			if m.reservations[i].ID == msg.reservation.ID {
				m.reservations[i] = *msg.reservation
			}
		}
		m.statusMsg = fmt.Sprintf("room %s assigned to %s", deref(msg.reservation.RoomNumber, "?"), msg.reservation.GuestName)
		m.statusErr = false
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		m.statusMsg = ""
		if m.assigning {
			return m.updateAssign(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m reservationsModel) updateAssign(msg tea.KeyMsg) (reservationsModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.assigning = false
		m.roomInput = ""
	case "enter":
		room := strings.TrimSpace(m.roomInput)
		if room == "" {
			return m, nil
		}
		m.assigning = false
		m.roomInput = ""
		id := m.assignID
		c := m.client
		return m, func() tea.Msg {
			r, err := c.AssignRoom(context.Background(), id, domain.AssignRoomRequest{RoomNumber: room})
			return roomAssignedMsg{reservation: r, err: err}
		}
	default:
		m.roomInput = editRune(m.roomInput, msg)
	}
	return m, nil
}

func (m reservationsModel) updateList(msg tea.KeyMsg) (reservationsModel, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.reservations)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "enter":
		if m.cursor < len(m.reservations) && m.reservations[m.cursor].Status != domain.ReservationStatusCancelled {
			m.assigning = true
			m.assignID = m.reservations[m.cursor].ID
			m.roomInput = deref(m.reservations[m.cursor].RoomNumber, "")
		}
	case "p":
		if m.options == nil || len(m.options.Properties) == 0 {
			return m, nil
		}
		m.propertyIdx = cycleIndex(m.propertyIdx, len(m.options.Properties))
		return m.reload()
	case "g":
		if m.options == nil || len(m.options.Groups) == 0 {
			return m, nil
		}
		m.groupIdx = cycleIndex(m.groupIdx, len(m.options.Groups))
		return m.reload()
	case "u":
		m.unassignedOnly = !m.unassignedOnly
		return m.reload()
	case "r":
		if m.options == nil {
			m.loading = true
			return m, tea.Batch(m.loadOptions(), m.load())
		}
		return m.reload()
	}
	return m, nil
}

func (m reservationsModel) reload() (reservationsModel, tea.Cmd) {
	m.cursor = 0
	m.loading = true
	return m, m.load()
}

// cycleIndex advances through -1 (all), 0 .. n-1 and wraps back to -1.
func cycleIndex(i, n int) int {
	i++
	if i >= n {
		return -1
	}
	return i
}

func (m reservationsModel) helpKeys() string {
	if m.assigning {
		return helpBar(helpEntry("enter", "assign"), helpEntry("esc", "cancel"))
	}
	return helpBar(helpEntry("1-4", "tabs"), helpEntry("j/k", "nav"), helpEntry("enter", "assign room"),
		helpEntry("p", "property"), helpEntry("g", "group"), helpEntry("u", "unassigned"),
		helpEntry("r", "refresh"), helpEntry("h", "help"), helpEntry("q", "quit"))
}

func (m reservationsModel) View() string {
	var b strings.Builder

	b.WriteString(" " + headerLabelStyle.Render("RESERVATIONS") + "  " + m.filterLine() + "\n")
	b.WriteString(separator(m.width) + "\n")

	if m.statusMsg != "" {
		style := statusOKStyle
		if m.statusErr {
			style = statusErrStyle
		}
		b.WriteString(" " + style.Render(m.statusMsg) + "\n")
	}
	if m.optionsErr != nil {
		b.WriteString(" " + statusErrStyle.Render(fmt.Sprintf("filters unavailable: %v", m.optionsErr)) + "\n")
	}

	if m.loading {
		b.WriteString(" " + dimStyle.Render("loading..."))
		return b.String()
	}
	if m.err != nil {
		b.WriteString(" " + dimStyle.Render(fmt.Sprintf("error: %v", m.err)))
		return b.String()
	}
	if len(m.reservations) == 0 {
		b.WriteString(" " + dimStyle.Render("no reservations"))
		return b.String()
	}

	maxVisible := m.height - 5
	start, end := scrollWindow(m.cursor, len(m.reservations), maxVisible)
	for i := start; i < end; i++ {
		b.WriteString(m.renderRow(i) + "\n")
	}

	if m.assigning {
		label := fmt.Sprintf("room for reservation %d", m.assignID)
		if i := indexByID(m.reservations, m.assignID, reservationID); i >= 0 {
			label = "room for " + m.reservations[i].GuestName
		}
		b.WriteString("\n" + renderInput(label, m.roomInput, "e.g. 204"))
	}
	return b.String()
}

func (m reservationsModel) filterLine() string {
	prop := "all properties"
	if code := m.propertyCode(); code != "" {
		prop = code
	}
	parts := []string{prop}
	if code := m.groupCode(); code != "" {
		parts = append(parts, "group "+code)
	}
	if m.unassignedOnly {
		parts = append(parts, "unassigned")
	}
	return headerVoiceStyle.Render(strings.Join(parts, " · "))
}

func (m reservationsModel) renderRow(i int) string {
	r := m.reservations[i]

	cursor := "  "
	textStyle := dimStyle
	if i == m.cursor {
		cursor = accentStyle.Render("▸") + " "
		textStyle = normalStyle.Bold(true)
	}

	room := metaStyle.Render(fmt.Sprintf("%-6s", "—"))
	if r.Assigned() {
		room = accentStyle.Render(fmt.Sprintf("%-6s", truncStr(*r.RoomNumber, 6)))
	} else if r.Status != domain.ReservationStatusCancelled {
		room = statusErrStyle.Render(fmt.Sprintf("%-6s", "none"))
	}

	guest := fmt.Sprintf("%-16s", truncStr(r.GuestName, 16))
	prop := metaStyle.Render(fmt.Sprintf("%-8s", truncStr(r.PropertyCode, 8)))
	stay := fmt.Sprintf("%-16s", formatStay(r.CheckIn, r.CheckOut))
	status := statusStyle(r.Status).Render(fmt.Sprintf("%-11s", r.Status))
	channel := ChannelStyle(r.Channel).Render(truncStr(r.Channel, 8))

	line := cursor + room + " " + textStyle.Render(guest) + " " + prop + " " + textStyle.Render(stay) + " " + status + " " + channel
	if i == m.cursor {
		return selectedRowBg.Render(line + strings.Repeat(" ", max(m.width-lipgloss.Width(line), 0)))
	}
	return line
}
