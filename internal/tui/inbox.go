package tui

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hostdesk/hostdesk/pkg/client"
	"github.com/hostdesk/hostdesk/pkg/domain"
)

type inboxModel struct {
	client     *client.Client
	messages   []domain.InboxMessage
	cursor     int
	detail     bool
	openID     int64 // message shown in the detail view
	unreadOnly bool
	loading    bool
	generating bool
	err        error
	statusMsg  string
	statusErr  bool
	width      int
	height     int
}

type inboxLoadedMsg struct {
	messages []domain.InboxMessage
	err      error
}

// autoReplyMsg carries a generated or fetched suggestion. A nil reply with
// a nil error means the message has none yet.
type autoReplyMsg struct {
	messageID int64
	reply     *domain.AutoReply
	generated bool
	err       error
}

type autoReplySentMsg struct {
	messageID int64
	err       error
}

type messageUpdatedMsg struct {
	message *domain.Message
	err     error
}

type copyResultMsg struct{ err error }

func newInboxModel(c *client.Client) inboxModel {
	return inboxModel{
		client:  c,
		loading: true,
	}
}

func (m inboxModel) Init() tea.Cmd {
	return m.load()
}

func (m inboxModel) load() tea.Cmd {
	c := m.client
	filter := client.MessageFilter{UnreadOnly: m.unreadOnly, Limit: pageSize}
	return func() tea.Msg {
		msgs, err := c.FetchInbox(context.Background(), filter)
		return inboxLoadedMsg{messages: msgs, err: err}
	}
}

func (m inboxModel) unreadCount() int {
	n := 0
	for _, msg := range m.messages {
		if !msg.Read {
			n++
		}
	}
	return n
}

func (m inboxModel) selected() (domain.InboxMessage, bool) {
	if m.cursor < 0 || m.cursor >= len(m.messages) {
		return domain.InboxMessage{}, false
	}
	return m.messages[m.cursor], true
}

func (m inboxModel) Update(msg tea.Msg) (inboxModel, tea.Cmd) {
	switch msg := msg.(type) {
	case inboxLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			prev, hadSel := m.current()
			m.messages = msg.messages
			i := indexByID(m.messages, prev.ID, messageID)
			switch {
			case hadSel && i >= 0:
				m.cursor = i
			case m.detail:
				m.detail = false
				m.setStatus("the open message is no longer listed", false)
			}
		}
		if m.cursor >= len(m.messages) {
			m.cursor = 0
		}
		return m, nil

	case autoReplyMsg:
		if msg.generated {
			m.generating = false
		}
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("auto-reply failed: %v", msg.err), true)
			return m, nil
		}
		for i := range m.messages {
			if m.messages[i].ID == msg.messageID {
				m.messages[i].AutoReply = msg.reply
			}
		}
		if msg.generated {
			m.setStatus("suggestion ready", false)
		}
		return m, nil

	case autoReplySentMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("send failed: %v", msg.err), true)
			return m, nil
		}
		for i := range m.messages {
			if m.messages[i].ID == msg.messageID {
				m.messages[i].Status = domain.MessageStatusReplied
			}
		}
		m.setStatus("reply sent", false)
		return m, nil

	case messageUpdatedMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("update failed: %v", msg.err), true)
			return m, nil
		}
		for i := range m.messages {
			if m.messages[i].ID == msg.message.ID {
				m.messages[i].Message = *msg.message
			}
		}
		return m, nil

	case copyResultMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("copy failed: %v", msg.err), true)
		} else {
			m.setStatus("copied!", false)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		m.statusMsg = ""
		if m.detail {
			return m.updateDetail(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m *inboxModel) setStatus(s string, isErr bool) {
	m.statusMsg = s
	m.statusErr = isErr
}

func (m inboxModel) updateList(msg tea.KeyMsg) (inboxModel, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.messages)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "enter":
		if sel, ok := m.selected(); ok {
			m.detail = true
			m.openID = sel.ID
			return m, tea.Batch(m.markRead(sel), m.fetchAutoReply(sel))
		}
	case "u":
		m.unreadOnly = !m.unreadOnly
		m.cursor = 0
		m.loading = true
		return m, m.load()
	case "r":
		m.loading = true
		return m, m.load()
	default:
		return m.messageAction(msg.String())
	}
	return m, nil
}

func (m inboxModel) updateDetail(msg tea.KeyMsg) (inboxModel, tea.Cmd) {
	if msg.String() == "esc" {
		m.detail = false
		return m, nil
	}
	return m.messageAction(msg.String())
}

// current is the message keys act on: the open message in the detail view,
// otherwise the one under the cursor.
func (m inboxModel) current() (domain.InboxMessage, bool) {
	if !m.detail {
		return m.selected()
	}
	if i := indexByID(m.messages, m.openID, messageID); i >= 0 {
		return m.messages[i], true
	}
	return domain.InboxMessage{}, false
}

// messageAction handles the keys shared by the list and the detail view.
func (m inboxModel) messageAction(key string) (inboxModel, tea.Cmd) {
	sel, ok := m.current()
	if !ok {
		return m, nil
	}
	c := m.client
	switch key {
	case "a":
		if m.generating {
			return m, nil
		}
		m.generating = true
		m.setStatus("generating suggestion...", false)
		return m, func() tea.Msg {
			reply, err := c.GenerateAutoReply(context.Background(), sel.ID)
			return autoReplyMsg{messageID: sel.ID, reply: reply, generated: true, err: err}
		}
	case "s":
		if sel.AutoReply == nil || sel.AutoReply.Suggestion == "" {
			m.setStatus("no suggestion yet, press a to generate one", true)
			return m, nil
		}
		body := sel.AutoReply.Suggestion
		return m, func() tea.Msg {
			err := c.SendAutoReply(context.Background(), sel.ID, domain.SendAutoReplyRequest{Body: body})
			return autoReplySentMsg{messageID: sel.ID, err: err}
		}
	case "c":
		if sel.AutoReply == nil || sel.AutoReply.Suggestion == "" {
			m.setStatus("no suggestion to copy", true)
			return m, nil
		}
		text := sel.AutoReply.Suggestion
		return m, func() tea.Msg {
			return copyResultMsg{err: clipboard.WriteAll(text)}
		}
	case "d":
		status := domain.MessageStatusHandled
		read := true
		return m, func() tea.Msg {
			updated, err := c.UpdateMessage(context.Background(), sel.ID, domain.MessageUpdate{Status: &status, Read: &read})
			return messageUpdatedMsg{message: updated, err: err}
		}
	}
	return m, nil
}

func (m inboxModel) markRead(sel domain.InboxMessage) tea.Cmd {
	if sel.Read {
		return nil
	}
	c := m.client
	read := true
	return func() tea.Msg {
		updated, err := c.UpdateMessage(context.Background(), sel.ID, domain.MessageUpdate{Read: &read})
		return messageUpdatedMsg{message: updated, err: err}
	}
}

func (m inboxModel) fetchAutoReply(sel domain.InboxMessage) tea.Cmd {
	if sel.AutoReply != nil {
		return nil
	}
	c := m.client
	return func() tea.Msg {
		reply, err := c.GetAutoReply(context.Background(), sel.ID)
		if client.IsStatus(err, http.StatusNotFound) {
			return autoReplyMsg{messageID: sel.ID}
		}
		return autoReplyMsg{messageID: sel.ID, reply: reply, err: err}
	}
}

func (m inboxModel) helpKeys() string {
	if m.detail {
		return helpBar(helpEntry("a", "suggest"), helpEntry("s", "send"), helpEntry("c", "copy"),
			helpEntry("d", "handled"), helpEntry("esc", "back"))
	}
	filter := "unread"
	if m.unreadOnly {
		filter = "all"
	}
	return helpBar(helpEntry("1-4", "tabs"), helpEntry("j/k", "nav"), helpEntry("enter", "open"),
		helpEntry("a", "suggest"), helpEntry("d", "handled"), helpEntry("u", filter),
		helpEntry("P", "push"), helpEntry("h", "help"), helpEntry("q", "quit"))
}

func (m inboxModel) View() string {
	if m.detail {
		return m.viewDetail()
	}

	var b strings.Builder
	scope := "all messages"
	if m.unreadOnly {
		scope = "unread only"
	}
	b.WriteString(" " + headerLabelStyle.Render("INBOX") + "  " + headerVoiceStyle.Render(scope) + "\n")
	b.WriteString(separator(m.width) + "\n")
	m.writeStatus(&b)

	if m.loading {
		b.WriteString(" " + dimStyle.Render("loading..."))
		return b.String()
	}
	if m.err != nil {
		b.WriteString(" " + dimStyle.Render(fmt.Sprintf("error: %v", m.err)))
		return b.String()
	}
	if len(m.messages) == 0 {
		b.WriteString(" " + dimStyle.Render("inbox zero"))
		return b.String()
	}

	maxVisible := m.height - 4
	start, end := scrollWindow(m.cursor, len(m.messages), maxVisible)
	for i := start; i < end; i++ {
		b.WriteString(m.renderRow(i) + "\n")
	}
	return b.String()
}

func (m inboxModel) writeStatus(b *strings.Builder) {
	if m.statusMsg == "" {
		return
	}
	if m.statusErr {
		b.WriteString(" " + statusErrStyle.Render(m.statusMsg) + "\n")
	} else {
		b.WriteString(" " + statusOKStyle.Render(m.statusMsg) + "\n")
	}
}

func (m inboxModel) renderRow(i int) string {
	msg := m.messages[i]

	cursor := "  "
	textStyle := dimStyle
	if i == m.cursor {
		cursor = accentStyle.Render("▸") + " "
		textStyle = normalStyle.Bold(true)
	}
	dot := "  "
	if !msg.Read {
		dot = unreadDotStyle.Render("●") + " "
	}

	guest := fmt.Sprintf("%-14s", truncStr(msg.GuestName, 14))
	channel := ChannelStyle(msg.Channel).Render(fmt.Sprintf("%-8s", truncStr(msg.Channel, 8)))
	when := metaStyle.Render(fmt.Sprintf("%8s", formatTime(msg.ReceivedAt)))
	mark := " "
	if msg.AutoReply != nil {
		mark = suggestionStyle.Render("✎")
	}

	bodyWidth := m.width - 4 - 15 - 9 - 10 - 2
	if bodyWidth < 10 {
		bodyWidth = 10
	}
	body := fmt.Sprintf("%-*s", bodyWidth, truncStr(oneLine(msg.Body), bodyWidth))

	line := cursor + dot + textStyle.Render(guest) + " " + channel + " " + textStyle.Render(body) + " " + mark + " " + when
	if i == m.cursor {
		return selectedRowBg.Render(line + strings.Repeat(" ", max(m.width-lipgloss.Width(line), 0)))
	}
	return line
}

func (m inboxModel) viewDetail() string {
	sel, ok := m.current()
	if !ok {
		return ""
	}
	var b strings.Builder

	header := " " + selectedStyle.Render(sel.GuestName) + "  " + ChannelStyle(sel.Channel).Render(sel.Channel)
	if sel.PropertyCode != "" {
		header += "  " + metaStyle.Render(sel.PropertyCode)
	}
	header += "  " + statusStyle(sel.Status).Render(sel.Status)
	if when := formatTime(sel.ReceivedAt); when != "" {
		header += "  " + metaStyle.Render(when)
	}
	b.WriteString(header + "\n")
	b.WriteString(separator(m.width) + "\n")
	m.writeStatus(&b)

	for _, line := range wrapText(sel.Body, m.width-4) {
		b.WriteString("  " + normalStyle.Render(line) + "\n")
	}
	b.WriteString("\n")

	switch {
	case m.generating:
		b.WriteString(" " + dimStyle.Render("generating suggestion...") + "\n")
	case sel.AutoReply == nil:
		b.WriteString(" " + dimStyle.Render("no suggestion yet, press a to generate one") + "\n")
	default:
		label := fmt.Sprintf("SUGGESTED REPLY %.0f%%", sel.AutoReply.Confidence*100)
		if sel.AutoReply.SentAt != nil {
			label += "  sent " + formatTime(*sel.AutoReply.SentAt)
		}
		b.WriteString(" " + headerLabelStyle.Render(label) + "\n")
		for _, line := range wrapText(sel.AutoReply.Suggestion, m.width-4) {
			b.WriteString("  " + suggestionStyle.Render(line) + "\n")
		}
	}
	return b.String()
}
