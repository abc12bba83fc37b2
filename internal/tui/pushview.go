package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hostdesk/hostdesk/internal/push"
	"github.com/hostdesk/hostdesk/pkg/client"
	"github.com/hostdesk/hostdesk/pkg/domain"
)

// PushFactory builds an orchestrator whose permission prompt is answered by
// prompt. A nil factory means push notifications are not configured.
type PushFactory func(prompt push.Prompter) *push.Orchestrator

// errNoAnswer is returned by the prompt used for flows that must not ask.
var errNoAnswer = errors.New("permission must be answered in the push panel")

func noPrompt(context.Context, string) (bool, error) { return false, errNoAnswer }

func answerPrompt(yes bool) push.Prompter {
	return func(context.Context, string) (bool, error) { return yes, nil }
}

type pushModel struct {
	client    *client.Client
	factory   PushFactory
	state     push.State
	loaded    bool
	asking    bool // permission question shown
	busy      bool
	statusMsg string
	statusErr bool
	closed    bool
}

type pushStateMsg struct{ state push.State }

type pushResultMsg struct {
	action string
	result push.Result
}

type pushTestMsg struct {
	result *domain.PushTestResult
	err    error
}

func newPushModel(c *client.Client, factory PushFactory) pushModel {
	return pushModel{client: c, factory: factory}
}

func (m pushModel) Init() tea.Cmd {
	if m.factory == nil {
		return nil
	}
	o := m.factory(noPrompt)
	return func() tea.Msg {
		return pushStateMsg{state: o.State(context.Background())}
	}
}

func (m pushModel) subscribe(prompt push.Prompter) tea.Cmd {
	o := m.factory(prompt)
	return func() tea.Msg {
		return pushResultMsg{action: "subscribe", result: o.Subscribe(context.Background())}
	}
}

func (m pushModel) unsubscribe() tea.Cmd {
	o := m.factory(noPrompt)
	return func() tea.Msg {
		return pushResultMsg{action: "unsubscribe", result: o.Unsubscribe(context.Background())}
	}
}

func (m pushModel) sendTest() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		res, err := c.SendTestPush(context.Background())
		return pushTestMsg{result: res, err: err}
	}
}

func (m pushModel) Update(msg tea.Msg) (pushModel, tea.Cmd) {
	switch msg := msg.(type) {
	case pushStateMsg:
		m.state = msg.state
		m.loaded = true
		return m, nil

	case pushResultMsg:
		m.busy = false
		if msg.result.OK() {
			m.setStatus(msg.action+"d", false)
		} else {
			m.setStatus(fmt.Sprintf("%s: %s", msg.action, msg.result.String()), true)
		}
		return m, m.Init()

	case pushTestMsg:
		m.busy = false
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("test failed: %v", msg.err), true)
		} else {
			m.setStatus(fmt.Sprintf("test sent to %d devices, %d failed", msg.result.Sent, msg.result.Failed), msg.result.Failed > 0)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *pushModel) setStatus(s string, isErr bool) {
	m.statusMsg = s
	m.statusErr = isErr
}

func (m pushModel) handleKey(msg tea.KeyMsg) (pushModel, tea.Cmd) {
	key := msg.String()
	if key == "esc" || key == "P" {
		if m.asking {
			m.asking = false
			return m, nil
		}
		m.closed = true
		return m, nil
	}
	if m.factory == nil || m.busy {
		return m, nil
	}

	if m.asking {
		switch key {
		case "y", "n":
			m.asking = false
			m.busy = true
			m.statusMsg = ""
			return m, m.subscribe(answerPrompt(key == "y"))
		}
		return m, nil
	}

	switch key {
	case "s":
		if !m.loaded {
			return m, nil
		}
		switch m.state {
		case push.StateNoPermissionDecision:
			m.asking = true
			return m, nil
		case push.StateSubscribed:
			m.setStatus("already subscribed", false)
			return m, nil
		}
		m.busy = true
		m.statusMsg = ""
		return m, m.subscribe(noPrompt)
	case "u":
		m.busy = true
		m.statusMsg = ""
		return m, m.unsubscribe()
	case "t":
		m.busy = true
		m.statusMsg = ""
		return m, m.sendTest()
	}
	return m, nil
}

func (m pushModel) helpKeys() string {
	if m.asking {
		return helpBar(helpEntry("y", "allow"), helpEntry("n", "deny"), helpEntry("esc", "cancel"))
	}
	return helpBar(helpEntry("s", "subscribe"), helpEntry("u", "unsubscribe"), helpEntry("t", "test"), helpEntry("esc", "close"))
}

func (m pushModel) View() string {
	var b strings.Builder
	b.WriteString("\n " + headerLabelStyle.Render("PUSH NOTIFICATIONS") + "\n")
	b.WriteString(" " + headerVoiceStyle.Render("get alerted about new guest messages and follow-ups") + "\n\n")

	if m.factory == nil {
		b.WriteString(" " + dimStyle.Render("not configured: set push.relay_url in ~/.hostdesk/config.yaml") + "\n")
		return b.String()
	}

	state := "checking..."
	if m.loaded {
		state = m.state.String()
	}
	stateStyle := dimStyle
	switch m.state {
	case push.StateSubscribed:
		stateStyle = statusOKStyle
	case push.StatePermissionDenied, push.StateUnsupported:
		stateStyle = statusErrStyle
	}
	b.WriteString(" " + metaStyle.Render("state  ") + stateStyle.Render(state) + "\n")
	if m.loaded && m.state == push.StatePermissionDenied {
		b.WriteString(" " + dimStyle.Render("run `hostdesk push reset` to be asked again") + "\n")
	}

	if m.asking {
		b.WriteString("\n " + selectedStyle.Render(push.PermissionQuestion) + " " + helpKeyStyle.Render("[y/n]") + "\n")
	}
	if m.busy {
		b.WriteString("\n " + dimStyle.Render("working...") + "\n")
	}
	if m.statusMsg != "" {
		style := statusOKStyle
		if m.statusErr {
			style = statusErrStyle
		}
		b.WriteString("\n " + style.Render(m.statusMsg) + "\n")
	}
	return b.String()
}
