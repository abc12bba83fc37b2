package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hostdesk/hostdesk/pkg/client"
	"github.com/hostdesk/hostdesk/pkg/domain"
)

var errTest = errors.New("boom")

func newTestApp() App {
	a := NewApp(nil, nil, "test")
	a.width = 100
	a.height = 30
	return a
}

func update(a App, msg tea.Msg) (App, tea.Cmd) {
	model, cmd := a.Update(msg)
	return model.(App), cmd
}

func TestAppTabSwitching(t *testing.T) {
	tests := []struct {
		key      string
		wantView view
	}{
		{"1", viewInbox},
		{"2", viewReservations},
		{"3", viewAlerts},
		{"4", viewProperties},
	}

	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			a := newTestApp()
			a.view = viewProperties
			if tc.wantView == viewProperties {
				a.view = viewInbox
			}
			a, cmd := update(a, key(tc.key))
			if a.view != tc.wantView {
				t.Errorf("after key %q: view=%d, want %d", tc.key, a.view, tc.wantView)
			}
			if cmd == nil {
				t.Errorf("switching to %d should load it", tc.wantView)
			}
		})
	}
}

func TestAppQuit(t *testing.T) {
	a := newTestApp()
	_, cmd := a.Update(key("q"))
	if cmd == nil {
		t.Fatal("expected quit command on 'q', got nil")
	}
}

func TestAppHelpOverlay(t *testing.T) {
	a := newTestApp()
	a, _ = update(a, key("h"))
	if !a.helpOpen {
		t.Fatal("h should open help")
	}
	if !strings.Contains(a.View(), "hostdesk login") {
		t.Errorf("help overlay missing commands:\n%s", a.View())
	}
	a, _ = update(a, key("2"))
	if a.view != viewInbox {
		t.Error("help overlay should capture tab keys")
	}
	a, _ = update(a, key("esc"))
	if a.helpOpen {
		t.Error("esc should close help")
	}
}

func TestAppHelpLinksFromClient(t *testing.T) {
	a := NewApp(client.New("http://api.test/", ""), nil, "test")
	if len(a.helpItems) == 0 || a.helpItems[0].url != "http://api.test/docs" {
		t.Errorf("helpItems = %+v", a.helpItems)
	}
}

func TestAppPushOverlay(t *testing.T) {
	a := newTestApp()
	a, _ = update(a, key("P"))
	if !a.pushOpen {
		t.Fatal("P should open the push overlay")
	}
	if !strings.Contains(a.View(), "PUSH NOTIFICATIONS") {
		t.Errorf("expected push overlay:\n%s", a.View())
	}
	a, _ = update(a, key("q"))
	if !a.pushOpen {
		t.Error("push overlay should capture q")
	}
	a, _ = update(a, key("esc"))
	if a.pushOpen {
		t.Error("esc should close the push overlay")
	}
	a, _ = update(a, key("P"))
	if !a.pushOpen {
		t.Error("P should reopen the push overlay")
	}
}

func TestAppRoomInputCapturesGlobalKeys(t *testing.T) {
	a := newTestApp()
	a.view = viewReservations
	a.reservations.loading = false
	a, _ = update(a, reservationsLoadedMsg{reservations: []domain.Reservation{makeTestReservation(1, "Tom", "")}})
	a, _ = update(a, key("enter"))
	if !a.isEditing() {
		t.Fatal("expected room input to be active")
	}

	a, _ = update(a, key("1"))
	a, _ = update(a, key("q"))
	if a.view != viewReservations {
		t.Error("digits typed into the room input must not switch tabs")
	}
	if a.reservations.roomInput != "1q" {
		t.Errorf("roomInput = %q, want 1q", a.reservations.roomInput)
	}
}

func TestAppRoutesResultsToHiddenTabs(t *testing.T) {
	a := newTestApp()
	a.view = viewProperties
	a, _ = update(a, inboxLoadedMsg{messages: []domain.InboxMessage{makeTestMessage(1, "Ana", "hi", false)}})
	if len(a.inbox.messages) != 1 {
		t.Error("inbox results should land while another tab is shown")
	}

	view := a.View()
	if !strings.Contains(view, "1 unread") {
		t.Errorf("header should count unread messages:\n%s", view)
	}
}

func TestAppWindowSizePropagates(t *testing.T) {
	a := newTestApp()
	a, _ = update(a, tea.WindowSizeMsg{Width: 120, Height: 40})
	if a.inbox.width != 120 || a.inbox.height != 36 || a.properties.height != 36 {
		t.Errorf("sub-model size = %dx%d", a.inbox.width, a.inbox.height)
	}
}

func TestAppViewShowsTabs(t *testing.T) {
	a := newTestApp()
	view := a.View()
	for _, want := range []string{"Inbox", "Reservations", "Alerts", "Properties"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected tab %q in view", want)
		}
	}
}
