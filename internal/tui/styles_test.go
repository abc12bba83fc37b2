package tui

import (
	"strings"
	"testing"
)

func TestChannelStyle(t *testing.T) {
	for _, ch := range []string{"airbnb", "Booking", "vrbo", "unknown-channel"} {
		t.Run(ch, func(t *testing.T) {
			rendered := ChannelStyle(ch).Render(ch)
			if !strings.Contains(rendered, ch) {
				t.Errorf("ChannelStyle(%q).Render = %q, want to contain %q", ch, rendered, ch)
			}
		})
	}
}

func TestSeverityMark(t *testing.T) {
	if got := severityMark("critical"); !strings.Contains(got, "!!") {
		t.Errorf("severityMark(critical) = %q", got)
	}
	if got := severityMark("warning"); !strings.Contains(got, "!") {
		t.Errorf("severityMark(warning) = %q", got)
	}
	if got := severityMark("info"); strings.Contains(got, "!") {
		t.Errorf("severityMark(info) = %q, want no bang", got)
	}
}

func TestHelpEntryFormat(t *testing.T) {
	tests := []struct {
		key   string
		label string
	}{
		{"q", "quit"},
		{"j/k", "nav"},
		{"enter", "assign room"},
	}
	for _, tc := range tests {
		result := helpEntry(tc.key, tc.label)
		if !strings.Contains(result, tc.key) || !strings.Contains(result, tc.label) {
			t.Errorf("helpEntry(%q, %q) = %q", tc.key, tc.label, result)
		}
	}
}

func TestHelpItems(t *testing.T) {
	if items := helpItems(""); items != nil {
		t.Errorf("helpItems(\"\") = %v, want nil", items)
	}
	items := helpItems("http://api.test")
	if len(items) != 2 || items[0].url != "http://api.test/docs" {
		t.Errorf("helpItems = %+v", items)
	}
}

func TestHelpViewListsCommands(t *testing.T) {
	view := helpView(helpItems("http://api.test"), 1, "v1.2.3")
	for _, want := range []string{"hostdesk login", "hostdesk push", "v1.2.3", "API docs", "> "} {
		if !strings.Contains(view, want) {
			t.Errorf("helpView missing %q:\n%s", want, view)
		}
	}
}

func TestShimmerLogoHasAllLetters(t *testing.T) {
	logo := renderShimmerLogo(3)
	for _, r := range "HOSTDESK" {
		if !strings.ContainsRune(logo, r) {
			t.Errorf("logo missing %q: %q", r, logo)
		}
	}
}
