package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#2dd4bf")).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	cmdStyle   = lipgloss.NewStyle().Bold(true)
)

var commands = []struct{ cmd, desc string }{
	{"hostdesk", "Open the console"},
	{"hostdesk login", "Save an API token"},
	{"hostdesk logout", "Forget the saved token"},
	{"hostdesk inbox [--unread]", "Print the guest inbox"},
	{"hostdesk push subscribe", "Subscribe this machine to push alerts"},
	{"hostdesk push unsubscribe", "Remove the push subscription"},
	{"hostdesk push status", "Show the push subscription state"},
	{"hostdesk push test", "Ask the server to send a test push"},
	{"hostdesk push reset", "Forget the local permission and subscription"},
	{"hostdesk --version", "Show version"},
	{"hostdesk help", "Show this help"},
}

func printHelp(w io.Writer) {
	fmt.Fprintf(w, "\n  %s\n\n  %s\n\n  Commands:\n", //nolint:errcheck
		titleStyle.Render("H O S T D E S K"),
		dimStyle.Italic(true).Render("Guest messages, reservations and alerts for your properties."))
	for _, c := range commands {
		fmt.Fprintf(w, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-28s", c.cmd)), dimStyle.Render(c.desc)) //nolint:errcheck
	}
	fmt.Fprintf(w, "\n  %s\n\n", dimStyle.Render("Config: ~/.hostdesk/config.yaml, HOSTDESK_* environment variables")) //nolint:errcheck
}

func printLoginHint(w io.Writer, reason string) {
	fmt.Fprintf(w, "\n%s\n\n%s\n\n%s\n\n", //nolint:errcheck
		titleStyle.Render("HOSTDESK"),
		dimStyle.Italic(true).Render(reason+"."),
		dimStyle.Render("To sign in: hostdesk login (or set HOSTDESK_TOKEN)"))
}
