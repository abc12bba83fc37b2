package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hostdesk/hostdesk/internal/config"
	"github.com/hostdesk/hostdesk/internal/logging"
	"github.com/hostdesk/hostdesk/internal/tui"
	"github.com/hostdesk/hostdesk/pkg/client"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// tokenFilePath returns ~/.hostdesk/token.
func tokenFilePath() (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "token"), nil
}

// readToken returns the auth token using precedence: config or env > file > empty.
func readToken(cfg *config.Config) string {
	if tok := strings.TrimSpace(cfg.API.Token); tok != "" {
		return tok
	}
	path, err := tokenFilePath()
	if err != nil {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func saveToken(path, token string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}

func newClient(cfg *config.Config, token string, log *logging.Logger) *client.Client {
	return client.New(cfg.API.BaseURL, token,
		client.WithLogger(log.Logger),
		client.WithTimeout(cfg.API.Timeout),
		client.WithHeader("User-Agent", "hostdesk/"+version),
	)
}

func run(args []string) error {
	if len(args) > 0 {
		switch args[0] {
		case "--version", "version", "-v":
			fmt.Println("hostdesk " + version)
			return nil
		case "help", "--help", "-h":
			printHelp(os.Stdout)
			return nil
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// The console owns the terminal, so its log goes to a file.
	interactive := len(args) == 0
	logOpts := logging.Options{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty}
	if interactive {
		logOpts.Path = cfg.Log.Path
	}
	log, err := logging.New(logOpts)
	if err != nil {
		return err
	}
	defer log.Close() //nolint:errcheck

	if len(args) > 0 {
		switch args[0] {
		case "login":
			return runLogin(ctx, cfg, log, os.Stdin, os.Stdout)
		case "logout":
			return runLogout(os.Stdout)
		case "inbox":
			return runInbox(ctx, newClient(cfg, readToken(cfg), log), args[1:], os.Stdout)
		case "push":
			return runPush(ctx, cfg, newClient(cfg, readToken(cfg), log), log, args[1:], os.Stdin, os.Stdout)
		default:
			return fmt.Errorf("unknown command %q (see hostdesk help)", args[0])
		}
	}

	token := readToken(cfg)
	if token == "" {
		printLoginHint(os.Stdout, "no token found")
		return nil
	}
	c := newClient(cfg, token, log)
	// Only force re-login on actual auth failures (401), not transient errors.
	if _, err := c.ListNotifications(ctx, client.NotificationFilter{Limit: 1}); err != nil {
		if client.IsStatus(err, http.StatusUnauthorized) {
			printLoginHint(os.Stdout, "token rejected")
			return nil
		}
		log.Warn().Err(err).Msg("startup check failed")
	}

	var factory tui.PushFactory
	if cfg.Push.RelayURL != "" {
		factory = pushFactory(cfg, c, log)
	}
	app := tui.NewApp(c, factory, version)

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

// runLogin reads a token from in, checks it against the server and saves it.
func runLogin(ctx context.Context, cfg *config.Config, log *logging.Logger, in io.Reader, out io.Writer) error {
	fmt.Fprintf(out, "API token for %s: ", cfg.API.BaseURL) //nolint:errcheck
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read token: %w", err)
	}
	token := strings.TrimSpace(line)
	if token == "" {
		return errors.New("no token entered")
	}

	c := newClient(cfg, token, log)
	if _, err := c.ListNotifications(ctx, client.NotificationFilter{Limit: 1}); err != nil {
		if client.IsStatus(err, http.StatusUnauthorized) || client.IsStatus(err, http.StatusForbidden) {
			return errors.New("token rejected by server")
		}
		return fmt.Errorf("verify token: %w", err)
	}

	path, err := tokenFilePath()
	if err != nil {
		return err
	}
	if err := saveToken(path, token); err != nil {
		return err
	}
	fmt.Fprintln(out, "Logged in. Run hostdesk to open the console.") //nolint:errcheck
	return nil
}

func runLogout(out io.Writer) error {
	path, err := tokenFilePath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove token: %w", err)
	}
	fmt.Fprintln(out, "Logged out.") //nolint:errcheck
	return nil
}

// runInbox prints the inbox. --unread limits it to unread messages.
func runInbox(ctx context.Context, c *client.Client, args []string, out io.Writer) error {
	f := client.MessageFilter{Limit: 50}
	for _, a := range args {
		switch a {
		case "--unread", "-u":
			f.UnreadOnly = true
		default:
			return fmt.Errorf("inbox: unknown flag %q", a)
		}
	}
	msgs, err := c.FetchInbox(ctx, f)
	if err != nil {
		return err
	}
	if len(msgs) == 0 {
		fmt.Fprintln(out, "inbox zero") //nolint:errcheck
		return nil
	}
	for _, m := range msgs {
		dot := " "
		if !m.Read {
			dot = "*"
		}
		fmt.Fprintf(out, "%s %6d  %-16s %-10s %-20s %s\n", //nolint:errcheck
			dot, m.ID, m.ReceivedAt.Local().Format("Jan 02 15:04"), m.Channel,
			clip(m.GuestName, 20), clip(oneLine(m.Body), 60))
	}
	return nil
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
