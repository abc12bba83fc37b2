package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/hostdesk/hostdesk/internal/config"
	"github.com/hostdesk/hostdesk/internal/logging"
	"github.com/hostdesk/hostdesk/internal/push"
	"github.com/hostdesk/hostdesk/internal/tui"
	"github.com/hostdesk/hostdesk/pkg/client"
)

var errPushNotConfigured = errors.New("push is not configured: set push.relay_url or HOSTDESK_PUSH__RELAY_URL")

func newOrchestrator(cfg *config.Config, c *client.Client, log *logging.Logger, prompt push.Prompter) (*push.Orchestrator, *push.TerminalPlatform) {
	platform := push.NewTerminalPlatform(cfg.Push.StatePath, cfg.Push.RelayURL, prompt)
	orch := push.NewOrchestrator(platform, c,
		push.WithWorkerPath(cfg.Push.WorkerPath),
		push.WithLogger(log.With().Str("component", "push").Logger()),
	)
	return orch, platform
}

// pushFactory lets the console answer the permission question itself.
func pushFactory(cfg *config.Config, c *client.Client, log *logging.Logger) tui.PushFactory {
	return func(prompt push.Prompter) *push.Orchestrator {
		orch, _ := newOrchestrator(cfg, c, log, prompt)
		return orch
	}
}

func runPush(ctx context.Context, cfg *config.Config, c *client.Client, log *logging.Logger, args []string, in io.Reader, out io.Writer) error {
	if len(args) == 0 {
		return errors.New("usage: hostdesk push subscribe|unsubscribe|status|test|reset")
	}
	if cfg.Push.RelayURL == "" {
		return errPushNotConfigured
	}
	orch, platform := newOrchestrator(cfg, c, log, push.ReaderPrompter(in, out))

	switch args[0] {
	case "subscribe":
		res := orch.Subscribe(ctx)
		if !res.OK() {
			return fmt.Errorf("push subscribe: %s", res)
		}
		fmt.Fprintf(out, "subscribed: %s\n", res.Subscription.Endpoint) //nolint:errcheck
	case "unsubscribe":
		res := orch.Unsubscribe(ctx)
		switch {
		case res.Reason == push.ReasonNotSubscribed:
			fmt.Fprintln(out, "not subscribed") //nolint:errcheck
		case !res.OK():
			return fmt.Errorf("push unsubscribe: %s", res)
		default:
			fmt.Fprintln(out, "unsubscribed") //nolint:errcheck
		}
	case "status":
		fmt.Fprintln(out, orch.State(ctx)) //nolint:errcheck
	case "test":
		r, err := c.SendTestPush(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "test push sent to %d subscription(s), %d failed\n", r.Sent, r.Failed) //nolint:errcheck
	case "reset":
		if err := platform.Reset(); err != nil {
			return err
		}
		fmt.Fprintln(out, "local push state cleared") //nolint:errcheck
	default:
		return fmt.Errorf("push: unknown subcommand %q", args[0])
	}
	return nil
}
