// Package push establishes and tears down a push notification channel and
// mirrors it to the hostdesk server.
package push

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

// DefaultWorkerPath is the well-known path of the background worker script.
const DefaultWorkerPath = "/sw.js"

// State is the derived subscription state of this installation.
type State int

const (
	StateUnsupported State = iota
	StateNoPermissionDecision
	StatePermissionDenied
	StatePermissionGrantedUnsubscribed
	StateSubscribed
)

func (s State) String() string {
	switch s {
	case StateUnsupported:
		return "unsupported"
	case StateNoPermissionDecision:
		return "no permission decision"
	case StatePermissionDenied:
		return "permission denied"
	case StatePermissionGrantedUnsubscribed:
		return "not subscribed"
	case StateSubscribed:
		return "subscribed"
	}
	return "unknown"
}

// Reason says why a flow stopped. ReasonNone means it completed.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonUnsupported
	ReasonRegistrationFailed
	ReasonPermissionDenied
	ReasonKeyFetchFailed
	ReasonSubscribeFailed
	ReasonServerSyncFailed
	ReasonNotSubscribed
	ReasonUnsubscribeFailed
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "ok"
	case ReasonUnsupported:
		return "notifications not supported"
	case ReasonRegistrationFailed:
		return "worker registration failed"
	case ReasonPermissionDenied:
		return "permission denied"
	case ReasonKeyFetchFailed:
		return "could not fetch server key"
	case ReasonSubscribeFailed:
		return "subscribe failed"
	case ReasonServerSyncFailed:
		return "server sync failed"
	case ReasonNotSubscribed:
		return "not subscribed"
	case ReasonUnsubscribeFailed:
		return "unsubscribe failed"
	}
	return "unknown"
}

// Result is the outcome of Subscribe or Unsubscribe. Subscription is set
// only by a successful Subscribe. Err carries the underlying cause, if any.
type Result struct {
	Subscription *Subscription
	Reason       Reason
	Err          error
}

// OK reports whether the flow completed.
func (r Result) OK() bool { return r.Reason == ReasonNone }

func (r Result) String() string {
	if r.Err != nil {
		return r.Reason.String() + ": " + r.Err.Error()
	}
	return r.Reason.String()
}

// Orchestrator sequences the platform and server calls of the push flows.
// Steps never run concurrently; only ctx can cancel a flow in progress.
type Orchestrator struct {
	platform   Platform
	server     KeyServer
	workerPath string
	log        zerolog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithWorkerPath overrides DefaultWorkerPath.
func WithWorkerPath(path string) Option {
	return func(o *Orchestrator) {
		if path != "" {
			o.workerPath = path
		}
	}
}

// WithLogger sets the logger for flow outcomes.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Orchestrator) { o.log = l }
}

func NewOrchestrator(platform Platform, server KeyServer, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		platform:   platform,
		server:     server,
		workerPath: DefaultWorkerPath,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Subscribe registers the worker, asks for permission, creates a local
// subscription keyed to the server's public key and posts it to the server.
//
// If the server rejects the subscription the local one is kept; the result
// still reports ReasonServerSyncFailed.
func (o *Orchestrator) Subscribe(ctx context.Context) Result {
	if !o.platform.Supported() {
		o.log.Info().Msg("push: notifications not supported")
		return o.fail("subscribe", ReasonUnsupported, nil)
	}

	reg, err := o.platform.Register(ctx, o.workerPath)
	if err != nil {
		return o.fail("subscribe", ReasonRegistrationFailed, err)
	}

	perm, err := o.platform.RequestPermission(ctx)
	if err != nil {
		return o.fail("subscribe", ReasonPermissionDenied, err)
	}
	if perm != PermissionGranted {
		o.log.Info().Str("permission", string(perm)).Msg("push: permission not granted")
		return Result{Reason: ReasonPermissionDenied}
	}

	key, err := o.server.VAPIDPublicKey(ctx)
	if err != nil {
		return o.fail("subscribe", ReasonKeyFetchFailed, err)
	}
	serverKey, err := DecodeBase64URL(key)
	if err != nil {
		return o.fail("subscribe", ReasonKeyFetchFailed, err)
	}

	sub, err := reg.Subscribe(ctx, SubscribeOptions{
		UserVisibleOnly:      true,
		ApplicationServerKey: serverKey,
	})
	if err != nil {
		return o.fail("subscribe", ReasonSubscribeFailed, err)
	}

	if err := o.server.SubscribePush(ctx, sub.Request()); err != nil {
		o.log.Warn().Err(err).Str("endpoint", sub.Endpoint).
			Msg("push: server rejected subscription, local subscription left in place")
		return Result{Reason: ReasonServerSyncFailed, Err: err}
	}

	o.log.Info().Str("endpoint", sub.Endpoint).Msg("push: subscribed")
	return Result{Subscription: sub}
}

// Unsubscribe removes the subscription from the server, then locally. A
// partially completed unsubscribe is not rolled back.
func (o *Orchestrator) Unsubscribe(ctx context.Context) Result {
	if !o.platform.Supported() {
		return o.fail("unsubscribe", ReasonUnsupported, nil)
	}

	reg, err := o.platform.Ready(ctx)
	if errors.Is(err, ErrNotRegistered) {
		return Result{Reason: ReasonNotSubscribed}
	}
	if err != nil {
		return o.fail("unsubscribe", ReasonUnsubscribeFailed, err)
	}

	sub, err := reg.Subscription(ctx)
	if err != nil {
		return o.fail("unsubscribe", ReasonUnsubscribeFailed, err)
	}
	if sub == nil {
		return Result{Reason: ReasonNotSubscribed}
	}

	if err := o.server.UnsubscribePush(ctx, sub.Endpoint); err != nil {
		return o.fail("unsubscribe", ReasonServerSyncFailed, err)
	}
	if err := reg.Unsubscribe(ctx, sub); err != nil {
		return o.fail("unsubscribe", ReasonUnsubscribeFailed, err)
	}

	o.log.Info().Str("endpoint", sub.Endpoint).Msg("push: unsubscribed")
	return Result{}
}

// State derives the current state without prompting the user.
func (o *Orchestrator) State(ctx context.Context) State {
	if !o.platform.Supported() {
		return StateUnsupported
	}
	switch o.platform.Permission() {
	case PermissionDenied:
		return StatePermissionDenied
	case PermissionGranted:
	default:
		return StateNoPermissionDecision
	}

	reg, err := o.platform.Ready(ctx)
	if err != nil {
		return StatePermissionGrantedUnsubscribed
	}
	sub, err := reg.Subscription(ctx)
	if err != nil || sub == nil {
		return StatePermissionGrantedUnsubscribed
	}
	return StateSubscribed
}

func (o *Orchestrator) fail(flow string, reason Reason, err error) Result {
	ev := o.log.Warn().Str("flow", flow).Str("reason", reason.String())
	if err != nil {
		ev = ev.Err(err)
	}
	ev.Msg("push: flow failed")
	return Result{Reason: reason, Err: err}
}
