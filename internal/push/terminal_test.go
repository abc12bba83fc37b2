package push

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func answer(yes bool) (Prompter, *int) {
	calls := 0
	return func(context.Context, string) (bool, error) {
		calls++
		return yes, nil
	}, &calls
}

func newTestPlatform(t *testing.T, prompt Prompter) *TerminalPlatform {
	t.Helper()
	return NewTerminalPlatform(filepath.Join(t.TempDir(), "push", "push.json"), "https://relay.test/", prompt)
}

func TestTerminalSupported(t *testing.T) {
	prompt, _ := answer(true)
	assert.True(t, newTestPlatform(t, prompt).Supported())
	assert.False(t, newTestPlatform(t, nil).Supported())
	assert.False(t, NewTerminalPlatform(filepath.Join(t.TempDir(), "p.json"), "", prompt).Supported())
}

func TestTerminalSupportedLeavesDiskUntouched(t *testing.T) {
	prompt, _ := answer(true)
	root := t.TempDir()
	stateDir := filepath.Join(root, "a", "b")
	p := NewTerminalPlatform(filepath.Join(stateDir, "push.json"), "https://relay.test", prompt)

	assert.True(t, p.Supported())
	assert.Equal(t, StateNoPermissionDecision, NewOrchestrator(p, &fakeServer{}).State(context.Background()))
	_, err := os.Stat(filepath.Join(root, "a"))
	assert.True(t, os.IsNotExist(err), "state dir created by a read-only probe: %v", err)

	// save still creates the directory on first write
	_, err = p.Register(context.Background(), "/sw.js")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(stateDir, "push.json"))
	assert.NoError(t, err)
}

func TestTerminalUnsupportedUnderRegularFile(t *testing.T) {
	prompt, _ := answer(true)
	file := filepath.Join(t.TempDir(), "plain")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))

	p := NewTerminalPlatform(filepath.Join(file, "sub", "push.json"), "https://relay.test", prompt)
	assert.False(t, p.Supported())
}

func TestTerminalPermissionIsSticky(t *testing.T) {
	prompt, calls := answer(false)
	p := newTestPlatform(t, prompt)
	ctx := context.Background()

	assert.Equal(t, PermissionDefault, p.Permission())
	perm, err := p.RequestPermission(ctx)
	require.NoError(t, err)
	assert.Equal(t, PermissionDenied, perm)

	perm, err = p.RequestPermission(ctx)
	require.NoError(t, err)
	assert.Equal(t, PermissionDenied, perm)
	assert.Equal(t, 1, *calls)
	assert.Equal(t, PermissionDenied, p.Permission())
}

func TestTerminalReadyRequiresRegistration(t *testing.T) {
	prompt, _ := answer(true)
	p := newTestPlatform(t, prompt)

	_, err := p.Ready(context.Background())
	assert.True(t, errors.Is(err, ErrNotRegistered))

	_, err = p.Register(context.Background(), "sw.js")
	assert.Error(t, err)

	_, err = p.Register(context.Background(), DefaultWorkerPath)
	require.NoError(t, err)
	_, err = p.Ready(context.Background())
	assert.NoError(t, err)
}

func TestTerminalSubscribeLifecycle(t *testing.T) {
	prompt, _ := answer(true)
	p := newTestPlatform(t, prompt)
	ctx := context.Background()

	reg, err := p.Register(ctx, DefaultWorkerPath)
	require.NoError(t, err)
	_, err = reg.Subscribe(ctx, SubscribeOptions{UserVisibleOnly: true, ApplicationServerKey: []byte{1, 2, 3}})
	assert.Error(t, err, "subscribe before permission")

	_, err = p.RequestPermission(ctx)
	require.NoError(t, err)

	_, err = reg.Subscribe(ctx, SubscribeOptions{ApplicationServerKey: []byte{1, 2, 3}})
	assert.Error(t, err, "not user visible")
	_, err = reg.Subscribe(ctx, SubscribeOptions{UserVisibleOnly: true})
	assert.Error(t, err, "missing key")

	sub, err := reg.Subscribe(ctx, SubscribeOptions{UserVisibleOnly: true, ApplicationServerKey: []byte{1, 2, 3}})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sub.Endpoint, "https://relay.test/"))
	assert.Len(t, sub.P256dh, 65)
	assert.Equal(t, byte(0x04), sub.P256dh[0])
	assert.Len(t, sub.Auth, authSecretLen)

	again, err := reg.Subscribe(ctx, SubscribeOptions{UserVisibleOnly: true, ApplicationServerKey: []byte{1, 2, 3}})
	require.NoError(t, err)
	assert.Equal(t, sub, again)

	_, err = reg.Subscribe(ctx, SubscribeOptions{UserVisibleOnly: true, ApplicationServerKey: []byte{9}})
	assert.Error(t, err, "different server key")

	// a fresh platform on the same file sees the same subscription
	reopened := NewTerminalPlatform(p.statePath, "https://relay.test", prompt)
	ready, err := reopened.Ready(ctx)
	require.NoError(t, err)
	current, err := ready.Subscription(ctx)
	require.NoError(t, err)
	assert.Equal(t, sub, current)

	require.NoError(t, ready.Unsubscribe(ctx, current))
	current, err = ready.Subscription(ctx)
	require.NoError(t, err)
	assert.Nil(t, current)
	assert.Error(t, ready.Unsubscribe(ctx, sub))

	info, err := os.Stat(p.statePath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestTerminalReset(t *testing.T) {
	prompt, calls := answer(true)
	p := newTestPlatform(t, prompt)
	_, err := p.RequestPermission(context.Background())
	require.NoError(t, err)

	require.NoError(t, p.Reset())
	require.NoError(t, p.Reset())
	assert.Equal(t, PermissionDefault, p.Permission())
	_, err = p.RequestPermission(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, *calls)
}

func TestReaderPrompter(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"y", true},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		got, err := ReaderPrompter(strings.NewReader(tt.input), &out)(context.Background(), PermissionQuestion)
		require.NoError(t, err, "%q", tt.input)
		assert.Equal(t, tt.want, got, "%q", tt.input)
		assert.Equal(t, PermissionQuestion+" [y/N] ", out.String())
	}

	_, err := ReaderPrompter(strings.NewReader(""), &bytes.Buffer{})(context.Background(), "q")
	assert.Error(t, err)
}

func TestOrchestratorWithTerminalPlatform(t *testing.T) {
	prompt, _ := answer(true)
	p := newTestPlatform(t, prompt)
	server := &fakeServer{key: EncodeBase64URL(bytes.Repeat([]byte{7}, 65))}
	o := NewOrchestrator(p, server)
	ctx := context.Background()

	assert.Equal(t, StateNoPermissionDecision, o.State(ctx))
	res := o.Subscribe(ctx)
	require.True(t, res.OK(), res.String())
	assert.Equal(t, StateSubscribed, o.State(ctx))
	require.Len(t, server.subscribed, 1)
	assert.Equal(t, res.Subscription.Endpoint, server.subscribed[0].Endpoint)

	res = o.Unsubscribe(ctx)
	require.True(t, res.OK(), res.String())
	assert.Equal(t, StatePermissionGrantedUnsubscribed, o.State(ctx))

	res = o.Unsubscribe(ctx)
	assert.Equal(t, ReasonNotSubscribed, res.Reason)
	assert.Len(t, server.unsubscribe, 1)
}
