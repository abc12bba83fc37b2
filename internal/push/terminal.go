package push

import (
	"bufio"
	"bytes"
	"context"
	"crypto/ecdh"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// PermissionQuestion is the prompt shown before the first subscribe.
const PermissionQuestion = "Allow hostdesk to show notifications?"

const authSecretLen = 16

// Prompter asks the user a yes/no question.
type Prompter func(ctx context.Context, question string) (bool, error)

// ReaderPrompter prompts on out and reads a y/N answer from in.
func ReaderPrompter(in io.Reader, out io.Writer) Prompter {
	br := bufio.NewReader(in)
	return func(ctx context.Context, question string) (bool, error) {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		fmt.Fprintf(out, "%s [y/N] ", question) //nolint:errcheck
		line, err := br.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return false, errors.Wrap(err, "read answer")
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		}
		return false, nil
	}
}

// TerminalPlatform hosts push notifications for a terminal installation.
// Its permission decision, worker registration and subscription live in a
// JSON state file; deliveries go through a relay that owns the endpoints.
type TerminalPlatform struct {
	statePath string
	relayURL  string
	prompt    Prompter

	mu sync.Mutex
}

type terminalState struct {
	Permission   Permission          `json:"permission"`
	WorkerPath   string              `json:"worker_path,omitempty"`
	Subscription *storedSubscription `json:"subscription,omitempty"`
}

type storedSubscription struct {
	Endpoint   string    `json:"endpoint"`
	PrivateKey string    `json:"private_key"`
	Auth       string    `json:"auth"`
	ServerKey  string    `json:"application_server_key"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewTerminalPlatform returns a platform persisting to statePath and
// issuing endpoints under relayURL. A nil prompt makes the platform
// unsupported.
func NewTerminalPlatform(statePath, relayURL string, prompt Prompter) *TerminalPlatform {
	return &TerminalPlatform{
		statePath: statePath,
		relayURL:  strings.TrimRight(relayURL, "/"),
		prompt:    prompt,
	}
}

// Supported reports whether a relay and prompt are configured and the state
// file could be written: its directory exists or would be created under an
// existing directory. It touches nothing on disk.
func (p *TerminalPlatform) Supported() bool {
	if p.relayURL == "" || p.prompt == nil || p.statePath == "" {
		return false
	}
	return underDirectory(filepath.Dir(p.statePath))
}

// underDirectory reports whether the nearest existing path at or above dir
// is a directory.
func underDirectory(dir string) bool {
	for {
		info, err := os.Stat(dir)
		if err == nil {
			return info.IsDir()
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return false
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return false
		}
		dir = parent
	}
}

func (p *TerminalPlatform) Register(ctx context.Context, scriptPath string) (Registration, error) {
	if !p.Supported() {
		return nil, errors.New("push platform unsupported")
	}
	if !strings.HasPrefix(scriptPath, "/") {
		return nil, errors.Errorf("worker path %q must be absolute", scriptPath)
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	st, err := p.load()
	if err != nil {
		return nil, err
	}
	if st.WorkerPath != scriptPath {
		st.WorkerPath = scriptPath
		if err := p.save(st); err != nil {
			return nil, err
		}
	}
	return &terminalRegistration{p: p}, nil
}

func (p *TerminalPlatform) Ready(ctx context.Context) (Registration, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	st, err := p.load()
	if err != nil {
		return nil, err
	}
	if st.WorkerPath == "" {
		return nil, ErrNotRegistered
	}
	return &terminalRegistration{p: p}, nil
}

func (p *TerminalPlatform) Permission() Permission {
	p.mu.Lock()
	defer p.mu.Unlock()

	st, err := p.load()
	if err != nil {
		return PermissionDefault
	}
	return st.Permission
}

// RequestPermission prompts once. A stored decision is returned as is.
func (p *TerminalPlatform) RequestPermission(ctx context.Context) (Permission, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	st, err := p.load()
	if err != nil {
		return PermissionDefault, err
	}
	if st.Permission != PermissionDefault {
		return st.Permission, nil
	}
	if p.prompt == nil {
		return PermissionDefault, errors.New("no prompt available")
	}

	ok, err := p.prompt(ctx, PermissionQuestion)
	if err != nil {
		return PermissionDefault, errors.Wrap(err, "permission prompt")
	}
	st.Permission = PermissionDenied
	if ok {
		st.Permission = PermissionGranted
	}
	if err := p.save(st); err != nil {
		return PermissionDefault, err
	}
	return st.Permission, nil
}

// Reset forgets the stored permission decision and subscription.
func (p *TerminalPlatform) Reset() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := os.Remove(p.statePath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errors.Wrap(err, "remove push state")
	}
	return nil
}

func (p *TerminalPlatform) load() (*terminalState, error) {
	st := &terminalState{Permission: PermissionDefault}
	data, err := os.ReadFile(p.statePath)
	if errors.Is(err, fs.ErrNotExist) {
		return st, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read push state")
	}
	if err := json.Unmarshal(data, st); err != nil {
		return nil, errors.Wrapf(err, "parse push state %s", p.statePath)
	}
	if st.Permission == "" {
		st.Permission = PermissionDefault
	}
	return st, nil
}

// save writes the state to a temp file and renames it into place.
func (p *TerminalPlatform) save(st *terminalState) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode push state")
	}
	if err := os.MkdirAll(filepath.Dir(p.statePath), 0700); err != nil {
		return errors.Wrap(err, "create push state dir")
	}
	tmp := p.statePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return errors.Wrap(err, "write push state")
	}
	if err := os.Rename(tmp, p.statePath); err != nil {
		os.Remove(tmp) //nolint:errcheck
		return errors.Wrap(err, "replace push state")
	}
	return nil
}

type terminalRegistration struct {
	p *TerminalPlatform
}

// Subscribe returns the existing subscription when it was made for the same
// server key, and fails when it was made for a different one.
func (r *terminalRegistration) Subscribe(ctx context.Context, opts SubscribeOptions) (*Subscription, error) {
	if !opts.UserVisibleOnly {
		return nil, errors.New("only user-visible subscriptions are supported")
	}
	if len(opts.ApplicationServerKey) == 0 {
		return nil, errors.New("application server key required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.p.mu.Lock()
	defer r.p.mu.Unlock()

	st, err := r.p.load()
	if err != nil {
		return nil, err
	}
	if st.Permission != PermissionGranted {
		return nil, errors.New("notification permission not granted")
	}
	if cur := st.Subscription; cur != nil {
		serverKey, err := DecodeBase64URL(cur.ServerKey)
		if err != nil {
			return nil, errors.Wrap(err, "stored server key")
		}
		if !bytes.Equal(serverKey, opts.ApplicationServerKey) {
			return nil, errors.New("subscribed with a different application server key")
		}
		return cur.subscription()
	}

	priv, err := ecdh.P256().GenerateKey(rand.Reader)
	if err != nil {
		return nil, errors.Wrap(err, "generate subscription key")
	}
	auth := make([]byte, authSecretLen)
	if _, err := rand.Read(auth); err != nil {
		return nil, errors.Wrap(err, "generate auth secret")
	}

	stored := &storedSubscription{
		Endpoint:   r.p.relayURL + "/" + uuid.NewString(),
		PrivateKey: EncodeBase64URL(priv.Bytes()),
		Auth:       EncodeBase64URL(auth),
		ServerKey:  EncodeBase64URL(opts.ApplicationServerKey),
		CreatedAt:  time.Now().UTC(),
	}
	st.Subscription = stored
	if err := r.p.save(st); err != nil {
		return nil, err
	}
	return stored.subscription()
}

func (r *terminalRegistration) Subscription(ctx context.Context) (*Subscription, error) {
	r.p.mu.Lock()
	defer r.p.mu.Unlock()

	st, err := r.p.load()
	if err != nil {
		return nil, err
	}
	if st.Subscription == nil {
		return nil, nil
	}
	return st.Subscription.subscription()
}

func (r *terminalRegistration) Unsubscribe(ctx context.Context, sub *Subscription) error {
	r.p.mu.Lock()
	defer r.p.mu.Unlock()

	st, err := r.p.load()
	if err != nil {
		return err
	}
	if st.Subscription == nil || sub == nil || st.Subscription.Endpoint != sub.Endpoint {
		return errors.New("subscription not found")
	}
	st.Subscription = nil
	return r.p.save(st)
}

func (s *storedSubscription) subscription() (*Subscription, error) {
	raw, err := DecodeBase64URL(s.PrivateKey)
	if err != nil {
		return nil, errors.Wrap(err, "stored private key")
	}
	priv, err := ecdh.P256().NewPrivateKey(raw)
	if err != nil {
		return nil, errors.Wrap(err, "stored private key")
	}
	auth, err := DecodeBase64URL(s.Auth)
	if err != nil {
		return nil, errors.Wrap(err, "stored auth secret")
	}
	return &Subscription{
		Endpoint: s.Endpoint,
		P256dh:   priv.PublicKey().Bytes(),
		Auth:     auth,
	}, nil
}
