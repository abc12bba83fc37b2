package browser

import (
	"runtime"
	"testing"
)

func TestOpenRejectsNonHTTP(t *testing.T) {
	called := false
	start = func(string, ...string) error {
		called = true
		return nil
	}
	t.Cleanup(func() { start = startDefault })

	for _, raw := range []string{"file:///etc/passwd", "javascript:alert(1)", "https://", "not a url\x7f"} {
		if err := Open(raw); err == nil {
			t.Errorf("Open(%q) = nil, want error", raw)
		}
	}
	if called {
		t.Error("rejected URLs must not launch anything")
	}
}

func TestOpenLaunchesPlatformOpener(t *testing.T) {
	var gotName string
	var gotArgs []string
	start = func(name string, args ...string) error {
		gotName, gotArgs = name, args
		return nil
	}
	t.Cleanup(func() { start = startDefault })

	err := Open("https://airbnb.test/rooms/9")

	switch runtime.GOOS {
	case "darwin":
		if gotName != "open" {
			t.Errorf("command = %q, want open", gotName)
		}
	case "linux", "freebsd", "openbsd":
		if gotName != "xdg-open" {
			t.Errorf("command = %q, want xdg-open", gotName)
		}
	case "windows":
		if gotName != "rundll32" {
			t.Errorf("command = %q, want rundll32", gotName)
		}
	default:
		if err == nil {
			t.Error("unsupported OS should error")
		}
		return
	}
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if gotArgs[len(gotArgs)-1] != "https://airbnb.test/rooms/9" {
		t.Errorf("args = %v", gotArgs)
	}
}
