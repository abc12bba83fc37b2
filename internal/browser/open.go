package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

func startDefault(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// start launches the platform opener. Replaced in tests.
var start = startDefault

// Open opens an http or https URL in the user's default browser. Other
// schemes are rejected so listing URLs from the server cannot launch local
// handlers.
func Open(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("refusing to open %q: not an http(s) URL", rawURL)
	}

	switch runtime.GOOS {
	case "darwin":
		return start("open", u.String())
	case "linux", "freebsd", "openbsd":
		return start("xdg-open", u.String())
	case "windows":
		return start("rundll32", "url.dll,FileProtocolHandler", u.String())
	default:
		return fmt.Errorf("unsupported OS: %s", runtime.GOOS)
	}
}
