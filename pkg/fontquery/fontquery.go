// Package fontquery reads the desktop environment's configured
// monospace font.
package fontquery

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/GiGurra/cmder"
)

// Fallback is the generic font name used when no desktop
// configuration can be read.
const Fallback = "monospace"

// Source reads the configured monospace font from a desktop settings
// backend.
type Source interface {
	MonospaceFont(ctx context.Context) (string, error)
}

// GSettings queries the GNOME desktop interface schema through the
// gsettings command line tool.
type GSettings struct {
	// Timeout bounds the gsettings call. Zero means 5 seconds.
	Timeout time.Duration
}

func (g GSettings) MonospaceFont(ctx context.Context) (string, error) {
	timeout := g.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	result := cmder.New("gsettings", "get", "org.gnome.desktop.interface", "monospace-font-name").
		WithAttemptTimeout(timeout).
		Run(ctx)
	if result.Err != nil {
		return "", fmt.Errorf("querying monospace font: %w", result.Err)
	}

	font := strings.Trim(strings.TrimSpace(result.StdOut), "'\"")
	if font == "" {
		return "", fmt.Errorf("gsettings returned no monospace font")
	}

	return font, nil
}

// tests swap this out to avoid depending on a desktop session
var defaultSource Source = GSettings{}

var (
	resolveOnce sync.Once
	cached      string
)

// Monospace returns the desktop's monospace font name. The lookup
// runs once per process on first use and the result is reused by all
// later calls, so it is safe from concurrent goroutines. When the
// desktop configuration cannot be read the Fallback name is cached
// instead.
func Monospace(ctx context.Context) string {
	resolveOnce.Do(func() {
		cached = Fallback
		if font, err := defaultSource.MonospaceFont(ctx); err == nil {
			cached = font
		}
	})
	return cached
}

// ResetForTest clears the memoized font so tests can exercise the
// resolution path again. Not safe to call concurrently with Monospace.
func ResetForTest() {
	resolveOnce = sync.Once{}
	cached = ""
}
