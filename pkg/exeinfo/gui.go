package exeinfo

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"
)

// DefaultProbeTimeout bounds a single GUI probe unless the prober is
// configured otherwise.
const DefaultProbeTimeout = 5 * time.Second

// Prober answers whether a command is a graphical program.
type Prober interface {
	IsGUI(ctx context.Context, command string) (bool, error)
}

// guiLibraries are the shared objects whose presence in the loader
// trace marks a command as graphical.
var guiLibraries = []string{
	"libX11.so",
	"libvlc.so",
	"libwayland-client.so",
}

// LoaderTrace detects GUI programs by asking the dynamic loader which
// shared objects a command would load, without actually running it.
// With LD_TRACE_LOADED_OBJECTS=1 set, ld.so resolves and prints the
// library list instead of executing main.
type LoaderTrace struct {
	// Timeout bounds one probe. Zero means DefaultProbeTimeout.
	Timeout time.Duration
}

func (p LoaderTrace) IsGUI(ctx context.Context, command string) (bool, error) {
	path, err := Resolve(command)
	if err != nil {
		return false, err
	}

	timeout := p.Timeout
	if timeout == 0 {
		timeout = DefaultProbeTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, path)
	cmd.Env = append(os.Environ(), "LD_TRACE_LOADED_OBJECTS=1")

	output, err := cmd.Output()
	if ctx.Err() != nil {
		return false, fmt.Errorf("probing %s: %w", command, ctx.Err())
	}
	if err != nil && len(output) == 0 {
		// A non-zero trace exit with usable output is not an error
		return false, err
	}

	for _, library := range guiLibraries {
		if bytes.Contains(output, []byte(library)) {
			return true, nil
		}
	}

	return false, nil
}

// IsGUIApp checks if a command uses a graphical user interface, using
// the default loader trace prober.
func IsGUIApp(ctx context.Context, command string) (bool, error) {
	return LoaderTrace{}.IsGUI(ctx, command)
}
