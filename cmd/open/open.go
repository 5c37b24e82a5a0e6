package open

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/GiGurra/cmder"
	"github.com/gigurra/sundry/cmd/common"
	"github.com/spf13/cobra"
)

type Params struct {
	Paths  []string `pos:"true" required:"true" help:"Files, directories or URLs to open."`
	Reveal bool     `optional:"true" short:"r" help:"Open the directory containing each path instead of the path itself."`
}

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:         "open",
		Short:       "Open files with the desktop's default handler",
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			os.Exit(Run(cmd.Context(), params, os.Stdout, os.Stderr))
		},
	}.ToCobra()
}

// launchHandler hands the target to the platform opener, swapped out
// in tests
var launchHandler = func(ctx context.Context, args []string) error {
	result := cmder.New(args...).
		WithAttemptTimeout(10 * time.Second).
		Run(ctx)
	return result.Err
}

func Run(ctx context.Context, params *Params, stdout, stderr io.Writer) int {
	exitCode := 0
	for _, path := range params.Paths {
		target, err := resolveTarget(path, params.Reveal)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "open: %v\n", err)
			exitCode = 1
			continue
		}

		if err := launchHandler(ctx, openerArgs(target)); err != nil {
			_, _ = fmt.Fprintf(stderr, "open: %s: %v\n", target, err)
			exitCode = 1
		}
	}
	return exitCode
}

// resolveTarget validates path and applies --reveal. URLs pass
// through untouched since the handler resolves them itself.
func resolveTarget(path string, reveal bool) (string, error) {
	if strings.Contains(path, "://") {
		if reveal {
			return "", fmt.Errorf("cannot reveal %s: not a file path", path)
		}
		return path, nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(abs); err != nil {
		return "", err
	}

	if reveal {
		return filepath.Dir(abs), nil
	}
	return abs, nil
}

func openerArgs(target string) []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{"open", target}
	case "windows":
		// The empty string is the window title slot of start.
		return []string{"cmd", "/c", "start", "", target}
	default:
		return []string{"xdg-open", target}
	}
}
