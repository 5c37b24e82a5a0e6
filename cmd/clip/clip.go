package clip

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/atotto/clipboard"
	"github.com/gigurra/sundry/cmd/common"
	"github.com/spf13/cobra"
)

var (
	clipboardWriteAll = clipboard.WriteAll
	clipboardReadAll  = clipboard.ReadAll
)

type Params struct {
	Paste bool `short:"p" help:"Paste from clipboard to standard output."`
	Paths bool `help:"Treat arguments as file paths and copy them as absolute paths."`
}

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:   "clip [text]",
		Short: "Clipboard copy and paste",
		Long: `Copy to or paste from the system clipboard.

If [text] is provided, it is copied to the clipboard.
If no arguments are provided, reads from standard input until EOF.
Use -p or --paste to paste content from the clipboard to standard output.
Use --paths to copy file arguments as absolute paths, one per line.`,
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			if err := runClip(params, args, os.Stdin, os.Stdout); err != nil {
				_, _ = fmt.Fprintf(os.Stderr, "clip: %v\n", err)
				os.Exit(1)
			}
		},
	}.ToCobra()
}

func runClip(params *Params, args []string, stdin io.Reader, stdout io.Writer) error {
	if params.Paste {
		if params.Paths {
			return fmt.Errorf("cannot combine --paths with --paste")
		}
		if len(args) > 0 {
			return fmt.Errorf("cannot use arguments with --paste")
		}
		text, err := clipboardReadAll()
		if err != nil {
			return err
		}
		_, _ = fmt.Fprint(stdout, text)
		return nil
	}

	if params.Paths {
		if len(args) == 0 {
			lines, err := readLines(stdin)
			if err != nil {
				return err
			}
			args = lines
		}
		text, err := resolvePaths(args)
		if err != nil {
			return err
		}
		if err := clipboardWriteAll(text); err != nil {
			return fmt.Errorf("failed to write to clipboard: %w", err)
		}
		return nil
	}

	// Copy mode
	var text string
	if len(args) > 0 {
		text = strings.Join(args, " ")
	} else {
		// Read from stdin
		content, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("failed to read from stdin: %w", err)
		}
		text = string(content)
	}

	if err := clipboardWriteAll(text); err != nil {
		return fmt.Errorf("failed to write to clipboard: %w", err)
	}

	return nil
}

// readLines splits stdin into non-empty lines, so path lists from
// find or ls can be piped in.
func readLines(stdin io.Reader) ([]string, error) {
	content, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read from stdin: %w", err)
	}

	var lines []string
	for _, line := range strings.Split(string(content), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// resolvePaths turns the arguments into verified absolute paths,
// joined one per line.
func resolvePaths(args []string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("no paths to copy")
	}

	resolved := make([]string, 0, len(args))
	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return "", err
		}
		if _, err := os.Stat(abs); err != nil {
			return "", err
		}
		resolved = append(resolved, abs)
	}
	return strings.Join(resolved, "\n"), nil
}
