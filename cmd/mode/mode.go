package mode

import (
	"fmt"
	"io"
	"os"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gigurra/sundry/cmd/common"
	"github.com/gigurra/sundry/pkg/modefmt"
	"github.com/spf13/cobra"
)

type Params struct {
	Targets []string `pos:"true" help:"Octal modes to format, or paths with --files."`
	Octal   bool     `short:"o" help:"Print zero padded octal instead of rwx triads."`
	Files   bool     `short:"f" help:"Treat arguments as paths and show their modes."`
}

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:         "mode",
		Short:       "Render permission bits as rwx triads or octal",
		Long: `Render permission bits as rwx triads or octal.

By default arguments are octal modes like 755 or 0o644. With --files
each argument is stat'ed and shown with its full ls style mode string.`,
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			if len(params.Targets) == 0 {
				_ = cmd.Help()
				os.Exit(1)
			}
			os.Exit(Run(params, os.Stdout, os.Stderr))
		},
	}.ToCobra()
}

func Run(params *Params, stdout, stderr io.Writer) int {
	exitCode := 0

	for _, target := range params.Targets {
		if params.Files {
			info, err := os.Lstat(target)
			if err != nil {
				_, _ = fmt.Fprintf(stderr, "mode: %v\n", err)
				exitCode = 1
				continue
			}
			if params.Octal {
				_, _ = fmt.Fprintf(stdout, "%s %s\n",
					modefmt.FormatMode(modefmt.UnixBits(info.Mode()), modefmt.Octal), target)
			} else {
				_, _ = fmt.Fprintf(stdout, "%s %s\n", modefmt.FormatFileMode(info.Mode()), target)
			}
			continue
		}

		parsed, err := modefmt.ParseOctal(target)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "mode: %v\n", err)
			exitCode = 1
			continue
		}
		if params.Octal {
			_, _ = fmt.Fprintln(stdout, modefmt.FormatMode(modefmt.UnixBits(parsed), modefmt.Octal))
		} else {
			// drop the leading file type slot, these are bare modes
			_, _ = fmt.Fprintln(stdout, modefmt.FormatFileMode(parsed)[1:])
		}
	}

	return exitCode
}
