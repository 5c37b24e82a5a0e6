package which

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gigurra/sundry/cmd/common"
	"github.com/gigurra/sundry/pkg/exeinfo"
	"github.com/spf13/cobra"
)

type Params struct {
	Programs []string `pos:"true" help:"Program names to locate."`
	Gui      bool     `short:"g" help:"Also report whether each program is a graphical application."`
}

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:         "which",
		Short:       "Locate a program in the user's PATH",
		Long:        "Locate a program in the user's PATH.\n\nArguments containing a path separator are checked directly. When PATH is unset the historic default locations /bin, /usr/bin and /usr/local/bin are searched instead.",
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			if len(params.Programs) == 0 {
				_ = cmd.Help()
				os.Exit(1)
			}
			os.Exit(runWhich(params, os.Stdout, os.Stderr))
		},
	}.ToCobra()
}

func runWhich(params *Params, stdout, stderr io.Writer) int {
	ctx := context.Background()

	exitCode := 0
	for _, program := range params.Programs {
		path, err := exeinfo.Resolve(program)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "%s not found\n", program)
			exitCode = 1
			continue
		}

		if !params.Gui {
			_, _ = fmt.Fprintln(stdout, path)
			continue
		}

		gui, err := exeinfo.IsGUIApp(ctx, path)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "which: %v\n", err)
			exitCode = 1
			continue
		}
		kind := "cli"
		if gui {
			kind = "gui"
		}
		_, _ = fmt.Fprintf(stdout, "%s (%s)\n", path, kind)
	}
	return exitCode
}
