package font

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gigurra/sundry/cmd/common"
	"github.com/gigurra/sundry/pkg/fontquery"
	"github.com/spf13/cobra"
)

type Params struct {
	NoCache bool `help:"Query the desktop settings directly instead of using the per process cache."`
}

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:         "font",
		Short:       "Print the desktop environment's monospace font",
		Long:        "Print the desktop environment's monospace font.\n\nFalls back to the generic name 'monospace' when no desktop configuration can be read.",
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			os.Exit(Run(params, os.Stdout, os.Stderr))
		},
	}.ToCobra()
}

func Run(params *Params, stdout, stderr io.Writer) int {
	ctx := context.Background()

	if params.NoCache {
		// a direct query surfaces errors instead of hiding them
		// behind the fallback, useful when debugging a desktop setup
		font, err := fontquery.GSettings{}.MonospaceFont(ctx)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "font: %v\n", err)
			return 1
		}
		_, _ = fmt.Fprintln(stdout, font)
		return 0
	}

	_, _ = fmt.Fprintln(stdout, fontquery.Monospace(ctx))
	return 0
}
