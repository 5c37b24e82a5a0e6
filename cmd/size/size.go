package size

import (
	"fmt"
	"io"
	"os"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gigurra/sundry/cmd/common"
	"github.com/gigurra/sundry/pkg/sizefmt"
	"github.com/spf13/cobra"
)

type Params struct {
	Sizes  []string `pos:"true" help:"Byte counts to format, or size strings to parse with --parse."`
	Format string   `short:"f" help:"Output format." default:"iec" alts:"local,si,iec"`
	Parse  bool     `short:"p" help:"Parse size strings like 1.5M into byte counts instead."`
	NoUnit bool     `help:"Print the number without its unit."`
}

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:         "size",
		Short:       "Format byte counts for humans, or parse them back",
		Long: `Format byte counts for humans, or parse them back.

Formats:
  local   exact count with locale digit grouping, like 1,234,567 B
  si      powers of 1000, like 1.2 MB
  iec     powers of 1024, like 1.2 MiB`,
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			if len(params.Sizes) == 0 {
				_ = cmd.Help()
				os.Exit(1)
			}
			os.Exit(Run(params, os.Stdout, os.Stderr))
		},
	}.ToCobra()
}

func Run(params *Params, stdout, stderr io.Writer) int {
	format, err := sizefmt.ParseFormat(params.Format)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "size: %v\n", err)
		return 1
	}

	exitCode := 0
	for _, arg := range params.Sizes {
		bytes, err := sizefmt.ParseSize(arg)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "size: %v\n", err)
			exitCode = 1
			continue
		}

		if params.Parse {
			_, _ = fmt.Fprintln(stdout, bytes)
		} else {
			_, _ = fmt.Fprintln(stdout, sizefmt.FormatSizeUnit(bytes, format, !params.NoUnit))
		}
	}

	return exitCode
}
