package trash

import (
	"fmt"
	"io"
	"os"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gigurra/sundry/cmd/common"
	"github.com/gigurra/sundry/pkg/trash"
	"github.com/spf13/cobra"
)

type RestoreParams struct {
	Names []string `pos:"true" required:"true" help:"Trash entry names to restore, as shown by list."`
}

func RestoreCmd() *cobra.Command {
	return boa.CmdT[RestoreParams]{
		Use:         "restore",
		Short:       "Restore trashed entries to where they came from",
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *RestoreParams, cmd *cobra.Command, args []string) {
			os.Exit(RunRestore(params, os.Stdout, os.Stderr))
		},
	}.ToCobra()
}

func RunRestore(params *RestoreParams, stdout, stderr io.Writer) int {
	exitCode := 0
	for _, name := range params.Names {
		path, err := trash.Restore(name)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "trash: %v\n", err)
			exitCode = 1
			continue
		}
		_, _ = fmt.Fprintf(stdout, "Restored %s\n", path)
	}
	return exitCode
}
