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

type PutParams struct {
	Paths []string `pos:"true" required:"true" help:"Files or directories to move to the trash."`
}

func PutCmd() *cobra.Command {
	return boa.CmdT[PutParams]{
		Use:         "put",
		Short:       "Move files to the trash",
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *PutParams, cmd *cobra.Command, args []string) {
			os.Exit(RunPut(params, os.Stdout, os.Stderr))
		},
	}.ToCobra()
}

func RunPut(params *PutParams, stdout, stderr io.Writer) int {
	exitCode := 0
	for _, path := range params.Paths {
		name, err := trash.Put(path)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "trash: %v\n", err)
			exitCode = 1
			continue
		}
		_, _ = fmt.Fprintf(stdout, "Trashed %s as %s\n", path, name)
	}
	return exitCode
}
