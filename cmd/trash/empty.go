package trash

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gigurra/sundry/cmd/common"
	"github.com/gigurra/sundry/pkg/trash"
	"github.com/spf13/cobra"
)

type EmptyParams struct {
	Yes bool `short:"y" help:"Skip confirmation prompt."`
}

func EmptyCmd() *cobra.Command {
	return boa.CmdT[EmptyParams]{
		Use:         "empty",
		Short:       "Permanently delete everything in the trash",
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *EmptyParams, cmd *cobra.Command, args []string) {
			os.Exit(RunEmpty(params, os.Stdin, os.Stdout, os.Stderr))
		},
	}.ToCobra()
}

func RunEmpty(params *EmptyParams, stdin io.Reader, stdout, stderr io.Writer) int {
	entries, err := trash.Entries()
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "trash: %v\n", err)
		return 1
	}
	if len(entries) == 0 {
		_, _ = fmt.Fprintln(stdout, "Trash is empty")
		return 0
	}

	if !params.Yes {
		_, _ = fmt.Fprintf(stdout, "Permanently delete %d entries? [y/N]: ", len(entries))
		reader := bufio.NewReader(stdin)
		response, _ := reader.ReadString('\n')
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			_, _ = fmt.Fprintln(stdout, "Aborted.")
			return 0
		}
	}

	count, err := trash.Empty()
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "trash: %v\n", err)
		return 1
	}

	_, _ = fmt.Fprintf(stdout, "Removed %d entries\n", count)
	return 0
}
