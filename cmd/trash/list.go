package trash

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gigurra/sundry/cmd/common"
	"github.com/gigurra/sundry/pkg/sizefmt"
	"github.com/gigurra/sundry/pkg/trash"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func ListCmd() *cobra.Command {
	return boa.CmdT[boa.NoParams]{
		Use:   "list",
		Short: "List trashed entries",
		RunFunc: func(params *boa.NoParams, cmd *cobra.Command, args []string) {
			os.Exit(RunList(os.Stdout, os.Stderr))
		},
	}.ToCobra()
}

func RunList(stdout, stderr io.Writer) int {
	entries, err := trash.Entries()
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "trash: %v\n", err)
		return 1
	}
	if len(entries) == 0 {
		_, _ = fmt.Fprintln(stdout, "Trash is empty")
		return 0
	}

	slices.SortStableFunc(entries, func(a, b trash.Entry) int {
		if c := a.DeletedAt.Compare(b.DeletedAt); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})

	t := table.NewWriter()
	t.SetOutputMirror(stdout)
	t.SetStyle(table.StyleLight)
	t.SetAllowedRowLength(common.TerminalWidth(stdout))
	t.AppendHeader(table.Row{"Name", "Size", "Deleted", "Original path"})

	var total int64
	for _, entry := range entries {
		size := sizefmt.FormatSize(entry.Size, sizefmt.IEC)
		if entry.IsDir {
			size = "dir"
		} else {
			total += entry.Size
		}
		t.AppendRow(table.Row{
			entry.Name,
			size,
			entry.DeletedAt.Format("2006-01-02 15:04"),
			entry.OriginalPath,
		})
	}

	t.Render()
	_, _ = fmt.Fprintf(stdout, "%d entries, %s\n", len(entries), sizefmt.FormatSize(total, sizefmt.IEC))
	return 0
}
