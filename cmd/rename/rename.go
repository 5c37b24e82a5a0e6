package rename

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gigurra/sundry/cmd/common"
	"github.com/gigurra/sundry/pkg/rename"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

type Params struct {
	Find         string   `optional:"true" short:"f" help:"Substring to replace in each name (a regular expression with --regexp)."`
	Replace      string   `optional:"true" short:"r" help:"Replacement text for --find matches."`
	Regexp       bool     `optional:"true" help:"Treat --find as a regular expression."`
	Case         string   `optional:"true" help:"Case conversion applied to each name." alts:"upper,lower,title"`
	Template     string   `optional:"true" short:"t" help:"Name template with [NAME], [EXT], [N], [N2]..[N9] and [UUID] tokens."`
	CounterStart int      `optional:"true" help:"First value of the [N] counter." default:"1"`
	CounterStep  int      `optional:"true" help:"Counter increment between files." default:"1"`
	DryRun       bool     `optional:"true" short:"n" help:"Show the planned renames without applying them."`
	Files        []string `pos:"true" optional:"true" help:"Files to rename (default: every visible entry in the current directory)."`
}

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:   "rename",
		Short: "Batch rename files",
		Long: `Batch rename files using find/replace, case conversion and name
templates. Transformations apply in that order and the extension is
kept unless a template rewrites it.

Use --dry-run to preview the plan before anything is renamed.

Examples:
  sundry rename --find IMG --replace vacation --dry-run *.jpg
  sundry rename --case lower *.TXT
  sundry rename --template "track-[N2].[EXT]" *.mp3`,
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			if err := Run(params, os.Stdout, os.Stderr); err != nil {
				_, _ = fmt.Fprintf(os.Stderr, "rename: %v\n", err)
				os.Exit(1)
			}
		},
	}.ToCobra()
}

func Run(params *Params, stdout, stderr io.Writer) error {
	dir, names, err := collectFiles(params.Files)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return fmt.Errorf("nothing to rename")
	}

	batch, err := rename.Plan(names, rename.Options{
		Find:         params.Find,
		Replace:      params.Replace,
		Regexp:       params.Regexp,
		Case:         params.Case,
		Template:     params.Template,
		CounterStart: params.CounterStart,
		CounterStep:  params.CounterStep,
	})
	if err != nil {
		return err
	}

	changed := lo.CountBy(batch, func(r rename.Renaming) bool {
		return r.NewName != r.OldName
	})

	if params.DryRun {
		printPlan(stdout, batch)
		_, _ = fmt.Fprintf(stdout, "%d of %d would be renamed\n", changed, len(batch))
		return nil
	}

	if err := rename.Apply(dir, batch); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(stdout, "Renamed %d of %d\n", changed, len(batch))
	return nil
}

// collectFiles resolves the batch to rename and the directory holding
// it. The batch is validated for collisions as one unit, so all files
// must live in the same directory.
func collectFiles(args []string) (string, []string, error) {
	if len(args) == 0 {
		entries, err := os.ReadDir(".")
		if err != nil {
			return "", nil, err
		}
		var names []string
		for _, entry := range entries {
			if strings.HasPrefix(entry.Name(), ".") {
				continue
			}
			names = append(names, entry.Name())
		}
		return ".", names, nil
	}

	dir := ""
	names := make([]string, 0, len(args))
	for _, arg := range args {
		if _, err := os.Lstat(arg); err != nil {
			return "", nil, err
		}
		argDir := filepath.Dir(arg)
		if dir == "" {
			dir = argDir
		} else if argDir != dir {
			return "", nil, fmt.Errorf("files must share a directory, got %s and %s", dir, argDir)
		}
		names = append(names, filepath.Base(arg))
	}
	return dir, names, nil
}

func printPlan(stdout io.Writer, batch []rename.Renaming) {
	t := table.NewWriter()
	t.SetOutputMirror(stdout)
	t.SetStyle(table.StyleLight)
	t.SetAllowedRowLength(common.TerminalWidth(stdout))
	t.AppendHeader(table.Row{"Old name", "New name", ""})

	for _, r := range batch {
		note := ""
		if r.NewName == r.OldName {
			note = "unchanged"
		}
		t.AppendRow(table.Row{r.OldName, r.NewName, note})
	}

	t.Render()
}
