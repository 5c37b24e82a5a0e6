package xdg

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gigurra/sundry/cmd/common"
	"github.com/gigurra/sundry/pkg/basedir"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

type Params struct {
	Json bool `help:"Print as JSON instead of a table."`
}

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:         "xdg",
		Short:       "Show the xdg base directories and well known user directories",
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			os.Exit(Run(params, os.Stdout, os.Stderr))
		},
	}.ToCobra()
}

type report struct {
	CacheHome  string            `json:"cache_home"`
	ConfigHome string            `json:"config_home"`
	DataHome   string            `json:"data_home"`
	StateHome  string            `json:"state_home"`
	RuntimeDir string            `json:"runtime_dir,omitempty"`
	UserDirs   map[string]string `json:"user_dirs"`
}

func buildReport() report {
	runtimeDir, err := basedir.RuntimeDir()
	if err != nil {
		runtimeDir = ""
	}

	return report{
		CacheHome:  basedir.CacheHome(),
		ConfigHome: basedir.ConfigHome(),
		DataHome:   basedir.DataHome(),
		StateHome:  basedir.StateHome(),
		RuntimeDir: runtimeDir,
		UserDirs: lo.SliceToMap(basedir.UserDirectories, func(d basedir.UserDirectory) (string, string) {
			return d.Name(), basedir.UserDir(d)
		}),
	}
}

func Run(params *Params, stdout, stderr io.Writer) int {
	r := buildReport()

	if params.Json {
		encoded, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "xdg: %v\n", err)
			return 1
		}
		_, _ = fmt.Fprintln(stdout, string(encoded))
		return 0
	}

	t := table.NewWriter()
	t.SetOutputMirror(stdout)
	t.SetStyle(table.StyleLight)
	t.SetAllowedRowLength(common.TerminalWidth(stdout))
	t.AppendHeader(table.Row{"Variable", "Path", "Source"})

	baseRows := []struct {
		envVar string
		path   string
	}{
		{"XDG_CACHE_HOME", r.CacheHome},
		{"XDG_CONFIG_HOME", r.ConfigHome},
		{"XDG_DATA_HOME", r.DataHome},
		{"XDG_STATE_HOME", r.StateHome},
		{"XDG_RUNTIME_DIR", r.RuntimeDir},
	}
	for _, row := range baseRows {
		path := row.path
		source := "default"
		if os.Getenv(row.envVar) != "" {
			source = "env"
		}
		if path == "" {
			path = "(unset)"
			source = ""
		}
		t.AppendRow(table.Row{row.envVar, path, source})
	}

	t.AppendSeparator()
	for _, d := range basedir.UserDirectories {
		source := "default"
		if _, configured := basedir.LookupUserDir(d); configured {
			source = "user-dirs.dirs"
		}
		t.AppendRow(table.Row{string(d), basedir.UserDir(d), source})
	}

	t.Render()
	return 0
}
