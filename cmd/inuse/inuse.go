package inuse

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gigurra/sundry/cmd/common"
	"github.com/shirou/gopsutil/v3/process"
	"github.com/spf13/cobra"
)

type Params struct {
	Paths []string `pos:"true" required:"true" help:"Files or directories to check."`
}

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:   "inuse",
		Short: "Show processes using the given files or directories",
		Long: `Show which processes are currently using the given files or directories.

A process uses a path when it has a file open under it, when its working
directory is inside it, or when it runs an executable from it. Useful to
find out what blocks ejecting a USB drive or unmounting a filesystem.

Listing open files of processes owned by other users usually requires
elevated privileges; such processes are silently skipped.

Exits with status 0 when at least one process was found, 1 otherwise.

Examples:
  sundry inuse /mnt/usb
  sundry inuse ~/Downloads/archive.zip
  sudo sundry inuse /media/backup`,
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			os.Exit(runInuse(params, os.Stdout, os.Stderr))
		},
	}.ToCobra()
}

type use struct {
	fd   string
	path string
}

func runInuse(params *Params, stdout, stderr io.Writer) int {
	hadError := false
	var targets []string
	for _, path := range params.Paths {
		target, err := resolveTarget(path)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "inuse: %v\n", err)
			hadError = true
			continue
		}
		targets = append(targets, target)
	}
	if len(targets) == 0 {
		return 1
	}

	procs, err := process.Processes()
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "inuse: failed to list processes: %v\n", err)
		return 1
	}

	sort.Slice(procs, func(i, j int) bool {
		return procs[i].Pid < procs[j].Pid
	})

	type row struct {
		pid  int32
		user string
		fd   string
		name string
		path string
	}
	var rows []row

	for _, p := range procs {
		uses := processUses(p, targets)
		if len(uses) == 0 {
			continue
		}

		name, _ := p.Name()
		if name == "" {
			name = "[unknown]"
		}
		username, _ := p.Username()
		if username == "" {
			username = "-"
		}

		for _, u := range uses {
			rows = append(rows, row{pid: p.Pid, user: username, fd: u.fd, name: name, path: u.path})
		}
	}

	if len(rows) == 0 {
		_, _ = fmt.Fprintln(stdout, "No matching processes found")
		return 1
	}

	w := tabwriter.NewWriter(stdout, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(w, "PID\tUSER\tFD\tCOMMAND\tPATH")
	for _, r := range rows {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", r.pid, r.user, r.fd, r.name, r.path)
	}
	_ = w.Flush()

	if hadError {
		return 1
	}
	return 0
}

// processUses reports how p uses any of the targets, at most one entry
// per target. Accessor errors mean the process is gone or not ours to
// inspect, so they skip the process rather than fail the run.
func processUses(p *process.Process, targets []string) []use {
	var uses []use
	seen := make(map[string]bool)

	if cwd, err := p.Cwd(); err == nil && cwd != "" {
		for _, target := range targets {
			if pathWithin(cwd, target) && !seen[target] {
				seen[target] = true
				uses = append(uses, use{fd: "cwd", path: cwd})
			}
		}
	}

	if exe, err := p.Exe(); err == nil && exe != "" {
		for _, target := range targets {
			if pathWithin(exe, target) && !seen[target] {
				seen[target] = true
				uses = append(uses, use{fd: "exe", path: exe})
			}
		}
	}

	if files, err := p.OpenFiles(); err == nil {
		for _, f := range files {
			for _, target := range targets {
				if pathWithin(f.Path, target) && !seen[target] {
					seen[target] = true
					uses = append(uses, use{fd: strconv.FormatUint(f.Fd, 10), path: f.Path})
				}
			}
		}
	}

	return uses
}

// resolveTarget turns path into the absolute, symlink resolved form.
// Kernel file tables report resolved paths, so matching must happen on
// the resolved target as well.
func resolveTarget(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(abs); err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	return filepath.Clean(abs), nil
}

// pathWithin reports whether path equals target or lives under it.
func pathWithin(path, target string) bool {
	path = filepath.Clean(path)
	return path == target || strings.HasPrefix(path, target+string(filepath.Separator))
}
