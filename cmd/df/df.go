package df

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gigurra/sundry/cmd/common"
	"github.com/gigurra/sundry/pkg/sizefmt"
	"github.com/spf13/cobra"
)

type Params struct {
	Paths   []string `pos:"true" optional:"true" help:"Paths to analyze. Defaults to all mounted filesystems." default:""`
	All     bool     `short:"a" help:"Include all filesystems, including pseudo filesystems." optional:"true"`
	Human   bool     `short:"h" help:"Print sizes in human readable format." optional:"true"`
	Si      bool     `help:"With -h, use powers of 1000 instead of 1024." optional:"true"`
	Inode   bool     `short:"i" help:"List inode information instead of block usage." optional:"true"`
	Local   bool     `short:"l" help:"Limit listing to local filesystems." optional:"true"`
	Type    string   `short:"t" help:"List only filesystems of a specific type." default:""`
	Sort    string   `short:"S" help:"Sort by: 'used', 'available', 'percent' (default: filesystem)." default:""`
	Reverse bool     `short:"r" help:"Reverse the sort order." optional:"true"`
}

type FilesystemInfo struct {
	Filesystem string
	Size       uint64
	Used       uint64
	Available  uint64
	Percent    float64
	IUsed      uint64
	IAvailable uint64
	IPercent   float64
	MountPoint string
	FSType     string
}

// MountInfo identifies one entry of the platform mount table.
type MountInfo struct {
	Device     string
	MountPoint string
	FSType     string
}

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:         "df",
		Short:       "Report filesystem disk space usage",
		Long:        "Report filesystem disk space usage, like the Unix df command but cross-platform.",
		ParamEnrich: common.DefaultParamEnricher(),
		InitFunc: func(params *Params, cmd *cobra.Command) error {
			cmd.Flags().BoolP("help", "", false, "help for df")
			return nil
		},
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			if err := Run(params, os.Stdout, os.Stderr); err != nil {
				fmt.Fprintf(os.Stderr, "df: %v\n", err)
				os.Exit(1)
			}
		},
	}.ToCobra()
}

func Run(params *Params, stdout, stderr io.Writer) error {
	var infos []FilesystemInfo

	if len(params.Paths) == 0 {
		mounted, err := listMountedFilesystems(params, stderr)
		if err != nil {
			return err
		}
		infos = mounted
	} else {
		mounts, _ := getMounts()
		for _, path := range params.Paths {
			info, err := statPath(path, mounts)
			if err != nil {
				fmt.Fprintf(stderr, "df: cannot access '%s': %v\n", path, err)
				continue
			}
			infos = append(infos, info)
		}
	}

	if len(infos) == 0 {
		return fmt.Errorf("no filesystems found")
	}

	sortFilesystems(infos, params.Sort, params.Reverse)
	printFilesystems(infos, params, stdout)
	return nil
}

func listMountedFilesystems(params *Params, stderr io.Writer) ([]FilesystemInfo, error) {
	mounts, err := getMounts()
	if err != nil {
		return nil, fmt.Errorf("reading mount table: %w", err)
	}

	var infos []FilesystemInfo
	for _, mount := range mounts {
		if !params.All && isPseudoFilesystem(mount.FSType) {
			continue
		}
		if params.Local && !isLocalFilesystem(mount.FSType) {
			continue
		}
		if params.Type != "" && mount.FSType != params.Type {
			continue
		}

		info, err := statFilesystem(mount.MountPoint, mount)
		if err != nil {
			// mount points can come and go, or be unreadable to us
			fmt.Fprintf(stderr, "df: cannot stat '%s': %v\n", mount.MountPoint, err)
			continue
		}

		if info.Size == 0 && !params.All {
			continue
		}
		infos = append(infos, info)
	}

	return infos, nil
}

// statPath reports the filesystem a single path lives on, resolving
// the device and mount point from the mount table when possible.
func statPath(path string, mounts []MountInfo) (FilesystemInfo, error) {
	mount := MountInfo{Device: path, MountPoint: path}
	if m, ok := findMount(path, mounts); ok {
		mount = m
	}
	return statFilesystem(path, mount)
}

// findMount picks the mount entry with the longest mount point that
// contains path.
func findMount(path string, mounts []MountInfo) (MountInfo, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return MountInfo{}, false
	}

	best := MountInfo{}
	found := false
	for _, mount := range mounts {
		if !pathWithin(abs, mount.MountPoint) {
			continue
		}
		if !found || len(mount.MountPoint) > len(best.MountPoint) {
			best = mount
			found = true
		}
	}
	return best, found
}

func pathWithin(path, dir string) bool {
	if dir == "/" {
		return strings.HasPrefix(path, "/")
	}
	return path == dir || strings.HasPrefix(path, dir+string(filepath.Separator))
}

func printFilesystems(infos []FilesystemInfo, params *Params, stdout io.Writer) {
	if params.Inode {
		fmt.Fprintf(stdout, "%-30s %10s %10s %10s %4s %-20s\n",
			"Filesystem", "Inodes", "IUsed", "IFree", "IUse%", "Mounted on")
		fmt.Fprintln(stdout, strings.Repeat("-", 85))

		for _, info := range infos {
			fmt.Fprintf(stdout, "%-30s %10d %10d %10d %3.0f%% %-20s\n",
				info.Filesystem,
				info.IAvailable+info.IUsed,
				info.IUsed,
				info.IAvailable,
				info.IPercent,
				info.MountPoint)
		}
		return
	}

	if params.Human {
		format := sizefmt.IEC
		if params.Si {
			format = sizefmt.SI
		}

		fmt.Fprintf(stdout, "%-30s %10s %10s %10s %4s %-20s\n",
			"Filesystem", "Size", "Used", "Avail", "Use%", "Mounted on")
		fmt.Fprintln(stdout, strings.Repeat("-", 90))

		for _, info := range infos {
			fmt.Fprintf(stdout, "%-30s %10s %10s %10s %3.0f%% %-20s\n",
				info.Filesystem,
				sizefmt.FormatSize(int64(info.Size), format),
				sizefmt.FormatSize(int64(info.Used), format),
				sizefmt.FormatSize(int64(info.Available), format),
				info.Percent,
				info.MountPoint)
		}
		return
	}

	// Print in 1K blocks (like traditional df)
	fmt.Fprintf(stdout, "%-30s %10s %10s %10s %4s %-20s\n",
		"Filesystem", "1K-blocks", "Used", "Available", "Use%", "Mounted on")
	fmt.Fprintln(stdout, strings.Repeat("-", 95))

	for _, info := range infos {
		fmt.Fprintf(stdout, "%-30s %10d %10d %10d %3.0f%% %-20s\n",
			info.Filesystem,
			info.Size/1024,
			info.Used/1024,
			info.Available/1024,
			info.Percent,
			info.MountPoint)
	}
}

func sortFilesystems(infos []FilesystemInfo, sortBy string, reverse bool) {
	switch sortBy {
	case "used":
		sort.Slice(infos, func(i, j int) bool {
			if reverse {
				return infos[i].Used < infos[j].Used
			}
			return infos[i].Used > infos[j].Used
		})
	case "available":
		sort.Slice(infos, func(i, j int) bool {
			if reverse {
				return infos[i].Available < infos[j].Available
			}
			return infos[i].Available > infos[j].Available
		})
	case "percent":
		sort.Slice(infos, func(i, j int) bool {
			if reverse {
				return infos[i].Percent < infos[j].Percent
			}
			return infos[i].Percent > infos[j].Percent
		})
	default:
		// Sort by filesystem name
		sort.Slice(infos, func(i, j int) bool {
			if reverse {
				return infos[i].Filesystem > infos[j].Filesystem
			}
			return infos[i].Filesystem < infos[j].Filesystem
		})
	}
}
