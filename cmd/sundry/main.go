package main

import (
	"runtime/debug"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gigurra/sundry/cmd/archive"
	"github.com/gigurra/sundry/cmd/clip"
	"github.com/gigurra/sundry/cmd/df"
	"github.com/gigurra/sundry/cmd/du"
	"github.com/gigurra/sundry/cmd/font"
	"github.com/gigurra/sundry/cmd/hash"
	"github.com/gigurra/sundry/cmd/inuse"
	"github.com/gigurra/sundry/cmd/ls"
	"github.com/gigurra/sundry/cmd/mode"
	"github.com/gigurra/sundry/cmd/notify"
	"github.com/gigurra/sundry/cmd/open"
	"github.com/gigurra/sundry/cmd/rename"
	"github.com/gigurra/sundry/cmd/size"
	"github.com/gigurra/sundry/cmd/trash"
	"github.com/gigurra/sundry/cmd/tree"
	"github.com/gigurra/sundry/cmd/watch"
	"github.com/gigurra/sundry/cmd/which"
	"github.com/gigurra/sundry/cmd/xdg"
	"github.com/spf13/cobra"
)

// Command group IDs
const (
	groupFile    = "file"
	groupDesktop = "desktop"
	groupSystem  = "system"
)

// withGroup sets the GroupID on a command and returns it
func withGroup(cmd *cobra.Command, group string) *cobra.Command {
	cmd.GroupID = group
	return cmd
}

func main() {
	boa.CmdT[boa.NoParams]{
		Use:     "sundry",
		Short:   "Sundry file and desktop utilities",
		Version: appVersion(),
		Groups: []*cobra.Group{
			{ID: groupFile, Title: "File Operations:"},
			{ID: groupDesktop, Title: "Desktop Integration:"},
			{ID: groupSystem, Title: "System:"},
		},
		SubCmds: []*cobra.Command{
			// File Operations
			withGroup(ls.Cmd(), groupFile),
			withGroup(ls.LlCmd(), groupFile),
			withGroup(ls.LaCmd(), groupFile),
			withGroup(tree.Cmd(), groupFile),
			withGroup(du.Cmd(), groupFile),
			withGroup(df.Cmd(), groupFile),
			withGroup(size.Cmd(), groupFile),
			withGroup(mode.Cmd(), groupFile),
			withGroup(rename.Cmd(), groupFile),
			withGroup(trash.Cmd(), groupFile),
			withGroup(archive.Cmd(), groupFile),
			withGroup(hash.Cmd(), groupFile),

			// Desktop Integration
			withGroup(open.Cmd(), groupDesktop),
			withGroup(clip.Cmd(), groupDesktop),
			withGroup(notify.Cmd(), groupDesktop),
			withGroup(xdg.Cmd(), groupDesktop),
			withGroup(font.Cmd(), groupDesktop),

			// System
			withGroup(watch.Cmd(), groupSystem),
			withGroup(which.Cmd(), groupSystem),
			withGroup(inuse.Cmd(), groupSystem),
		},
	}.Run()
}

func appVersion() string {
	bi, hasBuildInfo := debug.ReadBuildInfo()
	if !hasBuildInfo {
		return "unknown-(no build info)"
	}

	versionString := bi.Main.Version
	if versionString == "" {
		versionString = "unknown-(no version)"
	}

	return versionString
}
