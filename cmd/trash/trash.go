package trash

import (
	"github.com/GiGurra/boa/pkg/boa"
	"github.com/spf13/cobra"
)

func Cmd() *cobra.Command {
	return boa.CmdT[boa.NoParams]{
		Use:   "trash",
		Short: "Move files to the trash can instead of deleting them",
		SubCmds: []*cobra.Command{
			PutCmd(),
			ListCmd(),
			RestoreCmd(),
			EmptyCmd(),
		},
	}.ToCobra()
}
