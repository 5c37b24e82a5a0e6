package notify

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gen2brain/beeep"
	"github.com/gigurra/sundry/cmd/common"
	"github.com/spf13/cobra"
)

var (
	sendNotification = func(title, message, icon string) error {
		return beeep.Notify(title, message, icon)
	}
	sendAlert = func(title, message, icon string) error {
		return beeep.Alert(title, message, icon)
	}
)

type Params struct {
	Message []string `pos:"true" required:"true" help:"Notification text."`
	Title   string   `short:"t" optional:"true" help:"Notification title." default:"sundry"`
	Icon    string   `short:"i" optional:"true" help:"Path to an icon image to show with the notification."`
	Sound   bool     `short:"s" optional:"true" help:"Also play the system alert sound."`
}

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:   "notify",
		Short: "Show a desktop notification",
		Long: `Show a desktop notification using the platform notification service.

Useful at the end of long running operations, so you do not have to keep
staring at the terminal.

Examples:
  sundry notify "Backup finished"
  sleep 300 && sundry notify -t "Timer" "5 minutes are up"
  cp -r /big/dir /backup && sundry notify -s "Copy done"`,
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			os.Exit(Run(params, os.Stderr))
		},
	}.ToCobra()
}

func Run(params *Params, stderr io.Writer) int {
	message := strings.Join(params.Message, " ")

	send := sendNotification
	if params.Sound {
		send = sendAlert
	}

	if err := send(params.Title, message, params.Icon); err != nil {
		_, _ = fmt.Fprintf(stderr, "notify: %v\n", err)
		return 1
	}
	return 0
}
