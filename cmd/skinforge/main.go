package main

import (
	"fmt"
	"os"

	"skinforge/cmd/skinforge/buildcmd"
	"skinforge/cmd/skinforge/cachecmd"
	"skinforge/cmd/skinforge/gamedircmd"
	"skinforge/cmd/skinforge/historycmd"
	"skinforge/cmd/skinforge/ui"
	"skinforge/cmd/skinforge/updatecmd"
	"skinforge/internal/logging"
	"skinforge/internal/support/buildinfo"

	"github.com/spf13/cobra"
)

func main() {
	var (
		debug         bool
		noInteraction bool
	)
	if err := logging.Configure(logging.LevelWarn); err != nil {
		_, _ = os.Stderr.WriteString("configure logger: " + err.Error() + "\n")
		os.Exit(1)
	}

	root := &cobra.Command{
		Use:           "skinforge",
		Short:         "Build and install Football Manager skins",
		Version:       buildinfo.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := logging.LevelWarn
			if debug {
				level = logging.LevelDebug
			}
			if err := logging.Configure(level); err != nil {
				return err
			}
			ui.ConfigureInteraction(noInteraction)
			return nil
		},
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	root.PersistentFlags().BoolVar(&noInteraction, "no-interaction", false, "Disable colors, spinners and prompts")

	root.AddCommand(buildcmd.Cmd())
	root.AddCommand(gamedircmd.Cmd())
	root.AddCommand(cachecmd.Cmd())
	root.AddCommand(historycmd.Cmd())
	root.AddCommand(updatecmd.Cmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
