// Package gamedircmd implements `skinforge gamedir`, which locates the
// Football Manager installation and its asset bundles folder.
package gamedircmd

import (
	"fmt"

	"skinforge/cmd/skinforge/ui"
	"skinforge/gamedir"

	"github.com/spf13/cobra"
)

func Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gamedir",
		Short: "Locate the Football Manager installation",
	}

	cmd.AddCommand(detectCmd())
	cmd.AddCommand(bundlesCmd())
	return cmd
}

func detectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect",
		Short: "Search Steam, Epic and Xbox install locations",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, ok := gamedir.Detect()
			if !ok {
				return fmt.Errorf("no Football Manager installation found")
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.SuccessMsg("found game at %s", ui.Accent(root)))
			return nil
		},
	}
}

func bundlesCmd() *cobra.Command {
	var gameRoot string

	cmd := &cobra.Command{
		Use:   "bundles",
		Short: "Print the asset bundles directory for a game install",
		RunE: func(cmd *cobra.Command, args []string) error {
			root := gameRoot
			if root == "" {
				detected, ok := gamedir.Detect()
				if !ok {
					return fmt.Errorf("no Football Manager installation found; pass --game-root")
				}
				root = detected
			}

			bundles, ok := gamedir.FindBundles(root)
			if !ok {
				return fmt.Errorf("no bundles directory under %s", root)
			}
			fmt.Fprintln(cmd.OutOrStdout(), bundles)
			return nil
		},
	}

	cmd.Flags().StringVar(&gameRoot, "game-root", "", "Game install directory (skips detection)")
	return cmd
}
