// Package updatecmd implements `skinforge update`: check the release
// feed and install a newer version.
package updatecmd

import (
	"context"
	"fmt"

	"skinforge/cmd/skinforge/ui"
	"skinforge/config"
	"skinforge/internal/support/buildinfo"
	"skinforge/internal/update"

	"github.com/spf13/cobra"
)

func Cmd() *cobra.Command {
	var (
		checkOnly   bool
		manifestURL string
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Download and install the latest release",
		RunE: func(cmd *cobra.Command, args []string) error {
			url := manifestURL
			if url == "" {
				settings, err := config.Load()
				if err != nil {
					return err
				}
				url = settings.UpdateManifestURL()
			}
			return runUpdate(cmd, url, checkOnly)
		},
	}

	cmd.Flags().BoolVar(&checkOnly, "check", false, "Only report whether an update is available")
	cmd.Flags().StringVar(&manifestURL, "manifest", "", "Release manifest URL (defaults to the configured feed)")
	return cmd
}

func runUpdate(cmd *cobra.Command, manifestURL string, checkOnly bool) error {
	client := &update.Client{ManifestURL: manifestURL}
	out := cmd.OutOrStdout()

	var manifest update.Manifest
	err := ui.RunWithSpinner(cmd.Context(), "checking for updates", func(ctx context.Context) error {
		var err error
		manifest, err = client.Fetch(ctx)
		return err
	})
	if err != nil {
		return err
	}

	if manifest.Version == buildinfo.Version {
		fmt.Fprintln(out, ui.SuccessMsg("already on the latest version (%s)", buildinfo.Version))
		return nil
	}

	fmt.Fprintln(out, ui.InfoMsg("update available: %s (installed: %s)", ui.Bold(manifest.Version), buildinfo.Version))
	if manifest.Notes != "" {
		fmt.Fprintln(out, ui.Muted(manifest.Notes))
	}
	if checkOnly {
		return nil
	}

	var installerPath string
	err = ui.RunWithSpinner(cmd.Context(), "downloading "+manifest.Version, func(ctx context.Context) error {
		var err error
		installerPath, err = client.Download(ctx, manifest)
		return err
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(out, ui.InfoMsg("running installer"))
	if err := update.Install(cmd.Context(), installerPath); err != nil {
		return err
	}
	fmt.Fprintln(out, ui.SuccessMsg("updated to %s", manifest.Version))
	return nil
}
