// Package cachecmd implements `skinforge cache`: inspect, clear and open
// the tool's cache directory.
package cachecmd

import (
	"fmt"

	"skinforge/cmd/skinforge/ui"
	"skinforge/internal/cachedir"

	"github.com/spf13/cobra"
)

func Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the skinforge cache directory",
	}

	cmd.AddCommand(sizeCmd())
	cmd.AddCommand(clearCmd())
	cmd.AddCommand(openCmd())
	return cmd
}

func sizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "size",
		Short: "Show the cache location and its size on disk",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cachedir.Dir()
			if err != nil {
				return err
			}
			size, err := cachedir.Size(dir)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), ui.KeyValues("",
				ui.KV("location", dir),
				ui.KV("size", humanBytes(size)),
			))
			return nil
		},
	}
}

func clearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove cached bundles, skins and temp files",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cachedir.Dir()
			if err != nil {
				return err
			}
			result, err := cachedir.Clear(dir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.SuccessMsg("cleared %s across %d folders",
				humanBytes(result.BytesCleared), result.FoldersRemoved))
			for _, msg := range result.Errors {
				fmt.Fprintln(out, ui.WarnMsg("%s", msg))
			}
			return nil
		},
	}
}

func openCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open",
		Short: "Open the cache directory in the system file browser",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cachedir.Dir()
			if err != nil {
				return err
			}
			return cachedir.Open(cmd.Context(), dir)
		},
	}
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
