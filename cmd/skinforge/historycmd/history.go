// Package historycmd implements `skinforge history`: list and inspect
// past build runs.
package historycmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"skinforge/cmd/skinforge/ui"
	"skinforge/config"
	"skinforge/internal/cachedir"
	"skinforge/internal/history"

	"github.com/spf13/cobra"
)

func Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect past build runs",
	}

	cmd.AddCommand(listCmd())
	cmd.AddCommand(showCmd())
	return cmd
}

func openStore() (*history.Store, error) {
	settings, err := config.Load()
	if err != nil {
		return nil, err
	}
	cacheDir := settings.CacheDir
	if cacheDir == "" {
		if cacheDir, err = cachedir.Dir(); err != nil {
			return nil, err
		}
	}
	return history.Open(history.DefaultPath(cacheDir))
}

func listCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List recent build runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted("no builds recorded yet"))
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted("  run: skinforge build --skin <dir>"))
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					shortID(run.ID),
					run.StartedAt.Local().Format("2006-01-02 15:04"),
					run.Config.SkinPath,
					mode(run),
					outcome(run),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Table(
				[]string{"ID", "Started", "Skin", "Mode", "Result"},
				rows,
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum runs to show")
	return cmd
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one run in full, including worker output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			run, err := store.Find(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, ui.KeyValues("",
				ui.KV("id", run.ID),
				ui.KV("started", run.StartedAt.Local().Format(time.RFC1123)),
				ui.KV("duration", run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond).String()),
				ui.KV("skin", run.Config.SkinPath),
				ui.KV("bundles", orDash(run.Config.BundlesPath)),
				ui.KV("mode", mode(run)),
				ui.KV("result", outcome(run)),
				ui.KV("exit code", strconv.Itoa(run.Result.ExitCode)),
				ui.KV("message", run.Result.Message),
			))

			if text := strings.TrimSpace(run.Result.Stdout); text != "" {
				fmt.Fprintln(out, ui.Bold("stdout"))
				fmt.Fprintln(out, text)
			}
			if text := strings.TrimSpace(run.Result.Stderr); text != "" {
				fmt.Fprintln(out, ui.Bold("stderr"))
				fmt.Fprintln(out, text)
			}
			return nil
		},
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func mode(run history.Run) string {
	var parts []string
	if run.Config.DryRun {
		parts = append(parts, "dry-run")
	}
	if run.Config.DebugExport {
		parts = append(parts, "debug")
	}
	if len(parts) == 0 {
		return "build"
	}
	return strings.Join(parts, "+")
}

func outcome(run history.Run) string {
	if run.Result.Success {
		return ui.SuccessStyle.Render("ok")
	}
	return ui.ErrorStyle.Render("failed")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
