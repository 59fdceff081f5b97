// Package buildcmd implements `skinforge build`, which runs the Python
// build worker against a skin and streams its output to the terminal.
package buildcmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"skinforge"
	"skinforge/cmd/skinforge/ui"
	"skinforge/config"
	"skinforge/internal/build"
	"skinforge/internal/cachedir"
	"skinforge/internal/history"
	"skinforge/internal/watch"
	"skinforge/internal/worker"

	"github.com/spf13/cobra"
)

func Cmd() *cobra.Command {
	var (
		skin        string
		bundles     string
		debugExport bool
		dryRun      bool
		verbose     bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a skin with the bundled worker",
		Long: `Build spawns the fm_skin_builder worker for the given skin and streams
its progress. Ctrl+C cancels the running build.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load()
			if err != nil {
				return err
			}
			if skin == "" {
				skin = settings.SkinPath
			}
			if bundles == "" {
				bundles = settings.BundlesPath
			}

			cfg := skinforge.TaskConfig{
				SkinPath:    skin,
				BundlesPath: bundles,
				DebugExport: debugExport || settings.DebugExport,
				DryRun:      dryRun || settings.DryRun,
			}
			return runBuild(cmd, cfg, settings, verbose)
		},
	}

	cmd.Flags().StringVar(&skin, "skin", "", "Skin directory to build (defaults to configured skin-path)")
	cmd.Flags().StringVar(&bundles, "bundles", "", "Game bundles directory passed to the worker")
	cmd.Flags().BoolVar(&debugExport, "debug-export", false, "Keep intermediate build artifacts for debugging")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview the build without modifying any bundles")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show routine worker log lines")
	return cmd
}

func runBuild(cmd *cobra.Command, cfg skinforge.TaskConfig, settings *config.Config, verbose bool) error {
	cacheDir := settings.CacheDir
	if cacheDir == "" {
		var err error
		if cacheDir, err = cachedir.Dir(); err != nil {
			return err
		}
	}
	broker := watch.NewBroker()
	defer broker.Close()

	console := ui.NewConsole(cmd.OutOrStdout(), verbose)
	unsubscribe := broker.Subscribe(console)
	defer unsubscribe()
	unsubscribeLog := broker.Subscribe(&slogSink{})
	defer unsubscribeLog()

	sup := &build.Supervisor{
		Resolver: worker.Locator{CacheDir: cacheDir, Workspace: devWorkspace()},
		Sink:     broker,
	}

	// Ctrl+C asks the supervisor to cancel rather than tearing the
	// process down; the run then unwinds through the normal path.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-sigCh:
				if _, err := sup.Cancel(); err != nil {
					slog.Debug("cancel build", "error", err)
				}
			case <-done:
				return
			}
		}
	}()

	startedAt := time.Now()
	result, runErr := sup.Run(cmd.Context(), cfg)

	if result != nil {
		recordRun(cacheDir, cfg, *result, startedAt)
	}

	switch {
	case errors.Is(runErr, build.ErrCancelled):
		fmt.Fprintln(cmd.OutOrStdout(), ui.WarnMsg("build cancelled"))
		return nil
	case runErr != nil:
		return runErr
	}

	if !result.Success {
		return fmt.Errorf("worker exited with code %d", result.ExitCode)
	}
	return nil
}

// devWorkspace reports the worker's development checkout, if any:
// SKINFORGE_DEV names it explicitly, otherwise the current directory
// counts when it holds the worker's Python sources. Packaged installs
// return "" and run the bundled backend binary instead.
func devWorkspace() string {
	if ws := os.Getenv("SKINFORGE_DEV"); ws != "" {
		return ws
	}
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	if info, err := os.Stat(filepath.Join(wd, "fm_skin_builder")); err != nil || !info.IsDir() {
		return ""
	}
	return wd
}

// recordRun appends the finished build to the local history database.
// History is best effort; a failure here never fails the build.
func recordRun(cacheDir string, cfg skinforge.TaskConfig, result skinforge.CompletionResult, startedAt time.Time) {
	store, err := history.Open(history.DefaultPath(cacheDir))
	if err != nil {
		slog.Warn("open run history", "error", err)
		return
	}
	defer store.Close()

	run := history.NewRun(cfg, result, startedAt, time.Now())
	if err := store.Record(context.Background(), run); err != nil {
		slog.Warn("record run history", "error", err)
	}
}

// slogSink mirrors build events into the structured log at debug level.
type slogSink struct{}

func (s *slogSink) TaskStarted(message string) error {
	slog.Debug("build started", "message", message)
	return nil
}

func (s *slogSink) BuildLog(message string, level skinforge.LogLevel) error {
	slog.Debug("worker output", "level", level, "message", message)
	return nil
}

func (s *slogSink) BuildProgress(current, total int, status string) error {
	slog.Debug("build progress", "current", current, "total", total, "status", status)
	return nil
}

func (s *slogSink) BuildComplete(success bool, exitCode int, message string) error {
	slog.Debug("build complete", "success", success, "exit_code", exitCode, "message", message)
	return nil
}
