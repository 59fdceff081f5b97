// Package cachedir manages the application cache the worker writes into:
// size reporting, selective clearing, and opening it in the system file
// browser. The WebView runtime folder a packaged frontend may keep inside
// the same directory is never touched.
package cachedir

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// webviewDir is the embedded WebView2 runtime folder; it is locked on
// Windows and excluded from both size accounting and clearing.
const webviewDir = "EBWebView"

// clearable are the only folders Clear removes; everything else in the
// cache directory is left alone.
var clearable = []string{"cache", "bundles", "skins", "temp"}

// Dir resolves the application cache directory. FM_CACHE_DIR overrides;
// otherwise it lives under the user cache dir.
func Dir() (string, error) {
	if override := os.Getenv("FM_CACHE_DIR"); override != "" {
		return override, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolve user cache dir: %w", err)
	}
	return filepath.Join(base, "skinforge"), nil
}

// Size reports the cache size in bytes, excluding the WebView runtime.
// A missing directory has size zero.
func Size(dir string) (int64, error) {
	var total int64
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir && errors.Is(err, fs.ErrNotExist) {
				return filepath.SkipAll
			}
			return err
		}
		if d.IsDir() && d.Name() == webviewDir {
			return filepath.SkipDir
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		total += info.Size()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("walk cache dir: %w", err)
	}
	return total, nil
}

// ClearResult summarizes a Clear call.
type ClearResult struct {
	// FoldersRemoved counts whitelisted folders that were deleted.
	FoldersRemoved int
	// Errors describes folders that could not be removed; clearing is
	// resilient and keeps going past them.
	Errors []string
	// BytesCleared is the measured size difference.
	BytesCleared int64
}

// Clear removes the whitelisted cache folders. Removal failures are
// tolerated and counted, not fatal.
func Clear(dir string) (ClearResult, error) {
	var res ClearResult

	before, err := Size(dir)
	if err != nil {
		return res, err
	}

	for _, name := range clearable {
		folder := filepath.Join(dir, name)
		if _, err := os.Stat(folder); err != nil {
			continue
		}
		if err := os.RemoveAll(folder); err != nil {
			slog.Warn("cache folder not removed", "folder", folder, "err", err)
			res.Errors = append(res.Errors, fmt.Sprintf("could not remove %s: %v", name, err))
			continue
		}
		res.FoldersRemoved++
	}

	after, err := Size(dir)
	if err != nil {
		after = 0
	}
	if before > after {
		res.BytesCleared = before - after
	}
	return res, nil
}

// Open shows the cache directory in the system file browser, creating it
// first so the browser has something to land on.
func Open(ctx context.Context, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", dir)
	case "windows":
		cmd = exec.CommandContext(ctx, "explorer", dir)
	default:
		cmd = exec.CommandContext(ctx, "xdg-open", dir)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open cache dir: %w", err)
	}
	// The browser owns its own lifetime; don't wait on it.
	go func() { _ = cmd.Wait() }()
	return nil
}
