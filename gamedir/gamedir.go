// Package gamedir locates the game's asset-bundle directory across the
// Steam, Epic and Xbox Game Pass install layouts. Detection is heuristic:
// candidate paths are generated per store and OS, and the first one that
// exists wins.
package gamedir

import (
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
)

// Detect scans all known install locations and returns the first existing
// bundles directory.
func Detect() (string, bool) {
	home, err := os.UserHomeDir()
	if err != nil {
		slog.Debug("no home directory, skipping user-relative candidates", "err", err)
	}
	return detect(runtime.GOOS, home)
}

func detect(goos, home string) (string, bool) {
	libraries := steamLibraryFolders(goos, home)
	candidates := slices.Concat(
		steamCandidates(goos, home, libraries),
		epicCandidates(goos, home),
		xboxCandidates(goos),
	)

	for _, path := range candidates {
		if dirExists(path) {
			slog.Debug("game installation found", "path", path)
			return path, true
		}
	}
	return "", false
}

// FindBundles probes the per-OS bundle layouts under a user-supplied game
// root directory.
func FindBundles(gameRoot string) (string, bool) {
	return findBundles(gameRoot, runtime.GOOS)
}

func findBundles(gameRoot, goos string) (string, bool) {
	for _, sub := range bundleSubdirs(goos) {
		path := filepath.Join(gameRoot, sub)
		if dirExists(path) {
			return path, true
		}
	}
	return "", false
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
