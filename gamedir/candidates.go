package gamedir

import (
	"os"
	"path/filepath"
	"strings"
)

// The game ships under two names depending on region and store listing.
var (
	steamGameNames = []string{"Football Manager 26", "Football Manager 2026"}
	epicGameNames  = []string{"FootballManager26", "FootballManager2026", "Football Manager 26"}
)

// bundleSubdirs are the asset-bundle locations relative to a game root,
// per OS. macOS has two layouts depending on how the build was packaged.
func bundleSubdirs(goos string) []string {
	switch goos {
	case "windows":
		return []string{
			filepath.Join("data", "StreamingAssets", "aa", "StandaloneWindows64"),
		}
	case "darwin":
		return []string{
			filepath.Join("fm.app", "Contents", "Resources", "Data", "StreamingAssets", "aa", "StandaloneOSX"),
			filepath.Join("fm_Data", "StreamingAssets", "aa", "StandaloneOSXUniversal"),
		}
	default:
		return []string{
			filepath.Join("fm_Data", "StreamingAssets", "aa", "StandaloneLinux64"),
		}
	}
}

// steamCandidates lists possible Steam bundle paths: every configured
// library plus the default install locations.
func steamCandidates(goos, home string, libraries []string) []string {
	var paths []string

	appendGameDirs := func(commonDir string) {
		for _, name := range steamGameNames {
			for _, sub := range bundleSubdirs(goos) {
				paths = append(paths, filepath.Join(commonDir, name, sub))
			}
		}
	}

	for _, library := range libraries {
		appendGameDirs(filepath.Join(library, "steamapps", "common"))
	}

	switch goos {
	case "windows":
		appendGameDirs(filepath.Join(`C:\Program Files (x86)\Steam`, "steamapps", "common"))
		appendGameDirs(filepath.Join(`C:\Program Files\Steam`, "steamapps", "common"))
	case "darwin":
		appendGameDirs(filepath.Join(home, "Library", "Application Support", "Steam", "steamapps", "common"))
	default:
		appendGameDirs(filepath.Join(home, ".steam", "steam", "steamapps", "common"))
		appendGameDirs(filepath.Join(home, ".local", "share", "Steam", "steamapps", "common"))
		// Steam Deck SD card.
		paths = append(paths, filepath.Join("/run/media/mmcblk0p1/steamapps/common",
			"Football Manager 26", bundleSubdirs(goos)[0]))
	}

	return paths
}

// epicCandidates lists possible Epic Games Store bundle paths, including
// the Heroic launcher locations on Linux.
func epicCandidates(goos, home string) []string {
	var paths []string

	switch goos {
	case "windows":
		for _, name := range epicGameNames {
			for _, root := range []string{`C:\Program Files\Epic Games`, `C:\Program Files (x86)\Epic Games`} {
				paths = append(paths, filepath.Join(root, name, bundleSubdirs(goos)[0]))
			}
		}
	case "darwin":
		sub := filepath.Join("fm_Data", "StreamingAssets", "aa", "StandaloneOSXUniversal")
		for _, name := range epicGameNames {
			paths = append(paths, filepath.Join(home, "Library", "Application Support", "Epic", name, sub))
		}
	default:
		sub := bundleSubdirs(goos)[0]
		for _, name := range epicGameNames {
			paths = append(paths,
				filepath.Join(home, "Games", "Heroic", name, sub),
				filepath.Join(home, ".var", "app", "com.heroicgameslauncher.hgl", "Games", name, sub),
			)
		}
		paths = append(paths,
			filepath.Join(home, "Games", "football-manager-26", sub),
			filepath.Join(home, "Games", "football-manager-2026", sub),
		)
	}

	return paths
}

// xboxCandidates lists Game Pass install paths (Windows only). WindowsApps
// folders carry version suffixes, so the directory is also scanned for
// anything matching the publisher prefix.
func xboxCandidates(goos string) []string {
	if goos != "windows" {
		return nil
	}

	sub := bundleSubdirs(goos)[0]
	paths := []string{
		filepath.Join(`C:\Program Files\WindowsApps`, "SEGA.FootballManager26", sub),
		filepath.Join(`C:\Program Files\WindowsApps`, "SEGA.FootballManager2026", sub),
	}

	entries, err := os.ReadDir(`C:\Program Files\WindowsApps`)
	if err != nil {
		return paths
	}
	for _, entry := range entries {
		name := entry.Name()
		if strings.Contains(name, "SEGA.FootballManager26") || strings.Contains(name, "SEGA.FootballManager2026") {
			paths = append(paths, filepath.Join(`C:\Program Files\WindowsApps`, name, sub))
		}
	}
	return paths
}
