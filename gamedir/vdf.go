package gamedir

import (
	"os"
	"path/filepath"
	"strings"
)

// libraryFoldersPath is where Steam keeps its library manifest per OS.
func libraryFoldersPath(goos, home string) string {
	switch goos {
	case "windows":
		return filepath.Join(`C:\Program Files (x86)\Steam`, "steamapps", "libraryfolders.vdf")
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Steam", "steamapps", "libraryfolders.vdf")
	default:
		return filepath.Join(home, ".steam", "steam", "steamapps", "libraryfolders.vdf")
	}
}

// steamLibraryFolders reads and parses libraryfolders.vdf; a missing or
// unreadable manifest just means no extra libraries.
func steamLibraryFolders(goos, home string) []string {
	data, err := os.ReadFile(libraryFoldersPath(goos, home))
	if err != nil {
		return nil
	}
	return parseLibraryFolders(string(data))
}

// parseLibraryFolders extracts the "path" entries from a VDF manifest.
// Lines look like:
//
//	"path"		"/mnt/games/SteamLibrary"
//
// Windows manifests escape backslashes, which are unescaped here. This is
// deliberately not a full VDF parser.
func parseLibraryFolders(content string) []string {
	var libraries []string
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, `"path"`) {
			continue
		}
		end := strings.LastIndex(trimmed, `"`)
		if end <= 0 {
			continue
		}
		start := strings.LastIndex(trimmed[:end], `"`)
		if start < 0 || start+1 >= end {
			continue
		}
		path := strings.ReplaceAll(trimmed[start+1:end], `\\`, `\`)
		libraries = append(libraries, path)
	}
	return libraries
}
