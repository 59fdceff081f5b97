package gamedir

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestParseLibraryFolders(t *testing.T) {
	vdf := `"libraryfolders"
{
	"0"
	{
		"path"		"/home/user/.local/share/Steam"
		"label"		""
	}
	"1"
	{
		"path"		"/mnt/games/SteamLibrary"
	}
}
`
	got := parseLibraryFolders(vdf)
	want := []string{"/home/user/.local/share/Steam", "/mnt/games/SteamLibrary"}
	if !slices.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestParseLibraryFoldersWindowsEscapes(t *testing.T) {
	vdf := "\t\"path\"\t\t\"D:\\\\SteamLibrary\"\n"
	got := parseLibraryFolders(vdf)
	if len(got) != 1 || got[0] != `D:\SteamLibrary` {
		t.Fatalf("got %v", got)
	}
}

func TestParseLibraryFoldersIgnoresOtherKeys(t *testing.T) {
	if got := parseLibraryFolders("\"apps\"\t\"12345\"\n\"label\"\t\"main\"\n"); got != nil {
		t.Fatalf("got %v, want nil", got)
	}
}

func TestSteamCandidatesIncludeConfiguredLibraries(t *testing.T) {
	paths := steamCandidates("linux", "/home/u", []string{"/mnt/games/SteamLibrary"})

	want := filepath.Join("/mnt/games/SteamLibrary", "steamapps", "common",
		"Football Manager 26", "fm_Data", "StreamingAssets", "aa", "StandaloneLinux64")
	if !slices.Contains(paths, want) {
		t.Fatalf("missing library candidate %q in %v", want, paths)
	}

	// Library candidates come before the default locations.
	defaultPath := filepath.Join("/home/u", ".steam", "steam", "steamapps", "common",
		"Football Manager 26", "fm_Data", "StreamingAssets", "aa", "StandaloneLinux64")
	if slices.Index(paths, want) > slices.Index(paths, defaultPath) {
		t.Fatal("configured libraries must be probed before defaults")
	}
}

func TestSteamCandidatesDarwinHasBothLayouts(t *testing.T) {
	paths := steamCandidates("darwin", "/Users/u", nil)

	var appBundle, dataDir bool
	for _, p := range paths {
		if strings.Contains(p, filepath.Join("fm.app", "Contents")) {
			appBundle = true
		}
		if strings.Contains(p, "StandaloneOSXUniversal") {
			dataDir = true
		}
	}
	if !appBundle || !dataDir {
		t.Fatalf("darwin must probe both app-bundle and data-dir layouts: %v", paths)
	}
}

func TestEpicCandidatesLinuxIncludesHeroic(t *testing.T) {
	paths := epicCandidates("linux", "/home/u")

	want := filepath.Join("/home/u", "Games", "Heroic", "FootballManager26",
		"fm_Data", "StreamingAssets", "aa", "StandaloneLinux64")
	if !slices.Contains(paths, want) {
		t.Fatalf("missing Heroic candidate in %v", paths)
	}
	flatpak := filepath.Join("/home/u", ".var", "app", "com.heroicgameslauncher.hgl",
		"Games", "FootballManager26", "fm_Data", "StreamingAssets", "aa", "StandaloneLinux64")
	if !slices.Contains(paths, flatpak) {
		t.Fatalf("missing flatpak Heroic candidate in %v", paths)
	}
}

func TestXboxCandidatesWindowsOnly(t *testing.T) {
	if got := xboxCandidates("linux"); got != nil {
		t.Fatalf("got %v, want nil", got)
	}
	if got := xboxCandidates("darwin"); got != nil {
		t.Fatalf("got %v, want nil", got)
	}
}

func TestFindBundles(t *testing.T) {
	root := t.TempDir()
	bundles := filepath.Join(root, "fm_Data", "StreamingAssets", "aa", "StandaloneLinux64")
	if err := os.MkdirAll(bundles, 0o755); err != nil {
		t.Fatal(err)
	}

	got, ok := findBundles(root, "linux")
	if !ok || got != bundles {
		t.Fatalf("got %q/%v, want %q", got, ok, bundles)
	}

	if _, ok := findBundles(t.TempDir(), "linux"); ok {
		t.Fatal("empty game root must not match")
	}
}

func TestDetectMissesCleanly(t *testing.T) {
	// A throwaway home has no installs; detection must simply report false.
	if path, ok := detect("linux", t.TempDir()); ok {
		t.Fatalf("unexpected detection: %q", path)
	}
}
