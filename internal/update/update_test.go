package update

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestPlatformKey(t *testing.T) {
	tests := []struct {
		goos, goarch string
		want         string
	}{
		{"darwin", "arm64", "darwin-aarch64"},
		{"darwin", "amd64", "darwin-x86_64"},
		{"windows", "amd64", "windows-x86_64"},
		{"linux", "amd64", "linux-x86_64"},
	}
	for _, tt := range tests {
		got, err := PlatformKey(tt.goos, tt.goarch)
		if err != nil {
			t.Errorf("PlatformKey(%q, %q): %v", tt.goos, tt.goarch, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PlatformKey(%q, %q) = %q, want %q", tt.goos, tt.goarch, got, tt.want)
		}
	}

	if _, err := PlatformKey("plan9", "amd64"); !errors.Is(err, ErrUnsupportedPlatform) {
		t.Errorf("PlatformKey(plan9) error = %v, want ErrUnsupportedPlatform", err)
	}
}

func TestManifestDecoding(t *testing.T) {
	raw := `{
		"version": "1.4.0",
		"pub_date": "2025-06-01T00:00:00Z",
		"notes": "Bug fixes",
		"platforms": {
			"linux-x86_64": {
				"installers": [
					{"url": "https://releases.example/skinforge.AppImage", "format": "appimage", "size": 12345}
				]
			},
			"windows-x86_64": {
				"installers": []
			}
		}
	}`

	var manifest Manifest
	if err := json.Unmarshal([]byte(raw), &manifest); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if manifest.Version != "1.4.0" {
		t.Errorf("Version = %q, want 1.4.0", manifest.Version)
	}

	installer, err := manifest.InstallerFor("linux-x86_64")
	if err != nil {
		t.Fatalf("InstallerFor(linux): %v", err)
	}
	if installer.Format != "appimage" || installer.Size != 12345 {
		t.Errorf("installer = %+v", installer)
	}

	if _, err := manifest.InstallerFor("windows-x86_64"); err == nil {
		t.Error("InstallerFor with empty installer list should fail")
	}
	if _, err := manifest.InstallerFor("darwin-aarch64"); err == nil {
		t.Error("InstallerFor for missing platform should fail")
	}
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"version": "2.0.0", "platforms": {}}`))
	}))
	defer srv.Close()

	client := &Client{ManifestURL: srv.URL}
	manifest, err := client.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if manifest.Version != "2.0.0" {
		t.Errorf("Version = %q, want 2.0.0", manifest.Version)
	}
}

func TestFetchRetriesServerErrors(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"version": "2.0.0", "platforms": {}}`))
	}))
	defer srv.Close()

	client := &Client{ManifestURL: srv.URL}
	manifest, err := client.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if manifest.Version != "2.0.0" {
		t.Errorf("Version = %q, want 2.0.0", manifest.Version)
	}
	if hits != 3 {
		t.Errorf("hits = %d, want 3", hits)
	}
}

func TestFetchDoesNotRetryClientErrors(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := &Client{ManifestURL: srv.URL}
	if _, err := client.Fetch(context.Background()); err == nil {
		t.Fatal("Fetch should fail on 404")
	}
	if hits != 1 {
		t.Errorf("hits = %d, want 1", hits)
	}
}

func TestInstallerCommand(t *testing.T) {
	ctx := context.Background()

	cmd := installerCommand(ctx, `C:\temp\skinforge-update-1.0.0`, "windows")
	if len(cmd.Args) != 2 || cmd.Args[1] != "/S" {
		t.Errorf("windows args = %v, want silent flag", cmd.Args)
	}

	cmd = installerCommand(ctx, "/tmp/skinforge-update-1.0.0.dmg", "darwin")
	if !strings.HasSuffix(cmd.Args[0], "hdiutil") {
		t.Errorf("darwin dmg command = %v, want hdiutil", cmd.Args)
	}

	cmd = installerCommand(ctx, "/tmp/skinforge-update-1.0.0", "linux")
	if len(cmd.Args) != 1 || cmd.Args[0] != "/tmp/skinforge-update-1.0.0" {
		t.Errorf("linux args = %v", cmd.Args)
	}
}
