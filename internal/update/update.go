// Package update fetches the release manifest, downloads the installer
// for the current platform and hands off to it.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/cenkalti/backoff/v4"
)

// Manifest describes one published release.
type Manifest struct {
	Version   string              `json:"version"`
	PubDate   string              `json:"pub_date"`
	Platforms map[string]Platform `json:"platforms"`
	Notes     string              `json:"notes"`
}

// Platform lists the installers available for one platform key.
type Platform struct {
	URL        string      `json:"url,omitempty"`
	Signature  string      `json:"signature,omitempty"`
	Installers []Installer `json:"installers"`
}

// Installer is one downloadable artifact.
type Installer struct {
	URL    string `json:"url"`
	Format string `json:"format"`
	Size   uint64 `json:"size"`
}

// ErrUnsupportedPlatform is returned for OS/arch combinations the
// release feed does not publish installers for.
var ErrUnsupportedPlatform = errors.New("unsupported platform")

// PlatformKey maps a GOOS/GOARCH pair onto the manifest's platform keys.
func PlatformKey(goos, goarch string) (string, error) {
	switch goos {
	case "darwin":
		if goarch == "arm64" {
			return "darwin-aarch64", nil
		}
		return "darwin-x86_64", nil
	case "windows":
		return "windows-x86_64", nil
	case "linux":
		return "linux-x86_64", nil
	}
	return "", fmt.Errorf("%w: %s/%s", ErrUnsupportedPlatform, goos, goarch)
}

// InstallerFor picks the installer to download for the given platform key.
func (m Manifest) InstallerFor(key string) (Installer, error) {
	platform, ok := m.Platforms[key]
	if !ok {
		return Installer{}, fmt.Errorf("no update available for platform %s", key)
	}
	if len(platform.Installers) == 0 {
		return Installer{}, fmt.Errorf("no installer published for platform %s", key)
	}
	return platform.Installers[0], nil
}

// Client resolves and applies updates from a JSON release feed.
type Client struct {
	ManifestURL string
	HTTP        *http.Client
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

// Fetch downloads and decodes the release manifest, retrying transient
// failures with exponential backoff.
func (c *Client) Fetch(ctx context.Context) (Manifest, error) {
	var manifest Manifest
	op := func() error {
		body, err := c.get(ctx, c.ManifestURL)
		if err != nil {
			return err
		}
		defer body.Close()
		return json.NewDecoder(body).Decode(&manifest)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 4), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return Manifest{}, fmt.Errorf("fetch release manifest: %w", err)
	}
	return manifest, nil
}

// Download fetches the installer for the current platform into the
// system temp directory and returns its path.
func (c *Client) Download(ctx context.Context, manifest Manifest) (string, error) {
	key, err := PlatformKey(runtime.GOOS, runtime.GOARCH)
	if err != nil {
		return "", err
	}
	installer, err := manifest.InstallerFor(key)
	if err != nil {
		return "", err
	}

	path := filepath.Join(os.TempDir(), "skinforge-update-"+manifest.Version)
	op := func() error {
		return c.downloadTo(ctx, installer.URL, path)
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 4), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return "", fmt.Errorf("download installer: %w", err)
	}

	if runtime.GOOS != "windows" {
		if err := os.Chmod(path, 0o755); err != nil {
			return "", fmt.Errorf("mark installer executable: %w", err)
		}
	}
	return path, nil
}

// Install launches the downloaded installer and waits for it to finish.
func Install(ctx context.Context, installerPath string) error {
	cmd := installerCommand(ctx, installerPath, runtime.GOOS)
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("installer exited with code %d", exitErr.ExitCode())
		}
		return fmt.Errorf("run installer: %w", err)
	}
	return nil
}

func installerCommand(ctx context.Context, path, goos string) *exec.Cmd {
	switch goos {
	case "windows":
		// NSIS silent install.
		return exec.CommandContext(ctx, path, "/S")
	case "darwin":
		if filepath.Ext(path) == ".dmg" {
			return exec.CommandContext(ctx, "hdiutil", "attach", path)
		}
	}
	return exec.CommandContext(ctx, path)
}

func (c *Client) get(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		err := fmt.Errorf("download failed with status %s", resp.Status)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}
	return resp.Body, nil
}

func (c *Client) downloadTo(ctx context.Context, url, path string) error {
	body, err := c.get(ctx, url)
	if err != nil {
		return err
	}
	defer body.Close()

	f, err := os.Create(path)
	if err != nil {
		return backoff.Permanent(err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
