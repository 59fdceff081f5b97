package build

import (
	"errors"
	"strings"

	"skinforge"
)

// ErrSkinPathRequired is returned for a blank or whitespace-only skin path.
// It fails a run before any worker process is spawned.
var ErrSkinPathRequired = errors.New("skin folder is required")

// BuildArgs turns a task configuration into the worker's CLI argument list.
//
// The list always starts with "patch <skinPath>". Optional arguments follow
// in a fixed order for reproducibility: --bundle, --debug-export, --dry-run.
func BuildArgs(cfg skinforge.TaskConfig) ([]string, error) {
	skin := strings.TrimSpace(cfg.SkinPath)
	if skin == "" {
		return nil, ErrSkinPathRequired
	}

	args := []string{"patch", skin}

	if bundles := strings.TrimSpace(cfg.BundlesPath); bundles != "" {
		args = append(args, "--bundle", bundles)
	}
	if cfg.DebugExport {
		args = append(args, "--debug-export")
	}
	if cfg.DryRun {
		args = append(args, "--dry-run")
	}

	return args, nil
}
