package project

import (
	"errors"
	"os"
	"path/filepath"

	"go.trai.ch/zerr"
)

// ConfigName is the file FindConfig looks for.
const ConfigName = "wgslsp.toml"

// FindConfig walks up from startDir to locate wgslsp.toml.
func FindConfig(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, zerr.Wrap(err, "resolve start directory")
	}
	for {
		candidate := filepath.Join(dir, ConfigName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, zerr.With(zerr.Wrap(err, "stat config"), "path", candidate)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// FindRoot returns the directory holding wgslsp.toml, or startDir itself
// when there is none.
func FindRoot(startDir string) (string, error) {
	path, ok, err := FindConfig(startDir)
	if err != nil {
		return "", err
	}
	if ok {
		return filepath.Dir(path), nil
	}
	return filepath.Abs(startDir)
}
