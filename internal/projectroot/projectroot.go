package projectroot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Markers identify a project root, checked in order in every directory.
var Markers = []string{"featureprobe.yaml", "featureprobe.yml", "featureprobe.toml", "go.mod", ".git"}

// Find walks up from start to the nearest directory holding one of Markers.
// Without any marker the absolute start directory is the root.
func Find(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving %q: %w", start, err)
	}

	for dir := abs; ; {
		for _, m := range Markers {
			if _, err := os.Stat(filepath.Join(dir, m)); err == nil {
				return dir, nil
			} else if !errors.Is(err, os.ErrNotExist) {
				return "", fmt.Errorf("failed to stat %q: %w", filepath.Join(dir, m), err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return abs, nil
		}
		dir = parent
	}
}
