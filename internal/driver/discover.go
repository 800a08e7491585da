package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// Discover lists the *.py files under dir, sorted, minus excluded paths.
// Only the top level is listed when the session is not recursive.
func (s *Session) Discover(dir string) ([]string, error) {
	pattern := "*.py"
	if s.Recursive {
		pattern = "**/*.py"
	}
	matches, err := doublestar.Glob(os.DirFS(dir), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", dir, err)
	}

	files := make([]string, 0, len(matches))
	for _, m := range matches {
		path := filepath.Join(dir, filepath.FromSlash(m))
		if s.Config != nil && s.Config.IsExcluded(path) {
			continue
		}
		files = append(files, path)
	}
	sort.Strings(files)
	return files, nil
}
