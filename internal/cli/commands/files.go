package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// sourceExt is the extension of MATLAB and Octave source files
const sourceExt = ".m"

// findSourceFiles expands the command line arguments into .m files.
// Directories are walked recursively, skipping hidden directories; other
// arguments are treated as glob patterns. With no arguments the working
// directory is searched.
func findSourceFiles(patterns []string) ([]string, error) {
	var files []string

	if len(patterns) == 0 {
		patterns = []string{"."}
	}

	for _, pattern := range patterns {
		info, err := os.Stat(pattern)
		if err == nil && info.IsDir() {
			var found []string
			err := filepath.WalkDir(pattern, func(path string, d os.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if d.IsDir() {
					if path != pattern && strings.HasPrefix(d.Name(), ".") {
						return filepath.SkipDir
					}
					return nil
				}
				if strings.HasSuffix(path, sourceExt) {
					found = append(found, path)
				}
				return nil
			})
			if err != nil {
				return nil, fmt.Errorf("failed to walk %s: %w", pattern, err)
			}
			sort.Strings(found)
			files = append(files, found...)
			continue
		}

		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			// keep it, so the batch reports the missing file
			matches = []string{pattern}
		}
		for _, match := range matches {
			if strings.HasSuffix(match, sourceExt) {
				files = append(files, match)
			}
		}
	}

	// Remove duplicates
	seen := make(map[string]bool)
	unique := []string{}
	for _, file := range files {
		if !seen[file] {
			seen[file] = true
			unique = append(unique, file)
		}
	}

	return unique, nil
}
