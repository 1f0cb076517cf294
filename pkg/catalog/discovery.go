package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DatasetFile represents a discovered dataset definition file
type DatasetFile struct {
	FilePath string
	Content  []byte
}

// DiscoverPaths walks the configured paths and returns all dataset
// definition files. Missing directories are skipped so empty projects
// resolve nothing rather than fail.
func DiscoverPaths(paths []string) ([]DatasetFile, error) {
	var files []DatasetFile

	for _, basePath := range paths {
		discovered, err := discoverInPath(basePath)
		if err != nil {
			return nil, fmt.Errorf("failed to discover datasets in %s: %w", basePath, err)
		}
		files = append(files, discovered...)
	}

	return files, nil
}

func discoverInPath(basePath string) ([]DatasetFile, error) {
	var files []DatasetFile

	err := filepath.Walk(basePath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}

		if info.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		content, readErr := os.ReadFile(path) //nolint:gosec // Paths come from project configuration
		if readErr != nil {
			return readErr
		}

		files = append(files, DatasetFile{FilePath: path, Content: content})

		return nil
	})

	return files, err
}
