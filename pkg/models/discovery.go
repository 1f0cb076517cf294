package models

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ModelFile represents a discovered model file
type ModelFile struct {
	FilePath string
	Content  []byte
}

// DiscoverPaths walks the configured paths and returns all model files.
// Missing directories are skipped.
func DiscoverPaths(paths []string) ([]ModelFile, error) {
	var files []ModelFile

	for _, basePath := range paths {
		discovered, err := discoverInPath(basePath)
		if err != nil {
			return nil, fmt.Errorf("failed to discover models in %s: %w", basePath, err)
		}
		files = append(files, discovered...)
	}

	return files, nil
}

func discoverInPath(basePath string) ([]ModelFile, error) {
	var files []ModelFile

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

		if strings.ToLower(filepath.Ext(path)) != ".sql" {
			return nil
		}

		content, readErr := os.ReadFile(path) //nolint:gosec // Paths come from project configuration
		if readErr != nil {
			return readErr
		}

		files = append(files, ModelFile{FilePath: path, Content: content})

		return nil
	})

	return files, err
}
