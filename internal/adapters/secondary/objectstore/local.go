package objectstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	ports "neurotrack-ml/internal/core/ports/output"
)

// localStore registers artifacts in place and returns file:// URIs. It is
// meant for offline runs against the Postgres registry.
type localStore struct{}

func NewLocalStore() ports.ArtifactStore {
	return localStore{}
}

func (localStore) Upload(_ context.Context, localDir, _ string) (string, error) {
	if _, err := listFiles(localDir); err != nil {
		return "", err
	}
	abs, err := filepath.Abs(localDir)
	if err != nil {
		return "", fmt.Errorf("resolve artifact dir: %w", err)
	}
	return "file://" + filepath.ToSlash(abs), nil
}

func listFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk artifact dir: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("artifact dir %s is empty", dir)
	}
	return files, nil
}
