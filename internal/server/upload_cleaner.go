package server

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// localUploadCleaner removes blobs stored on the local filesystem. A file
// reference is a path relative to the uploads dir; anything that escapes the
// dir is refused.
type localUploadCleaner struct {
	baseDir string
}

func newLocalUploadCleaner(baseDir string) *localUploadCleaner {
	return &localUploadCleaner{baseDir: baseDir}
}

func (c *localUploadCleaner) DeleteRef(_ context.Context, ref string) error {
	ref = strings.TrimPrefix(strings.TrimSpace(ref), "uploads/")
	if ref == "" {
		return nil
	}
	cleaned := filepath.Clean(ref)
	if filepath.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return errors.New("upload: ref escapes uploads dir")
	}
	err := os.Remove(filepath.Join(c.baseDir, cleaned))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
