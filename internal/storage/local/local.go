package local

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store deletes product images from a local directory. Image references are
// paths relative to the base directory.
type Store struct {
	baseDir string
}

// New creates a local image store rooted at baseDir.
func New(baseDir string) *Store {
	return &Store{baseDir: filepath.Clean(baseDir)}
}

// Delete removes the file the ref points to. Refs that are remote URLs (images
// of externally imported products) or that do not resolve to an existing file
// are ignored. Refs escaping the base directory are rejected.
func (s *Store) Delete(_ context.Context, ref string) error {
	if ref == "" || strings.Contains(ref, "://") {
		return nil
	}

	path := filepath.Join(s.baseDir, ref)
	if !strings.HasPrefix(path, s.baseDir+string(os.PathSeparator)) {
		return fmt.Errorf("image ref %q escapes storage directory", ref)
	}

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("remove image %q: %w", ref, err)
	}

	return nil
}
