package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Signature identifies a source file revision by path, size and
// modification time. Two runs over files with equal signatures read the
// same snapshot.
type Signature struct {
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// Stat returns the signature of the file at path.
func Stat(path string) (Signature, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Signature{}, fmt.Errorf("resolve %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return Signature{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return Signature{}, fmt.Errorf("stat %s: is a directory", path)
	}
	return Signature{Path: abs, Size: info.Size(), ModTime: info.ModTime().UTC()}, nil
}

// Key is a stable string form used to look up prior runs.
func (s Signature) Key() string {
	return fmt.Sprintf("%s|%d|%d", s.Path, s.Size, s.ModTime.UnixNano())
}
