// Package source loads program text from disk.
package source

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

var (
	ErrPathEscape   = errors.New("source: path escapes root")
	ErrFileTooLarge = errors.New("source: file size limit exceeded")
	ErrInvalidUTF8  = errors.New("source: file is not valid UTF-8")
)

// DefaultMaxBytes is the size limit used when Loader.MaxBytes is 0.
const DefaultMaxBytes = 1 << 20

// Loader reads source files. When Root is set, relative paths are resolved
// under it and may not leave it.
type Loader struct {
	Root     string
	MaxBytes int
}

func NewLoader(root string, maxBytes int) *Loader {
	if root != "" {
		if abs, err := filepath.Abs(root); err == nil {
			root = abs
		}
	}
	return &Loader{Root: root, MaxBytes: maxBytes}
}

func (l *Loader) resolve(path string) (string, error) {
	if l.Root == "" {
		return path, nil
	}
	clean := filepath.Join(l.Root, filepath.Clean(path))
	if clean != l.Root && !strings.HasPrefix(clean, l.Root+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrPathEscape, path)
	}
	return clean, nil
}

// Load returns the contents of path.
func (l *Loader) Load(path string) ([]byte, error) {
	resolved, err := l.resolve(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(resolved)
	if err != nil {
		return nil, fmt.Errorf("source: read %s: %w", path, err)
	}
	defer f.Close()
	return l.Read(f, path)
}

// Read reads at most MaxBytes from r. name is only used in messages.
func (l *Loader) Read(r io.Reader, name string) ([]byte, error) {
	limit := l.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	// One extra byte tells an exact fit apart from an oversized file.
	data, err := io.ReadAll(io.LimitReader(r, int64(limit)+1))
	if err != nil {
		return nil, fmt.Errorf("source: read %s: %w", name, err)
	}
	if len(data) > limit {
		return nil, fmt.Errorf("%w: %s is larger than %d bytes", ErrFileTooLarge, name, limit)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidUTF8, name)
	}
	return data, nil
}
