package source_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/numbaa/learn-plt/pkg/source"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "prog.fs", "a = 1\nprint a\n")

	data, err := source.NewLoader("", 0).Load(path)
	require.NoError(t, err)
	assert.Equal(t, "a = 1\nprint a\n", string(data))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := source.NewLoader("", 0).Load(filepath.Join(t.TempDir(), "nope.fs"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "source: read")
}

func TestSizeLimit(t *testing.T) {
	dir := t.TempDir()
	exact := writeFile(t, dir, "exact.fs", "print 1")
	big := writeFile(t, dir, "big.fs", "print 12")

	loader := source.NewLoader("", len("print 1"))

	_, err := loader.Load(exact)
	require.NoError(t, err)

	_, err = loader.Load(big)
	assert.ErrorIs(t, err, source.ErrFileTooLarge)
}

func TestInvalidUTF8(t *testing.T) {
	_, err := source.NewLoader("", 0).Read(strings.NewReader("print \xff"), "bad")
	assert.ErrorIs(t, err, source.ErrInvalidUTF8)

	data, err := source.NewLoader("", 0).Read(strings.NewReader("größe = 1"), "ok")
	require.NoError(t, err)
	assert.Equal(t, "größe = 1", string(data))
}

func TestRootJail(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sub/prog.fs", "print 2")
	loader := source.NewLoader(dir, 0)

	data, err := loader.Load("sub/prog.fs")
	require.NoError(t, err)
	assert.Equal(t, "print 2", string(data))

	_, err = loader.Load("../../etc/passwd")
	assert.ErrorIs(t, err, source.ErrPathEscape)
}
