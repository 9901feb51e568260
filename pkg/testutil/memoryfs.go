package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
)

// MemFS returns an in-memory filesystem holding files, keyed by path
func MemFS(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()

	fs := afero.NewMemMapFs()
	for path, content := range files {
		WriteFile(t, fs, path, content)
	}
	return fs
}

// WriteFile creates path with content, making parent directories as needed.
// It fails the test if the file cannot be written.
func WriteFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()

	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create parent directories for %s: %v", path, err)
	}
	if err := afero.WriteFile(fs, path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create file %s: %v", path, err)
	}
}

// CreateFile writes content to name inside dir on the real filesystem and
// returns the full path.
func CreateFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	WriteFile(t, afero.NewOsFs(), path, content)
	return path
}

// ReadFile returns the content of path or fails the test
func ReadFile(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(data)
}

// Exists reports whether path exists on fs
func Exists(fs afero.Fs, path string) bool {
	_, err := fs.Stat(path)
	return err == nil || !os.IsNotExist(err)
}
