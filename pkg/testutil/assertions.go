package testutil

import (
	"testing"

	"github.com/spf13/afero"
)

// AssertFileContent checks that path exists on fs with exactly want
func AssertFileContent(t *testing.T, fs afero.Fs, path, want string) {
	t.Helper()

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		t.Errorf("Expected file %s to exist: %v", path, err)
		return
	}
	if string(data) != want {
		t.Errorf("File %s content mismatch\nExpected: %q\nActual:   %q", path, want, string(data))
	}
}

// AssertNoFile checks that path does not exist on fs
func AssertNoFile(t *testing.T, fs afero.Fs, path string) {
	t.Helper()

	if Exists(fs, path) {
		t.Errorf("Expected %s not to exist", path)
	}
}
