package testutil

import (
	"path/filepath"
	"testing"
)

// Isolate redirects every environment-driven location spinflip reads to a
// fresh temporary directory and returns that directory. Color output is
// disabled so rendered text compares byte for byte.
func Isolate(t *testing.T) string {
	t.Helper()

	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(tmp, "state"))
	t.Setenv("SPINFLIP_LOG_FILE", filepath.Join(tmp, "spinflip.log"))
	t.Setenv("NO_COLOR", "1")
	return tmp
}
