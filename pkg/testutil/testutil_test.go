package testutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"

	"github.com/arthur-debert/spinflip/pkg/testutil"
)

func TestMemFS(t *testing.T) {
	fs := testutil.MemFS(t, map[string]string{
		"/work/POSCAR":          "cell\n",
		"/work/nested/dir/data": "x",
	})

	testutil.AssertFileContent(t, fs, "/work/POSCAR", "cell\n")
	assert.Equal(t, "x", testutil.ReadFile(t, fs, "/work/nested/dir/data"))
	assert.True(t, testutil.Exists(fs, "/work/nested"))
	testutil.AssertNoFile(t, fs, "/work/missing")
}

func TestIsolate(t *testing.T) {
	tmp := testutil.Isolate(t)

	assert.Equal(t, filepath.Join(tmp, "config"), os.Getenv("XDG_CONFIG_HOME"))
	assert.Equal(t, filepath.Join(tmp, "spinflip.log"), os.Getenv("SPINFLIP_LOG_FILE"))
	assert.Equal(t, "1", os.Getenv("NO_COLOR"))
}

func TestCreateFile(t *testing.T) {
	dir := t.TempDir()

	path := testutil.CreateFile(t, dir, "sub/spinflip.toml", "[output]\n")
	assert.Equal(t, filepath.Join(dir, "sub", "spinflip.toml"), path)
	testutil.AssertFileContent(t, afero.NewOsFs(), path, "[output]\n")
}
