package gen

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/broady/axle/cmd/axlegen/internal/cli"
)

const model = `version: "1.0"
classes:
  - name: Conn
    package: example.com/net
    concrete: true
    operations:
      - name: Close
        params:
          - name: handler
            type:
              kind: handler
              args:
                - kind: async_result
                  args: [{kind: void}]
      - name: Close
`

func workspace(t *testing.T) (string, *cli.Globals) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "conn.axle.yaml"), []byte(model), 0o644))
	cfg := filepath.Join(dir, "axlegen.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("strip-prefix = \"example.com/\"\nout = \"gen\"\n"), 0o644))
	return dir, &cli.Globals{Config: cfg}
}

func TestCmd_Run(t *testing.T) {
	dir, g := workspace(t)
	require.NoError(t, (&Cmd{}).Run(g))

	src, err := os.ReadFile(filepath.Join(dir, "gen", "net", "async", "conn.go"))
	require.NoError(t, err)
	assert.Contains(t, string(src), "func (c *Conn) Close() *axle.Future[struct{}] {")
}

func TestCmd_RunDialectFlag(t *testing.T) {
	dir, g := workspace(t)
	require.NoError(t, (&Cmd{Dialect: "sync"}).Run(g))
	assert.FileExists(t, filepath.Join(dir, "gen", "net", "sync", "conn.go"))
}

func TestOnce_LeavesUnchangedFiles(t *testing.T) {
	dir, g := workspace(t)
	s, err := g.Open(cli.Flags{})
	require.NoError(t, err)

	require.NoError(t, Once(context.Background(), s))
	out := filepath.Join(dir, "gen", "net", "async", "conn.go")
	before, err := os.Stat(out)
	require.NoError(t, err)

	require.NoError(t, Once(context.Background(), s))
	after, err := os.Stat(out)
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime())
}

func TestCmd_RunInvalidModel(t *testing.T) {
	dir, g := workspace(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.axle.yaml"), []byte("version: \"2.0\"\n"), 0o644))
	assert.Error(t, (&Cmd{}).Run(g))
	assert.NoDirExists(t, filepath.Join(dir, "gen"))
}
