package discover

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tree(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("version: \"1\"\n"), 0o644))
	}
	return root
}

func rel(t *testing.T, root string, paths []string) []string {
	t.Helper()
	out := make([]string, len(paths))
	for i, p := range paths {
		r, err := filepath.Rel(root, p)
		require.NoError(t, err)
		out[i] = filepath.ToSlash(r)
	}
	return out
}

func TestFind(t *testing.T) {
	root := tree(t,
		"net.axle.yaml",
		"api/http.axle.yml",
		"api/v2/stream.axle.json",
		"api/notes.yaml",
		"vendor/dep.axle.yaml",
	)

	tests := []struct {
		name    string
		inputs  []string
		opts    Options
		want    []string
		wantErr bool
	}{
		{
			name:   "directory",
			inputs: []string{root},
			want:   []string{"api/http.axle.yml", "api/v2/stream.axle.json", "net.axle.yaml", "vendor/dep.axle.yaml"},
		},
		{
			name:   "literal file outside patterns",
			inputs: []string{filepath.Join(root, "api/notes.yaml")},
			want:   []string{"api/notes.yaml"},
		},
		{
			name:   "glob",
			inputs: []string{filepath.Join(root, "api/**/*.y*ml")},
			want:   []string{"api/http.axle.yml", "api/notes.yaml"},
		},
		{
			name:   "deduplicated",
			inputs: []string{root, filepath.Join(root, "net.axle.yaml")},
			want:   []string{"api/http.axle.yml", "api/v2/stream.axle.json", "net.axle.yaml", "vendor/dep.axle.yaml"},
		},
		{
			name:   "exclude",
			inputs: []string{root},
			opts:   Options{Exclude: []string{"vendor/**", "*.json"}},
			want:   []string{"api/http.axle.yml", "net.axle.yaml"},
		},
		{
			name:   "custom patterns",
			inputs: []string{root},
			opts:   Options{Patterns: []string{"*.yaml"}},
			want:   []string{"api/notes.yaml", "net.axle.yaml", "vendor/dep.axle.yaml"},
		},
		{
			name:    "missing file",
			inputs:  []string{filepath.Join(root, "nope.yaml")},
			wantErr: true,
		},
		{
			name:    "glob without matches",
			inputs:  []string{filepath.Join(root, "**/*.toml")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Find(tt.inputs, tt.opts)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, rel(t, root, got))
		})
	}
}

func TestDirs(t *testing.T) {
	got := Dirs([]string{"/m/a/x.yaml", "/m/b/y.yaml", "/m/a/z.yaml"})
	assert.Equal(t, []string{filepath.FromSlash("/m/a"), filepath.FromSlash("/m/b")}, got)
}
