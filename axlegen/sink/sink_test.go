package sink

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{name: "simple", path: "net/conn.go"},
		{name: "nested", path: "a/b/c/d/file.go"},
		{name: "single file", path: "conn.go"},
		{name: "dots in name", path: "net/conn..go"},
		{name: "empty", path: "", wantErr: "empty"},
		{name: "leading slash", path: "/abs/conn.go", wantErr: "absolute paths not allowed"},
		{name: "drive letter", path: "C:/conn.go", wantErr: "absolute paths not allowed"},
		{name: "inner dotdot", path: "net/../conn.go", wantErr: "path traversal not allowed"},
		{name: "leading dotdot", path: "../conn.go", wantErr: "path traversal not allowed"},
		{name: "only dotdot", path: "..", wantErr: "path traversal not allowed"},
		{name: "current dir prefix", path: "./conn.go", wantErr: "not clean"},
		{name: "double slash", path: "net//conn.go", wantErr: "not clean"},
		{name: "trailing slash", path: "net/", wantErr: "not clean"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("ValidatePath(%q) = %v, want nil", tt.path, err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ValidatePath(%q) = %v, want error containing %q", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestMemorySink(t *testing.T) {
	ctx := context.Background()

	t.Run("write and read", func(t *testing.T) {
		s := NewMemorySink()
		if err := s.WriteFile(ctx, "net/conn.go", []byte("package net")); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
		if got := string(s.Get("net/conn.go")); got != "package net" {
			t.Errorf("Get() = %q", got)
		}
		if got := s.Get("missing.go"); got != nil {
			t.Errorf("Get(missing) = %q, want nil", got)
		}
	})

	t.Run("copies content", func(t *testing.T) {
		s := NewMemorySink()
		content := []byte("original")
		if err := s.WriteFile(ctx, "a.go", content); err != nil {
			t.Fatal(err)
		}
		content[0] = 'X'
		got := s.Get("a.go")
		got[1] = 'Y'
		s.Files()["a.go"][2] = 'Z'
		if string(s.Get("a.go")) != "original" {
			t.Errorf("stored content changed to %q", s.Get("a.go"))
		}
	})

	t.Run("paths sorted", func(t *testing.T) {
		s := NewMemorySink()
		for _, p := range []string{"b/z.go", "a.go", "b/a.go"} {
			if err := s.WriteFile(ctx, p, nil); err != nil {
				t.Fatal(err)
			}
		}
		if got := strings.Join(s.Paths(), ","); got != "a.go,b/a.go,b/z.go" {
			t.Errorf("Paths() = %s", got)
		}
		s.Reset()
		if len(s.Files()) != 0 {
			t.Errorf("Files() after Reset = %v", s.Files())
		}
	})

	t.Run("rejects", func(t *testing.T) {
		s := NewMemorySink()
		if err := s.WriteFile(ctx, "../escape.go", nil); err == nil {
			t.Error("WriteFile(../escape.go) succeeded")
		}
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		if err := s.WriteFile(cctx, "a.go", nil); err == nil {
			t.Error("WriteFile with cancelled context succeeded")
		}
	})
}

func TestMemorySink_Concurrent(t *testing.T) {
	s := NewMemorySink()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if err := s.WriteFile(ctx, "f"+strconv.Itoa(i)+".go", []byte("x")); err != nil {
				t.Errorf("WriteFile() error = %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			_ = s.Files()
			_ = s.Paths()
		}()
	}
	wg.Wait()

	if n := len(s.Paths()); n != 50 {
		t.Errorf("len(Paths()) = %d, want 50", n)
	}
}

func TestFilesystemSink(t *testing.T) {
	ctx := context.Background()

	t.Run("creates parents", func(t *testing.T) {
		dir := t.TempDir()
		s := NewFilesystemSink(dir)
		if err := s.WriteFile(ctx, "a/b/conn.go", []byte("nested")); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
		got, err := os.ReadFile(filepath.Join(dir, "a", "b", "conn.go"))
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != "nested" {
			t.Errorf("content = %q", got)
		}
	})

	t.Run("mode", func(t *testing.T) {
		dir := t.TempDir()
		s := NewFilesystemSink(dir)
		s.Mode = 0600
		if err := s.WriteFile(ctx, "conn.go", []byte("x")); err != nil {
			t.Fatal(err)
		}
		info, err := os.Stat(filepath.Join(dir, "conn.go"))
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm() != 0600 {
			t.Errorf("mode = %o, want 600", info.Mode().Perm())
		}

		s.Mode = 0
		if err := s.WriteFile(ctx, "other.go", []byte("x")); err != nil {
			t.Fatal(err)
		}
		info, err = os.Stat(filepath.Join(dir, "other.go"))
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm() != 0644 {
			t.Errorf("default mode = %o, want 644", info.Mode().Perm())
		}
	})

	t.Run("overwrite", func(t *testing.T) {
		dir := t.TempDir()
		s := NewFilesystemSink(dir)
		for _, c := range []string{"first", "second"} {
			if err := s.WriteFile(ctx, "conn.go", []byte(c)); err != nil {
				t.Fatal(err)
			}
		}
		got, _ := os.ReadFile(filepath.Join(dir, "conn.go"))
		if string(got) != "second" {
			t.Errorf("content = %q, want second", got)
		}
	})

	t.Run("no overwrite", func(t *testing.T) {
		dir := t.TempDir()
		s := NewFilesystemSink(dir)
		s.Overwrite = false
		s.SkipUnchanged = false
		if err := s.WriteFile(ctx, "conn.go", []byte("first")); err != nil {
			t.Fatal(err)
		}
		err := s.WriteFile(ctx, "conn.go", []byte("second"))
		if err == nil || !strings.Contains(err.Error(), "already exists") {
			t.Errorf("second WriteFile() = %v, want already exists", err)
		}
		assertNoTemps(t, dir)
	})

	t.Run("skip unchanged", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "conn.go")
		s := NewFilesystemSink(dir)
		if err := s.WriteFile(ctx, "conn.go", []byte("same")); err != nil {
			t.Fatal(err)
		}
		old := time.Now().Add(-time.Hour).Truncate(time.Second)
		if err := os.Chtimes(path, old, old); err != nil {
			t.Fatal(err)
		}
		if err := s.WriteFile(ctx, "conn.go", []byte("same")); err != nil {
			t.Fatal(err)
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if !info.ModTime().Equal(old) {
			t.Errorf("unchanged file was rewritten: mtime %v, want %v", info.ModTime(), old)
		}
	})

	t.Run("rejects escape", func(t *testing.T) {
		s := NewFilesystemSink(t.TempDir())
		if err := s.WriteFile(ctx, "../escape.go", nil); err == nil {
			t.Error("WriteFile(../escape.go) succeeded")
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		dir := t.TempDir()
		s := NewFilesystemSink(dir)
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		if err := s.WriteFile(cctx, "conn.go", nil); err == nil {
			t.Error("WriteFile with cancelled context succeeded")
		}
		if _, err := os.Stat(filepath.Join(dir, "conn.go")); !os.IsNotExist(err) {
			t.Errorf("file written despite cancellation: %v", err)
		}
	})
}

func TestFilesystemSink_Concurrent(t *testing.T) {
	dir := t.TempDir()
	s := NewFilesystemSink(dir)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.WriteFile(ctx, "net/f"+strconv.Itoa(i)+".go", []byte("x")); err != nil {
				t.Errorf("WriteFile() error = %v", err)
			}
		}()
	}
	wg.Wait()

	entries, err := os.ReadDir(filepath.Join(dir, "net"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 20 {
		t.Errorf("got %d files, want 20", len(entries))
	}
}

func TestStaleSink(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	fs := NewFilesystemSink(dir)
	if err := fs.WriteFile(ctx, "same.go", []byte("same")); err != nil {
		t.Fatal(err)
	}
	if err := fs.WriteFile(ctx, "old.go", []byte("old")); err != nil {
		t.Fatal(err)
	}

	s := NewStaleSink(dir)
	for path, content := range map[string]string{"same.go": "same", "old.go": "new", "net/missing.go": "x"} {
		if err := s.WriteFile(ctx, path, []byte(content)); err != nil {
			t.Fatalf("WriteFile(%s) error = %v", path, err)
		}
	}
	if got := strings.Join(s.Stale(), ","); got != "net/missing.go,old.go" {
		t.Errorf("Stale() = %s", got)
	}
	if _, err := os.Stat(filepath.Join(dir, "net")); !os.IsNotExist(err) {
		t.Error("StaleSink created a directory")
	}
	got, _ := os.ReadFile(filepath.Join(dir, "old.go"))
	if string(got) != "old" {
		t.Errorf("StaleSink modified old.go: %q", got)
	}
}

func assertNoTemps(t *testing.T, dir string) {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, ".axlegen-*.tmp"))
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) > 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}
