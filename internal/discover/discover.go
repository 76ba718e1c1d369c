// Package discover finds model files.
//
// Each input may be a file, a directory (searched recursively for the
// default patterns) or a doublestar glob such as "api/**/*.axle.yaml".
// Results are deduplicated by absolute path and sorted.
package discover

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cockroachdb/errors"
)

// DefaultPatterns returns the file patterns searched inside directories.
func DefaultPatterns() []string {
	return []string{"*.axle.yaml", "*.axle.yml", "*.axle.json"}
}

// Options configures Find.
type Options struct {
	// Patterns matched inside directories. Defaults to DefaultPatterns().
	Patterns []string

	// Exclude patterns are matched against the slash path relative to the
	// input and against the base name.
	Exclude []string
}

// Find returns the model files matching inputs. A literal file is always
// returned even if it does not match Patterns. A glob matching nothing is
// an error.
func Find(inputs []string, opts Options) ([]string, error) {
	if len(opts.Patterns) == 0 {
		opts.Patterns = DefaultPatterns()
	}
	seen := make(map[string]bool)
	var out []string
	add := func(p string) error {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		if !seen[abs] && !excluded(abs, opts.Exclude) {
			seen[abs] = true
			out = append(out, abs)
		}
		return nil
	}

	for _, in := range inputs {
		if !hasMeta(in) {
			info, err := os.Stat(in)
			if err != nil {
				return nil, errors.Wrapf(err, "model input %s", in)
			}
			if !info.IsDir() {
				if err := add(in); err != nil {
					return nil, err
				}
				continue
			}
			for _, pat := range opts.Patterns {
				matches, err := glob(filepath.Join(in, "**", pat))
				if err != nil {
					return nil, err
				}
				for _, m := range matches {
					if err := add(m); err != nil {
						return nil, err
					}
				}
			}
			continue
		}

		matches, err := glob(in)
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			return nil, errors.WithHint(errors.Newf("no model files match %s", in),
				"patterns are relative to the config file's directory")
		}
		for _, m := range matches {
			if err := add(m); err != nil {
				return nil, err
			}
		}
	}
	slices.Sort(out)
	return out, nil
}

// Dirs returns the distinct directories holding files, sorted.
func Dirs(files []string) []string {
	var dirs []string
	for _, f := range files {
		dirs = append(dirs, filepath.Dir(f))
	}
	slices.Sort(dirs)
	return slices.Compact(dirs)
}

func glob(pattern string) ([]string, error) {
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, errors.Wrapf(err, "glob %s", pattern)
	}
	return matches, nil
}

func hasMeta(p string) bool {
	return strings.ContainsAny(p, "*?[]{")
}

func excluded(abs string, patterns []string) bool {
	slash := filepath.ToSlash(abs)
	base := filepath.Base(abs)
	for _, pat := range patterns {
		pat = filepath.ToSlash(pat)
		if ok, _ := doublestar.Match(pat, base); ok {
			return true
		}
		if ok, _ := doublestar.Match(pat, slash); ok {
			return true
		}
		// Relative patterns match any suffix of the path.
		for i := range len(slash) {
			if slash[i] != '/' {
				continue
			}
			if ok, _ := doublestar.Match(pat, slash[i+1:]); ok {
				return true
			}
		}
	}
	return false
}
