package naming

import (
	"path"
	"slices"
	"strconv"
	"strings"
)

// Import is one import spec of a generated file.
type Import struct {
	Path string

	// Name is the explicit import name, empty when the package is
	// referred to by its default name.
	Name string
}

// ImportSet assigns a unique local name to every package a generated file
// refers to. Names never collide with the file's own package name or with
// names reserved through Reserve.
type ImportSet struct {
	self     string
	byPath   map[string]string
	byName   map[string]string
	reserved map[string]bool
}

// NewImportSet returns an empty set for a file in package selfPath.
func NewImportSet(selfPath string) *ImportSet {
	s := &ImportSet{
		self:     selfPath,
		byPath:   make(map[string]string),
		byName:   make(map[string]string),
		reserved: make(map[string]bool),
	}
	s.reserved[PackageName(selfPath)] = true
	return s
}

// Reserve marks identifiers as unavailable for import names.
// It has no effect on imports already added.
func (s *ImportSet) Reserve(names ...string) {
	for _, n := range names {
		s.reserved[n] = true
	}
}

// Add registers importPath and returns the qualifier to use for it.
// The file's own package needs no qualifier and yields "".
func (s *ImportSet) Add(importPath string) string {
	if importPath == "" || importPath == s.self {
		return ""
	}
	if name, ok := s.byPath[importPath]; ok {
		return name
	}
	name := s.pick(importPath)
	s.byPath[importPath] = name
	s.byName[name] = importPath
	return name
}

func (s *ImportSet) pick(importPath string) string {
	base := PackageName(importPath)
	free := func(n string) bool { return !s.reserved[n] && s.byName[n] == "" }
	if free(base) {
		return base
	}
	if parent := path.Dir(importPath); parent != "." && parent != "/" {
		if n := PackageName(parent) + base; free(n) {
			return n
		}
	}
	for i := 2; ; i++ {
		if n := base + strconv.Itoa(i); free(n) {
			return n
		}
	}
}

// Qualify returns the reference to name declared in importPath, adding the
// import if needed.
func (s *ImportSet) Qualify(importPath, name string) string {
	if q := s.Add(importPath); q != "" {
		return q + "." + name
	}
	return name
}

// Names returns every local name in use, including reserved ones.
func (s *ImportSet) Names() []string {
	out := make([]string, 0, len(s.byName))
	for n := range s.byName {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

// Imports returns the import specs sorted by path.
func (s *ImportSet) Imports() []Import {
	out := make([]Import, 0, len(s.byPath))
	for p, name := range s.byPath {
		imp := Import{Path: p}
		if name != PackageName(p) || strings.ContainsAny(path.Base(p), ".-") {
			imp.Name = name
		}
		out = append(out, imp)
	}
	slices.SortFunc(out, func(a, b Import) int { return strings.Compare(a.Path, b.Path) })
	return out
}
