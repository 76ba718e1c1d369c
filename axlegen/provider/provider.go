// Package provider loads class models from YAML and JSON model files.
// Providers produce normalized, validated classes that the synthesizer
// consumes; they never inspect Go source.
package provider

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/cockroachdb/errors"
	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/broady/axle/axlegen/model"
)

// SupportedVersions is the constraint every model file version must meet.
const SupportedVersions = "^1"

// File is the on-disk layout of a model file.
type File struct {
	// Version is the semantic version of the model format.
	Version string `yaml:"version" json:"version"`

	// Dialect optionally names the dialect the classes are meant for.
	// An empty value defers to the generator configuration.
	Dialect string `yaml:"dialect,omitempty" json:"dialect,omitempty"`

	Classes []*model.Class `yaml:"classes" json:"classes"`
}

// Model is the merged content of every loaded file.
type Model struct {
	// Classes in file order, then declaration order.
	Classes []*model.Class

	// Dialect is the dialect declared by the files, if any.
	Dialect string

	// Sources maps each class's qualified name to the file declaring it.
	Sources map[string]string
}

// FileProvider reads model files from disk.
type FileProvider struct{}

// FileInputOptions configures FileProvider.
type FileInputOptions struct {
	// Paths are the model files to load, in order.
	Paths []string
}

// BuildModel loads, normalizes and validates every file in opts.Paths.
// Validation errors across all classes are reported together.
func (p *FileProvider) BuildModel(ctx context.Context, opts FileInputOptions) (*Model, error) {
	if len(opts.Paths) == 0 {
		return nil, errors.New("no model files")
	}
	m := &Model{Sources: make(map[string]string)}
	var problems model.ModelErrors
	for _, path := range opts.Paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f, err := Load(path)
		if err != nil {
			return nil, err
		}
		if err := m.add(path, f); err != nil {
			var merrs model.ModelErrors
			if !errors.As(err, &merrs) {
				return nil, err
			}
			problems = append(problems, merrs...)
		}
	}
	if len(problems) > 0 {
		return nil, problems
	}
	return m, nil
}

func (m *Model) add(path string, f *File) error {
	if f.Dialect != "" {
		if m.Dialect != "" && m.Dialect != f.Dialect {
			return errors.Newf("%s: dialect %q conflicts with %q", path, f.Dialect, m.Dialect)
		}
		m.Dialect = f.Dialect
	}
	var problems model.ModelErrors
	for _, c := range f.Classes {
		qn := c.QualifiedName()
		if prev, ok := m.Sources[qn]; ok {
			problems = append(problems, &model.ModelError{Class: qn, Reason: "already declared in " + prev})
			continue
		}
		m.Sources[qn] = path
		m.Classes = append(m.Classes, c)
	}
	if len(problems) > 0 {
		return problems
	}
	return nil
}

// Load reads and checks one model file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read model")
	}
	f, err := Decode(path, data)
	if err != nil {
		return nil, err
	}
	if err := f.Check(); err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return f, nil
}

// Decode parses data according to the extension of name: ".json" selects
// JSON, anything else YAML. Unknown fields are rejected.
func Decode(name string, data []byte) (*File, error) {
	var f File
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, errors.Wrapf(err, "decode %s", name)
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return nil, errors.Wrapf(err, "decode %s", name)
		}
	}
	return &f, nil
}

// Check verifies the format version, then normalizes and validates every
// class. It returns model.ModelErrors when classes are malformed.
func (f *File) Check() error {
	if err := checkVersion(f.Version); err != nil {
		return err
	}
	var problems model.ModelErrors
	for i, c := range f.Classes {
		if c == nil {
			problems = append(problems, &model.ModelError{Field: "classes[" + strconv.Itoa(i) + "]", Reason: "required"})
			continue
		}
		c.Normalize()
		if err := c.Validate(); err != nil {
			var merrs model.ModelErrors
			if !errors.As(err, &merrs) {
				return err
			}
			problems = append(problems, merrs...)
		}
	}
	if len(problems) > 0 {
		return problems
	}
	return nil
}

func checkVersion(v string) error {
	if v == "" {
		return errors.WithHint(errors.New("missing model version"), `add version: "1.0" to the model file`)
	}
	ver, err := semver.NewVersion(v)
	if err != nil {
		return errors.Wrapf(err, "model version %q", v)
	}
	constraint, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return errors.Wrap(err, "supported versions")
	}
	if !constraint.Check(ver) {
		return errors.Newf("model version %s is not supported (want %s)", ver, SupportedVersions)
	}
	return nil
}
