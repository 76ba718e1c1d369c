// Package naming maps delegate packages and types to their translated Go
// names, and keeps track of the imports a generated file needs.
package naming

import (
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gorilla/schema"
)

// DefaultRuntime is the import path of the package emitted code depends on.
const DefaultRuntime = "github.com/broady/axle"

// DefaultDialect is used when no dialect id is configured.
const DefaultDialect = "async"

var (
	dialectDecoder = schema.NewDecoder()
	dialectID      = regexp.MustCompile(`^[a-z][a-z0-9]*$`)
)

func init() {
	dialectDecoder.IgnoreUnknownKeys(false)
}

// Dialect selects how delegate packages translate to wrapped packages.
// It is configured with a string of the form
//
//	id[?suffix=dir&runtime=path&map=from=to&map=from=to]
//
// where id names the flavor and doubles as the default sub-package the
// wrapped code is written to.
type Dialect struct {
	ID string `schema:"-"`

	// Suffix is the path element appended to a delegate package.
	// Defaults to ID.
	Suffix string `schema:"suffix"`

	// Runtime overrides the runtime import path.
	Runtime string `schema:"runtime"`

	// Map lists explicit "from=to" package translations.
	Map []string `schema:"map"`

	mapping map[string]string
}

// ParseDialect parses a dialect id string. An empty string selects
// DefaultDialect.
func ParseDialect(s string) (*Dialect, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		s = DefaultDialect
	}
	id, query, _ := strings.Cut(s, "?")
	if !dialectID.MatchString(id) {
		return nil, errors.Newf("dialect %q: id must be a lower-case identifier", s)
	}
	d := &Dialect{ID: id}
	if query != "" {
		values, err := url.ParseQuery(query)
		if err != nil {
			return nil, errors.Wrapf(err, "dialect %q", s)
		}
		if err := dialectDecoder.Decode(d, values); err != nil {
			return nil, errors.Wrapf(err, "dialect %q", s)
		}
	}
	if d.Suffix == "" {
		d.Suffix = id
	}
	if d.Runtime == "" {
		d.Runtime = DefaultRuntime
	}
	d.mapping = make(map[string]string, len(d.Map))
	for _, m := range d.Map {
		from, to, ok := strings.Cut(m, "=")
		if !ok || from == "" || to == "" {
			return nil, errors.Newf("dialect %q: map entry %q must be from=to", s, m)
		}
		d.mapping[from] = to
	}
	return d, nil
}

// MustParseDialect is like ParseDialect but panics on error.
func MustParseDialect(s string) *Dialect {
	d, err := ParseDialect(s)
	if err != nil {
		panic(err)
	}
	return d
}

// String returns the canonical form of the dialect.
func (d *Dialect) String() string {
	values := url.Values{}
	if d.Suffix != d.ID {
		values.Set("suffix", d.Suffix)
	}
	if d.Runtime != DefaultRuntime {
		values.Set("runtime", d.Runtime)
	}
	for _, m := range d.Map {
		values.Add("map", m)
	}
	if len(values) == 0 {
		return d.ID
	}
	return d.ID + "?" + values.Encode()
}

// Translate returns the import path of the wrapped package for a delegate
// package.
func (d *Dialect) Translate(delegatePkg string) string {
	if to, ok := d.mapping[delegatePkg]; ok {
		return to
	}
	return path.Join(delegatePkg, d.Suffix)
}
