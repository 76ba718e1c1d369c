// Package axlegen generates future-returning wrappers for callback-style Go
// APIs. Each class of the model becomes one Go file in the translated
// package selected by the dialect.
package axlegen

import (
	"context"
	"path"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/broady/axle/axlegen/gosrc"
	"github.com/broady/axle/axlegen/model"
	"github.com/broady/axle/axlegen/naming"
	"github.com/broady/axle/axlegen/resolve"
	"github.com/broady/axle/axlegen/sink"
	"github.com/broady/axle/axlegen/synth"
	"github.com/broady/axle/internal/runner"
)

// Result reports what a generation run produced.
type Result struct {
	// Files maps each class's qualified name to its output path.
	Files map[string]string

	// Dropped lists operations removed by override resolution, sorted by
	// class.
	Dropped []DroppedOp
}

// DroppedOp is one operation removed from a class.
type DroppedOp struct {
	Class string
	resolve.Dropped
}

func (d DroppedOp) String() string {
	return d.Class + ": " + d.Dropped.String()
}

// Paths returns the output paths in sorted order.
func (r *Result) Paths() []string {
	out := make([]string, 0, len(r.Files))
	for _, p := range r.Files {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// Generate translates every class and writes one file per class to s.
// Classes are normalized and validated first, then synthesized and
// rendered concurrently. Files are written only once every class has
// rendered, so a model error or unsupported conversion leaves s untouched.
func Generate(ctx context.Context, classes []*model.Class, cfg *Config, s sink.OutputSink) (*Result, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	log := cfg.logger()

	d, err := naming.ParseDialect(cfg.Dialect)
	if err != nil {
		return nil, err
	}
	if err := check(classes); err != nil {
		return nil, err
	}

	paths := make([]string, len(classes))
	owners := make(map[string]string, len(classes))
	for i, c := range classes {
		p, err := OutputPath(d, c, cfg.StripPackagePrefix)
		if err != nil {
			return nil, err
		}
		if prev, ok := owners[p]; ok {
			return nil, errors.Newf("%s and %s both map to %s", prev, c.QualifiedName(), p)
		}
		owners[p] = c.QualifiedName()
		paths[i] = p
	}

	syn := synth.New(d, cfg.Header...)
	outs := make([]*synth.Result, len(classes))
	srcs := make([][]byte, len(classes))

	log.Debug("generating", zap.Stringer("dialect", d), zap.Int("classes", len(classes)))
	err = runner.Run(ctx, len(classes), runner.Options{Limit: cfg.concurrency()}, func(ctx context.Context, i int) error {
		c := classes[i]
		out, err := syn.Synthesize(c)
		if err != nil {
			return err
		}
		src, err := gosrc.Render(paths[i], out.File)
		if err != nil {
			return errors.Wrapf(err, "render %s", c.QualifiedName())
		}
		outs[i], srcs[i] = out, src
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Every class rendered, so the run can no longer fail on the model.
	res := &Result{Files: make(map[string]string, len(classes))}
	for i, c := range classes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := s.WriteFile(ctx, paths[i], srcs[i]); err != nil {
			return nil, errors.Wrapf(err, "write %s", paths[i])
		}
		log.Debug("wrote class", zap.String("class", c.QualifiedName()), zap.String("path", paths[i]))

		res.Files[c.QualifiedName()] = paths[i]
		for _, dr := range outs[i].Dropped {
			log.Warn("dropped operation",
				zap.String("class", c.QualifiedName()),
				zap.String("op", dr.Op.Name),
				zap.Int("params", len(dr.Op.Params)),
				zap.Stringer("reason", dr.Reason),
				zap.String("by", dr.By.Name))
			res.Dropped = append(res.Dropped, DroppedOp{Class: c.QualifiedName(), Dropped: dr})
		}
	}
	slices.SortStableFunc(res.Dropped, func(a, b DroppedOp) int { return strings.Compare(a.Class, b.Class) })
	return res, nil
}

// Check normalizes, validates and resolves classes without synthesizing
// anything. It returns the operations that resolution would drop.
func Check(classes []*model.Class) ([]DroppedOp, error) {
	if err := check(classes); err != nil {
		return nil, err
	}
	var dropped []DroppedOp
	for _, c := range classes {
		for _, dr := range resolve.Resolve(c).Dropped {
			dropped = append(dropped, DroppedOp{Class: c.QualifiedName(), Dropped: dr})
		}
	}
	return dropped, nil
}

func check(classes []*model.Class) error {
	var problems model.ModelErrors
	for _, c := range classes {
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

// OutputPath returns the slash-separated path of the file holding class c:
// the translated package with prefix removed, then the snake_case class
// name.
func OutputPath(d *naming.Dialect, c *model.Class, prefix string) (string, error) {
	dir := d.Translate(c.Package)
	if prefix != "" {
		dir = strings.TrimPrefix(dir, prefix)
	}
	p := path.Join(strings.TrimLeft(dir, "/"), naming.SnakeCase(c.Name)+".go")
	if err := sink.ValidatePath(p); err != nil {
		return "", errors.Wrapf(err, "output path of %s", c.QualifiedName())
	}
	return p, nil
}
