package axlegen

import (
	"context"
	"runtime"

	"go.uber.org/zap"

	"github.com/broady/axle/axlegen/model"
	"github.com/broady/axle/axlegen/provider"
	"github.com/broady/axle/axlegen/sink"
)

// Config holds the configuration for code generation.
type Config struct {
	// Dialect is the dialect id string, e.g. "async" or
	// "rx?suffix=reactive". Empty defers to the model files, then to
	// naming.DefaultDialect.
	Dialect string

	// Header lines are written as comments at the top of every file,
	// before the "Code generated" line. Typically a license notice.
	Header []string

	// StripPackagePrefix is removed from translated import paths to form
	// output paths. With "example.com/" the class example.com/net.Conn is
	// written to net/async/conn.go.
	StripPackagePrefix string

	// Concurrency bounds how many classes are translated at once.
	// Zero means GOMAXPROCS.
	Concurrency int

	// Logger receives dropped-operation reports and progress.
	// Nil disables logging.
	Logger *zap.Logger
}

func (c *Config) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

func (c *Config) concurrency() int {
	if c.Concurrency > 0 {
		return c.Concurrency
	}
	return runtime.GOMAXPROCS(0)
}

// Generator provides a fluent API for code generation.
// Create with FromClasses or FromFiles and configure with method chaining.
//
// Example:
//
//	axlegen.FromFiles("model/net.yaml").
//	    Dialect("async").
//	    StripPackagePrefix("example.com/").
//	    ToDir("./gen")
type Generator struct {
	classes []*model.Class
	paths   []string
	cfg     Config
}

// FromClasses creates a Generator for classes built in code. The classes
// are normalized and validated before translation.
func FromClasses(classes ...*model.Class) *Generator {
	return &Generator{classes: classes}
}

// FromFiles creates a Generator reading the given model files.
func FromFiles(paths ...string) *Generator {
	return &Generator{paths: paths}
}

// Dialect sets the dialect id string.
func (g *Generator) Dialect(id string) *Generator {
	g.cfg.Dialect = id
	return g
}

// Header adds comment lines to the top of every generated file.
func (g *Generator) Header(lines ...string) *Generator {
	g.cfg.Header = append(g.cfg.Header, lines...)
	return g
}

// StripPackagePrefix sets the prefix removed from output paths.
func (g *Generator) StripPackagePrefix(prefix string) *Generator {
	g.cfg.StripPackagePrefix = prefix
	return g
}

// Concurrency bounds parallel class translation.
func (g *Generator) Concurrency(n int) *Generator {
	g.cfg.Concurrency = n
	return g
}

// WithLogger sets the logger.
func (g *Generator) WithLogger(l *zap.Logger) *Generator {
	g.cfg.Logger = l
	return g
}

// WithConfig replaces the whole configuration.
func (g *Generator) WithConfig(cfg Config) *Generator {
	g.cfg = cfg
	return g
}

// ToDir generates files into dir. Files whose content is unchanged are
// left alone.
func (g *Generator) ToDir(dir string) (*Result, error) {
	return g.ToSink(context.Background(), sink.NewFilesystemSink(dir))
}

// ToSink generates files into s.
func (g *Generator) ToSink(ctx context.Context, s sink.OutputSink) (*Result, error) {
	classes, dialect, err := g.load(ctx)
	if err != nil {
		return nil, err
	}
	cfg := g.cfg
	if cfg.Dialect == "" {
		cfg.Dialect = dialect
	}
	return Generate(ctx, classes, &cfg, s)
}

// Generate returns generated files in memory without writing to disk.
func (g *Generator) Generate(ctx context.Context) (*Result, *sink.MemorySink, error) {
	mem := sink.NewMemorySink()
	res, err := g.ToSink(ctx, mem)
	if err != nil {
		return nil, nil, err
	}
	return res, mem, nil
}

func (g *Generator) load(ctx context.Context) ([]*model.Class, string, error) {
	classes := g.classes
	var dialect string
	if len(g.paths) > 0 {
		p := &provider.FileProvider{}
		m, err := p.BuildModel(ctx, provider.FileInputOptions{Paths: g.paths})
		if err != nil {
			return nil, "", err
		}
		classes = append(classes[:len(classes):len(classes)], m.Classes...)
		dialect = m.Dialect
	}
	return classes, dialect, nil
}
