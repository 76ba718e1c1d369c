package gen

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/broady/axle/axlegen/sink"
	"github.com/broady/axle/cmd/axlegen/internal/cli"
	"github.com/broady/axle/internal/discover"
	"github.com/broady/axle/internal/watch"
)

type Cmd struct {
	Models      []string `arg:"" optional:"" help:"Model files, directories or globs (default: config models)."`
	Out         string   `help:"Output root directory." short:"o" type:"path"`
	Dialect     string   `help:"Dialect id, e.g. async or rx?suffix=reactive." short:"d"`
	StripPrefix string   `help:"Package prefix removed from output paths." name:"strip-prefix"`
	Watch       bool     `help:"Watch model files and regenerate on change." short:"w"`
}

func (c *Cmd) Run(g *cli.Globals) error {
	s, err := g.Open(cli.Flags{
		Models:      c.Models,
		Out:         c.Out,
		Dialect:     c.Dialect,
		StripPrefix: c.StripPrefix,
	})
	if err != nil {
		return err
	}
	defer s.Log.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := Once(ctx, s); err != nil {
		if !c.Watch {
			return err
		}
		s.Log.Error("generate failed", zap.Error(err))
	}
	if !c.Watch {
		return nil
	}

	w, err := watch.New(watch.Options{
		Dirs:   discover.Dirs(s.Files),
		Match:  s.IsModel,
		Logger: s.Log,
	})
	if err != nil {
		return err
	}
	defer w.Close()

	fmt.Fprintln(os.Stderr, "watching for model changes, press Ctrl-C to stop")
	return w.Run(ctx, func(ctx context.Context) error {
		if err := s.Rediscover(); err != nil {
			return err
		}
		return Once(ctx, s)
	})
}

// Once generates every model file of s into the configured output root.
// Unchanged files are not rewritten.
func Once(ctx context.Context, s *cli.Session) error {
	res, err := s.Generator().ToSink(ctx, sink.NewFilesystemSink(s.Config.Out))
	if err != nil {
		return err
	}
	s.Log.Info("generated",
		zap.Int("files", len(res.Files)),
		zap.Int("dropped", len(res.Dropped)),
		zap.String("out", s.Config.Out))
	fmt.Printf("✓ Generated %d files in %s\n", len(res.Files), s.Config.Out)
	return nil
}
