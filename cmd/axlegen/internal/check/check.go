package check

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"

	"github.com/broady/axle/axlegen/sink"
	"github.com/broady/axle/cmd/axlegen/internal/cli"
)

type Cmd struct {
	Models []string `arg:"" optional:"" help:"Model files, directories or globs (default: config models)."`
	Out    string   `help:"Output root directory to compare against." short:"o" type:"path"`
}

func (c *Cmd) Run(g *cli.Globals) error {
	s, err := g.Open(cli.Flags{Models: c.Models, Out: c.Out})
	if err != nil {
		return err
	}
	defer s.Log.Sync() //nolint:errcheck
	return Check(context.Background(), s, os.Stdout)
}

// Check validates the models, prints dropped operations and reports
// generated files that are missing or out of date. Nothing is written.
func Check(ctx context.Context, s *cli.Session, w io.Writer) error {
	stale := sink.NewStaleSink(s.Config.Out)
	res, err := s.Generator().ToSink(ctx, stale)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "✓ %d models, %d classes\n", len(s.Files), len(res.Files))
	for _, d := range res.Dropped {
		fmt.Fprintf(w, "  dropped %s\n", d)
	}

	paths := stale.Stale()
	if len(paths) == 0 {
		fmt.Fprintln(w, "✓ generated files are up to date")
		return nil
	}
	for _, p := range paths {
		fmt.Fprintf(w, "✗ %s is out of date\n", p)
	}
	return errors.WithHint(errors.Newf("%d generated files are out of date", len(paths)),
		"run axlegen gen")
}
