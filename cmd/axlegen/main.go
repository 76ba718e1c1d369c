package main

import (
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/broady/axle/cmd/axlegen/internal/check"
	"github.com/broady/axle/cmd/axlegen/internal/cli"
	"github.com/broady/axle/cmd/axlegen/internal/gen"
)

type CLI struct {
	cli.Globals

	Version VersionCmd `cmd:"" help:"Print version information."`
	Gen     gen.Cmd    `cmd:"" help:"Generate future-returning wrappers from model files."`
	Check   check.Cmd  `cmd:"" help:"Validate models and report stale generated files without writing."`
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println(Version())
	return nil
}

func main() {
	c := &CLI{}
	ctx := kong.Parse(c,
		kong.Name("axlegen"),
		kong.Description("Generate future-returning Go wrappers for callback-style APIs."),
		kong.UsageOnError(),
	)
	err := ctx.Run(&c.Globals)
	ctx.FatalIfErrorf(err)
}
