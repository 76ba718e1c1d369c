// Package cli holds the setup shared by axlegen subcommands.
package cli

import (
	"os"
	"path/filepath"
	"slices"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/broady/axle/axlegen"
	"github.com/broady/axle/internal/config"
	"github.com/broady/axle/internal/discover"
	"github.com/broady/axle/internal/logging"
)

// Globals are flags accepted by every subcommand.
type Globals struct {
	Verbose int    `help:"Increase log verbosity (-v, -vv)." short:"v" type:"counter"`
	JSON    bool   `help:"Log as JSON even on a terminal." name:"log-json"`
	Config  string `help:"Config file (default: closest axlegen.toml)." short:"c" type:"path"`
}

// Flags override config file values when set.
type Flags struct {
	Models      []string
	Out         string
	Dialect     string
	StripPrefix string
}

// Session is a loaded configuration with its discovered model files.
type Session struct {
	Config *config.Config
	Files  []string
	Log    *zap.Logger
}

// Open loads configuration, applies flag overrides and discovers model
// files.
func (g *Globals) Open(f Flags) (*Session, error) {
	var (
		cfg *config.Config
		err error
	)
	if g.Config != "" {
		cfg, err = config.LoadFromFile(g.Config)
	} else {
		var wd string
		if wd, err = os.Getwd(); err == nil {
			cfg, err = config.Load(wd)
		}
	}
	if err != nil {
		return nil, err
	}

	if len(f.Models) > 0 {
		cfg.Models = f.Models
	}
	if f.Out != "" {
		cfg.Out = f.Out
	}
	if f.Dialect != "" {
		cfg.Dialect = f.Dialect
	}
	if f.StripPrefix != "" {
		cfg.StripPrefix = f.StripPrefix
	}

	log := logging.New(logging.Options{Verbosity: g.Verbose, JSON: g.JSON})
	if cfg.File != "" {
		log.Debug("loaded config", zap.String("file", cfg.File))
	}

	s := &Session{Config: cfg, Log: log}
	if err := s.Rediscover(); err != nil {
		return nil, err
	}
	return s, nil
}

// Rediscover refreshes Files from the configured model inputs.
func (s *Session) Rediscover() error {
	files, err := discover.Find(s.Config.Models, discover.Options{})
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errors.WithHint(errors.New("no model files found"),
			"name model files *.axle.yaml or pass them as arguments")
	}
	s.Files = files
	s.Log.Debug("discovered models", zap.Strings("files", files))
	return nil
}

// IsModel reports whether path is, or would be discovered as, a model
// file of this session.
func (s *Session) IsModel(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	if slices.Contains(s.Files, abs) {
		return true
	}
	for _, pat := range discover.DefaultPatterns() {
		if ok, _ := filepath.Match(pat, filepath.Base(abs)); ok {
			return true
		}
	}
	return false
}

// Generator returns a generator over the session's model files.
func (s *Session) Generator() *axlegen.Generator {
	cfg := s.Config.Generator()
	cfg.Logger = s.Log
	return axlegen.FromFiles(s.Files...).WithConfig(cfg)
}
