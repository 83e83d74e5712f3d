// Package cli holds the commands of the innerself binary.
package cli

import (
	"log/slog"
	"os"

	"github.com/rohits-web03/innerself/internal/config"
	"github.com/rohits-web03/innerself/internal/logging"
)

// Context is shared by every command.
type Context struct {
	EnvFile string
}

func (c *Context) load() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(c.EnvFile)
	if err != nil {
		return nil, nil, err
	}
	log := logging.New(os.Stdout, cfg.LogLevel, cfg.Environment)
	slog.SetDefault(log)
	return cfg, log, nil
}
