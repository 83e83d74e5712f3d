package cli

import (
	"github.com/rohits-web03/innerself/internal/repositories"
)

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *Context) error {
	cfg, log, err := ctx.load()
	if err != nil {
		return err
	}
	db, err := repositories.ConnectDatabase(cfg, log)
	if err != nil {
		return err
	}
	if err := repositories.Migrate(db); err != nil {
		return err
	}
	log.Info("database migrated")
	return nil
}
