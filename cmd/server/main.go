package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/rohits-web03/innerself/internal/cli"
)

// @title InnerSelf API
// @version 1.0
// @description Journaling backend: diary, reminders, tasks, settings and a calendar view.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token.

var CLI struct {
	Version kong.VersionFlag
	EnvFile string `help:"Env file to load before reading the environment." type:"path" default:".env"`

	Serve   cli.ServeCmd   `cmd:"" help:"Run the HTTP API." default:"withargs"`
	Migrate cli.MigrateCmd `cmd:"" help:"Create or update the database schema."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("innerself"),
		kong.Description("Journaling backend: diary, reminders, tasks and calendar"),
		kong.UsageOnError(),
		kong.Vars{"version": "v1.0.0"},
	)

	err := ctx.Run(&cli.Context{EnvFile: CLI.EnvFile})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
