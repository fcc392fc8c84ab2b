package main

import (
	"context"

	"github.com/alecthomas/kong"
)

var (
	version = "dev"
	cli     struct {
		EnvFile string           `help:"Env file loaded before the process environment." default:".env" type:"path"`
		Debug   bool             `help:"Enable debug logging."`
		Version kong.VersionFlag `help:"Print version and exit."`
		Serve   ServeCmd         `cmd:"" default:"1" help:"Run the HTTP API (default)."`
		Migrate MigrateCmd       `cmd:"" help:"Create or update the schema, seed defaults and exit."`
	}
)

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Name("pgn-api"),
		kong.Description("PGN multi-tenant administration API."),
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&Globals{Debug: cli.Debug, EnvFile: cli.EnvFile, Version: version})
	cmd.FatalIfErrorf(err)
}
