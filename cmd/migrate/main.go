// Command migrate applies the SQL migrations under migrations/ with the atlas CLI.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"parking-booking/internal/pkg/config"
	"parking-booking/internal/pkg/errs"

	"ariga.io/atlas-go-sdk/atlasexec"
)

func main() {
	dir := flag.String("dir", "file://migrations", "migration directory URL")
	atlasBin := flag.String("atlas", "atlas", "path to the atlas binary")
	dryRun := flag.Bool("dry-run", false, "print pending migrations without applying them")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	if err := run(*dir, *atlasBin, *dryRun, logger); err != nil {
		logger.Error("migration failed", "error", err, "stack", errs.ExtractStackLines(err, 5))
		os.Exit(1)
	}
}

func run(dir, atlasBin string, dryRun bool, logger *slog.Logger) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return errs.Wrap(err, "load config")
	}

	client, err := atlasexec.NewClient(".", atlasBin)
	if err != nil {
		return errs.Wrap(err, "init atlas client")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	res, err := client.MigrateApply(ctx, &atlasexec.MigrateApplyParams{
		URL:    cfg.DB.BuildDSN(),
		DirURL: dir,
		DryRun: dryRun,
	})
	if err != nil {
		return errs.Wrap(err, "apply migrations")
	}

	for _, f := range res.Applied {
		logger.Info("migration applied", "version", f.Version, "description", f.Description)
	}
	logger.Info("database is up to date", "current", res.Current, "target", res.Target, "dry_run", dryRun)
	return nil
}
