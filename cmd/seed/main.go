// seed loads identities and contact links from a JSON file into the
// directory. It is a development tool and is not exposed over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/trigate/trigate/internal/config"
	"github.com/trigate/trigate/internal/directory"
	"github.com/trigate/trigate/internal/infra"
	"github.com/trigate/trigate/internal/logging"
	"github.com/trigate/trigate/internal/security"
)

func main() {
	path := flag.String("file", "seed.json", "Path to the seed JSON document")
	flag.Parse()

	cfg, err := config.LoadAdmin()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	f, err := os.Open(*path)
	if err != nil {
		logger.Error("open seed file", "path", *path, "error", err)
		os.Exit(1)
	}
	seed, err := directory.DecodeSeed(f)
	_ = f.Close()
	if err != nil {
		logger.Error("read seed file", "path", *path, "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := infra.NewPostgresPool(ctx, cfg.DatabaseURL, cfg.AppName+"-seed")
	if err != nil {
		logger.Error("connect postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	svc := directory.NewService(directory.NewPostgresRepository(db), security.NewHasher(cfg.BcryptCost))
	report, err := svc.Seed(ctx, seed)
	if err != nil {
		logger.Error("seed failed", "error", err, "created", report.Created, "skipped", report.Skipped)
		os.Exit(1)
	}
	logger.Info("seed complete", "created", report.Created, "skipped", report.Skipped, "linked", report.Linked)
}
