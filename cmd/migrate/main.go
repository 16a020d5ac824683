// migrate applies the embedded schema migrations against DATABASE_URL.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/trigate/trigate/internal/config"
	"github.com/trigate/trigate/internal/db/migrate"
)

func main() {
	direction := flag.String("direction", migrate.Up, "Migration direction: up or down")
	flag.Parse()

	cfg, err := config.LoadAdmin()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	if err := migrate.Run(cfg.DatabaseURL, *direction); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return
		}
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}
