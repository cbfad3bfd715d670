// Command vaultctl is the operator tool for the credential vault: sealing
// and opening envelopes, and rotating the master secret over the whole
// credential store.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/creatorpulse/channelvault/internal/app"
	"github.com/creatorpulse/channelvault/internal/config"
	"github.com/creatorpulse/channelvault/internal/vaultctl"
)

func main() {
	cfg := config.LoadConfig()

	ctx, cancel := app.InitSignalContext(context.Background())
	defer cancel()

	c := vaultctl.New(os.Stdin, os.Stdout, cfg.DatabaseDSN)
	if err := c.Run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
