// Command channelvault fetches a snapshot for every channel linked by one
// owner and prints the result as JSON. Configuration comes from the usual
// layers (defaults, environment, optional JSON file, flags).
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/creatorpulse/channelvault/internal/app"
	"github.com/creatorpulse/channelvault/internal/config"
	"github.com/creatorpulse/channelvault/internal/flagx"
)

func main() {

	args := flagx.FilterArgs(os.Args[1:], []string{"-o"})
	fs := flag.NewFlagSet("channelvault", flag.ExitOnError)
	ownerID := fs.Int64("o", 0, "owner id to aggregate snapshots for")
	_ = fs.Parse(args)

	if *ownerID == 0 {
		log.Fatal("owner id is required (-o)")
	}

	cfg := config.LoadConfig()

	a, err := app.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer a.Close()

	ctx, cancel := app.InitSignalContext(context.Background())
	defer cancel()

	if err := a.Migrate(ctx); err != nil {
		log.Fatalf("%v", err)
	}

	a.StartSweeper(ctx)

	snapshots, err := a.FetchOwnerSnapshots(ctx, *ownerID)
	if err != nil {
		log.Fatalf("%v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snapshots); err != nil {
		log.Fatalf("%v", err)
	}
}
