// parkinglog prints the coordinator's audit trail.
//
//	parkinglog --kind ACCESS_LOG --limit 20
//	parkinglog --topic SmartCity/Parking/lot/Gate/Command --before 120
//	parkinglog --stats
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	_ "github.com/MeirG9/SmartCity-Parking-IoT-2026/migrations"

	"github.com/MeirG9/SmartCity-Parking-IoT-2026/internal/audit"
	"github.com/MeirG9/SmartCity-Parking-IoT-2026/internal/infrastructure/config"
	"github.com/MeirG9/SmartCity-Parking-IoT-2026/internal/infrastructure/database"
	"github.com/MeirG9/SmartCity-Parking-IoT-2026/internal/infrastructure/stats"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	config string
	kind   string
	topic  string
	limit  int
	before int64
	stats  bool
}

func parseFlags(args []string) (options, error) {
	var o options

	flags := pflag.NewFlagSet("parkinglog", pflag.ContinueOnError)
	flags.StringVarP(&o.config, "config", "c", "", "config file (default $PARKING_CONFIG or "+config.DefaultPath+")")
	flags.StringVarP(&o.kind, "kind", "k", "", "only entries of this event type (INFO, ACCESS_LOG, ACTUATOR_CMD, ACTUATOR_FEEDBACK)")
	flags.StringVarP(&o.topic, "topic", "t", "", "only entries for this exact topic")
	flags.IntVarP(&o.limit, "limit", "n", 50, "maximum entries to print (max 200)")
	flags.Int64Var(&o.before, "before", 0, "only entries with id below this one")
	flags.BoolVar(&o.stats, "stats", false, "print granted/denied totals from Redis instead")

	if err := flags.Parse(args); err != nil {
		return o, err
	}
	o.kind = strings.ToUpper(o.kind)
	return o, nil
}

func run(ctx context.Context, args []string, out io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	cfg, _, err := config.LoadFrom(opts.config)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if opts.stats {
		return printStats(ctx, cfg.Redis, out)
	}

	db, err := database.Open(ctx, database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if _, err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	res, err := audit.NewSQLiteRepository(db.DB).List(ctx, audit.Filter{
		Kind:     audit.Kind(opts.kind),
		Topic:    opts.topic,
		Limit:    opts.limit,
		BeforeID: opts.before,
	})
	if err != nil {
		return err
	}

	for _, e := range res.Entries {
		fmt.Fprintln(out, formatEntry(e))
	}
	fmt.Fprintf(out, "-- %d of %d entries\n", len(res.Entries), res.Total)
	return nil
}

func formatEntry(e audit.Entry) string {
	kind := string(e.Kind)
	if kind == "" {
		kind = "-"
	}
	return fmt.Sprintf("%6d  %s  %-17s  %s  %s",
		e.ID,
		e.Timestamp.Format(audit.TimestampLayout),
		kind,
		e.Topic,
		e.Message,
	)
}

func printStats(ctx context.Context, cfg config.RedisConfig, out io.Writer) error {
	store, err := stats.Connect(ctx, cfg)
	if errors.Is(err, stats.ErrDisabled) {
		return errors.New("redis counters are disabled in the configuration")
	}
	if err != nil {
		return err
	}
	defer store.Close()

	totals, err := store.Totals(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "granted: %d\ndenied:  %d\n", totals.Granted, totals.Denied)
	return nil
}
