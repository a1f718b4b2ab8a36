package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/inventory-ledger/internal/config"
	"github.com/inventory-ledger/internal/data/mongo"
	"github.com/inventory-ledger/internal/data/postgres"
	"github.com/inventory-ledger/internal/domain/localtime"
	"github.com/inventory-ledger/internal/logger"
	"github.com/inventory-ledger/internal/platform/messaging/producers"
	"github.com/inventory-ledger/internal/platform/persistence"
	"github.com/inventory-ledger/internal/snapshot"
	"github.com/jackc/pgx/v5"
)

func main() {
	cmd, err := parseCommand(os.Args[1:], os.Stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(2)
	}

	// Initialize configuration
	cfg, err := config.LoadConfig("ledger_snapshot")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, log, cfg, cmd); err != nil {
		log.Error("Snapshot command failed", "command", cmd.name, "error", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger, cfg *config.Config, cmd command) error {
	postgresDB, err := persistence.NewPostgresDB(ctx, log, &cfg.Postgres)
	if err != nil {
		return fmt.Errorf("failed to initialize PostgreSQL: %w", err)
	}
	defer postgresDB.Close()

	var archive snapshot.Archive
	if cmd.needsArchive() {
		mongoDB, err := persistence.NewMongoDB(ctx, log, &cfg.MongoDB)
		if err != nil {
			return fmt.Errorf("failed to initialize MongoDB: %w", err)
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), cfg.MongoDB.Timeout)
			defer cancel()
			if err := mongoDB.Close(closeCtx); err != nil {
				log.Error("Error closing MongoDB connection", "error", err)
			}
		}()
		archive = mongo.NewSnapshotArchive(log, mongoDB.Snapshots())
	}

	var notifier snapshot.Notifier
	if cmd.name == cmdBackup {
		producer, err := producers.NewSnapshotNoticeProducer(ctx, log, &cfg.Kafka)
		if err != nil {
			return fmt.Errorf("failed to initialize snapshot notice producer: %w", err)
		}
		if producer != nil {
			defer func() {
				if err := producer.Close(); err != nil {
					log.Error("Error closing Kafka producer", "error", err)
				}
			}()
			notifier = producer
		}
	}

	clock := localtime.SystemClock()

	reader := postgres.NewSnapshotReader(log, postgresDB.Pool(), snapshot.Sources{
		Users:        postgres.NewUserRepository(log, postgresDB),
		Categories:   postgres.NewCategoryRepository(log, postgresDB),
		Weights:      postgres.NewWeightRepository(log, postgresDB),
		Inventory:    postgres.NewInventoryRepository(log, postgresDB),
		Transactions: postgres.NewTransactionRepository(log, postgresDB),
	})
	exporter, err := snapshot.NewExporter(log, reader, snapshot.ExporterConfig{
		PoolSize: cfg.Snapshot.WorkerPoolSize,
		PageSize: cfg.Snapshot.PageSize,
	}, clock)
	if err != nil {
		return err
	}
	defer exporter.Shutdown()

	restorer := snapshot.NewRestorer(log, postgresDB, func(tx pgx.Tx) snapshot.RestoreWriter {
		return postgres.NewRestoreWriter(log, tx)
	})

	tool := snapshot.NewTool(log, exporter, restorer, archive, notifier, cfg.Snapshot.Dir, clock)

	switch cmd.name {
	case cmdBackup:
		result, err := tool.Backup(ctx, snapshot.BackupOptions{Out: cmd.out, Archive: cmd.archive})
		if err != nil {
			return err
		}
		fmt.Printf("Backup written to %s (id %s)\n", result.Path, result.ID)
		printCounts(result.Counts)

	case cmdRestore:
		var counts snapshot.Counts
		if cmd.fromArchive != "" {
			counts, err = tool.RestoreArchived(ctx, cmd.fromArchive, cmd.replace)
		} else {
			counts, err = tool.RestoreFile(ctx, cmd.file, cmd.replace)
		}
		if err != nil {
			return err
		}
		fmt.Println("Restore completed")
		printCounts(counts)

	case cmdListArchive:
		list, err := tool.ListArchive(ctx, cmd.limit)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCREATED (GMT+8)\tUSERS\tITEMS\tTRANSACTIONS")
		for _, s := range list {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\n",
				s.ID,
				localtime.Format(localtime.Naive(s.CreatedAt.In(localtime.Zone))),
				s.Counts.Users,
				s.Counts.Inventory,
				s.Counts.Transactions,
			)
		}
		return w.Flush()
	}

	return nil
}

func printCounts(c snapshot.Counts) {
	fmt.Printf("  users: %d\n  categories: %d\n  weights: %d\n  inventory: %d\n  transactions: %d\n",
		c.Users, c.Categories, c.Weights, c.Inventory, c.Transactions)
}
