package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/ghostledger/internal/cli"
	"github.com/alexanderramin/ghostledger/internal/config"
	"github.com/alexanderramin/ghostledger/internal/db"
	"github.com/alexanderramin/ghostledger/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.ExitCode(err))
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := config.NewLogger(cfg)

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	store := service.NewStore(database)
	observer := service.NewLogUseCaseObserver(logger)
	entries := service.NewEntryService(store, cfg.OperationSource, observer)

	app := &cli.App{
		Scenarios:     service.NewScenarioService(store, observer),
		Nodes:         service.NewNodeService(store, observer),
		Entries:       entries,
		Rollover:      service.NewRolloverService(store, observer),
		Accounts:      service.NewAccountItemService(store, observer),
		Catalog:       service.NewCatalogService(store, observer),
		Import:        service.NewImportService(store, entries, observer),
		Actor:         cfg.Actor,
		IsInteractive: cli.StdinIsTerminal,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
