package cli

import (
	"context"
	"os"

	"github.com/alexanderramin/ghostledger/internal/service"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// App holds the services the commands call plus the process-level settings
// they need.
type App struct {
	Scenarios service.ScenarioService
	Nodes     service.NodeService
	Entries   service.EntryService
	Rollover  service.RolloverService
	Accounts  service.AccountItemService
	Catalog   service.CatalogService
	Import    service.ImportService

	// Actor is the default acting user; --actor overrides it per command.
	Actor string

	// IsInteractive reports whether stdin is a terminal. Nil means no.
	IsInteractive func() bool
	// Confirm asks a yes/no question. Nil uses a huh confirm form.
	Confirm func(title string) (bool, error)
}

// StdinIsTerminal is the production IsInteractive.
func StdinIsTerminal() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

// NewRootCmd creates the top-level "ghostledger" command and registers all
// subcommands against app.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "ghostledger",
		Short:         "Hierarchical P&L planning ledger",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&app.Actor, "actor", app.Actor, "Acting user recorded on changes")

	root.AddCommand(
		newScenarioCmd(app),
		newNodeCmd(app),
		newEntryCmd(app),
		newAccountCmd(app),
		newServiceCmd(app),
	)
	return root
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) confirm(title string) (bool, error) {
	if a.Confirm != nil {
		return a.Confirm(title)
	}
	return confirmForm(title)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
