package cli

import (
	"fmt"

	"github.com/alexanderramin/ghostledger/internal/cli/formatter"
	"github.com/alexanderramin/ghostledger/internal/domain"
	"github.com/alexanderramin/ghostledger/internal/service"
	"github.com/spf13/cobra"
)

func newEntryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entry",
		Short: "Record and inspect P&L entries",
	}
	cmd.AddCommand(
		newEntrySaveCmd(app),
		newEntryListCmd(app),
		newEntryHistoryCmd(app),
		newEntryImportCmd(app),
	)
	return cmd
}

func newEntrySaveCmd(app *App) *cobra.Command {
	var req entrySaveRequest
	var description string

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Set the amount of one cell (node, account, month, category)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateRequest(req); err != nil {
				return err
			}
			ctx := commandContext(cmd)
			nodeID, err := resolveNodeID(ctx, app, req.Node, "")
			if err != nil {
				return err
			}
			accountID, err := resolveAccountID(ctx, app, req.Account)
			if err != nil {
				return err
			}
			amount, err := parseAmount(req.Amount)
			if err != nil {
				return err
			}

			in := service.SaveEntryInput{
				NodeID:        nodeID,
				AccountItemID: accountID,
				TargetMonth:   parseMonth(req.Month),
				Category:      domain.EntryCategory(req.Category),
				Amount:        amount,
				Description:   changedString(cmd.Flags(), "description", description),
			}
			e, err := app.Entries.SaveEntry(ctx, in, app.Actor)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s %s %s = %s (%s)\n",
				formatter.FormatMonth(e.TargetMonth), req.Account, e.Category,
				formatter.FormatAmount(e.Amount), e.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Node, "node", "", "Job or AdjustmentBuffer node ID or prefix")
	cmd.Flags().StringVar(&req.Account, "account", "", "Account item code or ID")
	cmd.Flags().StringVar(&req.Month, "month", "", "Target month (YYYY-MM)")
	cmd.Flags().StringVar(&req.Category, "category", "", "Plan or Result")
	cmd.Flags().StringVar(&req.Amount, "amount", "", "Decimal amount")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	return cmd
}

func newEntryListCmd(app *App) *cobra.Command {
	var nodeFlag, categoryFlag string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List a node's entries, or every entry of the current scenario",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)

			var category *domain.EntryCategory
			if cmd.Flags().Changed("category") {
				c, err := domain.ParseEntryCategory(categoryFlag)
				if err != nil {
					return err
				}
				category = &c
			}

			var entries []*domain.PlEntry
			if nodeFlag != "" {
				nodeID, err := resolveNodeID(ctx, app, nodeFlag, "")
				if err != nil {
					return err
				}
				if entries, err = app.Entries.ListByNode(ctx, nodeID, category); err != nil {
					return err
				}
			} else {
				scenarioID, err := resolveScenarioID(ctx, app, "")
				if err != nil {
					return err
				}
				all, err := app.Entries.ListByScenario(ctx, scenarioID)
				if err != nil {
					return err
				}
				for _, e := range all {
					if category == nil || e.Category == *category {
						entries = append(entries, e)
					}
				}
			}

			codes, err := accountCodes(ctx, app)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatEntries(entries, codes))
			return nil
		},
	}
	cmd.Flags().StringVar(&nodeFlag, "node", "", "Node ID or prefix (default: whole current scenario)")
	cmd.Flags().StringVar(&categoryFlag, "category", "", "Only Plan or Result")
	return cmd
}

func newEntryHistoryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "history ENTRY_ID",
		Short: "Show the audit trail of an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			id, err := resolveEntryID(ctx, app, args[0])
			if err != nil {
				return err
			}
			history, err := app.Entries.History(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatHistory(history))
			return nil
		},
	}
}

func newEntryImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Save every entry of a YAML file in one transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Import.ImportEntries(commandContext(cmd), args[0], app.Actor)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d entries from %s\n", len(res.Entries), args[0])
			return nil
		},
	}
}
