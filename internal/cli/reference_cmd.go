package cli

import (
	"fmt"

	"github.com/alexanderramin/ghostledger/internal/cli/formatter"
	"github.com/alexanderramin/ghostledger/internal/domain"
	"github.com/alexanderramin/ghostledger/internal/service"
	"github.com/spf13/cobra"
)

func newAccountCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage account items",
	}
	cmd.AddCommand(newAccountAddCmd(app), newAccountListCmd(app))
	return cmd
}

func newAccountAddCmd(app *App) *cobra.Command {
	var req accountAddRequest
	var description string
	var order int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an account item",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateRequest(req); err != nil {
				return err
			}
			in := service.CreateAccountItemInput{
				Name:         req.Name,
				Code:         req.Code,
				AccountType:  domain.AccountType(req.Type),
				DisplayOrder: order,
				Description:  changedString(cmd.Flags(), "description", description),
			}
			item, err := app.Accounts.Create(commandContext(cmd), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created account %s %s (%s)\n", item.Code, item.Name, item.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "Account name")
	cmd.Flags().StringVar(&req.Code, "code", "", "Account code")
	cmd.Flags().StringVar(&req.Type, "type", "", "Revenue|CostOfGoodsSold|SellingGeneralAdmin")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	cmd.Flags().IntVar(&order, "order", 0, "Display order")
	return cmd
}

func newAccountListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List account items",
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := app.Accounts.ListAll(commandContext(cmd))
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatAccountItems(items))
			return nil
		},
	}
}

func newServiceCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "service",
		Short: "Manage the services entity nodes are bound to",
	}
	cmd.AddCommand(newServiceAddCmd(app), newServiceListCmd(app))
	return cmd
}

func newServiceAddCmd(app *App) *cobra.Command {
	var req serviceAddRequest
	var order int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a service",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateRequest(req); err != nil {
				return err
			}
			svc, err := app.Catalog.Create(commandContext(cmd), req.Name, req.Slug, order)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created service %s (%s)\n", svc.Slug, svc.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "Service name")
	cmd.Flags().StringVar(&req.Slug, "slug", "", "URL-safe slug (lowercase letters, digits, hyphens)")
	cmd.Flags().IntVar(&order, "order", 0, "Display order")
	return cmd
}

func newServiceListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List services",
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := app.Catalog.ListAll(commandContext(cmd))
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatServices(services))
			return nil
		},
	}
}
