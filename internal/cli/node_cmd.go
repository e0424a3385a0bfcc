package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/ghostledger/internal/cli/formatter"
	"github.com/alexanderramin/ghostledger/internal/domain"
	"github.com/alexanderramin/ghostledger/internal/service"
	"github.com/spf13/cobra"
)

func newNodeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "node",
		Short: "Manage the plan tree",
	}
	cmd.AddCommand(
		newNodeAddCmd(app),
		newNodeTreeCmd(app),
		newNodeUpdateCmd(app),
		newNodeRemoveCmd(app),
	)
	return cmd
}

func newNodeAddCmd(app *App) *cobra.Command {
	var req nodeAddRequest
	var scenarioFlag, parentFlag, serviceFlag, description string
	var order int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a plan node",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateRequest(req); err != nil {
				return err
			}
			ctx := commandContext(cmd)
			scenarioID, err := resolveScenarioID(ctx, app, scenarioFlag)
			if err != nil {
				return err
			}

			in := service.CreateNodeInput{
				ScenarioID:   scenarioID,
				Title:        req.Title,
				NodeType:     domain.NodeType(req.Type),
				DisplayOrder: order,
				Description:  changedString(cmd.Flags(), "description", description),
			}
			if cmd.Flags().Changed("parent") {
				parentID, err := resolveNodeID(ctx, app, parentFlag, scenarioID)
				if err != nil {
					return err
				}
				in.ParentID = &parentID
			}
			if cmd.Flags().Changed("service") {
				serviceID, err := resolveServiceID(ctx, app, serviceFlag)
				if err != nil {
					return err
				}
				in.ServiceID = &serviceID
			}
			n, err := app.Nodes.Create(ctx, in, app.Actor)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s %s (%s)\n", n.NodeType, n.Title, n.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&scenarioFlag, "scenario", "", "Scenario (default: current)")
	cmd.Flags().StringVar(&parentFlag, "parent", "", "Parent node ID or prefix")
	cmd.Flags().StringVar(&req.Title, "title", "", "Node title")
	cmd.Flags().StringVar(&req.Type, "type", "", "Node type (Initiative|Project|SubProject|Job|AdjustmentBuffer)")
	cmd.Flags().StringVar(&serviceFlag, "service", "", "Service slug or ID (Job and AdjustmentBuffer only)")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	cmd.Flags().IntVar(&order, "order", 0, "Display order among siblings")
	return cmd
}

func newNodeTreeCmd(app *App) *cobra.Command {
	var scenarioFlag string

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Show a scenario's plan tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			scenarioID, err := resolveScenarioID(ctx, app, scenarioFlag)
			if err != nil {
				return err
			}
			sc, err := app.Scenarios.GetByID(ctx, scenarioID)
			if err != nil {
				return err
			}
			nodes, err := app.Nodes.ListByScenario(ctx, scenarioID)
			if err != nil {
				return err
			}
			slugs, err := serviceSlugs(ctx, app)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s  %s\n\n", formatter.Bold(sc.Name), formatter.ScenarioBadge(sc))
			if len(nodes) == 0 {
				fmt.Fprintln(out, formatter.Dim("No nodes yet. Add an Initiative with 'ghostledger node add'."))
				return nil
			}
			items := formatter.BuildTree(nodes, func(n *domain.PlanNode) string {
				if n.ServiceID == nil {
					return ""
				}
				return slugs[*n.ServiceID]
			})
			fmt.Fprint(out, formatter.RenderTree(items))
			return nil
		},
	}
	cmd.Flags().StringVar(&scenarioFlag, "scenario", "", "Scenario (default: current)")
	return cmd
}

func newNodeUpdateCmd(app *App) *cobra.Command {
	var title, description, scenarioFlag string
	var order int

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change a node's title, description or order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			id, err := resolveNodeID(ctx, app, args[0], scenarioFlag)
			if err != nil {
				return err
			}

			patch := domain.PlanNodePatch{
				Title:       changedString(cmd.Flags(), "title", title),
				Description: changedString(cmd.Flags(), "description", description),
			}
			if cmd.Flags().Changed("order") {
				patch.DisplayOrder = &order
			}
			if patch.Empty() {
				return fmt.Errorf("%w: nothing to update (use --title, --description or --order)", domain.ErrValidation)
			}

			n, err := app.Nodes.Update(ctx, id, patch, app.Actor)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s %s\n", n.NodeType, n.Title)
			return nil
		},
	}
	cmd.Flags().StringVar(&scenarioFlag, "scenario", "", "Scenario used to resolve ID prefixes (default: current)")
	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().IntVar(&order, "order", 0, "New display order")
	return cmd
}

func newNodeRemoveCmd(app *App) *cobra.Command {
	var scenarioFlag string

	cmd := &cobra.Command{
		Use:     "remove ID",
		Aliases: []string{"rm"},
		Short:   "Delete an empty node",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			id, err := resolveNodeID(ctx, app, args[0], scenarioFlag)
			if err != nil {
				return err
			}
			if err := app.Nodes.Delete(ctx, id, app.Actor); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed node %s\n", id)
			return nil
		},
	}
	cmd.Flags().StringVar(&scenarioFlag, "scenario", "", "Scenario used to resolve ID prefixes (default: current)")
	return cmd
}

func serviceSlugs(ctx context.Context, app *App) (map[string]string, error) {
	services, err := app.Catalog.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	slugs := make(map[string]string, len(services))
	for _, s := range services {
		slugs[s.ID] = s.Slug
	}
	return slugs, nil
}
