package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/ghostledger/internal/cli/formatter"
	"github.com/alexanderramin/ghostledger/internal/service"
	"github.com/spf13/cobra"
)

var errAborted = errors.New("aborted")

func newScenarioCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "scenario",
		Aliases: []string{"sc"},
		Short:   "Manage planning scenarios",
	}
	cmd.AddCommand(
		newScenarioAddCmd(app),
		newScenarioListCmd(app),
		newScenarioCurrentCmd(app),
		newScenarioActivateCmd(app),
		newScenarioLockCmd(app),
		newScenarioRolloverCmd(app),
	)
	return cmd
}

func newScenarioAddCmd(app *App) *cobra.Command {
	var req scenarioAddRequest
	var description string
	var activate bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a scenario",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateRequest(req); err != nil {
				return err
			}
			ctx := commandContext(cmd)
			sc, err := app.Scenarios.Create(ctx, service.CreateScenarioInput{
				Name:        req.Name,
				Description: changedString(cmd.Flags(), "description", description),
				StartDate:   parseDate(req.Start),
				EndDate:     parseDate(req.End),
			}, app.Actor)
			if err != nil {
				return err
			}
			if activate {
				if err := app.Scenarios.Activate(ctx, sc.ID, app.Actor); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created scenario %s (%s)\n", sc.Name, sc.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "Scenario name")
	cmd.Flags().StringVar(&req.Start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&req.End, "end", "", "End date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	cmd.Flags().BoolVar(&activate, "activate", false, "Make the new scenario current")
	return cmd
}

func newScenarioListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List scenarios, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := app.Scenarios.ListAll(commandContext(cmd))
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatScenarioList(list))
			return nil
		},
	}
}

func newScenarioCurrentCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Show the current scenario",
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := app.Scenarios.Current(commandContext(cmd))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatScenario(sc))
			return nil
		},
	}
}

func newScenarioActivateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "activate ID",
		Short: "Make a scenario the current one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			id, err := resolveScenarioID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Scenarios.Activate(ctx, id, app.Actor); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Activated scenario %s\n", id)
			return nil
		},
	}
}

func newScenarioLockCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "lock ID",
		Short: "Lock a scenario against further edits",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			id, err := resolveScenarioID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Scenarios.Lock(ctx, id, app.Actor); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Locked scenario %s\n", id)
			return nil
		},
	}
}

func newScenarioRolloverCmd(app *App) *cobra.Command {
	var req rolloverRequest
	var from string
	var yes bool

	cmd := &cobra.Command{
		Use:   "rollover",
		Short: "Clone a scenario's tree and entries into a new current scenario",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateRequest(req); err != nil {
				return err
			}
			ctx := commandContext(cmd)
			sourceID, err := resolveScenarioID(ctx, app, from)
			if err != nil {
				return err
			}
			source, err := app.Scenarios.GetByID(ctx, sourceID)
			if err != nil {
				return err
			}

			if !yes && app.interactive() {
				ok, err := app.confirm(fmt.Sprintf("Roll %q over into %q and make it current?", source.Name, req.Name))
				if err != nil {
					return err
				}
				if !ok {
					return errAborted
				}
			}

			res, err := app.Rollover.Rollover(ctx, service.RolloverInput{
				SourceScenarioID: source.ID,
				Name:             req.Name,
				StartDate:        parseDate(req.Start),
				EndDate:          parseDate(req.End),
			}, app.Actor)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatRollover(res.Scenario, res.NodeCount, res.EntryCount))
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Source scenario (default: current)")
	cmd.Flags().StringVar(&req.Name, "name", "", "New scenario name")
	cmd.Flags().StringVar(&req.Start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&req.End, "end", "", "End date (YYYY-MM-DD)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
