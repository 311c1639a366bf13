package commands

import (
	"context"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"publisher-planner/internal/app"
	"publisher-planner/internal/format"
	"publisher-planner/internal/model"
	"publisher-planner/internal/store"
)

func scenarioCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenario",
		Short: "Inspect and edit the scenarios of a publisher package",
	}
	cmd.AddCommand(
		scenarioShowCmd(),
		scenarioCreateCmd(),
		scenarioCopyCmd(),
		scenarioRenameCmd(),
		scenarioConfigCmd(),
		scenarioDeleteCmd(),
	)
	return cmd
}

// withPackage builds the app and loads the package every scenario command
// works in.
func withPackage(ctx context.Context, pkgID string) (*app.App, error) {
	a, err := oneShot()
	if err != nil {
		return nil, err
	}
	if err := a.Store.FetchPublisher(ctx, pkgID); err != nil {
		return nil, err
	}
	return a, nil
}

func printScenario(w io.Writer, sc *model.Scenario, journals bool) error {
	if asJSON {
		return printJSON(w, sc)
	}
	fmt.Fprintf(w, "%s (%s)\n", sc.Saved.Name, sc.ID)
	fmt.Fprintf(w, "subscribed:          %s of %s journals\n", format.Count(sc.SubscribedCount()), format.Count(len(sc.Journals)))
	fmt.Fprintf(w, "projected big deal:  %s\n", format.Currency(sc.CostBigdealProjected))
	if !journals {
		return nil
	}
	fmt.Fprintln(w)
	t := newTable(w, "ISSN-L", "TITLE", "SUBSCRIBED", "COST", "ILL", "USAGE")
	for _, j := range sc.Journals {
		t.row(j.IssnL, j.Title, j.Subscribed, format.Currency(j.CostSubscription), format.Currency(j.CostIll), format.Round(j.Usage, 0))
	}
	return t.flush()
}

func scenarioShowCmd() *cobra.Command {
	var journals bool
	cmd := &cobra.Command{
		Use:   "show <package-id> <scenario-id>",
		Short: "Show a scenario",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := withPackage(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			sc, ok := a.Store.Scenario(args[1])
			if !ok {
				return store.ErrScenarioNotFound
			}
			return printScenario(cmd.OutOrStdout(), sc, journals)
		},
	}
	cmd.Flags().BoolVar(&journals, "journals", false, "list the scenario's journals")
	return cmd
}

func scenarioCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <package-id>",
		Short: "Create a new scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := withPackage(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			id, err := a.Store.CreateScenario(cmd.Context())
			if err != nil {
				return err
			}
			a.Store.Wait()
			sc, _ := a.Store.Scenario(id)
			return printScenario(cmd.OutOrStdout(), sc, false)
		},
	}
}

func scenarioCopyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "copy <package-id> <scenario-id> <new-name>",
		Short: "Copy a scenario under a new name",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := withPackage(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			id, err := a.Store.CopyScenario(cmd.Context(), args[1], args[2])
			if err != nil {
				return err
			}
			sc, _ := a.Store.Scenario(id)
			return printScenario(cmd.OutOrStdout(), sc, false)
		},
	}
}

func scenarioRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <package-id> <scenario-id> <new-name>",
		Short: "Rename a scenario",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := withPackage(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := a.Store.RenameScenario(cmd.Context(), args[1], args[2]); err != nil {
				return err
			}
			sc, _ := a.Store.Scenario(args[1])
			return printScenario(cmd.OutOrStdout(), sc, false)
		},
	}
}

// parseValue reads a config value as JSON, falling back to the raw string.
func parseValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return raw
	}
	return v
}

func scenarioConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config <package-id> <scenario-id> <key> <value>",
		Short: "Set one scenario config value and show the resulting changes",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := withPackage(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			res, err := a.Store.SetScenarioConfig(cmd.Context(), args[1], args[2], parseValue(args[3]))
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(out, res)
			}
			for _, m := range res.Messages {
				fmt.Fprintf(out, "%s %s: %s\n", m.Level, m.Code, m.Message)
			}
			t := newTable(out, "OP", "PATH", "VALUE")
			for _, op := range res.Changes {
				t.row(op.Op, op.Path, op.Value)
			}
			return t.flush()
		},
	}
}

func scenarioDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <package-id> <scenario-id>",
		Short: "Delete a scenario",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := withPackage(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if _, ok := a.Store.Scenario(args[1]); !ok {
				return store.ErrScenarioNotFound
			}
			if err := a.Store.DeleteScenario(cmd.Context(), args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[1])
			return nil
		},
	}
}
