package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"publisher-planner/internal/format"
)

func publisherCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "publisher <package-id>",
		Short: "Load a publisher package and list its scenarios",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := oneShot()
			if err != nil {
				return err
			}
			if err := a.Store.FetchPublisher(cmd.Context(), args[0]); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return printJSON(out, a.Store.Publisher())
			}

			counts := a.Store.JournalCounts()
			fmt.Fprintf(out, "%s (%s)\n", a.Store.PublisherName(), a.Store.PublisherID())
			fmt.Fprintf(out, "big deal cost:  %s\n", format.Currency(a.Store.BigDealCost()))
			fmt.Fprintf(out, "journals:       %s analyzed, %s missing prices, %s open access, %s left or stopped\n",
				format.Count(counts.Analyzed), format.Count(counts.MissingPrices),
				format.Count(counts.OA), format.Count(counts.LeftOrStopped))
			fmt.Fprintf(out, "counter:        %t\n\n", a.Store.CounterIsUploaded())

			t := newTable(out, "ID", "NAME", "SUBSCRIBED", "PROJECTED BIG DEAL")
			for _, sc := range a.Store.Scenarios() {
				t.row(sc.ID, sc.Saved.Name, format.Count(sc.SubscribedCount()), format.Currency(sc.CostBigdealProjected))
			}
			return t.flush()
		},
	}
}

func apcCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apc <package-id>",
		Short: "Show the APC report of a publisher package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := oneShot()
			if err != nil {
				return err
			}
			a.Store.FetchApc(cmd.Context(), args[0])
			apc := a.Store.Apc()

			out := cmd.OutOrStdout()
			if asJSON {
				return printJSON(out, apc)
			}
			if apc.PapersCount == nil && apc.Cost == nil {
				return fmt.Errorf("no APC data for %s", args[0])
			}

			t := newTable(out, "METRIC", "VALUE")
			if apc.PapersCount != nil {
				t.row("papers", format.Round(*apc.PapersCount, 0))
			}
			if apc.AuthorsFractionalCount != nil {
				t.row("fractional authorship", format.Round(*apc.AuthorsFractionalCount, 1))
			}
			if apc.Cost != nil {
				t.row("cost", format.Currency(*apc.Cost))
			}
			t.row("journals", format.Count(len(apc.Journals)))
			return t.flush()
		},
	}
}
