// Package commands is the planner's command line: the HTTP server plus
// one-shot publisher and scenario operations against the backend.
package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"publisher-planner/internal/app"
	"publisher-planner/internal/config"
)

var (
	configPath string
	asJSON     bool
	cfg        config.Config
)

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "planner",
		Short:         "Plan journal subscription scenarios for publisher packages",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cfg = loaded
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ./planner.yml)")
	root.PersistentFlags().BoolVar(&asJSON, "json", false, "print JSON instead of tables")

	root.AddCommand(serveCmd(), publisherCmd(), apcCmd(), scenarioCmd())
	return root
}

// oneShot builds the app for a single command. Publisher loads wait for
// every scenario so the output is complete.
func oneShot() (*app.App, error) {
	c := cfg
	c.Store.AwaitHydration = true
	return app.Build(c)
}
