package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/adanyl0v/go-task-manager/internal/app"
	"github.com/adanyl0v/go-task-manager/internal/config"
)

func main() {
	app.InitDefaultLogger()

	err := newRootCommand().Execute()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	serve := newServeCommand()
	root := &cobra.Command{
		Use:   "task-manager",
		Short: "Personal task manager API server",
		// Running without a subcommand starts the server.
		RunE:         serve.RunE,
		SilenceUsage: true,
	}
	root.AddCommand(serve, newMigrateCommand())
	return root
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bootstrap()
			defer app.CloseStorage()

			if config.Global().Storage.Migrate {
				app.MustMigrateStorage()
			}

			app.Serve()
			return nil
		},
	}
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bootstrap()
			defer app.CloseStorage()

			app.MustMigrateStorage()
			return nil
		},
	}
}

func bootstrap() {
	app.MustReadConfig()
	app.MustInitApplicationLogger()
	app.MustOpenStorage()
}
