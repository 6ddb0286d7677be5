package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "store",
		Short: "Catalog and cart backend",
		Long: `Catalog and cart backend.

Configuration is read from the environment, optionally preloaded from the file
given with --env-file.

  store serve                     # run the HTTP API
  store migrate                   # create or update database tables
  store user create --username admin --password ... --role admin
  store images derive             # generate missing product thumbnails`,
		SilenceUsage: true,
	}

	root.AddCommand(newServeCommand())
	root.AddCommand(newMigrateCommand())
	root.AddCommand(newUserCommand())
	root.AddCommand(newImagesCommand())
	return root
}
