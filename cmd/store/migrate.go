package main

import (
	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/Skotchmaster/storefront/internal/db"
)

var migrateFlags = map[string]cobraflags.Flag{
	envFileFlag: newEnvFileFlag(),
}

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE:  migrateCommand,
	}
	cobraflags.RegisterMap(cmd, migrateFlags)
	return cmd
}

func migrateCommand(cmd *cobra.Command, _ []string) error {
	_, logger, gdb, err := setup(migrateFlags)
	if err != nil {
		return err
	}
	defer closeDB(logger, gdb)

	if err := db.Migrate(cmd.Context(), gdb); err != nil {
		logger.Error("migrate_error", "error", err)
		return err
	}
	logger.Info("migrate_done")
	return nil
}
