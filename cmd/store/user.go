package main

import (
	"fmt"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/users"
)

const (
	usernameFlag = "username"
	passwordFlag = "password"
	roleFlag     = "role"
)

var userCreateFlags = map[string]cobraflags.Flag{
	envFileFlag: newEnvFileFlag(),
	usernameFlag: &cobraflags.StringFlag{
		Name:  usernameFlag,
		Usage: "Login name (required)",
	},
	passwordFlag: &cobraflags.StringFlag{
		Name:  passwordFlag,
		Usage: "Password, at least 8 characters (required)",
	},
	roleFlag: &cobraflags.StringFlag{
		Name:  roleFlag,
		Value: models.RoleUser,
		Usage: "Role: user or admin",
	},
}

func newUserCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Create a user account",
		Args:  cobra.NoArgs,
		RunE:  userCreateCommand,
	}
	cobraflags.RegisterMap(create, userCreateFlags)

	cmd.AddCommand(create)
	return cmd
}

func userCreateCommand(cmd *cobra.Command, _ []string) error {
	_, logger, gdb, err := setup(userCreateFlags)
	if err != nil {
		return err
	}
	defer closeDB(logger, gdb)

	repo := &users.GormRepo{DB: gdb}
	u, err := repo.Create(cmd.Context(),
		userCreateFlags[usernameFlag].GetString(),
		userCreateFlags[passwordFlag].GetString(),
		userCreateFlags[roleFlag].GetString(),
	)
	if err != nil {
		logger.Error("user_create_error", "username", userCreateFlags[usernameFlag].GetString(), "error", err)
		return err
	}

	logger.Info("user_created", "user_id", u.ID, "role", u.Role)
	fmt.Fprintf(cmd.OutOrStdout(), "created user %q (id %d, role %s)\n", u.Username, u.ID, u.Role)
	return nil
}
