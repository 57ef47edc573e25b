package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	config "childcare-tasks.com/childcare-tasks/internal/configs"
	"childcare-tasks.com/childcare-tasks/internal/constants"
	model "childcare-tasks.com/childcare-tasks/internal/models"
	repository "childcare-tasks.com/childcare-tasks/internal/repositories"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users tasks can be assigned to",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		email, _ := cmd.Flags().GetString("email")
		role, _ := cmd.Flags().GetString("role")

		if !constants.Role(role).Valid() {
			return fmt.Errorf("role must be %s or %s", constants.RoleAdmin, constants.RoleUser)
		}

		users, err := openUsers()
		if err != nil {
			return err
		}

		user := &model.User{Name: name, Email: email, Role: constants.Role(role)}
		if err := users.Create(cmd.Context(), user); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), user.ID)
		return nil
	},
}

var userSetPushTokenCmd = &cobra.Command{
	Use:   "set-push-token",
	Short: "Register or clear a user's Expo push token",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		token, _ := cmd.Flags().GetString("token")

		users, err := openUsers()
		if err != nil {
			return err
		}

		user, err := users.FindByEmail(cmd.Context(), email)
		if err != nil {
			return err
		}

		var value *string
		if token != "" {
			value = &token
		}
		return users.SetPushToken(cmd.Context(), user.ID, value)
	},
}

func openUsers() (*repository.UserRepository, error) {
	cfg := config.Load()
	db, err := config.NewDatabase(cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	return repository.NewUserRepository(db), nil
}

func init() {
	userCreateCmd.Flags().String("name", "", "display name")
	userCreateCmd.Flags().String("email", "", "unique email address")
	userCreateCmd.Flags().String("role", string(constants.RoleUser), "ADMIN or USER")
	_ = userCreateCmd.MarkFlagRequired("name")
	_ = userCreateCmd.MarkFlagRequired("email")

	userSetPushTokenCmd.Flags().String("email", "", "email of the user")
	userSetPushTokenCmd.Flags().String("token", "", "Expo push token; empty clears it")
	_ = userSetPushTokenCmd.MarkFlagRequired("email")

	userCmd.AddCommand(userCreateCmd, userSetPushTokenCmd)
	rootCmd.AddCommand(userCmd)
}
