package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"childcare-tasks.com/childcare-tasks/internal/auth"
	config "childcare-tasks.com/childcare-tasks/internal/configs"
	repository "childcare-tasks.com/childcare-tasks/internal/repositories"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")

		cfg := config.Load()
		db, err := config.NewDatabase(cfg.DatabaseDSN)
		if err != nil {
			return err
		}

		user, err := repository.NewUserRepository(db).FindByEmail(cmd.Context(), email)
		if err != nil {
			return err
		}

		token, err := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL()).Issue(auth.Actor{ID: user.ID, Role: user.Role})
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().String("email", "", "email of the user")
	_ = tokenCmd.MarkFlagRequired("email")
	rootCmd.AddCommand(tokenCmd)
}
