package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"childcare-tasks.com/childcare-tasks/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:           "childcare-tasks",
	Short:         "Childcare task service",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := godotenv.Load(); err != nil {
			logger.Log.Debug().Msg(".env file not found, using environment variables")
		}
		logger.Setup(os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL"))
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
