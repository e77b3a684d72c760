package commands

import (
	"os"

	"github.com/SpiceSniper/port-explorer/internal/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// creates and returns the "clean" command
func clean() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Removes the history database and scan logs",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.New()

			dbFile, ok := viper.Get("database-file").(string)

			if ok && dbFile != "" {
				if err := os.Remove(dbFile); err != nil && !os.IsNotExist(err) {
					return err
				}
				log.Info().Msg("removed database file")
			}

			logDir, ok := viper.Get("log-dir").(string)

			if ok && logDir != "" {
				if err := os.RemoveAll(logDir); err != nil {
					return err
				}
				log.Info().Msg("removed scan logs")
			}

			logFile, ok := viper.Get("log-file").(string)

			if ok && logFile != "" {
				if err := os.RemoveAll(logFile); err != nil {
					return err
				}
				log.Info().Msg("removed log file")
			}

			return nil
		},
	}

	return cmd
}
