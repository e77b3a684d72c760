package main

import (
	"context"
	"errors"
	"os"
	"path"

	"github.com/SpiceSniper/port-explorer/cli/commands"
	app_info "github.com/SpiceSniper/port-explorer/internal/app-info"
	"github.com/SpiceSniper/port-explorer/internal/logger"
	"github.com/SpiceSniper/port-explorer/internal/util"
	"github.com/spf13/viper"
)

/**
 * Main entry point for all commands
 * Here we setup environment config via viper
 */

func setRunTimeConfig() error {
	userCacheDir, err := os.UserCacheDir()

	if err != nil {
		return err
	}

	cacheDir := path.Join(userCacheDir, app_info.NAME)

	if err := os.MkdirAll(cacheDir, 0755); err != nil && !errors.Is(err, os.ErrExist) {
		return err
	}

	// scan inputs are resolved relative to the working directory;
	// only the history database lives in the user cache
	viper.Set("config-file", "config.yaml")
	viper.Set("signatures-dir", "signatures")
	viper.Set("locale-dir", path.Join("resources", "localisation"))
	viper.Set("log-dir", "logs")
	viper.Set("log-file", path.Join(cacheDir, app_info.NAME+".log"))
	viper.Set("database-file", path.Join(cacheDir, app_info.NAME+".db"))

	return nil
}

// Entry point for the cli
func main() {
	log := logger.New()

	err := setRunTimeConfig()

	if err != nil {
		log.Fatal().Err(err).Msg("")
	}

	app, err := util.CreateApp()

	if err != nil {
		log.Fatal().Err(err).Msg("")
	}

	// Get the "root" cobra cli command
	cmd := commands.Root(&commands.CommandProps{
		App: app,
	})

	// Allows "grepping" of command output
	cmd.SetOutput(os.Stdout)

	// execute the cobra command and exit with error code if necessary
	err = cmd.ExecuteContext(context.Background())

	if err != nil {
		log.Fatal().Err(err).Msg("")
	}
}
