package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/mikepea/boxfinder/pkg/boxfinder/config"
	"github.com/mikepea/boxfinder/pkg/boxfinder/logging"
	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"
)

const programName = "boxfinder"

var globalFlags = struct {
	debug      bool
	configFile string
}{}

func slogPrintf(format string, v ...any) {
	slog.Info(fmt.Sprintf(format, v...), "component", programName)
}

// commonRun loads the configuration and installs the logger
func commonRun() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(globalFlags.configFile)
	if err != nil {
		return nil, nil, err
	}

	level := cfg.LogLevel
	if globalFlags.debug {
		level = "debug"
	}
	logger := logging.Setup(logging.Options{Level: level, AddSource: globalFlags.debug})

	if _, err := maxprocs.Set(maxprocs.Logger(slogPrintf)); err != nil {
		return nil, nil, fmt.Errorf("failed to set GOMAXPROCS: %w", err)
	}
	return cfg, logger, nil
}

// @title Boxfinder API
// @version 1.0
// @description Gym directory search and visitor onboarding.

// @contact.name Boxfinder Support
// @contact.url https://github.com/mikepea/boxfinder

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Onboarding session token, or the admin token for import and export. Format: "Bearer {token}"
func main() {
	rootCmd := &cobra.Command{
		Use:          programName,
		Short:        "Box directory search and onboarding service",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().
		BoolVarP(&globalFlags.debug, "debug", "D", false, "enable debug logging")
	rootCmd.PersistentFlags().
		StringVar(&globalFlags.configFile, "config", "", "path to config file")

	rootCmd.AddCommand(serveCommand(), importCommand())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
