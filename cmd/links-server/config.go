package main

import (
	"os"
	"path/filepath"

	"github.com/AR-26710/plugin-links/pkg/links/config"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with default values",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := filepath.Abs(configPath)
		if err != nil {
			return errors.Wrap(err, "resolve config path failed")
		}
		if _, err := os.Stat(path); err == nil {
			return errors.Errorf("config file %s already exists", path)
		}

		cfg, err := config.Default()
		if err != nil {
			return err
		}
		cfg.File = path
		if err := cfg.Save(); err != nil {
			return err
		}
		bootstrapLogger.Info("config file created", zap.String("path", path))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
