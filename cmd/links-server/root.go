package main

import (
	"fmt"
	"os"

	"github.com/AR-26710/plugin-links/pkg/links/config"
	"github.com/AR-26710/plugin-links/pkg/links/database"
	"github.com/AR-26710/plugin-links/pkg/links/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	configPath      string
	bootstrapLogger = logger.Bootstrap()
)

var rootCmd = &cobra.Command{
	Use:           "links-server",
	Short:         "Links console service",
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "config file")
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runtime is what every data command needs: config, logger and database
type runtime struct {
	cfg      *config.AppConfig
	logger   *zap.Logger
	closeLog func()
	db       *gorm.DB
}

func openRuntime() (*runtime, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	log, closeLog, err := logger.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		closeLog()
		return nil, err
	}
	log.Info("database connected",
		zap.String("type", cfg.Database.Type),
		zap.Bool("auto-migrate", cfg.Database.AutoMigrate),
	)

	return &runtime{cfg: cfg, logger: log, closeLog: closeLog, db: db}, nil
}

func (r *runtime) close() {
	if err := database.Close(r.db); err != nil {
		r.logger.Warn("close database failed", zap.Error(err))
	}
	_ = r.logger.Sync()
	r.closeLog()
}
