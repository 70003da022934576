package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AR-26710/plugin-links/pkg/links/console"
	"github.com/AR-26710/plugin-links/pkg/links/server"
	"github.com/AR-26710/plugin-links/pkg/links/store"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func init() {
	var port string

	serveCmd := &cobra.Command{
		Use:   "serve [-c config_file] [-p port]",
		Short: "Run the HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			if port != "" {
				if err := os.Setenv("PORT", port); err != nil {
					return err
				}
			}

			rt, err := openRuntime()
			if err != nil {
				bootstrapLogger.Error("service start failed", zap.Error(err))
				return err
			}
			defer rt.close()

			return serve(rt)
		},
	}

	serveCmd.Flags().StringVarP(&port, "port", "p", "", "listen port, overrides PORT")
	rootCmd.AddCommand(serveCmd)
}

func serve(rt *runtime) error {
	gin.SetMode(rt.cfg.Server.RunMode)

	router, err := server.NewRouter(server.Options{
		Store: store.NewGormStore(rt.db, rt.logger),
		Pagination: console.PaginationConfig{
			DefaultPageSize: rt.cfg.Pagination.DefaultPageSize,
			MaxPageSize:     rt.cfg.Pagination.MaxPageSize,
		},
		Logger:  rt.logger,
		RunMode: rt.cfg.Server.RunMode,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         rt.cfg.Server.HttpPort,
		Handler:      router,
		ReadTimeout:  time.Duration(rt.cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(rt.cfg.Server.WriteTimeout) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		rt.logger.Info("api service started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if err != nil {
			return errors.Wrap(err, "listen")
		}
		return nil
	case sig := <-quit:
		rt.logger.Info("received shutdown signal, shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(rt.cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	rt.logger.Info("service has been shut down gracefully")
	return nil
}
