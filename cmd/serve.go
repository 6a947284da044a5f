package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/isomerpages/site-provisioner/internal/infra/db"
	"github.com/isomerpages/site-provisioner/internal/infra/db/repo"
	"github.com/isomerpages/site-provisioner/internal/presentation/rest"
	"github.com/isomerpages/site-provisioner/internal/presentation/scheduler"
	"github.com/isomerpages/site-provisioner/pkg/env"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the webhook endpoints and run the release sweep",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		dbConfig := db.NewConfig()
		pool, err := pgxpool.New(ctx, dbConfig.GetDSN())
		if err != nil {
			return fmt.Errorf("creating pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			return fmt.Errorf("connecting to db: %w", err)
		}
		sites := repo.NewSiteRepo(pool)

		d, err := buildDeps(ctx, sites)
		if err != nil {
			return err
		}

		server := rest.NewServer(d.handlers, rest.NewHMACOpener(), d.logger)
		app := fiber.New(fiber.Config{
			IdleTimeout: 5 * time.Second,
		})
		rest.RegisterHandlers(app, server, d.registry)

		sweep := scheduler.NewReleaseSweep(d.handlers, sites, scheduler.NewSweepConfig(), d.logger)
		go sweep.Start()

		addr := ":" + env.GetEnv("PORT", "8080")
		go func() {
			if err := app.Listen(addr); err != nil {
				d.logger.Error("server stopped", "err", err)
			}
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c

		d.logger.Info("gracefully shutting down")
		_ = app.Shutdown()
		sweep.Stop()
		pool.Close()
		return nil
	},
}
