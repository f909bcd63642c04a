package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"ads-reconciler/core/loader"
	"ads-reconciler/core/logger"
	"ads-reconciler/core/middleware/auth"
	"ads-reconciler/core/middleware/rayid"

	"ads-reconciler/feature/currentstate"
	"ads-reconciler/feature/integrity"
	"ads-reconciler/feature/reconciliation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "ads-reconciler/docs/swagger"
)

// @title Ads Reconciler API
// @version 1.0
// @description API for reconciling creation manifests and resolving current entity state.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the ads reconciler server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := bootstrap()
		if err != nil {
			return err
		}
		defer svc.close()

		logg := svc.logger.With(zap.String("account_id", svc.cfg.Reconcile.AccountID))
		zap.ReplaceGlobals(logg)

		runner, err := svc.runner(cmd.Context())
		if err != nil {
			return err
		}

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		mgr := loader.NewManager(logg)
		mgr.Register(reconciliation.NewFeature(runner, logg))
		mgr.Register(currentstate.NewFeature(svc.resolver(), logg))
		mgr.Register(integrity.NewFeature(svc.db, schemaModels(), runner.Store, svc.repo, svc.cfg.Reconcile.AccountID, logg))

		// RayID first so that every later log line is traceable
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// Public documentation
		app.Get("/swagger/*", swagger.HandlerDefault)

		if !svc.cfg.Server.AuthEnabled() {
			logg.Warn("API key not set, requests are not authenticated")
		}
		app.Use(auth.New(auth.Config{ApiKey: svc.cfg.Server.ApiKey}))

		if err := mgr.LoadAll(app); err != nil {
			return err
		}

		errCh := make(chan error, 1)
		go func() {
			logg.Info("Starting server", zap.String("port", svc.cfg.Server.Port))
			errCh <- app.Listen(svc.cfg.Server.Addr())
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		select {
		case err := <-errCh:
			return err
		case <-c:
		}

		logg.Info("Shutting down server...")
		return app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
