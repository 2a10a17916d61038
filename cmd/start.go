package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"ppe-manager/core/config"
	"ppe-manager/core/database"
	"ppe-manager/core/loader"
	"ppe-manager/core/logger"
	"ppe-manager/core/middleware/auth"
	"ppe-manager/core/middleware/rayid"
	"ppe-manager/core/stock"
	"ppe-manager/core/storage"

	"ppe-manager/feature/catalog"
	"ppe-manager/feature/integrity"
	"ppe-manager/feature/loans"
	"ppe-manager/feature/reports"
	"ppe-manager/feature/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "ppe-manager/docs/swagger"
)

// @title PPE Manager API
// @version 1.0
// @description API for managing protective equipment loans and stock.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the PPE manager server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// The database is not optional here; every feature writes to it.
		db, err := database.Connect(cfg.Database)
		if err != nil {
			logg.Fatal("Failed to connect to database", zap.Error(err))
		}

		store, err := storage.NewClient(cfg.Storage)
		if err != nil {
			logg.Fatal("Failed to create storage client", zap.Error(err))
		}

		// One reconciler instance serves the whole process so all loan
		// writes share the same per-item lock table.
		reconciler := stock.NewReconciler(stock.NewLedger(0))

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We log our own startup message
		})

		mgr := loader.NewManager()
		mgr.Register(catalog.NewFeature(db, logg))
		mgr.Register(workers.NewFeature(db, store, cfg.Storage.Bucket, logg))
		mgr.Register(loans.NewFeature(db, reconciler, logg))
		mgr.Register(reports.NewFeature(db, store, cfg.Storage.Bucket, logg))
		mgr.Register(integrity.NewFeature(db, store, cfg.Storage.Bucket, logg))

		// RayID first so every later log line can be traced.
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

		// Swagger stays public; everything behind it needs the API key.
		app.Get("/swagger/*", swagger.HandlerDefault)

		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
