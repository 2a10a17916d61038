package cmd

import (
	"log"

	"ppe-manager/core/config"
	"ppe-manager/core/database"
	"ppe-manager/core/logger"
	catalogModels "ppe-manager/feature/catalog/models"
	loanModels "ppe-manager/feature/loans/models"
	workerModels "ppe-manager/feature/workers/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Long:  `Runs the schema migrations for all models against the configured database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()

		db, err := database.Connect(cfg.Database)
		if err != nil {
			return err
		}

		err = db.AutoMigrate(
			&catalogModels.Category{},
			&catalogModels.Item{},
			&workerModels.Worker{},
			&loanModels.Request{},
			&loanModels.Loan{},
		)
		if err != nil {
			return err
		}

		logg.Info("Migration complete", zap.String("database", cfg.Database.Name))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(migrateCmd)
}
