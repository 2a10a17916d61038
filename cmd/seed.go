package cmd

import (
	"context"
	"log"

	"ppe-manager/core/config"
	"ppe-manager/core/database"
	"ppe-manager/core/logger"
	"ppe-manager/core/stock"
	"ppe-manager/feature/catalog"
	catalogModels "ppe-manager/feature/catalog/models"
	"ppe-manager/feature/loans"
	"ppe-manager/feature/workers"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type seedItem struct {
	code     string
	name     string
	category string
	size     string
	stock    int
	minStock int
}

var seedItems = []seedItem{
	{"GLOVE-M", "Nitrile gloves M", "Hand protection", "M", 200, 50},
	{"GLOVE-L", "Nitrile gloves L", "Hand protection", "L", 150, 50},
	{"HELMET", "Safety helmet", "Head protection", "", 40, 10},
	{"GOGGLES", "Safety goggles", "Eye protection", "", 60, 15},
	{"BOOTS-42", "Steel-toe boots 42", "Foot protection", "42", 25, 5},
	{"EARMUFFS", "Hearing protectors", "Hearing protection", "", 30, 8},
}

type seedWorker struct {
	name       string
	badge      string
	email      string
	role       string
	department string
}

var seedWorkers = []seedWorker{
	{"Ana Souza", "B001", "ana.souza@example.com", "Welder", "Fabrication"},
	{"Carlos Lima", "B002", "carlos.lima@example.com", "Electrician", "Maintenance"},
	{"Marina Alves", "B003", "marina.alves@example.com", "Operator", "Assembly"},
}

// seedCmd represents the seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load sample data for development",
	Long: `Inserts a small set of categories, items and workers, then issues a
few loans through the loan service so the stock counters reflect them.`,
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

		ctx := context.Background()
		catalogSvc := catalog.NewService(db, logg)
		workerSvc := workers.NewService(db, nil, cfg.Storage.Bucket, logg)
		loanSvc := loans.NewService(db, stock.NewReconciler(stock.NewLedger(0)), logg)

		categories := map[string]uint{}
		for _, it := range seedItems {
			if _, ok := categories[it.category]; ok {
				continue
			}
			cat, err := catalogSvc.CreateCategory(ctx, it.category)
			if err != nil {
				return err
			}
			categories[it.category] = cat.ID
		}

		var items []catalogModels.Item
		for _, it := range seedItems {
			item, err := catalogSvc.CreateItem(ctx, catalog.CreateItemInput{
				Code:       it.code,
				Name:       it.name,
				CategoryID: categories[it.category],
				Size:       it.size,
				Stock:      it.stock,
				MinStock:   it.minStock,
			})
			if err != nil {
				return err
			}
			items = append(items, *item)
		}

		var workerIDs []uint
		for _, w := range seedWorkers {
			created, err := workerSvc.Create(ctx, workers.CreateWorkerInput{
				Name:       w.name,
				Badge:      w.badge,
				Email:      w.email,
				Role:       w.role,
				Department: w.department,
			})
			if err != nil {
				return err
			}
			workerIDs = append(workerIDs, created.ID)
		}

		// Issue the loans through the service so the counters move the
		// same way they would in production.
		for i, workerID := range workerIDs {
			_, err := loanSvc.Create(ctx, loans.CreateLoanInput{
				WorkerID: workerID,
				ItemID:   items[i%len(items)].ID,
				Quantity: 2,
			})
			if err != nil {
				return err
			}
		}

		logg.Info("Seed complete",
			zap.Int("items", len(items)),
			zap.Int("workers", len(workerIDs)),
		)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(seedCmd)
}
