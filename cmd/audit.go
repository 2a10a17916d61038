package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"ppe-manager/core/config"
	"ppe-manager/core/database"
	"ppe-manager/core/stock"
	catalogModels "ppe-manager/feature/catalog/models"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var auditJSON bool

// auditPosition is one item's line in the audit report.
type auditPosition struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	Stock        int    `json:"stock"`
	MinStock     int    `json:"min_stock"`
	Outstanding  int    `json:"outstanding"`
	Damaged      int    `json:"damaged"`
	Lost         int    `json:"lost"`
	BelowMinimum bool   `json:"below_minimum"`
	Negative     bool   `json:"negative"`
}

// auditCmd represents the audit command
var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Print the per-item stock position",
	Long: `Reports each item's stock counter next to the quantity still out on
open loans, flagging items below their minimum or with a negative counter.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		db, err := database.Connect(cfg.Database)
		if err != nil {
			return err
		}

		positions, err := auditPositions(db)
		if err != nil {
			return err
		}

		if auditJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(positions)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CODE\tNAME\tSTOCK\tMIN\tOUT\tDMG\tLOST\tFLAGS")
		for _, p := range positions {
			var flags string
			if p.Negative {
				flags = "NEGATIVE"
			} else if p.BelowMinimum {
				flags = "LOW"
			}
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%d\t%s\n",
				p.Code, p.Name, p.Stock, p.MinStock, p.Outstanding, p.Damaged, p.Lost, flags)
		}
		return w.Flush()
	},
}

func auditPositions(db *gorm.DB) ([]auditPosition, error) {
	var items []catalogModels.Item
	if err := db.Order("code").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to load items: %w", err)
	}

	sumLoans := func(itemID uint, statuses ...stock.Status) (int, error) {
		var total int
		err := db.Table("loans").
			Select("COALESCE(SUM(quantity), 0)").
			Where("item_id = ? AND status IN ?", itemID, statuses).
			Scan(&total).Error
		return total, err
	}

	positions := make([]auditPosition, 0, len(items))
	for _, item := range items {
		// Outstanding counts the loans still expected to come back.
		outstanding, err := sumLoans(item.ID,
			stock.StatusIssued, stock.StatusInUse, stock.StatusProvided)
		if err != nil {
			return nil, fmt.Errorf("failed to sum open loans for %s: %w", item.Code, err)
		}
		damaged, err := sumLoans(item.ID, stock.StatusDamaged)
		if err != nil {
			return nil, fmt.Errorf("failed to sum damaged loans for %s: %w", item.Code, err)
		}
		lost, err := sumLoans(item.ID, stock.StatusLost)
		if err != nil {
			return nil, fmt.Errorf("failed to sum lost loans for %s: %w", item.Code, err)
		}

		positions = append(positions, auditPosition{
			Code:         item.Code,
			Name:         item.Name,
			Stock:        item.Stock,
			MinStock:     item.MinStock,
			Outstanding:  outstanding,
			Damaged:      damaged,
			Lost:         lost,
			BelowMinimum: item.BelowMinimum(),
			Negative:     item.Stock < 0,
		})
	}
	return positions, nil
}

func init() {
	auditCmd.Flags().BoolVar(&auditJSON, "json", false, "print the report as JSON")
	RootCmd.AddCommand(auditCmd)
}
