package reports

import (
	"time"

	"ppe-manager/core/logger"
	"ppe-manager/core/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// parseTime accepts RFC 3339 or a bare date; anything else means no bound.
func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// Handler handles HTTP requests for reports.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the report routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/reports")
	group.Get("/loans.csv", h.HandleLoansCSV)
	group.Get("/stock.csv", h.HandleStockCSV)
	group.Post("/loans/archive", h.HandleArchiveLoans)
	group.Get("/archives", h.HandleListArchives)
	group.Get("/archives/:key", h.HandleDownload)
}

// HandleLoansCSV streams the loans report.
// @Summary Loans Report
// @Description CSV export of loans, newest first.
// @Tags reports
// @Produce text/csv
// @Param status query string false "Loan status"
// @Param worker query int false "Worker ID"
// @Param from query string false "Issue date lower bound (RFC 3339)"
// @Param to query string false "Issue date upper bound (RFC 3339)"
// @Success 200 {string} string "CSV"
// @Router /reports/loans.csv [get]
func (h *Handler) HandleLoansCSV(c *fiber.Ctx) error {
	f := LoansFilter{
		Status:   c.Query("status"),
		WorkerID: uint(utils.ToInt(c.Query("worker"))),
		From:     parseTime(c.Query("from")),
		To:       parseTime(c.Query("to")),
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="loans.csv"`)
	if err := h.service.LoansCSV(c.Context(), c.Response().BodyWriter(), f); err != nil {
		l := logger.WithRayID(h.service.logger, c)
		l.Error("Loans report failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return nil
}

// HandleStockCSV streams the stock report.
// @Summary Stock Report
// @Description CSV export of the current stock position of active items.
// @Tags reports
// @Produce text/csv
// @Success 200 {string} string "CSV"
// @Router /reports/stock.csv [get]
func (h *Handler) HandleStockCSV(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="stock.csv"`)
	if err := h.service.StockCSV(c.Context(), c.Response().BodyWriter()); err != nil {
		l := logger.WithRayID(h.service.logger, c)
		l.Error("Stock report failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return nil
}

// HandleArchiveLoans stores a snapshot of the loans report.
// @Summary Archive Loans Report
// @Tags reports
// @Produce json
// @Success 201 {object} map[string]string "Object key"
// @Router /reports/loans/archive [post]
func (h *Handler) HandleArchiveLoans(c *fiber.Ctx) error {
	key, err := h.service.ArchiveLoans(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"key": key})
}

// HandleListArchives lists stored report snapshots.
// @Summary List Report Archives
// @Tags reports
// @Produce json
// @Success 200 {array} Archive
// @Router /reports/archives [get]
func (h *Handler) HandleListArchives(c *fiber.Ctx) error {
	archives, err := h.service.ListArchives(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(archives)
}

// HandleDownload streams one stored snapshot.
// @Summary Download Report Archive
// @Tags reports
// @Produce text/csv
// @Param key path string true "Archive file name"
// @Success 200 {string} string "CSV"
// @Router /reports/archives/{key} [get]
func (h *Handler) HandleDownload(c *fiber.Ctx) error {
	key := archivePrefix + "/" + c.Params("key")

	reader, err := h.service.Download(c.Context(), key)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "archive not found"})
	}
	c.Set(fiber.HeaderContentType, "text/csv")
	return c.SendStream(reader)
}
