package integrity

import (
	"github.com/gofiber/fiber/v2"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleRunAll)
	group.Get("/:name", h.HandleRun)
	group.Post("/:name/fix", h.HandleFix)
}

// HandleRunAll runs every check.
// @Summary Run Integrity Checks
// @Description Runs all checks; responds 503 when any check fails.
// @Tags integrity
// @Produce json
// @Success 200 {array} Result
// @Failure 503 {array} Result "A check failed"
// @Router /integrity [get]
func (h *Handler) HandleRunAll(c *fiber.Ctx) error {
	results, worst := h.service.RunAll(c.Context())
	status := fiber.StatusOK
	if worst == StatusFail {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(results)
}

// HandleRun runs one check.
// @Summary Run One Integrity Check
// @Tags integrity
// @Produce json
// @Param name path string true "Check name"
// @Success 200 {object} Result
// @Failure 404 {object} map[string]string "Unknown check"
// @Router /integrity/{name} [get]
func (h *Handler) HandleRun(c *fiber.Ctx) error {
	res, err := h.service.Run(c.Context(), c.Params("name"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(res)
}

// HandleFix repairs what a check detects.
// @Summary Fix Integrity Check
// @Description Repairs the checked condition, for checks that support it.
// @Tags integrity
// @Produce json
// @Param name path string true "Check name"
// @Success 200 {object} Result
// @Failure 400 {object} map[string]string "Check cannot be fixed"
// @Router /integrity/{name}/fix [post]
func (h *Handler) HandleFix(c *fiber.Ctx) error {
	name := c.Params("name")
	if err := h.service.Fix(c.Context(), name); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	res, err := h.service.Run(c.Context(), name)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(res)
}
