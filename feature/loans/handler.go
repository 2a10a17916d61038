package loans

import (
	"context"
	"errors"
	"time"

	"ppe-manager/core/logger"
	"ppe-manager/core/stock"
	"ppe-manager/core/utils"
	"ppe-manager/feature/loans/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Handler handles HTTP requests for loans and requests.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the loan and request routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	loans := app.Group("/loans")
	loans.Get("/", h.HandleList)
	loans.Post("/", h.HandleCreate)
	loans.Get("/:id", h.HandleGet)
	loans.Put("/:id", h.HandleUpdate)
	loans.Delete("/:id", h.HandleDelete)
	loans.Post("/:id/return", h.HandleReturn)
	loans.Post("/:id/lost", h.HandleLost)
	loans.Post("/:id/damaged", h.HandleDamaged)

	reqs := app.Group("/requests")
	reqs.Get("/", h.HandleListRequests)
	reqs.Post("/", h.HandleCreateRequest)
	reqs.Get("/:id", h.HandleGetRequest)
	reqs.Post("/:id/approve", h.HandleApprove)
	reqs.Post("/:id/reject", h.HandleReject)
	reqs.Post("/:id/cancel", h.HandleCancel)
	reqs.Post("/:id/fulfill", h.HandleFulfill)
}

// statusFor maps service errors to HTTP statuses. Stock rejections are
// conflicts, not server faults.
func statusFor(err error) int {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, stock.ErrInsufficientStock):
		return fiber.StatusConflict
	case errors.Is(err, ErrInvalidTransition):
		return fiber.StatusConflict
	case errors.Is(err, stock.ErrLockTimeout):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// HandleList lists loans.
// @Summary List Loans
// @Tags loans
// @Produce json
// @Param worker query int false "Worker ID"
// @Param item query int false "Item ID"
// @Param status query string false "Loan status"
// @Param q query string false "Free-text filter over worker and item"
// @Param page query int false "Page number (10 per page)"
// @Success 200 {array} models.Loan
// @Router /loans [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	f := ListFilter{
		WorkerID: uint(utils.ToInt(c.Query("worker"))),
		ItemID:   uint(utils.ToInt(c.Query("item"))),
		Status:   stock.Status(c.Query("status")),
		Query:    c.Query("q"),
		Page:     utils.ToInt(c.Query("page")),
	}

	ls, err := h.service.List(c.Context(), f)
	if err != nil {
		l := logger.WithRayID(h.service.logger, c)
		l.Error("Loan listing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(ls)
}

// HandleCreate creates a loan and debits stock.
// @Summary Create Loan
// @Description Creates a loan record and applies its stock effect in one transaction.
// @Tags loans
// @Accept json
// @Produce json
// @Param loan body CreateLoanInput true "Loan"
// @Success 201 {object} models.Loan
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 409 {object} map[string]string "Insufficient stock"
// @Router /loans [post]
func (h *Handler) HandleCreate(c *fiber.Ctx) error {
	var in CreateLoanInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	loan, err := h.service.Create(c.Context(), in)
	if err != nil {
		if errors.Is(err, stock.ErrInsufficientStock) || errors.Is(err, stock.ErrLockTimeout) {
			return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(loan)
}

// HandleGet returns one loan.
// @Summary Get Loan
// @Tags loans
// @Produce json
// @Param id path int true "Loan ID"
// @Success 200 {object} models.Loan
// @Failure 404 {object} map[string]string "Not Found"
// @Router /loans/{id} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	id := uint(utils.ToInt(c.Params("id")))

	loan, err := h.service.Get(c.Context(), id)
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(loan)
}

// HandleUpdate edits a loan and reconciles the stock difference.
// @Summary Update Loan
// @Description Changes to status, quantity or item apply only the net stock difference.
// @Tags loans
// @Accept json
// @Produce json
// @Param id path int true "Loan ID"
// @Param loan body UpdateLoanInput true "Fields to update"
// @Success 200 {object} models.Loan
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 409 {object} map[string]string "Insufficient stock"
// @Router /loans/{id} [put]
func (h *Handler) HandleUpdate(c *fiber.Ctx) error {
	id := uint(utils.ToInt(c.Params("id")))

	var in UpdateLoanInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	loan, err := h.service.Update(c.Context(), id, in)
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(loan)
}

// HandleDelete removes a loan and reverses its stock effect.
// @Summary Delete Loan
// @Tags loans
// @Param id path int true "Loan ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /loans/{id} [delete]
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	id := uint(utils.ToInt(c.Params("id")))

	if err := h.service.Delete(c.Context(), id); err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type closeBody struct {
	Note string `json:"note"`
}

// HandleReturn closes a loan as returned.
// @Summary Return Loan
// @Tags loans
// @Accept json
// @Produce json
// @Param id path int true "Loan ID"
// @Param body body closeBody false "Return note"
// @Success 200 {object} models.Loan
// @Failure 409 {object} map[string]string "Already closed"
// @Router /loans/{id}/return [post]
func (h *Handler) HandleReturn(c *fiber.Ctx) error {
	return h.handleClose(c, h.service.MarkReturned)
}

// HandleLost closes a loan as lost.
// @Summary Mark Loan Lost
// @Tags loans
// @Accept json
// @Produce json
// @Param id path int true "Loan ID"
// @Param body body closeBody false "Note"
// @Success 200 {object} models.Loan
// @Failure 409 {object} map[string]string "Already closed"
// @Router /loans/{id}/lost [post]
func (h *Handler) HandleLost(c *fiber.Ctx) error {
	return h.handleClose(c, h.service.MarkLost)
}

// HandleDamaged closes a loan as damaged.
// @Summary Mark Loan Damaged
// @Tags loans
// @Accept json
// @Produce json
// @Param id path int true "Loan ID"
// @Param body body closeBody false "Note"
// @Success 200 {object} models.Loan
// @Failure 409 {object} map[string]string "Already closed"
// @Router /loans/{id}/damaged [post]
func (h *Handler) HandleDamaged(c *fiber.Ctx) error {
	return h.handleClose(c, h.service.MarkDamaged)
}

func (h *Handler) handleClose(c *fiber.Ctx, fn func(ctx context.Context, id uint, note string) (*models.Loan, error)) error {
	id := uint(utils.ToInt(c.Params("id")))

	var body closeBody
	_ = c.BodyParser(&body)

	loan, err := fn(c.Context(), id, body.Note)
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(loan)
}

// HandleListRequests lists equipment requests.
// @Summary List Requests
// @Tags requests
// @Produce json
// @Param worker query int false "Worker ID"
// @Param status query string false "Request status"
// @Param page query int false "Page number (10 per page)"
// @Success 200 {array} models.Request
// @Router /requests [get]
func (h *Handler) HandleListRequests(c *fiber.Ctx) error {
	f := RequestFilter{
		WorkerID: uint(utils.ToInt(c.Query("worker"))),
		Status:   models.RequestStatus(c.Query("status")),
		Page:     utils.ToInt(c.Query("page")),
	}

	rs, err := h.service.ListRequests(c.Context(), f)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(rs)
}

// HandleCreateRequest records a pending request.
// @Summary Create Request
// @Tags requests
// @Accept json
// @Produce json
// @Param request body CreateRequestInput true "Request"
// @Success 201 {object} models.Request
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /requests [post]
func (h *Handler) HandleCreateRequest(c *fiber.Ctx) error {
	var in CreateRequestInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	req, err := h.service.CreateRequest(c.Context(), in)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(req)
}

// HandleGetRequest returns one request.
// @Summary Get Request
// @Tags requests
// @Produce json
// @Param id path int true "Request ID"
// @Success 200 {object} models.Request
// @Failure 404 {object} map[string]string "Not Found"
// @Router /requests/{id} [get]
func (h *Handler) HandleGetRequest(c *fiber.Ctx) error {
	id := uint(utils.ToInt(c.Params("id")))

	req, err := h.service.GetRequest(c.Context(), id)
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(req)
}

// HandleApprove approves a pending request.
// @Summary Approve Request
// @Tags requests
// @Produce json
// @Param id path int true "Request ID"
// @Success 200 {object} models.Request
// @Failure 409 {object} map[string]string "Not pending"
// @Router /requests/{id}/approve [post]
func (h *Handler) HandleApprove(c *fiber.Ctx) error {
	return h.handleTransition(c, h.service.ApproveRequest)
}

// HandleReject rejects a pending request.
// @Summary Reject Request
// @Tags requests
// @Produce json
// @Param id path int true "Request ID"
// @Success 200 {object} models.Request
// @Failure 409 {object} map[string]string "Not pending"
// @Router /requests/{id}/reject [post]
func (h *Handler) HandleReject(c *fiber.Ctx) error {
	return h.handleTransition(c, h.service.RejectRequest)
}

// HandleCancel cancels a pending or approved request.
// @Summary Cancel Request
// @Tags requests
// @Produce json
// @Param id path int true "Request ID"
// @Success 200 {object} models.Request
// @Failure 409 {object} map[string]string "Not cancellable"
// @Router /requests/{id}/cancel [post]
func (h *Handler) HandleCancel(c *fiber.Ctx) error {
	return h.handleTransition(c, h.service.CancelRequest)
}

func (h *Handler) handleTransition(c *fiber.Ctx, fn func(ctx context.Context, id uint) (*models.Request, error)) error {
	id := uint(utils.ToInt(c.Params("id")))

	req, err := fn(c.Context(), id)
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(req)
}

type fulfillBody struct {
	DueAt *time.Time `json:"due_at"`
}

// HandleFulfill turns an approved request into an issued loan.
// @Summary Fulfill Request
// @Description Creates an ISSUED loan and debits stock; on insufficient stock the request stays approved.
// @Tags requests
// @Accept json
// @Produce json
// @Param id path int true "Request ID"
// @Param body body fulfillBody false "Due date"
// @Success 201 {object} models.Loan
// @Failure 409 {object} map[string]string "Not approved or insufficient stock"
// @Router /requests/{id}/fulfill [post]
func (h *Handler) HandleFulfill(c *fiber.Ctx) error {
	id := uint(utils.ToInt(c.Params("id")))

	var body fulfillBody
	_ = c.BodyParser(&body)

	loan, err := h.service.FulfillRequest(c.Context(), id, body.DueAt)
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(loan)
}
