package workers

import (
	"errors"

	"ppe-manager/core/logger"
	"ppe-manager/core/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Handler handles HTTP requests for workers.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the worker routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/workers")
	group.Get("/", h.HandleList)
	group.Post("/", h.HandleCreate)
	group.Get("/:id", h.HandleGet)
	group.Put("/:id", h.HandleUpdate)
	group.Delete("/:id", h.HandleDeactivate)
	group.Post("/:id/photo", h.HandleUploadPhoto)
	group.Get("/:id/photo", h.HandlePhoto)
}

// HandleList lists workers.
// @Summary List Workers
// @Tags workers
// @Produce json
// @Param q query string false "Free-text filter over name, email and badge"
// @Param active query bool false "Active workers only"
// @Param page query int false "Page number (10 per page)"
// @Success 200 {array} models.Worker
// @Router /workers [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	f := ListFilter{
		Query:      c.Query("q"),
		ActiveOnly: utils.ToBool(c.Query("active")),
		Page:       utils.ToInt(c.Query("page")),
	}

	ws, err := h.service.List(c.Context(), f)
	if err != nil {
		l := logger.WithRayID(h.service.logger, c)
		l.Error("Worker listing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(ws)
}

// HandleCreate creates a worker.
// @Summary Create Worker
// @Tags workers
// @Accept json
// @Produce json
// @Param worker body CreateWorkerInput true "Worker"
// @Success 201 {object} models.Worker
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /workers [post]
func (h *Handler) HandleCreate(c *fiber.Ctx) error {
	var in CreateWorkerInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	w, err := h.service.Create(c.Context(), in)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(w)
}

// HandleGet returns one worker.
// @Summary Get Worker
// @Tags workers
// @Produce json
// @Param id path int true "Worker ID"
// @Success 200 {object} models.Worker
// @Failure 404 {object} map[string]string "Not Found"
// @Router /workers/{id} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	id := uint(utils.ToInt(c.Params("id")))

	w, err := h.service.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "worker not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(w)
}

// HandleUpdate updates a worker.
// @Summary Update Worker
// @Tags workers
// @Accept json
// @Produce json
// @Param id path int true "Worker ID"
// @Param worker body UpdateWorkerInput true "Fields to update"
// @Success 200 {object} models.Worker
// @Failure 404 {object} map[string]string "Not Found"
// @Router /workers/{id} [put]
func (h *Handler) HandleUpdate(c *fiber.Ctx) error {
	id := uint(utils.ToInt(c.Params("id")))

	var in UpdateWorkerInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	w, err := h.service.Update(c.Context(), id, in)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "worker not found"})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(w)
}

// HandleDeactivate marks a worker inactive.
// @Summary Deactivate Worker
// @Description Workers are never hard-deleted; loan history references them.
// @Tags workers
// @Param id path int true "Worker ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /workers/{id} [delete]
func (h *Handler) HandleDeactivate(c *fiber.Ctx) error {
	id := uint(utils.ToInt(c.Params("id")))

	if err := h.service.Deactivate(c.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "worker not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleUploadPhoto stores a worker photo.
// @Summary Upload Worker Photo
// @Tags workers
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Worker ID"
// @Param photo formData file true "Photo file"
// @Success 200 {object} map[string]string "Object key"
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /workers/{id}/photo [post]
func (h *Handler) HandleUploadPhoto(c *fiber.Ctx) error {
	id := uint(utils.ToInt(c.Params("id")))

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "photo file is required"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "failed to open upload"})
	}
	defer file.Close()

	key, err := h.service.UploadPhoto(
		c.Context(), id,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file, fileHeader.Size,
	)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "worker not found"})
		}
		l := logger.WithRayID(h.service.logger, c)
		l.Error("Photo upload failed", zap.Uint("worker_id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"key": key})
}

// HandlePhoto streams the worker's photo.
// @Summary Get Worker Photo
// @Tags workers
// @Produce octet-stream
// @Param id path int true "Worker ID"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]string "Not Found"
// @Router /workers/{id}/photo [get]
func (h *Handler) HandlePhoto(c *fiber.Ctx) error {
	id := uint(utils.ToInt(c.Params("id")))

	reader, err := h.service.Photo(c.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "photo not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStream(reader)
}
