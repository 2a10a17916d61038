package catalog

import (
	"errors"

	"ppe-manager/core/logger"
	"ppe-manager/core/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Handler handles HTTP requests for the catalog.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the catalog routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	items := app.Group("/items")
	items.Get("/", h.HandleListItems)
	items.Get("/low-stock", h.HandleLowStock)
	items.Post("/", h.HandleCreateItem)
	items.Get("/:id", h.HandleGetItem)
	items.Put("/:id", h.HandleUpdateItem)
	items.Delete("/:id", h.HandleDeleteItem)

	cats := app.Group("/categories")
	cats.Get("/", h.HandleListCategories)
	cats.Post("/", h.HandleCreateCategory)
}

// HandleListItems lists catalog items.
// @Summary List Items
// @Description List catalog items with optional filters.
// @Tags catalog
// @Produce json
// @Param q query string false "Free-text filter over code and name"
// @Param category query int false "Category ID"
// @Param active query bool false "Active items only"
// @Param page query int false "Page number (10 per page)"
// @Success 200 {array} models.Item
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /items [get]
func (h *Handler) HandleListItems(c *fiber.Ctx) error {
	f := ListFilter{
		Query:      c.Query("q"),
		CategoryID: uint(utils.ToInt(c.Query("category"))),
		ActiveOnly: utils.ToBool(c.Query("active")),
		Page:       utils.ToInt(c.Query("page")),
	}

	items, err := h.service.ListItems(c.Context(), f)
	if err != nil {
		l := logger.WithRayID(h.service.logger, c)
		l.Error("Item listing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(items)
}

// HandleLowStock lists items below their minimum stock.
// @Summary List Low-Stock Items
// @Description List active items whose stock fell below the configured minimum.
// @Tags catalog
// @Produce json
// @Success 200 {array} models.Item
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /items/low-stock [get]
func (h *Handler) HandleLowStock(c *fiber.Ctx) error {
	items, err := h.service.LowStock(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(items)
}

// HandleCreateItem creates a catalog item.
// @Summary Create Item
// @Tags catalog
// @Accept json
// @Produce json
// @Param item body CreateItemInput true "Item"
// @Success 201 {object} models.Item
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /items [post]
func (h *Handler) HandleCreateItem(c *fiber.Ctx) error {
	var in CreateItemInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	item, err := h.service.CreateItem(c.Context(), in)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// HandleGetItem returns one item.
// @Summary Get Item
// @Tags catalog
// @Produce json
// @Param id path int true "Item ID"
// @Success 200 {object} models.Item
// @Failure 404 {object} map[string]string "Not Found"
// @Router /items/{id} [get]
func (h *Handler) HandleGetItem(c *fiber.Ctx) error {
	id := uint(utils.ToInt(c.Params("id")))

	item, err := h.service.GetItem(c.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "item not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(item)
}

// HandleUpdateItem updates an item's mutable fields (never stock).
// @Summary Update Item
// @Tags catalog
// @Accept json
// @Produce json
// @Param id path int true "Item ID"
// @Param item body UpdateItemInput true "Fields to update"
// @Success 200 {object} models.Item
// @Failure 404 {object} map[string]string "Not Found"
// @Router /items/{id} [put]
func (h *Handler) HandleUpdateItem(c *fiber.Ctx) error {
	id := uint(utils.ToInt(c.Params("id")))

	var in UpdateItemInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	item, err := h.service.UpdateItem(c.Context(), id, in)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "item not found"})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(item)
}

// HandleDeleteItem removes an item without loan references.
// @Summary Delete Item
// @Tags catalog
// @Produce json
// @Param id path int true "Item ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 409 {object} map[string]string "Item has loans"
// @Router /items/{id} [delete]
func (h *Handler) HandleDeleteItem(c *fiber.Ctx) error {
	id := uint(utils.ToInt(c.Params("id")))

	if err := h.service.DeleteItem(c.Context(), id); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "item not found"})
		case errors.Is(err, ErrItemInUse):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleListCategories lists categories.
// @Summary List Categories
// @Tags catalog
// @Produce json
// @Success 200 {array} models.Category
// @Router /categories [get]
func (h *Handler) HandleListCategories(c *fiber.Ctx) error {
	cats, err := h.service.ListCategories(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(cats)
}

// HandleCreateCategory creates a category.
// @Summary Create Category
// @Tags catalog
// @Accept json
// @Produce json
// @Param category body object true "Category name"
// @Success 201 {object} models.Category
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /categories [post]
func (h *Handler) HandleCreateCategory(c *fiber.Ctx) error {
	var in struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	cat, err := h.service.CreateCategory(c.Context(), in.Name)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(cat)
}
