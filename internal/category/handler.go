package category

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/wichananm65/online-shop-web/internal/interface/presenter"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/category", h.getCategories)
}

func (h *Handler) getCategories(c *fiber.Ctx) error {
	items, err := h.service.List()
	if err != nil {
		log.Errorf("devapi: list categories: %v", err)
		return presenter.Error(c, fiber.StatusInternalServerError, "Something went wrong.")
	}
	return c.JSON(items)
}
