package product

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/wichananm65/online-shop-web/internal/interface/presenter"
	"github.com/wichananm65/online-shop-web/internal/user"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes must run before RegisterProtectedRoutes so that
// /api/product/search is not taken for a product id.
func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/product", h.getProducts)
	app.Get("/api/product/search", h.searchProducts)
	app.Get("/api/product/:id", h.getProduct)
	app.Get("/api/product/:id/photo", h.getPhoto)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/product/seller/:username", h.getSellerProducts)
	app.Post("/api/product", h.createProduct)
	app.Put("/api/product/:id", h.updateProduct)
	app.Delete("/api/product/:id", h.deleteProduct)
	app.Post("/api/product/:id/photo", h.uploadPhoto)
}

func (h *Handler) getProducts(c *fiber.Ctx) error {
	products, err := h.service.List()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(products)
}

func (h *Handler) searchProducts(c *fiber.Ctx) error {
	page, size := presenter.PageParams(c)
	res, err := h.service.Search(c.Query("query"), page, size)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

func (h *Handler) getProduct(c *fiber.Ctx) error {
	p, err := h.service.GetByID(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(p)
}

func (h *Handler) getPhoto(c *fiber.Ctx) error {
	data, contentType, err := h.service.Photo(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, contentType)
	return c.Send(data)
}

func (h *Handler) getSellerProducts(c *fiber.Ctx) error {
	if _, err := user.GetUsernameFromCtx(c); err != nil {
		return presenter.Unauthorized(c)
	}
	products, err := h.service.ListBySeller(c.Params("username"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(products)
}

func (h *Handler) createProduct(c *fiber.Ctx) error {
	seller, ok := requireSeller(c)
	if !ok {
		return nil
	}

	payload := new(Request)
	if err := c.BodyParser(payload); err != nil {
		return presenter.Error(c, fiber.StatusBadRequest, "Request body is not valid.")
	}

	created, err := h.service.Create(seller, *payload)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) updateProduct(c *fiber.Ctx) error {
	seller, ok := requireSeller(c)
	if !ok {
		return nil
	}

	payload := new(Request)
	if err := c.BodyParser(payload); err != nil {
		return presenter.Error(c, fiber.StatusBadRequest, "Request body is not valid.")
	}

	updated, err := h.service.Update(seller, c.Params("id"), *payload)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(updated)
}

func (h *Handler) deleteProduct(c *fiber.Ctx) error {
	seller, ok := requireSeller(c)
	if !ok {
		return nil
	}
	if err := h.service.Delete(seller, c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return presenter.Status(c, fiber.StatusOK)
}

func (h *Handler) uploadPhoto(c *fiber.Ctx) error {
	seller, ok := requireSeller(c)
	if !ok {
		return nil
	}

	data, contentType, err := presenter.Photo(c)
	if err != nil {
		return presenter.Error(c, fiber.StatusBadRequest, presenter.PhotoMessage(err))
	}
	if err := h.service.SetPhoto(seller, c.Params("id"), data, contentType); err != nil {
		return writeError(c, err)
	}
	return presenter.Status(c, fiber.StatusOK)
}

// requireSeller returns the caller's username when the token carries the
// seller role. Otherwise it writes the rejection and reports false.
func requireSeller(c *fiber.Ctx) (string, bool) {
	username, err := user.GetUsernameFromCtx(c)
	if err != nil {
		presenter.Unauthorized(c)
		return "", false
	}
	if !user.HasRoleInCtx(c, user.RoleSeller.Name) {
		user.Forbidden(c)
		return "", false
	}
	return username, true
}

func writeError(c *fiber.Ctx, err error) error {
	var invalid *presenter.ValidationError
	switch {
	case errors.As(err, &invalid):
		return presenter.Fields(c, invalid.Fields)
	case errors.Is(err, ErrNotFound):
		return presenter.Error(c, fiber.StatusNotFound, "Product not found.")
	case errors.Is(err, ErrNoPhoto):
		return presenter.Error(c, fiber.StatusNotFound, "Photo not found.")
	case errors.Is(err, ErrForbidden):
		return user.Forbidden(c)
	}
	log.Errorf("devapi: %s %s: %v", c.Method(), c.Path(), err)
	return presenter.Error(c, fiber.StatusInternalServerError, "Something went wrong.")
}
