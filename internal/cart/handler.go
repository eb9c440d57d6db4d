package cart

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/wichananm65/online-shop-web/internal/interface/presenter"
	"github.com/wichananm65/online-shop-web/internal/product"
	"github.com/wichananm65/online-shop-web/internal/user"
)

// Handler delegates cart operations to the cart service.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/cartItem", h.getCart)
	app.Post("/api/cartItem", h.addToCart)
	app.Delete("/api/cartItem/:id", h.deleteItem)
	app.Post("/api/cartItem/:id/quantity", h.updateQuantity)
}

func (h *Handler) getCart(c *fiber.Ctx) error {
	username, ok := caller(c, c.Query("username"))
	if !ok {
		return nil
	}

	page, size := presenter.PageParams(c)
	res, err := h.service.List(username, page, size)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

func (h *Handler) addToCart(c *fiber.Ctx) error {
	payload := new(AddRequest)
	if err := c.BodyParser(payload); err != nil {
		return presenter.Error(c, fiber.StatusBadRequest, "Request body is not valid.")
	}
	username, ok := caller(c, payload.Username)
	if !ok {
		return nil
	}
	payload.Username = username

	item, err := h.service.Add(*payload)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(item)
}

func (h *Handler) deleteItem(c *fiber.Ctx) error {
	username, ok := caller(c, "")
	if !ok {
		return nil
	}
	if err := h.service.Delete(username, c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return presenter.Status(c, fiber.StatusOK)
}

func (h *Handler) updateQuantity(c *fiber.Ctx) error {
	username, ok := caller(c, "")
	if !ok {
		return nil
	}
	item, err := h.service.UpdateQuantity(username, c.Params("id"), c.QueryInt("quantity", 0))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(item)
}

// caller returns the token's username. A non-empty claimed username must
// match it. On refusal the reply is written and ok is false.
func caller(c *fiber.Ctx, claimed string) (string, bool) {
	username, err := user.GetUsernameFromCtx(c)
	if err != nil {
		presenter.Unauthorized(c)
		return "", false
	}
	if claimed != "" && claimed != username {
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
		return presenter.Error(c, fiber.StatusNotFound, "Cart item not found.")
	case errors.Is(err, product.ErrNotFound):
		return presenter.Error(c, fiber.StatusNotFound, "Product not found.")
	case errors.Is(err, ErrForbidden):
		return user.Forbidden(c)
	}
	log.Errorf("devapi: %s %s: %v", c.Method(), c.Path(), err)
	return presenter.Error(c, fiber.StatusInternalServerError, "Something went wrong.")
}
