package user

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/golang-jwt/jwt/v4"

	"github.com/wichananm65/online-shop-web/internal/interface/presenter"
)

type Handler struct {
	service  *Service
	secret   []byte
	tokenTTL time.Duration
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func NewHandler(service *Service, secret []byte, tokenTTL time.Duration) *Handler {
	return &Handler{service: service, secret: secret, tokenTTL: tokenTTL}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/api/auth/register", h.register)
	app.Post("/api/auth/login", h.login)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/user/:username", h.getUser)
	app.Put("/api/user/:username", h.updateUser)
	app.Get("/api/user/:username/photo", h.getPhoto)
	app.Post("/api/user/:username/photo", h.uploadPhoto)
}

func (h *Handler) register(c *fiber.Ctx) error {
	payload := new(RegisterRequest)
	if err := c.BodyParser(payload); err != nil {
		return presenter.Error(c, fiber.StatusBadRequest, "Request body is not valid.")
	}

	if _, err := h.service.Register(*payload); err != nil {
		return writeError(c, err)
	}
	return presenter.Status(c, fiber.StatusCreated)
}

func (h *Handler) login(c *fiber.Ctx) error {
	payload := new(loginRequest)
	if err := c.BodyParser(payload); err != nil {
		return presenter.Error(c, fiber.StatusBadRequest, "Request body is not valid.")
	}

	user, err := h.service.Authenticate(payload.Username, payload.Password)
	if err != nil {
		return writeError(c, err)
	}

	signed, err := h.issueToken(user)
	if err != nil {
		log.Errorf("devapi: sign token for %s: %v", user.Username, err)
		return presenter.Error(c, fiber.StatusInternalServerError, "Failed to generate token.")
	}
	return c.JSON(fiber.Map{"accessToken": signed})
}

func (h *Handler) issueToken(user User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.Username,
		"roles": user.roleNames(),
		"iat":   now.Unix(),
		"exp":   now.Add(h.tokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.secret)
}

func (h *Handler) getUser(c *fiber.Ctx) error {
	username, ok := requireSelf(c)
	if !ok {
		return nil
	}

	user, err := h.service.GetByUsername(username)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(sanitizeUser(user))
}

func (h *Handler) updateUser(c *fiber.Ctx) error {
	username, ok := requireSelf(c)
	if !ok {
		return nil
	}

	payload := new(UpdateRequest)
	if err := c.BodyParser(payload); err != nil {
		return presenter.Error(c, fiber.StatusBadRequest, "Request body is not valid.")
	}

	updated, err := h.service.Update(username, *payload)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(sanitizeUser(updated))
}

func (h *Handler) getPhoto(c *fiber.Ctx) error {
	data, contentType, err := h.service.Photo(c.Params("username"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, contentType)
	return c.Send(data)
}

func (h *Handler) uploadPhoto(c *fiber.Ctx) error {
	username, ok := requireSelf(c)
	if !ok {
		return nil
	}

	data, contentType, err := presenter.Photo(c)
	if err != nil {
		return presenter.Error(c, fiber.StatusBadRequest, presenter.PhotoMessage(err))
	}
	if err := h.service.SetPhoto(username, data, contentType); err != nil {
		return writeError(c, err)
	}
	return presenter.Status(c, fiber.StatusOK)
}

// requireSelf only lets a user act on their own account. On refusal it
// writes the reply and reports false.
func requireSelf(c *fiber.Ctx) (string, bool) {
	username, err := GetUsernameFromCtx(c)
	if err != nil {
		presenter.Unauthorized(c)
		return "", false
	}
	if c.Params("username") != username {
		Forbidden(c)
		return "", false
	}
	return username, true
}

// Forbidden writes the reply for a signed-in user acting on someone else's data.
func Forbidden(c *fiber.Ctx) error {
	return presenter.Error(c, fiber.StatusForbidden, "Access denied.")
}

func writeError(c *fiber.Ctx, err error) error {
	var invalid *presenter.ValidationError
	switch {
	case errors.As(err, &invalid):
		return presenter.Fields(c, invalid.Fields)
	case errors.Is(err, ErrUsernameExists):
		return presenter.Error(c, fiber.StatusConflict, "Username is already taken.")
	case errors.Is(err, ErrInvalidCredentials):
		return presenter.Error(c, fiber.StatusBadRequest, "Invalid username or password.")
	case errors.Is(err, ErrNotFound):
		return presenter.Error(c, fiber.StatusNotFound, "User not found.")
	case errors.Is(err, ErrNoPhoto):
		return presenter.Error(c, fiber.StatusNotFound, "Photo not found.")
	}
	log.Errorf("devapi: %s %s: %v", c.Method(), c.Path(), err)
	return presenter.Error(c, fiber.StatusInternalServerError, "Something went wrong.")
}

// GetUsernameFromCtx extracts the sub claim from the JWT token stored
// in `c.Locals("user")`.
func GetUsernameFromCtx(c *fiber.Ctx) (string, error) {
	claims, err := claimsFromCtx(c)
	if err != nil {
		return "", err
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", fiber.ErrUnauthorized
	}
	return sub, nil
}

// HasRoleInCtx reports whether the token in c carries the role called name.
func HasRoleInCtx(c *fiber.Ctx, name string) bool {
	claims, err := claimsFromCtx(c)
	if err != nil {
		return false
	}
	switch roles := claims["roles"].(type) {
	case []interface{}:
		for _, r := range roles {
			if s, ok := r.(string); ok && s == name {
				return true
			}
		}
	case []string:
		for _, r := range roles {
			if r == name {
				return true
			}
		}
	}
	return false
}

func claimsFromCtx(c *fiber.Ctx) (jwt.MapClaims, error) {
	tok, ok := c.Locals("user").(*jwt.Token)
	if !ok || tok == nil {
		return nil, fiber.ErrUnauthorized
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fiber.ErrUnauthorized
	}
	return claims, nil
}

func sanitizeUser(user User) User {
	user.Password = ""
	return user
}
