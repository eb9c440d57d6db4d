package web

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/wichananm65/online-shop-web/internal/api"
	"github.com/wichananm65/online-shop-web/internal/i18n"
	"github.com/wichananm65/online-shop-web/internal/session"
)

const maxPageSize = 100

type Options struct {
	PageSize  int
	PhotoTTL  time.Duration
	AccessLog bool
}

type Handler struct {
	api      *api.Client
	sessions *session.Manager
	i18n     *i18n.Bundle
	photos   *PhotoCache
	pageSize int
	opts     Options
}

func NewHandler(client *api.Client, sessions *session.Manager, bundle *i18n.Bundle, opts Options) *Handler {
	if opts.PageSize <= 0 {
		opts.PageSize = 8
	}
	if opts.PhotoTTL <= 0 {
		opts.PhotoTTL = 10 * time.Minute
	}
	return &Handler{
		api:      client,
		sessions: sessions,
		i18n:     bundle,
		photos:   NewPhotoCache(opts.PhotoTTL),
		pageSize: opts.PageSize,
		opts:     opts,
	}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/login", h.loginForm)
	app.Post("/login", h.login)
	app.Get("/register", h.registerForm)
	app.Post("/register", h.register)
	app.Get("/logout", h.logout)
	app.Post("/logout", h.logout)

	app.Get("/", h.products)
	app.Get("/search", h.search)
	app.Get("/products/:id", h.product)

	app.Post("/settings/language", h.setLanguage)
	app.Post("/settings/theme", h.toggleTheme)

	app.Get("/photos/product/:id", h.productPhoto)
	app.Get("/photos/user/:username", h.userPhoto)
}

// RegisterProtectedRoutes must run before RegisterPublicRoutes so that
// /products/new is not taken for a product id.
func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	buyer := h.requireRole(api.RoleUser)
	app.Get("/cart", buyer, h.cart)
	app.Post("/cart/add", buyer, h.addToCart)
	app.Post("/cart/:id/quantity", buyer, h.changeQuantity)
	app.Post("/cart/:id/delete", buyer, h.deleteCartItem)

	seller := h.requireRole(api.RoleSeller)
	app.Get("/my-products", seller, h.myProducts)
	app.Get("/products/new", seller, h.newProductForm)
	app.Post("/products/new", seller, h.createProduct)
	app.Get("/products/:id/edit", seller, h.editProductForm)
	app.Post("/products/:id/edit", seller, h.updateProduct)
	app.Post("/products/:id/delete", seller, h.deleteProduct)

	app.Get("/profile", h.requireAuth, h.profile)
	app.Post("/profile", h.requireAuth, h.updateProfile)
}

func (h *Handler) requireAuth(c *fiber.Ctx) error {
	if !session.From(c).IsAuthenticated() {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}
	return c.Next()
}

// requireRole lets through only users whose primary role is role. Other
// logged in users go back to the product list.
func (h *Handler) requireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		st := session.From(c)
		if !st.IsAuthenticated() {
			return c.Redirect("/login", fiber.StatusSeeOther)
		}
		if st.Role() != role {
			return c.Redirect("/", fiber.StatusSeeOther)
		}
		return c.Next()
	}
}

// page builds the layout data and consumes the pending flash.
func (h *Handler) page(c *fiber.Ctx, titleKey string) *Page {
	st := session.From(c)
	p := &Page{
		Lang:       st.Language,
		Languages:  h.i18n.Languages(),
		LightTheme: st.LightTheme,
		Username:   st.Username,
		Role:       st.Role(),
		LoggedIn:   st.IsAuthenticated(),
		IsSeller:   st.IsSeller(),
		IsUser:     st.IsUser(),
		Path:       c.OriginalURL(),
		bundle:     h.i18n,
	}
	p.Title = p.T(titleKey)
	if st.Flash != nil && session.ID(c) != "" {
		p.Flash = &Alert{Kind: st.Flash.Kind, Text: p.T(st.Flash.Key)}
		if _, err := h.sessions.Dispatch(c, session.ClearFlash()); err != nil {
			log.Warnf("web: clear flash: %v", err)
		}
	}
	return p
}

func (h *Handler) render(c *fiber.Ctx, name string, data any) error {
	return c.Render("pages/"+name, data, "layouts/main")
}

// flash queues a snackbar for the next rendered page. key may be a
// translation key or a server message.
func (h *Handler) flash(c *fiber.Ctx, kind, key string) {
	if _, err := h.sessions.Dispatch(c, session.SetFlash(kind, key)); err != nil {
		log.Warnf("web: set flash: %v", err)
	}
}

// expired handles a 401 from the API: the session is dropped and the user
// goes back to the login page.
func (h *Handler) expired(c *fiber.Ctx) error {
	actions := []session.Action{session.Logout()}
	if session.From(c).IsAuthenticated() {
		actions = append(actions, session.SetFlash(session.FlashDanger, "session.expired"))
	}
	if _, err := h.sessions.Dispatch(c, actions...); err != nil {
		log.Warnf("web: logout after 401: %v", err)
	}
	return c.Redirect("/login", fiber.StatusSeeOther)
}

// upstream turns a transport failure into a 502 page.
func upstream(err error) error {
	log.Errorf("web: api request failed: %v", err)
	return fiber.NewError(fiber.StatusBadGateway, "error.upstream")
}

// failure returns the message of a failed result, suitable for an alert or
// a flash key.
func failure[T any](res api.Result[T]) string {
	switch res.Kind {
	case api.KindError:
		return res.Message
	case api.KindFieldErrors:
		msgs := make([]string, 0, len(res.FieldErrors))
		for _, fe := range res.FieldErrors {
			msgs = append(msgs, fe.Message)
		}
		return strings.Join(msgs, " ")
	}
	return ""
}

func (h *Handler) pageParams(c *fiber.Ctx) (page, size int) {
	page = c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	size = c.QueryInt("size", h.pageSize)
	if size < 1 || size > maxPageSize {
		size = h.pageSize
	}
	return page, size
}

// safeRedirect accepts only local paths.
func safeRedirect(target, fallback string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return fallback
	}
	return target
}

func (h *Handler) healthz(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
