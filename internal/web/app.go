package web

import (
	"embed"
	"errors"
	"io/fs"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
	"github.com/shopspring/decimal"
)

//go:embed views static
var assets embed.FS

func mustSub(dir string) fs.FS {
	sub, err := fs.Sub(assets, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

// NewApp wires the storefront: templates, static files, sessions and routes.
func NewApp(h *Handler) *fiber.App {
	engine := html.NewFileSystem(http.FS(mustSub("views")), ".html")
	engine.AddFunc("money", func(d decimal.Decimal) string { return d.StringFixed(2) })

	app := fiber.New(fiber.Config{
		AppName:      "online-shop-web",
		Views:        engine,
		ErrorHandler: h.errorHandler,
	})

	app.Use(recover.New())
	if h.opts.AccessLog {
		app.Use(logger.New())
	}
	app.Get("/healthz", h.healthz)
	app.Use("/static", filesystem.New(filesystem.Config{Root: http.FS(mustSub("static"))}))

	app.Use(h.sessions.Middleware())
	h.RegisterProtectedRoutes(app)
	h.RegisterPublicRoutes(app)
	return app
}

type errorView struct {
	*Page
	Code    int
	Message string
}

func (h *Handler) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	key := "error.title"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		switch {
		case code == fiber.StatusNotFound && fe.Message == "product.notFound":
			key = fe.Message
		case code == fiber.StatusNotFound:
			key = "error.notFound"
		case code == fiber.StatusBadGateway:
			key = "error.upstream"
		}
	}
	if code >= fiber.StatusInternalServerError {
		log.Errorf("web: %s %s: %v", c.Method(), c.Path(), err)
	}

	p := h.page(c, "error.title")
	c.Status(code)
	if rerr := h.render(c, "error", errorView{Page: p, Code: code, Message: p.T(key)}); rerr != nil {
		log.Errorf("web: render error page: %v", rerr)
		return c.SendString(p.T(key))
	}
	return nil
}
