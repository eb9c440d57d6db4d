// Package devapi is an in-memory stand-in for the shop API, so the
// storefront can run without the production backend.
package devapi

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	jwtware "github.com/gofiber/jwt/v2"

	"github.com/wichananm65/online-shop-web/internal/cart"
	"github.com/wichananm65/online-shop-web/internal/category"
	"github.com/wichananm65/online-shop-web/internal/interface/presenter"
	"github.com/wichananm65/online-shop-web/internal/product"
	"github.com/wichananm65/online-shop-web/internal/user"
)

type Options struct {
	Secret       []byte
	TokenTTL     time.Duration
	AllowOrigins string
	AccessLog    bool
	// DB, when set, stores categories and products in Postgres. Accounts
	// and carts always live in memory.
	DB *sql.DB
}

type Server struct {
	App        *fiber.App
	Users      *user.Service
	Categories *category.Service
	Products   *product.Service
	Carts      *cart.Service
}

func New(opts Options) (*Server, error) {
	if len(opts.Secret) == 0 {
		return nil, errors.New("devapi: a signing secret is required")
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 72 * time.Hour
	}
	if opts.AllowOrigins == "" {
		opts.AllowOrigins = "*"
	}

	var (
		categoryRepo category.Repository = category.NewInMemoryRepository(category.Defaults)
		productRepo  product.Repository  = product.NewInMemoryRepository(nil)
	)
	if opts.DB != nil {
		pgCategories := category.NewPostgresRepository(opts.DB)
		if err := pgCategories.EnsureSchema(category.Defaults); err != nil {
			return nil, fmt.Errorf("devapi: %w", err)
		}
		pgProducts := product.NewPostgresRepository(opts.DB)
		if err := pgProducts.EnsureSchema(); err != nil {
			return nil, fmt.Errorf("devapi: %w", err)
		}
		categoryRepo, productRepo = pgCategories, pgProducts
	}

	s := &Server{Users: user.NewService(user.NewInMemoryRepository(nil))}
	s.Categories = category.NewService(categoryRepo)
	s.Products = product.NewService(productRepo, s.Categories)
	s.Carts = cart.NewService(cart.NewInMemoryRepository(), s.Products)

	userHandler := user.NewHandler(s.Users, opts.Secret, opts.TokenTTL)
	categoryHandler := category.NewHandler(s.Categories)
	productHandler := product.NewHandler(s.Products)
	cartHandler := cart.NewHandler(s.Carts)

	app := fiber.New(fiber.Config{
		AppName:      "online-shop-devapi",
		BodyLimit:    presenter.MaxPhotoSize + 1<<20,
		ErrorHandler: errorHandler,
	})
	app.Use(recover.New())
	if opts.AccessLog {
		app.Use(logger.New())
	}
	setupCORS(app, opts.AllowOrigins)

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.SendString("ok") })
	userHandler.RegisterPublicRoutes(app)
	categoryHandler.RegisterPublicRoutes(app)
	productHandler.RegisterPublicRoutes(app)

	app.Use(jwtware.New(jwtware.Config{
		SigningKey: opts.Secret,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return presenter.Unauthorized(c)
		},
	}))

	userHandler.RegisterProtectedRoutes(app)
	productHandler.RegisterProtectedRoutes(app)
	cartHandler.RegisterProtectedRoutes(app)

	s.App = app
	return s, nil
}

func setupCORS(app *fiber.App, origins string) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: "GET,POST,HEAD,PUT,DELETE",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}

// errorHandler keeps fiber's own errors in the {"error": ...} shape.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code == fiber.StatusUnauthorized {
		return presenter.Unauthorized(c)
	}
	if code >= fiber.StatusInternalServerError {
		log.Errorf("devapi: %s %s: %v", c.Method(), c.Path(), err)
		return presenter.Error(c, code, "Something went wrong.")
	}
	return presenter.Error(c, code, err.Error())
}
