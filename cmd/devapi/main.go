package main

import (
	"database/sql"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2/log"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/wichananm65/online-shop-web/internal/config"
	"github.com/wichananm65/online-shop-web/internal/devapi"
)

func main() {
	_ = godotenv.Load()
	cfg := config.LoadDevAPI()

	var db *sql.DB
	if cfg.DatabaseURL != "" {
		db = mustOpenDB(cfg.DatabaseURL)
		defer db.Close()
	}

	server, err := devapi.New(devapi.Options{
		Secret:       []byte(cfg.JWTSecret),
		TokenTTL:     cfg.TokenTTL,
		AllowOrigins: cfg.AllowOrigins,
		AccessLog:    true,
		DB:           db,
	})
	if err != nil {
		log.Fatalf("%v", err)
	}
	if cfg.Seed {
		if err := server.Seed(); err != nil {
			log.Fatalf("%v", err)
		}
		log.Infof("demo accounts %q and %q use password %q", devapi.DemoSeller, devapi.DemoShopper, devapi.DemoPassword)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-quit
		log.Info("shutting down")
		_ = server.App.Shutdown()
	}()

	log.Infof("dev api on %s", cfg.Addr)
	if err := server.App.Listen(cfg.Addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func mustOpenDB(dbURL string) *sql.DB {
	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		panic(err)
	}

	if err := db.Ping(); err != nil {
		panic(err)
	}

	return db
}
