package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2/log"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/wichananm65/online-shop-web/internal/api"
	"github.com/wichananm65/online-shop-web/internal/config"
	"github.com/wichananm65/online-shop-web/internal/i18n"
	"github.com/wichananm65/online-shop-web/internal/session"
	"github.com/wichananm65/online-shop-web/internal/web"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	bundle, err := i18n.Default(cfg.DefaultLang)
	if err != nil {
		log.Fatalf("load translations: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore := mustOpenStore(ctx, cfg)
	defer closeStore()

	sessions := session.NewManager(store, session.Options{
		TTL:             cfg.SessionTTL,
		Secure:          cfg.CookieSecure,
		DefaultLanguage: cfg.DefaultLang,
		Languages:       bundle.Languages(),
		Negotiate:       bundle.Negotiate,
	})
	client := api.NewClient(cfg.APIURL, &http.Client{Timeout: cfg.APITimeout})
	handler := web.NewHandler(client, sessions, bundle, web.Options{PageSize: cfg.PageSize, AccessLog: true})
	app := web.NewApp(handler)

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Errorf("shutdown: %v", err)
		}
	}()

	log.Infof("storefront on %s, api %s, sessions in %s", cfg.Addr, cfg.APIURL, cfg.SessionStore)
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

// mustOpenStore builds the session store named by SESSION_STORE.
func mustOpenStore(ctx context.Context, cfg config.Config) (session.Store, func()) {
	switch cfg.SessionStore {
	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("redis %s: %v", cfg.RedisAddr, err)
		}
		return session.NewRedisStore(rdb, cfg.SessionTTL), func() { rdb.Close() }

	case "postgres":
		db := mustOpenDB(cfg.DatabaseURL)
		store := session.NewPostgresStore(db, cfg.SessionTTL)
		if err := store.EnsureSchema(ctx); err != nil {
			log.Fatalf("session schema: %v", err)
		}
		go purgeSessions(ctx, store, time.Hour)
		return store, func() { db.Close() }

	case "memory", "":
		store := session.NewInMemoryStore(cfg.SessionTTL)
		go purgeSessions(ctx, store, time.Hour)
		return store, func() {}
	}
	log.Fatalf("unknown SESSION_STORE %q", cfg.SessionStore)
	return nil, nil
}

// purger is a session store that can drop its expired sessions.
type purger interface {
	Purge(ctx context.Context) (int64, error)
}

func purgeSessions(ctx context.Context, store purger, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.Purge(ctx)
			if err != nil {
				log.Warnf("purge sessions: %v", err)
				continue
			}
			if n > 0 {
				log.Infof("purged %d expired sessions", n)
			}
		}
	}
}

func mustOpenDB(dbURL string) *sql.DB {
	if dbURL == "" {
		panic("DATABASE_URL is not set")
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		panic(err)
	}

	if err := db.Ping(); err != nil {
		panic(err)
	}

	return db
}
