package session

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
)

func makeAppWithManager(m *Manager) *fiber.App {
	app := fiber.New()
	app.Use(m.Middleware())
	app.Get("/state", func(c *fiber.Ctx) error {
		st := From(c)
		return c.SendString(st.Username + "|" + st.Language + "|" + map[bool]string{true: "light", false: "dark"}[st.LightTheme])
	})
	app.Post("/login", func(c *fiber.Ctx) error {
		_, err := m.Dispatch(c, SetToken("tok"), SetUsername("alice"), SetRoles([]string{"USER"}))
		if err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Post("/theme", func(c *fiber.Ctx) error {
		_, err := m.Dispatch(c, SetLightTheme(true), SetLanguage("uk"))
		if err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func cookieValue(res *http.Response, name string) string {
	for _, ck := range res.Cookies() {
		if ck.Name == name {
			return ck.Value
		}
	}
	return ""
}

func body(t *testing.T, res *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestMiddleware_AssignsSessionCookie(t *testing.T) {
	store := NewInMemoryStore(time.Hour)
	app := makeAppWithManager(NewManager(store, Options{Languages: []string{"en", "uk"}}))

	res, err := app.Test(httptest.NewRequest("GET", "/state", nil))
	if err != nil {
		t.Fatal(err)
	}
	if cookieValue(res, SessionCookie) == "" {
		t.Fatalf("expected a session cookie")
	}
	if got := body(t, res); got != "|en|dark" {
		t.Fatalf("unexpected anonymous state %q", got)
	}
}

func TestDispatch_PersistsAcrossRequests(t *testing.T) {
	store := NewInMemoryStore(time.Hour)
	app := makeAppWithManager(NewManager(store, Options{Languages: []string{"en", "uk"}}))

	req := httptest.NewRequest("POST", "/login", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "sid-1"})
	res, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != fiber.StatusNoContent {
		t.Fatalf("expected 204, got %d", res.StatusCode)
	}

	st, err := store.Load(context.Background(), "sid-1")
	if err != nil {
		t.Fatalf("state not saved: %v", err)
	}
	if st.Token != "tok" || st.Username != "alice" || !st.IsUser() {
		t.Fatalf("login should be saved as one batch: %+v", st)
	}

	req2 := httptest.NewRequest("GET", "/state", nil)
	req2.AddCookie(&http.Cookie{Name: SessionCookie, Value: "sid-1"})
	res2, _ := app.Test(req2)
	if got := body(t, res2); !strings.HasPrefix(got, "alice|") {
		t.Fatalf("expected alice, got %q", got)
	}
}

func TestDispatch_WritesPreferenceCookies(t *testing.T) {
	app := makeAppWithManager(NewManager(NewInMemoryStore(time.Hour), Options{Languages: []string{"en", "uk"}}))

	res, err := app.Test(httptest.NewRequest("POST", "/theme", nil))
	if err != nil {
		t.Fatal(err)
	}
	if cookieValue(res, ThemeCookie) != "true" {
		t.Fatalf("expected theme cookie")
	}
	if cookieValue(res, LanguageCookie) != "uk" {
		t.Fatalf("expected language cookie")
	}
}

func TestMiddleware_PreferenceCookiesWin(t *testing.T) {
	app := makeAppWithManager(NewManager(NewInMemoryStore(time.Hour), Options{Languages: []string{"en", "uk"}}))

	req := httptest.NewRequest("GET", "/state", nil)
	req.AddCookie(&http.Cookie{Name: LanguageCookie, Value: "uk"})
	req.AddCookie(&http.Cookie{Name: ThemeCookie, Value: "true"})
	res, _ := app.Test(req)
	if got := body(t, res); got != "|uk|light" {
		t.Fatalf("unexpected state %q", got)
	}

	req2 := httptest.NewRequest("GET", "/state", nil)
	req2.AddCookie(&http.Cookie{Name: LanguageCookie, Value: "xx"})
	res2, _ := app.Test(req2)
	if got := body(t, res2); got != "|en|dark" {
		t.Fatalf("unsupported language should be ignored, got %q", got)
	}
}

func TestMiddleware_NegotiatesLanguage(t *testing.T) {
	m := NewManager(NewInMemoryStore(time.Hour), Options{
		Languages: []string{"en", "uk"},
		Negotiate: func(accept string) string {
			if strings.HasPrefix(accept, "uk") {
				return "uk"
			}
			return "en"
		},
	})
	app := makeAppWithManager(m)

	req := httptest.NewRequest("GET", "/state", nil)
	req.Header.Set("Accept-Language", "uk-UA,uk;q=0.9")
	res, _ := app.Test(req)
	if got := body(t, res); got != "|uk|dark" {
		t.Fatalf("expected negotiated uk, got %q", got)
	}
}

func TestRenew_MovesState(t *testing.T) {
	store := NewInMemoryStore(time.Hour)
	m := NewManager(store, Options{})
	app := fiber.New()
	app.Use(m.Middleware())
	app.Post("/renew", func(c *fiber.Ctx) error {
		if _, err := m.Dispatch(c, SetUsername("carol")); err != nil {
			return err
		}
		if err := m.Renew(c); err != nil {
			return err
		}
		return c.SendString(ID(c))
	})

	req := httptest.NewRequest("POST", "/renew", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "old"})
	res, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	newID := body(t, res)
	if newID == "" || newID == "old" {
		t.Fatalf("expected a new id, got %q", newID)
	}
	if _, err := store.Load(context.Background(), "old"); err == nil {
		t.Fatalf("old session should be gone")
	}
	st, err := store.Load(context.Background(), newID)
	if err != nil || st.Username != "carol" {
		t.Fatalf("state should move to the new id: %+v %v", st, err)
	}
}
