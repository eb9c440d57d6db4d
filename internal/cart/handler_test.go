package cart

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/shopspring/decimal"

	"github.com/wichananm65/online-shop-web/internal/category"
	"github.com/wichananm65/online-shop-web/internal/product"
)

func makeApp(t *testing.T) (*fiber.App, *Service) {
	t.Helper()
	cats := category.NewService(category.NewInMemoryRepository(category.Defaults))
	products := product.NewService(product.NewInMemoryRepository([]product.Product{
		{ObjectID: "lamp", Name: "Lamp", Price: decimal.RequireFromString("2.50"), UserID: "sam"},
		{ObjectID: "rake", Name: "Rake", Price: decimal.NewFromInt(10), UserID: "sam"},
	}), cats)
	service := NewService(NewInMemoryRepository(), products)
	n := 0
	service.newID = func() string {
		n++
		return "c" + string(rune('0'+n))
	}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if v := c.Get("X-Username"); v != "" {
			c.Locals("user", &jwt.Token{Claims: jwt.MapClaims{"sub": v}})
		}
		return c.Next()
	})
	NewHandler(service).RegisterProtectedRoutes(app)
	return app, service
}

func send(t *testing.T, app *fiber.App, method, path, username, body string) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if username != "" {
		req.Header.Set("X-Username", username)
	}
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	b, _ := io.ReadAll(res.Body)
	return res, string(b)
}

func TestAddMergesSameProduct(t *testing.T) {
	app, _ := makeApp(t)

	res, body := send(t, app, "POST", "/api/cartItem", "bob", `{"username":"bob","productId":"lamp","quantity":2}`)
	if res.StatusCode != fiber.StatusOK || !strings.Contains(body, `"id":"c1"`) || !strings.Contains(body, `"name":"Lamp"`) {
		t.Fatalf("unexpected add %d %s", res.StatusCode, body)
	}
	_, body = send(t, app, "POST", "/api/cartItem", "bob", `{"productId":"lamp","quantity":3}`)
	if !strings.Contains(body, `"id":"c1"`) || !strings.Contains(body, `"quantity":5`) {
		t.Fatalf("second add should raise the quantity: %s", body)
	}
}

func TestAddValidation(t *testing.T) {
	app, _ := makeApp(t)

	tests := []struct {
		name, username, body string
		status               int
		want                 string
	}{
		{"no token", "", `{"productId":"lamp","quantity":1}`, fiber.StatusUnauthorized, `{"status":401}`},
		{"other user", "bob", `{"username":"eve","productId":"lamp","quantity":1}`, fiber.StatusForbidden, "Access denied."},
		{"zero quantity", "bob", `{"productId":"lamp","quantity":0}`, fiber.StatusBadRequest, "Quantity should be at least 1."},
		{"missing product", "bob", `{"productId":"gone","quantity":1}`, fiber.StatusNotFound, "Product not found."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, body := send(t, app, "POST", "/api/cartItem", tt.username, tt.body)
			if res.StatusCode != tt.status || !strings.Contains(body, tt.want) {
				t.Fatalf("got %d %s, want %d %s", res.StatusCode, body, tt.status, tt.want)
			}
		})
	}
}

func TestListPagesAndTotals(t *testing.T) {
	app, service := makeApp(t)
	service.Add(AddRequest{Username: "bob", ProductID: "lamp", Quantity: 2})
	service.Add(AddRequest{Username: "bob", ProductID: "rake", Quantity: 1})
	service.Add(AddRequest{Username: "eve", ProductID: "rake", Quantity: 9})

	res, body := send(t, app, "GET", "/api/cartItem?username=bob&page=1&size=1", "bob", "")
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	var page struct {
		Data        []CartItem      `json:"data"`
		TotalPages  int             `json:"totalPages"`
		TotalItems  int             `json:"totalItems"`
		TotalPrice  decimal.Decimal `json:"totalPrice"`
		HasPrevious bool            `json:"hasPrevious"`
	}
	if err := json.Unmarshal([]byte(body), &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if page.TotalItems != 2 || page.TotalPages != 2 || !page.HasPrevious || len(page.Data) != 1 || page.Data[0].ProductID != "rake" {
		t.Fatalf("unexpected page %+v", page)
	}
	if !page.TotalPrice.Equal(decimal.NewFromInt(15)) {
		t.Fatalf("total should cover the whole cart, got %s", page.TotalPrice)
	}

	res, _ = send(t, app, "GET", "/api/cartItem?username=eve", "bob", "")
	if res.StatusCode != fiber.StatusForbidden {
		t.Fatalf("expected 403 for another user's cart, got %d", res.StatusCode)
	}
}

func TestUpdateQuantityAndDelete(t *testing.T) {
	app, service := makeApp(t)
	item, _ := service.Add(AddRequest{Username: "bob", ProductID: "lamp", Quantity: 1})

	res, body := send(t, app, "POST", "/api/cartItem/"+item.ID+"/quantity?quantity=0", "bob", "")
	if res.StatusCode != fiber.StatusBadRequest || !strings.Contains(body, "fieldErrors") {
		t.Fatalf("quantity 0 must be rejected: %d %s", res.StatusCode, body)
	}

	_, body = send(t, app, "POST", "/api/cartItem/"+item.ID+"/quantity?quantity=4", "bob", "")
	if !strings.Contains(body, `"quantity":4`) {
		t.Fatalf("unexpected update %s", body)
	}

	res, _ = send(t, app, "DELETE", "/api/cartItem/"+item.ID, "eve", "")
	if res.StatusCode != fiber.StatusForbidden {
		t.Fatalf("expected 403, got %d", res.StatusCode)
	}

	_, body = send(t, app, "DELETE", "/api/cartItem/"+item.ID, "bob", "")
	if body != `{"status":200}` {
		t.Fatalf("unexpected delete body %s", body)
	}

	res, body = send(t, app, "DELETE", "/api/cartItem/"+item.ID, "bob", "")
	if res.StatusCode != fiber.StatusNotFound || !strings.Contains(body, "Cart item not found.") {
		t.Fatalf("unexpected second delete %d %s", res.StatusCode, body)
	}
}
