package web

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/wichananm65/online-shop-web/internal/api"
)

func TestCart_RendersPageAndTotal(t *testing.T) {
	env := newTestEnv(t)
	env.loginAs(t, "bob", api.RoleUser)
	env.api.handle("GET", "/api/cartItem", reply(200, `{
		"data":[
			{"id":"c1","productId":"p1","name":"Lamp","price":2.5,"quantity":2},
			{"id":"c2","productId":"p2","name":"Shovel","price":10,"quantity":1}
		],
		"currentPage":0,"totalPages":2,"totalItems":3,"totalPrice":17.5,"pageSize":2,"hasNext":true,"hasPrevious":false
	}`))

	_, body := env.get(t, "/cart")
	calls := env.api.called("GET", "/api/cartItem")
	if len(calls) != 1 {
		t.Fatalf("expected one cart call, got %d", len(calls))
	}
	q := calls[0].URL.Query()
	if q.Get("username") != "bob" || q.Get("page") != "0" || q.Get("size") != "2" {
		t.Fatalf("unexpected cart query %v", q)
	}

	for _, want := range []string{`data-cart-item-id="c1"`, `data-cart-item-id="c2"`, "5.00", "17.50", `href="/cart?page=2"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in cart page:\n%s", want, body)
		}
	}
}

func TestCart_UnauthorizedRedirectsWithoutList(t *testing.T) {
	env := newTestEnv(t)
	env.loginAs(t, "bob", api.RoleUser)
	env.api.handle("GET", "/api/cartItem", reply(401, `{"status":401}`))

	res, body := env.get(t, "/cart")
	expectRedirect(t, res, "/login")
	if strings.Contains(body, "cart-item") {
		t.Fatalf("cart list must not be rendered")
	}
	st := env.state(t, "sid")
	if st.IsAuthenticated() {
		t.Fatalf("session should be cleared after 401")
	}

	res, _ = env.get(t, "/cart")
	expectRedirect(t, res, "/login")
}

func TestCart_EmptyPageFallsBackToLast(t *testing.T) {
	env := newTestEnv(t)
	env.loginAs(t, "bob", api.RoleUser)
	env.api.handle("GET", "/api/cartItem", reply(200, `{"data":[],"currentPage":3,"totalPages":2,"totalItems":3}`))

	res, _ := env.get(t, "/cart?page=4")
	expectRedirect(t, res, "/cart?page=2")
}

func TestCart_DecrementAtOneIsNoOp(t *testing.T) {
	env := newTestEnv(t)
	env.loginAs(t, "bob", api.RoleUser)

	res, _ := env.post(t, "/cart/c1/quantity", url.Values{"quantity": {"1"}, "op": {"dec"}, "redirect": {"/cart?page=2"}})
	expectRedirect(t, res, "/cart?page=2")
	if len(env.api.called("POST", "/api/cartItem/c1/quantity")) != 0 {
		t.Fatalf("decrement at 1 must not call the API")
	}
}

func TestCart_QuantitySteps(t *testing.T) {
	tests := []struct {
		current, op string
		want        string
	}{
		{"1", "inc", "2"},
		{"5", "inc", "6"},
		{"5", "dec", "4"},
		{"2", "dec", "1"},
	}
	for _, tt := range tests {
		t.Run(tt.current+tt.op, func(t *testing.T) {
			env := newTestEnv(t)
			env.loginAs(t, "bob", api.RoleUser)
			env.api.handle("POST", "/api/cartItem/c1/quantity", reply(200, `{"id":"c1","quantity":`+tt.want+`}`))

			res, _ := env.post(t, "/cart/c1/quantity", url.Values{"quantity": {tt.current}, "op": {tt.op}})
			expectRedirect(t, res, "/cart")

			calls := env.api.called("POST", "/api/cartItem/c1/quantity")
			if len(calls) != 1 {
				t.Fatalf("expected one update, got %d", len(calls))
			}
			if got := calls[0].URL.Query().Get("quantity"); got != tt.want {
				t.Fatalf("expected quantity %s, got %s", tt.want, got)
			}
		})
	}
}

func TestCart_DeleteRemovesItemWithNotice(t *testing.T) {
	env := newTestEnv(t)
	env.loginAs(t, "bob", api.RoleUser)
	deleted := false
	env.api.handle("GET", "/api/cartItem", func(w http.ResponseWriter, r *http.Request) {
		if deleted {
			reply(200, `{"data":[],"currentPage":0,"totalPages":0,"totalItems":0,"totalPrice":0}`)(w, r)
			return
		}
		reply(200, `{"data":[{"id":"c1","productId":"p1","name":"Lamp","price":2,"quantity":1}],"currentPage":0,"totalPages":1,"totalItems":1,"totalPrice":2}`)(w, r)
	})
	env.api.handle("DELETE", "/api/cartItem/c1", func(w http.ResponseWriter, r *http.Request) {
		deleted = true
		reply(200, `{"status":200}`)(w, r)
	})

	_, body := env.get(t, "/cart")
	if !strings.Contains(body, `data-cart-item-id="c1"`) {
		t.Fatalf("expected the item before delete")
	}

	res, _ := env.post(t, "/cart/c1/delete", url.Values{"redirect": {"/cart"}})
	expectRedirect(t, res, "/cart")

	_, body = env.get(t, "/cart")
	if strings.Contains(body, `data-cart-item-id="c1"`) {
		t.Fatalf("deleted item should be gone")
	}
	if !strings.Contains(body, "The item has been removed from your cart.") {
		t.Fatalf("expected localized notice:\n%s", body)
	}
}

func TestCart_AddToCart(t *testing.T) {
	env := newTestEnv(t)
	env.loginAs(t, "bob", api.RoleUser)
	var got api.AddCartItemRequest
	env.api.handle("POST", "/api/cartItem", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		reply(200, `{"id":"c9","productId":"p1","quantity":3}`)(w, r)
	})

	res, _ := env.post(t, "/cart/add", url.Values{"productId": {"p1"}, "quantity": {"3"}, "redirect": {"/products/p1"}})
	expectRedirect(t, res, "/products/p1")
	if got.Username != "bob" || got.ProductID != "p1" || got.Quantity != 3 {
		t.Fatalf("unexpected add request %+v", got)
	}
	st := env.state(t, "sid")
	if st.Flash == nil || st.Flash.Kind != "success" || st.Flash.Key != "cart.added" {
		t.Fatalf("expected success notice, got %+v", st.Flash)
	}
}

func TestCart_AddErrorFlashesMessage(t *testing.T) {
	env := newTestEnv(t)
	env.loginAs(t, "bob", api.RoleUser)
	env.api.handle("POST", "/api/cartItem", reply(400, `{"error":"Product not found."}`))

	res, _ := env.post(t, "/cart/add", url.Values{"productId": {"gone"}})
	expectRedirect(t, res, "/")
	st := env.state(t, "sid")
	if st.Flash == nil || st.Flash.Kind != "danger" || st.Flash.Key != "Product not found." {
		t.Fatalf("expected danger notice, got %+v", st.Flash)
	}
}
