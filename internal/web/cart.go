package web

import (
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/wichananm65/online-shop-web/internal/api"
	"github.com/wichananm65/online-shop-web/internal/session"
)

type cartView struct {
	*Page
	Items []Card[api.CartItem]
	Total decimal.Decimal
	Pager *Pager
	Alert *Alert
}

func (h *Handler) cart(c *fiber.Ctx) error {
	st := session.From(c)
	page, size := h.pageParams(c)
	res, err := h.api.CartItems(c.UserContext(), st.Token, st.Username, page-1, size)
	if err != nil {
		return upstream(err)
	}
	if res.Unauthorized() {
		return h.expired(c)
	}

	q := url.Values{}
	if c.Query("size") != "" {
		q.Set("size", strconv.Itoa(size))
	}

	switch res.Kind {
	case api.KindSuccess:
		pg := res.Value
		// the last item of the last page was removed
		if len(pg.Data) == 0 && page > 1 && pg.TotalPages > 0 {
			q.Set("page", strconv.Itoa(pg.TotalPages))
			return c.Redirect("/cart?"+q.Encode(), fiber.StatusSeeOther)
		}
		p := h.page(c, "cart.title")
		return h.render(c, "cart", cartView{
			Page:  p,
			Items: cards(p, pg.Data),
			Total: pg.TotalPrice,
			Pager: newPager("/cart", q, pg.CurrentPage, pg.TotalPages, pg.HasPrevious, pg.HasNext),
		})
	case api.KindFieldErrors, api.KindError:
	}
	p := h.page(c, "cart.title")
	return h.render(c, "cart", cartView{Page: p, Alert: &Alert{Kind: "danger", Text: p.T(failure(res))}})
}

func (h *Handler) addToCart(c *fiber.Ctx) error {
	st := session.From(c)
	back := safeRedirect(c.FormValue("redirect"), "/")
	quantity, err := strconv.Atoi(c.FormValue("quantity", "1"))
	if err != nil || quantity < 1 {
		quantity = 1
	}

	res, err := h.api.AddCartItem(c.UserContext(), st.Token, api.AddCartItemRequest{
		Username:  st.Username,
		ProductID: c.FormValue("productId"),
		Quantity:  quantity,
	})
	if err != nil {
		return upstream(err)
	}
	return h.afterCartAction(c, res.Kind, failure(res), "cart.added", back)
}

// changeQuantity applies one -/+ step. A decrement at 1 does not reach the
// API.
func (h *Handler) changeQuantity(c *fiber.Ctx) error {
	back := safeRedirect(c.FormValue("redirect"), "/cart")
	current, err := strconv.Atoi(c.FormValue("quantity"))
	if err != nil {
		current = 1
	}
	next := NextQuantity(current, c.FormValue("op"))
	if next == current {
		return c.Redirect(back, fiber.StatusSeeOther)
	}

	res, err := h.api.UpdateCartItemQuantity(c.UserContext(), session.From(c).Token, c.Params("id"), next)
	if err != nil {
		return upstream(err)
	}
	return h.afterCartAction(c, res.Kind, failure(res), "cart.updated", back)
}

func (h *Handler) deleteCartItem(c *fiber.Ctx) error {
	back := safeRedirect(c.FormValue("redirect"), "/cart")
	res, err := h.api.DeleteCartItem(c.UserContext(), session.From(c).Token, c.Params("id"))
	if err != nil {
		return upstream(err)
	}
	return h.afterCartAction(c, res.Kind, failure(res), "cart.deleted", back)
}

func (h *Handler) afterCartAction(c *fiber.Ctx, kind api.Kind, message, successKey, back string) error {
	switch kind {
	case api.KindUnauthorized:
		return h.expired(c)
	case api.KindSuccess:
		h.flash(c, session.FlashSuccess, successKey)
	case api.KindFieldErrors, api.KindError:
		h.flash(c, session.FlashDanger, message)
	}
	return c.Redirect(back, fiber.StatusSeeOther)
}
