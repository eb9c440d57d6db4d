package web

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/wichananm65/online-shop-web/internal/api"
	"github.com/wichananm65/online-shop-web/internal/session"
)

type productsView struct {
	*Page
	Products   []Card[api.Product]
	Categories []api.Category
	Category   int
	Alert      *Alert
}

// products lists the whole catalogue, optionally narrowed to one category.
func (h *Handler) products(c *fiber.Ctx) error {
	st := session.From(c)
	res, err := h.api.Products(c.UserContext(), st.Token)
	if err != nil {
		return upstream(err)
	}
	if res.Unauthorized() {
		return h.expired(c)
	}

	p := h.page(c, "products.title")
	view := productsView{Page: p, Categories: h.categories(c), Category: c.QueryInt("category")}
	switch res.Kind {
	case api.KindSuccess:
		view.Products = cards(p, filterByCategory(res.Value, view.Category))
	case api.KindFieldErrors, api.KindError:
		view.Alert = &Alert{Kind: "danger", Text: p.T(failure(res))}
	}
	return h.render(c, "products", view)
}

func filterByCategory(products []api.Product, category int) []api.Product {
	if category == 0 {
		return products
	}
	out := make([]api.Product, 0, len(products))
	for _, pr := range products {
		for _, cat := range pr.Categories {
			if cat.ID == category {
				out = append(out, pr)
				break
			}
		}
	}
	return out
}

// categories loads the category list for filters and forms. A failure only
// hides the choices.
func (h *Handler) categories(c *fiber.Ctx) []api.Category {
	res, err := h.api.Categories(c.UserContext(), session.From(c).Token)
	if err != nil {
		log.Warnf("web: load categories: %v", err)
		return nil
	}
	if !res.OK() {
		log.Warnf("web: load categories: %s %s", res.Kind, res.Message)
		return nil
	}
	return res.Value
}

type productView struct {
	*Page
	Product api.Product
	Alert   *Alert
}

func (h *Handler) product(c *fiber.Ctx) error {
	res, err := h.api.Product(c.UserContext(), session.From(c).Token, c.Params("id"))
	if err != nil {
		return upstream(err)
	}

	switch res.Kind {
	case api.KindUnauthorized:
		return h.expired(c)
	case api.KindSuccess:
		return h.render(c, "product", productView{Page: h.page(c, "product.details"), Product: res.Value})
	case api.KindFieldErrors, api.KindError:
		if res.StatusCode == http.StatusNotFound {
			return fiber.NewError(fiber.StatusNotFound, "product.notFound")
		}
	}
	p := h.page(c, "product.details")
	return h.render(c, "product", productView{Page: p, Alert: &Alert{Kind: "danger", Text: p.T(failure(res))}})
}

type searchView struct {
	*Page
	Query      string
	Searched   bool
	TotalItems int
	Hits       []Card[api.Product]
	Pager      *Pager
	Alert      *Alert
}

// search asks the API for one page of matches. Every page change is a new
// request.
func (h *Handler) search(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return h.render(c, "search", searchView{Page: h.page(c, "search.title")})
	}

	page, size := h.pageParams(c)
	res, err := h.api.SearchProducts(c.UserContext(), session.From(c).Token, query, page-1, size)
	if err != nil {
		return upstream(err)
	}
	if res.Unauthorized() {
		return h.expired(c)
	}

	p := h.page(c, "search.title")
	view := searchView{Page: p, Query: query, Searched: true}
	switch res.Kind {
	case api.KindSuccess:
		q := url.Values{}
		q.Set("q", query)
		if c.Query("size") != "" {
			q.Set("size", strconv.Itoa(size))
		}
		pg := res.Value
		view.Hits = cards(p, pg.Data)
		view.TotalItems = pg.TotalItems
		view.Pager = newPager("/search", q, pg.CurrentPage, pg.TotalPages, pg.HasPrevious, pg.HasNext)
	case api.KindFieldErrors, api.KindError:
		view.Alert = &Alert{Kind: "danger", Text: p.T(failure(res))}
	}
	return h.render(c, "search", view)
}
