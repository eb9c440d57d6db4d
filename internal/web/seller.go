package web

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/shopspring/decimal"

	"github.com/wichananm65/online-shop-web/internal/api"
	"github.com/wichananm65/online-shop-web/internal/session"
)

type myProductsView struct {
	*Page
	Products []Card[api.Product]
	Alert    *Alert
}

func (h *Handler) myProducts(c *fiber.Ctx) error {
	st := session.From(c)
	res, err := h.api.SellerProducts(c.UserContext(), st.Token, st.Username)
	if err != nil {
		return upstream(err)
	}
	if res.Unauthorized() {
		return h.expired(c)
	}

	p := h.page(c, "myProducts.title")
	view := myProductsView{Page: p}
	switch res.Kind {
	case api.KindSuccess:
		view.Products = cards(p, res.Value)
	case api.KindFieldErrors, api.KindError:
		view.Alert = &Alert{Kind: "danger", Text: p.T(failure(res))}
	}
	return h.render(c, "my_products", view)
}

type productFormView struct {
	*Page
	Form       *Form
	Action     string
	Submit     string
	ProductID  string
	Categories []api.Category
	Selected   map[int]bool
}

func (h *Handler) productForm(p *Page, form *Form, id string, categories []api.Category, selected map[int]bool) productFormView {
	v := productFormView{
		Page:       p,
		Form:       form,
		Action:     "/products/new",
		Submit:     p.T("productForm.create"),
		ProductID:  id,
		Categories: categories,
		Selected:   selected,
	}
	if id != "" {
		v.Action = "/products/" + id + "/edit"
		v.Submit = p.T("productForm.save")
	}
	if v.Selected == nil {
		v.Selected = map[int]bool{}
	}
	return v
}

func (h *Handler) newProductForm(c *fiber.Ctx) error {
	p := h.page(c, "productForm.addTitle")
	return h.render(c, "product_form", h.productForm(p, newForm(), "", h.categories(c), nil))
}

func (h *Handler) createProduct(c *fiber.Ctx) error {
	st := session.From(c)
	categories := h.categories(c)
	p := h.page(c, "productForm.addTitle")
	form := newForm()

	req, selected, ok := readProductForm(c, p, form, categories)
	if !ok {
		return h.render(c, "product_form", h.productForm(p, form, "", categories, selected))
	}

	res, err := h.api.CreateProduct(c.UserContext(), st.Token, req)
	if err != nil {
		return upstream(err)
	}
	switch res.Kind {
	case api.KindUnauthorized:
		return h.expired(c)
	case api.KindSuccess:
		id := res.Value.ObjectID
		if !h.attachPhoto(c, productPhotoKey(id), func(ctx context.Context, name string, data []byte) (api.Result[api.Status], error) {
			return h.api.UploadProductPhoto(ctx, st.Token, id, name, data)
		}) {
			p.Flash = &Alert{Kind: "danger", Text: p.T("product.photoFailed")}
		}
		form = newForm()
		form.success(p.T("product.added"))
		selected = nil
	case api.KindFieldErrors, api.KindError:
		fill(p, form, res)
	}
	return h.render(c, "product_form", h.productForm(p, form, "", categories, selected))
}

func (h *Handler) editProductForm(c *fiber.Ctx) error {
	st := session.From(c)
	id := c.Params("id")
	res, err := h.api.Product(c.UserContext(), st.Token, id)
	if err != nil {
		return upstream(err)
	}

	p := h.page(c, "productForm.editTitle")
	form := newForm()
	selected := map[int]bool{}
	switch res.Kind {
	case api.KindUnauthorized:
		return h.expired(c)
	case api.KindSuccess:
		pr := res.Value
		form.Values["name"] = pr.Name
		form.Values["price"] = pr.Price.StringFixed(2)
		form.Values["description"] = pr.Description
		for _, cat := range pr.Categories {
			selected[cat.ID] = true
		}
	case api.KindFieldErrors, api.KindError:
		fill(p, form, res)
	}
	return h.render(c, "product_form", h.productForm(p, form, id, h.categories(c), selected))
}

func (h *Handler) updateProduct(c *fiber.Ctx) error {
	st := session.From(c)
	id := c.Params("id")
	categories := h.categories(c)
	p := h.page(c, "productForm.editTitle")
	form := newForm()

	req, selected, ok := readProductForm(c, p, form, categories)
	if !ok {
		return h.render(c, "product_form", h.productForm(p, form, id, categories, selected))
	}

	res, err := h.api.UpdateProduct(c.UserContext(), st.Token, id, req)
	if err != nil {
		return upstream(err)
	}
	switch res.Kind {
	case api.KindUnauthorized:
		return h.expired(c)
	case api.KindSuccess:
		if !h.attachPhoto(c, productPhotoKey(id), func(ctx context.Context, name string, data []byte) (api.Result[api.Status], error) {
			return h.api.UploadProductPhoto(ctx, st.Token, id, name, data)
		}) {
			p.Flash = &Alert{Kind: "danger", Text: p.T("product.photoFailed")}
		}
		form.success(p.T("product.updated"))
	case api.KindFieldErrors, api.KindError:
		fill(p, form, res)
	}
	return h.render(c, "product_form", h.productForm(p, form, id, categories, selected))
}

func (h *Handler) deleteProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	res, err := h.api.DeleteProduct(c.UserContext(), session.From(c).Token, id)
	if err != nil {
		return upstream(err)
	}
	switch res.Kind {
	case api.KindUnauthorized:
		return h.expired(c)
	case api.KindSuccess:
		h.photos.Invalidate(productPhotoKey(id))
		h.flash(c, session.FlashSuccess, "product.deleted")
	case api.KindFieldErrors, api.KindError:
		h.flash(c, session.FlashDanger, failure(res))
	}
	return c.Redirect("/my-products", fiber.StatusSeeOther)
}

// readProductForm copies the submitted product onto form. It reports false
// when the price is not a number, which never reaches the API.
func readProductForm(c *fiber.Ctx, p *Page, form *Form, categories []api.Category) (api.ProductRequest, map[int]bool, bool) {
	for _, k := range []string{"name", "price", "description"} {
		form.Values[k] = c.FormValue(k)
	}

	names := make(map[int]string, len(categories))
	for _, cat := range categories {
		names[cat.ID] = cat.Name
	}
	selected := map[int]bool{}
	req := api.ProductRequest{
		Name:        strings.TrimSpace(form.Value("name")),
		Description: form.Value("description"),
		Categories:  []api.Category{},
	}
	for _, raw := range formValues(c, "categories") {
		id, err := strconv.Atoi(raw)
		if err != nil || selected[id] {
			continue
		}
		selected[id] = true
		req.Categories = append(req.Categories, api.Category{ID: id, Name: names[id]})
	}

	price, err := decimal.NewFromString(strings.TrimSpace(form.Value("price")))
	if err != nil {
		form.Errors["price"] = p.T("product.priceInvalid")
		return req, selected, false
	}
	req.Price = price
	return req, selected, true
}

// formValues returns every value of a repeated form field for both
// urlencoded and multipart bodies.
func formValues(c *fiber.Ctx, key string) []string {
	if mf, err := c.MultipartForm(); err == nil {
		return mf.Value[key]
	}
	var out []string
	for _, v := range c.Request().PostArgs().PeekMulti(key) {
		out = append(out, string(v))
	}
	return out
}

type uploadFunc func(ctx context.Context, filename string, data []byte) (api.Result[api.Status], error)

// attachPhoto uploads the optional "photo" file and drops the cached copy.
// It reports false when a file was given but could not be stored.
func (h *Handler) attachPhoto(c *fiber.Ctx, key string, upload uploadFunc) bool {
	fh, err := c.FormFile("photo")
	if err != nil || fh.Size == 0 {
		return true
	}
	f, err := fh.Open()
	if err != nil {
		log.Warnf("web: open upload: %v", err)
		return false
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		log.Warnf("web: read upload: %v", err)
		return false
	}

	res, err := upload(c.UserContext(), fh.Filename, data)
	if err != nil {
		log.Warnf("web: upload photo %s: %v", key, err)
		return false
	}
	if !res.OK() {
		log.Warnf("web: upload photo %s: %s %s", key, res.Kind, failure(res))
		return false
	}
	h.photos.Invalidate(key)
	return true
}
