package web

import (
	"net/url"
	"strconv"

	"github.com/wichananm65/online-shop-web/internal/api"
	"github.com/wichananm65/online-shop-web/internal/i18n"
)

// Alert is a banner at the top of a page. Kind is a bootstrap contextual
// class suffix: success or danger.
type Alert struct {
	Kind string
	Text string
}

// Page carries what the layout and header need on every render.
type Page struct {
	Title      string
	Lang       string
	Languages  []string
	LightTheme bool
	Username   string
	Role       string
	LoggedIn   bool
	IsSeller   bool
	IsUser     bool
	Path       string
	Flash      *Alert

	bundle *i18n.Bundle
}

func (p *Page) T(key string) string { return p.bundle.T(p.Lang, key) }

func (p *Page) Tf(key string, args ...any) string { return p.bundle.Tf(p.Lang, key, args...) }

// Form holds submitted values and the outcome of the last submit.
type Form struct {
	Values map[string]string
	Errors map[string]string
	Alert  *Alert
}

func newForm() *Form {
	return &Form{Values: map[string]string{}, Errors: map[string]string{}}
}

func (f *Form) Value(name string) string { return f.Values[name] }

func (f *Form) Error(name string) string { return f.Errors[name] }

func (f *Form) Invalid(name string) bool {
	_, ok := f.Errors[name]
	return ok
}

func (f *Form) HasErrors() bool { return len(f.Errors) > 0 }

func (f *Form) success(text string) {
	f.Alert = &Alert{Kind: "success", Text: text}
}

func (f *Form) danger(text string) {
	f.Alert = &Alert{Kind: "danger", Text: text}
}

// fill copies a failed result onto the form. Server messages are translated
// when the table knows them and shown verbatim otherwise.
func fill[T any](p *Page, f *Form, res api.Result[T]) {
	switch res.Kind {
	case api.KindFieldErrors:
		for field, msg := range res.FieldErrorMap() {
			f.Errors[field] = p.T(msg)
		}
	case api.KindError:
		f.danger(p.T(res.Message))
	}
}

// Card pairs a list item with the page so card partials can translate and
// check roles.
type Card[T any] struct {
	Item T
	Page *Page
}

func cards[T any](p *Page, items []T) []Card[T] {
	out := make([]Card[T], len(items))
	for i, it := range items {
		out[i] = Card[T]{Item: it, Page: p}
	}
	return out
}

// Pager renders server-driven pagination. Pages are 1 based here and zero
// based on the API.
type Pager struct {
	Current     int
	Total       int
	HasPrevious bool
	HasNext     bool
	Pages       []int

	path  string
	query url.Values
}

const pagerWindow = 2

func newPager(path string, query url.Values, apiPage, totalPages int, hasPrevious, hasNext bool) *Pager {
	p := &Pager{
		Current:     apiPage + 1,
		Total:       totalPages,
		HasPrevious: hasPrevious,
		HasNext:     hasNext,
		path:        path,
		query:       query,
	}
	lo, hi := p.Current-pagerWindow, p.Current+pagerWindow
	if lo < 1 {
		lo = 1
	}
	if hi > totalPages {
		hi = totalPages
	}
	for i := lo; i <= hi; i++ {
		p.Pages = append(p.Pages, i)
	}
	return p
}

func (p *Pager) Visible() bool { return p.Total > 1 }

func (p *Pager) Previous() int { return p.Current - 1 }

func (p *Pager) Next() int { return p.Current + 1 }

func (p *Pager) URL(page int) string {
	q := url.Values{}
	for k, v := range p.query {
		q[k] = v
	}
	q.Set("page", strconv.Itoa(page))
	return p.path + "?" + q.Encode()
}

// NextQuantity applies a cart -/+ step. Quantities never drop below 1 and
// have no upper bound.
func NextQuantity(current int, op string) int {
	if current < 1 {
		current = 1
	}
	switch op {
	case "inc":
		return current + 1
	case "dec":
		if current > 1 {
			return current - 1
		}
	}
	return current
}
