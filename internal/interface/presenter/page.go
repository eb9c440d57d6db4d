package presenter

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Page is the list envelope shared by the cart and search endpoints.
type Page[T any] struct {
	Data        []T             `json:"data"`
	CurrentPage int             `json:"currentPage"`
	TotalPages  int             `json:"totalPages"`
	TotalItems  int             `json:"totalItems"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
	PageSize    int             `json:"pageSize"`
	HasNext     bool            `json:"hasNext"`
	HasPrevious bool            `json:"hasPrevious"`
}

// Paginate cuts one zero based page out of items. A page past the end
// yields an empty Data slice with the real totals.
func Paginate[T any](items []T, page, size int) Page[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	if page < 0 {
		page = 0
	}

	total := len(items)
	pages := (total + size - 1) / size
	out := Page[T]{
		Data:        []T{},
		CurrentPage: page,
		TotalPages:  pages,
		TotalItems:  total,
		TotalPrice:  decimal.Zero,
		PageSize:    size,
		HasNext:     page < pages-1,
		HasPrevious: page > 0,
	}

	// checked before multiplying so a huge page cannot overflow
	if page >= pages {
		return out
	}
	start := page * size
	end := start + size
	if end > total {
		end = total
	}
	out.Data = append(out.Data, items[start:end]...)
	return out
}

// PageParams reads ?page= and ?size= with the defaults above.
func PageParams(c *fiber.Ctx) (int, int) {
	return c.QueryInt("page", 0), c.QueryInt("size", DefaultPageSize)
}
