package product

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/wichananm65/online-shop-web/internal/category"
)

type Product struct {
	ObjectID    string              `json:"objectID"`
	Name        string              `json:"name"`
	Price       decimal.Decimal     `json:"price"`
	Categories  []category.Category `json:"categories"`
	Description string              `json:"description"`
	Photo       string              `json:"photo,omitempty"`
	UserID      string              `json:"userId"`
	CreatedAt   time.Time           `json:"createdAt"`
}

// Request is the body of create and update calls.
type Request struct {
	Name        string              `json:"name"`
	Price       decimal.Decimal     `json:"price"`
	Categories  []category.Category `json:"categories"`
	Description string              `json:"description"`
}

func photoPath(id string) string {
	return "/api/product/" + id + "/photo"
}
