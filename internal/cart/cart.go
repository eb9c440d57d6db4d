package cart

import "github.com/shopspring/decimal"

// CartItem snapshots the product name and price when it is added.
type CartItem struct {
	ID        string          `json:"id"`
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Username  string          `json:"-"`
}

func (i CartItem) subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
