package api

import "github.com/shopspring/decimal"

// Role names understood by the storefront.
const (
	RoleUser   = "USER"
	RoleSeller = "SELLER"
)

type Role struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type User struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Roles    []Role `json:"roles"`
	Photo    string `json:"photo,omitempty"`
}

// PrimaryRole returns the name of the first role, which is the one the UI gates on.
func (u User) PrimaryRole() string {
	if len(u.Roles) == 0 {
		return ""
	}
	return u.Roles[0].Name
}

type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Product mirrors the API product record. ObjectID doubles as the path id.
type Product struct {
	ObjectID    string          `json:"objectID"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Categories  []Category      `json:"categories"`
	Description string          `json:"description"`
	Photo       string          `json:"photo,omitempty"`
	UserID      string          `json:"userId,omitempty"`
}

type CartItem struct {
	ID        string          `json:"id"`
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// Subtotal is price times quantity.
func (i CartItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Paginated wraps any list response from the cart and search endpoints.
type Paginated[T any] struct {
	Data        []T             `json:"data"`
	CurrentPage int             `json:"currentPage"`
	TotalPages  int             `json:"totalPages"`
	TotalItems  int             `json:"totalItems"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
	PageSize    int             `json:"pageSize"`
	HasNext     bool            `json:"hasNext"`
	HasPrevious bool            `json:"hasPrevious"`
}

// Status is the body of operations that only acknowledge success.
type Status struct {
	Status int `json:"status"`
}

type RegisterRequest struct {
	Role     string `json:"role"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"accessToken"`
}

type ProductRequest struct {
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Categories  []Category      `json:"categories"`
	Description string          `json:"description"`
}

type AddCartItemRequest struct {
	Username  string `json:"username"`
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type UserUpdateRequest struct {
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
}
