package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wichananm65/online-shop-web/internal/interface/presenter"
	"github.com/wichananm65/online-shop-web/internal/product"
)

// Service orchestrates cart operations.
type Service struct {
	repo     Repository
	products *product.Service
	newID    func() string
}

func NewService(repo Repository, products *product.Service) *Service {
	return &Service{repo: repo, products: products, newID: uuid.NewString}
}

type AddRequest struct {
	Username  string `json:"username"`
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// List returns one zero based page of username's cart. TotalPrice covers
// the whole cart, not just the page.
func (s *Service) List(username string, page, size int) (presenter.Page[CartItem], error) {
	items, err := s.repo.ListByUser(username)
	if err != nil {
		return presenter.Page[CartItem]{}, err
	}

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.subtotal())
	}
	out := presenter.Paginate(items, page, size)
	out.TotalPrice = total
	return out, nil
}

func (s *Service) Add(req AddRequest) (CartItem, error) {
	if err := validateQuantity(req.Quantity); err != nil {
		return CartItem{}, err
	}

	p, err := s.products.GetByID(req.ProductID)
	if err != nil {
		return CartItem{}, err
	}

	return s.repo.Add(CartItem{
		ID:        s.newID(),
		ProductID: p.ObjectID,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  req.Quantity,
		Username:  req.Username,
	})
}

func (s *Service) UpdateQuantity(username, id string, quantity int) (CartItem, error) {
	if err := validateQuantity(quantity); err != nil {
		return CartItem{}, err
	}
	if err := s.owned(username, id); err != nil {
		return CartItem{}, err
	}
	return s.repo.UpdateQuantity(id, quantity)
}

func (s *Service) Delete(username, id string) error {
	if err := s.owned(username, id); err != nil {
		return err
	}
	return s.repo.Delete(id)
}

func (s *Service) owned(username, id string) error {
	item, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if item.Username != username {
		return ErrForbidden
	}
	return nil
}

func validateQuantity(quantity int) error {
	var fe presenter.FieldErrors
	if quantity < 1 {
		fe.Add("quantity", "Quantity should be at least 1.")
	}
	return presenter.Invalid(fe)
}
