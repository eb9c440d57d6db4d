package cart

import (
	"errors"
	"sync"
)

var (
	ErrNotFound  = errors.New("cart item not found")
	ErrForbidden = errors.New("cart item belongs to another user")
)

type Repository interface {
	ListByUser(username string) ([]CartItem, error)
	GetByID(id string) (CartItem, error)
	// Add stores item, or raises the quantity of the user's existing line
	// for the same product.
	Add(item CartItem) (CartItem, error)
	UpdateQuantity(id string, quantity int) (CartItem, error)
	Delete(id string) error
}

type InMemoryRepository struct {
	mu    sync.RWMutex
	items []CartItem
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{items: make([]CartItem, 0)}
}

func (r *InMemoryRepository) ListByUser(username string) ([]CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]CartItem, 0)
	for _, item := range r.items {
		if item.Username == username {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) GetByID(id string) (CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.ID == id {
			return item, nil
		}
	}
	return CartItem{}, ErrNotFound
}

func (r *InMemoryRepository) Add(item CartItem) (CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.items {
		if existing.Username == item.Username && existing.ProductID == item.ProductID {
			existing.Quantity += item.Quantity
			r.items[i] = existing
			return existing, nil
		}
	}

	r.items = append(r.items, item)
	return item, nil
}

func (r *InMemoryRepository) UpdateQuantity(id string, quantity int) (CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, item := range r.items {
		if item.ID == id {
			item.Quantity = quantity
			r.items[i] = item
			return item, nil
		}
	}
	return CartItem{}, ErrNotFound
}

func (r *InMemoryRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, item := range r.items {
		if item.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
