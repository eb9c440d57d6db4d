package product

import (
	"errors"
	"strings"
	"sync"
)

var (
	ErrNotFound  = errors.New("product not found")
	ErrNoPhoto   = errors.New("product has no photo")
	ErrForbidden = errors.New("product belongs to another seller")
)

type Repository interface {
	List() ([]Product, error)
	GetByID(id string) (Product, error)
	ListBySeller(username string) ([]Product, error)
	Search(query string) ([]Product, error)
	Create(product Product) (Product, error)
	Update(id string, product Product) (Product, error)
	Delete(id string) error
	SetPhoto(id string, data []byte, contentType string) error
	Photo(id string) ([]byte, string, error)
}

type photo struct {
	data        []byte
	contentType string
}

type InMemoryRepository struct {
	mu       sync.RWMutex
	products []Product
	photos   map[string]photo
}

func NewInMemoryRepository(seed []Product) *InMemoryRepository {
	repo := &InMemoryRepository{
		products: make([]Product, 0, len(seed)),
		photos:   make(map[string]photo),
	}
	repo.products = append(repo.products, seed...)
	return repo
}

func (r *InMemoryRepository) List() ([]Product, error) {
	return r.filter(func(Product) bool { return true }), nil
}

func (r *InMemoryRepository) GetByID(id string) (Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.products {
		if p.ObjectID == id {
			return p, nil
		}
	}

	return Product{}, ErrNotFound
}

func (r *InMemoryRepository) ListBySeller(username string) ([]Product, error) {
	return r.filter(func(p Product) bool { return p.UserID == username }), nil
}

// Search matches products whose name or description contains every term
// of query, ignoring case.
func (r *InMemoryRepository) Search(query string) ([]Product, error) {
	terms := strings.Fields(strings.ToLower(query))
	return r.filter(func(p Product) bool {
		text := strings.ToLower(p.Name + " " + p.Description)
		for _, term := range terms {
			if !strings.Contains(text, term) {
				return false
			}
		}
		return true
	}), nil
}

func (r *InMemoryRepository) filter(keep func(Product) bool) []Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Product, 0)
	for _, p := range r.products {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func (r *InMemoryRepository) Create(product Product) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.products = append(r.products, product)
	return product, nil
}

func (r *InMemoryRepository) Update(id string, productUpdate Product) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.products {
		if p.ObjectID == id {
			p.Name = productUpdate.Name
			p.Price = productUpdate.Price
			p.Categories = productUpdate.Categories
			p.Description = productUpdate.Description
			r.products[i] = p
			return p, nil
		}
	}

	return Product{}, ErrNotFound
}

func (r *InMemoryRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.products {
		if p.ObjectID == id {
			r.products = append(r.products[:i], r.products[i+1:]...)
			delete(r.photos, id)
			return nil
		}
	}

	return ErrNotFound
}

func (r *InMemoryRepository) SetPhoto(id string, data []byte, contentType string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.products {
		if p.ObjectID == id {
			r.photos[id] = photo{data: append([]byte(nil), data...), contentType: contentType}
			r.products[i].Photo = photoPath(id)
			return nil
		}
	}

	return ErrNotFound
}

func (r *InMemoryRepository) Photo(id string) ([]byte, string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.photos[id]
	if !ok {
		return nil, "", ErrNoPhoto
	}
	return p.data, p.contentType, nil
}
