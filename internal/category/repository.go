package category

import "sync"

// Repository provides access to categories.
type Repository interface {
	List() ([]Category, error)
}

type InMemoryRepository struct {
	mu         sync.RWMutex
	categories []Category
}

func NewInMemoryRepository(seed []Category) *InMemoryRepository {
	repo := &InMemoryRepository{categories: make([]Category, 0, len(seed))}
	repo.categories = append(repo.categories, seed...)
	return repo
}

func (r *InMemoryRepository) List() ([]Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Category, len(r.categories))
	copy(out, r.categories)
	return out, nil
}
