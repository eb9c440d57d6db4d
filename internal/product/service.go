package product

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wichananm65/online-shop-web/internal/category"
	"github.com/wichananm65/online-shop-web/internal/interface/presenter"
)

var minPrice = decimal.New(1, -2)

type Service struct {
	repo       Repository
	categories *category.Service
	now        func() time.Time
	newID      func() string
}

func NewService(repo Repository, categories *category.Service) *Service {
	return &Service{repo: repo, categories: categories, now: time.Now, newID: uuid.NewString}
}

func (s *Service) List() ([]Product, error) {
	products, err := s.repo.List()
	if err != nil {
		return nil, err
	}
	return s.named(products)
}

func (s *Service) GetByID(id string) (Product, error) {
	p, err := s.repo.GetByID(id)
	if err != nil {
		return Product{}, err
	}
	named, err := s.named([]Product{p})
	if err != nil {
		return Product{}, err
	}
	return named[0], nil
}

func (s *Service) ListBySeller(username string) ([]Product, error) {
	products, err := s.repo.ListBySeller(username)
	if err != nil {
		return nil, err
	}
	return s.named(products)
}

// Search returns one zero based page of the products matching query.
func (s *Service) Search(query string, page, size int) (presenter.Page[Product], error) {
	products, err := s.repo.Search(strings.TrimSpace(query))
	if err != nil {
		return presenter.Page[Product]{}, err
	}
	products, err = s.named(products)
	if err != nil {
		return presenter.Page[Product]{}, err
	}
	return presenter.Paginate(products, page, size), nil
}

func (s *Service) Create(seller string, req Request) (Product, error) {
	cats, err := s.validate(&req)
	if err != nil {
		return Product{}, err
	}

	return s.repo.Create(Product{
		ObjectID:    s.newID(),
		Name:        req.Name,
		Price:       req.Price,
		Categories:  cats,
		Description: req.Description,
		UserID:      seller,
		CreatedAt:   s.now().UTC(),
	})
}

func (s *Service) Update(seller, id string, req Request) (Product, error) {
	if err := s.owned(seller, id); err != nil {
		return Product{}, err
	}
	cats, err := s.validate(&req)
	if err != nil {
		return Product{}, err
	}

	updated, err := s.repo.Update(id, Product{
		Name:        req.Name,
		Price:       req.Price,
		Categories:  cats,
		Description: req.Description,
	})
	if err != nil {
		return Product{}, err
	}
	named, err := s.named([]Product{updated})
	if err != nil {
		return Product{}, err
	}
	return named[0], nil
}

func (s *Service) Delete(seller, id string) error {
	if err := s.owned(seller, id); err != nil {
		return err
	}
	return s.repo.Delete(id)
}

func (s *Service) SetPhoto(seller, id string, data []byte, contentType string) error {
	if err := s.owned(seller, id); err != nil {
		return err
	}
	return s.repo.SetPhoto(id, data, contentType)
}

func (s *Service) Photo(id string) ([]byte, string, error) {
	return s.repo.Photo(id)
}

func (s *Service) owned(seller, id string) error {
	p, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if p.UserID != seller {
		return ErrForbidden
	}
	return nil
}

func (s *Service) validate(req *Request) ([]category.Category, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)

	var fe presenter.FieldErrors
	if req.Name == "" {
		fe.Add("name", "Name is required.")
	}
	if req.Price.LessThan(minPrice) {
		fe.Add("price", "Price should be greater than or equal to 0.01.")
	}
	cats, err := s.categories.Resolve(req.Categories)
	if errors.Is(err, category.ErrUnknown) {
		fe.Add("categories", "Category is not valid.")
	} else if err != nil {
		return nil, err
	}
	if err := presenter.Invalid(fe); err != nil {
		return nil, err
	}
	return cats, nil
}

// named fills in category names from the category store.
func (s *Service) named(products []Product) ([]Product, error) {
	all, err := s.categories.List()
	if err != nil {
		return nil, err
	}
	names := make(map[int]string, len(all))
	for _, c := range all {
		names[c.ID] = c.Name
	}
	for i := range products {
		cats := make([]category.Category, 0, len(products[i].Categories))
		for _, c := range products[i].Categories {
			if name, ok := names[c.ID]; ok {
				c.Name = name
			}
			cats = append(cats, c)
		}
		products[i].Categories = cats
	}
	return products, nil
}
