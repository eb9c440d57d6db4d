package category

import "errors"

var ErrUnknown = errors.New("unknown category")

// Service provides business logic for categories.
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

func (s *Service) List() ([]Category, error) {
	return s.repo.List()
}

// Resolve replaces each category with the stored one of the same id, so
// callers cannot rename categories. Unknown ids yield ErrUnknown.
func (s *Service) Resolve(in []Category) ([]Category, error) {
	all, err := s.repo.List()
	if err != nil {
		return nil, err
	}
	byID := make(map[int]Category, len(all))
	for _, cat := range all {
		byID[cat.ID] = cat
	}

	out := make([]Category, 0, len(in))
	seen := make(map[int]bool, len(in))
	for _, cat := range in {
		stored, ok := byID[cat.ID]
		if !ok {
			return nil, ErrUnknown
		}
		if seen[cat.ID] {
			continue
		}
		seen[cat.ID] = true
		out = append(out, stored)
	}
	return out, nil
}
