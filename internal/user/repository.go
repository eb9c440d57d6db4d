package user

import (
	"errors"
	"sync"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameExists     = errors.New("username already exists")
	ErrNoPhoto            = errors.New("user has no photo")
)

type Repository interface {
	GetByUsername(username string) (User, error)
	Create(user User) (User, error)
	Update(username string, user User) (User, error)
	SetPhoto(username string, data []byte, contentType string) error
	Photo(username string) ([]byte, string, error)
}

type photo struct {
	data        []byte
	contentType string
}

type InMemoryRepository struct {
	mu     sync.RWMutex
	users  []User
	photos map[string]photo
}

func NewInMemoryRepository(seed []User) *InMemoryRepository {
	repo := &InMemoryRepository{
		users:  make([]User, 0, len(seed)),
		photos: make(map[string]photo),
	}
	repo.users = append(repo.users, seed...)
	return repo
}

func (r *InMemoryRepository) GetByUsername(username string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Username == username {
			return user, nil
		}
	}

	return User{}, ErrNotFound
}

func (r *InMemoryRepository) Create(user User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Username == user.Username {
			return User{}, ErrUsernameExists
		}
	}

	r.users = append(r.users, user)
	return user, nil
}

func (r *InMemoryRepository) Update(username string, userUpdate User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, user := range r.users {
		if user.Username == username {
			user.Email = userUpdate.Email
			if userUpdate.Password != "" {
				user.Password = userUpdate.Password
			}
			r.users[i] = user
			return user, nil
		}
	}

	return User{}, ErrNotFound
}

func (r *InMemoryRepository) SetPhoto(username string, data []byte, contentType string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, user := range r.users {
		if user.Username == username {
			r.photos[username] = photo{data: append([]byte(nil), data...), contentType: contentType}
			r.users[i].Photo = photoPath(username)
			return nil
		}
	}

	return ErrNotFound
}

func (r *InMemoryRepository) Photo(username string) ([]byte, string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.photos[username]
	if !ok {
		return nil, "", ErrNoPhoto
	}
	return p.data, p.contentType, nil
}

func photoPath(username string) string {
	return "/api/user/" + username + "/photo"
}
