package user

import (
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/wichananm65/online-shop-web/internal/interface/presenter"
)

const minPasswordLength = 6

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

type RegisterRequest struct {
	Role     string `json:"role"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type UpdateRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Service) GetByUsername(username string) (User, error) {
	return s.repo.GetByUsername(username)
}

func (s *Service) Register(req RegisterRequest) (User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	var fe presenter.FieldErrors
	if req.Username == "" {
		fe.Add("username", "Username is required.")
	}
	validateEmail(&fe, req.Email)
	validatePassword(&fe, req.Password)
	role, ok := RoleByName(req.Role)
	if !ok {
		fe.Add("role", "Role is not valid.")
	}
	if err := presenter.Invalid(fe); err != nil {
		return User{}, err
	}

	if _, err := s.repo.GetByUsername(req.Username); err == nil {
		return User{}, ErrUsernameExists
	} else if err != ErrNotFound {
		return User{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	return s.repo.Create(User{
		Username:  req.Username,
		Email:     req.Email,
		Password:  string(hashed),
		Roles:     []Role{role},
		CreatedAt: s.now().UTC(),
	})
}

func (s *Service) Authenticate(username, password string) (User, error) {
	var fe presenter.FieldErrors
	if strings.TrimSpace(username) == "" {
		fe.Add("username", "Username is required.")
	}
	if password == "" {
		fe.Add("password", "Password is required.")
	}
	if err := presenter.Invalid(fe); err != nil {
		return User{}, err
	}

	user, err := s.repo.GetByUsername(strings.TrimSpace(username))
	if err != nil {
		return User{}, ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}

	return user, nil
}

// Update changes the email and, when one is given, the password.
func (s *Service) Update(username string, req UpdateRequest) (User, error) {
	req.Email = strings.TrimSpace(req.Email)

	var fe presenter.FieldErrors
	validateEmail(&fe, req.Email)
	if req.Password != "" {
		validatePassword(&fe, req.Password)
	}
	if err := presenter.Invalid(fe); err != nil {
		return User{}, err
	}

	update := User{Email: req.Email}
	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return User{}, err
		}
		update.Password = string(hashed)
	}
	return s.repo.Update(username, update)
}

func (s *Service) SetPhoto(username string, data []byte, contentType string) error {
	return s.repo.SetPhoto(username, data, contentType)
}

func (s *Service) Photo(username string) ([]byte, string, error) {
	return s.repo.Photo(username)
}

func validateEmail(fe *presenter.FieldErrors, email string) {
	if email == "" {
		fe.Add("email", "Email is required.")
		return
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		fe.Add("email", "Email is not valid.")
	}
}

func validatePassword(fe *presenter.FieldErrors, password string) {
	if len(password) < minPasswordLength {
		fe.Add("password", "Password should be at least 6 characters long.")
	}
}
