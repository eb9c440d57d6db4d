package user

import "time"

type Role struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

var (
	RoleUser   = Role{ID: 1, Name: "USER"}
	RoleSeller = Role{ID: 2, Name: "SELLER"}
)

// RoleByName accepts the role names a new account may pick.
func RoleByName(name string) (Role, bool) {
	switch name {
	case RoleUser.Name:
		return RoleUser, true
	case RoleSeller.Name:
		return RoleSeller, true
	}
	return Role{}, false
}

type User struct {
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"password,omitempty"`
	Roles     []Role    `json:"roles"`
	Photo     string    `json:"photo,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// HasRole reports whether u holds the role called name.
func (u User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

func (u User) roleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}
