package session

// Flash kinds map onto alert styles in the views.
const (
	FlashSuccess = "success"
	FlashDanger  = "danger"
)

// Flash is a one-shot notification shown on the next rendered page. Key is
// looked up in the translation table; unknown keys are shown verbatim.
type Flash struct {
	Kind string `json:"kind"`
	Key  string `json:"key"`
}

// State is everything the storefront remembers about one browser.
type State struct {
	Token      string   `json:"token,omitempty"`
	Username   string   `json:"username,omitempty"`
	Roles      []string `json:"roles,omitempty"`
	Language   string   `json:"language,omitempty"`
	LightTheme bool     `json:"lightTheme"`
	Flash      *Flash   `json:"flash,omitempty"`
}

// Action mutates a State. State is only ever changed through actions.
type Action func(*State)

func SetToken(token string) Action {
	return func(s *State) { s.Token = token }
}

func SetUsername(username string) Action {
	return func(s *State) { s.Username = username }
}

func SetRoles(roles []string) Action {
	cp := append([]string(nil), roles...)
	return func(s *State) { s.Roles = cp }
}

func SetLanguage(lang string) Action {
	return func(s *State) { s.Language = lang }
}

func SetLightTheme(light bool) Action {
	return func(s *State) { s.LightTheme = light }
}

func SetFlash(kind, key string) Action {
	return func(s *State) { s.Flash = &Flash{Kind: kind, Key: key} }
}

func ClearFlash() Action {
	return func(s *State) { s.Flash = nil }
}

// Logout drops the credentials but keeps language and theme.
func Logout() Action {
	return func(s *State) {
		s.Token = ""
		s.Username = ""
		s.Roles = nil
	}
}

// Apply returns a copy of s with actions applied in order.
func (s State) Apply(actions ...Action) State {
	next := s
	next.Roles = append([]string(nil), s.Roles...)
	if s.Flash != nil {
		f := *s.Flash
		next.Flash = &f
	}
	for _, a := range actions {
		a(&next)
	}
	return next
}

func (s State) IsAuthenticated() bool { return s.Token != "" }

// Role is the first role, the one navigation is gated on.
func (s State) Role() string {
	if len(s.Roles) == 0 {
		return ""
	}
	return s.Roles[0]
}

func (s State) IsSeller() bool { return s.Role() == "SELLER" }

func (s State) IsUser() bool { return s.Role() == "USER" }
