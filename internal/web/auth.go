package web

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/wichananm65/online-shop-web/internal/api"
	"github.com/wichananm65/online-shop-web/internal/session"
)

type formView struct {
	*Page
	Form *Form
}

func (h *Handler) loginForm(c *fiber.Ctx) error {
	if session.From(c).IsAuthenticated() {
		return c.Redirect("/", fiber.StatusSeeOther)
	}
	return h.render(c, "login", formView{Page: h.page(c, "login.title"), Form: newForm()})
}

func (h *Handler) login(c *fiber.Ctx) error {
	form := newForm()
	form.Values["username"] = c.FormValue("username")
	req := api.LoginRequest{Username: form.Value("username"), Password: c.FormValue("password")}

	res, err := h.api.Login(c.UserContext(), req)
	if err != nil {
		return upstream(err)
	}

	p := h.page(c, "login.title")
	switch res.Kind {
	case api.KindSuccess:
		if err := h.signIn(c, res.Value.AccessToken); err != nil {
			log.Warnf("web: sign in %s: %v", req.Username, err)
			form.danger(p.T("login.failed"))
			break
		}
		return c.Redirect("/", fiber.StatusSeeOther)
	case api.KindUnauthorized:
		form.danger(p.T("login.invalid"))
	case api.KindFieldErrors, api.KindError:
		fill(p, form, res)
	}
	return h.render(c, "login", formView{Page: p, Form: form})
}

// signIn resolves the token's user and stores token, username and roles in
// one dispatch under a fresh session id.
func (h *Handler) signIn(c *fiber.Ctx, token string) error {
	username, err := session.Subject(token)
	if err != nil {
		return err
	}
	res, err := h.api.User(c.UserContext(), token, username)
	if err != nil {
		return err
	}
	if !res.OK() {
		return fmt.Errorf("load user %s: %s", username, res.Kind)
	}
	roles := make([]string, 0, len(res.Value.Roles))
	for _, r := range res.Value.Roles {
		roles = append(roles, r.Name)
	}

	if err := h.sessions.Renew(c); err != nil {
		return err
	}
	_, err = h.sessions.Dispatch(c,
		session.SetToken(token),
		session.SetUsername(username),
		session.SetRoles(roles),
		session.SetFlash(session.FlashSuccess, "login.success"),
	)
	return err
}

func (h *Handler) registerForm(c *fiber.Ctx) error {
	form := newForm()
	form.Values["role"] = api.RoleUser
	return h.render(c, "register", formView{Page: h.page(c, "register.title"), Form: form})
}

func (h *Handler) register(c *fiber.Ctx) error {
	form := newForm()
	for _, k := range []string{"username", "email", "role"} {
		form.Values[k] = c.FormValue(k)
	}
	if form.Value("role") == "" {
		form.Values["role"] = api.RoleUser
	}
	req := api.RegisterRequest{
		Role:     form.Value("role"),
		Email:    form.Value("email"),
		Username: form.Value("username"),
		Password: c.FormValue("password"),
	}

	res, err := h.api.Register(c.UserContext(), req)
	if err != nil {
		return upstream(err)
	}

	p := h.page(c, "register.title")
	switch res.Kind {
	case api.KindSuccess:
		form = newForm()
		form.Values["role"] = api.RoleUser
		form.success(p.T("register.success"))
	case api.KindUnauthorized:
		return h.expired(c)
	case api.KindFieldErrors, api.KindError:
		fill(p, form, res)
	}
	return h.render(c, "register", formView{Page: p, Form: form})
}

func (h *Handler) logout(c *fiber.Ctx) error {
	if _, err := h.sessions.Dispatch(c, session.Logout(), session.SetFlash(session.FlashSuccess, "logout.success")); err != nil {
		return err
	}
	return c.Redirect("/login", fiber.StatusSeeOther)
}
