package web

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/online-shop-web/internal/api"
	"github.com/wichananm65/online-shop-web/internal/session"
)

type profileView struct {
	*Page
	Form *Form
}

func (h *Handler) profile(c *fiber.Ctx) error {
	st := session.From(c)
	res, err := h.api.User(c.UserContext(), st.Token, st.Username)
	if err != nil {
		return upstream(err)
	}

	p := h.page(c, "profile.title")
	form := newForm()
	switch res.Kind {
	case api.KindUnauthorized:
		return h.expired(c)
	case api.KindSuccess:
		form.Values["email"] = res.Value.Email
	case api.KindFieldErrors, api.KindError:
		fill(p, form, res)
	}
	return h.render(c, "profile", profileView{Page: p, Form: form})
}

func (h *Handler) updateProfile(c *fiber.Ctx) error {
	st := session.From(c)
	form := newForm()
	form.Values["email"] = c.FormValue("email")
	req := api.UserUpdateRequest{Email: form.Value("email"), Password: c.FormValue("password")}

	res, err := h.api.UpdateUser(c.UserContext(), st.Token, st.Username, req)
	if err != nil {
		return upstream(err)
	}

	p := h.page(c, "profile.title")
	switch res.Kind {
	case api.KindUnauthorized:
		return h.expired(c)
	case api.KindSuccess:
		if !h.attachPhoto(c, userPhotoKey(st.Username), func(ctx context.Context, name string, data []byte) (api.Result[api.Status], error) {
			return h.api.UploadUserPhoto(ctx, st.Token, st.Username, name, data)
		}) {
			p.Flash = &Alert{Kind: "danger", Text: p.T("profile.photoFailed")}
		}
		form.success(p.T("profile.updated"))
	case api.KindFieldErrors, api.KindError:
		fill(p, form, res)
	}
	return h.render(c, "profile", profileView{Page: p, Form: form})
}
