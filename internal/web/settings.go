package web

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/online-shop-web/internal/session"
)

func (h *Handler) setLanguage(c *fiber.Ctx) error {
	back := safeRedirect(c.FormValue("redirect"), "/")
	if lang := c.FormValue("lang"); h.i18n.Supports(lang) {
		if _, err := h.sessions.Dispatch(c, session.SetLanguage(lang)); err != nil {
			return err
		}
	}
	return c.Redirect(back, fiber.StatusSeeOther)
}

func (h *Handler) toggleTheme(c *fiber.Ctx) error {
	back := safeRedirect(c.FormValue("redirect"), "/")
	if _, err := h.sessions.Dispatch(c, session.SetLightTheme(!session.From(c).LightTheme)); err != nil {
		return err
	}
	return c.Redirect(back, fiber.StatusSeeOther)
}
