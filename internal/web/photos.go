package web

import (
	"context"
	"errors"
	"io/fs"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/wichananm65/online-shop-web/internal/api"
	"github.com/wichananm65/online-shop-web/internal/session"
)

const placeholderPhoto = "static/placeholder.svg"

func (h *Handler) productPhoto(c *fiber.Ctx) error {
	id := c.Params("id")
	token := session.From(c).Token
	return h.sendPhoto(c, productPhotoKey(id), func(ctx context.Context) (Photo, error) {
		data, contentType, err := h.api.ProductPhoto(ctx, token, id)
		return Photo{Data: data, ContentType: contentType}, err
	})
}

func (h *Handler) userPhoto(c *fiber.Ctx) error {
	username := c.Params("username")
	token := session.From(c).Token
	return h.sendPhoto(c, userPhotoKey(username), func(ctx context.Context) (Photo, error) {
		data, contentType, err := h.api.UserPhoto(ctx, token, username)
		return Photo{Data: data, ContentType: contentType}, err
	})
}

// sendPhoto serves a cached photo, or the placeholder when there is none.
func (h *Handler) sendPhoto(c *fiber.Ctx, key string, fetch func(context.Context) (Photo, error)) error {
	c.Set(fiber.HeaderCacheControl, "no-cache")
	photo, err := h.photos.Get(c.UserContext(), key, fetch)
	if err == nil {
		c.Set(fiber.HeaderContentType, photo.ContentType)
		return c.Send(photo.Data)
	}

	status := fiber.StatusNotFound
	if !errors.Is(err, api.ErrNotFound) && !errors.Is(err, api.ErrUnauthorized) {
		log.Warnf("web: photo %s: %v", key, err)
		status = fiber.StatusBadGateway
	}
	data, rerr := fs.ReadFile(assets, placeholderPhoto)
	if rerr != nil {
		return rerr
	}
	c.Set(fiber.HeaderContentType, "image/svg+xml")
	return c.Status(status).Send(data)
}
