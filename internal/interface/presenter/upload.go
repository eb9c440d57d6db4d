package presenter

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// MaxPhotoSize bounds uploaded photos.
const MaxPhotoSize = 5 << 20

var (
	ErrPhotoMissing  = errors.New("photo missing")
	ErrPhotoTooLarge = errors.New("photo too large")
	ErrNotAnImage    = errors.New("photo is not an image")
)

// PhotoMessage is the client facing text for an error from Photo.
func PhotoMessage(err error) string {
	switch {
	case errors.Is(err, ErrPhotoMissing):
		return "Photo is required."
	case errors.Is(err, ErrPhotoTooLarge):
		return "Photo is too large."
	case errors.Is(err, ErrNotAnImage):
		return "Photo should be an image."
	}
	return "Request body is not valid."
}

// Photo reads the multipart field "file" and sniffs its content type.
func Photo(c *fiber.Ctx) ([]byte, string, error) {
	fh, err := c.FormFile("file")
	if err != nil || fh == nil {
		return nil, "", ErrPhotoMissing
	}
	if fh.Size > MaxPhotoSize {
		return nil, "", ErrPhotoTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxPhotoSize+1))
	if err != nil {
		return nil, "", err
	}
	if len(data) == 0 {
		return nil, "", ErrPhotoMissing
	}
	if len(data) > MaxPhotoSize {
		return nil, "", ErrPhotoTooLarge
	}

	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		if ct := fh.Header.Get(fiber.HeaderContentType); strings.HasPrefix(ct, "image/") {
			contentType = ct
		} else {
			return nil, "", ErrNotAnImage
		}
	}
	return data, contentType, nil
}
