package presenter

import "github.com/gofiber/fiber/v2"

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors collects validation failures in the order they were found.
type FieldErrors []FieldError

func (fe *FieldErrors) Add(field, message string) {
	*fe = append(*fe, FieldError{Field: field, Message: message})
}

func (fe FieldErrors) Empty() bool { return len(fe) == 0 }

// ValidationError carries field errors out of a service call.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	return e.Fields[0].Field + ": " + e.Fields[0].Message
}

// Invalid returns a *ValidationError, or nil when fe is empty.
func Invalid(fe FieldErrors) error {
	if fe.Empty() {
		return nil
	}
	return &ValidationError{Fields: fe}
}

// Error writes {"error": message}.
func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// Fields writes {"fieldErrors": [...]} with a 400 status.
func Fields(c *fiber.Ctx, fe FieldErrors) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"fieldErrors": fe})
}

// Status writes {"status": code}, which is also the shape of the 401 reply.
func Status(c *fiber.Ctx, code int) error {
	return c.Status(code).JSON(fiber.Map{"status": code})
}

func Unauthorized(c *fiber.Ctx) error {
	return Status(c, fiber.StatusUnauthorized)
}
