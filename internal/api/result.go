package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Kind tags the variant held by a Result.
type Kind int

const (
	KindSuccess Kind = iota
	KindFieldErrors
	KindError
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindFieldErrors:
		return "fieldErrors"
	case KindError:
		return "error"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result is what every request wrapper returns. Exactly one of Value,
// FieldErrors or Message is meaningful, selected by Kind.
type Result[T any] struct {
	Kind        Kind
	StatusCode  int
	Value       T
	Message     string
	FieldErrors []FieldError
}

func (r Result[T]) OK() bool { return r.Kind == KindSuccess }

// Unauthorized reports whether the caller should send the user back to login.
func (r Result[T]) Unauthorized() bool { return r.Kind == KindUnauthorized }

// FieldErrorMap indexes the field errors by field name. The first message
// for a field wins.
func (r Result[T]) FieldErrorMap() map[string]string {
	out := make(map[string]string, len(r.FieldErrors))
	for _, fe := range r.FieldErrors {
		if _, ok := out[fe.Field]; !ok {
			out[fe.Field] = fe.Message
		}
	}
	return out
}

type envelope struct {
	Error       json.RawMessage `json:"error"`
	FieldErrors []FieldError    `json:"fieldErrors"`
}

// decodeResult classifies a response body into one of the four variants.
func decodeResult[T any](status int, body []byte) (Result[T], error) {
	res := Result[T]{StatusCode: status}
	if status == http.StatusUnauthorized {
		res.Kind = KindUnauthorized
		return res, nil
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var env envelope
		if err := json.Unmarshal(trimmed, &env); err == nil {
			if len(env.Error) > 0 && string(env.Error) != "null" {
				res.Kind = KindError
				res.Message = errorMessage(env.Error)
				return res, nil
			}
			if env.FieldErrors != nil {
				res.Kind = KindFieldErrors
				res.FieldErrors = env.FieldErrors
				return res, nil
			}
		}
	}

	if status >= http.StatusBadRequest {
		res.Kind = KindError
		res.Message = strings.TrimSpace(string(trimmed))
		if res.Message == "" || (len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '<')) {
			res.Message = http.StatusText(status)
		}
		return res, nil
	}

	res.Kind = KindSuccess
	if len(trimmed) == 0 {
		return res, nil
	}
	if err := json.Unmarshal(trimmed, &res.Value); err != nil {
		return Result[T]{}, fmt.Errorf("decode response: %w", err)
	}
	return res, nil
}

func errorMessage(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
