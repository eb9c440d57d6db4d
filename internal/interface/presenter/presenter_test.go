package presenter

import (
	"errors"
	"io"
	"math"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	tests := []struct {
		page, size  int
		data        []int
		pages       int
		next, prev  bool
		currentPage int
	}{
		{0, 2, []int{1, 2}, 3, true, false, 0},
		{2, 2, []int{5}, 3, false, true, 2},
		{7, 2, []int{}, 3, false, true, 7},
		{-1, 0, []int{1, 2, 3, 4, 5}, 1, false, false, 0},
		{math.MaxInt, 10, []int{}, 1, false, true, math.MaxInt},
	}
	for _, tt := range tests {
		p := Paginate(items, tt.page, tt.size)
		if len(p.Data) != len(tt.data) || p.TotalPages != tt.pages || p.HasNext != tt.next || p.HasPrevious != tt.prev || p.CurrentPage != tt.currentPage {
			t.Errorf("page %d size %d: unexpected %+v", tt.page, tt.size, p)
			continue
		}
		for i := range tt.data {
			if p.Data[i] != tt.data[i] {
				t.Errorf("page %d size %d: data %v, want %v", tt.page, tt.size, p.Data, tt.data)
			}
		}
		if p.TotalItems != 5 {
			t.Errorf("total items should be 5, got %d", p.TotalItems)
		}
	}

	if p := Paginate(items, 0, 1000); p.PageSize != MaxPageSize {
		t.Errorf("size should be capped at %d, got %d", MaxPageSize, p.PageSize)
	}
	if p := Paginate([]int(nil), 0, 5); p.Data == nil || p.TotalPages != 0 || p.HasNext {
		t.Errorf("empty input should give an empty page, got %+v", p)
	}
}

func TestInvalid(t *testing.T) {
	if Invalid(nil) != nil {
		t.Fatalf("no field errors should give a nil error")
	}
	var fe FieldErrors
	fe.Add("name", "Name is required.")
	err := Invalid(fe)
	var ve *ValidationError
	if !errors.As(err, &ve) || len(ve.Fields) != 1 || ve.Fields[0].Field != "name" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestResponseShapes(t *testing.T) {
	app := fiber.New()
	app.Get("/status", func(c *fiber.Ctx) error { return Unauthorized(c) })
	app.Get("/error", func(c *fiber.Ctx) error { return Error(c, fiber.StatusConflict, "Username is already taken.") })
	app.Get("/fields", func(c *fiber.Ctx) error {
		var fe FieldErrors
		fe.Add("email", "Email is required.")
		return Fields(c, fe)
	})

	tests := []struct {
		path   string
		status int
		body   string
	}{
		{"/status", 401, `{"status":401}`},
		{"/error", 409, `{"error":"Username is already taken."}`},
		{"/fields", 400, `{"fieldErrors":[{"field":"email","message":"Email is required."}]}`},
	}
	for _, tt := range tests {
		res, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
		if err != nil {
			t.Fatalf("%s: %v", tt.path, err)
		}
		b, _ := io.ReadAll(res.Body)
		if res.StatusCode != tt.status || string(b) != tt.body {
			t.Errorf("%s: got %d %s", tt.path, res.StatusCode, b)
		}
	}
}

func TestPhotoMessage(t *testing.T) {
	if got := PhotoMessage(ErrNotAnImage); got != "Photo should be an image." {
		t.Fatalf("unexpected message %q", got)
	}
	if got := PhotoMessage(errors.New("disk")); got != "Request body is not valid." {
		t.Fatalf("unexpected fallback %q", got)
	}
}
