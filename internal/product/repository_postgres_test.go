package product

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"

	"github.com/wichananm65/online-shop-web/internal/category"
)

var productRowColumns = []string{"object_id", "name", "price", "description", "category_ids", "seller", "has_photo", "created_at"}

func TestPostgresGetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	created := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(productRowColumns).AddRow("p1", "Lamp", "12.50", "warm", "2,5", "sam", true, created)
	mock.ExpectQuery("FROM products\\s+WHERE object_id = \\$1").WithArgs("p1").WillReturnRows(rows)

	p, err := repo.GetByID("p1")
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if !p.Price.Equal(decimal.RequireFromString("12.5")) || p.UserID != "sam" || p.Photo != "/api/product/p1/photo" {
		t.Fatalf("unexpected product %+v", p)
	}
	if len(p.Categories) != 2 || p.Categories[1].ID != 5 {
		t.Fatalf("unexpected categories %+v", p.Categories)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresGetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("FROM products").WithArgs("gone").WillReturnRows(sqlmock.NewRows(productRowColumns))

	if _, err := repo.GetByID("gone"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgresSearch_EscapesTerms(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	rows := sqlmock.NewRows(productRowColumns).AddRow("p1", "Lamp 50%", "1.00", "", "", "sam", false, time.Now())
	mock.ExpectQuery("ILIKE \\$1 AND .* ILIKE \\$2").WithArgs("%lamp%", "%50\\%%").WillReturnRows(rows)

	got, err := repo.Search("lamp 50%")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 || len(got[0].Categories) != 0 || got[0].Photo != "" {
		t.Fatalf("unexpected results %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	price := decimal.RequireFromString("3.25")
	mock.ExpectExec("INSERT INTO products").
		WithArgs("p9", "Rake", price, "", "{3,1}", "kim", now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	_, err = repo.Create(Product{
		ObjectID:   "p9",
		Name:       "Rake",
		Price:      price,
		Categories: []category.Category{{ID: 3}, {ID: 1}},
		UserID:     "kim",
		CreatedAt:  now,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresPhoto(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectExec("UPDATE products SET photo_data").WithArgs("missing", []byte("x"), "image/png").WillReturnResult(sqlmock.NewResult(0, 0))
	if err := repo.SetPhoto("missing", []byte("x"), "image/png"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	mock.ExpectQuery("SELECT photo_data, photo_type").WithArgs("p1").
		WillReturnRows(sqlmock.NewRows([]string{"photo_data", "photo_type"}).AddRow(nil, nil))
	if _, _, err := repo.Photo("p1"); !errors.Is(err, ErrNoPhoto) {
		t.Fatalf("expected ErrNoPhoto, got %v", err)
	}

	mock.ExpectQuery("SELECT photo_data, photo_type").WithArgs("p2").
		WillReturnRows(sqlmock.NewRows([]string{"photo_data", "photo_type"}).AddRow([]byte("img"), "image/jpeg"))
	data, ct, err := repo.Photo("p2")
	if err != nil || string(data) != "img" || ct != "image/jpeg" {
		t.Fatalf("unexpected photo %q %q %v", data, ct, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
