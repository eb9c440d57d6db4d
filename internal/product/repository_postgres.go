package product

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"github.com/wichananm65/online-shop-web/internal/category"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	createProductsTable = `
		CREATE TABLE IF NOT EXISTS products (
			object_id    TEXT PRIMARY KEY,
			name         TEXT NOT NULL,
			price        NUMERIC(12,2) NOT NULL,
			description  TEXT NOT NULL DEFAULT '',
			category_ids INTEGER[] NOT NULL DEFAULT '{}',
			seller       TEXT NOT NULL,
			photo_data   BYTEA,
			photo_type   TEXT,
			created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`
	productColumns = `
		SELECT object_id, name, price::text, description,
		       array_to_string(category_ids, ','), seller,
		       photo_data IS NOT NULL, created_at
		FROM products
	`
	listProductsQuery   = productColumns + `ORDER BY created_at, object_id`
	getProductByIDQuery = productColumns + `WHERE object_id = $1`
	listBySellerQuery   = productColumns + `WHERE seller = $1 ORDER BY created_at, object_id`
	insertProductQuery  = `
		INSERT INTO products (object_id, name, price, description, category_ids, seller, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`
	updateProductQuery = `
		UPDATE products
		SET name = $1,
			price = $2,
			description = $3,
			category_ids = $4
		WHERE object_id = $5
	`
	deleteProductQuery = `DELETE FROM products WHERE object_id = $1`
	setPhotoQuery      = `UPDATE products SET photo_data = $2, photo_type = $3 WHERE object_id = $1`
	getPhotoQuery      = `SELECT photo_data, photo_type FROM products WHERE object_id = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) EnsureSchema() error {
	if _, err := r.db.Exec(createProductsTable); err != nil {
		return fmt.Errorf("create products: %w", err)
	}
	return nil
}

func (r *PostgresRepository) List() ([]Product, error) {
	return r.query(listProductsQuery)
}

func (r *PostgresRepository) GetByID(id string) (Product, error) {
	p, err := scanProduct(r.db.QueryRow(getProductByIDQuery, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, fmt.Errorf("get product %s: %w", id, err)
	}
	return p, nil
}

func (r *PostgresRepository) ListBySeller(username string) ([]Product, error) {
	return r.query(listBySellerQuery, username)
}

// Search requires every term of query to appear in the name or description.
func (r *PostgresRepository) Search(query string) ([]Product, error) {
	terms := strings.Fields(query)
	if len(terms) == 0 {
		return r.List()
	}

	where := make([]string, 0, len(terms))
	args := make([]interface{}, 0, len(terms))
	for i, term := range terms {
		where = append(where, `(name || ' ' || description) ILIKE $`+strconv.Itoa(i+1))
		args = append(args, "%"+escapeLike(term)+"%")
	}
	q := productColumns + `WHERE ` + strings.Join(where, " AND ") + ` ORDER BY created_at, object_id`
	return r.query(q, args...)
}

func (r *PostgresRepository) Create(product Product) (Product, error) {
	_, err := r.db.Exec(insertProductQuery,
		product.ObjectID,
		product.Name,
		product.Price,
		product.Description,
		categoryIDs(product.Categories),
		product.UserID,
		product.CreatedAt,
	)
	if err != nil {
		return Product{}, fmt.Errorf("insert product: %w", err)
	}
	return product, nil
}

func (r *PostgresRepository) Update(id string, productUpdate Product) (Product, error) {
	res, err := r.db.Exec(updateProductQuery,
		productUpdate.Name,
		productUpdate.Price,
		productUpdate.Description,
		categoryIDs(productUpdate.Categories),
		id,
	)
	if err != nil {
		return Product{}, fmt.Errorf("update product %s: %w", id, err)
	}
	if err := expectOneRow(res); err != nil {
		return Product{}, err
	}
	return r.GetByID(id)
}

func (r *PostgresRepository) Delete(id string) error {
	res, err := r.db.Exec(deleteProductQuery, id)
	if err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	return expectOneRow(res)
}

func (r *PostgresRepository) SetPhoto(id string, data []byte, contentType string) error {
	res, err := r.db.Exec(setPhotoQuery, id, data, contentType)
	if err != nil {
		return fmt.Errorf("set photo %s: %w", id, err)
	}
	return expectOneRow(res)
}

func (r *PostgresRepository) Photo(id string) ([]byte, string, error) {
	var (
		data        []byte
		contentType sql.NullString
	)
	err := r.db.QueryRow(getPhotoQuery, id).Scan(&data, &contentType)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("get photo %s: %w", id, err)
	}
	if len(data) == 0 {
		return nil, "", ErrNoPhoto
	}
	return data, contentType.String, nil
}

func (r *PostgresRepository) query(q string, args ...interface{}) ([]Product, error) {
	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	out := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

// scanProduct reads one row of productColumns. Category names are left
// empty; the service fills them in.
func scanProduct(row scanner) (Product, error) {
	var (
		p        Product
		ids      string
		hasPhoto bool
	)
	if err := row.Scan(&p.ObjectID, &p.Name, &p.Price, &p.Description, &ids, &p.UserID, &hasPhoto, &p.CreatedAt); err != nil {
		return Product{}, err
	}
	p.Categories = make([]category.Category, 0)
	for _, s := range strings.Split(ids, ",") {
		if id, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			p.Categories = append(p.Categories, category.Category{ID: id})
		}
	}
	if hasPhoto {
		p.Photo = photoPath(p.ObjectID)
	}
	return p, nil
}

func categoryIDs(cats []category.Category) interface{} {
	ids := make([]int64, 0, len(cats))
	for _, c := range cats {
		ids = append(ids, int64(c.ID))
	}
	return pq.Array(ids)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
