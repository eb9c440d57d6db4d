package category

import (
	"database/sql"
	"fmt"
)

// PostgresRepository implements Repository using Postgres.
type PostgresRepository struct {
	db *sql.DB
}

const (
	createCategoriesTable = `
		CREATE TABLE IF NOT EXISTS categories (
			id   INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			ord  INTEGER NOT NULL DEFAULT 0
		)
	`
	seedCategoryQuery   = `INSERT INTO categories (id, name, ord) VALUES ($1, $2, $3) ON CONFLICT (id) DO NOTHING`
	listCategoriesQuery = `SELECT id, name FROM categories ORDER BY ord, id`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// EnsureSchema creates the table and inserts any missing seed rows.
func (r *PostgresRepository) EnsureSchema(seed []Category) error {
	if _, err := r.db.Exec(createCategoriesTable); err != nil {
		return fmt.Errorf("create categories: %w", err)
	}
	for i, cat := range seed {
		if _, err := r.db.Exec(seedCategoryQuery, cat.ID, cat.Name, i); err != nil {
			return fmt.Errorf("seed category %d: %w", cat.ID, err)
		}
	}
	return nil
}

// List returns categories ordered by `ord` then id.
func (r *PostgresRepository) List() ([]Category, error) {
	rows, err := r.db.Query(listCategoriesQuery)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	out := make([]Category, 0)
	for rows.Next() {
		var cat Category
		if err := rows.Scan(&cat.ID, &cat.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, cat)
	}
	return out, rows.Err()
}
