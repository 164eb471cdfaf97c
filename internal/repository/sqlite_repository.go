package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/Lixing-Zhang/product-panel/internal/models"
)

const createProductsTable = `CREATE TABLE IF NOT EXISTS products (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	name        TEXT NOT NULL,
	price       REAL NOT NULL,
	description TEXT NOT NULL DEFAULT ''
)`

// SQLiteProductRepository persists products in a single SQLite table
type SQLiteProductRepository struct {
	db *sql.DB
}

// NewSQLiteProductRepository opens (or creates) the database at path. An empty
// database is filled with seed.
func NewSQLiteProductRepository(ctx context.Context, path string, seed []models.ProductInput) (*SQLiteProductRepository, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, createProductsTable); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create products table: %w", err)
	}

	r := &SQLiteProductRepository{db: db}
	if err := r.seed(ctx, seed); err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

func (r *SQLiteProductRepository) seed(ctx context.Context, seed []models.ProductInput) error {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if count > 0 {
		return nil
	}
	for _, in := range seed {
		if _, err := r.Create(ctx, in); err != nil {
			return fmt.Errorf("seed products: %w", err)
		}
	}
	return nil
}

// Close releases the database handle
func (r *SQLiteProductRepository) Close() error {
	return r.db.Close()
}

// GetAll returns all products ordered by id
func (r *SQLiteProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, price, description FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	defer func() { _ = rows.Close() }()

	products := make([]models.Product, 0)
	for rows.Next() {
		var (
			id int64
			p  models.Product
		)
		if err := rows.Scan(&id, &p.Name, &p.Price, &p.Description); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		p.ID = formatID(id)
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

// GetByID returns a product by its ID
func (r *SQLiteProductRepository) GetByID(ctx context.Context, id models.ID) (*models.Product, error) {
	key, err := parseID(id)
	if err != nil {
		return nil, err
	}

	p := models.Product{ID: id}
	err = r.db.QueryRowContext(ctx, `SELECT name, price, description FROM products WHERE id = ?`, key).
		Scan(&p.Name, &p.Price, &p.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select product: %w", err)
	}
	return &p, nil
}

// Create inserts a product and returns it with the assigned id
func (r *SQLiteProductRepository) Create(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO products (name, price, description) VALUES (?, ?, ?)`,
		in.Name, in.Price, in.Description)
	if err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}
	product := in.Product(formatID(id))
	return &product, nil
}

// Update replaces the product with the given id
func (r *SQLiteProductRepository) Update(ctx context.Context, id models.ID, in models.ProductInput) (*models.Product, error) {
	key, err := parseID(id)
	if err != nil {
		return nil, err
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE products SET name = ?, price = ?, description = ? WHERE id = ?`,
		in.Name, in.Price, in.Description, key)
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	} else if n == 0 {
		return nil, ErrProductNotFound
	}
	product := in.Product(id)
	return &product, nil
}

// Delete removes the product with the given id
func (r *SQLiteProductRepository) Delete(ctx context.Context, id models.ID) error {
	key, err := parseID(id)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, key)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("delete product: %w", err)
	} else if n == 0 {
		return ErrProductNotFound
	}
	return nil
}

func formatID(id int64) models.ID {
	return models.ID(strconv.FormatInt(id, 10))
}

// parseID maps non-numeric ids to not found; rows are keyed by integer
func parseID(id models.ID) (int64, error) {
	key, err := strconv.ParseInt(id.String(), 10, 64)
	if err != nil {
		return 0, ErrProductNotFound
	}
	return key, nil
}
