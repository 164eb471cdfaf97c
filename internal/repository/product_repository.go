package repository

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/Lixing-Zhang/product-panel/internal/models"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id models.ID) (*models.Product, error)
	Create(ctx context.Context, in models.ProductInput) (*models.Product, error)
	Update(ctx context.Context, id models.ID, in models.ProductInput) (*models.Product, error)
	Delete(ctx context.Context, id models.ID) error
}

// SeedProducts returns the sample catalog used when the server starts empty
func SeedProducts() []models.ProductInput {
	return []models.ProductInput{
		{Name: "Chicken Waffle", Price: 12.99, Description: "Crispy chicken on a buttermilk waffle"},
		{Name: "Belgian Waffle", Price: 10.99, Description: "Classic waffle with powdered sugar"},
		{Name: "Caesar Salad", Price: 8.99, Description: "Romaine, parmesan, croutons"},
		{Name: "Margherita Pizza", Price: 14.99, Description: "Tomato, mozzarella, basil"},
		{Name: "Classic Burger", Price: 13.99, Description: ""},
	}
}

// InMemoryProductRepository implements ProductRepository with in-memory storage.
// Products are listed in insertion order and receive sequential numeric ids.
type InMemoryProductRepository struct {
	mu       sync.RWMutex
	order    []models.ID
	products map[models.ID]models.Product
	nextID   int64
}

// NewInMemoryProductRepository creates a new in-memory product repository holding seed
func NewInMemoryProductRepository(seed []models.ProductInput) *InMemoryProductRepository {
	r := &InMemoryProductRepository{
		products: make(map[models.ID]models.Product, len(seed)),
		nextID:   1,
	}
	for _, in := range seed {
		r.insert(in)
	}
	return r
}

func (r *InMemoryProductRepository) insert(in models.ProductInput) models.Product {
	id := models.ID(strconv.FormatInt(r.nextID, 10))
	r.nextID++
	product := in.Product(id)
	r.order = append(r.order, id)
	r.products[id] = product
	return product
}

// GetAll returns all products
func (r *InMemoryProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]models.Product, 0, len(r.order))
	for _, id := range r.order {
		products = append(products, r.products[id])
	}
	return products, nil
}

// GetByID returns a product by its ID
func (r *InMemoryProductRepository) GetByID(ctx context.Context, id models.ID) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, exists := r.products[id]
	if !exists {
		return nil, ErrProductNotFound
	}
	return &product, nil
}

// Create stores a new product and assigns its id
func (r *InMemoryProductRepository) Create(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product := r.insert(in)
	return &product, nil
}

// Update replaces the product with the given id
func (r *InMemoryProductRepository) Update(ctx context.Context, id models.ID, in models.ProductInput) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.products[id]; !exists {
		return nil, ErrProductNotFound
	}
	product := in.Product(id)
	r.products[id] = product
	return &product, nil
}

// Delete removes the product with the given id
func (r *InMemoryProductRepository) Delete(ctx context.Context, id models.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.products[id]; !exists {
		return ErrProductNotFound
	}
	delete(r.products, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
