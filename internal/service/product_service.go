package service

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Lixing-Zhang/product-panel/internal/models"
	"github.com/Lixing-Zhang/product-panel/internal/repository"
)

var (
	ErrNameRequired = errors.New("name is required")
	ErrInvalidPrice = errors.New("price must be a non-negative number")
)

// ProductService handles business logic for products
type ProductService struct {
	repo     repository.ProductRepository
	validate *validator.Validate
}

// NewProductService creates a new product service
func NewProductService(repo repository.ProductRepository) *ProductService {
	return &ProductService{
		repo:     repo,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// ListProducts returns all available products
func (s *ProductService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.repo.GetAll(ctx)
}

// GetProduct returns a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id models.ID) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateProduct validates and stores a new product
func (s *ProductService) CreateProduct(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	in, err := s.normalize(in)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, in)
}

// UpdateProduct validates and replaces an existing product. An id in the body is
// ignored in favour of the path id.
func (s *ProductService) UpdateProduct(ctx context.Context, id models.ID, in models.ProductInput) (*models.Product, error) {
	in, err := s.normalize(in)
	if err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, in)
}

// DeleteProduct removes a product
func (s *ProductService) DeleteProduct(ctx context.Context, id models.ID) error {
	return s.repo.Delete(ctx, id)
}

func (s *ProductService) normalize(in models.ProductInput) (models.ProductInput, error) {
	in.ID = ""
	in.Name = strings.TrimSpace(in.Name)

	if math.IsNaN(in.Price) || math.IsInf(in.Price, 0) {
		return in, ErrInvalidPrice
	}
	if err := s.validate.Struct(in); err != nil {
		var ve validator.ValidationErrors
		if !errors.As(err, &ve) {
			return in, err
		}
		for _, fe := range ve {
			if fe.StructField() == "Name" {
				return in, ErrNameRequired
			}
		}
		return in, ErrInvalidPrice
	}
	return in, nil
}
