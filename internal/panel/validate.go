package panel

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/Lixing-Zhang/product-panel/internal/models"
)

// submission is the form content checked before any call to the Product Service
type submission struct {
	Name        string `validate:"required"`
	Price       string `validate:"required,price"`
	Description string
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("price", func(fl validator.FieldLevel) bool {
		_, err := ParsePrice(fl.Field().String())
		return err == nil
	})
	return v
}

// maxPriceDigits is the number of integer digits in math.MaxFloat64
const maxPriceDigits = 309

// ParsePrice parses user input into a non-negative price that fits a float64.
// The magnitude is checked before any conversion so inputs such as 1e999999999
// are rejected without expanding them.
func ParsePrice(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("price %q is not a number", raw)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("price %q is negative", raw)
	}
	if exp := int(d.Exponent()); exp+d.NumDigits() > maxPriceDigits || exp < -maxPriceDigits {
		return decimal.Zero, fmt.Errorf("price %q is out of range", raw)
	}
	if f := d.InexactFloat64(); math.IsInf(f, 0) || math.IsNaN(f) {
		return decimal.Zero, fmt.Errorf("price %q is out of range", raw)
	}
	return d, nil
}

// FormatPrice renders a price with two decimals, e.g. 1.5 -> "1.50"
func FormatPrice(price float64) string {
	return decimal.NewFromFloat(price).StringFixed(2)
}

// priceInput renders a stored price for editing without trailing zeros
func priceInput(price float64) string {
	return decimal.NewFromFloat(price).String()
}

// toInput validates the raw fields and converts them into a request body.
// The price is coerced to a float for the wire.
func toInput(name, price, description string) (models.ProductInput, error) {
	s := submission{
		Name:        strings.TrimSpace(name),
		Price:       strings.TrimSpace(price),
		Description: description,
	}

	if err := validate.Struct(s); err != nil {
		var ve validator.ValidationErrors
		if !errors.As(err, &ve) {
			return models.ProductInput{}, err
		}
		return models.ProductInput{}, fromValidationErrors(ve)
	}

	d, err := ParsePrice(s.Price)
	if err != nil {
		return models.ProductInput{}, &ValidationError{Fields: map[Field]string{FieldPrice: err.Error()}}
	}

	return models.ProductInput{
		Name:        s.Name,
		Price:       d.InexactFloat64(),
		Description: s.Description,
	}, nil
}

func fromValidationErrors(ve validator.ValidationErrors) *ValidationError {
	out := &ValidationError{Fields: make(map[Field]string, len(ve))}
	for _, fe := range ve {
		var field Field
		switch fe.StructField() {
		case "Name":
			field = FieldName
		case "Price":
			field = FieldPrice
		default:
			field = FieldDescription
		}
		out.Fields[field] = messageForTag(field, fe.Tag())
	}
	return out
}

func messageForTag(field Field, tag string) string {
	switch tag {
	case "required":
		return field.String() + " is required"
	case "price":
		return "price must be a non-negative number"
	default:
		return field.String() + " is invalid"
	}
}

// ValidationError lists per-field problems found before submission
type ValidationError struct {
	Fields map[Field]string
}

func (e *ValidationError) Error() string {
	fields := make([]Field, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i] < fields[j] })

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, e.Fields[f])
	}
	return "invalid product: " + strings.Join(parts, "; ")
}
