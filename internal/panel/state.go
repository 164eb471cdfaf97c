package panel

import (
	"fmt"

	"github.com/Lixing-Zhang/product-panel/internal/models"
)

// Field names one editable product field
type Field int

const (
	FieldName Field = iota
	FieldPrice
	FieldDescription
)

func (f Field) String() string {
	switch f {
	case FieldName:
		return "name"
	case FieldPrice:
		return "price"
	case FieldDescription:
		return "description"
	default:
		return fmt.Sprintf("field(%d)", int(f))
	}
}

// Draft is the raw input for a product that has not been created yet
type Draft struct {
	Name        string
	Price       string
	Description string
}

// Get returns the value of one field
func (d Draft) Get(f Field) string {
	switch f {
	case FieldName:
		return d.Name
	case FieldPrice:
		return d.Price
	default:
		return d.Description
	}
}

func (d *Draft) set(f Field, value string) {
	switch f {
	case FieldName:
		d.Name = value
	case FieldPrice:
		d.Price = value
	default:
		d.Description = value
	}
}

// EditBuffer is the in-progress modification of one existing product
type EditBuffer struct {
	ID          models.ID
	Name        string
	Price       string
	Description string

	dirty bool
}

func newEditBuffer(p models.Product) *EditBuffer {
	return &EditBuffer{
		ID:          p.ID,
		Name:        p.Name,
		Price:       priceInput(p.Price),
		Description: p.Description,
	}
}

// Get returns the value of one field
func (b EditBuffer) Get(f Field) string {
	switch f {
	case FieldName:
		return b.Name
	case FieldPrice:
		return b.Price
	default:
		return b.Description
	}
}

// Dirty reports whether any field changed since BeginEdit
func (b EditBuffer) Dirty() bool {
	return b.dirty
}

func (b *EditBuffer) set(f Field, value string) {
	if b.Get(f) == value {
		return
	}
	switch f {
	case FieldName:
		b.Name = value
	case FieldPrice:
		b.Price = value
	default:
		b.Description = value
	}
	b.dirty = true
}
