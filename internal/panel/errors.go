package panel

import (
	"errors"
	"fmt"

	"github.com/Lixing-Zhang/product-panel/internal/catalog"
)

var (
	ErrEditInProgress = errors.New("another product has unsaved changes")
	ErrNotEditing     = errors.New("no product is being edited")
	ErrDeleteDeclined = errors.New("delete not confirmed")
	ErrUnknownProduct = errors.New("product is not in the list")
)

// Op names a panel operation that talks to the Product Service
type Op string

const (
	OpList   Op = "list"
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// OpError reports a Product Service failure. The panel state is left as it was
// before the operation started.
type OpError struct {
	Op  Op
	Err error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s products: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

var opMessages = map[Op]string{
	OpList:   "Failed to fetch products",
	OpCreate: "Failed to create product",
	OpUpdate: "Failed to update product",
	OpDelete: "Failed to delete product",
}

// UserMessage turns an error returned by the panel into a short notice for the
// user. It returns "" for nil and for results that need no notice.
func UserMessage(err error) string {
	var (
		ve *ValidationError
		oe *OpError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ve):
		if _, ok := ve.Fields[FieldName]; ok {
			return "Name and Price are required"
		}
		if msg, ok := ve.Fields[FieldPrice]; ok && msg != messageForTag(FieldPrice, "required") {
			return "Price must be a non-negative number"
		}
		return "Name and Price are required"
	case errors.Is(err, catalog.ErrStale):
		return ""
	case errors.As(err, &oe):
		return opMessages[oe.Op]
	case errors.Is(err, ErrDeleteDeclined):
		return ""
	case errors.Is(err, ErrEditInProgress):
		return "Save or cancel the current edit first"
	case errors.Is(err, ErrNotEditing):
		return "No product is being edited"
	case errors.Is(err, ErrUnknownProduct):
		return "Product is no longer in the list"
	default:
		return "Something went wrong"
	}
}
