// Package panel implements the product panel: a cached product list mirrored from
// the Product Service, a draft for new products and at most one edit buffer.
//
// Operations validate locally, call the service, and only touch local state once the
// call succeeded. Failures are returned as typed errors; the caller decides how to
// show them (see UserMessage).
package panel

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/Lixing-Zhang/product-panel/internal/catalog"
	"github.com/Lixing-Zhang/product-panel/internal/client"
	"github.com/Lixing-Zhang/product-panel/internal/models"
)

// ConfirmPrompt is the question asked before a product is deleted
const ConfirmPrompt = "Are you sure you want to delete this product?"

// ProductService is the remote product collection
type ProductService interface {
	List(ctx context.Context) ([]models.Product, error)
	Create(ctx context.Context, in models.ProductInput) (models.Product, error)
	Update(ctx context.Context, id models.ID, in models.ProductInput) (models.Product, error)
	Delete(ctx context.Context, id models.ID) error
}

// Confirmer asks the user to approve a destructive action
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Panel is safe for concurrent use. Service calls run without holding the lock, so
// one slow call does not block unrelated operations.
type Panel struct {
	service ProductService
	logger  *zap.Logger
	seq     catalog.Sequencer

	mu    sync.Mutex
	store *catalog.Store
	draft Draft
	edit  *EditBuffer
}

// New creates an empty panel backed by service
func New(service ProductService, logger *zap.Logger) *Panel {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Panel{
		service: service,
		logger:  logger,
		store:   catalog.NewStore(),
	}
}

// Products returns the cached list in display order
func (p *Panel) Products() []models.Product {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.store.Products()
}

// Product returns the cached product with the given id
func (p *Panel) Product(id models.ID) (models.Product, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.store.Get(id)
}

// List reloads the whole collection. On failure the previous list stays in place.
func (p *Panel) List(ctx context.Context) error {
	seq := p.seq.Next()

	products, err := p.service.List(ctx)
	if err != nil {
		return p.failed(OpList, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.store.ReplaceAll(products, seq); err != nil {
		p.logger.Debug("discarding outdated product listing", zap.Uint64("seq", uint64(seq)))
		return err
	}
	p.logger.Debug("products loaded", zap.Int("count", len(products)))
	return nil
}

// Draft returns the current creation draft
func (p *Panel) Draft() Draft {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.draft
}

// UpdateDraft changes one field of the creation draft
func (p *Panel) UpdateDraft(field Field, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.draft.set(field, value)
}

// Create submits draft as a new product. The draft becomes the panel's draft, so
// it is kept for another attempt if validation or the call fails. On success the
// created record is appended and the draft is cleared.
func (p *Panel) Create(ctx context.Context, draft Draft) (models.Product, error) {
	p.mu.Lock()
	p.draft = draft
	p.mu.Unlock()

	in, err := toInput(draft.Name, draft.Price, draft.Description)
	if err != nil {
		return models.Product{}, err
	}

	seq := p.seq.Next()
	created, err := p.service.Create(ctx, in)
	if err != nil {
		return models.Product{}, p.failed(OpCreate, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.store.Upsert(created, seq); err != nil {
		p.logger.Debug("created product already superseded", zap.String("id", created.ID.String()))
	}
	if p.draft == draft {
		p.draft = Draft{}
	}
	p.logger.Info("product created", zap.String("id", created.ID.String()))
	return created, nil
}

// Editing returns a copy of the edit buffer, if any
func (p *Panel) Editing() (EditBuffer, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.edit == nil {
		return EditBuffer{}, false
	}
	return *p.edit, true
}

// BeginEdit copies product into the edit buffer. Switching away from another
// product whose buffer has unsaved changes fails with ErrEditInProgress; the caller
// must save, cancel or use DiscardAndEdit.
func (p *Panel) BeginEdit(product models.Product) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.beginEditLocked(product)
}

// BeginEditByID starts editing the cached product with the given id
func (p *Panel) BeginEditByID(id models.ID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	product, ok := p.store.Get(id)
	if !ok {
		return ErrUnknownProduct
	}
	return p.beginEditLocked(product)
}

func (p *Panel) beginEditLocked(product models.Product) error {
	if p.edit != nil && p.edit.dirty {
		if p.edit.ID != product.ID {
			return ErrEditInProgress
		}
		return nil
	}
	p.edit = newEditBuffer(product)
	return nil
}

// DiscardAndEdit drops any edit in progress and starts editing product
func (p *Panel) DiscardAndEdit(product models.Product) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.edit != nil && p.edit.dirty {
		p.logger.Debug("discarding unsaved edit", zap.String("id", p.edit.ID.String()))
	}
	p.edit = newEditBuffer(product)
}

// UpdateEditBuffer changes one field of the edit buffer. Nothing is validated until
// SaveEdit.
func (p *Panel) UpdateEditBuffer(field Field, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.edit == nil {
		return ErrNotEditing
	}
	p.edit.set(field, value)
	return nil
}

// SaveEdit submits the edit buffer as a full replacement of its product. On success
// the list entry is replaced in place and editing ends; on failure the buffer stays
// open so the user can retry or cancel.
func (p *Panel) SaveEdit(ctx context.Context) (models.Product, error) {
	p.mu.Lock()
	if p.edit == nil {
		p.mu.Unlock()
		return models.Product{}, ErrNotEditing
	}
	buf := *p.edit
	p.mu.Unlock()

	in, err := toInput(buf.Name, buf.Price, buf.Description)
	if err != nil {
		return models.Product{}, err
	}

	seq := p.seq.Next()
	updated, err := p.service.Update(ctx, buf.ID, in)
	if err != nil {
		return models.Product{}, p.failed(OpUpdate, err)
	}
	// some backends omit the id on replacement responses
	if updated.ID.IsZero() {
		updated.ID = buf.ID
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.store.Upsert(updated, seq); err != nil {
		p.logger.Debug("updated product already superseded", zap.String("id", updated.ID.String()))
	}
	if p.edit != nil && *p.edit == buf {
		p.edit = nil
	}
	p.logger.Info("product updated", zap.String("id", updated.ID.String()))
	return updated, nil
}

// CancelEdit drops the edit buffer
func (p *Panel) CancelEdit() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.edit = nil
}

// Delete removes the product after confirm approves it. A declined confirmation
// returns ErrDeleteDeclined without contacting the service.
func (p *Panel) Delete(ctx context.Context, id models.ID, confirm Confirmer) error {
	if confirm == nil || !confirm.Confirm(ConfirmPrompt) {
		return ErrDeleteDeclined
	}

	if err := p.service.Delete(ctx, id); err != nil {
		return p.failed(OpDelete, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	// stamped on acknowledgement: only listings requested from now on may show id again
	p.store.Remove(id, p.seq.Next())
	if p.edit != nil && p.edit.ID == id {
		p.edit = nil
	}
	p.logger.Info("product deleted", zap.String("id", id.String()))
	return nil
}

func (p *Panel) failed(op Op, err error) error {
	fields := []zap.Field{zap.String("op", string(op)), zap.Error(err)}
	var se *client.ServiceError
	if errors.As(err, &se) {
		fields = append(fields,
			zap.Int("status", se.StatusCode),
			zap.String("request_id", se.RequestID),
		)
	}
	p.logger.Error("product service call failed", fields...)
	return &OpError{Op: op, Err: err}
}
