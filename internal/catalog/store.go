// Package catalog holds the panel's local copy of the product collection.
//
// The store is a cache of server state keyed by product id. Every write is tagged
// with the sequence number of the request that produced it, taken when that request
// started. Writes from requests that started earlier than the state they would
// overwrite are rejected, so a slow listing cannot undo a newer delete or update.
package catalog

import (
	"errors"
	"sync/atomic"

	"github.com/Lixing-Zhang/product-panel/internal/models"
)

// ErrStale is returned when a write originates from a request older than the
// state it would replace.
var ErrStale = errors.New("stale response")

// Seq orders requests by start time
type Seq uint64

// Sequencer issues increasing request sequence numbers
type Sequencer struct {
	n atomic.Uint64
}

// Next returns a sequence number larger than all previously issued ones
func (s *Sequencer) Next() Seq {
	return Seq(s.n.Add(1))
}

type entry struct {
	product models.Product
	seq     Seq
}

// Store is an ordered map from product id to product. It is not safe for
// concurrent use; the panel serializes access.
type Store struct {
	order      []models.ID
	entries    map[models.ID]entry
	tombstones map[models.ID]Seq
	listSeq    Seq
}

// NewStore returns an empty store
func NewStore() *Store {
	return &Store{
		entries:    make(map[models.ID]entry),
		tombstones: make(map[models.ID]Seq),
	}
}

// Products returns a copy of the stored products in display order
func (s *Store) Products() []models.Product {
	out := make([]models.Product, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.entries[id].product)
	}
	return out
}

// Get returns the product with the given id
func (s *Store) Get(id models.ID) (models.Product, bool) {
	e, ok := s.entries[id]
	return e.product, ok
}

// Len returns the number of stored products
func (s *Store) Len() int {
	return len(s.order)
}

// ReplaceAll swaps the contents for a full listing, keeping the server's order.
// Entries written or removed by requests newer than seq survive the swap.
func (s *Store) ReplaceAll(products []models.Product, seq Seq) error {
	if seq < s.listSeq {
		return ErrStale
	}

	order := make([]models.ID, 0, len(products))
	entries := make(map[models.ID]entry, len(products))

	for _, p := range products {
		if _, dup := entries[p.ID]; dup {
			continue
		}
		if removed, ok := s.tombstones[p.ID]; ok && removed > seq {
			continue
		}
		e := entry{product: p, seq: seq}
		if local, ok := s.entries[p.ID]; ok && local.seq > seq {
			e = local
		}
		order = append(order, p.ID)
		entries[p.ID] = e
	}

	// created after the listing was requested
	for _, id := range s.order {
		local := s.entries[id]
		if _, listed := entries[id]; listed || local.seq <= seq {
			continue
		}
		order = append(order, id)
		entries[id] = local
	}

	for id, removed := range s.tombstones {
		if removed <= seq {
			delete(s.tombstones, id)
		}
	}

	s.order = order
	s.entries = entries
	s.listSeq = seq
	return nil
}

// Upsert replaces the product with the same id in place, or appends it
func (s *Store) Upsert(p models.Product, seq Seq) error {
	if removed, ok := s.tombstones[p.ID]; ok && removed > seq {
		return ErrStale
	}
	if local, ok := s.entries[p.ID]; ok {
		if local.seq > seq {
			return ErrStale
		}
		s.entries[p.ID] = entry{product: p, seq: seq}
		return nil
	}

	s.order = append(s.order, p.ID)
	s.entries[p.ID] = entry{product: p, seq: seq}
	return nil
}

// Remove deletes the product with the given id. The server has acknowledged the
// deletion, so it always applies; seq marks the removal so that listings requested
// before it cannot bring the product back. Removing an absent id still records it.
func (s *Store) Remove(id models.ID, seq Seq) {
	if prev, ok := s.tombstones[id]; !ok || prev < seq {
		s.tombstones[id] = seq
	}

	if _, ok := s.entries[id]; !ok {
		return
	}
	delete(s.entries, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}
