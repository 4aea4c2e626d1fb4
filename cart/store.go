// Package cart holds the client-side shopping cart state. The store owns the
// line item sequence; the network layer only reads snapshots via Items and
// writes via Replace.
package cart

import (
	"errors"
	"sync"

	"github.com/Waggeh13/Perfume/domain"
	"github.com/Waggeh13/Perfume/money"
)

// Common errors returned by the store
var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

// Product is the minimum a caller must supply to add something to the cart.
// The catalog package's Product satisfies this shape via AsLineItem.
type Product struct {
	ID    int64
	Name  string
	Price money.Cents
	Image string
	Size  string
}

// Store is the in-memory cart. Mutations notify the registered change
// listener so sync scheduling stays outside the store; the store itself has
// no knowledge of the network.
type Store struct {
	mu       sync.RWMutex
	items    []domain.LineItem
	onChange func()
}

// NewStore creates an empty cart store.
func NewStore() *Store {
	return &Store{}
}

// OnChange registers the listener invoked after every local mutation.
// Replace (the pull write path) does not count as a local mutation.
func (s *Store) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// AddItem merges a product into the cart: an existing line for the same
// product id has its quantity incremented, otherwise a new line is appended.
func (s *Store) AddItem(p Product, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	s.mu.Lock()
	merged := false
	for i := range s.items {
		if s.items[i].ProductID == p.ID {
			s.items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		s.items = append(s.items, domain.LineItem{
			ProductID: p.ID,
			Name:      p.Name,
			UnitPrice: p.Price,
			Quantity:  quantity,
			Image:     p.Image,
			Size:      p.Size,
		})
	}
	fn := s.onChange
	s.mu.Unlock()

	s.notify(fn)
	return nil
}

// RemoveItem removes the matching line item. No-op if the id is absent.
func (s *Store) RemoveItem(productID int64) {
	s.mu.Lock()
	removed := false
	for i, item := range s.items {
		if item.ProductID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			removed = true
			break
		}
	}
	fn := s.onChange
	s.mu.Unlock()

	if removed {
		s.notify(fn)
	}
}

// SetQuantity replaces the quantity of the matching line item. A quantity
// below 1 behaves as RemoveItem. No-op if the id is absent.
func (s *Store) SetQuantity(productID int64, quantity int) {
	if quantity < 1 {
		s.RemoveItem(productID)
		return
	}

	s.mu.Lock()
	updated := false
	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items[i].Quantity = quantity
			updated = true
			break
		}
	}
	fn := s.onChange
	s.mu.Unlock()

	if updated {
		s.notify(fn)
	}
}

// Clear empties the cart, used after successful order placement.
func (s *Store) Clear() {
	s.mu.Lock()
	s.items = nil
	fn := s.onChange
	s.mu.Unlock()

	s.notify(fn)
}

// Replace swaps the cart contents wholesale with remote state. This is the
// single write path for RemoteSync.pull and deliberately does not fire the
// change listener: applying remote state must not schedule a push of that
// same state back to the server.
func (s *Store) Replace(items []domain.LineItem) {
	s.mu.Lock()
	s.items = domain.CopyItems(items)
	s.mu.Unlock()
}

// Items returns a snapshot copy of the cart contents.
func (s *Store) Items() []domain.LineItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CopyItems(s.items)
}

// ItemCount is the sum of all line quantities, 0 for an empty cart.
func (s *Store) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, item := range s.items {
		total += item.Quantity
	}
	return total
}

// Subtotal sums unit price times quantity over all lines in minor units.
func (s *Store) Subtotal() money.Cents {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total money.Cents
	for _, item := range s.items {
		total += item.LineTotal()
	}
	return total
}

// notify runs the listener outside the store lock.
func (s *Store) notify(fn func()) {
	if fn != nil {
		fn()
	}
}
