// Package order holds placed orders for the session. Orders are created from
// point-in-time cart snapshots at checkout and never deleted.
package order

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Waggeh13/Perfume/domain"
	"github.com/google/uuid"
)

// OrderNumberPrefix starts every human-readable order number.
const OrderNumberPrefix = "NOULA-"

// Common errors returned by the store
var (
	ErrOrderNotFound = errors.New("order not found")
)

// Store is the in-memory order list, newest first.
type Store struct {
	mu     sync.RWMutex
	orders []*domain.Order
	seq    uint64
	now    func() time.Time
}

// NewStore creates an empty order store.
func NewStore() *Store {
	return &Store{now: time.Now}
}

// Create places a new order from a cart snapshot. The line items are
// deep-copied so later cart mutation never reaches the order. The order id
// is a UUID; the order number is date-based with a per-store sequence, so
// two orders created within the same clock tick still get distinct numbers.
func (s *Store) Create(items []domain.LineItem, addr domain.ShippingAddress, paymentMethod string, pricing domain.PricingBreakdown) *domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	createdAt := s.now()
	o := &domain.Order{
		ID:              uuid.New().String(),
		OrderNumber:     orderNumber(createdAt, s.seq),
		CreatedAt:       createdAt,
		Status:          domain.StatusProcessing,
		PaymentMethod:   paymentMethod,
		ShippingAddress: addr,
		Items:           domain.CopyItems(items),
		Pricing:         pricing,
		Seq:             s.seq,
	}

	s.orders = append([]*domain.Order{o}, s.orders...)
	return o
}

// UpdateStatus sets the order's status in place. Any target status is
// accepted; there is no transition table.
func (s *Store) UpdateStatus(orderID string, status domain.OrderStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range s.orders {
		if o.ID == orderID {
			o.Status = status
			return nil
		}
	}
	return ErrOrderNotFound
}

// GetByID returns a copy of the order, or ErrOrderNotFound. Callers render a
// not-found page on the error; nothing panics for an unknown id.
func (s *Store) GetByID(orderID string) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, o := range s.orders {
		if o.ID == orderID {
			return copyOrder(o), nil
		}
	}
	return nil, ErrOrderNotFound
}

// AllOrdered returns all orders sorted by creation time descending. Equal
// timestamps are broken by creation sequence, newest first, so the result is
// deterministic even under a coarse clock.
func (s *Store) AllOrdered() []*domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Order, len(s.orders))
	for i, o := range s.orders {
		out[i] = copyOrder(o)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Seq > out[j].Seq
	})
	return out
}

// orderNumber keeps the NOULA-yyyymmddNNN shape; the three-digit suffix
// grows past 999 orders in a session rather than wrapping.
func orderNumber(createdAt time.Time, seq uint64) string {
	return fmt.Sprintf("%s%s%03d", OrderNumberPrefix, createdAt.Format("20060102"), seq)
}

func copyOrder(o *domain.Order) *domain.Order {
	c := *o
	c.Items = domain.CopyItems(o.Items)
	return &c
}
