// Package checkout turns the live cart into a placed order: it validates
// the submitted form, prices the order, and clears the cart on success.
package checkout

import (
	"errors"

	"github.com/Waggeh13/Perfume/cart"
	"github.com/Waggeh13/Perfume/domain"
	"github.com/Waggeh13/Perfume/money"
	"github.com/Waggeh13/Perfume/order"
)

// Fixed order fees in minor units
const (
	DeliveryFee = money.Cents(5999)
	Tax         = money.Cents(500)
)

// Validation errors surfaced to the user as transient notices
var (
	ErrEmptyCart         = errors.New("cart is empty, nothing to checkout")
	ErrIncompleteAddress = errors.New("shipping address is incomplete")
	ErrNoPaymentMethod   = errors.New("no payment method selected")
	ErrUnknownPayment    = errors.New("unknown payment method")
)

// PaymentMethods are the accepted payment method ids.
var PaymentMethods = []string{"paypal", "credit", "debit", "bank"}

// Form is the checkout submission.
type Form struct {
	Address       domain.ShippingAddress
	PaymentMethod string
}

// Service places orders from the cart.
type Service struct {
	cart   *cart.Store
	orders *order.Store
}

// NewService wires checkout over the two stores.
func NewService(cartStore *cart.Store, orderStore *order.Store) *Service {
	return &Service{cart: cartStore, orders: orderStore}
}

// Breakdown prices the current cart: subtotal plus the fixed delivery fee
// and tax.
func (s *Service) Breakdown() domain.PricingBreakdown {
	subtotal := s.cart.Subtotal()
	return domain.PricingBreakdown{
		Subtotal:    subtotal,
		DeliveryFee: DeliveryFee,
		Tax:         Tax,
		Total:       subtotal + DeliveryFee + Tax,
	}
}

// PlaceOrder validates the form, creates the order from a snapshot of the
// cart, and clears the cart. The cleared cart triggers the usual sync path;
// the order itself lives only in the order store.
func (s *Service) PlaceOrder(form Form) (*domain.Order, error) {
	items := s.cart.Items()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	if err := validateForm(form); err != nil {
		return nil, err
	}

	o := s.orders.Create(items, form.Address, form.PaymentMethod, s.Breakdown())
	s.cart.Clear()
	return o, nil
}

func validateForm(form Form) error {
	a := form.Address
	for _, field := range []string{a.FullName, a.StreetAddress, a.City, a.ZipCode, a.Country} {
		if field == "" {
			return ErrIncompleteAddress
		}
	}
	if form.PaymentMethod == "" {
		return ErrNoPaymentMethod
	}
	for _, m := range PaymentMethods {
		if form.PaymentMethod == m {
			return nil
		}
	}
	return ErrUnknownPayment
}
