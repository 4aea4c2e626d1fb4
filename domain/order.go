package domain

import (
	"time"

	"github.com/Waggeh13/Perfume/money"
)

// OrderStatus represents the fulfillment state of a placed order.
type OrderStatus string

const (
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// String representation (for logging)
func (s OrderStatus) String() string {
	return string(s)
}

// ShippingAddress is the delivery destination captured at checkout.
type ShippingAddress struct {
	FullName      string `json:"fullName"`
	StreetAddress string `json:"streetAddress"`
	City          string `json:"city"`
	State         string `json:"state"`
	ZipCode       string `json:"zipCode"`
	Country       string `json:"country"`
	PhoneNumber   string `json:"phoneNumber"`
}

// PricingBreakdown is the price composition of an order in minor units.
type PricingBreakdown struct {
	Subtotal    money.Cents `json:"subtotal"`
	DeliveryFee money.Cents `json:"deliveryFee"`
	Tax         money.Cents `json:"tax"`
	Total       money.Cents `json:"total"`
}

// Order is a placed order. Items is an immutable point-in-time snapshot of
// the cart; only Status mutates after creation.
type Order struct {
	ID              string           `json:"id"`
	OrderNumber     string           `json:"orderNumber"`
	CreatedAt       time.Time        `json:"date"`
	Status          OrderStatus      `json:"status"`
	PaymentMethod   string           `json:"paymentMethod"`
	ShippingAddress ShippingAddress  `json:"shippingAddress"`
	Items           []LineItem       `json:"items"`
	Pricing         PricingBreakdown `json:"pricing"`

	// Seq is the store-assigned creation sequence, used to break ordering
	// ties when two orders share a coarse creation timestamp.
	Seq uint64 `json:"-"`
}

// Identity is the user payload carried alongside the bearer token. The
// backend may include more fields; unknown ones are dropped on decode.
type Identity struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}
