package order

import (
	"strings"
	"testing"
	"time"

	"github.com/Waggeh13/Perfume/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleItems() []domain.LineItem {
	return []domain.LineItem{
		{ProductID: 1, Name: "Velour Mist", UnitPrice: 7200, Quantity: 1, Size: "100ml"},
	}
}

func sampleAddress() domain.ShippingAddress {
	return domain.ShippingAddress{
		FullName:      "John Doe",
		StreetAddress: "123 Main Street",
		City:          "New York",
		State:         "NY",
		ZipCode:       "10001",
		Country:       "United States",
		PhoneNumber:   "+1234567890",
	}
}

func samplePricing() domain.PricingBreakdown {
	return domain.PricingBreakdown{Subtotal: 7200, DeliveryFee: 5999, Tax: 500, Total: 13699}
}

func TestCreate(t *testing.T) {
	s := NewStore()
	o := s.Create(sampleItems(), sampleAddress(), "paypal", samplePricing())

	assert.NotEmpty(t, o.ID)
	assert.True(t, strings.HasPrefix(o.OrderNumber, OrderNumberPrefix))
	assert.Equal(t, domain.StatusProcessing, o.Status)
	assert.Equal(t, "paypal", o.PaymentMethod)
	assert.Len(t, o.Items, 1)
	assert.Equal(t, domain.PricingBreakdown{Subtotal: 7200, DeliveryFee: 5999, Tax: 500, Total: 13699}, o.Pricing)
	assert.False(t, o.CreatedAt.IsZero())
}

func TestCreate_DistinctIDsUnderSameClockTick(t *testing.T) {
	s := NewStore()
	fixed := time.Date(2025, 1, 8, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	a := s.Create(sampleItems(), sampleAddress(), "credit", samplePricing())
	b := s.Create(sampleItems(), sampleAddress(), "credit", samplePricing())

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, "NOULA-20250108001", a.OrderNumber)
	assert.Equal(t, "NOULA-20250108002", b.OrderNumber)
}

func TestCreate_SnapshotIsDeepCopy(t *testing.T) {
	s := NewStore()
	items := sampleItems()
	o := s.Create(items, sampleAddress(), "credit", samplePricing())

	// Mutating the source slice must not reach the placed order.
	items[0].Quantity = 99
	stored, err := s.GetByID(o.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Items[0].Quantity)
}

func TestUpdateStatus(t *testing.T) {
	s := NewStore()
	o := s.Create(sampleItems(), sampleAddress(), "credit", samplePricing())

	require.NoError(t, s.UpdateStatus(o.ID, domain.StatusShipped))
	got, err := s.GetByID(o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShipped, got.Status)

	// Any target status is accepted, including going backwards.
	require.NoError(t, s.UpdateStatus(o.ID, domain.StatusProcessing))
	got, err = s.GetByID(o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusProcessing, got.Status)
}

func TestUpdateStatus_UnknownID(t *testing.T) {
	s := NewStore()
	assert.ErrorIs(t, s.UpdateStatus("missing", domain.StatusShipped), ErrOrderNotFound)
}

func TestGetByID_NotFound(t *testing.T) {
	s := NewStore()
	o, err := s.GetByID("missing")
	assert.Nil(t, o)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestAllOrdered_NewestFirst(t *testing.T) {
	s := NewStore()
	base := time.Date(2025, 1, 8, 12, 0, 0, 0, time.UTC)
	current := base
	s.now = func() time.Time { return current }

	first := s.Create(sampleItems(), sampleAddress(), "credit", samplePricing())
	current = base.Add(time.Hour)
	second := s.Create(sampleItems(), sampleAddress(), "credit", samplePricing())

	all := s.AllOrdered()
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)
	assert.Equal(t, first.ID, all[1].ID)
}

func TestAllOrdered_TieBrokenByCreationSequence(t *testing.T) {
	s := NewStore()
	fixed := time.Date(2025, 1, 8, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	first := s.Create(sampleItems(), sampleAddress(), "credit", samplePricing())
	second := s.Create(sampleItems(), sampleAddress(), "credit", samplePricing())
	third := s.Create(sampleItems(), sampleAddress(), "credit", samplePricing())

	all := s.AllOrdered()
	require.Len(t, all, 3)
	assert.Equal(t, third.ID, all[0].ID)
	assert.Equal(t, second.ID, all[1].ID)
	assert.Equal(t, first.ID, all[2].ID)
}

func TestGetByID_ReturnsCopy(t *testing.T) {
	s := NewStore()
	o := s.Create(sampleItems(), sampleAddress(), "credit", samplePricing())

	got, err := s.GetByID(o.ID)
	require.NoError(t, err)
	got.Items[0].Quantity = 42
	got.Status = domain.StatusCancelled

	again, err := s.GetByID(o.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, again.Items[0].Quantity)
	assert.Equal(t, domain.StatusProcessing, again.Status)
}
