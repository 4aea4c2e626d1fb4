package domain

import "github.com/Waggeh13/Perfume/money"

// LineItem is one product entry in a cart or order snapshot. The JSON shape
// matches the remote cart API: the unit price travels as a display string.
type LineItem struct {
	ProductID int64       `json:"id"`
	Name      string      `json:"name"`
	UnitPrice money.Cents `json:"price"`
	Quantity  int         `json:"quantity"`
	Image     string      `json:"image"`
	Size      string      `json:"size"`
}

// LineTotal is unit price times quantity.
func (li LineItem) LineTotal() money.Cents {
	return li.UnitPrice * money.Cents(li.Quantity)
}

// CopyItems deep-copies a line item slice so a snapshot shares no backing
// storage with the live cart.
func CopyItems(items []LineItem) []LineItem {
	if items == nil {
		return nil
	}
	out := make([]LineItem, len(items))
	copy(out, items)
	return out
}
