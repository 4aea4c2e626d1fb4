// Package money provides fixed-point currency values in minor units.
//
// Catalog prices arrive as display strings like "$72.00". They are parsed
// once into Cents and all arithmetic happens on int64 minor units, so
// repeated additions never accumulate floating-point drift.
package money

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Cents is a currency amount in minor units (1/100 of a dollar).
type Cents int64

var centsFactor = decimal.NewFromInt(100)

// ParseDisplay converts a display price like "$72.00" (or "72.00") to Cents.
func ParseDisplay(s string) (Cents, error) {
	trimmed := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if trimmed == "" {
		return 0, fmt.Errorf("empty price string %q", s)
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return 0, fmt.Errorf("invalid price string %q: %w", s, err)
	}
	minor := d.Mul(centsFactor)
	if !minor.IsInteger() {
		return 0, fmt.Errorf("price %q has sub-cent precision", s)
	}
	return Cents(minor.IntPart()), nil
}

// Display formats the amount as a display price string, e.g. "$72.00".
func (c Cents) Display() string {
	return "$" + decimal.NewFromInt(int64(c)).Div(centsFactor).StringFixed(2)
}

func (c Cents) String() string {
	return c.Display()
}

// MarshalJSON emits the backend's wire format: a display price string.
func (c Cents) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Display())
}

// UnmarshalJSON accepts a display price string ("$72.00", "72.00") or a
// bare decimal number of major units (72.0), as the backend sends either.
func (c *Cents) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, errParse := ParseDisplay(s)
		if errParse != nil {
			return errParse
		}
		*c = parsed
		return nil
	}

	var d decimal.Decimal
	if err := json.Unmarshal(data, &d); err != nil {
		return fmt.Errorf("price is neither a string nor a number: %s", data)
	}
	minor := d.Mul(centsFactor)
	if !minor.IsInteger() {
		return fmt.Errorf("price %s has sub-cent precision", d)
	}
	*c = Cents(minor.IntPart())
	return nil
}
