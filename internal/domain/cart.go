package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrCartIndexOutOfRange is returned when a removal targets a position that
// does not exist. The cart is left untouched.
var ErrCartIndexOutOfRange = errors.New("cart: index out of range")

// CartKey is the identity tuple deciding whether two cart additions merge.
// Unit price and image are deliberately excluded.
type CartKey struct {
	Name        string
	Temperature Temperature
	Milk        Milk
}

// CartItem is one configured, quantity-bearing selection in an in-progress
// order.
type CartItem struct {
	Name        string
	Image       string
	UnitPrice   decimal.Decimal
	Temperature Temperature
	Milk        Milk
	Quantity    int
}

// Key returns the item's merge identity.
func (i CartItem) Key() CartKey {
	return CartKey{Name: i.Name, Temperature: i.Temperature, Milk: i.Milk}
}

// LineTotal is the item's extension (unit price × quantity).
func (i CartItem) LineTotal() decimal.Decimal {
	return LineTotal(i.UnitPrice, i.Quantity)
}

// Cart is an ordered sequence of cart items. Insertion order is significant:
// the position is the removal key. The merge rule in Add keeps the sequence
// free of duplicate identity tuples.
type Cart struct {
	items []CartItem
}

// Add merges the candidate into an existing line sharing its identity tuple,
// or appends it at the end. On merge only the quantity changes; the existing
// line's unit price and image are retained.
func (c *Cart) Add(candidate CartItem) {
	key := candidate.Key()
	for i := range c.items {
		if c.items[i].Key() == key {
			c.items[i].Quantity += candidate.Quantity
			return
		}
	}
	c.items = append(c.items, candidate)
}

// RemoveAt deletes the line at the given position. Out-of-range indexes are
// rejected without mutating the sequence.
func (c *Cart) RemoveAt(index int) error {
	if index < 0 || index >= len(c.items) {
		return ErrCartIndexOutOfRange
	}
	c.items = append(c.items[:index], c.items[index+1:]...)
	return nil
}

// Clear empties the cart unconditionally.
func (c *Cart) Clear() {
	c.items = nil
}

// Len reports the number of lines.
func (c *Cart) Len() int {
	return len(c.items)
}

// Items returns a copy of the lines in insertion order.
func (c *Cart) Items() []CartItem {
	if len(c.items) == 0 {
		return []CartItem{}
	}
	dup := make([]CartItem, len(c.items))
	copy(dup, c.items)
	return dup
}

// Subtotal sums unit price × quantity over every line. An empty cart totals
// zero.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(item.LineTotal())
	}
	return total
}
