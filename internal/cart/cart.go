// Package cart holds the per-visitor shopping cart and the projector that
// reconciles it against the live catalog. The cart itself is ephemeral
// session state; nothing here touches persistence directly.
package cart

import (
	"strconv"

	"github.com/alextreichler/tiendamanzana/internal/models"
)

// Line is one cart entry: a product reference plus quantity. The category
// tag and id together identify the product, so exactly one category applies
// to a line by construction.
type Line struct {
	Category  models.Category
	ProductID int
	Quantity  int
}

// Key is the composite cart key, "<category>:<id>".
func (l Line) Key() string {
	return string(l.Category) + ":" + strconv.Itoa(l.ProductID)
}

// Cart is an insertion-ordered list of lines. Carts are small, so lookups
// walk the slice; the slice keeps display order deterministic across
// reads, which a plain map would not.
type Cart struct {
	Lines []Line
}

// Add inserts a new line or increments an existing one. Quantities below 1
// are clamped to 1.
func (c *Cart) Add(category models.Category, productID, quantity int) {
	if quantity < 1 {
		quantity = 1
	}
	key := Line{Category: category, ProductID: productID}.Key()
	for i := range c.Lines {
		if c.Lines[i].Key() == key {
			c.Lines[i].Quantity += quantity
			return
		}
	}
	c.Lines = append(c.Lines, Line{Category: category, ProductID: productID, Quantity: quantity})
}

// Remove deletes the line with the given key. Removing an absent key is a
// no-op, so repeat calls are idempotent.
func (c *Cart) Remove(key string) {
	for i := range c.Lines {
		if c.Lines[i].Key() == key {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return
		}
	}
}

// SetQuantity overwrites the quantity for an existing key. A quantity below
// 1 removes the line instead. Absent keys are left alone.
func (c *Cart) SetQuantity(key string, quantity int) {
	if quantity < 1 {
		c.Remove(key)
		return
	}
	for i := range c.Lines {
		if c.Lines[i].Key() == key {
			c.Lines[i].Quantity = quantity
			return
		}
	}
}

// Get returns the line for a key, if present.
func (c *Cart) Get(key string) (Line, bool) {
	for _, l := range c.Lines {
		if l.Key() == key {
			return l, true
		}
	}
	return Line{}, false
}

// ItemCount is the sum of all quantities across lines.
func (c *Cart) ItemCount() int {
	total := 0
	for _, l := range c.Lines {
		total += l.Quantity
	}
	return total
}

func (c *Cart) Empty() bool {
	return len(c.Lines) == 0
}

// Clear resets the cart to empty.
func (c *Cart) Clear() {
	c.Lines = nil
}
