// Package cart implements the in-memory shopping cart. Lines hold frozen
// snapshots of product data captured at add time, so the cart is immune to
// catalog changes after a product was added. The cart lives for the session
// only; nothing here is persisted.
package cart

import (
	"sync"

	"github.com/hyperengineering/shopfront/internal/types"
)

// Cart maps product ids to cart lines. Insertion order is preserved for
// display and summary output. Every stored line has Quantity >= 1; driving
// a quantity to zero or below removes the line entirely.
type Cart struct {
	mu    sync.Mutex
	lines map[string]*types.CartLine
	order []string // product ids in insertion order
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{lines: make(map[string]*types.CartLine)}
}

// AddItem adds one unit of the product. If a line for the product already
// exists its quantity is incremented; otherwise a new line is created with
// quantity 1, freezing the product's name, price, and image.
func (c *Cart) AddItem(p types.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if line, ok := c.lines[p.ID]; ok {
		line.Quantity++
		return
	}

	c.lines[p.ID] = &types.CartLine{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Image:     p.Image,
		Quantity:  1,
	}
	c.order = append(c.order, p.ID)
}

// UpdateQuantity adjusts the line for id by delta. When the new quantity
// drops to zero or below the line is deleted, never stored at zero. An
// unknown id is a no-op.
func (c *Cart) UpdateQuantity(id string, delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	line, ok := c.lines[id]
	if !ok {
		return
	}

	line.Quantity += delta
	if line.Quantity <= 0 {
		c.remove(id)
	}
}

// remove deletes the line and its order entry. Caller holds the lock.
func (c *Cart) remove(id string) {
	delete(c.lines, id)
	for i, oid := range c.order {
		if oid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

// Clear empties the cart unconditionally.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = make(map[string]*types.CartLine)
	c.order = nil
}

// Lines returns a copy of all cart lines in insertion order.
func (c *Cart) Lines() []types.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]types.CartLine, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, *c.lines[id])
	}
	return out
}

// Quantity returns the quantity of the line for id, or 0 if absent.
func (c *Cart) Quantity(id string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if line, ok := c.lines[id]; ok {
		return line.Quantity
	}
	return 0
}

// Count returns the total number of units across all lines.
func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	var n int
	for _, line := range c.lines {
		n += line.Quantity
	}
	return n
}

// Total sums price*quantity over all lines using the frozen snapshot
// prices, never a live catalog lookup.
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total float64
	for _, line := range c.lines {
		total += line.Price * float64(line.Quantity)
	}
	return total
}
