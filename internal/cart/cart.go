// Package cart holds the client-side shopping cart. A cart only ever contains items from one restaurant.
package cart

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/swadseva/ordering/internal/service/models/order"
)

const (
	MinQuantity = 1
	MaxQuantity = 10

	saveTimeout = 2 * time.Second
)

// Item is one cart line.
type Item struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Price          decimal.Decimal `json:"price"`
	Quantity       int             `json:"quantity"`
	RestaurantID   uuid.UUID       `json:"restaurantId"`
	RestaurantName string          `json:"restaurantName"`
	ImageURL       string          `json:"imageUrl,omitempty"`
	Category       string          `json:"category,omitempty"`
	Instructions   string          `json:"instructions,omitempty"`
}

// Snapshot is the persisted form of a cart.
type Snapshot struct {
	Items          []Item    `json:"items"`
	RestaurantID   uuid.UUID `json:"restaurantId"`
	RestaurantName string    `json:"restaurantName"`
}

// Store persists cart snapshots.
type Store interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, s Snapshot) error
}

// ConfirmFunc is asked before a cart bound to one restaurant is emptied for another.
type ConfirmFunc func(currentRestaurant, incomingRestaurant string) bool

// Binding names the restaurant a cart is bound to. ID is uuid.Nil for an empty cart.
type Binding struct {
	ID   uuid.UUID
	Name string
}

// CheckoutLine is a cart line as submitted to POST /api/orders.
type CheckoutLine struct {
	ID           uuid.UUID       `json:"id"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity"`
	Instructions string          `json:"instructions,omitempty"`
}

// Cart is safe for concurrent use.
type Cart struct {
	mu             sync.Mutex
	store          Store
	items          []Item
	restaurantID   uuid.UUID
	restaurantName string
}

// New creates a cart restored from store. A failed load starts an empty cart.
func New(ctx context.Context, store Store) *Cart {
	c := &Cart{store: store}
	if store == nil {
		return c
	}

	snap, err := store.Load(ctx)
	if err != nil {
		slog.Warn("Error loading cart, starting empty", "error", err)

		return c
	}

	c.items = slices.Clone(snap.Items)
	if len(c.items) > 0 {
		c.restaurantID = snap.RestaurantID
		c.restaurantName = snap.RestaurantName
	}

	return c
}

// NeedsConfirmation reports whether adding item would replace the current cart contents.
func (c *Cart) NeedsConfirmation(item Item) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.needsConfirmation(item)
}

func (c *Cart) needsConfirmation(item Item) bool {
	return c.restaurantID != uuid.Nil && c.restaurantID != item.RestaurantID
}

// Add puts quantity of item into the cart, merging with an existing line.
// Adding from another restaurant asks confirm first; a refusal or nil confirm leaves the cart unchanged
// and Add returns false.
func (c *Cart) Add(item Item, quantity int, confirm ConfirmFunc) bool {
	if quantity < MinQuantity {
		quantity = MinQuantity
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.needsConfirmation(item) {
		if confirm == nil || !confirm(c.restaurantName, item.RestaurantName) {
			return false
		}
		c.items = nil
		c.restaurantID = item.RestaurantID
		c.restaurantName = item.RestaurantName
	}

	merged := false
	for i := range c.items {
		if c.items[i].ID == item.ID {
			c.items[i].Quantity += quantity
			merged = true

			break
		}
	}
	if !merged {
		item.Quantity = quantity
		c.items = append(c.items, item)
	}

	if c.restaurantID == uuid.Nil {
		c.restaurantID = item.RestaurantID
		c.restaurantName = item.RestaurantName
	}

	c.save()

	return true
}

// Remove deletes the line for itemID. An emptied cart forgets its restaurant.
func (c *Cart) Remove(itemID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.remove(itemID)
	c.save()
}

func (c *Cart) remove(itemID uuid.UUID) {
	c.items = slices.DeleteFunc(c.items, func(it Item) bool { return it.ID == itemID })
	if len(c.items) == 0 {
		c.items = nil
		c.restaurantID = uuid.Nil
		c.restaurantName = ""
	}
}

// UpdateQuantity sets the quantity of a line. Zero or less removes it.
func (c *Cart) UpdateQuantity(itemID uuid.UUID, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if quantity <= 0 {
		c.remove(itemID)
		c.save()

		return
	}

	for i := range c.items {
		if c.items[i].ID == itemID {
			c.items[i].Quantity = quantity
		}
	}
	c.save()
}

// Increment raises a line by one, up to MaxQuantity.
func (c *Cart) Increment(itemID uuid.UUID) {
	c.step(itemID, 1)
}

// Decrement lowers a line by one, down to MinQuantity. Use Remove to drop a line.
func (c *Cart) Decrement(itemID uuid.UUID) {
	c.step(itemID, -1)
}

func (c *Cart) step(itemID uuid.UUID, delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ID == itemID {
			c.items[i].Quantity = min(max(c.items[i].Quantity+delta, MinQuantity), MaxQuantity)
		}
	}
	c.save()
}

// SetInstructions attaches special instructions to a line.
func (c *Cart) SetInstructions(itemID uuid.UUID, instructions string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ID == itemID {
			c.items[i].Instructions = instructions
		}
	}
	c.save()
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = nil
	c.restaurantID = uuid.Nil
	c.restaurantName = ""
	c.save()
}

// TotalPrice is the sum of price times quantity, before tax.
func (c *Cart) TotalPrice() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.totalPrice()
}

func (c *Cart) totalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}

	return total
}

// TotalWithTax is the amount the order will be charged.
func (c *Cart) TotalWithTax() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()

	return order.TotalWithTax(c.totalPrice())
}

// TotalItems is the sum of quantities.
func (c *Cart) TotalItems() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}

	return n
}

// Items returns a copy of the cart lines.
func (c *Cart) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()

	return slices.Clone(c.items)
}

// Restaurant returns the restaurant the cart is bound to.
func (c *Cart) Restaurant() Binding {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Binding{ID: c.restaurantID, Name: c.restaurantName}
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.items) == 0
}

// CheckoutLines converts the cart into the order request item list.
func (c *Cart) CheckoutLines() []CheckoutLine {
	c.mu.Lock()
	defer c.mu.Unlock()

	lines := make([]CheckoutLine, len(c.items))
	for i, it := range c.items {
		lines[i] = CheckoutLine{
			ID:           it.ID,
			Price:        it.Price,
			Quantity:     it.Quantity,
			Instructions: it.Instructions,
		}
	}

	return lines
}

// save persists the current state. Failures are logged and otherwise ignored.
func (c *Cart) save() {
	if c.store == nil {
		return
	}

	snap := Snapshot{
		Items:          slices.Clone(c.items),
		RestaurantID:   c.restaurantID,
		RestaurantName: c.restaurantName,
	}

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	if err := c.store.Save(ctx, snap); err != nil {
		slog.Warn("Error saving cart", "error", err)
	}
}
