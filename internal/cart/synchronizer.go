// Package cart keeps a local, immediately consistent view of the shopping
// cart while converging on the remote authoritative copy. Every mutation
// applies locally first, then persists remotely in the background; remote
// failures are logged and swallowed, leaving the optimistic state in place
// until the next successful sync.
package cart

import (
	"context"
	"log"
	"sync"

	"github.com/joinvnexus/shopkoro-sub001/internal/cartapi"
	"github.com/joinvnexus/shopkoro-sub001/internal/domain"
	"golang.org/x/sync/singleflight"
)

// SessionReader gates mutation: no session, no cart writes.
type SessionReader interface {
	Current() *domain.UserSession
}

// Notifier surfaces precondition violations to the user (the UI shows a
// blocking notice).
type Notifier interface {
	Warn(message string)
}

type Synchronizer struct {
	m     sync.RWMutex
	items []domain.CartLineItem

	api      cartapi.Client
	sessions SessionReader
	notify   Notifier
	logger   *log.Logger
	sfg      singleflight.Group // collapses concurrent full-cart fetches
}

func NewSynchronizer(api cartapi.Client, sessions SessionReader, notify Notifier, logger *log.Logger) *Synchronizer {
	if logger == nil {
		logger = log.Default()
	}
	return &Synchronizer{
		api:      api,
		sessions: sessions,
		notify:   notify,
		logger:   logger,
	}
}

// AddItem merges the item into the local cart immediately, then persists it
// remotely and replaces local state with the re-fetched authoritative cart
// (server wins on success). Without an active session nothing happens
// beyond a user-facing warning; the remote API is never called.
func (c *Synchronizer) AddItem(item domain.CartLineItem) {
	if c.sessions.Current() == nil {
		c.notify.Warn("Please login to add items to your cart")
		return
	}

	c.m.Lock()
	merged := false
	for i := range c.items {
		if c.items[i].ProductID == item.ProductID {
			c.items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		c.items = append(c.items, item)
	}
	c.m.Unlock()

	go func() {
		ctx := context.Background()
		if err := c.api.AddToCart(ctx, item.ProductID, item.Quantity); err != nil {
			c.logger.Printf("cart add error: %v", err)
			return
		}
		c.SyncFromServer(ctx)
	}()
}

// UpdateQuantity rewrites the matching line's quantity locally, then
// persists it. No minimum is enforced at this layer and no re-fetch
// follows.
func (c *Synchronizer) UpdateQuantity(productID string, quantity int) {
	c.m.Lock()
	for i := range c.items {
		if c.items[i].ProductID == productID {
			c.items[i].Quantity = quantity
			break
		}
	}
	c.m.Unlock()

	go func() {
		if err := c.api.UpdateItem(context.Background(), productID, quantity); err != nil {
			c.logger.Printf("cart update error: %v", err)
		}
	}()
}

// RemoveItem drops the matching line locally, then persists the removal.
func (c *Synchronizer) RemoveItem(productID string) {
	c.m.Lock()
	for i, item := range c.items {
		if item.ProductID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			break
		}
	}
	c.m.Unlock()

	go func() {
		if err := c.api.RemoveItem(context.Background(), productID); err != nil {
			c.logger.Printf("cart remove error: %v", err)
		}
	}()
}

// Clear empties the local cart, then persists the clear.
func (c *Synchronizer) Clear() {
	c.m.Lock()
	c.items = nil
	c.m.Unlock()

	go func() {
		if err := c.api.Clear(context.Background()); err != nil {
			c.logger.Printf("cart clear error: %v", err)
		}
	}()
}

// SyncFromServer fetches the authoritative cart and replaces local state
// wholesale, discarding lines whose product reference no longer resolves.
// Fetch failures are logged and swallowed; local state stays as it was.
// Concurrent calls collapse into a single fetch.
func (c *Synchronizer) SyncFromServer(ctx context.Context) {
	v, err, _ := c.sfg.Do("sync", func() (interface{}, error) {
		return c.api.GetCart(ctx)
	})
	if err != nil {
		c.logger.Printf("cart sync error: %v", err)
		return
	}

	items := cartapi.Translate(v.(cartapi.ServerCart))
	c.m.Lock()
	c.items = items
	c.m.Unlock()
}

// Items returns a copy of the current line items.
func (c *Synchronizer) Items() []domain.CartLineItem {
	c.m.RLock()
	defer c.m.RUnlock()
	out := make([]domain.CartLineItem, len(c.items))
	copy(out, c.items)
	return out
}

// TotalPrice sums unit price times quantity over all lines. A zero price
// contributes nothing.
func (c *Synchronizer) TotalPrice() float64 {
	c.m.RLock()
	defer c.m.RUnlock()
	var total float64
	for _, item := range c.items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}
