package wishlist

import (
	"sync"
	"time"

	"github.com/joinvnexus/shopkoro-sub001/internal/domain"
)

// Store is the saved-products set: deduplicated by product id, insertion
// order preserved, no remote counterpart. The durable copy written by its
// persist subscriber is authoritative across restarts.
type Store struct {
	m         sync.RWMutex
	items     []domain.WishlistItem
	listeners []func([]domain.WishlistItem)
	now       func() time.Time
}

func New() *Store {
	return &Store{now: time.Now}
}

// Subscribe registers a listener invoked synchronously after every mutation
// with a snapshot of the items. The persist binding writes through storage
// inside this call, so mutation and persistence happen as one step.
func (s *Store) Subscribe(fn func([]domain.WishlistItem)) {
	s.m.Lock()
	s.listeners = append(s.listeners, fn)
	s.m.Unlock()
}

// Add appends the item with a freshly stamped AddedAt. Adding an id that is
// already present is a silent no-op: the original entry and its timestamp
// win.
func (s *Store) Add(item domain.WishlistItem) {
	s.m.Lock()
	for _, existing := range s.items {
		if existing.ProductID == item.ProductID {
			s.m.Unlock()
			return
		}
	}
	item.AddedAt = s.now().UTC().Format(time.RFC3339)
	s.items = append(s.items, item)
	snapshot, listeners := s.snapshotLocked()
	s.m.Unlock()

	notify(listeners, snapshot)
}

// Remove drops the matching item; absent ids are a no-op.
func (s *Store) Remove(productID string) {
	s.m.Lock()
	found := false
	for i, item := range s.items {
		if item.ProductID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		s.m.Unlock()
		return
	}
	snapshot, listeners := s.snapshotLocked()
	s.m.Unlock()

	notify(listeners, snapshot)
}

// RemoveItem is an alias for Remove, kept because both names are part of
// the store's published contract.
func (s *Store) RemoveItem(productID string) {
	s.Remove(productID)
}

func (s *Store) Contains(productID string) bool {
	s.m.RLock()
	defer s.m.RUnlock()
	for _, item := range s.items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}

func (s *Store) Count() int {
	s.m.RLock()
	defer s.m.RUnlock()
	return len(s.items)
}

func (s *Store) Clear() {
	s.m.Lock()
	s.items = nil
	snapshot, listeners := s.snapshotLocked()
	s.m.Unlock()

	notify(listeners, snapshot)
}

// Items returns a copy in insertion order.
func (s *Store) Items() []domain.WishlistItem {
	s.m.RLock()
	defer s.m.RUnlock()
	out := make([]domain.WishlistItem, len(s.items))
	copy(out, s.items)
	return out
}

// Restore installs persisted items without notifying listeners.
func (s *Store) Restore(items []domain.WishlistItem) {
	s.m.Lock()
	s.items = make([]domain.WishlistItem, len(items))
	copy(s.items, items)
	s.m.Unlock()
}

func (s *Store) snapshotLocked() ([]domain.WishlistItem, []func([]domain.WishlistItem)) {
	snapshot := make([]domain.WishlistItem, len(s.items))
	copy(snapshot, s.items)
	return snapshot, s.listeners
}

func notify(listeners []func([]domain.WishlistItem), items []domain.WishlistItem) {
	for _, fn := range listeners {
		fn(items)
	}
}
