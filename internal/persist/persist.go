// Package persist binds the state containers to durable storage. Stores
// stay storage-agnostic: they publish change notifications, and the
// bindings here serialize each snapshot into a versioned envelope under a
// fixed key. A fresh process rehydrates by reading the same key back.
package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/joinvnexus/shopkoro-sub001/internal/domain"
	"github.com/joinvnexus/shopkoro-sub001/internal/session"
	"github.com/joinvnexus/shopkoro-sub001/internal/storage"
	"github.com/joinvnexus/shopkoro-sub001/internal/wishlist"
)

const (
	SessionKey  = "auth-storage"
	WishlistKey = "wishlist-storage"

	envelopeVersion = 0
	writeTimeout    = time.Second
)

// envelope is the on-disk wrapper: { "state": {...}, "version": n }.
type envelope struct {
	State   json.RawMessage `json:"state"`
	Version int             `json:"version"`
}

type sessionState struct {
	UserInfo *domain.UserSession `json:"userInfo"`
}

type wishlistState struct {
	Wishlist []domain.WishlistItem `json:"wishlist"`
}

// BindSession subscribes a writer that persists every session transition.
// Write failures are logged and swallowed; the in-memory state is already
// applied and stands.
func BindSession(st *session.Store, kv storage.KV) {
	st.Subscribe(func(user *domain.UserSession) {
		if err := save(kv, SessionKey, sessionState{UserInfo: user}); err != nil {
			log.Printf("persist session error: %v", err)
		}
	})
}

// RestoreSession loads a previously persisted session into the store. Call
// it during wiring, before the store is first read, so route guards never
// observe an unpopulated session after a restart. A missing key is not an
// error.
func RestoreSession(ctx context.Context, kv storage.KV, st *session.Store) error {
	var state sessionState
	found, err := load(ctx, kv, SessionKey, &state)
	if err != nil {
		return err
	}
	if !found || state.UserInfo == nil {
		return nil
	}
	st.Restore(*state.UserInfo)
	return nil
}

// BindWishlist subscribes a writer that persists every wishlist snapshot
// synchronously, as part of the same mutation.
func BindWishlist(st *wishlist.Store, kv storage.KV) {
	st.Subscribe(func(items []domain.WishlistItem) {
		if err := save(kv, WishlistKey, wishlistState{Wishlist: items}); err != nil {
			log.Printf("persist wishlist error: %v", err)
		}
	})
}

func RestoreWishlist(ctx context.Context, kv storage.KV, st *wishlist.Store) error {
	var state wishlistState
	found, err := load(ctx, kv, WishlistKey, &state)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}
	st.Restore(state.Wishlist)
	return nil
}

func save(kv storage.KV, key string, state any) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal state failed: %w", err)
	}

	data, err := json.Marshal(envelope{State: raw, Version: envelopeVersion})
	if err != nil {
		return fmt.Errorf("marshal envelope failed: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	return kv.Set(ctx, key, data)
}

func load(ctx context.Context, kv storage.KV, key string, state any) (bool, error) {
	data, err := kv.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return false, fmt.Errorf("unmarshal envelope failed: %w", err)
	}
	if err := json.Unmarshal(env.State, state); err != nil {
		return false, fmt.Errorf("unmarshal state failed: %w", err)
	}

	return true, nil
}
