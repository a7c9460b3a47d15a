package persist

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/joinvnexus/shopkoro-sub001/internal/domain"
	"github.com/joinvnexus/shopkoro-sub001/internal/session"
	"github.com/joinvnexus/shopkoro-sub001/internal/storage"
	"github.com/joinvnexus/shopkoro-sub001/internal/wishlist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionPersistsOnLogin(t *testing.T) {
	kv := storage.NewMemoryKV()
	st := session.New()
	BindSession(st, kv)

	st.Login(domain.UserSession{ID: "u1", Name: "Test", Email: "t@e.com", Token: "tok"})

	data, err := kv.Get(context.Background(), SessionKey)
	require.NoError(t, err)

	var env struct {
		State struct {
			UserInfo *domain.UserSession `json:"userInfo"`
		} `json:"state"`
		Version int `json:"version"`
	}
	require.NoError(t, json.Unmarshal(data, &env))
	assert.Equal(t, 0, env.Version)
	require.NotNil(t, env.State.UserInfo)
	assert.Equal(t, "u1", env.State.UserInfo.ID)
	assert.Equal(t, "tok", env.State.UserInfo.Token)
}

func TestSessionPersistsAbsenceOnLogout(t *testing.T) {
	kv := storage.NewMemoryKV()
	st := session.New()
	BindSession(st, kv)

	st.Login(domain.UserSession{ID: "u1", Token: "tok"})
	st.Logout()

	data, err := kv.Get(context.Background(), SessionKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"state":{"userInfo":null},"version":0}`, string(data))
}

func TestSessionRestoreRoundTrip(t *testing.T) {
	kv := storage.NewMemoryKV()
	first := session.New()
	BindSession(first, kv)
	first.Login(domain.UserSession{ID: "u1", Name: "Test", IsAdmin: true, Token: "tok"})

	// fresh process
	second := session.New()
	require.NoError(t, RestoreSession(context.Background(), kv, second))

	got := second.Current()
	require.NotNil(t, got)
	assert.Equal(t, "u1", got.ID)
	assert.True(t, second.IsAdmin())
}

func TestSessionRestoreEmptyStorage(t *testing.T) {
	kv := storage.NewMemoryKV()
	st := session.New()

	require.NoError(t, RestoreSession(context.Background(), kv, st))
	assert.Nil(t, st.Current())
}

func TestWishlistRestoreRoundTrip(t *testing.T) {
	kv := storage.NewMemoryKV()
	first := wishlist.New()
	BindWishlist(first, kv)
	first.Add(domain.WishlistItem{ProductID: "p1", Name: "One", Price: 10})
	first.Add(domain.WishlistItem{ProductID: "p2", Name: "Two", Price: 20})

	second := wishlist.New()
	require.NoError(t, RestoreWishlist(context.Background(), kv, second))

	require.Equal(t, 2, second.Count())
	items := second.Items()
	assert.Equal(t, "p1", items[0].ProductID)
	assert.NotEmpty(t, items[0].AddedAt, "persisted timestamp survives the restart")
	assert.Equal(t, "p2", items[1].ProductID)
}

func TestWishlistPersistsSynchronously(t *testing.T) {
	kv := storage.NewMemoryKV()
	st := wishlist.New()
	BindWishlist(st, kv)

	st.Add(domain.WishlistItem{ProductID: "p1"})

	// visible in storage immediately after the mutation returns
	data, err := kv.Get(context.Background(), WishlistKey)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"p1"`)

	st.Clear()
	data, err = kv.Get(context.Background(), WishlistKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"state":{"wishlist":[]},"version":0}`, string(data))
}

func TestRestoreCorruptEnvelope(t *testing.T) {
	kv := storage.NewMemoryKV()
	require.NoError(t, kv.Set(context.Background(), SessionKey, []byte("{not json")))

	st := session.New()
	err := RestoreSession(context.Background(), kv, st)
	require.Error(t, err)
	assert.Nil(t, st.Current())
}
