package cartapi

import (
	"context"
	"time"

	"github.com/joinvnexus/shopkoro-sub001/internal/domain"
	"github.com/sony/gobreaker/v2"
)

// WithBreaker wraps a client with a circuit breaker over the cart calls.
// An open circuit surfaces as an ordinary remote error, which the
// synchronizer already logs and swallows. Login stays unwrapped: a broken
// cart backend must not lock users out.
func WithBreaker(next Client) *BreakerClient {
	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "cart-api",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
	})
	return &BreakerClient{next: next, cb: cb}
}

type BreakerClient struct {
	next Client
	cb   *gobreaker.CircuitBreaker[any]
}

func (b *BreakerClient) AddToCart(ctx context.Context, productID string, quantity int) error {
	_, err := b.cb.Execute(func() (any, error) {
		return nil, b.next.AddToCart(ctx, productID, quantity)
	})
	return err
}

func (b *BreakerClient) GetCart(ctx context.Context) (ServerCart, error) {
	v, err := b.cb.Execute(func() (any, error) {
		return b.next.GetCart(ctx)
	})
	if err != nil {
		return ServerCart{}, err
	}
	return v.(ServerCart), nil
}

func (b *BreakerClient) UpdateItem(ctx context.Context, productID string, quantity int) error {
	_, err := b.cb.Execute(func() (any, error) {
		return nil, b.next.UpdateItem(ctx, productID, quantity)
	})
	return err
}

func (b *BreakerClient) RemoveItem(ctx context.Context, productID string) error {
	_, err := b.cb.Execute(func() (any, error) {
		return nil, b.next.RemoveItem(ctx, productID)
	})
	return err
}

func (b *BreakerClient) Clear(ctx context.Context) error {
	_, err := b.cb.Execute(func() (any, error) {
		return nil, b.next.Clear(ctx)
	})
	return err
}

func (b *BreakerClient) Login(ctx context.Context, creds Credentials) (domain.UserSession, error) {
	return b.next.Login(ctx, creds)
}
