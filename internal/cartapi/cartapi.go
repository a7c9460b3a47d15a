// Package cartapi is the client for the remote cart/auth API. The wire
// format is owned by that service; this package pins the client side of the
// contract and translates its loosely shaped cart payload.
package cartapi

import (
	"context"

	"github.com/joinvnexus/shopkoro-sub001/internal/domain"
)

// Client is the remote contract the cart synchronizer persists through.
// Consumers define this interface, not the HTTP implementation.
type Client interface {
	AddToCart(ctx context.Context, productID string, quantity int) error
	GetCart(ctx context.Context) (ServerCart, error)
	UpdateItem(ctx context.Context, productID string, quantity int) error
	RemoveItem(ctx context.Context, productID string) error
	Clear(ctx context.Context) error
	Login(ctx context.Context, creds Credentials) (domain.UserSession, error)
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ServerCart is the authoritative cart payload. Product is a nullable
// nested reference: the server keeps lines whose product has since been
// deleted, so translation must filter them instead of trusting the shape.
type ServerCart struct {
	Items []ServerCartItem `json:"items"`
}

type ServerCartItem struct {
	Product  *ProductRef `json:"product"`
	Quantity int         `json:"quantity"`
}

type ProductRef struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Image string  `json:"image"`
}

// Translate flattens the server cart into local line items, discarding any
// line whose product reference no longer resolves.
func Translate(cart ServerCart) []domain.CartLineItem {
	items := make([]domain.CartLineItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		if line.Product == nil {
			continue
		}
		items = append(items, domain.CartLineItem{
			ProductID: line.Product.ID,
			Name:      line.Product.Name,
			Price:     line.Product.Price,
			Quantity:  line.Quantity,
			Image:     line.Product.Image,
		})
	}
	return items
}
