package domain

// WishlistItem is a saved product. AddedAt is stamped once at insertion
// (RFC 3339) and never changes afterwards.
type WishlistItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Discount  float64 `json:"discount,omitempty"`
	InStock   *bool   `json:"in_stock,omitempty"`
	AddedAt   string  `json:"added_at"`
}
