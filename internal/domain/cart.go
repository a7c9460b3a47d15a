package domain

// CartLineItem is one row of the local cart. The authoritative copy lives
// behind the remote cart API; this is a cache keyed by ProductID.
type CartLineItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image"`
}
