// Package stubapi is an in-memory implementation of the remote cart/auth
// contract, for local development and as the server side of API client
// tests. State lives per bearer token and vanishes with the process.
package stubapi

import (
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type product struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Image string  `json:"image"`
}

type cartLine struct {
	productID string
	quantity  int
}

type user struct {
	id      string
	name    string
	email   string
	isAdmin bool
}

type Server struct {
	m        sync.Mutex
	products map[string]product
	carts    map[string][]cartLine // keyed by bearer token
	sessions map[string]user       // token -> user
}

func New() *Server {
	return &Server{
		products: map[string]product{
			"p1": {ID: "p1", Name: "Test Product from API", Price: 105, Image: "/img/p1.png"},
			"p2": {ID: "p2", Name: "Second Product", Price: 49.5, Image: "/img/p2.png"},
		},
		carts:    make(map[string][]cartLine),
		sessions: make(map[string]user),
	}
}

// Router mounts the contract routes. Mount under httptest.NewServer in
// tests or behind the stubapi binary's middleware stack.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Post("/api/auth/login", s.handleLogin)

	r.Route("/api/cart", func(r chi.Router) {
		r.Use(s.requireSession)
		r.Get("/", s.handleGetCart)
		r.Post("/add", s.handleAddItem)
		r.Put("/items/{product_id}", s.handleUpdateQuantity)
		r.Delete("/items/{product_id}", s.handleRemoveItem)
		r.Delete("/", s.handleClearCart)
	})

	return r
}

// AddProduct seeds a catalog entry.
func (s *Server) AddProduct(id, name string, price float64, image string) {
	s.m.Lock()
	defer s.m.Unlock()
	s.products[id] = product{ID: id, Name: name, Price: price, Image: image}
}

// DeleteProduct removes a catalog entry without touching carts, leaving
// dangling lines behind — exactly what the real backend does when a
// product is delisted.
func (s *Server) DeleteProduct(id string) {
	s.m.Lock()
	defer s.m.Unlock()
	delete(s.products, id)
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimPrefix(header, prefix)
}

func newToken() string {
	return uuid.NewString()
}
