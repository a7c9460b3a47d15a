package stubapi

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

type loginRequestDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponseDTO struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
	Token   string `json:"token"`
}

type addItemRequestDTO struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type updateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type cartResponseDTO struct {
	Items []cartItemDTO `json:"items"`
}

type cartItemDTO struct {
	Product  *productDTO `json:"product"`
	Quantity int         `json:"quantity"`
}

type productDTO struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Image string  `json:"image"`
}

type errorResponseDTO struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "invalid_credentials", "email and password are required")
		return
	}

	token := newToken()
	u := user{
		id:      "user-" + token[:8],
		name:    strings.SplitN(req.Email, "@", 2)[0],
		email:   req.Email,
		isAdmin: strings.HasPrefix(req.Email, "admin@"),
	}

	s.m.Lock()
	s.sessions[token] = u
	s.m.Unlock()

	respondJSON(w, http.StatusOK, sessionResponseDTO{
		ID:      u.id,
		Name:    u.name,
		Email:   u.email,
		IsAdmin: u.isAdmin,
		Token:   token,
	})
}

func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))

		s.m.Lock()
		_, ok := s.sessions[token]
		s.m.Unlock()

		if token == "" || !ok {
			respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}
	if req.Quantity <= 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	token := bearerToken(r.Header.Get("Authorization"))

	s.m.Lock()
	defer s.m.Unlock()

	if _, ok := s.products[req.ProductID]; !ok {
		respondError(w, http.StatusNotFound, "not_found", "product not found")
		return
	}

	lines := s.carts[token]
	merged := false
	for i := range lines {
		if lines[i].productID == req.ProductID {
			lines[i].quantity += req.Quantity
			merged = true
			break
		}
	}
	if !merged {
		lines = append(lines, cartLine{productID: req.ProductID, quantity: req.Quantity})
	}
	s.carts[token] = lines

	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r.Header.Get("Authorization"))

	s.m.Lock()
	lines := s.carts[token]
	items := make([]cartItemDTO, len(lines))
	for i, line := range lines {
		item := cartItemDTO{Quantity: line.quantity}
		if p, ok := s.products[line.productID]; ok {
			item.Product = &productDTO{ID: p.ID, Name: p.Name, Price: p.Price, Image: p.Image}
		}
		items[i] = item
	}
	s.m.Unlock()

	respondJSON(w, http.StatusOK, cartResponseDTO{Items: items})
}

func (s *Server) handleUpdateQuantity(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "product_id")

	var req updateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity <= 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	token := bearerToken(r.Header.Get("Authorization"))

	s.m.Lock()
	defer s.m.Unlock()

	lines := s.carts[token]
	for i := range lines {
		if lines[i].productID == productID {
			lines[i].quantity = req.Quantity
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}

	respondError(w, http.StatusNotFound, "not_found", "item not found in cart")
}

func (s *Server) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "product_id")
	token := bearerToken(r.Header.Get("Authorization"))

	s.m.Lock()
	defer s.m.Unlock()

	lines := s.carts[token]
	for i := range lines {
		if lines[i].productID == productID {
			s.carts[token] = append(lines[:i], lines[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}

	respondError(w, http.StatusNotFound, "not_found", "item not found in cart")
}

func (s *Server) handleClearCart(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r.Header.Get("Authorization"))

	s.m.Lock()
	delete(s.carts, token)
	s.m.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponseDTO{
		Error: message,
		Code:  code,
	})
}
