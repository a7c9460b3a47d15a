package domain

// UserSession represents the currently authenticated user, including the
// bearer token used on cart API calls. A nil *UserSession means anonymous;
// a non-nil value is always fully populated by the login exchange.
type UserSession struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
	Token   string `json:"token"`
}
