package domain

import "time"

// Claims are the fields decoded from a bearer token.
type Claims struct {
	Subject   string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time // zero when the token carries no expiry
	Name      string
	Email     string
}

// CurrentUser is the authenticated identity held by the session manager.
type CurrentUser struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Role        Role   `json:"role"`
}

// HasRole reports whether the user holds role r. Unknown roles never match.
func (u CurrentUser) HasRole(r Role) bool {
	return r.Known() && u.Role == r
}

// Account models a user registered with the local identity service.
type Account struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
