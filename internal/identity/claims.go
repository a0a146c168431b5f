package identity

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionPayload captures the data available when minting a credential.
type SessionPayload struct {
	Email  string
	UserID uuid.UUID
	Role   string
	JTI    string
}

// SessionClaims is the typed credential issued by the auth collaborator.
type SessionClaims struct {
	Email  string    `json:"email"`
	UserID uuid.UUID `json:"user_id"`
	Role   string    `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// IdentityToken returns the stable token used to derive the cart namespace:
// the normalized email.
func (c *SessionClaims) IdentityToken() string {
	return NormalizeToken(c.Email)
}

// NormalizeToken canonicalizes an identity token so that the same user always
// maps to the same namespace key.
func NormalizeToken(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
