package identity

import (
	stdErrors "errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/cartcore/pkg/config"
	pkgerrors "github.com/angelmondragon/cartcore/pkg/errors"
)

// Reason classifies why a credential failed to resolve.
type Reason string

const (
	ReasonAbsent    Reason = "absent"
	ReasonMalformed Reason = "malformed"
	ReasonExpired   Reason = "expired"
)

// Identity is the resolved view of a valid credential.
type Identity struct {
	Token     string
	Email     string
	UserID    uuid.UUID
	Role      string
	ExpiresAt time.Time
}

// Resolver decodes opaque session credentials. Resolution is a pure decode:
// purging invalid persisted state is the caller's responsibility.
type Resolver struct {
	cfg config.SessionConfig
	now func() time.Time
}

// NewResolver builds a resolver for the shared credential configuration.
func NewResolver(cfg config.SessionConfig) (*Resolver, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("session secret is required")
	}
	return &Resolver{cfg: cfg, now: time.Now}, nil
}

// WithClock overrides the time source, for tests.
func (r *Resolver) WithClock(now func() time.Time) *Resolver {
	if now != nil {
		r.now = now
	}
	return r
}

// Resolve decodes the raw credential into an identity. Failures carry the
// INVALID_CREDENTIAL code with a typed reason: absent, malformed, or expired.
func (r *Resolver) Resolve(rawCredential string) (*Identity, error) {
	if rawCredential == "" {
		return nil, invalidCredential(ReasonAbsent, "no credential supplied")
	}

	claims, err := ParseSessionToken(r.cfg, rawCredential, r.now)
	if err != nil {
		if stdErrors.Is(err, jwt.ErrTokenExpired) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInvalidCredential, err, "credential expired").
				WithDetails(ReasonExpired)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInvalidCredential, err, "credential failed to decode").
			WithDetails(ReasonMalformed)
	}

	token := claims.IdentityToken()
	if token == "" {
		return nil, invalidCredential(ReasonMalformed, "credential carries no identity")
	}

	identity := &Identity{
		Token:  token,
		Email:  claims.Email,
		UserID: claims.UserID,
		Role:   claims.Role,
	}
	if claims.ExpiresAt != nil {
		identity.ExpiresAt = claims.ExpiresAt.Time
	}
	return identity, nil
}

func invalidCredential(reason Reason, message string) error {
	return pkgerrors.New(pkgerrors.CodeInvalidCredential, message).WithDetails(reason)
}

// ReasonOf extracts the failure reason from a resolution error.
func ReasonOf(err error) (Reason, bool) {
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeInvalidCredential {
		return "", false
	}
	reason, ok := typed.Details().(Reason)
	return reason, ok
}
