package session

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/multierr"

	"github.com/angelmondragon/cartcore/internal/identity"
	"github.com/angelmondragon/cartcore/internal/storage"
	pkgerrors "github.com/angelmondragon/cartcore/pkg/errors"
	"github.com/angelmondragon/cartcore/pkg/logger"
	"github.com/angelmondragon/cartcore/pkg/metrics"
)

// CartLoader is the slice of the cart aggregate the coordinator drives.
type CartLoader interface {
	Load(ctx context.Context, namespaceKey string) error
}

// CredentialResolver decodes raw credentials into identities.
type CredentialResolver interface {
	Resolve(rawCredential string) (*identity.Identity, error)
}

// Profile carries the cached profile fields persisted next to the credential
// and purged together with it.
type Profile struct {
	Name         string
	Surname      string
	DNI          string
	Email        string
	ProfilePhoto string
}

// Coordinator reacts to identity changes by swapping which namespace the
// cart aggregate reads and writes. The inactive namespace's data is never
// merged and never deleted.
type Coordinator struct {
	mu       sync.Mutex
	kv       storage.KV
	resolver CredentialResolver
	cart     CartLoader
	log      *logger.Logger
	metrics  *metrics.CartMetrics

	current *identity.Identity
}

// CoordinatorParams lists the collaborators a Coordinator needs.
type CoordinatorParams struct {
	KV       storage.KV
	Resolver CredentialResolver
	Cart     CartLoader
	Logger   *logger.Logger
	Metrics  *metrics.CartMetrics
}

// NewCoordinator validates the collaborators and returns a coordinator in
// the no-identity state. Call Resume to pick up a persisted credential.
func NewCoordinator(params CoordinatorParams) (*Coordinator, error) {
	if params.KV == nil {
		return nil, fmt.Errorf("kv backend required")
	}
	if params.Resolver == nil {
		return nil, fmt.Errorf("credential resolver required")
	}
	if params.Cart == nil {
		return nil, fmt.Errorf("cart loader required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Coordinator{
		kv:       params.KV,
		resolver: params.Resolver,
		cart:     params.Cart,
		log:      params.Logger,
		metrics:  params.Metrics,
	}, nil
}

// Resume reads the persisted credential and activates the matching
// namespace. An absent credential activates the guest namespace; an invalid
// one is purged together with the cached profile before falling back to
// guest. Safe to call again whenever the credential may have expired.
func (c *Coordinator) Resume(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	raw, ok, err := c.kv.Get(ctx, storage.CredentialKey)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read credential")
	}
	if !ok {
		return c.activate(ctx, nil)
	}

	resolved, err := c.resolver.Resolve(raw)
	if err != nil {
		reason, _ := identity.ReasonOf(err)
		c.log.Warn(c.log.WithField(ctx, "reason", string(reason)), "persisted credential invalid, purging")
		return multierr.Append(c.purge(ctx), c.activate(ctx, nil))
	}

	return c.activate(ctx, resolved)
}

// Login persists the credential and cached profile, then activates the
// identity's namespace. The guest cart stays untouched under its own key.
func (c *Coordinator) Login(ctx context.Context, rawCredential string, profile Profile) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	resolved, err := c.resolver.Resolve(rawCredential)
	if err != nil {
		return err
	}

	writes := []struct{ key, value string }{
		{storage.CredentialKey, rawCredential},
		{storage.ProfileNameKey, profile.Name},
		{storage.ProfileSurnameKey, profile.Surname},
		{storage.ProfileDniKey, profile.DNI},
		{storage.ProfileEmailKey, profile.Email},
		{storage.ProfilePhotoKey, profile.ProfilePhoto},
	}
	for _, w := range writes {
		if err := c.kv.Set(ctx, w.key, w.value); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeStoreWrite, err, "persist session state")
		}
	}

	return c.activate(ctx, resolved)
}

// Logout purges the credential and cached profile atomically and activates
// the guest namespace. The user's cart remains stored under their key.
func (c *Coordinator) Logout(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return multierr.Append(c.purge(ctx), c.activate(ctx, nil))
}

// Identity returns a copy of the active identity, or nil for guest.
func (c *Coordinator) Identity() *identity.Identity {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return nil
	}
	copied := *c.current
	return &copied
}

// IsAuthenticated reports whether a resolved identity is active.
func (c *Coordinator) IsAuthenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current != nil
}

// Namespace returns the cart key for the active identity.
func (c *Coordinator) Namespace() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.namespaceLocked()
}

// CachedProfile reads the profile fields persisted at login. Absent fields
// read as empty strings.
func (c *Coordinator) CachedProfile(ctx context.Context) (Profile, error) {
	var profile Profile
	reads := []struct {
		key  string
		dest *string
	}{
		{storage.ProfileNameKey, &profile.Name},
		{storage.ProfileSurnameKey, &profile.Surname},
		{storage.ProfileDniKey, &profile.DNI},
		{storage.ProfileEmailKey, &profile.Email},
		{storage.ProfilePhotoKey, &profile.ProfilePhoto},
	}
	for _, r := range reads {
		value, ok, err := c.kv.Get(ctx, r.key)
		if err != nil {
			return Profile{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read profile")
		}
		if ok {
			*r.dest = value
		}
	}
	return profile, nil
}

// activate loads the cart for the identity's namespace and, only once the
// load completed, records the identity. Callers hold the lock.
func (c *Coordinator) activate(ctx context.Context, resolved *identity.Identity) error {
	token := ""
	if resolved != nil {
		token = resolved.Token
	}
	key := storage.CartKey(token)

	if err := c.cart.Load(ctx, key); err != nil {
		return err
	}

	c.current = resolved
	c.metrics.IncNamespaceSwap()
	c.log.Info(c.log.WithNamespace(ctx, key), "cart namespace activated")
	return nil
}

// purge removes the credential and every cached profile field in a single
// backend call so no partial identity state survives. Callers hold the lock.
func (c *Coordinator) purge(ctx context.Context) error {
	if err := c.kv.Del(ctx, storage.SessionKeys()...); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStoreWrite, err, "purge session state")
	}
	return nil
}

func (c *Coordinator) namespaceLocked() string {
	if c.current == nil {
		return storage.GuestCartKey
	}
	return storage.CartKey(c.current.Token)
}
