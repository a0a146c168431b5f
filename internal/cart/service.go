package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/cartcore/internal/catalog"
	pkgerrors "github.com/angelmondragon/cartcore/pkg/errors"
	"github.com/angelmondragon/cartcore/pkg/logger"
	"github.com/angelmondragon/cartcore/pkg/metrics"
)

// Store is the persistence surface the aggregate writes through after every
// mutation.
type Store interface {
	Read(ctx context.Context, key string) ([]LineItem, bool, error)
	Write(ctx context.Context, key string, items []LineItem) error
	Erase(ctx context.Context, key string) error
}

// Queries is the read-only surface consumed by UI collaborators.
type Queries interface {
	TotalItems() int
	TotalPrice() decimal.Decimal
	IsInCart(productID int64) bool
	ProductQuantity(productID int64) int
	Items() []LineItem
}

// Service owns the line items of the active namespace. Mutators persist
// immediately after updating in-memory state; a persistence failure is
// surfaced but the in-memory cart remains authoritative for the rest of the
// page lifetime.
type Service interface {
	Load(ctx context.Context, namespaceKey string) error
	AddItem(ctx context.Context, product catalog.Product, quantity int) error
	UpdateQuantity(ctx context.Context, lineItemID string, quantity int) error
	RemoveItem(ctx context.Context, lineItemID string) error
	Clear(ctx context.Context) error
	Namespace() string
	Queries
}

type service struct {
	mu      sync.Mutex
	store   Store
	log     *logger.Logger
	metrics *metrics.CartMetrics

	key   string
	items []LineItem
	ready bool

	newID func() string
}

// NewService builds a cart aggregate backed by the provided store. The
// metrics collaborator may be nil.
func NewService(store Store, log *logger.Logger, met *metrics.CartMetrics) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		store:   store,
		log:     log,
		metrics: met,
		newID:   uuid.NewString,
	}, nil
}

// Load reads the persisted cart for the namespace, or initializes an empty
// one, and makes it the active in-memory state. It must complete before any
// mutator for that namespace is accepted.
func (s *service) Load(ctx context.Context, namespaceKey string) error {
	if namespaceKey == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "namespace key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, ok, err := s.store.Read(ctx, namespaceKey)
	if err != nil {
		return err
	}
	if !ok {
		items = nil
	}

	s.key = namespaceKey
	s.items = items
	s.ready = true

	s.log.Debug(s.log.WithNamespace(ctx, namespaceKey), "cart loaded")
	return nil
}

func (s *service) AddItem(ctx context.Context, product catalog.Product, quantity int) error {
	if err := product.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureReady(); err != nil {
		return err
	}

	if quantity < 1 {
		quantity = 1
	}

	merged := false
	for i := range s.items {
		if s.items[i].ProductID == product.ID {
			s.items[i].Quantity = clampQuantity(s.items[i].Quantity+quantity, s.items[i].StockCap)
			merged = true
			break
		}
	}
	if !merged {
		s.items = append(s.items, newLineItem(s.newID(), product, quantity))
	}

	return s.persist(ctx, "add_item")
}

func (s *service) UpdateQuantity(ctx context.Context, lineItemID string, quantity int) error {
	if quantity < 1 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureReady(); err != nil {
		return err
	}

	changed := false
	for i := range s.items {
		if s.items[i].ID == lineItemID {
			s.items[i].Quantity = clampQuantity(quantity, s.items[i].StockCap)
			changed = true
			break
		}
	}
	if !changed {
		return nil
	}

	return s.persist(ctx, "update_quantity")
}

func (s *service) RemoveItem(ctx context.Context, lineItemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureReady(); err != nil {
		return err
	}

	kept := s.items[:0]
	removed := false
	for _, item := range s.items {
		if item.ID == lineItemID {
			removed = true
			continue
		}
		kept = append(kept, item)
	}
	if !removed {
		return nil
	}
	s.items = kept

	return s.persist(ctx, "remove_item")
}

// Clear empties the cart and erases the persisted namespace record. Unlike
// the other mutators it removes the key instead of writing an empty array.
func (s *service) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureReady(); err != nil {
		return err
	}

	s.items = nil

	if err := s.store.Erase(ctx, s.key); err != nil {
		s.metrics.IncPersistFailure("clear")
		s.log.Error(s.log.WithNamespace(ctx, s.key), "erasing cart", err)
		return err
	}
	s.metrics.IncMutation("clear")
	return nil
}

// Namespace returns the key of the currently loaded cart, empty before the
// first Load.
func (s *service) Namespace() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.key
}

func (s *service) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, item := range s.items {
		total += item.Quantity
	}
	return total
}

func (s *service) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, item := range s.items {
		total = total.Add(item.Subtotal())
	}
	return total
}

func (s *service) IsInCart(productID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}

func (s *service) ProductQuantity(productID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.items {
		if item.ProductID == productID {
			return item.Quantity
		}
	}
	return 0
}

func (s *service) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]LineItem, len(s.items))
	copy(items, s.items)
	return items
}

func (s *service) ensureReady() error {
	if !s.ready {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "cart not loaded for any namespace")
	}
	return nil
}

// persist writes the items under the active namespace. Callers hold the lock.
func (s *service) persist(ctx context.Context, op string) error {
	if err := s.store.Write(ctx, s.key, s.items); err != nil {
		s.metrics.IncPersistFailure(op)
		s.log.Error(s.log.WithNamespace(ctx, s.key), "persisting cart", err)
		return err
	}
	s.metrics.IncMutation(op)
	return nil
}
