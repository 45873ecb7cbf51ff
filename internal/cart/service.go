package cart

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/prabscode/farmbasket-storefront/internal/session"
)

// ErrUnauthenticated is returned when a cart mutation needs an identity and
// the profile has none.
var ErrUnauthenticated = errors.New("no user identity")

// DefaultQuantity applies to ad-hoc adds; the checkout address step enforces
// its own minimum separately.
const DefaultQuantity = 1

// Service keeps the ordered cart consistent with the session store: every
// mutation re-reads, mutates and rewrites the serialized list.
type Service struct {
	store session.Store
}

func NewService(store session.Store) *Service {
	return &Service{store: store}
}

// Items loads the cart. A missing or corrupt stored value yields an empty
// cart rather than an error.
func (s *Service) Items(ctx context.Context) []Entry {
	raw, ok, err := s.store.Get(ctx, session.KeyCart)
	if err != nil || !ok {
		return nil
	}
	var items []Entry
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil
	}
	return items
}

// Add appends a purchase intent. It fails with ErrUnauthenticated when no
// identity is stored, and is a silent no-op when an entry with the same
// product/bundle id is already present.
func (s *Service) Add(ctx context.Context, entry Entry) error {
	identity := session.Identity(ctx, s.store)
	if identity == "" {
		return ErrUnauthenticated
	}

	items := s.Items(ctx)
	for _, existing := range items {
		if existing.Key() == entry.Key() {
			return nil
		}
	}

	entry.UserID = identity
	if entry.Quantity < 1 {
		entry.Quantity = DefaultQuantity
	}
	return s.save(ctx, append(items, entry))
}

// Remove drops the entry whose product/bundle id matches; no-op if absent.
func (s *Service) Remove(ctx context.Context, id string) error {
	items := s.Items(ctx)
	kept := make([]Entry, 0, len(items))
	for _, entry := range items {
		if entry.Key() != id {
			kept = append(kept, entry)
		}
	}
	if len(kept) == len(items) {
		return nil
	}
	return s.save(ctx, kept)
}

// UpdateQuantity sets the quantity at the given position. Quantities below
// one are rejected as a no-op; out-of-range positions are ignored.
func (s *Service) UpdateQuantity(ctx context.Context, index, quantity int) error {
	if quantity < 1 {
		return nil
	}
	items := s.Items(ctx)
	if index < 0 || index >= len(items) {
		return nil
	}
	items[index].Quantity = quantity
	return s.save(ctx, items)
}

// Total is the sum of price times quantity over the cart. The shipping
// surcharge is added downstream at presentation time, not here.
func (s *Service) Total(ctx context.Context) float64 {
	var total float64
	for _, entry := range s.Items(ctx) {
		qty := entry.Quantity
		if qty < 1 {
			qty = 1
		}
		total += entry.Price * float64(qty)
	}
	return total
}

// Clear empties the cart, both in memory and persisted.
func (s *Service) Clear(ctx context.Context) error {
	return s.store.Delete(ctx, session.KeyCart)
}

// SetQuantities rewrites every entry's quantity in one persisted pass; used
// by the checkout address step to apply its minimum.
func (s *Service) SetQuantities(ctx context.Context, adjust func(Entry) int) error {
	items := s.Items(ctx)
	if len(items) == 0 {
		return nil
	}
	for i, entry := range items {
		if q := adjust(entry); q >= 1 {
			items[i].Quantity = q
		}
	}
	return s.save(ctx, items)
}

func (s *Service) save(ctx context.Context, items []Entry) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, session.KeyCart, string(raw))
}
