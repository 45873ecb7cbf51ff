package checkout

import (
	"context"
	"sync"

	"github.com/prabscode/farmbasket-storefront/internal/api"
	"github.com/prabscode/farmbasket-storefront/internal/cart"
	"github.com/prabscode/farmbasket-storefront/internal/session"
)

// Sequencer is the checkout state machine. Transitions only move forward on
// success; back-transitions happen by explicit user action. Any failure
// leaves the current step and the cart untouched.
type Sequencer struct {
	mu      sync.Mutex
	step    Step
	details Details
	orderID string

	cart   *cart.Service
	client *api.Client
	store  session.Store
}

func NewSequencer(cartService *cart.Service, client *api.Client, store session.Store) *Sequencer {
	return &Sequencer{
		step:   StepAddress,
		cart:   cartService,
		client: client,
		store:  store,
	}
}

func (s *Sequencer) Step() Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

func (s *Sequencer) Details() Details {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.details
}

// OrderID is set once the order API confirms.
func (s *Sequencer) OrderID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orderID
}

// SubmitAddress validates the form and advances address → review. It also
// raises any entry quantity below the per-entry minimum, matching the
// quantity presets the address step offers.
func (s *Sequencer) SubmitAddress(ctx context.Context, details Details) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.step != StepAddress {
		return ErrInvalidTransition
	}
	if errs := details.Validate(); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}

	if err := s.cart.SetQuantities(ctx, func(e cart.Entry) int {
		if e.Quantity < MinOrderQuantity {
			return MinOrderQuantity
		}
		return e.Quantity
	}); err != nil {
		return err
	}

	s.details = details
	s.step = StepReview
	return nil
}

// Back steps review → address or confirmation → review.
func (s *Sequencer) Back() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.step {
	case StepReview:
		s.step = StepAddress
	case StepConfirmation:
		s.step = StepReview
	default:
		return ErrInvalidTransition
	}
	return nil
}

// PlaceOrder submits the order and advances review → confirmation. The cart
// is cleared only after the order API confirms; an unauthenticated profile
// or an upstream failure leaves both the step and the cart unchanged.
func (s *Sequencer) PlaceOrder(ctx context.Context) (api.OrderConfirmation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.step != StepReview {
		return api.OrderConfirmation{}, ErrInvalidTransition
	}

	identity := session.Identity(ctx, s.store)
	if identity == "" {
		return api.OrderConfirmation{}, ErrUnauthenticated
	}

	items := s.cart.Items(ctx)
	if len(items) == 0 {
		return api.OrderConfirmation{}, ErrEmptyCart
	}

	order := api.OrderRequest{
		UserID:          identity,
		Products:        orderProducts(items),
		ShippingDetails: api.ShippingDetails(s.details),
		TotalAmount:     s.cart.Total(ctx),
	}

	conf, err := s.client.CreateOrder(ctx, order)
	if err != nil {
		return api.OrderConfirmation{}, err
	}

	if err := s.cart.Clear(ctx); err != nil {
		return conf, err
	}
	s.orderID = conf.EffectiveID()
	s.step = StepConfirmation
	return conf, nil
}

// GrandTotal adds the flat shipping surcharge to the cart total; this is
// the presentation-time figure, not part of the cart's own total.
func (s *Sequencer) GrandTotal(ctx context.Context) float64 {
	return s.cart.Total(ctx) + ShippingPrice
}

func orderProducts(items []cart.Entry) []api.OrderProduct {
	products := make([]api.OrderProduct, 0, len(items))
	for _, e := range items {
		products = append(products, api.OrderProduct{
			ProductID:  e.Key(),
			FarmerID:   e.FarmerID,
			Name:       e.Name,
			Price:      e.Price,
			Image:      e.Image,
			Category:   e.Category,
			Quantity:   e.Quantity,
			FarmerName: e.FarmerName,
		})
	}
	return products
}
