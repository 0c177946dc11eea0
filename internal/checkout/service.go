package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/artisanmarket/storefront/internal/domain"
	"github.com/artisanmarket/storefront/internal/events"
	"github.com/artisanmarket/storefront/internal/orders"
	"github.com/artisanmarket/storefront/internal/payment"
	"github.com/google/uuid"
)

// CartAccess is the slice of the cart service checkout needs.
type CartAccess interface {
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

// Confirmation is the payload handed to the order-success view.
type Confirmation struct {
	OrderNumber string  `json:"order_number"`
	Total       float64 `json:"total"`
	Email       string  `json:"email"`
}

type Service struct {
	store     SessionStore
	cart      CartAccess
	orders    orders.OrderRepository
	processor payment.Processor
	publisher events.OrderPublisher
}

func NewService(
	store SessionStore,
	cart CartAccess,
	orderRepo orders.OrderRepository,
	processor payment.Processor,
	publisher events.OrderPublisher,
) *Service {
	return &Service{
		store:     store,
		cart:      cart,
		orders:    orderRepo,
		processor: processor,
		publisher: publisher,
	}
}

// Start opens a checkout session for the cart owner. An empty cart is
// rejected; the cart and its totals are snapshotted into the session.
func (s *Service) Start(ctx context.Context, cartOwner string) (*Session, error) {
	cart, err := s.cart.Get(ctx, cartOwner)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	now := time.Now()
	session := &Session{
		ID:        uuid.New().String(),
		CartOwner: cartOwner,
		Step:      domain.StepShipping,
		Status:    domain.CheckoutStatusInProgress,
		Form: domain.CheckoutForm{
			Country: "United States",
			Method:  domain.PaymentMethodCard,
		},
		Errors:    domain.FieldErrors{},
		Cart:      cart,
		Totals:    domain.ComputeTotals(cart.Subtotal()),
		CreatedAt: now,
	}

	if err := s.store.Put(session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *Service) Get(id string) (*Session, error) {
	return s.store.Get(id)
}

// UpdateForm merges field edits into the session form. Editing a field
// clears its existing validation error right away, without re-running
// the full step validation.
func (s *Service) UpdateForm(id string, patch FormPatch) (*Session, error) {
	session, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	if session.Status != domain.CheckoutStatusInProgress {
		return nil, ErrIllegalTransition
	}

	touched := patch.apply(&session.Form)
	for _, field := range touched {
		delete(session.Errors, field)
	}

	if err := s.store.Put(session); err != nil {
		return nil, err
	}
	return session, nil
}

// Next validates the current step and advances when it passes. The
// validation result lands on the session either way.
func (s *Service) Next(id string) (*Session, error) {
	session, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	if session.Status != domain.CheckoutStatusInProgress {
		return nil, ErrIllegalTransition
	}

	session.Errors = session.Form.ValidateStep(session.Step)
	if session.Errors.Empty() && session.Step < domain.StepReview {
		session.Step++
	}

	if err := s.store.Put(session); err != nil {
		return nil, err
	}
	return session, nil
}

// Back moves one step toward shipping. It is unconditional: no
// validation gates backwards navigation.
func (s *Service) Back(id string) (*Session, error) {
	session, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	if session.Status != domain.CheckoutStatusInProgress {
		return nil, ErrIllegalTransition
	}

	if session.Step > domain.StepShipping {
		session.Step--
	}

	if err := s.store.Put(session); err != nil {
		return nil, err
	}
	return session, nil
}

// Submit runs final validation and, when it passes, charges the
// simulated gateway, persists the order, publishes the completion event,
// clears the cart and retires the session. Validation failures come back
// as field errors, not as an error return.
func (s *Service) Submit(ctx context.Context, id string) (*Confirmation, domain.FieldErrors, error) {
	session, err := s.store.Get(id)
	if err != nil {
		return nil, nil, err
	}

	if !domain.CanTransitionTo(session.Status, domain.CheckoutStatusProcessing) {
		// A second submit while the first is processing is rejected
		return nil, nil, ErrCheckoutInProgress
	}

	// Shipping must still be valid; payment fields depend on the method
	if errs := session.Form.ValidateShipping(); !errs.Empty() {
		session.Errors = errs
		s.saveBestEffort(session)
		return nil, errs, nil
	}
	if errs := session.Form.ValidatePayment(); !errs.Empty() {
		session.Errors = errs
		s.saveBestEffort(session)
		return nil, errs, nil
	}

	// Claim the session before anything touches money. The
	// compare-and-set runs against the stored session, not our copy,
	// so of two concurrent submits exactly one gets past this line.
	if err := s.store.TransitionStatus(id, domain.CheckoutStatusInProgress, domain.CheckoutStatusProcessing); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, nil, err
		}
		return nil, nil, ErrCheckoutInProgress
	}
	session.Status = domain.CheckoutStatusProcessing

	// Totals come from the live cart so the submitted amount matches
	// what the cart page showed
	cart, err := s.cart.Get(ctx, session.CartOwner)
	if err != nil {
		s.releaseClaim(session)
		return nil, nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if cart.IsEmpty() {
		s.releaseClaim(session)
		return nil, nil, ErrEmptyCart
	}
	totals := domain.ComputeTotals(cart.Subtotal())

	session.Cart = cart
	session.Totals = totals
	s.saveBestEffort(session)

	order := buildOrder(session, cart, totals)

	if _, err := s.processor.Charge(ctx, payment.ChargeRequest{
		OrderNumber: order.OrderNumber,
		Method:      session.Form.Method,
		Amount:      totals.Total,
	}); err != nil {
		// The simulated gateway cannot refuse, but the breaker or a
		// cancelled context still can surface here
		s.releaseClaim(session)
		return nil, nil, fmt.Errorf("payment failed: %w", err)
	}
	order.Status = domain.OrderStatusPaid

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		s.releaseClaim(session)
		return nil, nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.publisher.PublishOrderCompleted(ctx, order)

	if err := s.cart.Clear(ctx, session.CartOwner); err != nil {
		// The order exists; an uncleared cart is an annoyance, not a failure
		log.Printf("failed to clear cart for %v: %v", session.CartOwner, err)
	}

	if err := s.store.Delete(session.ID); err != nil {
		log.Printf("failed to delete checkout session %v: %v", session.ID, err)
	}

	return &Confirmation{
		OrderNumber: order.OrderNumber,
		Total:       totals.Total,
		Email:       session.Form.Email,
	}, nil, nil
}

// releaseClaim hands a claimed session back to the buyer so the submit
// can be retried.
func (s *Service) releaseClaim(session *Session) {
	session.Status = domain.CheckoutStatusInProgress
	s.saveBestEffort(session)
}

func buildOrder(session *Session, cart *domain.Cart, totals domain.OrderTotals) *domain.Order {
	items := make([]domain.OrderItem, len(cart.Items))
	for i, line := range cart.Items {
		items[i] = domain.OrderItem{
			ProductID: line.ProductID,
			Title:     line.Title,
			Quantity:  line.Quantity,
			Price:     line.Price,
			Total:     domain.RoundCents(line.Price * float64(line.Quantity)),
		}
	}

	f := session.Form
	address := fmt.Sprintf("%s %s, %s, %s, %s %s, %s",
		f.FirstName, f.LastName, f.Address, f.City, f.State, f.ZipCode, f.Country)

	return &domain.Order{
		ID:              uuid.New(),
		OrderNumber:     domain.NewOrderNumber(),
		SessionID:       session.CartOwner,
		Email:           f.Email,
		Status:          domain.OrderStatusPending,
		PaymentMethod:   f.Method,
		Totals:          totals,
		ShippingAddress: address,
		Items:           items,
	}
}

func (s *Service) saveBestEffort(session *Session) {
	if err := s.store.Put(session); err != nil {
		log.Printf("failed to save checkout session %v: %v", session.ID, err)
	}
}
