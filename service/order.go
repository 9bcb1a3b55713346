package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zain100000/bookheaven-backend/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Business errors exported for the handlers to translate into responses.
var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrBookNotFound       = errors.New("book not found")
	ErrEmptyOrder         = errors.New("order must contain at least one item")
	ErrInvalidQuantity    = errors.New("item quantity must be at least 1")
	ErrTotalMismatch      = errors.New("total amount does not match current prices")
	ErrInvalidStatus      = errors.New("invalid order status")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrFinalState         = errors.New("order is in a final state")
	ErrTransitionConflict = errors.New("order status changed concurrently, retry with fresh state")
	ErrNotCancellable     = errors.New("order can no longer be cancelled")
	ErrInvalidPayment     = errors.New("invalid payment status")
	ErrForbidden          = errors.New("forbidden")
)

// OrderRepository is implemented by store.DB.
type OrderRepository interface {
	InsertOrder(ctx context.Context, order *models.Order) (primitive.ObjectID, error)
	OrderByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	AllOrders(ctx context.Context) ([]models.Order, error)
	OrdersByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, id primitive.ObjectID, from, to models.OrderStatus, record models.StatusRecord) (bool, error)
	UpdateOrderPayment(ctx context.Context, id primitive.ObjectID, payment models.PaymentStatus) (bool, error)
	DeleteOrder(ctx context.Context, id primitive.ObjectID) error
}

// OrderUserStore maintains the status mirror inside the user document.
type OrderUserStore interface {
	AppendOrderSummary(ctx context.Context, userID primitive.ObjectID, entry models.OrderSummary) error
	SetOrderSummaryStatus(ctx context.Context, userID, orderID primitive.ObjectID, status models.OrderStatus) error
	PullOrderSummary(ctx context.Context, userID, orderID primitive.ObjectID) error
}

// CatalogReader resolves order items against the current catalog.
type CatalogReader interface {
	BookByID(ctx context.Context, id primitive.ObjectID) (*models.Book, error)
}

type OrderService struct {
	orders  OrderRepository
	users   OrderUserStore
	catalog CatalogReader
}

func NewOrderService(orders OrderRepository, users OrderUserStore, catalog CatalogReader) *OrderService {
	return &OrderService{orders: orders, users: users, catalog: catalog}
}

// finalStates admit no further transitions.
var finalStates = map[models.OrderStatus]bool{
	models.StatusCompleted: true,
	models.StatusCancelled: true,
	models.StatusRefunded:  true,
}

// guardedTransitions maps a target status to the only current status it may
// be reached from. Targets not listed are reachable from any non-final state.
var guardedTransitions = map[models.OrderStatus]models.OrderStatus{
	models.StatusReadyForPickup: models.StatusPreparing,
	models.StatusPickedUp:       models.StatusReadyForPickup,
	models.StatusCompleted:      models.StatusPickedUp,
}

// cancellableStates is where the purchaser may still cancel; once the order
// is ready for pickup it is treated as dispatched.
var cancellableStates = map[models.OrderStatus]bool{
	models.StatusOrderReceived:    true,
	models.StatusPaymentConfirmed: true,
	models.StatusPreparing:        true,
}

func isValidStatus(s models.OrderStatus) bool {
	for _, v := range models.OrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// PlaceOrderInput is the validated request body for order placement.
type PlaceOrderInput struct {
	Items           []PlaceOrderItem
	ShippingAddress string
	ShippingFee     float64
	PaymentMethod   string
	TotalAmount     float64
}

type PlaceOrderItem struct {
	BookID   primitive.ObjectID
	Quantity int
}

// Place validates the order against current catalog prices and creates it.
// The client-declared total must equal the server-side subtotal plus the
// shipping fee exactly; anything else is rejected before any write.
func (s *OrderService) Place(ctx context.Context, userID primitive.ObjectID, in PlaceOrderInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	var subtotal float64
	items := make([]models.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		if it.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
		book, err := s.catalog.BookByID(ctx, it.BookID)
		if err != nil {
			return nil, err
		}
		if book == nil {
			return nil, fmt.Errorf("%w: %s", ErrBookNotFound, it.BookID.Hex())
		}
		subtotal += book.Price * float64(it.Quantity)
		items = append(items, models.OrderItem{
			BookID:   it.BookID,
			Quantity: it.Quantity,
			Price:    book.Price,
		})
	}
	if subtotal+in.ShippingFee != in.TotalAmount {
		return nil, ErrTotalMismatch
	}

	payment := models.PaymentUnpaid
	if in.PaymentMethod == models.PaymentMethodCOD {
		payment = models.PaymentPending
	}

	now := time.Now().UTC()
	order := &models.Order{
		UserID:          userID,
		Items:           items,
		ShippingAddress: in.ShippingAddress,
		ShippingFee:     in.ShippingFee,
		PaymentMethod:   in.PaymentMethod,
		TotalAmount:     in.TotalAmount,
		Status:          models.StatusOrderReceived,
		Payment:         payment,
		StatusHistory: []models.StatusRecord{
			{Status: models.StatusOrderReceived, ChangedAt: now, ChangedBy: userID},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	id, err := s.orders.InsertOrder(ctx, order)
	if err != nil {
		return nil, err
	}
	order.ID = id

	// Mirror write; not transactional with the insert.
	err = s.users.AppendOrderSummary(ctx, userID, models.OrderSummary{
		OrderID:  id,
		Status:   models.StatusOrderReceived,
		PlacedAt: now,
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	order, err := s.orders.OrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *OrderService) GetAll(ctx context.Context) ([]models.Order, error) {
	return s.orders.AllOrders(ctx)
}

func (s *OrderService) GetByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return s.orders.OrdersByUser(ctx, userID)
}

// UpdateStatus performs an admin status transition. The guard is evaluated
// against the order's current status, and the write itself is conditional on
// that status so a concurrent transition surfaces as a conflict instead of a
// silent lost update.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID primitive.ObjectID, target models.OrderStatus, actorID primitive.ObjectID) (*models.Order, error) {
	if !isValidStatus(target) {
		return nil, ErrInvalidStatus
	}
	order, err := s.orders.OrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if finalStates[order.Status] {
		return nil, ErrFinalState
	}
	if order.Status == target {
		return nil, ErrInvalidTransition
	}
	if required, guarded := guardedTransitions[target]; guarded && order.Status != required {
		return nil, ErrInvalidTransition
	}

	record := models.StatusRecord{
		Status:    target,
		ChangedAt: time.Now().UTC(),
		ChangedBy: actorID,
	}
	ok, err := s.orders.UpdateOrderStatus(ctx, orderID, order.Status, target, record)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrTransitionConflict
	}
	if err := s.users.SetOrderSummaryStatus(ctx, order.UserID, orderID, target); err != nil {
		return nil, err
	}

	order.Status = target
	order.StatusHistory = append(order.StatusHistory, record)
	return order, nil
}

// Cancel is invoked by the purchaser. Allowed only before the order is
// ready for pickup.
func (s *OrderService) Cancel(ctx context.Context, orderID, callerID primitive.ObjectID) (*models.Order, error) {
	order, err := s.orders.OrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.UserID != callerID {
		return nil, ErrForbidden
	}
	if !cancellableStates[order.Status] {
		return nil, ErrNotCancellable
	}

	record := models.StatusRecord{
		Status:    models.StatusCancelled,
		ChangedAt: time.Now().UTC(),
		ChangedBy: callerID,
	}
	ok, err := s.orders.UpdateOrderStatus(ctx, orderID, order.Status, models.StatusCancelled, record)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrTransitionConflict
	}
	if err := s.users.SetOrderSummaryStatus(ctx, order.UserID, orderID, models.StatusCancelled); err != nil {
		return nil, err
	}

	order.Status = models.StatusCancelled
	order.StatusHistory = append(order.StatusHistory, record)
	return order, nil
}

// UpdatePayment sets the payment status. Only PENDING and PAID are accepted;
// there is no guard against the order's lifecycle status.
func (s *OrderService) UpdatePayment(ctx context.Context, orderID primitive.ObjectID, payment models.PaymentStatus) error {
	if payment != models.PaymentPending && payment != models.PaymentPaid {
		return ErrInvalidPayment
	}
	ok, err := s.orders.UpdateOrderPayment(ctx, orderID, payment)
	if err != nil {
		return err
	}
	if !ok {
		return ErrOrderNotFound
	}
	return nil
}

// Delete removes the order and its mirror entry. No state restriction:
// deletion is an administrative correction, not a lifecycle event.
func (s *OrderService) Delete(ctx context.Context, orderID primitive.ObjectID) error {
	order, err := s.orders.OrderByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrOrderNotFound
	}
	if err := s.orders.DeleteOrder(ctx, orderID); err != nil {
		return err
	}
	return s.users.PullOrderSummary(ctx, order.UserID, orderID)
}
