package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zain100000/bookheaven-backend/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeOrderRepo struct {
	orders map[primitive.ObjectID]*models.Order

	// beforeUpdate runs between the service's read and its conditional
	// write, to simulate a concurrent transition.
	beforeUpdate func()
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[primitive.ObjectID]*models.Order{}}
}

func (f *fakeOrderRepo) InsertOrder(_ context.Context, order *models.Order) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	cp := *order
	cp.ID = id
	f.orders[id] = &cp
	return id, nil
}

func (f *fakeOrderRepo) OrderByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrderRepo) AllOrders(_ context.Context) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (f *fakeOrderRepo) OrdersByUser(_ context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) UpdateOrderStatus(_ context.Context, id primitive.ObjectID, from, to models.OrderStatus, record models.StatusRecord) (bool, error) {
	if f.beforeUpdate != nil {
		f.beforeUpdate()
		f.beforeUpdate = nil
	}
	o, ok := f.orders[id]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to
	o.StatusHistory = append(o.StatusHistory, record)
	return true, nil
}

func (f *fakeOrderRepo) UpdateOrderPayment(_ context.Context, id primitive.ObjectID, payment models.PaymentStatus) (bool, error) {
	o, ok := f.orders[id]
	if !ok {
		return false, nil
	}
	o.Payment = payment
	return true, nil
}

func (f *fakeOrderRepo) DeleteOrder(_ context.Context, id primitive.ObjectID) error {
	delete(f.orders, id)
	return nil
}

type fakeUserStore struct {
	summaries map[primitive.ObjectID][]models.OrderSummary
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{summaries: map[primitive.ObjectID][]models.OrderSummary{}}
}

func (f *fakeUserStore) AppendOrderSummary(_ context.Context, userID primitive.ObjectID, entry models.OrderSummary) error {
	f.summaries[userID] = append(f.summaries[userID], entry)
	return nil
}

func (f *fakeUserStore) SetOrderSummaryStatus(_ context.Context, userID, orderID primitive.ObjectID, status models.OrderStatus) error {
	for i := range f.summaries[userID] {
		if f.summaries[userID][i].OrderID == orderID {
			f.summaries[userID][i].Status = status
		}
	}
	return nil
}

func (f *fakeUserStore) PullOrderSummary(_ context.Context, userID, orderID primitive.ObjectID) error {
	var kept []models.OrderSummary
	for _, s := range f.summaries[userID] {
		if s.OrderID != orderID {
			kept = append(kept, s)
		}
	}
	f.summaries[userID] = kept
	return nil
}

type fakeCatalog struct {
	books map[primitive.ObjectID]*models.Book
}

func (f *fakeCatalog) BookByID(_ context.Context, id primitive.ObjectID) (*models.Book, error) {
	return f.books[id], nil
}

func newOrderFixture() (*OrderService, *fakeOrderRepo, *fakeUserStore, *fakeCatalog) {
	repo := newFakeOrderRepo()
	users := newFakeUserStore()
	catalog := &fakeCatalog{books: map[primitive.ObjectID]*models.Book{}}
	return NewOrderService(repo, users, catalog), repo, users, catalog
}

func addBook(catalog *fakeCatalog, price float64) primitive.ObjectID {
	id := primitive.NewObjectID()
	catalog.books[id] = &models.Book{ID: id, Title: "t", Author: "a", Price: price}
	return id
}

func TestPlaceOrder(t *testing.T) {
	ctx := context.Background()
	svc, _, users, catalog := newOrderFixture()
	userID := primitive.NewObjectID()
	bookID := addBook(catalog, 100)

	order, err := svc.Place(ctx, userID, PlaceOrderInput{
		Items:         []PlaceOrderItem{{BookID: bookID, Quantity: 2}},
		ShippingFee:   50,
		PaymentMethod: "CARD",
		TotalAmount:   250,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusOrderReceived, order.Status)
	assert.Equal(t, models.PaymentUnpaid, order.Payment)
	assert.Equal(t, 100.0, order.Items[0].Price)
	require.Len(t, order.StatusHistory, 1)
	assert.Equal(t, models.StatusOrderReceived, order.StatusHistory[0].Status)
	assert.Equal(t, userID, order.StatusHistory[0].ChangedBy)

	require.Len(t, users.summaries[userID], 1)
	assert.Equal(t, order.ID, users.summaries[userID][0].OrderID)
	assert.Equal(t, models.StatusOrderReceived, users.summaries[userID][0].Status)
}

func TestPlaceOrderCOD(t *testing.T) {
	ctx := context.Background()
	svc, _, _, catalog := newOrderFixture()
	bookID := addBook(catalog, 100)

	order, err := svc.Place(ctx, primitive.NewObjectID(), PlaceOrderInput{
		Items:         []PlaceOrderItem{{BookID: bookID, Quantity: 2}},
		ShippingFee:   50,
		PaymentMethod: models.PaymentMethodCOD,
		TotalAmount:   250,
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, order.Payment)
}

func TestPlaceOrderTamperedTotal(t *testing.T) {
	ctx := context.Background()
	svc, repo, _, catalog := newOrderFixture()
	bookID := addBook(catalog, 100)

	_, err := svc.Place(ctx, primitive.NewObjectID(), PlaceOrderInput{
		Items:       []PlaceOrderItem{{BookID: bookID, Quantity: 2}},
		ShippingFee: 50,
		TotalAmount: 200, // server computes 250
	})
	assert.ErrorIs(t, err, ErrTotalMismatch)
	assert.Empty(t, repo.orders)
}

func TestPlaceOrderValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, _, catalog := newOrderFixture()
	bookID := addBook(catalog, 10)

	_, err := svc.Place(ctx, primitive.NewObjectID(), PlaceOrderInput{})
	assert.ErrorIs(t, err, ErrEmptyOrder)

	_, err = svc.Place(ctx, primitive.NewObjectID(), PlaceOrderInput{
		Items: []PlaceOrderItem{{BookID: bookID, Quantity: 0}},
	})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	missing := primitive.NewObjectID()
	_, err = svc.Place(ctx, primitive.NewObjectID(), PlaceOrderInput{
		Items:       []PlaceOrderItem{{BookID: missing, Quantity: 1}},
		TotalAmount: 10,
	})
	assert.ErrorIs(t, err, ErrBookNotFound)
	assert.Contains(t, err.Error(), missing.Hex())
}

func placedOrder(t *testing.T, svc *OrderService, catalog *fakeCatalog, userID primitive.ObjectID) *models.Order {
	t.Helper()
	bookID := addBook(catalog, 10)
	order, err := svc.Place(context.Background(), userID, PlaceOrderInput{
		Items:       []PlaceOrderItem{{BookID: bookID, Quantity: 1}},
		TotalAmount: 10,
	})
	require.NoError(t, err)
	return order
}

func TestUpdateStatusGuardedTransitions(t *testing.T) {
	ctx := context.Background()
	admin := primitive.NewObjectID()

	cases := []struct {
		target  models.OrderStatus
		allowed models.OrderStatus
	}{
		{models.StatusReadyForPickup, models.StatusPreparing},
		{models.StatusPickedUp, models.StatusReadyForPickup},
		{models.StatusCompleted, models.StatusPickedUp},
	}
	for _, tc := range cases {
		t.Run(string(tc.target), func(t *testing.T) {
			svc, repo, _, catalog := newOrderFixture()
			order := placedOrder(t, svc, catalog, primitive.NewObjectID())

			// From ORDER_RECEIVED every guarded target must be rejected
			// without mutation.
			_, err := svc.UpdateStatus(ctx, order.ID, tc.target, admin)
			assert.ErrorIs(t, err, ErrInvalidTransition)
			assert.Equal(t, models.StatusOrderReceived, repo.orders[order.ID].Status)

			// From the required predecessor it must succeed.
			repo.orders[order.ID].Status = tc.allowed
			updated, err := svc.UpdateStatus(ctx, order.ID, tc.target, admin)
			require.NoError(t, err)
			assert.Equal(t, tc.target, updated.Status)
		})
	}
}

func TestUpdateStatusFullLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, _, users, catalog := newOrderFixture()
	admin := primitive.NewObjectID()
	userID := primitive.NewObjectID()
	order := placedOrder(t, svc, catalog, userID)

	steps := []models.OrderStatus{
		models.StatusPaymentConfirmed,
		models.StatusPreparing,
		models.StatusReadyForPickup,
		models.StatusPickedUp,
		models.StatusCompleted,
	}
	for _, step := range steps {
		updated, err := svc.UpdateStatus(ctx, order.ID, step, admin)
		require.NoError(t, err)
		assert.Equal(t, step, updated.Status)
		assert.Equal(t, step, users.summaries[userID][0].Status, "mirror must follow the order status")
	}

	updated, err := svc.GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, updated.StatusHistory, 6)
	assert.Equal(t, models.StatusOrderReceived, updated.StatusHistory[0].Status)
	for i, step := range steps {
		assert.Equal(t, step, updated.StatusHistory[i+1].Status)
		assert.Equal(t, admin, updated.StatusHistory[i+1].ChangedBy)
	}
}

func TestFinalStatesAreTerminal(t *testing.T) {
	ctx := context.Background()
	admin := primitive.NewObjectID()
	for _, final := range []models.OrderStatus{models.StatusCompleted, models.StatusCancelled, models.StatusRefunded} {
		t.Run(string(final), func(t *testing.T) {
			svc, repo, _, catalog := newOrderFixture()
			order := placedOrder(t, svc, catalog, primitive.NewObjectID())
			repo.orders[order.ID].Status = final

			for _, target := range models.OrderStatuses {
				if target == final {
					continue
				}
				_, err := svc.UpdateStatus(ctx, order.ID, target, admin)
				assert.ErrorIs(t, err, ErrFinalState, fmt.Sprintf("%s -> %s", final, target))
				assert.Equal(t, final, repo.orders[order.ID].Status)
			}
		})
	}
}

func TestUpdateStatusInvalidInput(t *testing.T) {
	ctx := context.Background()
	svc, _, _, catalog := newOrderFixture()
	admin := primitive.NewObjectID()
	order := placedOrder(t, svc, catalog, primitive.NewObjectID())

	_, err := svc.UpdateStatus(ctx, order.ID, "SHIPPED", admin)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = svc.UpdateStatus(ctx, primitive.NewObjectID(), models.StatusPreparing, admin)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestUpdateStatusConcurrentConflict(t *testing.T) {
	ctx := context.Background()
	svc, repo, _, catalog := newOrderFixture()
	admin := primitive.NewObjectID()
	order := placedOrder(t, svc, catalog, primitive.NewObjectID())

	// Another transition lands between the read and the conditional write.
	repo.beforeUpdate = func() {
		repo.orders[order.ID].Status = models.StatusPaymentConfirmed
	}
	_, err := svc.UpdateStatus(ctx, order.ID, models.StatusPreparing, admin)
	assert.ErrorIs(t, err, ErrTransitionConflict)
}

func TestCancelOrder(t *testing.T) {
	ctx := context.Background()
	svc, repo, users, catalog := newOrderFixture()
	userID := primitive.NewObjectID()
	order := placedOrder(t, svc, catalog, userID)

	_, err := svc.Cancel(ctx, order.ID, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrForbidden)

	cancelled, err := svc.Cancel(ctx, order.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)
	assert.Equal(t, models.StatusCancelled, users.summaries[userID][0].Status)

	// Already cancelled: final.
	_, err = svc.Cancel(ctx, order.ID, userID)
	assert.ErrorIs(t, err, ErrNotCancellable)

	// Dispatched orders cannot be cancelled.
	order2 := placedOrder(t, svc, catalog, userID)
	repo.orders[order2.ID].Status = models.StatusReadyForPickup
	_, err = svc.Cancel(ctx, order2.ID, userID)
	assert.ErrorIs(t, err, ErrNotCancellable)
}

func TestUpdatePayment(t *testing.T) {
	ctx := context.Background()
	svc, repo, _, catalog := newOrderFixture()
	order := placedOrder(t, svc, catalog, primitive.NewObjectID())

	require.NoError(t, svc.UpdatePayment(ctx, order.ID, models.PaymentPaid))
	assert.Equal(t, models.PaymentPaid, repo.orders[order.ID].Payment)

	assert.ErrorIs(t, svc.UpdatePayment(ctx, order.ID, "UNPAID"), ErrInvalidPayment)
	assert.ErrorIs(t, svc.UpdatePayment(ctx, order.ID, "REFUNDED"), ErrInvalidPayment)
	assert.ErrorIs(t, svc.UpdatePayment(ctx, primitive.NewObjectID(), models.PaymentPaid), ErrOrderNotFound)
}

func TestDeleteOrder(t *testing.T) {
	ctx := context.Background()
	svc, repo, users, catalog := newOrderFixture()
	userID := primitive.NewObjectID()
	order := placedOrder(t, svc, catalog, userID)

	require.NoError(t, svc.Delete(ctx, order.ID))
	assert.Empty(t, repo.orders)
	assert.Empty(t, users.summaries[userID])

	assert.ErrorIs(t, svc.Delete(ctx, order.ID), ErrOrderNotFound)
}
