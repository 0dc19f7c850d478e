package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ray-remotestate/fastfood/models"
	"github.com/ray-remotestate/fastfood/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRates = Rates{TaxRate: 0.08, DeliveryFee: 3.99}

func newTestOrderService(t *testing.T) (*OrderService, *memStore, *recordingNotifier) {
	t.Helper()
	store := newMemStore()
	notifier := &recordingNotifier{}
	svc := NewOrderService(store, notifier, testRates)
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }
	return svc, store, notifier
}

func deliveryInput(items ...LineRequest) CreateOrderInput {
	return CreateOrderInput{
		Items:           items,
		PaymentMethod:   models.PaymentCash,
		DeliveryType:    models.DeliveryTypeDelivery,
		DeliveryAddress: &models.DeliveryAddress{Street: "1 Main St", City: "Springfield"},
	}
}

func TestCreateOrderTotals(t *testing.T) {
	svc, store, notifier := newTestOrderService(t)
	burger := store.addMenu(models.MenuItem{Name: "Burger", Price: 10, IsAvailable: true})
	customer := models.Identity{ID: uuid.New(), Role: models.RoleCustomer}

	order, err := svc.Create(context.Background(), customer, deliveryInput(LineRequest{MenuItem: burger.ID, Quantity: 2}))
	require.NoError(t, err)

	assert.Equal(t, 20.0, order.Subtotal)
	assert.Equal(t, 1.6, order.Tax)
	assert.Equal(t, 3.99, order.DeliveryFee)
	assert.Equal(t, 0.0, order.Discount)
	assert.Equal(t, 25.59, order.Total)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, models.PaymentPending, order.PaymentStatus)
	assert.Equal(t, svc.now().Add(45*time.Minute), order.EstimatedDeliveryTime)
	require.Len(t, order.StatusHistory, 1)
	assert.Equal(t, customer.ID, order.StatusHistory[0].UpdatedBy)

	require.Len(t, notifier.events, 1)
	assert.Equal(t, StaffTopic, notifier.events[0].Topic)
	assert.Equal(t, EventNewOrder, notifier.events[0].Event)
}

func TestCreateOrderPickupHasNoFee(t *testing.T) {
	svc, store, _ := newTestOrderService(t)
	item := store.addMenu(models.MenuItem{Name: "Fries", Price: 4, IsAvailable: true})

	order, err := svc.Create(context.Background(), models.Identity{ID: uuid.New()}, CreateOrderInput{
		Items:           []LineRequest{{MenuItem: item.ID, Quantity: 1}},
		PaymentMethod:   models.PaymentStripe,
		DeliveryType:    models.DeliveryTypePickup,
		DeliveryAddress: &models.DeliveryAddress{Street: "ignored", City: "ignored"},
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, order.DeliveryFee)
	assert.Equal(t, 4.32, order.Total)
	assert.Nil(t, order.DeliveryAddress)
	assert.Equal(t, svc.now().Add(20*time.Minute), order.EstimatedDeliveryTime)
}

func TestCreateOrderUsesDiscountPriceAndCustomizations(t *testing.T) {
	svc, store, _ := newTestOrderService(t)
	discounted := 8.0
	pizza := store.addMenu(models.MenuItem{
		Name: "Pizza", Price: 12, DiscountPrice: &discounted, IsAvailable: true,
		CustomizationOptions: models.CustomizationOptions{
			{Name: "Size", Options: []models.CustomizationChoice{{Name: "Large", Price: 2.5}}},
		},
	})

	order, err := svc.Create(context.Background(), models.Identity{ID: uuid.New()}, deliveryInput(LineRequest{
		MenuItem: pizza.ID, Quantity: 2,
		Customizations: []models.SelectedCustomization{{Name: "Size", Option: "Large", ExtraPrice: 100}},
	}))
	require.NoError(t, err)
	assert.Equal(t, 21.0, order.Subtotal)
	assert.Equal(t, 8.0, order.Items[0].Price)
	assert.Equal(t, 2.5, order.Items[0].Customizations[0].ExtraPrice)
}

func TestCreateOrderRejects(t *testing.T) {
	svc, store, notifier := newTestOrderService(t)
	available := store.addMenu(models.MenuItem{Name: "Burger", Price: 10, IsAvailable: true})
	soldOut := store.addMenu(models.MenuItem{Name: "Shake", Price: 5})
	caller := models.Identity{ID: uuid.New()}

	tests := []struct {
		name   string
		input  CreateOrderInput
		status int
	}{
		{"no items", deliveryInput(), 400},
		{"unavailable item", deliveryInput(LineRequest{MenuItem: available.ID, Quantity: 1}, LineRequest{MenuItem: soldOut.ID, Quantity: 1}), 400},
		{"missing item", deliveryInput(LineRequest{MenuItem: uuid.New(), Quantity: 1}), 404},
		{"zero quantity", deliveryInput(LineRequest{MenuItem: available.ID}), 400},
		{"unknown customization", deliveryInput(LineRequest{MenuItem: available.ID, Quantity: 1,
			Customizations: []models.SelectedCustomization{{Name: "Size", Option: "Huge"}}}), 400},
		{"delivery without address", CreateOrderInput{Items: []LineRequest{{MenuItem: available.ID, Quantity: 1}},
			PaymentMethod: models.PaymentCash, DeliveryType: models.DeliveryTypeDelivery}, 400},
		{"bad payment method", CreateOrderInput{Items: []LineRequest{{MenuItem: available.ID, Quantity: 1}},
			PaymentMethod: "barter", DeliveryType: models.DeliveryTypePickup}, 400},
		{"discount above subtotal", func() CreateOrderInput {
			in := deliveryInput(LineRequest{MenuItem: available.ID, Quantity: 1})
			in.Discount = 50
			return in
		}(), 400},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), caller, tt.input)
			require.Error(t, err)
			assert.Equal(t, tt.status, utils.AsAppError(err).Status)
		})
	}
	assert.Empty(t, store.orders)
	assert.Empty(t, notifier.events)
}

func TestCreateOrderWithCoupon(t *testing.T) {
	svc, store, _ := newTestOrderService(t)
	item := store.addMenu(models.MenuItem{Name: "Burger", Price: 10, IsAvailable: true})
	limit := 1
	store.coupons["SAVE10"] = &models.Coupon{
		ID: uuid.New(), Code: "SAVE10", Type: models.CouponPercentage, Value: 10, IsActive: true,
		ValidFrom: svc.now().Add(-time.Hour), ValidUntil: svc.now().Add(time.Hour), UsageLimit: &limit,
	}
	caller := models.Identity{ID: uuid.New()}

	in := deliveryInput(LineRequest{MenuItem: item.ID, Quantity: 2})
	in.CouponCode = "SAVE10"
	in.Discount = 15
	order, err := svc.Create(context.Background(), caller, in)
	require.NoError(t, err)
	assert.Equal(t, 2.0, order.Discount)
	assert.Equal(t, "SAVE10", order.CouponCode)
	assert.Equal(t, 1, store.coupons["SAVE10"].UsedCount)

	_, err = svc.Create(context.Background(), caller, in)
	require.Error(t, err)
	assert.Equal(t, "Coupon usage limit reached", utils.AsAppError(err).Message)
}

func TestCanTransition(t *testing.T) {
	const (
		delivery = models.DeliveryTypeDelivery
		pickup   = models.DeliveryTypePickup
	)
	tests := []struct {
		kind     models.DeliveryType
		from, to models.OrderStatus
		ok       bool
	}{
		{delivery, models.StatusPending, models.StatusConfirmed, true},
		{delivery, models.StatusPending, models.StatusReady, true},
		{delivery, models.StatusPreparing, models.StatusCancelled, true},
		{delivery, models.StatusReady, models.StatusOutForDelivery, true},
		{delivery, models.StatusOutForDelivery, models.StatusDelivered, true},
		{pickup, models.StatusReady, models.StatusCompleted, true},
		{pickup, models.StatusPreparing, models.StatusCompleted, true},
		{delivery, models.StatusOutForDelivery, models.StatusCompleted, false},
		{delivery, models.StatusReady, models.StatusCompleted, false},
		{pickup, models.StatusReady, models.StatusOutForDelivery, false},
		{pickup, models.StatusReady, models.StatusDelivered, false},
		{delivery, models.StatusConfirmed, models.StatusPending, false},
		{delivery, models.StatusReady, models.StatusReady, false},
		{delivery, models.StatusDelivered, models.StatusCancelled, false},
		{pickup, models.StatusCancelled, models.StatusPending, false},
		{pickup, models.StatusCompleted, models.StatusDelivered, false},
	}
	for _, tt := range tests {
		err := CanTransition(tt.kind, tt.from, tt.to)
		if tt.ok {
			assert.NoError(t, err, "%s: %s -> %s", tt.kind, tt.from, tt.to)
		} else {
			assert.True(t, utils.IsKind(err, utils.KindBadRequest), "%s: %s -> %s", tt.kind, tt.from, tt.to)
		}
	}
}

func TestUpdateStatus(t *testing.T) {
	svc, store, notifier := newTestOrderService(t)
	item := store.addMenu(models.MenuItem{Name: "Burger", Price: 10, IsAvailable: true})
	customer := models.Identity{ID: uuid.New(), Role: models.RoleCustomer}
	staff := models.Identity{ID: uuid.New(), Role: models.RoleStaff}
	ctx := context.Background()

	order, err := svc.Create(ctx, customer, deliveryInput(LineRequest{MenuItem: item.ID, Quantity: 1}))
	require.NoError(t, err)
	notifier.events = nil

	steps := []models.OrderStatus{models.StatusConfirmed, models.StatusPreparing, models.StatusOutForDelivery}
	for _, s := range steps {
		updated, err := svc.UpdateStatus(ctx, staff, order.ID, s)
		require.NoError(t, err)
		assert.Nil(t, updated.ActualDeliveryTime)
	}

	delivered, err := svc.UpdateStatus(ctx, staff, order.ID, models.StatusDelivered)
	require.NoError(t, err)
	require.NotNil(t, delivered.ActualDeliveryTime)
	require.Len(t, delivered.StatusHistory, len(steps)+2)
	last := delivered.StatusHistory[len(delivered.StatusHistory)-1]
	assert.Equal(t, models.StatusDelivered, last.Status)
	assert.Equal(t, staff.ID, last.UpdatedBy)

	require.Len(t, notifier.events, 2*(len(steps)+1))
	assert.Equal(t, OrderTopic(order.ID), notifier.events[0].Topic)
	assert.Equal(t, EventStatusUpdate, notifier.events[0].Event)
	assert.Equal(t, UserTopic(customer.ID), notifier.events[1].Topic)
	assert.Equal(t, EventOrderUpdate, notifier.events[1].Event)

	_, err = svc.UpdateStatus(ctx, staff, order.ID, models.StatusCancelled)
	assert.True(t, utils.IsKind(err, utils.KindBadRequest))

	_, err = svc.UpdateStatus(ctx, staff, order.ID, "shipped")
	assert.True(t, utils.IsKind(err, utils.KindValidation))

	_, err = svc.UpdateStatus(ctx, staff, uuid.New(), models.StatusConfirmed)
	assert.Equal(t, 404, utils.AsAppError(err).Status)
}

func TestUpdateStatusPickupBranch(t *testing.T) {
	svc, store, _ := newTestOrderService(t)
	item := store.addMenu(models.MenuItem{Name: "Fries", Price: 4, IsAvailable: true})
	staff := models.Identity{ID: uuid.New(), Role: models.RoleStaff}
	ctx := context.Background()

	order, err := svc.Create(ctx, models.Identity{ID: uuid.New()}, CreateOrderInput{
		Items:         []LineRequest{{MenuItem: item.ID, Quantity: 1}},
		PaymentMethod: models.PaymentCash,
		DeliveryType:  models.DeliveryTypePickup,
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, staff, order.ID, models.StatusReady)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, staff, order.ID, models.StatusOutForDelivery)
	assert.True(t, utils.IsKind(err, utils.KindBadRequest))

	done, err := svc.UpdateStatus(ctx, staff, order.ID, models.StatusCompleted)
	require.NoError(t, err)
	assert.NotNil(t, done.ActualDeliveryTime)
	assert.Len(t, done.StatusHistory, 3)
}

func TestGetOrderAccess(t *testing.T) {
	svc, store, _ := newTestOrderService(t)
	item := store.addMenu(models.MenuItem{Name: "Burger", Price: 10, IsAvailable: true})
	owner := models.Identity{ID: uuid.New(), Role: models.RoleCustomer}
	ctx := context.Background()

	order, err := svc.Create(ctx, owner, deliveryInput(LineRequest{MenuItem: item.ID, Quantity: 1}))
	require.NoError(t, err)

	_, err = svc.Get(ctx, owner, order.ID)
	assert.NoError(t, err)
	_, err = svc.Get(ctx, models.Identity{ID: uuid.New(), Role: models.RoleAdmin}, order.ID)
	assert.NoError(t, err)
	_, err = svc.Get(ctx, models.Identity{ID: uuid.New(), Role: models.RoleCustomer}, order.ID)
	assert.Equal(t, 401, utils.AsAppError(err).Status)

	mine, err := svc.ListMine(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestUpdatePayment(t *testing.T) {
	svc, store, notifier := newTestOrderService(t)
	item := store.addMenu(models.MenuItem{Name: "Burger", Price: 10, IsAvailable: true})
	owner := models.Identity{ID: uuid.New()}
	ctx := context.Background()
	order, err := svc.Create(ctx, owner, deliveryInput(LineRequest{MenuItem: item.ID, Quantity: 1}))
	require.NoError(t, err)

	updated, err := svc.UpdatePayment(ctx, order.ID, models.PaymentCompleted, "pi_123")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, updated.PaymentStatus)
	assert.Equal(t, "pi_123", updated.PaymentID)
	assert.Equal(t, UserTopic(owner.ID), notifier.events[len(notifier.events)-1].Topic)

	_, err = svc.UpdatePayment(ctx, order.ID, "lost", "")
	assert.True(t, utils.IsKind(err, utils.KindValidation))
}
