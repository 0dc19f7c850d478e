package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ray-remotestate/fastfood/models"
	"github.com/ray-remotestate/fastfood/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	deliveryLeadTime = 45 * time.Minute
	pickupLeadTime   = 20 * time.Minute
)

type OrderStore interface {
	GetMenuItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error)
	GetCouponByCode(ctx context.Context, code string) (*models.Coupon, error)
	CreateOrder(ctx context.Context, o *models.Order, couponID *uuid.UUID) error
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	TransitionOrder(ctx context.Context, id uuid.UUID, apply func(o *models.Order) (models.StatusEntry, error)) (*models.Order, error)
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status models.PaymentStatus, paymentID string) (*models.Order, error)
}

type OrderService struct {
	store    OrderStore
	notifier Notifier
	rates    Rates
	now      func() time.Time
}

func NewOrderService(store OrderStore, notifier Notifier, rates Rates) *OrderService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &OrderService{store: store, notifier: notifier, rates: rates, now: time.Now}
}

type CreateOrderInput struct {
	Items                []LineRequest           `json:"items"`
	PaymentMethod        models.PaymentMethod    `json:"paymentMethod"`
	DeliveryType         models.DeliveryType     `json:"deliveryType"`
	DeliveryAddress      *models.DeliveryAddress `json:"deliveryAddress"`
	DeliveryInstructions string                  `json:"deliveryInstructions"`
	SpecialInstructions  string                  `json:"specialInstructions"`
	Discount             float64                 `json:"discount"`
	CouponCode           string                  `json:"couponCode"`
}

func (in CreateOrderInput) validate() error {
	var verrs utils.ValidationErrors
	if len(in.Items) == 0 {
		verrs.Add("Please add at least one item")
	}
	switch in.PaymentMethod {
	case models.PaymentCash, models.PaymentCreditCard, models.PaymentPaypal, models.PaymentStripe:
	default:
		verrs.Add("Please select a valid payment method")
	}
	switch in.DeliveryType {
	case models.DeliveryTypeDelivery:
		if in.DeliveryAddress == nil {
			verrs.Add("Delivery address is required for delivery orders")
		} else {
			verrs.Merge(utils.Validate(in.DeliveryAddress))
		}
	case models.DeliveryTypePickup:
	default:
		verrs.Add("Please select a valid delivery type")
	}
	if in.Discount < 0 {
		verrs.Add("Discount can not be negative")
	}
	return verrs.Err()
}

// Create prices the requested items against the live menu and stores the
// order as pending. Nothing is written when any item is missing or unavailable.
func (s *OrderService) Create(ctx context.Context, caller models.Identity, in CreateOrderInput) (*models.Order, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	lines := make([]PricedLine, 0, len(in.Items))
	for _, req := range in.Items {
		menu, err := s.store.GetMenuItem(ctx, req.MenuItem)
		if err != nil {
			return nil, err
		}
		if !menu.IsAvailable {
			return nil, utils.BadRequest("Menu item %s is currently unavailable", menu.Name)
		}
		line, err := PriceLine(menu, req)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	now := s.now()
	subtotal := Subtotal(lines)
	discount := decimal.NewFromFloat(in.Discount)
	var couponID *uuid.UUID
	if code := strings.TrimSpace(in.CouponCode); code != "" {
		coupon, err := s.store.GetCouponByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if discount, err = CouponDiscount(coupon, lines, now); err != nil {
			return nil, err
		}
		couponID = &coupon.ID
	}
	if discount.GreaterThan(subtotal) {
		return nil, utils.NewValidationError("Discount can not exceed the order subtotal")
	}

	b := ComputeBreakdown(subtotal, in.DeliveryType, discount, s.rates)
	lead := pickupLeadTime
	if in.DeliveryType == models.DeliveryTypeDelivery {
		lead = deliveryLeadTime
	}

	order := &models.Order{
		UserID:                caller.ID,
		Status:                models.StatusPending,
		Subtotal:              b.Subtotal.InexactFloat64(),
		Tax:                   b.Tax.InexactFloat64(),
		DeliveryFee:           b.DeliveryFee.InexactFloat64(),
		Discount:              b.Discount.InexactFloat64(),
		Total:                 b.Total.InexactFloat64(),
		CouponCode:            strings.ToUpper(strings.TrimSpace(in.CouponCode)),
		PaymentMethod:         in.PaymentMethod,
		PaymentStatus:         models.PaymentPending,
		DeliveryType:          in.DeliveryType,
		DeliveryInstructions:  in.DeliveryInstructions,
		SpecialInstructions:   in.SpecialInstructions,
		EstimatedDeliveryTime: now.Add(lead),
		StatusHistory:         []models.StatusEntry{{Status: models.StatusPending, Timestamp: now, UpdatedBy: caller.ID}},
	}
	if in.DeliveryType == models.DeliveryTypeDelivery {
		order.DeliveryAddress = in.DeliveryAddress
	}
	for _, l := range lines {
		order.Items = append(order.Items, l.Item)
	}

	if err := s.store.CreateOrder(ctx, order, couponID); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"order_id": order.ID, "user_id": caller.ID, "total": order.Total}).Info("order created")
	s.notifier.Notify(StaffTopic, EventNewOrder, map[string]any{
		"orderId": order.ID,
		"status":  order.Status,
		"total":   order.Total,
	})
	return order, nil
}

// CanTransition allows cancelling any open order and otherwise only forward
// moves. After ready, delivery orders go out-for-delivery then delivered;
// pickup orders are completed.
func CanTransition(deliveryType models.DeliveryType, from, to models.OrderStatus) error {
	if from.IsTerminal() {
		return utils.BadRequest("Order is already %s", from)
	}
	if to == models.StatusCancelled {
		return nil
	}
	if to.Rank() <= from.Rank() {
		return utils.BadRequest("Cannot change order status from %s to %s", from, to)
	}
	switch to {
	case models.StatusOutForDelivery, models.StatusDelivered:
		if deliveryType != models.DeliveryTypeDelivery {
			return utils.BadRequest("A %s order can not be %s", deliveryType, to)
		}
	case models.StatusCompleted:
		if deliveryType != models.DeliveryTypePickup || from == models.StatusOutForDelivery {
			return utils.BadRequest("Cannot change order status from %s to %s", from, to)
		}
	}
	return nil
}

// UpdateStatus moves the order to status, records who did it, and tells the
// order's and the owner's subscribers about it.
func (s *OrderService) UpdateStatus(ctx context.Context, caller models.Identity, id uuid.UUID, status models.OrderStatus) (*models.Order, error) {
	if !status.IsValid() {
		return nil, utils.NewValidationError("Invalid status")
	}

	order, err := s.store.TransitionOrder(ctx, id, func(o *models.Order) (models.StatusEntry, error) {
		if err := CanTransition(o.DeliveryType, o.Status, status); err != nil {
			return models.StatusEntry{}, err
		}
		now := s.now()
		o.Status = status
		if status == models.StatusDelivered || status == models.StatusCompleted {
			o.ActualDeliveryTime = &now
		}
		return models.StatusEntry{Status: status, Timestamp: now, UpdatedBy: caller.ID}, nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"order_id": id, "status": status, "updated_by": caller.ID}).Info("order status updated")
	payload := map[string]any{"orderId": order.ID, "status": order.Status}
	s.notifier.Notify(OrderTopic(order.ID), EventStatusUpdate, payload)
	s.notifier.Notify(UserTopic(order.UserID), EventOrderUpdate, payload)
	return order, nil
}

// Get returns the order when caller owns it or is staff.
func (s *OrderService) Get(ctx context.Context, caller models.Identity, id uuid.UUID) (*models.Order, error) {
	order, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.IsOwnedBy(caller.ID) && !caller.IsStaff() {
		return nil, utils.Unauthorized("Not authorized to access this order")
	}
	return order, nil
}

func (s *OrderService) ListMine(ctx context.Context, caller models.Identity) ([]models.Order, error) {
	return s.store.ListOrdersByUser(ctx, caller.ID)
}

func (s *OrderService) UpdatePayment(ctx context.Context, id uuid.UUID, status models.PaymentStatus, paymentID string) (*models.Order, error) {
	switch status {
	case models.PaymentPending, models.PaymentCompleted, models.PaymentFailed, models.PaymentRefunded:
	default:
		return nil, utils.NewValidationError("Invalid payment status")
	}
	order, err := s.store.UpdatePaymentStatus(ctx, id, status, paymentID)
	if err != nil {
		return nil, err
	}
	s.notifier.Notify(UserTopic(order.UserID), EventOrderUpdate, map[string]any{
		"orderId":       order.ID,
		"status":        order.Status,
		"paymentStatus": order.PaymentStatus,
	})
	return order, nil
}
