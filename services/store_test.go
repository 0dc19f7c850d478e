package services

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"
	"github.com/ray-remotestate/fastfood/models"
	"github.com/ray-remotestate/fastfood/utils"
)

// memStore is an in-memory stand-in for dbhelper.Store.
type memStore struct {
	mu        sync.Mutex
	menu      map[uuid.UUID]*models.MenuItem
	coupons   map[string]*models.Coupon
	orders    map[uuid.UUID]*models.Order
	reviews   map[uuid.UUID]*models.Review
	inventory map[uuid.UUID]*models.InventoryItem
	history   map[uuid.UUID][]models.StockEntry

	availabilityErr map[uuid.UUID]error
	ratingErr       error
}

func newMemStore() *memStore {
	return &memStore{
		menu:            map[uuid.UUID]*models.MenuItem{},
		coupons:         map[string]*models.Coupon{},
		orders:          map[uuid.UUID]*models.Order{},
		reviews:         map[uuid.UUID]*models.Review{},
		inventory:       map[uuid.UUID]*models.InventoryItem{},
		history:         map[uuid.UUID][]models.StockEntry{},
		availabilityErr: map[uuid.UUID]error{},
	}
}

func (m *memStore) addMenu(item models.MenuItem) *models.MenuItem {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	m.menu[item.ID] = &item
	return &item
}

func (m *memStore) GetMenuItem(_ context.Context, id uuid.UUID) (*models.MenuItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.menu[id]
	if !ok {
		return nil, utils.NotFound("Menu item not found with id of %s", id)
	}
	cp := *item
	return &cp, nil
}

func (m *memStore) GetCouponByCode(_ context.Context, code string) (*models.Coupon, error) {
	c, ok := m.coupons[code]
	if !ok {
		return nil, utils.BadRequest("Invalid coupon code")
	}
	cp := *c
	return &cp, nil
}

func (m *memStore) CreateOrder(_ context.Context, o *models.Order, couponID *uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if couponID != nil {
		for _, c := range m.coupons {
			if c.ID != *couponID {
				continue
			}
			if c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit {
				return utils.BadRequest("Coupon usage limit reached")
			}
			c.UsedCount++
		}
	}
	o.ID = uuid.New()
	cp := *o
	m.orders[o.ID] = &cp
	return nil
}

func (m *memStore) GetOrder(_ context.Context, id uuid.UUID) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, utils.NotFound("Order not found with id of %s", id)
	}
	cp := *o
	return &cp, nil
}

func (m *memStore) ListOrdersByUser(_ context.Context, userID uuid.UUID) ([]models.Order, error) {
	var out []models.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *memStore) TransitionOrder(_ context.Context, id uuid.UUID, apply func(o *models.Order) (models.StatusEntry, error)) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *o
	entry, err := apply(&cp)
	if err != nil {
		return nil, err
	}
	cp.StatusHistory = append(append([]models.StatusEntry(nil), o.StatusHistory...), entry)
	m.orders[id] = &cp
	out := cp
	return &out, nil
}

func (m *memStore) UpdatePaymentStatus(_ context.Context, id uuid.UUID, status models.PaymentStatus, paymentID string) (*models.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	o.PaymentStatus = status
	o.PaymentID = paymentID
	cp := *o
	return &cp, nil
}

func (m *memStore) CreateReview(_ context.Context, r *models.Review) error {
	for _, existing := range m.reviews {
		if existing.UserID == r.UserID && existing.MenuItemID == r.MenuItemID {
			return utils.DuplicateKey("You have already reviewed this item")
		}
	}
	r.ID = uuid.New()
	cp := *r
	m.reviews[r.ID] = &cp
	return nil
}

func (m *memStore) GetReview(_ context.Context, id uuid.UUID) (*models.Review, error) {
	r, ok := m.reviews[id]
	if !ok {
		return nil, utils.NotFound("Review not found with id of %s", id)
	}
	cp := *r
	return &cp, nil
}

func (m *memStore) UpdateReview(_ context.Context, r *models.Review) error {
	cp := *r
	m.reviews[r.ID] = &cp
	return nil
}

func (m *memStore) DeleteReview(_ context.Context, id uuid.UUID) error {
	delete(m.reviews, id)
	return nil
}

func (m *memStore) ListReviewsForItem(_ context.Context, menuItemID uuid.UUID) ([]models.Review, error) {
	var out []models.Review
	for _, r := range m.reviews {
		if r.MenuItemID == menuItemID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *memStore) RatingsForItem(_ context.Context, menuItemID uuid.UUID) ([]int, error) {
	var out []int
	for _, r := range m.reviews {
		if r.MenuItemID == menuItemID {
			out = append(out, r.Rating)
		}
	}
	return out, nil
}

func (m *memStore) SetMenuItemRating(_ context.Context, id uuid.UUID, summary models.RatingSummary) error {
	if m.ratingErr != nil {
		return m.ratingErr
	}
	item, ok := m.menu[id]
	if !ok {
		return sql.ErrNoRows
	}
	item.AverageRating = summary.Average
	item.NumberOfRatings = summary.Count
	return nil
}

func (m *memStore) SetMenuItemAvailability(_ context.Context, id uuid.UUID, available bool) error {
	if err := m.availabilityErr[id]; err != nil {
		return err
	}
	item, ok := m.menu[id]
	if !ok {
		return sql.ErrNoRows
	}
	item.IsAvailable = available
	return nil
}

func (m *memStore) ChangeStock(_ context.Context, id uuid.UUID, apply func(i *models.InventoryItem) (models.StockEntry, error)) (*models.InventoryItem, error) {
	item, ok := m.inventory[id]
	if !ok {
		return nil, utils.NotFound("Inventory item not found with id of %s", id)
	}
	cp := *item
	entry, err := apply(&cp)
	if err != nil {
		return nil, err
	}
	m.inventory[id] = &cp
	m.history[id] = append(m.history[id], entry)
	out := cp
	return &out, nil
}

type sentEvent struct {
	Topic   string
	Event   string
	Payload any
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []sentEvent
}

func (r *recordingNotifier) Notify(topic, event string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, sentEvent{topic, event, payload})
}
