package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ray-remotestate/fastfood/models"
	"github.com/ray-remotestate/fastfood/utils"
)

// fakeStore is an in-memory stand-in for *dbhelper.Store.
type fakeStore struct {
	mu         sync.Mutex
	users      map[uuid.UUID]*models.User
	categories map[uuid.UUID]*models.Category
	menu       map[uuid.UUID]*models.MenuItem
	orders     map[uuid.UUID]*models.Order
	shop       []models.ShopOrder
	shopRange  [2]time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:      map[uuid.UUID]*models.User{},
		categories: map[uuid.UUID]*models.Category{},
		menu:       map[uuid.UUID]*models.MenuItem{},
		orders:     map[uuid.UUID]*models.Order{},
	}
}

func (f *fakeStore) CreateUser(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u.ID = uuid.New()
	u.CreatedAt = time.Now()
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeStore) IsUserExists(_ context.Context, email string) (bool, error) {
	u, _ := f.GetUserByEmail(context.Background(), email)
	return u != nil, nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetUserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, utils.NotFound("User not found")
	}
	cp := *u
	return &cp, nil
}

func (f *fakeStore) UpdateUserDetails(_ context.Context, id uuid.UUID, name, email, phone string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return utils.NotFound("User not found")
	}
	u.Name, u.Email, u.PhoneNumber = name, email, phone
	return nil
}

func (f *fakeStore) UpdatePassword(_ context.Context, id uuid.UUID, hashedPassword string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[id].Password = hashedPassword
	return nil
}

func (f *fakeStore) AddAddress(_ context.Context, userID uuid.UUID, addr *models.Address) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.users[userID]
	addr.ID, addr.UserID = uuid.New(), userID
	if addr.IsDefault {
		for i := range u.Addresses {
			u.Addresses[i].IsDefault = false
		}
	}
	u.Addresses = append(u.Addresses, *addr)
	return nil
}

func (f *fakeStore) CreateCategory(_ context.Context, c *models.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c.ID = uuid.New()
	cp := *c
	f.categories[c.ID] = &cp
	return nil
}

func (f *fakeStore) GetCategory(_ context.Context, id uuid.UUID) (*models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.categories[id]
	if !ok {
		return nil, utils.NotFound("Category not found")
	}
	cp := *c
	return &cp, nil
}

func (f *fakeStore) UpdateCategory(_ context.Context, c *models.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *c
	f.categories[c.ID] = &cp
	return nil
}

func (f *fakeStore) DeleteCategory(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.categories, id)
	return nil
}

func (f *fakeStore) GetMenuItem(_ context.Context, id uuid.UUID) (*models.MenuItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.menu[id]
	if !ok {
		return nil, utils.NotFound("Menu item not found")
	}
	cp := *m
	return &cp, nil
}

func (f *fakeStore) CreateMenuItem(_ context.Context, m *models.MenuItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m.ID = uuid.New()
	cp := *m
	f.menu[m.ID] = &cp
	return nil
}

func (f *fakeStore) UpdateMenuItem(_ context.Context, m *models.MenuItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *m
	f.menu[m.ID] = &cp
	return nil
}

func (f *fakeStore) DeleteMenuItem(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.menu, id)
	return nil
}

func (f *fakeStore) SetMenuItemAvailability(_ context.Context, id uuid.UUID, available bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.menu[id].IsAvailable = available
	return nil
}

func (f *fakeStore) GetCouponByCode(context.Context, string) (*models.Coupon, error) {
	return nil, utils.NotFound("Invalid coupon code")
}

func (f *fakeStore) CreateOrder(_ context.Context, o *models.Order, _ *uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o.ID = uuid.New()
	o.CreatedAt = time.Now()
	cp := *o
	f.orders[o.ID] = &cp
	return nil
}

func (f *fakeStore) GetOrder(_ context.Context, id uuid.UUID) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, utils.NotFound("Order not found")
	}
	cp := *o
	return &cp, nil
}

func (f *fakeStore) ListOrdersByUser(_ context.Context, userID uuid.UUID) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeStore) TransitionOrder(_ context.Context, id uuid.UUID, apply func(o *models.Order) (models.StatusEntry, error)) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, utils.NotFound("Order not found")
	}
	cp := *o
	entry, err := apply(&cp)
	if err != nil {
		return nil, err
	}
	cp.StatusHistory = append(append([]models.StatusEntry{}, o.StatusHistory...), entry)
	f.orders[id] = &cp
	out := cp
	return &out, nil
}

func (f *fakeStore) UpdatePaymentStatus(_ context.Context, id uuid.UUID, status models.PaymentStatus, paymentID string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, utils.NotFound("Order not found")
	}
	o.PaymentStatus, o.PaymentID = status, paymentID
	cp := *o
	return &cp, nil
}

func (f *fakeStore) ExportOrders(context.Context, models.ListQuery) ([]*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.Order, 0, len(f.orders))
	for _, o := range f.orders {
		cp := *o
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeStore) CreateShopOrder(_ context.Context, o *models.ShopOrder) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o.ID = uuid.New()
	o.CreatedAt = time.Now()
	f.shop = append(f.shop, *o)
	return nil
}

func (f *fakeStore) ListShopOrders(context.Context) ([]models.ShopOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.ShopOrder{}, f.shop...), nil
}

func (f *fakeStore) ShopOrdersBetween(_ context.Context, from, to time.Time) ([]models.ShopOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shopRange = [2]time.Time{from, to}
	var out []models.ShopOrder
	for _, o := range f.shop {
		if !o.CreatedAt.Before(from) && o.CreatedAt.Before(to) {
			out = append(out, o)
		}
	}
	return out, nil
}
