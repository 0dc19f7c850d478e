package dbhelper

import (
	"context"

	"github.com/ray-remotestate/fastfood/models"
)

var Categories = &Collection{
	Name:    "categories",
	From:    "categories c",
	Columns: "c.id, c.name, c.description, c.image, c.is_active, c.display_order, c.created_at",
	Fields: map[string]Field{
		"id":        {"c.id", UUIDField},
		"name":      {"c.name", TextField},
		"isActive":  {"c.is_active", BoolField},
		"order":     {"c.display_order", NumberField},
		"createdAt": {"c.created_at", TimeField},
	},
	row: func() (any, []any) {
		c := &models.Category{}
		return c, []any{&c.ID, &c.Name, &c.Description, &c.Image, &c.IsActive, &c.DisplayOrder, &c.CreatedAt}
	},
}

var Menu = &Collection{
	Name:    "menu",
	From:    "menu_items m",
	Columns: menuColumns,
	Fields: map[string]Field{
		"id":              {"m.id", UUIDField},
		"name":            {"m.name", TextField},
		"price":           {"m.price", NumberField},
		"discountPrice":   {"m.discount_price", NumberField},
		"category":        {"m.category_id", UUIDField},
		"preparationTime": {"m.preparation_time", NumberField},
		"isAvailable":     {"m.is_available", BoolField},
		"isVegetarian":    {"m.is_vegetarian", BoolField},
		"isVegan":         {"m.is_vegan", BoolField},
		"isGlutenFree":    {"m.is_gluten_free", BoolField},
		"spicyLevel":      {"m.spicy_level", NumberField},
		"tags":            {"m.tags", ArrayField},
		"averageRating":   {"m.average_rating", NumberField},
		"numberOfRatings": {"m.number_of_ratings", NumberField},
		"createdAt":       {"m.created_at", TimeField},
	},
	Expansions: map[string]Expansion{
		"category": {
			Join:    "LEFT JOIN categories cat ON cat.id = m.category_id",
			Columns: []string{"COALESCE(cat.name, '')"},
		},
	},
	row: func() (any, []any) {
		m := &models.MenuItem{}
		return m, menuDest(m)
	},
	expandDest: func(item any, name string) []any {
		return []any{&item.(*models.MenuItem).CategoryName}
	},
}

var Orders = &Collection{
	Name:    "orders",
	From:    "orders o",
	Columns: orderColumns,
	Fields: map[string]Field{
		"id":            {"o.id", UUIDField},
		"user":          {"o.user_id", UUIDField},
		"status":        {"o.status", TextField},
		"subtotal":      {"o.subtotal", NumberField},
		"total":         {"o.total", NumberField},
		"paymentMethod": {"o.payment_method", TextField},
		"paymentStatus": {"o.payment_status", TextField},
		"deliveryType":  {"o.delivery_type", TextField},
		"couponCode":    {"o.coupon_code", TextField},
		"createdAt":     {"o.created_at", TimeField},
	},
	Expansions: map[string]Expansion{
		"user": {
			Join:    "LEFT JOIN users u ON u.id = o.user_id",
			Columns: []string{"COALESCE(u.name, '')", "COALESCE(u.email, '')"},
		},
	},
	row: func() (any, []any) {
		o := &models.Order{}
		return o, orderDest(o)
	},
	expandDest: func(item any, name string) []any {
		o := item.(*models.Order)
		return []any{&o.UserName, &o.UserEmail}
	},
	after: func(ctx context.Context, db SQLExecutor, items []any) error {
		for _, item := range items {
			if err := loadOrderDetails(ctx, db, item.(*models.Order)); err != nil {
				return err
			}
		}
		return nil
	},
}

var Reviews = &Collection{
	Name:    "reviews",
	From:    "reviews r",
	Columns: reviewColumns,
	Fields: map[string]Field{
		"id":        {"r.id", UUIDField},
		"user":      {"r.user_id", UUIDField},
		"menuItem":  {"r.menu_item_id", UUIDField},
		"rating":    {"r.rating", NumberField},
		"createdAt": {"r.created_at", TimeField},
	},
	Expansions: map[string]Expansion{
		"user": {
			Join:    "LEFT JOIN users u ON u.id = r.user_id",
			Columns: []string{"COALESCE(u.name, '')"},
		},
	},
	row: func() (any, []any) {
		r := &models.Review{}
		return r, reviewDest(r)
	},
	expandDest: func(item any, name string) []any {
		return []any{&item.(*models.Review).UserName}
	},
}

var Inventory = &Collection{
	Name:    "inventory",
	From:    "inventory i",
	Columns: inventoryColumns,
	Fields: map[string]Field{
		"id":             {"i.id", UUIDField},
		"name":           {"i.name", TextField},
		"category":       {"i.category", TextField},
		"unit":           {"i.unit", TextField},
		"currentStock":   {"i.current_stock", NumberField},
		"minStockLevel":  {"i.min_stock_level", NumberField},
		"cost":           {"i.cost", NumberField},
		"isActive":       {"i.is_active", BoolField},
		"expirationDate": {"i.expiration_date", TimeField},
		"createdAt":      {"i.created_at", TimeField},
	},
	row: func() (any, []any) {
		i := &models.InventoryItem{}
		return i, inventoryDest(i)
	},
}

var Coupons = &Collection{
	Name:    "coupons",
	From:    "coupons c",
	Columns: couponColumns,
	Fields: map[string]Field{
		"id":         {"c.id", UUIDField},
		"code":       {"c.code", TextField},
		"type":       {"c.type", TextField},
		"isActive":   {"c.is_active", BoolField},
		"validFrom":  {"c.valid_from", TimeField},
		"validUntil": {"c.valid_until", TimeField},
		"createdAt":  {"c.created_at", TimeField},
	},
	row: func() (any, []any) {
		c := &models.Coupon{}
		return c, couponDest(c)
	},
}
