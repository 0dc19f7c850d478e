package dbhelper

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/ray-remotestate/fastfood/models"
)

const inventoryColumns = `i.id, i.name, i.current_stock, i.unit, i.min_stock_level, i.category, i.cost, i.supplier,
	i.affected_menu_items, i.expiration_date, i.location, i.is_active, i.created_at`

func inventoryDest(i *models.InventoryItem) []any {
	return []any{&i.ID, &i.Name, &i.CurrentStock, &i.Unit, &i.MinStockLevel, &i.Category, &i.Cost, &i.Supplier,
		pq.Array(&i.AffectedMenuItems), &i.ExpirationDate, &i.Location, &i.IsActive, &i.CreatedAt}
}

func (s *Store) CreateInventoryItem(ctx context.Context, i *models.InventoryItem) error {
	return s.DB.QueryRowContext(ctx, `
		INSERT INTO inventory (name, current_stock, unit, min_stock_level, category, cost, supplier,
			affected_menu_items, expiration_date, location, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at`,
		i.Name, i.CurrentStock, i.Unit, i.MinStockLevel, i.Category, i.Cost, i.Supplier,
		pq.Array(orEmpty(i.AffectedMenuItems)), i.ExpirationDate, i.Location, i.IsActive).Scan(&i.ID, &i.CreatedAt)
}

// GetInventoryItem loads the item with its stock history, oldest entry first.
func (s *Store) GetInventoryItem(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	var i models.InventoryItem
	err := s.DB.QueryRowContext(ctx, `SELECT `+inventoryColumns+` FROM inventory i WHERE i.id = $1`, id).
		Scan(inventoryDest(&i)...)
	if err != nil {
		return nil, notFound(err, "Inventory item not found with id of "+id.String())
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT action, quantity, date, user_id, notes
		FROM inventory_stock_history
		WHERE inventory_id = $1
		ORDER BY id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	i.StockHistory = make([]models.StockEntry, 0)
	for rows.Next() {
		var e models.StockEntry
		if err := rows.Scan(&e.Action, &e.Quantity, &e.Date, &e.UserID, &e.Notes); err != nil {
			return nil, err
		}
		i.StockHistory = append(i.StockHistory, e)
	}
	return &i, rows.Err()
}

// UpdateInventoryItem edits descriptive fields. Stock levels are changed
// through ChangeStock only.
func (s *Store) UpdateInventoryItem(ctx context.Context, i *models.InventoryItem) error {
	res, err := s.DB.ExecContext(ctx, `
		UPDATE inventory
		SET name = $2, unit = $3, min_stock_level = $4, category = $5, cost = $6, supplier = $7,
			affected_menu_items = $8, expiration_date = $9, location = $10, is_active = $11
		WHERE id = $1`,
		i.ID, i.Name, i.Unit, i.MinStockLevel, i.Category, i.Cost, i.Supplier,
		pq.Array(orEmpty(i.AffectedMenuItems)), i.ExpirationDate, i.Location, i.IsActive)
	if err != nil {
		return err
	}
	return mustAffect(res, "Inventory item not found with id of "+i.ID.String())
}

func (s *Store) DeleteInventoryItem(ctx context.Context, id uuid.UUID) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM inventory WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return mustAffect(res, "Inventory item not found with id of "+id.String())
}

// ChangeStock locks the inventory row, lets apply compute the new level and
// records the returned history entry together with the new level.
func (s *Store) ChangeStock(ctx context.Context, id uuid.UUID, apply func(i *models.InventoryItem) (models.StockEntry, error)) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := s.tx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `SELECT `+inventoryColumns+` FROM inventory i WHERE i.id = $1 FOR UPDATE`, id).
			Scan(inventoryDest(&item)...)
		if err != nil {
			return notFound(err, "Inventory item not found with id of "+id.String())
		}

		entry, err := apply(&item)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `UPDATE inventory SET current_stock = $2 WHERE id = $1`, id, item.CurrentStock); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO inventory_stock_history (inventory_id, action, quantity, date, user_id, notes)
			VALUES ($1, $2, $3, $4, $5, $6)`, id, entry.Action, entry.Quantity, entry.Date, entry.UserID, entry.Notes)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ListLowStock returns active items at or below their minimum level, lowest stock first.
func (s *Store) ListLowStock(ctx context.Context) ([]models.InventoryItem, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT `+inventoryColumns+`
		FROM inventory i
		WHERE i.current_stock <= i.min_stock_level AND i.is_active
		ORDER BY i.current_stock ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]models.InventoryItem, 0)
	for rows.Next() {
		var i models.InventoryItem
		if err := rows.Scan(inventoryDest(&i)...); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}
