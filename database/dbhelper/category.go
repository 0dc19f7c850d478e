package dbhelper

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/ray-remotestate/fastfood/models"
	"github.com/ray-remotestate/fastfood/utils"
)

const categoryColumns = `id, name, description, image, is_active, display_order, created_at`

func scanCategory(row scanner) (*models.Category, error) {
	var c models.Category
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Image, &c.IsActive, &c.DisplayOrder, &c.CreatedAt)
	return &c, err
}

func (s *Store) CreateCategory(ctx context.Context, c *models.Category) error {
	err := s.DB.QueryRowContext(ctx, `
		INSERT INTO categories (name, description, image, is_active, display_order)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		c.Name, c.Description, c.Image, c.IsActive, c.DisplayOrder).Scan(&c.ID, &c.CreatedAt)
	return duplicate(err, "Category name already exists")
}

func (s *Store) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	c, err := scanCategory(s.DB.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, "Category not found with id of "+id.String())
	}
	return c, nil
}

func (s *Store) UpdateCategory(ctx context.Context, c *models.Category) error {
	res, err := s.DB.ExecContext(ctx, `
		UPDATE categories
		SET name = $2, description = $3, image = $4, is_active = $5, display_order = $6
		WHERE id = $1`,
		c.ID, c.Name, c.Description, c.Image, c.IsActive, c.DisplayOrder)
	if err != nil {
		return duplicate(err, "Category name already exists")
	}
	return mustAffect(res, "Category not found with id of "+c.ID.String())
}

// DeleteCategory refuses to remove a category still referenced by menu items.
func (s *Store) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return s.tx(ctx, func(tx *sql.Tx) error {
		var inUse int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM menu_items WHERE category_id = $1`, id).
			Scan(&inUse); err != nil {
			return err
		}
		if inUse > 0 {
			return utils.BadRequest("Cannot delete category with %d menu items. Please reassign or delete them first.", inUse)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
		if err != nil {
			return err
		}
		return mustAffect(res, "Category not found with id of "+id.String())
	})
}
