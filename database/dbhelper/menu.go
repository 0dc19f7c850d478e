package dbhelper

import (
	"context"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/ray-remotestate/fastfood/models"
)

const menuColumns = `m.id, m.name, m.description, m.price, m.discount_price, m.image, m.category_id,
	m.preparation_time, m.ingredients, m.nutritional_info, m.is_available, m.is_vegetarian, m.is_vegan,
	m.is_gluten_free, m.spicy_level, m.customization_options, m.tags, m.average_rating,
	m.number_of_ratings, m.created_at`

func menuDest(m *models.MenuItem) []any {
	return []any{&m.ID, &m.Name, &m.Description, &m.Price, &m.DiscountPrice, &m.Image, &m.CategoryID,
		&m.PreparationTime, pq.Array(&m.Ingredients), &m.NutritionalInfo, &m.IsAvailable, &m.IsVegetarian,
		&m.IsVegan, &m.IsGlutenFree, &m.SpicyLevel, &m.CustomizationOptions, pq.Array(&m.Tags),
		&m.AverageRating, &m.NumberOfRatings, &m.CreatedAt}
}

func (s *Store) GetMenuItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	var m models.MenuItem
	dest := append(menuDest(&m), &m.CategoryName)
	err := s.DB.QueryRowContext(ctx, `
		SELECT `+menuColumns+`, COALESCE(c.name, '')
		FROM menu_items m
		LEFT JOIN categories c ON c.id = m.category_id
		WHERE m.id = $1`, id).Scan(dest...)
	if err != nil {
		return nil, notFound(err, "Menu item not found with id of "+id.String())
	}
	return &m, nil
}

func (s *Store) CreateMenuItem(ctx context.Context, m *models.MenuItem) error {
	return s.DB.QueryRowContext(ctx, `
		INSERT INTO menu_items (name, description, price, discount_price, image, category_id, preparation_time,
			ingredients, nutritional_info, is_available, is_vegetarian, is_vegan, is_gluten_free, spicy_level,
			customization_options, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at`,
		m.Name, m.Description, m.Price, m.DiscountPrice, m.Image, m.CategoryID, m.PreparationTime,
		pq.Array(orEmpty(m.Ingredients)), m.NutritionalInfo, m.IsAvailable, m.IsVegetarian, m.IsVegan, m.IsGlutenFree,
		m.SpicyLevel, m.CustomizationOptions, pq.Array(orEmpty(m.Tags))).Scan(&m.ID, &m.CreatedAt)
}

// UpdateMenuItem writes every client-editable column. Rating columns are left alone.
func (s *Store) UpdateMenuItem(ctx context.Context, m *models.MenuItem) error {
	res, err := s.DB.ExecContext(ctx, `
		UPDATE menu_items
		SET name = $2, description = $3, price = $4, discount_price = $5, image = $6, category_id = $7,
			preparation_time = $8, ingredients = $9, nutritional_info = $10, is_available = $11,
			is_vegetarian = $12, is_vegan = $13, is_gluten_free = $14, spicy_level = $15,
			customization_options = $16, tags = $17
		WHERE id = $1`,
		m.ID, m.Name, m.Description, m.Price, m.DiscountPrice, m.Image, m.CategoryID, m.PreparationTime,
		pq.Array(orEmpty(m.Ingredients)), m.NutritionalInfo, m.IsAvailable, m.IsVegetarian, m.IsVegan, m.IsGlutenFree,
		m.SpicyLevel, m.CustomizationOptions, pq.Array(orEmpty(m.Tags)))
	if err != nil {
		return err
	}
	return mustAffect(res, "Menu item not found with id of "+m.ID.String())
}

func (s *Store) DeleteMenuItem(ctx context.Context, id uuid.UUID) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return mustAffect(res, "Menu item not found with id of "+id.String())
}

func (s *Store) SetMenuItemAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	res, err := s.DB.ExecContext(ctx, `UPDATE menu_items SET is_available = $2 WHERE id = $1`, id, available)
	if err != nil {
		return err
	}
	return mustAffect(res, "Menu item not found with id of "+id.String())
}

func (s *Store) SetMenuItemRating(ctx context.Context, id uuid.UUID, summary models.RatingSummary) error {
	_, err := s.DB.ExecContext(ctx, `
		UPDATE menu_items SET average_rating = $2, number_of_ratings = $3
		WHERE id = $1`, id, summary.Average, summary.Count)
	return err
}
