package dbhelper

import (
	"context"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/ray-remotestate/fastfood/models"
)

const reviewColumns = `r.id, r.user_id, r.menu_item_id, r.order_id, r.rating, r.comment, r.images, r.created_at`

func reviewDest(r *models.Review) []any {
	return []any{&r.ID, &r.UserID, &r.MenuItemID, &r.OrderID, &r.Rating, &r.Comment, pq.Array(&r.Images), &r.CreatedAt}
}

func (s *Store) CreateReview(ctx context.Context, r *models.Review) error {
	err := s.DB.QueryRowContext(ctx, `
		INSERT INTO reviews (user_id, menu_item_id, order_id, rating, comment, images)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		r.UserID, r.MenuItemID, r.OrderID, r.Rating, r.Comment, pq.Array(orEmpty(r.Images))).Scan(&r.ID, &r.CreatedAt)
	return duplicate(err, "You have already reviewed this item")
}

func (s *Store) GetReview(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	var r models.Review
	dest := append(reviewDest(&r), &r.UserName)
	err := s.DB.QueryRowContext(ctx, `
		SELECT `+reviewColumns+`, COALESCE(u.name, '')
		FROM reviews r
		LEFT JOIN users u ON u.id = r.user_id
		WHERE r.id = $1`, id).Scan(dest...)
	if err != nil {
		return nil, notFound(err, "No review found with the id of "+id.String())
	}
	return &r, nil
}

func (s *Store) UpdateReview(ctx context.Context, r *models.Review) error {
	res, err := s.DB.ExecContext(ctx, `
		UPDATE reviews SET rating = $2, comment = $3, images = $4
		WHERE id = $1`, r.ID, r.Rating, r.Comment, pq.Array(orEmpty(r.Images)))
	if err != nil {
		return err
	}
	return mustAffect(res, "No review found with the id of "+r.ID.String())
}

func (s *Store) DeleteReview(ctx context.Context, id uuid.UUID) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return mustAffect(res, "No review found with the id of "+id.String())
}

func (s *Store) ListReviewsForItem(ctx context.Context, menuItemID uuid.UUID) ([]models.Review, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT `+reviewColumns+`, COALESCE(u.name, '')
		FROM reviews r
		LEFT JOIN users u ON u.id = r.user_id
		WHERE r.menu_item_id = $1
		ORDER BY r.created_at DESC`, menuItemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := make([]models.Review, 0)
	for rows.Next() {
		var r models.Review
		if err := rows.Scan(append(reviewDest(&r), &r.UserName)...); err != nil {
			return nil, err
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

// RatingsForItem returns every rating currently recorded for a menu item.
func (s *Store) RatingsForItem(ctx context.Context, menuItemID uuid.UUID) ([]int, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT rating FROM reviews WHERE menu_item_id = $1`, menuItemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ratings := make([]int, 0)
	for rows.Next() {
		var rating int
		if err := rows.Scan(&rating); err != nil {
			return nil, err
		}
		ratings = append(ratings, rating)
	}
	return ratings, rows.Err()
}
