package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/ray-remotestate/fastfood/models"
	"github.com/ray-remotestate/fastfood/utils"
	"github.com/sirupsen/logrus"
)

type ReviewStore interface {
	GetMenuItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	CreateReview(ctx context.Context, r *models.Review) error
	GetReview(ctx context.Context, id uuid.UUID) (*models.Review, error)
	UpdateReview(ctx context.Context, r *models.Review) error
	DeleteReview(ctx context.Context, id uuid.UUID) error
	ListReviewsForItem(ctx context.Context, menuItemID uuid.UUID) ([]models.Review, error)
	RatingsForItem(ctx context.Context, menuItemID uuid.UUID) ([]int, error)
	SetMenuItemRating(ctx context.Context, id uuid.UUID, summary models.RatingSummary) error
}

type ReviewService struct {
	store ReviewStore
}

func NewReviewService(store ReviewStore) *ReviewService {
	return &ReviewService{store: store}
}

type ReviewInput struct {
	Rating  int        `json:"rating"`
	Comment string     `json:"comment"`
	Images  []string   `json:"images"`
	Order   *uuid.UUID `json:"order"`
}

type ReviewPatch struct {
	Rating  *int     `json:"rating"`
	Comment *string  `json:"comment"`
	Images  []string `json:"images"`
}

// Summarize returns the mean and count of ratings, zero for none.
func Summarize(ratings []int) models.RatingSummary {
	if len(ratings) == 0 {
		return models.RatingSummary{}
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return models.RatingSummary{Average: float64(sum) / float64(len(ratings)), Count: len(ratings)}
}

// Add records the caller's review of a menu item. When an order is given it
// must belong to the caller and contain the item.
func (s *ReviewService) Add(ctx context.Context, caller models.Identity, menuItemID uuid.UUID, in ReviewInput) (*models.Review, error) {
	if _, err := s.store.GetMenuItem(ctx, menuItemID); err != nil {
		return nil, err
	}

	if in.Order != nil {
		order, err := s.store.GetOrder(ctx, *in.Order)
		if err != nil {
			return nil, err
		}
		if !order.IsOwnedBy(caller.ID) {
			return nil, utils.Unauthorized("Not authorized to review this order")
		}
		if !orderContains(order, menuItemID) {
			return nil, utils.BadRequest("This menu item was not part of the order")
		}
	}

	review := &models.Review{
		UserID:     caller.ID,
		MenuItemID: menuItemID,
		OrderID:    in.Order,
		Rating:     in.Rating,
		Comment:    in.Comment,
		Images:     in.Images,
	}
	if err := utils.Validate(review); err != nil {
		return nil, err
	}
	if err := s.store.CreateReview(ctx, review); err != nil {
		return nil, err
	}
	s.refreshRating(ctx, menuItemID)
	return review, nil
}

func orderContains(o *models.Order, menuItemID uuid.UUID) bool {
	for _, it := range o.Items {
		if it.MenuItemID == menuItemID {
			return true
		}
	}
	return false
}

func (s *ReviewService) editable(ctx context.Context, caller models.Identity, id uuid.UUID) (*models.Review, error) {
	review, err := s.store.GetReview(ctx, id)
	if err != nil {
		return nil, err
	}
	if review.UserID != caller.ID && caller.Role != models.RoleAdmin {
		return nil, utils.Unauthorized("Not authorized to change this review")
	}
	return review, nil
}

func (s *ReviewService) Update(ctx context.Context, caller models.Identity, id uuid.UUID, patch ReviewPatch) (*models.Review, error) {
	review, err := s.editable(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if patch.Rating != nil {
		review.Rating = *patch.Rating
	}
	if patch.Comment != nil {
		review.Comment = *patch.Comment
	}
	if patch.Images != nil {
		review.Images = patch.Images
	}
	if err := utils.Validate(review); err != nil {
		return nil, err
	}
	if err := s.store.UpdateReview(ctx, review); err != nil {
		return nil, err
	}
	s.refreshRating(ctx, review.MenuItemID)
	return review, nil
}

func (s *ReviewService) Delete(ctx context.Context, caller models.Identity, id uuid.UUID) error {
	review, err := s.editable(ctx, caller, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteReview(ctx, id); err != nil {
		return err
	}
	s.refreshRating(ctx, review.MenuItemID)
	return nil
}

func (s *ReviewService) Get(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	return s.store.GetReview(ctx, id)
}

func (s *ReviewService) ListForItem(ctx context.Context, menuItemID uuid.UUID) ([]models.Review, error) {
	if _, err := s.store.GetMenuItem(ctx, menuItemID); err != nil {
		return nil, err
	}
	return s.store.ListReviewsForItem(ctx, menuItemID)
}

// refreshRating recomputes after a committed review change. A failure leaves
// the aggregate stale until the next change and does not fail the request.
func (s *ReviewService) refreshRating(ctx context.Context, menuItemID uuid.UUID) {
	if err := s.Recompute(ctx, menuItemID); err != nil {
		logrus.WithError(err).WithField("menu_item_id", menuItemID).Error("failed to recompute rating")
	}
}

// Recompute rewrites a menu item's rating aggregate from its current reviews.
func (s *ReviewService) Recompute(ctx context.Context, menuItemID uuid.UUID) error {
	ratings, err := s.store.RatingsForItem(ctx, menuItemID)
	if err != nil {
		return fmt.Errorf("load ratings: %w", err)
	}
	summary := Summarize(ratings)
	if err := s.store.SetMenuItemRating(ctx, menuItemID, summary); err != nil {
		return fmt.Errorf("store rating: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"menu_item_id": menuItemID,
		"average":      summary.Average,
		"count":        summary.Count,
	}).Debug("rating recomputed")
	return nil
}
