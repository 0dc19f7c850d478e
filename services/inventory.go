package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/ray-remotestate/fastfood/models"
	"github.com/ray-remotestate/fastfood/utils"
	"github.com/sirupsen/logrus"
)

type InventoryStore interface {
	ChangeStock(ctx context.Context, id uuid.UUID, apply func(i *models.InventoryItem) (models.StockEntry, error)) (*models.InventoryItem, error)
	SetMenuItemAvailability(ctx context.Context, id uuid.UUID, available bool) error
}

type InventoryService struct {
	store InventoryStore
	now   func() time.Time
}

func NewInventoryService(store InventoryStore) *InventoryService {
	return &InventoryService{store: store, now: time.Now}
}

type StockChange struct {
	Action   models.StockAction `json:"action"`
	Quantity float64            `json:"quantity"`
	Notes    string             `json:"notes"`
}

// ApplyStockChange returns the stock level after action. A removal below
// zero is rejected.
func ApplyStockChange(current float64, action models.StockAction, quantity float64) (float64, error) {
	if quantity < 0 {
		return current, utils.NewValidationError("Quantity can not be negative")
	}
	switch action {
	case models.StockAdded:
		return current + quantity, nil
	case models.StockRemoved:
		if current-quantity < 0 {
			return current, utils.BadRequest("Insufficient stock")
		}
		return current - quantity, nil
	case models.StockAdjusted:
		return quantity, nil
	default:
		return current, utils.NewValidationError("Invalid action. Must be added, removed, or adjusted")
	}
}

// UpdateStock applies change and records it in the item's history. When the
// item runs out, every menu item depending on it is marked unavailable; those
// writes are independent and their failures do not fail the stock update.
func (s *InventoryService) UpdateStock(ctx context.Context, caller models.Identity, id uuid.UUID, change StockChange) (*models.InventoryItem, error) {
	item, err := s.store.ChangeStock(ctx, id, func(i *models.InventoryItem) (models.StockEntry, error) {
		next, err := ApplyStockChange(i.CurrentStock, change.Action, change.Quantity)
		if err != nil {
			return models.StockEntry{}, err
		}
		i.CurrentStock = next
		return models.StockEntry{
			Action:   change.Action,
			Quantity: change.Quantity,
			Date:     s.now(),
			UserID:   caller.ID,
			Notes:    change.Notes,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	log := logrus.WithFields(logrus.Fields{"inventory_id": id, "action": change.Action, "stock": item.CurrentStock})
	log.Info("stock updated")

	if item.CurrentStock <= 0 {
		if err := s.markUnavailable(ctx, item.AffectedMenuItems); err != nil {
			log.WithError(err).Warn("failed to mark some menu items unavailable")
		}
	}
	return item, nil
}

func (s *InventoryService) markUnavailable(ctx context.Context, ids []uuid.UUID) error {
	var result *multierror.Error
	for _, id := range ids {
		if err := s.store.SetMenuItemAvailability(ctx, id, false); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}
