package repositories

import (
	"context"

	"healthwallet/internal/models"
)

// VitalRepository defines the interface for vital-sign data access.
type VitalRepository interface {
	Create(ctx context.Context, vital *models.Vital) error
	List(ctx context.Context, ownerID uint, filter models.VitalFilter) ([]models.Vital, error)
	GetByID(ctx context.Context, id, ownerID uint) (*models.Vital, error)
	Update(ctx context.Context, vital *models.Vital) error
	Delete(ctx context.Context, id, ownerID uint) error
	Stats(ctx context.Context, ownerID uint) (*models.VitalStats, error)
	Latest(ctx context.Context, ownerID uint) (*models.Vital, error)
	DailyAverages(ctx context.Context, ownerID uint, startDate, endDate string) ([]models.DailyVitals, error)
	CountByOwner(ctx context.Context, ownerID uint) (int64, error)
}
