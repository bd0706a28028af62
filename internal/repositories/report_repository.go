package repositories

import (
	"context"

	"healthwallet/internal/models"
)

// ReportRepository defines the interface for report data access.
// Every owner-scoped method filters by the owner's id.
type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	ListByOwner(ctx context.Context, ownerID uint, filter models.ReportFilter) ([]models.Report, error)
	Search(ctx context.Context, ownerID uint, term string) ([]models.Report, error)
	GetByID(ctx context.Context, id, ownerID uint) (*models.Report, error)
	FindByID(ctx context.Context, id uint) (*models.Report, error)
	Update(ctx context.Context, id, ownerID uint, title, reportType, date string) error
	Delete(ctx context.Context, id, ownerID uint) (string, error)
	CountByOwner(ctx context.Context, ownerID uint) (int64, error)
	FilePathsByOwner(ctx context.Context, ownerID uint) ([]string, error)
}
