package repositories

import (
	"context"
	"time"

	"healthwallet/internal/models"
)

// ShareRepository defines the interface for report-share data access.
type ShareRepository interface {
	Create(ctx context.Context, share *models.Share) error
	ListForReport(ctx context.Context, reportID uint) ([]models.ReportShare, error)
	ListSharedWithEmail(ctx context.Context, email string, now time.Time) ([]models.SharedReport, error)
	ListGrantedBy(ctx context.Context, grantorID uint) ([]models.GrantedShare, error)
	Delete(ctx context.Context, shareID, grantorID uint) (*models.Share, error)
	DeleteForReport(ctx context.Context, reportID uint) ([]models.Share, error)
	UpdateAccess(ctx context.Context, shareID, grantorID uint, accessType string) (*models.Share, error)
	HasAccess(ctx context.Context, reportID uint, email string, now time.Time) (bool, error)
	CountGrantedBy(ctx context.Context, grantorID uint) (int64, error)
}
