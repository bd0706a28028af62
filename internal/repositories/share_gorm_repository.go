package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"healthwallet/internal/errs"
	"healthwallet/internal/models"

	"gorm.io/gorm"
)

// GORMShareRepository is a GORM implementation of ShareRepository.
type GORMShareRepository struct {
	db *gorm.DB
}

// NewGORMShareRepository creates a new instance of GORMShareRepository.
func NewGORMShareRepository(db *gorm.DB) *GORMShareRepository {
	return &GORMShareRepository{db: db}
}

// Create inserts a share. The (report, e-mail) unique constraint is the only
// duplicate check; a violation yields errs.ErrConflict.
func (r *GORMShareRepository) Create(ctx context.Context, share *models.Share) error {
	if share.ExpiresAt != nil {
		utc := share.ExpiresAt.UTC()
		share.ExpiresAt = &utc
	}
	if err := r.db.WithContext(ctx).Create(share).Error; err != nil {
		if isUniqueViolation(err) {
			return errs.ErrConflict
		}
		return fmt.Errorf("failed to create share: %w", err)
	}
	return nil
}

// activeShare is the predicate for a share that has not expired at the bound time.
// SQLite stores timestamps as text, so both sides are compared as Julian days to
// stay correct when a row was written with a non-UTC offset.
func activeShare(db *gorm.DB, column string) string {
	if db.Dialector.Name() == "sqlite" {
		return fmt.Sprintf("(%[1]s IS NULL OR julianday(%[1]s) > julianday(?))", column)
	}
	return fmt.Sprintf("(%[1]s IS NULL OR %[1]s > ?)", column)
}

// ListForReport returns every share of the report, expired ones included, newest first.
func (r *GORMShareRepository) ListForReport(ctx context.Context, reportID uint) ([]models.ReportShare, error) {
	shares := []models.ReportShare{}
	err := r.db.WithContext(ctx).
		Table("shared_reports s").
		Select("s.*, u.name AS shared_by_name").
		Joins("JOIN users u ON u.id = s.shared_by_user_id").
		Where("s.report_id = ?", reportID).
		Order("s.created_at DESC").
		Order("s.id DESC").
		Scan(&shares).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list shares for report %d: %w", reportID, err)
	}
	return shares, nil
}

// ListSharedWithEmail returns reports with an active share to email, newest share first.
func (r *GORMShareRepository) ListSharedWithEmail(ctx context.Context, email string, now time.Time) ([]models.SharedReport, error) {
	reports := []models.SharedReport{}
	err := r.db.WithContext(ctx).
		Table("shared_reports s").
		Select(`s.id AS share_id, r.id, r.title, r.type, r.date, r.file_name, r.file_type, r.file_size,
			s.access_type, s.expires_at, s.created_at AS shared_at,
			u.name AS shared_by_name, u.email AS shared_by_email`).
		Joins("JOIN reports r ON r.id = s.report_id").
		Joins("JOIN users u ON u.id = s.shared_by_user_id").
		Where("s.shared_with_email = ?", email).
		Where(activeShare(r.db, "s.expires_at"), now.UTC()).
		Order("s.created_at DESC").
		Order("s.id DESC").
		Scan(&reports).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reports shared with %s: %w", email, err)
	}
	return reports, nil
}

// ListGrantedBy returns every share the grantor created, regardless of expiry.
func (r *GORMShareRepository) ListGrantedBy(ctx context.Context, grantorID uint) ([]models.GrantedShare, error) {
	shares := []models.GrantedShare{}
	err := r.db.WithContext(ctx).
		Table("shared_reports s").
		Select(`s.id AS share_id, r.id, r.title, r.type, r.date, r.file_name,
			s.shared_with_email, s.access_type, s.expires_at, s.created_at AS shared_at`).
		Joins("JOIN reports r ON r.id = s.report_id").
		Where("s.shared_by_user_id = ? AND r.user_id = ?", grantorID, grantorID).
		Order("s.created_at DESC").
		Order("s.id DESC").
		Scan(&shares).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list shares by user %d: %w", grantorID, err)
	}
	return shares, nil
}

// grantedBy scopes a share query to shares whose report the grantor still owns.
func grantedBy(db *gorm.DB, shareID, grantorID uint) *gorm.DB {
	return db.Where("id = ? AND shared_by_user_id = ?", shareID, grantorID).
		Where("report_id IN (?)", db.Session(&gorm.Session{NewDB: true}).
			Model(&models.Report{}).Select("id").Where("user_id = ?", grantorID))
}

// Delete removes a share the grantor created and returns the removed row.
func (r *GORMShareRepository) Delete(ctx context.Context, shareID, grantorID uint) (*models.Share, error) {
	var share models.Share
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := grantedBy(tx, shareID, grantorID).First(&share).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Share{}, share.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, fmt.Errorf("failed to delete share %d: %w", shareID, err)
	}
	return &share, nil
}

// DeleteForReport removes every share of the report and returns the removed rows.
func (r *GORMShareRepository) DeleteForReport(ctx context.Context, reportID uint) ([]models.Share, error) {
	shares := []models.Share{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("report_id = ?", reportID).Order("id").Find(&shares).Error; err != nil {
			return err
		}
		if len(shares) == 0 {
			return nil
		}
		ids := make([]uint, len(shares))
		for i := range shares {
			ids[i] = shares[i].ID
		}
		return tx.Where("id IN ?", ids).Delete(&models.Share{}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to delete shares of report %d: %w", reportID, err)
	}
	return shares, nil
}

// UpdateAccess changes the access type of a share the grantor created.
func (r *GORMShareRepository) UpdateAccess(ctx context.Context, shareID, grantorID uint, accessType string) (*models.Share, error) {
	var share models.Share
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := grantedBy(tx, shareID, grantorID).First(&share).Error; err != nil {
			return err
		}
		if err := tx.Model(&share).Update("access_type", accessType).Error; err != nil {
			return err
		}
		share.AccessType = accessType
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update share %d: %w", shareID, err)
	}
	return &share, nil
}

// HasAccess reports whether an active share grants email access to the report.
func (r *GORMShareRepository) HasAccess(ctx context.Context, reportID uint, email string, now time.Time) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Share{}).
		Where("report_id = ? AND shared_with_email = ?", reportID, email).
		Where(activeShare(r.db, "expires_at"), now.UTC()).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("failed to check access to report %d: %w", reportID, err)
	}
	return n > 0, nil
}

// CountGrantedBy counts the shares the grantor created.
func (r *GORMShareRepository) CountGrantedBy(ctx context.Context, grantorID uint) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Share{}).Where("shared_by_user_id = ?", grantorID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count shares: %w", err)
	}
	return n, nil
}
