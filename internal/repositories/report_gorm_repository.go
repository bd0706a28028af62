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

// GORMReportRepository is a GORM implementation of ReportRepository.
type GORMReportRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGORMReportRepository creates a new instance of GORMReportRepository.
func NewGORMReportRepository(db *gorm.DB) *GORMReportRepository {
	return &GORMReportRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// Create inserts the report and its tags in one transaction.
func (r *GORMReportRepository) Create(ctx context.Context, report *models.Report) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(report).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	r.decorate(report, nil)
	return nil
}

func (r *GORMReportRepository) ownerQuery(ctx context.Context, ownerID uint) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Report{}).
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Where("reports.user_id = ?", ownerID).
		Order("reports.date DESC").
		Order("reports.created_at DESC").
		Order("reports.id DESC")
}

// ListByOwner returns the owner's reports, newest date first.
func (r *GORMReportRepository) ListByOwner(ctx context.Context, ownerID uint, filter models.ReportFilter) ([]models.Report, error) {
	q := r.ownerQuery(ctx, ownerID)
	if filter.Date != "" {
		q = q.Where("reports.date = ?", filter.Date)
	}
	if filter.Type != "" {
		q = q.Where("reports.type = ?", filter.Type)
	}
	if filter.VitalType != "" {
		q = q.Where("EXISTS (SELECT 1 FROM report_vitals rv WHERE rv.report_id = reports.id AND rv.vital_type = ?)", filter.VitalType)
	}

	var reports []models.Report
	if err := q.Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return r.withRecipients(ctx, reports)
}

// Search matches term case-insensitively against title and type.
func (r *GORMReportRepository) Search(ctx context.Context, ownerID uint, term string) ([]models.Report, error) {
	pattern := likePattern(term)
	var reports []models.Report
	err := r.ownerQuery(ctx, ownerID).
		Where(`(LOWER(reports.title) LIKE ? ESCAPE '\' OR LOWER(reports.type) LIKE ? ESCAPE '\')`, pattern, pattern).
		Find(&reports).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search reports: %w", err)
	}
	return r.withRecipients(ctx, reports)
}

// GetByID returns a report owned by ownerID.
func (r *GORMReportRepository) GetByID(ctx context.Context, id, ownerID uint) (*models.Report, error) {
	var report models.Report
	err := r.db.WithContext(ctx).
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Where("id = ? AND user_id = ?", id, ownerID).
		First(&report).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get report %d: %w", id, err)
	}
	reports, err := r.withRecipients(ctx, []models.Report{report})
	if err != nil {
		return nil, err
	}
	return &reports[0], nil
}

// FindByID returns a report regardless of owner. Callers must authorize access themselves.
func (r *GORMReportRepository) FindByID(ctx context.Context, id uint) (*models.Report, error) {
	var report models.Report
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&report).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get report %d: %w", id, err)
	}
	return &report, nil
}

// Update changes a report's metadata. Zero matched rows yields errs.ErrNotFound.
func (r *GORMReportRepository) Update(ctx context.Context, id, ownerID uint, title, reportType, date string) error {
	res := r.db.WithContext(ctx).Model(&models.Report{}).
		Where("id = ? AND user_id = ?", id, ownerID).
		Updates(map[string]any{"title": title, "type": reportType, "date": date})
	if res.Error != nil {
		return fmt.Errorf("failed to update report %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Delete removes the report and returns its storage key. Tags and shares cascade.
func (r *GORMReportRepository) Delete(ctx context.Context, id, ownerID uint) (string, error) {
	var filePath string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var report models.Report
		if err := tx.Select("id", "file_path").Where("id = ? AND user_id = ?", id, ownerID).First(&report).Error; err != nil {
			return err
		}
		res := tx.Where("id = ? AND user_id = ?", id, ownerID).Delete(&models.Report{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		filePath = report.FilePath
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", errs.ErrNotFound
		}
		return "", fmt.Errorf("failed to delete report %d: %w", id, err)
	}
	return filePath, nil
}

// CountByOwner counts the owner's reports.
func (r *GORMReportRepository) CountByOwner(ctx context.Context, ownerID uint) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Report{}).Where("user_id = ?", ownerID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count reports: %w", err)
	}
	return n, nil
}

// FilePathsByOwner lists the storage keys of every report the owner has.
func (r *GORMReportRepository) FilePathsByOwner(ctx context.Context, ownerID uint) ([]string, error) {
	var paths []string
	if err := r.db.WithContext(ctx).Model(&models.Report{}).Where("user_id = ?", ownerID).Pluck("file_path", &paths).Error; err != nil {
		return nil, fmt.Errorf("failed to list report files: %w", err)
	}
	return paths, nil
}

type shareRecipient struct {
	ReportID        uint
	SharedWithEmail string
}

// withRecipients fills Vitals and SharedWith for reports.
func (r *GORMReportRepository) withRecipients(ctx context.Context, reports []models.Report) ([]models.Report, error) {
	if len(reports) == 0 {
		return []models.Report{}, nil
	}
	ids := make([]uint, len(reports))
	for i := range reports {
		ids[i] = reports[i].ID
	}

	var rows []shareRecipient
	err := r.db.WithContext(ctx).Model(&models.Share{}).
		Select("report_id", "shared_with_email").
		Where("report_id IN ?", ids).
		Where(activeShare(r.db, "expires_at"), r.now().UTC()).
		Order("id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load share recipients: %w", err)
	}

	recipients := make(map[uint][]string, len(rows))
	for _, row := range rows {
		recipients[row.ReportID] = append(recipients[row.ReportID], row.SharedWithEmail)
	}
	for i := range reports {
		r.decorate(&reports[i], recipients[reports[i].ID])
	}
	return reports, nil
}

func (r *GORMReportRepository) decorate(report *models.Report, sharedWith []string) {
	if report.Tags == nil {
		report.Tags = []models.ReportVital{}
	}
	report.Vitals = report.TagLabels()
	if sharedWith == nil {
		sharedWith = []string{}
	}
	report.SharedWith = sharedWith
}
