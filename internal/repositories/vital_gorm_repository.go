package repositories

import (
	"context"
	"errors"
	"fmt"

	"healthwallet/internal/errs"
	"healthwallet/internal/models"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"
)

var vitalColumns = []string{
	"id", "user_id", "date", "blood_sugar", "blood_pressure", "heart_rate",
	"temperature", "weight", "oxygen_level", "notes", "created_at",
}

// GORMVitalRepository is a GORM implementation of VitalRepository.
// Aggregate and filtered reads are built with squirrel and run through GORM.
type GORMVitalRepository struct {
	db *gorm.DB
}

// NewGORMVitalRepository creates a new instance of GORMVitalRepository.
func NewGORMVitalRepository(db *gorm.DB) *GORMVitalRepository {
	return &GORMVitalRepository{db: db}
}

func (r *GORMVitalRepository) raw(ctx context.Context, b sq.Sqlizer, dest any) error {
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}
	return r.db.WithContext(ctx).Raw(query, args...).Scan(dest).Error
}

// Create inserts a vital.
func (r *GORMVitalRepository) Create(ctx context.Context, vital *models.Vital) error {
	if err := r.db.WithContext(ctx).Create(vital).Error; err != nil {
		return fmt.Errorf("failed to create vital: %w", err)
	}
	return nil
}

// List returns the owner's vitals, newest first, optionally bounded by date and count.
func (r *GORMVitalRepository) List(ctx context.Context, ownerID uint, filter models.VitalFilter) ([]models.Vital, error) {
	q := sq.Select(vitalColumns...).
		From("vitals").
		Where(sq.Eq{"user_id": ownerID}).
		OrderBy("date DESC", "created_at DESC", "id DESC")
	if filter.StartDate != "" {
		q = q.Where(sq.GtOrEq{"date": filter.StartDate})
	}
	if filter.EndDate != "" {
		q = q.Where(sq.LtOrEq{"date": filter.EndDate})
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}

	vitals := []models.Vital{}
	if err := r.raw(ctx, q, &vitals); err != nil {
		return nil, fmt.Errorf("failed to list vitals: %w", err)
	}
	return vitals, nil
}

// GetByID returns a vital owned by ownerID.
func (r *GORMVitalRepository) GetByID(ctx context.Context, id, ownerID uint) (*models.Vital, error) {
	var vital models.Vital
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, ownerID).First(&vital).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get vital %d: %w", id, err)
	}
	return &vital, nil
}

// Update overwrites every reading of the vital identified by vital.ID and vital.UserID.
func (r *GORMVitalRepository) Update(ctx context.Context, vital *models.Vital) error {
	res := r.db.WithContext(ctx).Model(&models.Vital{}).
		Where("id = ? AND user_id = ?", vital.ID, vital.UserID).
		Select("date", "blood_sugar", "blood_pressure", "heart_rate", "temperature", "weight", "oxygen_level", "notes").
		Updates(vital)
	if res.Error != nil {
		return fmt.Errorf("failed to update vital %d: %w", vital.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Delete removes a vital owned by ownerID.
func (r *GORMVitalRepository) Delete(ctx context.Context, id, ownerID uint) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, ownerID).Delete(&models.Vital{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete vital %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func avg(col string) string {
	return fmt.Sprintf("CAST(AVG(%[1]s) AS DOUBLE PRECISION) AS avg_%[1]s", col)
}

func minMax(col string) []string {
	return []string{
		fmt.Sprintf("CAST(MIN(%[1]s) AS DOUBLE PRECISION) AS min_%[1]s", col),
		fmt.Sprintf("CAST(MAX(%[1]s) AS DOUBLE PRECISION) AS max_%[1]s", col),
	}
}

// Stats aggregates all of the owner's vitals in one query.
func (r *GORMVitalRepository) Stats(ctx context.Context, ownerID uint) (*models.VitalStats, error) {
	cols := []string{"COUNT(*) AS total_readings"}
	for _, c := range []string{"blood_sugar", "blood_pressure", "heart_rate"} {
		cols = append(cols, avg(c))
		cols = append(cols, minMax(c)...)
	}
	cols = append(cols, avg("temperature"), avg("weight"), avg("oxygen_level"))

	q := sq.Select(cols...).From("vitals").Where(sq.Eq{"user_id": ownerID})

	var stats models.VitalStats
	if err := r.raw(ctx, q, &stats); err != nil {
		return nil, fmt.Errorf("failed to compute vital stats: %w", err)
	}
	return &stats, nil
}

// Latest returns the most recent vital, or nil when the owner has none.
func (r *GORMVitalRepository) Latest(ctx context.Context, ownerID uint) (*models.Vital, error) {
	vitals, err := r.List(ctx, ownerID, models.VitalFilter{Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(vitals) == 0 {
		return nil, nil
	}
	return &vitals[0], nil
}

// DailyAverages returns per-day averages between startDate and endDate inclusive, oldest first.
func (r *GORMVitalRepository) DailyAverages(ctx context.Context, ownerID uint, startDate, endDate string) ([]models.DailyVitals, error) {
	q := sq.Select(
		"date",
		"CAST(AVG(blood_sugar) AS DOUBLE PRECISION) AS blood_sugar",
		"CAST(AVG(blood_pressure) AS DOUBLE PRECISION) AS blood_pressure",
		"CAST(AVG(heart_rate) AS DOUBLE PRECISION) AS heart_rate",
		"CAST(AVG(temperature) AS DOUBLE PRECISION) AS temperature",
		"CAST(AVG(weight) AS DOUBLE PRECISION) AS weight",
		"CAST(AVG(oxygen_level) AS DOUBLE PRECISION) AS oxygen_level",
	).
		From("vitals").
		Where(sq.Eq{"user_id": ownerID}).
		GroupBy("date").
		OrderBy("date ASC")
	if startDate != "" {
		q = q.Where(sq.GtOrEq{"date": startDate})
	}
	if endDate != "" {
		q = q.Where(sq.LtOrEq{"date": endDate})
	}

	days := []models.DailyVitals{}
	if err := r.raw(ctx, q, &days); err != nil {
		return nil, fmt.Errorf("failed to compute daily vitals: %w", err)
	}
	return days, nil
}

// CountByOwner counts the owner's vitals.
func (r *GORMVitalRepository) CountByOwner(ctx context.Context, ownerID uint) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Vital{}).Where("user_id = ?", ownerID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count vitals: %w", err)
	}
	return n, nil
}
