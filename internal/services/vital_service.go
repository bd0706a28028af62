package services

import (
	"context"
	"errors"
	"strings"

	"healthwallet/internal/errs"
	"healthwallet/internal/models"
	"healthwallet/internal/repositories"
	"healthwallet/internal/validation"
)

// VitalInput is the body of a vital create or update. Every reading is optional.
type VitalInput struct {
	Date          string   `json:"date" validate:"required,datetime=2006-01-02"`
	BloodSugar    *float64 `json:"bloodSugar" validate:"omitempty,gte=0,lte=1000"`
	BloodPressure *float64 `json:"bloodPressure" validate:"omitempty,gte=0,lte=400"`
	HeartRate     *int     `json:"heartRate" validate:"omitempty,gte=0,lte=300"`
	Temperature   *float64 `json:"temperature" validate:"omitempty,gte=20,lte=50"`
	Weight        *float64 `json:"weight" validate:"omitempty,gte=0,lte=700"`
	OxygenLevel   *float64 `json:"oxygenLevel" validate:"omitempty,gte=0,lte=100"`
	Notes         string   `json:"notes" validate:"max=2000"`
}

// VitalQuery bounds a vital listing.
type VitalQuery struct {
	StartDate string `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
	Limit     int    `json:"limit" validate:"gte=0,lte=1000"`
}

// VitalService manages vital-sign readings.
type VitalService struct {
	vitals   repositories.VitalRepository
	validate *validation.Validator
}

// NewVitalService creates a new VitalService.
func NewVitalService(vitals repositories.VitalRepository) *VitalService {
	return &VitalService{vitals: vitals, validate: validation.New()}
}

func vitalNotFound(err error) error {
	if errors.Is(err, errs.ErrNotFound) {
		return errs.NotFound("Vital not found")
	}
	return err
}

func (in VitalInput) model(ownerID uint) *models.Vital {
	return &models.Vital{
		UserID:        ownerID,
		Date:          strings.TrimSpace(in.Date),
		BloodSugar:    in.BloodSugar,
		BloodPressure: in.BloodPressure,
		HeartRate:     in.HeartRate,
		Temperature:   in.Temperature,
		Weight:        in.Weight,
		OxygenLevel:   in.OxygenLevel,
		Notes:         strings.TrimSpace(in.Notes),
	}
}

// Create records a vital for the owner.
func (s *VitalService) Create(ctx context.Context, ownerID uint, in VitalInput) (*models.Vital, error) {
	in.Date = strings.TrimSpace(in.Date)
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}
	vital := in.model(ownerID)
	if err := s.vitals.Create(ctx, vital); err != nil {
		return nil, err
	}
	return vital, nil
}

func (s *VitalService) checkRange(q VitalQuery) error {
	if err := s.validate.Struct(q); err != nil {
		return err
	}
	if q.StartDate != "" && q.EndDate != "" && q.StartDate > q.EndDate {
		return errs.Validation("startDate must not be after endDate")
	}
	return nil
}

// List returns the owner's vitals, newest first.
func (s *VitalService) List(ctx context.Context, ownerID uint, q VitalQuery) ([]models.Vital, error) {
	if err := s.checkRange(q); err != nil {
		return nil, err
	}
	return s.vitals.List(ctx, ownerID, models.VitalFilter{StartDate: q.StartDate, EndDate: q.EndDate, Limit: q.Limit})
}

// Get returns one of the owner's vitals.
func (s *VitalService) Get(ctx context.Context, id, ownerID uint) (*models.Vital, error) {
	vital, err := s.vitals.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, vitalNotFound(err)
	}
	return vital, nil
}

// Update replaces every reading of one of the owner's vitals.
func (s *VitalService) Update(ctx context.Context, id, ownerID uint, in VitalInput) error {
	in.Date = strings.TrimSpace(in.Date)
	if err := s.validate.Struct(in); err != nil {
		return err
	}
	vital := in.model(ownerID)
	vital.ID = id
	return vitalNotFound(s.vitals.Update(ctx, vital))
}

// Delete removes one of the owner's vitals.
func (s *VitalService) Delete(ctx context.Context, id, ownerID uint) error {
	return vitalNotFound(s.vitals.Delete(ctx, id, ownerID))
}

// Stats aggregates the owner's vitals.
func (s *VitalService) Stats(ctx context.Context, ownerID uint) (*models.VitalStats, error) {
	return s.vitals.Stats(ctx, ownerID)
}

// Latest returns the owner's most recent vital, or nil.
func (s *VitalService) Latest(ctx context.Context, ownerID uint) (*models.Vital, error) {
	return s.vitals.Latest(ctx, ownerID)
}

// Chart returns per-day averages between the bounds of q, oldest first.
func (s *VitalService) Chart(ctx context.Context, ownerID uint, q VitalQuery) ([]models.DailyVitals, error) {
	if err := s.checkRange(q); err != nil {
		return nil, err
	}
	return s.vitals.DailyAverages(ctx, ownerID, q.StartDate, q.EndDate)
}
