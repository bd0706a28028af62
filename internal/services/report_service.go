package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"healthwallet/internal/errs"
	"healthwallet/internal/models"
	"healthwallet/internal/repositories"
	"healthwallet/internal/storage"
	"healthwallet/internal/validation"

	"go.uber.org/zap"
)

// TagInput is one vital-sign tag attached to a report.
type TagInput struct {
	Type  string  `json:"type" validate:"required,max=100"`
	Value *string `json:"value" validate:"omitempty,max=255"`
}

// ReportInput holds the metadata of an uploaded or edited report.
type ReportInput struct {
	Title string     `json:"title" validate:"required,max=255"`
	Type  string     `json:"type" validate:"required,max=100"`
	Date  string     `json:"date" validate:"required,datetime=2006-01-02"`
	Tags  []TagInput `json:"vitals" validate:"omitempty,dive"`
}

// ParseTags decodes the "vitals" form field. Only the object form
// [{"type": "...", "value": "..."}] is accepted.
func ParseTags(raw string) ([]TagInput, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var tags []TagInput
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil, errs.Validation(`vitals must be a JSON array of {"type", "value"} objects`)
	}
	return tags, nil
}

// ReportService manages uploaded reports and their files.
type ReportService struct {
	reports  repositories.ReportRepository
	files    storage.FileStore
	fileRule validation.FileConstraints
	validate *validation.Validator
	log      *zap.Logger
}

// NewReportService creates a new ReportService. Uploads larger than maxFileSize are rejected.
func NewReportService(reports repositories.ReportRepository, files storage.FileStore, maxFileSize int64, log *zap.Logger) *ReportService {
	return &ReportService{
		reports:  reports,
		files:    files,
		fileRule: validation.ReportFileConstraints(maxFileSize),
		validate: validation.New(),
		log:      log,
	}
}

func reportNotFound(err error) error {
	if errors.Is(err, errs.ErrNotFound) {
		return errs.NotFound("Report not found")
	}
	return err
}

func trimReportInput(in *ReportInput) {
	in.Title = strings.TrimSpace(in.Title)
	in.Type = strings.TrimSpace(in.Type)
	in.Date = strings.TrimSpace(in.Date)
}

// Create validates the upload, stores the file and inserts the report with its tags.
// The stored file is removed again when the insert fails.
func (s *ReportService) Create(ctx context.Context, ownerID uint, in ReportInput, file *multipart.FileHeader) (*models.Report, error) {
	if file == nil {
		return nil, errs.Validation("File is required")
	}
	trimReportInput(&in)
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}
	mimeType, err := s.fileRule.ValidateFile(file)
	if err != nil {
		return nil, err
	}

	key := storage.ReportKey(ownerID, file.Filename)
	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer func() { _ = src.Close() }()
	if err := s.files.Save(ctx, key, src, file.Size, mimeType); err != nil {
		return nil, fmt.Errorf("failed to store report file: %w", err)
	}

	report := &models.Report{
		UserID:   ownerID,
		Title:    in.Title,
		Type:     in.Type,
		Date:     in.Date,
		FileName: file.Filename,
		FilePath: key,
		FileType: mimeType,
		FileSize: file.Size,
	}
	for _, t := range in.Tags {
		report.Tags = append(report.Tags, models.ReportVital{VitalType: strings.TrimSpace(t.Type), VitalValue: t.Value})
	}

	if err := s.reports.Create(ctx, report); err != nil {
		if delErr := s.files.Delete(ctx, key); delErr != nil {
			s.log.Error("failed to delete stored file during cleanup", zap.String("path", key), zap.Error(delErr))
		}
		return nil, err
	}

	s.log.Info("report uploaded",
		zap.Uint("report_id", report.ID), zap.Uint("user_id", ownerID),
		zap.String("file_type", mimeType), zap.Int64("file_size", file.Size))
	return report, nil
}

// List returns the owner's reports matching filter.
func (s *ReportService) List(ctx context.Context, ownerID uint, filter models.ReportFilter) ([]models.Report, error) {
	return s.reports.ListByOwner(ctx, ownerID, filter)
}

// Search matches term against title and type.
func (s *ReportService) Search(ctx context.Context, ownerID uint, term string) ([]models.Report, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, errs.Validation("Search term is required")
	}
	return s.reports.Search(ctx, ownerID, term)
}

// Get returns one of the owner's reports.
func (s *ReportService) Get(ctx context.Context, id, ownerID uint) (*models.Report, error) {
	report, err := s.reports.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, reportNotFound(err)
	}
	return report, nil
}

// Update changes title, type and date. Tags are not edited here.
func (s *ReportService) Update(ctx context.Context, id, ownerID uint, in ReportInput) error {
	trimReportInput(&in)
	in.Tags = nil
	if err := s.validate.Struct(in); err != nil {
		return err
	}
	return reportNotFound(s.reports.Update(ctx, id, ownerID, in.Title, in.Type, in.Date))
}

// Delete removes the report and then its file. A failed file removal does not
// undo the delete; it comes back as a warning.
func (s *ReportService) Delete(ctx context.Context, id, ownerID uint) ([]string, error) {
	key, err := s.reports.Delete(ctx, id, ownerID)
	if err != nil {
		return nil, reportNotFound(err)
	}

	var warnings []string
	if err := s.files.Delete(ctx, key); err != nil {
		s.log.Warn("failed to delete report file",
			zap.Uint("report_id", id), zap.String("path", key), zap.Error(err))
		warnings = append(warnings, "Report deleted but its file could not be removed")
	}
	return warnings, nil
}

// Open returns the owner's report together with a reader over its file.
func (s *ReportService) Open(ctx context.Context, id, ownerID uint) (*models.Report, io.ReadCloser, error) {
	report, err := s.reports.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, nil, reportNotFound(err)
	}
	return openReportFile(ctx, s.files, report)
}

func openReportFile(ctx context.Context, files storage.FileStore, report *models.Report) (*models.Report, io.ReadCloser, error) {
	rc, err := files.Open(ctx, report.FilePath)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, nil, errs.NotFound("File not found")
		}
		return nil, nil, err
	}
	return report, rc, nil
}
