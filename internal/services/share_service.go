package services

import (
	"context"
	"errors"
	"io"
	"time"

	"healthwallet/internal/errs"
	"healthwallet/internal/models"
	"healthwallet/internal/repositories"
	"healthwallet/internal/storage"
	"healthwallet/internal/validation"

	"go.uber.org/zap"
)

// ShareEventPublisher delivers share events to other processes.
type ShareEventPublisher interface {
	PublishShareEvent(ctx context.Context, event models.ShareEvent) error
}

// ShareInput is the body of a share request.
type ShareInput struct {
	Email      string     `json:"email" validate:"required,email,max=255"`
	AccessType string     `json:"accessType" validate:"omitempty,oneof=read write"`
	ExpiresAt  *time.Time `json:"expiresAt"`
}

// UpdateShareInput is the body of an access-type change.
type UpdateShareInput struct {
	AccessType string `json:"accessType" validate:"required,oneof=read write"`
}

// ShareService grants reports to e-mail addresses and resolves those grants.
// Report ownership is re-read from the store on every operation.
type ShareService struct {
	shares    repositories.ShareRepository
	reports   repositories.ReportRepository
	users     repositories.UserRepository
	files     storage.FileStore
	publisher ShareEventPublisher
	validate  *validation.Validator
	log       *zap.Logger
	now       func() time.Time
}

// NewShareService creates a new ShareService. publisher may be nil, in which
// case no events are sent.
func NewShareService(
	shares repositories.ShareRepository,
	reports repositories.ReportRepository,
	users repositories.UserRepository,
	files storage.FileStore,
	publisher ShareEventPublisher,
	log *zap.Logger,
) *ShareService {
	return &ShareService{
		shares:    shares,
		reports:   reports,
		users:     users,
		files:     files,
		publisher: publisher,
		validate:  validation.New(),
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// ownedReport loads reportID if ownerID owns it.
func (s *ShareService) ownedReport(ctx context.Context, reportID, ownerID uint, notFound string) (*models.Report, error) {
	report, err := s.reports.GetByID(ctx, reportID, ownerID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.NotFound(notFound)
		}
		return nil, err
	}
	return report, nil
}

// Share grants reportID to the e-mail in in. Only the report's owner may share it,
// and at most one share exists per (report, e-mail).
func (s *ShareService) Share(ctx context.Context, reportID, grantorID uint, in ShareInput) (*models.Share, error) {
	in.Email = NormalizeEmail(in.Email)
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}
	if in.AccessType == "" {
		in.AccessType = models.AccessRead
	}
	var expiresAt *time.Time
	if in.ExpiresAt != nil {
		t := in.ExpiresAt.UTC().Truncate(time.Second)
		if !t.After(s.now()) {
			return nil, errs.Validation("expiresAt must be in the future")
		}
		expiresAt = &t
	}

	report, err := s.ownedReport(ctx, reportID, grantorID, "Report not found or access denied")
	if err != nil {
		return nil, err
	}

	share := &models.Share{
		ReportID:        report.ID,
		SharedWithEmail: in.Email,
		SharedByUserID:  grantorID,
		AccessType:      in.AccessType,
		ExpiresAt:       expiresAt,
	}
	if err := s.shares.Create(ctx, share); err != nil {
		if errors.Is(err, errs.ErrConflict) {
			return nil, errs.Conflict("Report already shared with this email")
		}
		return nil, err
	}

	s.log.Info("report shared",
		zap.Uint("share_id", share.ID), zap.Uint("report_id", report.ID), zap.Uint("user_id", grantorID))
	s.publish(ctx, models.ShareCreated, share, report)
	return share, nil
}

// ListForReport returns every share of an owned report, expired ones included.
func (s *ShareService) ListForReport(ctx context.Context, reportID, ownerID uint) ([]models.ReportShare, error) {
	if _, err := s.ownedReport(ctx, reportID, ownerID, "Report not found"); err != nil {
		return nil, err
	}
	return s.shares.ListForReport(ctx, reportID)
}

// SharedWith lists the reports actively shared with the caller's current e-mail.
func (s *ShareService) SharedWith(ctx context.Context, userID uint) ([]models.SharedReport, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, userNotFound(err)
	}
	return s.shares.ListSharedWithEmail(ctx, user.Email, s.now())
}

// SharedBy lists every share the caller created.
func (s *ShareService) SharedBy(ctx context.Context, userID uint) ([]models.GrantedShare, error) {
	granted, err := s.shares.ListGrantedBy(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for i := range granted {
		granted[i].Active = granted[i].ExpiresAt == nil || granted[i].ExpiresAt.After(now)
	}
	return granted, nil
}

// Revoke deletes a share the caller created.
func (s *ShareService) Revoke(ctx context.Context, shareID, grantorID uint) error {
	share, err := s.shares.Delete(ctx, shareID, grantorID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return errs.NotFound("Share not found or access denied")
		}
		return err
	}

	s.log.Info("share revoked", zap.Uint("share_id", shareID), zap.Uint("user_id", grantorID))
	report, err := s.reports.FindByID(ctx, share.ReportID)
	if err != nil {
		report = &models.Report{ID: share.ReportID}
	}
	s.publish(ctx, models.ShareRevoked, share, report)
	return nil
}

// RevokeAll deletes every share of an owned report and returns how many were removed.
func (s *ShareService) RevokeAll(ctx context.Context, reportID, ownerID uint) (int64, error) {
	report, err := s.ownedReport(ctx, reportID, ownerID, "Report not found")
	if err != nil {
		return 0, err
	}
	removed, err := s.shares.DeleteForReport(ctx, reportID)
	if err != nil {
		return 0, err
	}

	s.log.Info("shares revoked", zap.Uint("report_id", reportID), zap.Uint("user_id", ownerID), zap.Int("count", len(removed)))
	for i := range removed {
		s.publish(ctx, models.ShareRevoked, &removed[i], report)
	}
	return int64(len(removed)), nil
}

// UpdateAccess changes the access type of a share the caller created.
func (s *ShareService) UpdateAccess(ctx context.Context, shareID, grantorID uint, in UpdateShareInput) (*models.Share, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}
	share, err := s.shares.UpdateAccess(ctx, shareID, grantorID, in.AccessType)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.NotFound("Share not found or access denied")
		}
		return nil, err
	}
	return share, nil
}

// HasAccess reports whether an active share grants email access to reportID.
func (s *ShareService) HasAccess(ctx context.Context, reportID uint, email string) (bool, error) {
	return s.shares.HasAccess(ctx, reportID, NormalizeEmail(email), s.now())
}

// OpenShared returns a report shared with the caller and a reader over its file.
func (s *ShareService) OpenShared(ctx context.Context, reportID, userID uint) (*models.Report, io.ReadCloser, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, userNotFound(err)
	}
	ok, err := s.HasAccess(ctx, reportID, user.Email)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, errs.NotFound("Report not found or access denied")
	}
	report, err := s.reports.FindByID(ctx, reportID)
	if err != nil {
		return nil, nil, reportNotFound(err)
	}
	return openReportFile(ctx, s.files, report)
}

// publish sends a share event. Failures are logged and never fail the request.
func (s *ShareService) publish(ctx context.Context, eventType string, share *models.Share, report *models.Report) {
	if s.publisher == nil {
		return
	}
	event := models.ShareEvent{
		Type:         eventType,
		ShareID:      share.ID,
		ReportID:     share.ReportID,
		ReportTitle:  report.Title,
		GranteeEmail: share.SharedWithEmail,
		AccessType:   share.AccessType,
		ExpiresAt:    share.ExpiresAt,
		OccurredAt:   s.now(),
	}
	if grantor, err := s.users.GetByID(ctx, share.SharedByUserID); err == nil {
		event.GrantorName = grantor.Name
		event.GrantorEmail = grantor.Email
	}
	if err := s.publisher.PublishShareEvent(ctx, event); err != nil {
		s.log.Warn("failed to publish share event",
			zap.String("type", eventType), zap.Uint("share_id", share.ID), zap.Error(err))
	}
}
