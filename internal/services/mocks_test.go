package services_test

import (
	"context"
	"io"
	"time"

	"healthwallet/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, id uint, name, email string) error {
	return m.Called(ctx, id, name, email).Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id uint, hash string) error {
	return m.Called(ctx, id, hash).Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

// MockReportRepository is a mock implementation of repositories.ReportRepository
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) Create(ctx context.Context, report *models.Report) error {
	return m.Called(ctx, report).Error(0)
}

func (m *MockReportRepository) ListByOwner(ctx context.Context, ownerID uint, filter models.ReportFilter) ([]models.Report, error) {
	args := m.Called(ctx, ownerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Report), args.Error(1)
}

func (m *MockReportRepository) Search(ctx context.Context, ownerID uint, term string) ([]models.Report, error) {
	args := m.Called(ctx, ownerID, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Report), args.Error(1)
}

func (m *MockReportRepository) GetByID(ctx context.Context, id, ownerID uint) (*models.Report, error) {
	args := m.Called(ctx, id, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Report), args.Error(1)
}

func (m *MockReportRepository) FindByID(ctx context.Context, id uint) (*models.Report, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Report), args.Error(1)
}

func (m *MockReportRepository) Update(ctx context.Context, id, ownerID uint, title, reportType, date string) error {
	return m.Called(ctx, id, ownerID, title, reportType, date).Error(0)
}

func (m *MockReportRepository) Delete(ctx context.Context, id, ownerID uint) (string, error) {
	args := m.Called(ctx, id, ownerID)
	return args.String(0), args.Error(1)
}

func (m *MockReportRepository) CountByOwner(ctx context.Context, ownerID uint) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReportRepository) FilePathsByOwner(ctx context.Context, ownerID uint) ([]string, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockVitalRepository is a mock implementation of repositories.VitalRepository
type MockVitalRepository struct {
	mock.Mock
}

func (m *MockVitalRepository) Create(ctx context.Context, vital *models.Vital) error {
	return m.Called(ctx, vital).Error(0)
}

func (m *MockVitalRepository) List(ctx context.Context, ownerID uint, filter models.VitalFilter) ([]models.Vital, error) {
	args := m.Called(ctx, ownerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Vital), args.Error(1)
}

func (m *MockVitalRepository) GetByID(ctx context.Context, id, ownerID uint) (*models.Vital, error) {
	args := m.Called(ctx, id, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vital), args.Error(1)
}

func (m *MockVitalRepository) Update(ctx context.Context, vital *models.Vital) error {
	return m.Called(ctx, vital).Error(0)
}

func (m *MockVitalRepository) Delete(ctx context.Context, id, ownerID uint) error {
	return m.Called(ctx, id, ownerID).Error(0)
}

func (m *MockVitalRepository) Stats(ctx context.Context, ownerID uint) (*models.VitalStats, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VitalStats), args.Error(1)
}

func (m *MockVitalRepository) Latest(ctx context.Context, ownerID uint) (*models.Vital, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vital), args.Error(1)
}

func (m *MockVitalRepository) DailyAverages(ctx context.Context, ownerID uint, startDate, endDate string) ([]models.DailyVitals, error) {
	args := m.Called(ctx, ownerID, startDate, endDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DailyVitals), args.Error(1)
}

func (m *MockVitalRepository) CountByOwner(ctx context.Context, ownerID uint) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

// MockShareRepository is a mock implementation of repositories.ShareRepository
type MockShareRepository struct {
	mock.Mock
}

func (m *MockShareRepository) Create(ctx context.Context, share *models.Share) error {
	return m.Called(ctx, share).Error(0)
}

func (m *MockShareRepository) ListForReport(ctx context.Context, reportID uint) ([]models.ReportShare, error) {
	args := m.Called(ctx, reportID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ReportShare), args.Error(1)
}

func (m *MockShareRepository) ListSharedWithEmail(ctx context.Context, email string, now time.Time) ([]models.SharedReport, error) {
	args := m.Called(ctx, email, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SharedReport), args.Error(1)
}

func (m *MockShareRepository) ListGrantedBy(ctx context.Context, grantorID uint) ([]models.GrantedShare, error) {
	args := m.Called(ctx, grantorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.GrantedShare), args.Error(1)
}

func (m *MockShareRepository) Delete(ctx context.Context, shareID, grantorID uint) (*models.Share, error) {
	args := m.Called(ctx, shareID, grantorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Share), args.Error(1)
}

func (m *MockShareRepository) DeleteForReport(ctx context.Context, reportID uint) ([]models.Share, error) {
	args := m.Called(ctx, reportID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Share), args.Error(1)
}

func (m *MockShareRepository) UpdateAccess(ctx context.Context, shareID, grantorID uint, accessType string) (*models.Share, error) {
	args := m.Called(ctx, shareID, grantorID, accessType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Share), args.Error(1)
}

func (m *MockShareRepository) HasAccess(ctx context.Context, reportID uint, email string, now time.Time) (bool, error) {
	args := m.Called(ctx, reportID, email, now)
	return args.Bool(0), args.Error(1)
}

func (m *MockShareRepository) CountGrantedBy(ctx context.Context, grantorID uint) (int64, error) {
	args := m.Called(ctx, grantorID)
	return args.Get(0).(int64), args.Error(1)
}

// MockFileStore is a mock implementation of storage.FileStore
type MockFileStore struct {
	mock.Mock
}

func (m *MockFileStore) Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	return m.Called(ctx, key, r, size, contentType).Error(0)
}

func (m *MockFileStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockFileStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

// MockPublisher is a mock implementation of services.ShareEventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishShareEvent(ctx context.Context, event models.ShareEvent) error {
	return m.Called(ctx, event).Error(0)
}
