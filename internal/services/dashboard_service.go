package services

import (
	"context"

	"healthwallet/internal/models"
	"healthwallet/internal/repositories"

	"golang.org/x/sync/errgroup"
)

// DashboardStats summarizes one user's records.
type DashboardStats struct {
	TotalReports  int64              `json:"totalReports"`
	TotalVitals   int64              `json:"totalVitals"`
	SharedReports int64              `json:"sharedReports"`
	VitalStats    *models.VitalStats `json:"vitalStats"`
	LatestVital   *models.Vital      `json:"latestVital"`
}

// DashboardService gathers the dashboard counters.
type DashboardService struct {
	reports repositories.ReportRepository
	vitals  repositories.VitalRepository
	shares  repositories.ShareRepository
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(reports repositories.ReportRepository, vitals repositories.VitalRepository, shares repositories.ShareRepository) *DashboardService {
	return &DashboardService{reports: reports, vitals: vitals, shares: shares}
}

// Stats runs the independent queries concurrently and fails on the first error.
func (s *DashboardService) Stats(ctx context.Context, userID uint) (*DashboardStats, error) {
	var out DashboardStats
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		out.TotalReports, err = s.reports.CountByOwner(ctx, userID)
		return err
	})
	g.Go(func() (err error) {
		out.TotalVitals, err = s.vitals.CountByOwner(ctx, userID)
		return err
	})
	g.Go(func() (err error) {
		out.SharedReports, err = s.shares.CountGrantedBy(ctx, userID)
		return err
	})
	g.Go(func() (err error) {
		out.VitalStats, err = s.vitals.Stats(ctx, userID)
		return err
	})
	g.Go(func() (err error) {
		out.LatestVital, err = s.vitals.Latest(ctx, userID)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}
