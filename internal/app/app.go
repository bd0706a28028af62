// Package app wires repositories, services and the HTTP router together.
package app

import (
	"healthwallet/internal/config"
	"healthwallet/internal/repositories"
	"healthwallet/internal/services"
	"healthwallet/internal/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Cfg   *config.Config
	DB    *gorm.DB
	Files storage.FileStore
	Log   *zap.Logger

	AuthService      *services.AuthService
	UserService      *services.UserService
	ReportService    *services.ReportService
	VitalService     *services.VitalService
	ShareService     *services.ShareService
	DashboardService *services.DashboardService
}

// New builds the services on top of an open, migrated database. publisher may
// be nil, in which case share events are not sent.
func New(cfg *config.Config, db *gorm.DB, files storage.FileStore, publisher services.ShareEventPublisher, log *zap.Logger) *App {
	// Repositories
	userRepository := repositories.NewGORMUserRepository(db)
	reportRepository := repositories.NewGORMReportRepository(db)
	vitalRepository := repositories.NewGORMVitalRepository(db)
	shareRepository := repositories.NewGORMShareRepository(db)

	// Services
	authService := services.NewAuthService(userRepository, cfg.JWTSecret, cfg.JWTTTL)
	userService := services.NewUserService(userRepository, reportRepository, files, log)
	reportService := services.NewReportService(reportRepository, files, cfg.MaxFileSize, log)
	vitalService := services.NewVitalService(vitalRepository)
	shareService := services.NewShareService(shareRepository, reportRepository, userRepository, files, publisher, log)
	dashboardService := services.NewDashboardService(reportRepository, vitalRepository, shareRepository)

	return &App{
		Cfg:              cfg,
		DB:               db,
		Files:            files,
		Log:              log,
		AuthService:      authService,
		UserService:      userService,
		ReportService:    reportService,
		VitalService:     vitalService,
		ShareService:     shareService,
		DashboardService: dashboardService,
	}
}
