package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/cmlabs-hris/leave-tracker-go/internal/config"
	appHTTP "github.com/cmlabs-hris/leave-tracker-go/internal/handler/http"
	"github.com/cmlabs-hris/leave-tracker-go/internal/pkg/cron"
	"github.com/cmlabs-hris/leave-tracker-go/internal/pkg/database"
	"github.com/cmlabs-hris/leave-tracker-go/internal/pkg/email"
	"github.com/cmlabs-hris/leave-tracker-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/leave-tracker-go/internal/pkg/sse"
	"github.com/cmlabs-hris/leave-tracker-go/internal/pkg/storage"
	"github.com/cmlabs-hris/leave-tracker-go/internal/repository/postgresql"
	authService "github.com/cmlabs-hris/leave-tracker-go/internal/service/auth"
	dashboardService "github.com/cmlabs-hris/leave-tracker-go/internal/service/dashboard"
	"github.com/cmlabs-hris/leave-tracker-go/internal/service/file"
	leaveService "github.com/cmlabs-hris/leave-tracker-go/internal/service/leave"
	notificationService "github.com/cmlabs-hris/leave-tracker-go/internal/service/notification"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	employeeRepo := postgresql.NewEmployeeRepository(db)
	leaveTypeRepo := postgresql.NewLeaveTypeRepository(db)
	leaveBalanceRepo := postgresql.NewLeaveBalanceRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)
	dashboardRepo := postgresql.NewDashboardRepository(db)
	txRunner := postgresql.NewTxRunner(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	if err != nil {
		log.Fatal("Failed to initialize local storage:", err)
	}
	fileService := file.NewService(fileStorage)

	emailService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		log.Fatal("Failed to initialize email service:", err)
	}

	hub := sse.NewHub()
	validator := leaveService.NewValidator(leaveBalanceRepo, leaveRequestRepo, holidayRepo)
	dispatcher := notificationService.NewDispatcher(
		notificationRepo,
		employeeRepo,
		hub,
		emailService,
		validator,
		notificationService.Config{},
	)
	defer dispatcher.Stop()

	balanceSvc := leaveService.NewBalanceService(leaveTypeRepo, leaveBalanceRepo, employeeRepo)
	requestSvc := leaveService.NewRequestService(
		txRunner,
		leaveTypeRepo,
		leaveBalanceRepo,
		leaveRequestRepo,
		employeeRepo,
		validator,
		fileService,
		dispatcher,
	)
	dashboardSvc := dashboardService.NewService(dashboardRepo, leaveRequestRepo, holidayRepo, employeeRepo)
	authSvc := authService.NewService(employeeRepo, jwtService)

	// Daily sweep keeps the current year's balances provisioned; CreateIfAbsent
	// makes the repeats no-ops.
	scheduler := cron.NewScheduler()
	scheduler.AddJob("provision-leave-balances", 24*time.Hour, func(ctx context.Context) error {
		return balanceSvc.ProvisionAll(ctx, time.Now().Year())
	})
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(appHTTP.RouterDeps{
		JWTService:   jwtService,
		Auth:         appHTTP.NewAuthHandler(authSvc, jwtService),
		Leave:        appHTTP.NewLeaveHandler(leaveTypeRepo, balanceSvc, requestSvc),
		Holiday:      appHTTP.NewHolidayHandler(holidayRepo),
		Dashboard:    appHTTP.NewDashboardHandler(dashboardSvc),
		Notification: appHTTP.NewNotificationHandler(dispatcher, jwtService),
		Env:          cfg.App.Env,
		UploadsDir:   cfg.Storage.BasePath,
	})

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
