package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/courtline/courtline-api/internal/config"
	"github.com/courtline/courtline-api/internal/database"
	"github.com/courtline/courtline-api/internal/handler"
	"github.com/courtline/courtline-api/internal/middleware"
	"github.com/courtline/courtline-api/internal/models"
	"github.com/courtline/courtline-api/internal/repository"
	"github.com/courtline/courtline-api/internal/router"
	"github.com/courtline/courtline-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.TennisClub{},
		&models.User{},
		&models.CoachDetails{},
		&models.CoachInvitation{},
		&models.TeachingPeriod{},
		&models.TennisGroup{},
		&models.Student{},
		&models.ProgrammePlayer{},
		&models.ReportTemplate{},
		&models.TemplateSection{},
		&models.TemplateField{},
		&models.GroupTemplate{},
		&models.Report{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	validate := validator.New(validator.WithRequiredStructEnabled())

	clubRepo := repository.NewClubRepository(db)
	userRepo := repository.NewUserRepository(db)
	detailsRepo := repository.NewCoachDetailsRepository(db)
	invitationRepo := repository.NewInvitationRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	periodRepo := repository.NewPeriodRepository(db)
	playerRepo := repository.NewProgrammePlayerRepository(db)
	templateRepo := repository.NewTemplateRepository(db)
	reportRepo := repository.NewReportRepository(db)

	dashboardService := service.NewDashboardService(playerRepo, periodRepo, redisClient, cfg.DashboardCacheTTL, logger)
	clubService := service.NewClubService(clubRepo, userRepo, validate, logger)
	invitationService := service.NewInvitationService(invitationRepo, userRepo, validate, logger, cfg.InvitationTTL)
	coachService := service.NewCoachService(userRepo, detailsRepo, validate, logger)
	programmeService := service.NewProgrammeService(periodRepo, groupRepo, studentRepo, playerRepo, userRepo, reportRepo, validate, logger, dashboardService)
	templateService := service.NewTemplateService(templateRepo, groupRepo, validate, logger)
	reportService := service.NewReportService(reportRepo, playerRepo, templateRepo, groupRepo, periodRepo, validate, logger, service.NewJSONRenderer(), cfg.ReportSenderEmail, dashboardService)

	healthHandler := handler.NewHealthHandler(cfg.AppName, cfg.AppEnv)
	clubHandler := handler.NewClubHandler(clubService, logger)
	coachHandler := handler.NewCoachHandler(coachService, invitationService, logger)
	programmeHandler := handler.NewProgrammeHandler(programmeService, logger)
	templateHandler := handler.NewTemplateHandler(templateService, logger)
	reportHandler := handler.NewReportHandler(reportService, logger)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		HealthHandler:    healthHandler,
		ClubHandler:      clubHandler,
		CoachHandler:     coachHandler,
		ProgrammeHandler: programmeHandler,
		TemplateHandler:  templateHandler,
		ReportHandler:    reportHandler,
		DashboardHandler: dashboardHandler,
		JWTMiddleware:    middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
