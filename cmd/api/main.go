package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/Atlantic-Sunrise/smartbiz-qualifier-sub000/internal/auth"
	"github.com/Atlantic-Sunrise/smartbiz-qualifier-sub000/internal/config"
	"github.com/Atlantic-Sunrise/smartbiz-qualifier-sub000/internal/database"
	"github.com/Atlantic-Sunrise/smartbiz-qualifier-sub000/internal/handler"
	"github.com/Atlantic-Sunrise/smartbiz-qualifier-sub000/internal/logger"
	"github.com/Atlantic-Sunrise/smartbiz-qualifier-sub000/internal/mailer"
	middlewarepkg "github.com/Atlantic-Sunrise/smartbiz-qualifier-sub000/internal/middleware"
	"github.com/Atlantic-Sunrise/smartbiz-qualifier-sub000/internal/repository"
	"github.com/Atlantic-Sunrise/smartbiz-qualifier-sub000/internal/router"
	"github.com/Atlantic-Sunrise/smartbiz-qualifier-sub000/internal/service"
	"github.com/Atlantic-Sunrise/smartbiz-qualifier-sub000/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logg, err := logger.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logg.Fatalf("failed to connect database: %v", err)
	}
	defer pool.Close()

	if err := database.EnsureSchema(ctx, pool); err != nil {
		logg.Fatalf("failed to apply schema: %v", err)
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	usersRepo := repository.NewPGXUsersRepository(pool)
	qualificationsRepo := repository.NewPGXQualificationsRepository(pool)
	profilesRepo := repository.NewPGXProfilesRepository(pool)

	extractor := service.NewWebsiteExtractor(cfg.WebsiteFetchTimeout)
	generator := service.NewOpenAIGenerator(service.OpenAIGeneratorConfig{
		BaseURL:  cfg.Generation.BaseURL,
		Model:    cfg.Generation.Model,
		Timeout:  cfg.Generation.Timeout,
		JSONMode: cfg.Generation.JSONMode,
	})
	if cfg.Generation.APIKey == "" {
		logg.Warn("GENERATION_API_KEY not set, analyses need a caller or profile key")
	}

	analysisService := service.NewAnalysisService(extractor, generator, cfg.Generation.APIKey, logg)
	qualificationService := service.NewQualificationService(qualificationsRepo, profilesRepo, analysisService, logg)
	profileService := service.NewProfileService(profilesRepo)
	authService := service.NewAuthService(usersRepo, jwtManager)

	var resolver service.DNSResolver
	if cfg.Mail.VerifyMX {
		resolver = service.SystemDNSResolver()
	}
	dispatcher := mailer.NewHTTPDispatcher(nil, cfg.Mail.DispatchURL, cfg.Mail.From)
	if cfg.Mail.DispatchURL == "" {
		logg.Warn("MAIL_DISPATCH_URL not set, report emails are disabled")
	}

	var objectStore service.ObjectStore
	storageCfg := storage.Config{
		Endpoint:  cfg.Minio.Endpoint,
		Region:    cfg.Minio.Region,
		Bucket:    cfg.Minio.BucketName,
		AccessKey: cfg.Minio.AccessKey,
		SecretKey: cfg.Minio.SecretKey,
		UseSSL:    cfg.Minio.UseSSL,
	}
	if storageCfg.Enabled() {
		store, err := storage.New(ctx, storageCfg)
		if err != nil {
			logg.Fatalf("failed to init report storage: %v", err)
		}
		objectStore = store
	} else {
		logg.Info("MINIO_ENDPOINT not set, report export is disabled")
	}

	reportService := service.NewReportService(qualificationService, dispatcher, service.NewRecipientValidator(resolver), objectStore, logg)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging(logg))
	e.Use(echoMiddleware.Recover())

	router.Register(e, cfg, jwtManager, router.Handlers{
		Auth:           handler.NewAuthHandler(authService),
		Profile:        handler.NewProfileHandler(profileService),
		Qualifications: handler.NewQualificationsHandler(qualificationService, reportService),
		Reports:        handler.NewReportsHandler(reportService),
	})

	serverErr := make(chan error, 1)
	go func() {
		logg.WithField("port", cfg.Port).Info("api listening")
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logg.Infof("received signal %s, shutting down", sig)
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Fatalf("server error: %v", err)
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logg.Errorf("graceful shutdown failed: %v", err)
	}
}
