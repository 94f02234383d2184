package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/mail"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	_ "github.com/noah-isme/academy-enrollment-api/api/swagger"
	"github.com/noah-isme/academy-enrollment-api/internal/handler"
	"github.com/noah-isme/academy-enrollment-api/internal/pricing"
	"github.com/noah-isme/academy-enrollment-api/internal/repository"
	"github.com/noah-isme/academy-enrollment-api/internal/service"
	"github.com/noah-isme/academy-enrollment-api/pkg/config"
	"github.com/noah-isme/academy-enrollment-api/pkg/export"
	"github.com/noah-isme/academy-enrollment-api/pkg/logger"
	"github.com/noah-isme/academy-enrollment-api/pkg/mailer"
	"github.com/noah-isme/academy-enrollment-api/pkg/storage"
)

// @title Academy Enrollment API
// @version 1.0.0
// @description Enrollment submission, notification and payment proof endpoints
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := newDocumentStore(ctx, cfg, logr)
	if err != nil {
		logr.Fatal("failed to init document store", zap.Error(err))
	}
	defer store.Close() //nolint:errcheck

	fees, err := pricing.FromConfig(cfg.Fees)
	if err != nil {
		logr.Fatal("invalid fee schedule", zap.Error(err))
	}

	validate := validator.New()
	metrics := service.NewMetricsService()
	repo := repository.NewEnrollmentRepository(store, cfg.Store.Prefix)

	files, err := storage.NewLocalStorage(cfg.Uploads.Dir)
	if err != nil {
		logr.Fatal("failed to init upload storage", zap.Error(err))
	}
	signingSecret := cfg.Uploads.SignedURLSecret
	if signingSecret == "" {
		signingSecret = uuid.NewString()
		logr.Warn("UPLOADS_SIGNED_URL_SECRET not set; payment proof links will not survive restarts")
	}
	signer := storage.NewSignedURLSigner(signingSecret, cfg.Uploads.SignedURLTTL)
	uploads := service.NewUploadService(files, signer, logr, service.UploadServiceConfig{
		MaxFileSize:   cfg.Uploads.MaxFileSizeBytes,
		AllowedMIMEs:  cfg.Uploads.AllowedMIMEs,
		PublicBaseURL: strings.TrimRight(cfg.SiteURL, "/") + "/" + strings.Trim(cfg.APIPrefix, "/"),
	})

	notifyCfg, err := notificationConfig(cfg)
	if err != nil {
		logr.Fatal("invalid mail configuration", zap.Error(err))
	}
	notifier, err := service.NewNotificationService(mailer.New(cfg.Mail, logr), notifyCfg, uploads, metrics, logr)
	if err != nil {
		logr.Fatal("failed to init notifications", zap.Error(err))
	}

	enrollments := service.NewEnrollmentService(repo, notifier, fees, uploads, metrics, validate, logr)
	receipts := service.NewReceiptService(enrollments, export.NewReceiptRenderer(), cfg.AppName)
	adminAuth := service.NewAdminAuthService(validate, logr, service.AdminAuthConfig{
		Email:        cfg.Admin.Email,
		PasswordHash: cfg.Admin.PasswordHash,
		Secret:       cfg.Admin.JWTSecret,
		Issuer:       cfg.Admin.JWTIssuer,
		Expiry:       cfg.Admin.JWTExpiry,
	})

	r := handler.NewRouter(handler.RouterConfig{
		APIPrefix:      cfg.APIPrefix,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		EnableDocs:     cfg.Env != config.EnvProduction,
		Logger:         logr,
		Metrics:        metrics,
		Tokens:         adminAuth,
		Enrollment:     handler.NewEnrollmentHandler(enrollments, receipts),
		Uploads:        handler.NewUploadHandler(uploads, cfg.Uploads.MaxFileSizeBytes),
		Admin:          handler.NewAdminHandler(adminAuth, enrollments),
		Probes:         handler.NewMetricsHandler(metrics, repo),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "store", cfg.Store.Driver, "mail", notifier.Enabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Mail.NotifyTimeout+5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

func notificationConfig(cfg *config.Config) (service.NotificationConfig, error) {
	out := service.NotificationConfig{
		AcademyName:    cfg.AppName,
		SupportAddress: cfg.Mail.SupportAddress,
		SiteURL:        cfg.SiteURL,
		Timeout:        cfg.Mail.NotifyTimeout,
	}
	if cfg.Mail.FromAddress != "" {
		from, err := mail.ParseAddress(cfg.Mail.FromAddress)
		if err != nil {
			return out, fmt.Errorf("MAIL_FROM_ADDRESS: %w", err)
		}
		if from.Name == "" {
			from.Name = cfg.Mail.FromName
		}
		out.From = *from
	}
	admins, err := mailer.ParseAddresses(cfg.Mail.AdminRecipients)
	if err != nil {
		return out, fmt.Errorf("MAIL_ADMIN_RECIPIENTS: %w", err)
	}
	bcc, err := mailer.ParseAddresses(cfg.Mail.Bcc)
	if err != nil {
		return out, fmt.Errorf("MAIL_BCC: %w", err)
	}
	out.AdminRecipients = admins
	out.Bcc = bcc
	return out, nil
}
