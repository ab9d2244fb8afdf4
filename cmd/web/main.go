package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"ugiot.co.il/app/internal/config"
	"ugiot.co.il/app/internal/db"
	apphttp "ugiot.co.il/app/internal/http"
	"ugiot.co.il/app/internal/http/cartcookie"
	"ugiot.co.il/app/internal/http/middleware"
	"ugiot.co.il/app/internal/http/validation"
	"ugiot.co.il/app/internal/modules/auth"
	"ugiot.co.il/app/internal/modules/cart"
	"ugiot.co.il/app/internal/modules/checkout"
	"ugiot.co.il/app/internal/modules/email"
	"ugiot.co.il/app/internal/modules/newsletter"
	"ugiot.co.il/app/internal/modules/notifications"
	"ugiot.co.il/app/internal/modules/orders"
	"ugiot.co.il/app/internal/modules/products"
	"ugiot.co.il/app/internal/modules/profiles"
	"ugiot.co.il/app/internal/modules/reviews"
	"ugiot.co.il/app/internal/modules/users"
	"ugiot.co.il/app/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	gdb, err := db.Open(cfg.DBDSN, cfg.LogLevel == "debug")
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer sqlDB.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	files, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	sender, err := email.NewSender(cfg, logger)
	if err != nil {
		log.Fatalf("email: %v", err)
	}

	authRepo := auth.NewRepo(gdb)
	authSvc := auth.NewService(authRepo, cfg.SessionTTL)
	profileRepo := profiles.NewRepo(gdb)
	profileCache := profiles.NewCache(cfg.SessionTTL)
	orderRepo := orders.NewRepo(gdb)
	catalog := products.NewCatalog(products.NewRepo(gdb), files, logger)

	checkoutSvc := checkout.NewService(checkout.Deps{
		Reconciler:  checkout.NewReconciler(profileRepo, profileCache),
		Orders:      orderRepo,
		Guest:       orders.NewGuestProcedure(gdb, orders.NewRateLimiter(cfg.GuestRateLimit, cfg.GuestRateWindow), logger),
		Mailer:      email.NewConfirmationSender(sender),
		NotifyLog:   notifications.NewRecorder(gdb, logger),
		OwnerNumber: cfg.OwnerWhatsApp,
		Log:         logger,
	})

	var uploadsPrefix, uploadsDir string
	if cfg.Storage.Driver == "local" {
		uploadsPrefix, uploadsDir = cfg.Storage.LocalURLPrefix, cfg.Storage.LocalDir
	}

	r := apphttp.NewRouter(apphttp.Deps{
		Log:         logger,
		DefaultLang: validation.ParseLang(cfg.DefaultLang),
		CartCookie:  cartcookie.New(cfg.SessionSecret, cfg.CartCookie, cfg.SecureCookies),
		Session: middleware.SessionCfg{
			Auth:       authSvc,
			CookieName: cfg.SessionCookie,
			Secure:     cfg.SecureCookies,
			TTL:        cfg.SessionTTL,
			Log:        logger,
		},
		DB:               sqlDB,
		TrustedProxies:   cfg.TrustedProxies,
		UploadsURLPrefix: uploadsPrefix,
		UploadsDir:       uploadsDir,
		Auth:             authSvc,
		Catalog:          catalog,
		Checkout:         checkoutSvc,
		Profiles:         profileRepo,
		ProfileCache:     profileCache,
		Passwords:        users.NewPasswordChangeService(authRepo),
		Orders:           orderRepo,
		OrderAdmin:       orders.NewAdminService(gdb),
		Reviews:          reviews.NewService(reviews.NewRepo(gdb)),
		Newsletter:       newsletter.NewService(newsletter.NewRepo(gdb)),
		NewNumber:        cart.OrderNumberGenerator(nil),
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("http server listening", "addr", cfg.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
	}
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
