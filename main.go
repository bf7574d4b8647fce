// File: main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"

	"playpark/config"
	"playpark/cron"
	"playpark/database"
	bookingRepoPkg "playpark/database/repository/booking"
	branchRepoPkg "playpark/database/repository/branch"
	sessionRepoPkg "playpark/database/repository/session"
	"playpark/handlers"
	"playpark/middleware"
	"playpark/routes"
	"playpark/services/bookingsvc"
	"playpark/services/payment"
	"playpark/services/sessionsvc"
	"playpark/services/verification"
	"playpark/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	stripe.Key = config.AppConfig.StripeKey

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	sessionRepo := sessionRepoPkg.NewMongoSessionRepo()
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	branchRepo := branchRepoPkg.NewMongoBranchRepo()

	// services.
	sessionService := &sessionsvc.DefaultSessionService{
		Sessions: sessionRepo,
		Bookings: bookingRepo,
		Branches: branchRepo,
		Logger:   logger,
	}
	bookingService := &bookingsvc.DefaultBookingService{
		Sessions: sessionRepo,
		Bookings: bookingRepo,
		Logger:   logger,
	}
	verificationService := &verification.DefaultVerificationService{
		Bookings: bookingRepo,
		Logger:   logger,
	}

	// handlers.
	handlerBundle := &routes.HandlerBundle{
		Sessions: handlers.NewSessionHandler(sessionService, utils.GetCacheClient(), logger),
		Bookings: handlers.NewBookingHandler(bookingService, payment.StripeResolver{}, logger),
		Verify:   handlers.NewVerifyHandler(verificationService, logger),
		Admin:    handlers.NewAdminHandler(sessionService, bookingService, logger),
	}

	routes.RegisterRoutes(router, handlerBundle)

	// Background seat-sum reconciliation.
	cron.InitReconcileWorker(bookingService)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
