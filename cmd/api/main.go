package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/cors"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/vpay/vpay-backend/internal/config"
	"github.com/vpay/vpay-backend/internal/handler"
	"github.com/vpay/vpay-backend/internal/integrations/razorpay"
	"github.com/vpay/vpay-backend/internal/metrics"
	"github.com/vpay/vpay-backend/internal/middleware"
	"github.com/vpay/vpay-backend/internal/repository"
	"github.com/vpay/vpay-backend/internal/scheduler"
	"github.com/vpay/vpay-backend/internal/service"
	"github.com/vpay/vpay-backend/internal/speech"
	"github.com/vpay/vpay-backend/internal/token"
	"github.com/vpay/vpay-backend/internal/utils/email"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load .env for local development; in production env vars are set directly
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using environment variables")
	}

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	repo, err := repository.New(cfg.DBPath)
	if err != nil {
		logger.Fatalf("Failed to open database: %v", err)
	}
	defer repo.Close()

	// Initialize layers
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)
	tokens := token.NewService(cfg.JWTSecret)
	gateway := razorpay.NewClient(cfg, logger)

	var mailer *email.Sender
	if cfg.EmailEnabled() {
		mailer = email.NewSender(cfg, logger)
	} else {
		logger.Info("SMTP not configured, outbound email disabled")
	}

	accounts := service.NewAccountService(repo, tokens, collector, logger, cfg)
	payments := service.NewPaymentService(repo, gateway, mailer, collector, logger, cfg)
	recognizer := speech.NewRecognizer(logger)
	h := handler.NewHandler(accounts, payments, recognizer, logger)

	// Pending-payment reminders run only when email is configured
	if mailer != nil {
		sched, err := scheduler.New(repo, mailer, logger, cfg)
		if err != nil {
			logger.Fatalf("Failed to set up scheduler: %v", err)
		}
		sched.Start()
		defer sched.Stop()
	}

	// Setup router
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(logger))
	r.Use(collector.Middleware)

	// Public routes
	r.HandleFunc("/", h.Root).Methods("GET")
	r.HandleFunc("/healthz", h.Health).Methods("GET")
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods("GET")
	r.HandleFunc("/api/auth/signup", h.Signup).Methods("POST")
	r.HandleFunc("/api/auth/login", h.Login).Methods("POST")
	r.HandleFunc("/api/speech/process-audio", h.ProcessAudio).Methods("POST")

	// Protected routes
	authRouter := r.PathPrefix("/api").Subrouter()
	authRouter.Use(middleware.Auth(tokens, repo))
	authRouter.HandleFunc("/auth/me", h.Me).Methods("GET")
	authRouter.HandleFunc("/auth/transactions", h.Transactions).Methods("GET")
	authRouter.HandleFunc("/auth/transactions/export", h.ExportTransactions).Methods("GET")
	authRouter.HandleFunc("/payment/create-order", h.CreateOrder).Methods("POST")
	authRouter.HandleFunc("/payment/verify-payment", h.VerifyPayment).Methods("POST")

	// The React dev server runs on another origin
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler(r)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      corsHandler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}
