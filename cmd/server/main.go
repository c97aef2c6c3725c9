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

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/peteCoder/seashore-mf-be/internal/calculator"
	"github.com/peteCoder/seashore-mf-be/internal/config"
	"github.com/peteCoder/seashore-mf-be/internal/handler"
	"github.com/peteCoder/seashore-mf-be/internal/repository"
	"github.com/peteCoder/seashore-mf-be/internal/service"
	"github.com/peteCoder/seashore-mf-be/pkg/response"
)

func main() {
	// Load .env if present, then configuration
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Initialize Redis
	redisClient := initRedis(cfg)
	defer redisClient.Close()

	// Initialize repositories
	loanRepo := repository.NewLoanRepository(db)
	repaymentRepo := repository.NewRepaymentRepository(db)

	// Initialize rate engine and service
	engine := calculator.NewEngine(calculator.DefaultRateTable())
	loanService := service.NewLoanService(loanRepo, repaymentRepo, engine, redisClient, cfg)

	loanHandler := handler.NewLoanHandler(loanService)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	// Setup routes
	router := setupRoutes(loanHandler, healthHandler)

	// Start server
	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func setupRoutes(loanHandler *handler.LoanHandler, healthHandler *handler.HealthHandler) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware)
	router.Use(response.CORSMiddleware)

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/loans", loanHandler.Apply).Methods("POST")
	api.HandleFunc("/loans/{loanNumber}", loanHandler.Get).Methods("GET")
	api.HandleFunc("/loans/{loanNumber}/approve", loanHandler.Approve).Methods("POST")
	api.HandleFunc("/loans/{loanNumber}/reject", loanHandler.Reject).Methods("POST")
	api.HandleFunc("/loans/{loanNumber}/disburse", loanHandler.Disburse).Methods("POST")
	api.HandleFunc("/loans/{loanNumber}/repayments", loanHandler.Repay).Methods("POST")
	api.HandleFunc("/loans/{loanNumber}/repayments", loanHandler.Repayments).Methods("GET")
	api.HandleFunc("/loans/{loanNumber}/schedule", loanHandler.Schedule).Methods("GET")
	api.HandleFunc("/loans/{loanNumber}/overdue", loanHandler.Overdue).Methods("GET")
	api.HandleFunc("/rates/{frequency}", loanHandler.Rates).Methods("GET")

	return router
}
