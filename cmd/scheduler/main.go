package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"

	"github.com/peteCoder/seashore-mf-be/internal/calculator"
	"github.com/peteCoder/seashore-mf-be/internal/config"
	"github.com/peteCoder/seashore-mf-be/internal/repository"
	"github.com/peteCoder/seashore-mf-be/internal/service"
)

func main() {
	log.Println("Starting loan scheduler...")

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	loanRepo := repository.NewLoanRepository(db)
	repaymentRepo := repository.NewRepaymentRepository(db)
	engine := calculator.NewEngine(calculator.DefaultRateTable())

	// The sweep does not touch the schedule cache, so no Redis client here.
	loanService := service.NewLoanService(loanRepo, repaymentRepo, engine, nil, cfg)

	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		log.Fatalf("Invalid scheduler timezone %q: %v", cfg.Scheduler.Timezone, err)
	}

	c := cron.New(cron.WithSeconds(), cron.WithLocation(location))

	// Daily sweep flipping active loans past their next repayment date to overdue
	_, err = c.AddFunc(cfg.Scheduler.OverdueCron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		flipped, err := loanService.MarkOverdueLoans(ctx)
		if err != nil {
			log.Printf("Overdue sweep failed: %v", err)
			return
		}
		log.Printf("Overdue sweep complete: %d loan(s) marked overdue", flipped)
	})
	if err != nil {
		log.Fatalf("Error scheduling overdue sweep: %v", err)
	}

	c.Start()
	log.Println("Scheduler started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down scheduler...")
	c.Stop()
	log.Println("Scheduler stopped")
}
