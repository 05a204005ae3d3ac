package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"bankagent/configs"
	"bankagent/internal/adapter"
	"bankagent/internal/adapter/rulebased"
	"bankagent/internal/database"
	delivery "bankagent/internal/delivery/http"
	"bankagent/internal/domain"
	"bankagent/internal/infra"
	"bankagent/internal/repository"
	"bankagent/internal/repository/memory"
	"bankagent/internal/service"
	"bankagent/internal/usecase"
	"bankagent/pkg/metrics"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	cfg := configs.Load()
	ctx := context.Background()

	// Choose ledger backend: Postgres when configured, in-memory otherwise.
	store, cleanup := buildStore(ctx, cfg)
	defer cleanup()

	// Choose model backend: Groq when an API key is configured, the
	// rule-based classifier and planner otherwise.
	classifier, planner := buildModel(cfg)

	collector := metrics.NewCollector()
	operations := usecase.NewOperations(store)
	executor := usecase.NewExecutor(operations)
	agent := usecase.NewAgent(classifier, planner, executor, collector)

	auditService := service.NewAuditService(store)
	scheduler := infra.NewScheduler(auditService)

	if len(os.Args) > 1 && os.Args[1] == "serve" {
		runServer(cfg, agent, store, scheduler, collector)
		return
	}

	runInteractive(ctx, agent, store)
}

// buildStore returns the configured ledger store and a cleanup func.
func buildStore(ctx context.Context, cfg *configs.Config) (domain.LedgerStore, func()) {
	if cfg.Database.URL == "" {
		log.Println("DATABASE_URL not set, using in-memory ledger")
		return memory.NewLedger(), func() {}
	}

	db, err := infra.NewDatabase(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.RunMigrations(ctx, db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("✓ Connected to Postgres ledger")
	return repository.NewLedgerRepository(db), db.Close
}

// buildModel returns the classifier and planner pair.
func buildModel(cfg *configs.Config) (domain.Classifier, domain.Planner) {
	if cfg.Model.APIKey == "" {
		log.Println("GROQ_API_KEY not set, using rule-based classifier and planner")
		return rulebased.NewClassifier(), rulebased.NewPlanner()
	}

	client := adapter.NewGroqClient(cfg.Model.BaseURL, cfg.Model.APIKey, cfg.Model.Model, cfg.Model.FallbackModels)
	log.Printf("✓ Using model %s with %d fallbacks", cfg.Model.Model, len(cfg.Model.FallbackModels))
	return client, client
}

// runInteractive runs the terminal loop. One query per line; 'setup'
// seeds the demo ledger, 'quit'/'exit'/'q' leaves.
func runInteractive(ctx context.Context, agent *usecase.Agent, store domain.LedgerStore) {
	fmt.Println("========================================")
	fmt.Println("  Banking Agent")
	fmt.Println("========================================")
	fmt.Println("Type 'setup' to create demo accounts, 'quit' to exit.")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch strings.ToLower(line) {
		case "quit", "exit", "q":
			fmt.Println("Goodbye!")
			return
		case "setup":
			demo, err := usecase.SeedDemoData(ctx, store)
			if err != nil {
				fmt.Printf("Setup failed: %v\n", err)
				continue
			}
			fmt.Printf("Demo ready: accounts %d ($5000.00) and %d ($2000.00)\n", demo.Account1, demo.Account2)
			continue
		}

		queryCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
		reply := agent.ProcessQuery(queryCtx, line)
		cancel()
		fmt.Println(reply)
	}

	if err := scanner.Err(); err != nil {
		log.Printf("input error: %v", err)
	}
}

// runServer starts the API server, the metrics endpoint, and the
// hourly ledger audit, then blocks until interrupted.
func runServer(cfg *configs.Config, agent *usecase.Agent, store domain.LedgerStore, scheduler *infra.Scheduler, collector *metrics.Collector) {
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start audit scheduler: %v", err)
	}
	defer scheduler.Stop()

	e := echo.New()
	e.HideBanner = true
	delivery.SetupRoutes(e, &delivery.RouterConfig{
		QueryHandler:  delivery.NewQueryHandler(agent),
		LedgerHandler: delivery.NewLedgerHandler(store),
		Scheduler:     scheduler,
	})

	// Metrics on a separate port so the scrape surface stays off the
	// public API.
	mux := chi.NewRouter()
	mux.Use(chimiddleware.Recoverer)
	mux.Handle("/metrics", collector.Handler())

	metricsSrv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Metrics.Port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("📊 Metrics listening on :%s", cfg.Metrics.Port)
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start metrics server: %v", err)
		}
	}()

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		log.Printf("🚀 Banking Agent API starting on %s", addr)
		log.Printf("📊 Environment: %s", cfg.Server.Env)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	if err := metricsSrv.Shutdown(ctx); err != nil {
		log.Fatalf("Metrics server forced to shutdown: %v", err)
	}

	log.Println("✓ Server exited gracefully")
}
