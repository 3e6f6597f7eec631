package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/valedagnoli/daypulse/internal/adapters/cache"
	"github.com/valedagnoli/daypulse/internal/adapters/export"
	adapterHTTP "github.com/valedagnoli/daypulse/internal/adapters/handler/http"
	"github.com/valedagnoli/daypulse/internal/adapters/repository"
	"github.com/valedagnoli/daypulse/internal/core/domain"
	"github.com/valedagnoli/daypulse/internal/core/services"
	"github.com/valedagnoli/daypulse/internal/core/workers"
)

const appName = "DayPulse"

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	startTime := time.Now()

	_ = godotenv.Load()

	dbUser := os.Getenv("DB_USER")
	dbPass := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	serverPort := getEnv("PORT", "8080")

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("Critical: JWT_SECRET is required")
	}
	jwtIssuer := getEnv("JWT_ISSUER", "daypulse")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPass, dbHost, dbPort, dbName)

	log.Println("Connecting to database...")

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		log.Fatalf("Critical: Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	log.Println("Database connected successfully.")

	// Redis is optional: without it the API runs with no rate limiter and
	// no habit-list cache.
	var rdb *redis.Client
	if host := os.Getenv("REDIS_HOST"); host != "" {
		redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
		rdb, err = cache.NewRedisClient(host, getEnv("REDIS_PORT", "6379"), os.Getenv("REDIS_PASSWORD"), redisDB)
		if err != nil {
			log.Printf("Redis unavailable, continuing without cache: %v", err)
			rdb = nil
		} else {
			defer rdb.Close()
			log.Println("Redis connected successfully.")
		}
	}

	userRepo := repository.NewPostgresUserRepository(db)
	entryRepo := repository.NewPostgresEntryRepository(db)
	routineRepo := repository.NewPostgresRoutineRepository(db)
	tradeRepo := repository.NewPostgresTradeRepository(db)

	var habitRepo domain.HabitRepository = repository.NewPostgresHabitRepository(db)
	if rdb != nil {
		habitRepo = repository.NewCachedHabitRepository(habitRepo, rdb)
	}

	streakWorker := workers.NewStreakWorker(habitRepo, entryRepo)
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	streakWorker.Start(workerCtx)

	tokenService := services.NewTokenService(jwtSecret, jwtIssuer, 24*time.Hour, userRepo)
	authService := services.NewAuthService(userRepo, tokenService)
	habitService := services.NewHabitService(habitRepo)
	entryService := services.NewEntryService(entryRepo, habitRepo, streakWorker)
	routineService := services.NewRoutineService(routineRepo, habitRepo, entryRepo)
	tradeService := services.NewTradeService(tradeRepo)
	statsService := services.NewStatsService(habitRepo, entryRepo)
	reportService := services.NewReportService(tradeRepo, userRepo, export.NewPDFRenderer(), appName)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:    adapterHTTP.NewAuthHandler(authService),
		HabitHandler:   adapterHTTP.NewHabitHandler(habitService),
		EntryHandler:   adapterHTTP.NewEntryHandler(entryService),
		RoutineHandler: adapterHTTP.NewRoutineHandler(routineService),
		TradeHandler:   adapterHTTP.NewTradeHandler(tradeService),
		StatsHandler:   adapterHTTP.NewStatsHandler(statsService),
		ReportHandler:  adapterHTTP.NewReportHandler(reportService),
		TokenService:   tokenService,
		DB:             db,
		Redis:          rdb,
		StartTime:      startTime,
	})

	srv := &http.Server{
		Addr:         ":" + serverPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("%s API running on http://localhost:%s", appName, serverPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Critical server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Stop signal received. Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Forced shutdown error:", err)
	}

	stopWorker()

	log.Println("Server stopped gracefully.")
}
