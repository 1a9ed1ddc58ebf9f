package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"cleansched/internal/accounts"
	"cleansched/internal/accounts/account_api"
	accountsdb "cleansched/internal/accounts/db"
	"cleansched/internal/auth"
	"cleansched/internal/calendar"
	"cleansched/internal/calendar/calendar_api"
	"cleansched/internal/config"
	"cleansched/internal/database"
	"cleansched/internal/database/migrations"
	"cleansched/internal/kafka"
	"cleansched/internal/logger"
	"cleansched/internal/orders"
	ordersdb "cleansched/internal/orders/db"
	"cleansched/internal/orders/order_api"
	"cleansched/internal/staff"
	staffdb "cleansched/internal/staff/db"
	"cleansched/internal/staff/staff_api"
	"cleansched/internal/stats"
	"cleansched/internal/stats/stats_api"
)

func openDatabase(cfg config.DatabaseConfig, log *logger.Logger) *bun.DB {
	var (
		sqldb   *sql.DB
		bunDB   *bun.DB
		err     error
		dialect = cfg.Driver
	)

	switch dialect {
	case "sqlite":
		sqldb, err = sql.Open(sqliteshim.ShimName, cfg.DSN)
		if err != nil {
			log.Fatal("DATABASE", fmt.Sprintf("failed to open SQLite: %v", err))
		}
		// In-memory SQLite loses its schema on every new pooled connection.
		sqldb.SetMaxOpenConns(1)
		bunDB = bun.NewDB(sqldb, sqlitedialect.New())
	default:
		sqldb, err = sql.Open("postgres", cfg.DSN)
		if err != nil {
			log.Fatal("DATABASE", fmt.Sprintf("failed to open Postgres: %v", err))
		}
		sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
		sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
		bunDB = bun.NewDB(sqldb, pgdialect.New())
	}

	if err := sqldb.Ping(); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("failed to connect to %s: %v", dialect, err))
	}
	log.Info("DATABASE", fmt.Sprintf("connected (%s)", dialect))
	return bunDB
}

func prepareSchema(ctx context.Context, cfg config.DatabaseConfig, bunDB *bun.DB, log *logger.Logger) {
	if cfg.Driver == "sqlite" {
		if err := database.CreateSchema(ctx, bunDB); err != nil {
			log.Fatal("DATABASE", fmt.Sprintf("failed to create schema: %v", err))
		}
		return
	}

	runner := migrations.NewRunner(bunDB, cfg.MigrationsDir)
	if err := runner.Up(); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("migrations failed: %v", err))
	}
}

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log, err := logger.New(cfg.LogDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Close()

	ctx := context.Background()
	bunDB := openDatabase(cfg.Database, log)
	defer bunDB.Close()
	prepareSchema(ctx, cfg.Database, bunDB, log)

	// --- Events ---
	var orderEvents orders.EventPublisher = kafka.NoopPublisher{}
	var staffEvents staff.EventPublisher = kafka.NoopPublisher{}
	if cfg.Kafka.Enabled {
		if !cfg.Kafka.MockMode {
			topics := []string{cfg.Kafka.Topics.OrderEvents, cfg.Kafka.Topics.StaffEvents}
			if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, topics); err != nil {
				log.Warn("KAFKA", fmt.Sprintf("topic bootstrap failed: %v", err))
			}
		}
		producer := kafka.NewProducer(cfg.Kafka, log)
		defer producer.Close()
		orderEvents = producer
		staffEvents = producer
	}

	// --- Services ---
	tokens := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	orderDB := &ordersdb.DB{Bun: bunDB}
	staffDB := &staffdb.DB{Bun: bunDB}

	orderService := orders.NewOrderService(orderDB, orderEvents, log)
	staffService := staff.NewStaffService(staffDB, staffEvents, log)
	calendarService := calendar.NewService(orderDB)
	statsService := stats.NewService(stats.NewDB(bunDB))
	accountService := accounts.NewAccountService(&accountsdb.DB{Bun: bunDB}, tokens)

	orderHandler := order_api.NewHandler(orderService, log)
	staffHandler := staff_api.NewHandler(staffService, log)
	calendarHandler := calendar_api.NewHandler(calendarService, log)
	statsHandler := stats_api.NewHandler(statsService, log)
	accountHandler := account_api.NewHandler(accountService, log)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(requestLogger(log))
	r.Route("/api", func(r chi.Router) {
		accountHandler.RegisterPublicRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(tokens))
			orderHandler.RegisterRoutes(r)
			staffHandler.RegisterRoutes(r)
			calendarHandler.RegisterRoutes(r)
			statsHandler.RegisterRoutes(r)
			accountHandler.RegisterRoutes(r)
		})
	})

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("SERVER", fmt.Sprintf("scheduler service on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("SERVER", fmt.Sprintf("HTTP error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctxShutdown, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_ = server.Shutdown(ctxShutdown)
	log.Info("SERVER", "shutdown complete")
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

func requestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			log.LogAPI(r.Method, r.URL.Path, rec.status, time.Since(start))
		})
	}
}
