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
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"github.com/Harmonybod/Event-Ticketing-System/internal/auth"
	"github.com/Harmonybod/Event-Ticketing-System/internal/config"
	"github.com/Harmonybod/Event-Ticketing-System/internal/database/migrations"
	"github.com/Harmonybod/Event-Ticketing-System/internal/delivery"
	"github.com/Harmonybod/Event-Ticketing-System/internal/kafka"
	"github.com/Harmonybod/Event-Ticketing-System/internal/logger"
	"github.com/Harmonybod/Event-Ticketing-System/internal/models"
	"github.com/Harmonybod/Event-Ticketing-System/internal/reservation"
	reservation_api "github.com/Harmonybod/Event-Ticketing-System/internal/reservation/api"
	reservation_db "github.com/Harmonybod/Event-Ticketing-System/internal/reservation/db"
	rediswrap "github.com/Harmonybod/Event-Ticketing-System/internal/reservation/redis"
	"github.com/Harmonybod/Event-Ticketing-System/internal/scanner"
	scanner_api "github.com/Harmonybod/Event-Ticketing-System/internal/scanner/api"
	"github.com/Harmonybod/Event-Ticketing-System/internal/sweeper"
	"github.com/Harmonybod/Event-Ticketing-System/internal/tickets/qr"
)

func verifyConnections(ctx context.Context, cfg *config.Config, logger *logger.Logger) (*bun.DB, *redis.Client) {
	var sqldb *sql.DB
	var err error
	maxRetries := 5

	for i := 0; i < maxRetries; i++ {
		logger.Info("DATABASE", fmt.Sprintf("Attempting to connect to PostgreSQL (attempt %d/%d)", i+1, maxRetries))
		sqldb, err = sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			logger.Error("DATABASE", fmt.Sprintf("Failed to open PostgreSQL: %v", err))
			time.Sleep(2 * time.Second)
			continue
		}

		err = sqldb.Ping()
		if err == nil {
			break
		}

		logger.Error("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL: %v", err))
		if i < maxRetries-1 {
			time.Sleep(2 * time.Second)
		}
	}

	if err != nil {
		logger.Fatal("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL after %d attempts: %v", maxRetries, err))
	}

	sqldb.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.Database.MaxLifetime)

	logger.Info("DATABASE", "✅ PostgreSQL connection successful")
	bunDB := bun.NewDB(sqldb, pgdialect.New())

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("DATABASE", fmt.Sprintf("Redis connection error: %v", err))
	}
	logger.Info("DATABASE", fmt.Sprintf("✅ Redis connection successful to %s", cfg.Redis.Addr))

	return bunDB, redisClient
}

// noopPublisher stands in when Kafka is disabled; every publish is a
// silent success.
type noopPublisher struct{}

func (noopPublisher) PublishReservationCreated(models.Reservation, []string) error  { return nil }
func (noopPublisher) PublishReservationApproved(models.Reservation, []string) error { return nil }
func (noopPublisher) PublishReservationRejected(models.Reservation) error           { return nil }
func (noopPublisher) PublishReservationDeleted(int64) error                         { return nil }
func (noopPublisher) PublishTicketsExpired(models.SweepStats) error                 { return nil }

func main() {
	logger := logger.NewLogger()
	defer logger.Close()

	logger.Info("APP", "Starting Reservation Service initialization")

	if err := godotenv.Load(); err != nil {
		logger.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		logger.Info("CONFIG", "Loaded environment variables from .env file")
	}

	cfg := config.Load()
	ctx := context.Background()

	logger.Info("APP", "Verifying database connections")
	bunDB, redisClient := verifyConnections(ctx, cfg, logger)
	defer bunDB.Close()
	defer redisClient.Close()

	if cfg.Database.AutoMigrate {
		runner := migrations.NewRunner(bunDB, migrations.DefaultOptions())
		if err := runner.RunMigrations(); err != nil {
			logger.Fatal("DATABASE", fmt.Sprintf("Migrations failed: %v", err))
		}
		runner.Close()
		logger.Info("DATABASE", "Migrations applied")
	}

	type publisher interface {
		reservation.KafkaPublisher
		sweeper.KafkaPublisher
	}
	var kafkaPublisher publisher = noopPublisher{}
	if cfg.Kafka.Enabled {
		logger.Info("KAFKA", fmt.Sprintf("Using Kafka brokers: %v", cfg.Kafka.Brokers))
		if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, kafka.Topics); err != nil {
			logger.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
		} else {
			logger.Info("KAFKA", "Required topics ensured successfully")
		}
		producer := kafka.NewProducer(cfg.Kafka.Brokers)
		defer producer.Close()
		kafkaPublisher = producer
		logger.Info("KAFKA", "Kafka producer initialized successfully")
	} else {
		logger.Warn("KAFKA", "Kafka disabled, events will not be published")
	}

	qrRenderer, err := qr.NewRenderer(cfg.QRDir)
	if err != nil {
		logger.Fatal("APP", fmt.Sprintf("QR directory setup failed: %v", err))
	}

	dbLayer := &reservation_db.DB{Bun: bunDB}
	seqLock := rediswrap.NewLock(redisClient)
	whatsapp := delivery.NewWhatsAppClient(cfg.WhatsApp)
	cloudinary := delivery.NewCloudinaryClient(cfg.Cloudinary)
	if !whatsapp.Configured() {
		logger.Warn("DELIVERY", "WhatsApp credentials missing, message delivery will fail")
	}
	if !cloudinary.Configured() {
		logger.Warn("DELIVERY", "Cloudinary credentials missing, QR uploads will fail")
	}

	reservationService := reservation.NewService(
		dbLayer, seqLock, kafkaPublisher, qrRenderer, cloudinary, whatsapp, logger, cfg.Lifecycle)
	scannerService := scanner.NewService(dbLayer, logger)

	sweep := sweeper.New(dbLayer, kafkaPublisher, whatsapp, logger, cfg.Lifecycle)

	reservationHandler := reservation_api.NewHandler(reservationService)
	scannerHandler := scanner_api.NewHandler(scannerService)
	authHandler := auth.NewHandler(cfg.Auth, logger)

	logger.Info("HTTP", "Setting up router and middleware")
	r := chi.NewRouter()

	// --- Public Routes ---
	r.Post("/api/auth/login", authHandler.Login)
	r.Post("/api/reservations", reservationHandler.CreateReservation)
	r.Get("/api/reservations/availability", reservationHandler.PromoAvailability)
	r.Post("/api/scan/validate", scannerHandler.ValidateTicket)

	fileServer := http.StripPrefix("/qr/", http.FileServer(http.Dir(cfg.QRDir)))
	r.Get("/qr/*", fileServer.ServeHTTP)
	logger.Info("ROUTER", "Public routes registered")

	// --- Protected Routes ---
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(cfg.Auth.JWTSecret))
		logger.Info("AUTH", "JWT middleware applied to officer routes")

		r.Route("/api/reservations", func(r chi.Router) {
			r.Get("/", reservationHandler.ListReservations)
			r.Get("/phone/{phone}", reservationHandler.ReservationsByPhone)
			r.Put("/{reservationId}/approve", reservationHandler.ApproveReservation)
			r.Put("/{reservationId}/reject", reservationHandler.RejectReservation)
			r.Delete("/{reservationId}", reservationHandler.DeleteReservation)
			r.Get("/{reservationId}/tickets", reservationHandler.ReservationTickets)
			r.Post("/{reservationId}/qr", reservationHandler.GenerateQRCodes)
			r.Post("/{reservationId}/qr/send", reservationHandler.SendQRCodes)
		})
		r.Route("/api/customers", func(r chi.Router) {
			r.Get("/", reservationHandler.ListCustomers)
			r.Get("/search", reservationHandler.SearchCustomers)
			r.Post("/", reservationHandler.AddCustomer)
		})
		r.Post("/api/tickets/instant", reservationHandler.CreateInstantTickets)
		r.Post("/api/payments/confirm", reservationHandler.ConfirmPayment)
		logger.Info("ROUTER", "Officer routes registered under /api")
	})

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	sweepCtx, stopSweeps := context.WithCancel(ctx)
	defer stopSweeps()
	sweep.Start(sweepCtx)
	logger.Info("SWEEP", "Cleanup and warning schedules started")

	go func() {
		logger.Info("HTTP", fmt.Sprintf("🚀 Reservation Service running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	logger.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-stop

	logger.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	stopSweeps()
	ctxShutdown, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Error("HTTP", fmt.Sprintf("Server Shutdown Failed: %v", err))
	} else {
		logger.Info("HTTP", "✅ Reservation Service shutdown complete")
	}
}
