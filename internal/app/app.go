package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/auth"
	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/config"
	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/delivery/httpd"
	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/mailer"
	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/metrics"
	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/repository"
	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/service"
	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/service/integration"
	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/worker"
	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/worker/queue"
	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/pkg/rabbitmq"
)

type App struct {
	server    *http.Server
	logger    zerolog.Logger
	config    *config.Config
	db        *sql.DB
	redis     *redis.Client
	publisher integration.RabbitMQClient
	workerCon *amqp.Connection
	worker    *worker.ReceiptWorker
	cancel    context.CancelFunc
}

func New(cfg *config.Config, log zerolog.Logger, db *sql.DB) (*App, error) {
	a := &App{logger: log, config: cfg, db: db}

	minioRepo, err := repository.NewMinIORepository(
		cfg.MinIO.Endpoint,
		cfg.MinIO.AccessKey,
		cfg.MinIO.SecretKey,
		cfg.Storage.BucketName,
		cfg.Storage.Region,
		cfg.MinIO.UseSSL,
		cfg.MinIO.Timeout,
		log,
	)
	if err != nil {
		return nil, err
	}
	storageRepo := repository.NewStorageRepository(minioRepo, log)

	studentRepo := repository.NewStudentRepository(db, log)
	batchRepo := repository.NewBatchRepository(db, log)
	fileRepo := repository.NewTrainerFileRepository(db, log)
	messageRepo := repository.NewMessageRepository(db, log)
	feedbackRepo := repository.NewFeedbackRepository(db, log)
	credentialRepo := repository.NewCredentialRepository(db, log)
	courseRepo := repository.NewCourseRepository(db, log)

	a.redis = repository.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	otpRepo := repository.NewOTPRepository(a.redis, log)

	sender, err := mailer.New(cfg.Mail, log)
	if err != nil {
		return nil, err
	}

	// Without a broker receipts are sent inline.
	var publisher service.ReceiptPublisher
	if cfg.RabbitMQ.Enabled {
		client, err := integration.NewRabbitMQClient(
			cfg.RabbitMQ.URL,
			cfg.RabbitMQ.Exchange,
			cfg.RabbitMQ.RoutingKey,
			cfg.RabbitMQ.QueueName,
			log,
		)
		if err != nil {
			log.Warn().Err(err).Msg("RabbitMQ unavailable, receipts will be sent synchronously")
		} else {
			a.publisher = client
			publisher = client
		}
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)

	otpService := service.NewOTPService(otpRepo, sender, cfg.OTP.TTL, log)
	studentService := service.NewStudentService(studentRepo, batchRepo, otpService, log)
	receiptService := service.NewReceiptService(studentRepo, sender, publisher, cfg.Mail.PortalURL, log)
	batchService := service.NewBatchService(batchRepo, studentRepo, log)
	credentialService := service.NewCredentialService(credentialRepo, log)
	downloadService := service.NewDownloadService(fileRepo, storageRepo, log, cfg.Storage.Prefix)
	messageService := service.NewMessageService(messageRepo, log)
	courseService := service.NewCourseService(courseRepo, log)

	services := httpd.Services{
		Auth:      service.NewAuthService(credentialService, studentService, tokens, log),
		Students:  studentService,
		Receipts:  receiptService,
		OTP:       otpService,
		Batches:   batchService,
		Downloads: downloadService,
		Uploads: service.NewUploadService(fileRepo, storageRepo, log, service.UploadConfig{
			MaxUploadSize:   cfg.Server.MaxUploadSize,
			Prefix:          cfg.Storage.Prefix,
			BackupThreshold: cfg.Storage.BackupThreshold,
			AllowedTypes:    cfg.Storage.AllowedTypes,
		}),
		Deletes:     service.NewDeleteService(fileRepo, storageRepo, log, cfg.Storage.Prefix),
		Messages:    messageService,
		Feedback:    service.NewFeedbackService(feedbackRepo, studentRepo, log),
		Credentials: credentialService,
		Courses:     courseService,
		Dashboard:   service.NewDashboardService(batchService, downloadService, messageService, courseService, log),
	}

	pg := repository.NewPostgresRepository(db, log)
	readiness := map[string]httpd.ReadinessCheck{
		"postgres": func(r *http.Request) error { return pg.Ping(r.Context()) },
		"redis":    func(r *http.Request) error { return a.redis.Ping(r.Context()).Err() },
		"minio": func(r *http.Request) error {
			if !minioRepo.Healthy(r.Context()) {
				return errors.New("minio bucket unreachable")
			}
			return nil
		},
	}

	handler := httpd.NewHandler(
		services,
		httpd.CookieConfig{
			Name:   cfg.Auth.CookieName,
			Secure: cfg.Auth.CookieSecure,
			TTL:    cfg.Auth.TokenTTL,
		},
		cfg.Server.MaxUploadSize,
		readiness,
		log,
	)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(httpd.RequestLogger(log))
	router.Use(httpd.Recovery(log))
	router.Use(metrics.Middleware)
	router.Use(middleware.Timeout(60 * time.Second))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	}))

	router.Use(tokens.Authenticate(cfg.Auth.CookieName))

	handler.RegisterRoutes(router)

	a.server = &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	if a.publisher != nil {
		if err := a.startReceiptWorker(receiptService); err != nil {
			log.Warn().Err(err).Msg("Receipt worker not started")
		}
	}

	return a, nil
}

// startReceiptWorker consumes queued receipt emails on its own connection.
func (a *App) startReceiptWorker(receipts service.ReceiptService) error {
	conn, err := rabbitmq.NewConnection(a.config.RabbitMQ.URL)
	if err != nil {
		return err
	}
	channel, err := rabbitmq.NewChannel(conn)
	if err != nil {
		conn.Close()
		return err
	}

	consumer := queue.NewRabbitMQConsumer(channel, a.config.RabbitMQ.QueueName, "receipt-worker", a.logger)
	pool := worker.NewWorkerPool(a.config.RabbitMQ.Workers, a.logger)
	w := worker.NewReceiptWorker(pool, consumer, receipts, a.logger)

	ctx, cancel := context.WithCancel(context.Background())
	if err := w.Start(ctx); err != nil {
		cancel()
		conn.Close()
		return fmt.Errorf("failed to start receipt worker: %w", err)
	}

	a.workerCon = conn
	a.worker = w
	a.cancel = cancel
	return nil
}

func (a *App) Run() error {
	a.logger.Info().Msgf("Starting front desk service on %s", a.config.Server.Address)
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info().Msg("Shutting down front desk service...")

	err := a.server.Shutdown(ctx)

	if a.worker != nil {
		a.worker.Stop()
		a.cancel()
		if cerr := a.workerCon.Close(); cerr != nil {
			a.logger.Error().Err(cerr).Msg("Failed to close worker RabbitMQ connection")
		}
	}

	if a.publisher != nil {
		if cerr := a.publisher.Close(); cerr != nil {
			a.logger.Error().Err(cerr).Msg("Failed to close RabbitMQ client")
		}
	}

	if a.redis != nil {
		if cerr := a.redis.Close(); cerr != nil {
			a.logger.Error().Err(cerr).Msg("Failed to close Redis client")
		}
	}

	if a.db != nil {
		if cerr := a.db.Close(); cerr != nil {
			a.logger.Error().Err(cerr).Msg("Failed to close database connection")
		}
	}

	return err
}
