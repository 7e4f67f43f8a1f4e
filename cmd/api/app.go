package main

import (
	"context"
	"fmt"
	"log"

	"translation_desk/internal/adapter/http/handlers"
	"translation_desk/internal/adapter/http/middleware"
	"translation_desk/internal/adapter/http/routes"
	"translation_desk/internal/adapter/persistence/repository"
	"translation_desk/internal/config"
	"translation_desk/internal/infrastructure/database"
	"translation_desk/internal/infrastructure/filestore"
	"translation_desk/internal/infrastructure/notify"
	"translation_desk/internal/infrastructure/payments"
	"translation_desk/internal/infrastructure/scheduler"
	"translation_desk/internal/usecase"
	"translation_desk/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/gin-gonic/gin"
)

type app struct {
	router    *gin.Engine
	notifier  *notify.AsyncNotifier
	reminders *scheduler.ReminderScheduler
	closers   []func() error
}

func (a *app) close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			log.Printf("[app] close failed err=%v", err)
		}
	}
}

func buildApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{}

	awsCfg, err := database.NewAWSConfig(ctx, cfg.AWS)
	if err != nil {
		return nil, err
	}

	repo, err := buildRepository(cfg, a, awsCfg)
	if err != nil {
		a.close()
		return nil, err
	}

	var files interfaces.IFileStore
	if cfg.S3.Bucket != "" {
		store, err := filestore.NewS3FileStore(filestore.NewS3Client(awsCfg, cfg.S3), cfg.S3, cfg.AWS.Region)
		if err != nil {
			a.close()
			return nil, err
		}
		files = store
	} else {
		log.Printf("[app] s3 bucket not configured; uploads disabled")
	}

	channels, err := buildNotifiers(cfg)
	if err != nil {
		a.close()
		return nil, err
	}
	a.notifier = notify.NewAsyncNotifier(channels, cfg.Notify.QueueSize, cfg.Notify.SendTimeout)

	var gateway interfaces.IPaymentGateway
	mpGateway, err := payments.NewMercadoPagoGateway(cfg.Payments.AccessToken, cfg.Payments.Mock)
	if err != nil {
		log.Printf("Mercado Pago gateway not configured: %v", err)
	} else {
		gateway = mpGateway
	}

	ucCfg := usecase.QuoteUseCaseConfig{
		AdminEmails:     cfg.Notify.AdminEmails,
		UploadTimeout:   cfg.Quotes.UploadTimeout,
		ConflictRetries: cfg.Quotes.ConflictRetries,
		CheckoutHold:    cfg.Payments.CheckoutHold,
	}
	quoteUseCase := usecase.NewQuoteUseCase(repo, files, a.notifier, ucCfg)
	paymentUseCase := usecase.NewPaymentUseCase(repo, gateway, a.notifier, ucCfg)
	estimateUseCase := usecase.NewEstimateUseCase()
	reminderUseCase := usecase.NewReminderUseCase(repo, a.notifier, cfg.Reminders.OlderThan)

	if cfg.Reminders.Schedule != "" {
		a.reminders, err = scheduler.NewReminderScheduler(cfg.Reminders.Schedule, reminderUseCase)
		if err != nil {
			a.close()
			return nil, err
		}
	}

	a.router = routes.NewRouter(cfg.HTTP, middleware.NewAuthenticator(cfg.Auth), routes.Handlers{
		Quotes:    handlers.NewQuoteHandler(quoteUseCase, cfg.Quotes.MaxUploadBytes),
		Estimates: handlers.NewEstimateHandler(estimateUseCase),
		Payments:  handlers.NewPaymentHandler(paymentUseCase),
	})
	return a, nil
}

func buildRepository(cfg *config.Config, a *app, awsCfg aws.Config) (interfaces.IQuoteRepository, error) {
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		db, err := database.ConnectPostgres(cfg.Postgres)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		a.closers = append(a.closers, func() error { return database.ClosePostgres(db) })
		if err := database.RunMigrations(db); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		return repository.NewQuoteGormRepository(db), nil
	default:
		ddb := database.ConnectDynamoDB(awsCfg, cfg.DynamoDB)
		return repository.NewQuoteDynamoRepository(ddb, cfg.DynamoDB.QuotesTable), nil
	}
}

func buildNotifiers(cfg *config.Config) (notify.MultiNotifier, error) {
	var channels notify.MultiNotifier
	if cfg.SMTP.Enabled() {
		smtpNotifier, err := notify.NewSMTPNotifier(cfg.SMTP)
		if err != nil {
			return nil, err
		}
		channels = append(channels, smtpNotifier)
	} else {
		log.Printf("[app] smtp not configured; email notifications disabled")
	}
	if cfg.Telegram.Enabled() {
		b, err := notify.NewTelegramBot(cfg.Telegram.Token)
		if err != nil {
			return nil, err
		}
		channels = append(channels, notify.NewTelegramNotifier(b, cfg.Telegram.AdminChatIDs, cfg.Notify.AdminEmails))
	}
	return channels, nil
}
