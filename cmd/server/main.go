package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/mindhaven/wellness/internal/api"
	"github.com/mindhaven/wellness/internal/appointment"
	"github.com/mindhaven/wellness/internal/chat"
	cfgpkg "github.com/mindhaven/wellness/internal/config"
	"github.com/mindhaven/wellness/internal/directory"
	"github.com/mindhaven/wellness/internal/email"
	"github.com/mindhaven/wellness/internal/events"
	"github.com/mindhaven/wellness/internal/httpclient"
	"github.com/mindhaven/wellness/internal/logger"
	"github.com/mindhaven/wellness/internal/metrics"
	"github.com/mindhaven/wellness/internal/mood"
	"github.com/mindhaven/wellness/internal/schedule"
	"github.com/mindhaven/wellness/internal/ws"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg, err := cfgpkg.Load("config.yaml")
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	zl, err := logger.New(logger.Config{Development: cfg.Server.Development})
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Mongo
	mc, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		zl.Fatalw("mongo init", "err", err)
	}
	defer func() { _ = mc.Disconnect(context.Background()) }()
	if err := pingWithRetry(ctx, func(c context.Context) error {
		return mc.Ping(c, readpref.Primary())
	}); err != nil {
		zl.Fatalw("mongo ping", "err", err)
	}
	db := mc.Database(cfg.Mongo.Database)

	// Redis (optional: snapshot fan-out stays in-process without it)
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := pingWithRetry(ctx, func(c context.Context) error {
			return rdb.Ping(c).Err()
		}); err != nil {
			zl.Warnw("redis unreachable, falling back to in-process delivery", "err", err)
			rdb = nil
		}
	}

	// Kafka message-event producer (optional)
	var publisher chat.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer := events.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer producer.Close()
		publisher = producer
	}

	// Repositories & services
	chatRepo := chat.NewRepository(mc, db)
	chatSvc := chat.NewService(chatRepo, publisher, zl)
	feed := chat.NewFeed(chatSvc, rdb, cfg.Redis.Prefix, zl)
	chatSvc.AttachNotifier(feed)
	go func() {
		if err := feed.Run(ctx); err != nil && ctx.Err() == nil {
			zl.Errorw("snapshot feed stopped", "err", err)
		}
	}()

	moodRepo := mood.NewRepository(db.Collection("mood_logs"))
	schedRepo := schedule.NewRepository(db.Collection("doctor_schedules"))
	dir := directory.NewService(db, rdb, cfg.Redis.Prefix)
	if err := dir.Seed(ctx); err != nil {
		zl.Warnw("seed doctor directory", "err", err)
	}

	bookingHTTP := httpclient.NewClient(httpclient.ClientConfig{Timeout: cfg.BookingTimeout})
	appts := appointment.NewClient(bookingHTTP, cfg.Booking.BaseURL)

	mailer := email.NewMailer(cfg.Mail.SendGridKey, cfg.Mail.FromName, cfg.Mail.FromAddress, cfg.Mail.ToAddress)

	app := api.New(cfg, api.Deps{
		Chat:      chatSvc,
		Mood:      moodRepo,
		Schedules: schedRepo,
		Appts:     appts,
		Dir:       dir,
		Mailer:    mailer,
		WS:        ws.NewHandler(feed, zl),
	}, zl)

	// Prometheus scrape endpoint on its own listener.
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		if err := http.ListenAndServe(":"+cfg.Server.MetricsPort, mux); err != nil {
			zl.Errorw("metrics listener", "err", err)
		}
	}()

	go func() {
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			zl.Fatalw("server listen", "err", err)
		}
	}()
	zl.Infow("wellness backend started", "port", cfg.Server.Port)

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(shutdownCtx)
	zl.Info("wellness backend stopped")
}

// pingWithRetry gives a freshly scheduled container time for its
// dependencies to come up before giving up.
func pingWithRetry(ctx context.Context, ping func(context.Context) error) error {
	op := func() error {
		c, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return ping(c)
	}
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = 30 * time.Second
	return backoff.Retry(op, backoff.WithContext(b, ctx))
}
