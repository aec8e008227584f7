package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mixit-delights/storefront/internal/adapter/geocode"
	"github.com/mixit-delights/storefront/internal/adapter/logger"
	"github.com/mixit-delights/storefront/internal/adapter/postgres"
	"github.com/mixit-delights/storefront/internal/adapter/rabbitmq"
	"github.com/mixit-delights/storefront/internal/adapter/redis"
	"github.com/mixit-delights/storefront/internal/adapter/ws"
	"github.com/mixit-delights/storefront/internal/app/catalog"
	"github.com/mixit-delights/storefront/internal/app/order"
	"github.com/mixit-delights/storefront/internal/app/profile"
	"github.com/mixit-delights/storefront/internal/app/tracking"
	"github.com/mixit-delights/storefront/internal/auth"
	"github.com/mixit-delights/storefront/internal/config"
	"github.com/mixit-delights/storefront/internal/interfaces"

	amqpAdapter "github.com/mixit-delights/storefront/internal/adapter/amqp"
	httpAdapter "github.com/mixit-delights/storefront/internal/adapter/http"
)

func main() {
	mode := flag.String("mode", "", "Service mode: storefront, notifier, seed")
	port := flag.Int("port", 3000, "HTTP port")
	configPath := flag.String("config", "config.yaml", "Path to config file")
	flag.Parse()

	if *mode == "" {
		log.Fatal("--mode flag is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()
	lgr := logger.New(*mode)

	switch *mode {
	case "storefront":
		runStorefront(ctx, cfg, lgr, *port)

	case "notifier":
		runNotifier(ctx, cfg, lgr)

	case "seed":
		runSeed(ctx, cfg, lgr)

	default:
		log.Fatalf("Invalid mode: %s", *mode)
	}
}

func runStorefront(ctx context.Context, cfg *config.Config, lgr logger.Logger, port int) {
	db, err := postgres.Connect(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer db.Close()

	lgr.Info("db_connected", "Connected to PostgreSQL database", "startup", map[string]interface{}{
		"host": cfg.Database.Host,
		"db":   cfg.Database.Database,
	})

	mqConn, err := rabbitmq.Connect(cfg.RabbitMQ)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer mqConn.Close()

	sessions, err := redis.NewSessionStore(ctx, cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer sessions.Close()

	// Repositories.
	menuRepo := postgres.NewMenuRepository(db)
	orderRepo := postgres.NewOrderRepository(db)
	profileRepo := postgres.NewProfileRepository(db)
	accountRepo := postgres.NewAccountRepository(db)

	// Messaging and live fan-out.
	publisher := rabbitmq.NewPublisher(mqConn)
	hub := ws.NewHub(lgr)

	// Geocoding.
	geocoder := geocode.NewClient(cfg.Geocoder)
	searches := geocode.NewDebouncer(geocoder, cfg.Geocoder.Debounce)

	// Services.
	authService := auth.NewService(accountRepo, publisher, cfg.Auth)
	catalogService := catalog.NewService(menuRepo, lgr)
	orderService := order.NewService(orderRepo, profileRepo, menuRepo, sessions, publisher, lgr)
	profileService := profile.NewService(profileRepo, accountRepo, lgr)
	trackingService := tracking.NewService(orderRepo, hub, cfg.Kitchen, lgr)
	defer trackingService.Shutdown()

	// Rider feeds only run while someone is watching: the first tracking
	// subscriber kicks the feed awake, the last one leaving stops it.
	hub.OnTopicActive = func(topic string) {
		if userID, ok := strings.CutPrefix(topic, "tracking:"); ok {
			trackingService.Refresh(ctx, userID)
		}
	}
	hub.OnTopicEmpty = func(topic string) {
		if userID, ok := strings.CutPrefix(topic, "tracking:"); ok {
			trackingService.Stop(userID)
		}
	}

	// First boot of an empty store gets the default menu.
	go func() {
		if err := catalogService.EnsureSeeded(ctx); err != nil {
			lgr.Error("seed_check", "Failed to ensure seeded catalog", "startup", nil, err)
		}
	}()

	// Store changefeed drives push subscriptions and rider feeds.
	feedCtx, stopFeed := context.WithCancel(ctx)
	defer stopFeed()
	feed := postgres.NewChangeFeed(cfg.Database, lgr)
	go func() {
		err := feed.Run(feedCtx, func(ev interfaces.ChangeEvent) {
			switch ev.Collection {
			case "menu":
				hub.Broadcast(ws.TopicMenu, ev)
			case "orders":
				hub.Broadcast(ws.TopicOrders, ev)
				if ev.UserID != "" {
					hub.Broadcast(ws.UserTopic("orders", ev.UserID), ev)
					trackingService.Refresh(feedCtx, ev.UserID)
				}
			case "profiles":
				if ev.UserID != "" {
					hub.Broadcast(ws.UserTopic("profile", ev.UserID), ev)
				}
			}
		})
		if err != nil && feedCtx.Err() == nil {
			lgr.Error("changefeed_error", "Changefeed stopped", "runtime", nil, err)
		}
	}()

	router := httpAdapter.NewRouter(cfg.HTTP, httpAdapter.Deps{
		Auth:     authService,
		Catalog:  catalogService,
		Orders:   orderService,
		Profiles: profileService,
		Tracking: trackingService,
		Hub:      hub,
		Geocoder: geocoder,
		Searches: searches,
		Logger:   lgr,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	lgr.Info("service_started", fmt.Sprintf("Storefront started on port %d", port), "startup", map[string]interface{}{
		"port": port,
	})

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		lgr.Info("shutdown_initiated", "Shutting down Storefront", "shutdown", nil)
		stopFeed()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			lgr.Error("shutdown_error", "Error during shutdown", "shutdown", nil, err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		lgr.Error("server_error", "Server error", "runtime", nil, err)
	}
}

func runNotifier(ctx context.Context, cfg *config.Config, lgr logger.Logger) {
	mqConn, err := rabbitmq.Connect(cfg.RabbitMQ)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer mqConn.Close()

	consumer := rabbitmq.NewConsumer(mqConn)
	notificationHandler := amqpAdapter.NewNotificationHandler(lgr)

	lgr.Info("service_started", "Notifier started", "startup", nil)

	go func() {
		if err := consumer.ConsumeNotifications(ctx, notificationHandler.HandleNotification); err != nil {
			lgr.Error("consumer_error", "Error consuming notifications", "runtime", nil, err)
		}
	}()

	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
	<-sigint

	lgr.Info("shutdown_initiated", "Shutting down Notifier", "shutdown", nil)
}

func runSeed(ctx context.Context, cfg *config.Config, lgr logger.Logger) {
	db, err := postgres.Connect(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer db.Close()

	catalogService := catalog.NewService(postgres.NewMenuRepository(db), lgr)
	if err := catalogService.Seed(ctx); err != nil {
		log.Fatalf("Failed to seed catalog: %v", err)
	}
	lgr.Info("seed_complete", "Default menu seeded", "seed", nil)
}
