package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/fjod/go_storefront/internal/cart/session"
	"github.com/fjod/go_storefront/internal/cart/store"
	"github.com/fjod/go_storefront/internal/checkout"
	"github.com/fjod/go_storefront/internal/events"
	h "github.com/fjod/go_storefront/internal/http"
)

type Config struct {
	HTTPPort         string
	RedisAddr        string
	RedisPassword    string
	CheckoutEndpoint string
	PaymentHost      string
	FallbackCurrency string
	KafkaBrokers     string
	KafkaTopic       string
	RequestTimeout   time.Duration
	ShutdownTimeout  time.Duration
}

func loadConfig() *Config {
	// REDIS_ADDR set to the empty string selects the in-memory cart store:
	// getEnv cannot express that, it treats empty as unset.
	redisAddr, ok := os.LookupEnv("REDIS_ADDR")
	if !ok {
		redisAddr = "localhost:6379"
	}

	return &Config{
		HTTPPort:         getEnv("HTTP_PORT", "8080"),
		RedisAddr:        redisAddr,
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		CheckoutEndpoint: getEnv("CHECKOUT_ENDPOINT", "http://localhost:9090/api/checkout"),
		PaymentHost:      getEnv("PAYMENT_HOST", "pay.example.com"),
		FallbackCurrency: getEnv("FALLBACK_CURRENCY", "USD"),
		KafkaBrokers:     getEnv("KAFKA_BROKERS", ""),
		KafkaTopic:       getEnv("KAFKA_TOPIC", "checkout.completed"),
		RequestTimeout:   30 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()

	var cartStore store.CartStore
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatal("Redis connection failed:", err)
		}
		log.Printf("Connected to redis at %s", cfg.RedisAddr)
		cartStore = store.NewRedisStore(redisClient, nil)
	} else {
		log.Printf("REDIS_ADDR is empty, carts will not survive a restart")
		cartStore = store.NewMemoryStore()
	}

	sessions := session.NewManager(cartStore, cfg.FallbackCurrency)

	checkoutClient := checkout.NewClient(cfg.CheckoutEndpoint, cfg.PaymentHost, &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   cfg.RequestTimeout,
	})

	var publisher *events.Publisher
	if cfg.KafkaBrokers != "" {
		publisher = events.NewPublisher(strings.Split(cfg.KafkaBrokers, ","), cfg.KafkaTopic)
		defer publisher.Close()
		log.Printf("Publishing checkout events to %s", cfg.KafkaTopic)
	}

	cartHandler := h.NewCartHandler(sessions)
	checkoutHandler := h.NewCheckoutHandler(sessions, checkoutClient, publisher)

	// Setup router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(h.SessionMiddleware)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items", cartHandler.UpdateQuantity)
			r.Delete("/items", cartHandler.RemoveItem)
			r.Post("/drawer", cartHandler.SetDrawer)
		})
		r.Post("/checkout", checkoutHandler.InitiateCheckout)
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(r, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Storefront starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
