package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/artisanmarket/storefront/internal/cache"
	"github.com/artisanmarket/storefront/internal/cart"
	"github.com/artisanmarket/storefront/internal/catalog"
	"github.com/artisanmarket/storefront/internal/checkout"
	"github.com/artisanmarket/storefront/internal/events"
	"github.com/artisanmarket/storefront/internal/httpapi"
	"github.com/artisanmarket/storefront/internal/orders"
	"github.com/artisanmarket/storefront/internal/payment"
	"github.com/artisanmarket/storefront/internal/reviews"
	"github.com/artisanmarket/storefront/internal/storage"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Config struct {
	HTTPPort        string
	MongoURI        string
	MongoDBName     string
	RedisAddr       string
	RedisPassword   string
	PostgresHost    string
	PostgresPort    int
	PostgresUser    string
	PostgresPass    string
	PostgresDB      string
	MigrationsPath  string
	KafkaBrokers    []string
	CartCacheTTL    time.Duration
	CartCacheJitter time.Duration
	PaymentDelay    time.Duration
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	SeedCatalog     bool
}

func loadConfig() *Config {
	// .env is a convenience for local runs; absence is fine
	_ = godotenv.Load()

	pgPort, err := strconv.Atoi(getEnv("POSTGRES_PORT", "5432"))
	if err != nil {
		log.Fatalf("invalid POSTGRES_PORT: %v", err)
	}

	var brokers []string
	if raw := getEnv("KAFKA_BROKERS", ""); raw != "" {
		brokers = strings.Split(raw, ",")
	}

	paymentDelay, err := time.ParseDuration(getEnv("PAYMENT_DELAY", "2s"))
	if err != nil {
		log.Fatalf("invalid PAYMENT_DELAY: %v", err)
	}

	cacheTTL, err := time.ParseDuration(getEnv("CART_CACHE_TTL", "15m"))
	if err != nil {
		log.Fatalf("invalid CART_CACHE_TTL: %v", err)
	}
	cacheJitter, err := time.ParseDuration(getEnv("CART_CACHE_TTL_JITTER", "5m"))
	if err != nil {
		log.Fatalf("invalid CART_CACHE_TTL_JITTER: %v", err)
	}

	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:     getEnv("MONGO_DB_NAME", "storefront"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		PostgresHost:    getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:    pgPort,
		PostgresUser:    getEnv("POSTGRES_USER", "postgres"),
		PostgresPass:    getEnv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:      getEnv("POSTGRES_DB", "storefront"),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "migrations"),
		KafkaBrokers:    brokers,
		CartCacheTTL:    cacheTTL,
		CartCacheJitter: cacheJitter,
		PaymentDelay:    paymentDelay,
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		SeedCatalog:     getEnv("SEED_CATALOG", "true") == "true",
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
	ctx := context.Background()

	// MongoDB holds the catalog, carts and reviews
	mongoDB, err := storage.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer mongoDB.Client().Disconnect(ctx)
	log.Printf("Connected to MongoDB at %s", cfg.MongoURI)

	productRepo := catalog.NewMongoRepository(mongoDB)
	cartRepo := cart.NewMongoRepository(mongoDB)
	reviewRepo := reviews.NewMongoRepository(mongoDB)

	if cfg.SeedCatalog {
		if err := catalog.Seed(ctx, productRepo); err != nil {
			log.Fatalf("Failed to seed catalog: %v", err)
		}
	}

	// Redis caches carts in front of MongoDB
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("Redis connection failed:", err)
	}
	log.Printf("Redis ping succeeded")

	// Postgres holds completed orders
	cred := &orders.Credentials{
		Host:              cfg.PostgresHost,
		Port:              cfg.PostgresPort,
		User:              cfg.PostgresUser,
		Password:          cfg.PostgresPass,
		DBName:            cfg.PostgresDB,
		MigrationsDirPath: cfg.MigrationsPath,
	}
	orderRepo, err := orders.NewRepository(cred)
	if err != nil {
		log.Fatalf("Failed to connect to postgres: %v", err)
	}
	defer orderRepo.Close()
	if err := orderRepo.RunMigrations(cred); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	var publisher events.OrderPublisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := events.NewKafkaPublisher(cfg.KafkaBrokers...)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		log.Printf("Publishing order events to %v", cfg.KafkaBrokers)
	}

	cartCache := cache.NewRedisCache(redisClient, cache.Config{
		BaseTTL:   cfg.CartCacheTTL,
		MaxJitter: cfg.CartCacheJitter,
	})
	cartService := cart.NewService(cartRepo, cartCache)
	catalogService := catalog.NewService(productRepo)
	reviewService := reviews.NewService(reviewRepo, productRepo)

	sessionStore := checkout.NewMemoryStore()
	defer sessionStore.Close()

	processor := payment.NewBreakerProcessor(payment.NewSimulatedProcessor(cfg.PaymentDelay))
	checkoutService := checkout.NewService(sessionStore, cartService, orderRepo, processor, publisher)

	router := httpapi.NewRouter(httpapi.Handlers{
		Products: httpapi.NewProductHandler(catalogService, reviewService, cfg.RequestTimeout),
		Cart:     httpapi.NewCartHandler(cartService, catalogService, cfg.RequestTimeout),
		Checkout: httpapi.NewCheckoutHandler(checkoutService, cfg.RequestTimeout),
		Orders:   httpapi.NewOrdersHandler(orderRepo, cfg.RequestTimeout),
	}, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "storefront"),
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
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
