package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joinvnexus/shopkoro-sub001/internal/cart"
	"github.com/joinvnexus/shopkoro-sub001/internal/cartapi"
	"github.com/joinvnexus/shopkoro-sub001/internal/events"
	"github.com/joinvnexus/shopkoro-sub001/internal/persist"
	"github.com/joinvnexus/shopkoro-sub001/internal/session"
	"github.com/joinvnexus/shopkoro-sub001/internal/storage"
	"github.com/joinvnexus/shopkoro-sub001/internal/wishlist"
	"github.com/redis/go-redis/v9"
)

type Config struct {
	CartAPIURL    string
	RedisAddr     string
	RedisPassword string
	KafkaBrokers  string
}

func loadConfig() *Config {
	return &Config{
		CartAPIURL:    getEnv("CART_API_URL", "http://localhost:8080"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		KafkaBrokers:  getEnv("KAFKA_BROKERS", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// consoleNotifier stands in for the UI's blocking notice.
type consoleNotifier struct{}

func (consoleNotifier) Warn(message string) {
	log.Printf("[notice] %s", message)
}

func main() {
	cfg := loadConfig()
	ctx := context.Background()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("Redis connection failed:", err)
	}
	log.Printf("Connected to redis at %s", cfg.RedisAddr)

	kv := storage.NewRedisKV(redisClient)

	// Restore persisted state before anything reads the stores.
	sessions := session.New()
	if err := persist.RestoreSession(ctx, kv, sessions); err != nil {
		log.Printf("session restore error: %v", err)
	}
	wishlistStore := wishlist.New()
	if err := persist.RestoreWishlist(ctx, kv, wishlistStore); err != nil {
		log.Printf("wishlist restore error: %v", err)
	}
	persist.BindSession(sessions, kv)
	persist.BindWishlist(wishlistStore, kv)

	api := cartapi.WithBreaker(cartapi.NewHTTPClient(cfg.CartAPIURL, sessions))
	cartSync := cart.NewSynchronizer(api, sessions, consoleNotifier{}, nil)

	// Converge on the server's cart for a restored session.
	if sessions.IsLoggedIn() {
		cartSync.SyncFromServer(ctx)
		log.Printf("restored session for user %s, %d cart items", sessions.CurrentUserID(), len(cartSync.Items()))
	}

	pollerCtx, stopPoller := context.WithCancel(ctx)
	defer stopPoller()
	if cfg.KafkaBrokers != "" {
		poller := events.NewPoller(cartSync, sessions, strings.Split(cfg.KafkaBrokers, ",")...)
		defer poller.Close()
		go poller.Run(pollerCtx)
		log.Printf("Checkout poller consuming from %s", cfg.KafkaBrokers)
	}

	log.Printf("Storefront state layer ready (cart API at %s)", cfg.CartAPIURL)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down storefront state layer...")
	stopPoller()
	log.Println("Storefront state layer stopped")
}
