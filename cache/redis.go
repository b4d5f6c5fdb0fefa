package cache

import (
	"context"
	"log"
	"time"

	"finvoice/config"

	"github.com/redis/go-redis/v9"
)

// Client is the global Redis client. It stays nil when REDIS_ADDR is not
// configured or the server is unreachable; all helpers degrade to no-ops so
// the API keeps working without Redis (only the token blacklist is lost).
var Client *redis.Client

// Connect initializes the Redis client from configuration.
func Connect() {
	if config.AppConfig.RedisAddr == "" {
		return
	}

	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Redis unavailable (%v). Token blacklist disabled.", err)
		return
	}

	Client = client
	log.Println("Connected to Redis")
}

// BlacklistToken stores a revoked JWT until it would have expired anyway.
func BlacklistToken(ctx context.Context, token string, ttl time.Duration) {
	if Client == nil {
		return
	}
	if err := Client.Set(ctx, "blacklist:"+token, "1", ttl).Err(); err != nil {
		log.Printf("Error blacklisting token: %v", err)
	}
}

// IsTokenBlacklisted reports whether a JWT has been revoked. Fails open when
// Redis is down so a cache outage does not lock every user out.
func IsTokenBlacklisted(ctx context.Context, token string) bool {
	if Client == nil {
		return false
	}
	n, err := Client.Exists(ctx, "blacklist:"+token).Result()
	if err != nil {
		log.Printf("Redis blacklist check failed: %v", err)
		return false
	}
	return n > 0
}
