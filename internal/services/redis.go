package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rentwheels/rentwheels-backend/internal/models"
)

var RedisClient *redis.Client

const (
	promoCacheTTL     = 10 * time.Minute
	locationsCacheTTL = time.Hour

	bookingUpdatesChannel = "booking:updates"
)

// InitRedis initializes the Redis client
func InitRedis() error {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://redis:6379" // Default Redis address for Docker
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	RedisClient = redis.NewClient(opt)

	// Test the connection
	ctx := context.Background()
	if _, err := RedisClient.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return nil
}

// CachePromo stores a resolved promo so repeated quote requests don't hit
// the database. No-op when Redis is not initialized.
func CachePromo(ctx context.Context, promo *models.Promo) {
	if RedisClient == nil {
		return
	}
	data, err := json.Marshal(promo)
	if err != nil {
		return
	}
	key := fmt.Sprintf("promo:%s", promo.Code)
	RedisClient.Set(ctx, key, data, promoCacheTTL)
}

// GetCachedPromo retrieves a cached promo by code.
func GetCachedPromo(ctx context.Context, code string) (*models.Promo, bool) {
	if RedisClient == nil {
		return nil, false
	}
	key := fmt.Sprintf("promo:%s", code)
	data, err := RedisClient.Get(ctx, key).Result()
	if err != nil {
		return nil, false
	}
	var promo models.Promo
	if err := json.Unmarshal([]byte(data), &promo); err != nil {
		return nil, false
	}
	return &promo, true
}

// CacheLocations stores the branch list served by /api/locations.
func CacheLocations(ctx context.Context, branches []string) error {
	if RedisClient == nil {
		return nil
	}
	data, err := json.Marshal(branches)
	if err != nil {
		return err
	}
	return RedisClient.Set(ctx, "locations:branches", data, locationsCacheTTL).Err()
}

// GetCachedLocations retrieves the cached branch list.
func GetCachedLocations(ctx context.Context) ([]string, bool) {
	if RedisClient == nil {
		return nil, false
	}
	data, err := RedisClient.Get(ctx, "locations:branches").Result()
	if err != nil {
		return nil, false
	}
	var branches []string
	if err := json.Unmarshal([]byte(data), &branches); err != nil {
		return nil, false
	}
	return branches, true
}

// PublishBookingUpdate publishes a booking transition to Redis pub/sub so
// other instances can forward it to their connected websocket clients.
func PublishBookingUpdate(ctx context.Context, bookingID uint, status string, data map[string]interface{}) error {
	if RedisClient == nil {
		return nil
	}

	updateData := map[string]interface{}{
		"bookingId": bookingID,
		"status":    status,
		"data":      data,
		"timestamp": time.Now().Unix(),
	}

	jsonData, err := json.Marshal(updateData)
	if err != nil {
		return err
	}

	return RedisClient.Publish(ctx, bookingUpdatesChannel, jsonData).Err()
}
