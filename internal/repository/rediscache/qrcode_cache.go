package rediscache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hrmanagement/hrm-backend-go/internal/domain/employee"
	"github.com/redis/go-redis/v9"
)

const qrKeyPrefix = "qr:"

// Client is the subset of *redis.Client used by the cache.
type Client interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type qrCodeCache struct {
	client Client
}

// NewQRCodeCache stores kiosk QR codes as qr:<code> -> employee id.
func NewQRCodeCache(client Client) employee.QRCodeCache {
	return &qrCodeCache{client: client}
}

func qrKey(code string) string {
	return qrKeyPrefix + code
}

// Put implements employee.QRCodeCache.
func (c *qrCodeCache) Put(ctx context.Context, code string, employeeID string, ttl time.Duration) error {
	if err := c.client.Set(ctx, qrKey(code), employeeID, ttl).Err(); err != nil {
		return fmt.Errorf("cache qr code: %w", err)
	}
	return nil
}

// Lookup implements employee.QRCodeCache.
func (c *qrCodeCache) Lookup(ctx context.Context, code string) (string, error) {
	employeeID, err := c.client.Get(ctx, qrKey(code)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", employee.ErrQRCodeCacheMiss
		}
		return "", fmt.Errorf("lookup qr code: %w", err)
	}
	return employeeID, nil
}

// Evict implements employee.QRCodeCache.
func (c *qrCodeCache) Evict(ctx context.Context, code string) error {
	if err := c.client.Del(ctx, qrKey(code)).Err(); err != nil {
		return fmt.Errorf("evict qr code: %w", err)
	}
	return nil
}
