package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"adsyclub/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const DefaultLimitsTTL = 10 * time.Minute

// CacheService caches per-user entitlement lookups.
type CacheService interface {
	GetLimits(ctx context.Context, userID uuid.UUID) (*models.Limits, error)
	SetLimits(ctx context.Context, userID uuid.UUID, limits *models.Limits, ttl time.Duration) error
	InvalidateUser(ctx context.Context, userID uuid.UUID) error
	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client redis.Cmdable
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	// Accept redis://host:port as well as host:port
	parsedAddr := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://")

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Warn().Err(pingErr).Str("addr", parsedAddr).Msg("Redis ping failed on initialization")
	} else {
		log.Debug().Str("addr", parsedAddr).Msg("Redis connection established")
	}

	return &redisCacheService{client: client}
}

// NewCacheServiceWithClient wraps an existing client.
func NewCacheServiceWithClient(client redis.Cmdable) CacheService {
	return &redisCacheService{client: client}
}

func limitsKey(userID uuid.UUID) string {
	return fmt.Sprintf("adsyclub:limits:%s", userID.String())
}

func (r *redisCacheService) GetLimits(ctx context.Context, userID uuid.UUID) (*models.Limits, error) {
	data, err := r.client.Get(ctx, limitsKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var limits models.Limits
	if err := json.Unmarshal(data, &limits); err != nil {
		return nil, err
	}
	return &limits, nil
}

func (r *redisCacheService) SetLimits(ctx context.Context, userID uuid.UUID, limits *models.Limits, ttl time.Duration) error {
	data, err := json.Marshal(limits)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, limitsKey(userID), data, ttl).Err()
}

func (r *redisCacheService) InvalidateUser(ctx context.Context, userID uuid.UUID) error {
	return r.client.Del(ctx, limitsKey(userID)).Err()
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

type noopCacheService struct{}

// NewNoopCacheService is used when no Redis address is configured.
func NewNoopCacheService() CacheService {
	return noopCacheService{}
}

func (noopCacheService) GetLimits(context.Context, uuid.UUID) (*models.Limits, error) {
	return nil, nil
}

func (noopCacheService) SetLimits(context.Context, uuid.UUID, *models.Limits, time.Duration) error {
	return nil
}

func (noopCacheService) InvalidateUser(context.Context, uuid.UUID) error {
	return nil
}

func (noopCacheService) Ping(context.Context) error {
	return nil
}
