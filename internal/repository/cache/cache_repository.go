package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/split-the-distance/internal/domain"
	"github.com/split-the-distance/internal/domain/repository"
)

type cacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

func NewCacheRepository(redis *Redis) repository.CacheRepository {
	return &cacheRepository{
		client: redis.Client(),
		logger: redis.logger,
	}
}

func (r *cacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil // Cache miss
	}
	if err != nil {
		r.logger.Error("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	r.logger.Debug("Cache hit", zap.String("key", key))
	return val, nil
}

func (r *cacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := r.client.Set(ctx, key, value, ttl).Err()
	if err != nil {
		r.logger.Error("Failed to set cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set error: %w", err)
	}

	r.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

func (r *cacheRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.logger.Error("Failed to delete from cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache delete error: %w", err)
	}
	return nil
}

func (r *cacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	val, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		r.logger.Error("Failed to check cache existence", zap.String("key", key), zap.Error(err))
		return false, fmt.Errorf("cache exists error: %w", err)
	}
	return val > 0, nil
}

// getJSON returns false on a miss.
func (r *cacheRepository) getJSON(ctx context.Context, key string, out interface{}) (bool, error) {
	data, err := r.Get(ctx, key)
	if err != nil || data == nil {
		return false, err
	}
	if err := json.Unmarshal(data, out); err != nil {
		r.logger.Warn("Dropping undecodable cache entry", zap.String("key", key), zap.Error(err))
		_ = r.Delete(ctx, key)
		return false, nil
	}
	return true, nil
}

func (r *cacheRepository) setJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return r.Set(ctx, key, data, ttl)
}

func (r *cacheRepository) GetRouteSet(ctx context.Context, key string) (*domain.RouteSet, error) {
	var set domain.RouteSet
	ok, err := r.getJSON(ctx, key, &set)
	if err != nil || !ok {
		return nil, err
	}
	return &set, nil
}

func (r *cacheRepository) SetRouteSet(ctx context.Context, key string, routes *domain.RouteSet, ttl time.Duration) error {
	return r.setJSON(ctx, key, routes, ttl)
}

func (r *cacheRepository) GetMatrix(ctx context.Context, key string) ([]domain.PerOriginCost, error) {
	var costs []domain.PerOriginCost
	ok, err := r.getJSON(ctx, key, &costs)
	if err != nil || !ok {
		return nil, err
	}
	return costs, nil
}

func (r *cacheRepository) SetMatrix(ctx context.Context, key string, costs []domain.PerOriginCost, ttl time.Duration) error {
	return r.setJSON(ctx, key, costs, ttl)
}

func (r *cacheRepository) GetPlaces(ctx context.Context, key string) ([]domain.Place, error) {
	var places []domain.Place
	ok, err := r.getJSON(ctx, key, &places)
	if err != nil || !ok {
		return nil, err
	}
	if places == nil {
		places = []domain.Place{}
	}
	return places, nil
}

func (r *cacheRepository) SetPlaces(ctx context.Context, key string, places []domain.Place, ttl time.Duration) error {
	return r.setJSON(ctx, key, places, ttl)
}
