package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	apperrors "github.com/yourusername/typerush-api/internal/pkg/errors"
)

// opTimeout ограничивает каждую операцию кеша: зависший Redis не должен
// блокировать путь прогресса гонки
const opTimeout = 2 * time.Second

// CacheRepo реализует repository.CacheRepository поверх Redis
type CacheRepo struct {
	client redis.UniversalClient
}

// NewCacheRepo создает новый репозиторий кеша
func NewCacheRepo(client redis.UniversalClient) (*CacheRepo, error) {
	if client == nil {
		return nil, fmt.Errorf("Redis client cannot be nil for CacheRepo")
	}
	return &CacheRepo{client: client}, nil
}

func (r *CacheRepo) opCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), opTimeout)
}

// Delete удаляет ключ
func (r *CacheRepo) Delete(key string) error {
	ctx, cancel := r.opCtx()
	defer cancel()
	return r.client.Del(ctx, key).Err()
}

// SetJSON сериализует значение в JSON и сохраняет его с TTL
func (r *CacheRepo) SetJSON(key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	ctx, cancel := r.opCtx()
	defer cancel()
	return r.client.Set(ctx, key, data, expiration).Err()
}

// GetJSON читает JSON-значение в dest. Отсутствие ключа — apperrors.ErrNotFound.
func (r *CacheRepo) GetJSON(key string, dest interface{}) error {
	ctx, cancel := r.opCtx()
	defer cancel()
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return apperrors.ErrNotFound
		}
		return err
	}
	return json.Unmarshal(data, dest)
}

// SAdd добавляет элементы в множество
func (r *CacheRepo) SAdd(key string, members ...interface{}) error {
	ctx, cancel := r.opCtx()
	defer cancel()
	return r.client.SAdd(ctx, key, members...).Err()
}

// SRem удаляет элементы из множества
func (r *CacheRepo) SRem(key string, members ...interface{}) error {
	ctx, cancel := r.opCtx()
	defer cancel()
	return r.client.SRem(ctx, key, members...).Err()
}

// SMembers возвращает все элементы множества
func (r *CacheRepo) SMembers(key string) ([]string, error) {
	ctx, cancel := r.opCtx()
	defer cancel()
	return r.client.SMembers(ctx, key).Result()
}
