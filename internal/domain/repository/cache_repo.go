package repository

import (
	"time"
)

// CacheRepository определяет операции кеша, нужные гоночной подсистеме:
// JSON-кеш лидерборда и presence-множества участников гонок.
type CacheRepository interface {
	Delete(key string) error
	SetJSON(key string, value interface{}, expiration time.Duration) error
	GetJSON(key string, dest interface{}) error
	// SAdd/SRem/SMembers — операции над множеством участников гонки
	SAdd(key string, members ...interface{}) error
	SRem(key string, members ...interface{}) error
	SMembers(key string) ([]string, error)
}
