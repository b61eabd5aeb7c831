package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// UserSessionKey returns the cache key holding the active token id of a user.
func (r *CacheKeyStruct) UserSessionKey(username string) string {
	return fmt.Sprintf("login:%s", username)
}

// SnapshotKey returns the cache key for an entity list snapshot (teachers, subjects, ...).
func (r *CacheKeyStruct) SnapshotKey(kind string) string {
	return fmt.Sprintf("snapshot:%s", kind)
}

// NotificationChannel returns the Redis PubSub channel that carries toast notifications.
func (r *CacheKeyStruct) NotificationChannel() string {
	return "notifications"
}

var CacheKey = NewCacheKeyStruct()
