package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gemini-multitool/internal/cache"
	"gemini-multitool/internal/domain"
	"gemini-multitool/internal/logger"

	"go.uber.org/zap"
)

// CacheStore keeps sessions as JSON in a domain.Cache so several replicas can
// serve the same browser session. Entries expire ttl after their last save.
type CacheStore struct {
	cache domain.Cache
	ttl   time.Duration
}

// NewCacheStore creates a cache-backed store.
func NewCacheStore(c domain.Cache, ttl time.Duration) *CacheStore {
	return &CacheStore{cache: c, ttl: ttl}
}

func (s *CacheStore) key(id string) string {
	return cache.GenerateCacheKey("session", "state", id)
}

func (s *CacheStore) Load(ctx context.Context, id string) (*Session, error) {
	key := s.key(id)
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			logger.Get().Debug("Session cache miss", zap.String("key", key))
			return nil, ErrNotFound
		}
		logger.Get().Error("Failed to load session from cache", zap.Error(err), zap.String("key", key))
		return nil, domain.NewInternalError(fmt.Sprintf("failed to load session %s", id), err)
	}

	sess, err := decode([]byte(data))
	if err != nil {
		logger.Get().Error("Failed to unmarshal session from cache", zap.Error(err), zap.String("key", key))
		return nil, domain.NewInternalError(fmt.Sprintf("failed to decode session %s", id), err)
	}
	return sess, nil
}

func (s *CacheStore) Save(ctx context.Context, sess *Session) error {
	key := s.key(sess.ID)
	data, err := json.Marshal(sess)
	if err != nil {
		return domain.NewInternalError("failed to marshal session", err)
	}
	if err := s.cache.Set(ctx, key, string(data), s.ttl); err != nil {
		logger.Get().Error("Failed to save session to cache", zap.Error(err), zap.String("key", key))
		return domain.NewInternalError(fmt.Sprintf("failed to save session %s", sess.ID), err)
	}
	return nil
}

func (s *CacheStore) Delete(ctx context.Context, id string) error {
	if err := s.cache.Delete(ctx, s.key(id)); err != nil {
		return domain.NewInternalError(fmt.Sprintf("failed to delete session %s", id), err)
	}
	return nil
}

func (s *CacheStore) Touch(ctx context.Context, id string) error {
	if err := s.cache.Expire(ctx, s.key(id), s.ttl); err != nil {
		return domain.NewInternalError(fmt.Sprintf("failed to extend session %s", id), err)
	}
	return nil
}
