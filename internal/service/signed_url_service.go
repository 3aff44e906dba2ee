package service

import (
	"context"
	"time"

	"cooking-coach-be/internal/pkg/logger"
	"cooking-coach-be/pkg/gcs"

	"github.com/redis/go-redis/v9"
)

type ISignedURLService interface {
	SignedReadURL(ctx context.Context, objectPath string) (string, error)
}

// signedURLService mints signed read URLs and memoizes them in Redis. The
// cache TTL stays comfortably below the URL expiry so a cache hit never
// serves a URL about to die.
type signedURLService struct {
	storage *gcs.Client
	rdb     *redis.Client
	expiry  time.Duration
	logger  logger.ILogger
}

func NewSignedURLService(storage *gcs.Client, rdb *redis.Client, expiry time.Duration, log logger.ILogger) ISignedURLService {
	return &signedURLService{
		storage: storage,
		rdb:     rdb,
		expiry:  expiry,
		logger:  log,
	}
}

func (s *signedURLService) SignedReadURL(ctx context.Context, objectPath string) (string, error) {
	key := "signedurl:" + objectPath

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, key).Result(); err == nil && cached != "" {
			return cached, nil
		}
	}

	url, err := s.storage.SignedURL(objectPath, s.expiry)
	if err != nil {
		return "", err
	}

	if s.rdb != nil {
		ttl := s.expiry - time.Hour
		if ttl <= 0 {
			ttl = s.expiry / 2
		}
		if err := s.rdb.Set(ctx, key, url, ttl).Err(); err != nil {
			s.logger.Warn("SignedURLService", "failed to cache signed url", map[string]interface{}{
				"path":  objectPath,
				"error": err.Error(),
			})
		}
	}

	return url, nil
}
