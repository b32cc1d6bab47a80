package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/stockpilot/inventory-service/internal/dashboard"
	"github.com/stockpilot/inventory-service/internal/dashboard/dto"
)

type dashboardUseCase struct {
	repo   dashboard.Repository
	cache  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewDashboardUseCase builds the summary use case. cache may be nil, in which
// case every call hits the database.
func NewDashboardUseCase(repo dashboard.Repository, cache *redis.Client, ttl time.Duration, logger *zap.Logger) dashboard.UseCase {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &dashboardUseCase{
		repo:   repo,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

func cacheKey(tenantID string) string {
	return "dashboard:summary:" + tenantID
}

// GetSummary is a read-through cache. Summaries may lag mutations by up to the
// TTL; the mutation paths never invalidate this key.
func (uc *dashboardUseCase) GetSummary(ctx context.Context, tenantID string) (*dto.Summary, error) {
	if uc.cache != nil {
		val, err := uc.cache.Get(ctx, cacheKey(tenantID)).Result()
		if err == nil {
			var summary dto.Summary
			if err := json.Unmarshal([]byte(val), &summary); err == nil {
				return &summary, nil
			}
		} else if err != redis.Nil {
			uc.logger.Warn("dashboard cache read failed", zap.Error(err))
		}
	}

	summary, err := uc.repo.Summarize(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if data, err := json.Marshal(summary); err == nil {
			if err := uc.cache.Set(ctx, cacheKey(tenantID), data, uc.ttl).Err(); err != nil {
				uc.logger.Warn("dashboard cache write failed", zap.Error(err))
			}
		}
	}
	return summary, nil
}
