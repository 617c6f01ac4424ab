package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/smart-result/records-service/internal/cache"
	"github.com/smart-result/records-service/internal/repositories"
)

type dashboardService struct {
	repo   repositories.Repository
	cache  *cache.CacheManager
	logger *slog.Logger
}

func NewDashboardService(repo repositories.Repository, cacheManager *cache.CacheManager, logger *slog.Logger) DashboardService {
	return &dashboardService{
		repo:   repo,
		cache:  cacheManager,
		logger: logger,
	}
}

const statsCacheKey = "dashboard"

func (s *dashboardService) GetStats(ctx context.Context) (*repositories.DashboardStats, error) {
	if s.cache != nil {
		var cached repositories.DashboardStats
		err := s.cache.Stats.Get(ctx, statsCacheKey, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrCacheNotFound) && !errors.Is(err, cache.ErrCacheNotAvailable) {
			s.logger.Warn("Stats cache read failed", "error", err)
		}
	}

	stats, err := s.repo.Dashboard().GetStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute dashboard stats: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Stats.Set(ctx, statsCacheKey, stats, cache.StatsCacheConfig.TTL); err != nil {
			s.logger.Warn("Stats cache write failed", "error", err)
		}
	}

	return stats, nil
}
