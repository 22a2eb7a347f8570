package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/gcec-dev/feedesk-api/internal/models"
	appErrors "github.com/gcec-dev/feedesk-api/pkg/errors"
)

const (
	cacheKeyGrades        = "catalog:grades"
	cacheKeyFees          = "catalog:fees"
	cacheKeyAcademicYears = "catalog:academic-years"
)

type catalogUpstream interface {
	Grades(ctx context.Context) ([]models.Grade, error)
	FeeCatalog(ctx context.Context) ([]models.FeeCatalogEntry, error)
	AcademicYears(ctx context.Context) ([]models.AcademicYear, error)
}

type catalogCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// CatalogService serves the reference lists the fee grid depends on: academic
// years, grades in curriculum order, and the standard fee amounts. Upstream
// failures degrade to empty lists; the page stays usable with empty dropdowns.
type CatalogService struct {
	upstream catalogUpstream
	cache    catalogCache
	cacheTTL time.Duration
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewCatalogService constructs the catalog service. cache may be nil when
// catalog caching is disabled.
func NewCatalogService(up catalogUpstream, cache catalogCache, cacheTTL time.Duration, metrics *MetricsService, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	return &CatalogService{upstream: up, cache: cache, cacheTTL: cacheTTL, metrics: metrics, logger: logger}
}

// Grades returns the grade catalog in curriculum order. The second result is
// true when the list is degraded because the upstream fetch failed.
func (s *CatalogService) Grades(ctx context.Context) ([]models.Grade, bool) {
	var cached []models.Grade
	if s.cacheGet(ctx, cacheKeyGrades, &cached) {
		return cached, false
	}

	grades, err := s.upstream.Grades(ctx)
	if err != nil {
		s.logger.Warn("grade catalog fetch failed", zap.Error(err))
		return []models.Grade{}, true
	}

	sorted := SortGrades(grades)
	s.cacheSet(ctx, cacheKeyGrades, sorted)
	return sorted, false
}

// FeeCatalog returns the standard fee amounts.
func (s *CatalogService) FeeCatalog(ctx context.Context) ([]models.FeeCatalogEntry, bool) {
	var cached []models.FeeCatalogEntry
	if s.cacheGet(ctx, cacheKeyFees, &cached) {
		return cached, false
	}

	fees, err := s.upstream.FeeCatalog(ctx)
	if err != nil {
		s.logger.Warn("fee catalog fetch failed", zap.Error(err))
		return []models.FeeCatalogEntry{}, true
	}

	s.cacheSet(ctx, cacheKeyFees, fees)
	return fees, false
}

// AcademicYears returns the academic year catalog.
func (s *CatalogService) AcademicYears(ctx context.Context) ([]models.AcademicYear, bool) {
	var cached []models.AcademicYear
	if s.cacheGet(ctx, cacheKeyAcademicYears, &cached) {
		return cached, false
	}

	years, err := s.upstream.AcademicYears(ctx)
	if err != nil {
		s.logger.Warn("academic year catalog fetch failed", zap.Error(err))
		return []models.AcademicYear{}, true
	}

	s.cacheSet(ctx, cacheKeyAcademicYears, years)
	return years, false
}

func (s *CatalogService) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	err := s.cache.Get(ctx, key, dest)
	if err == nil {
		s.metrics.RecordCacheOperation(true)
		return true
	}
	s.metrics.RecordCacheOperation(false)
	if !errors.Is(err, appErrors.ErrCacheMiss) {
		s.logger.Warn("catalog cache get failed", zap.String("key", key), zap.Error(err))
	}
	return false
}

func (s *CatalogService) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cacheTTL); err != nil {
		s.logger.Warn("catalog cache set failed", zap.String("key", key), zap.Error(err))
	}
}
