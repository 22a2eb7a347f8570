package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcec-dev/feedesk-api/internal/models"
	appErrors "github.com/gcec-dev/feedesk-api/pkg/errors"
)

type fakeCatalogUpstream struct {
	grades    []models.Grade
	gradesErr error
	fees      []models.FeeCatalogEntry
	feesErr   error
	years     []models.AcademicYear
	yearsErr  error

	gradeCalls int
}

func (f *fakeCatalogUpstream) Grades(ctx context.Context) ([]models.Grade, error) {
	f.gradeCalls++
	return f.grades, f.gradesErr
}

func (f *fakeCatalogUpstream) FeeCatalog(ctx context.Context) ([]models.FeeCatalogEntry, error) {
	return f.fees, f.feesErr
}

func (f *fakeCatalogUpstream) AcademicYears(ctx context.Context) ([]models.AcademicYear, error) {
	return f.years, f.yearsErr
}

type mapCache struct {
	entries map[string][]byte
	setErr  error
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string][]byte)}
}

func (m *mapCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *mapCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func TestCatalogGradesSortedInCurriculumOrder(t *testing.T) {
	up := &fakeCatalogUpstream{grades: []models.Grade{
		{Slug: "g10", Name: "Grade 10"},
		{Slug: "nur", Name: "Nursery"},
		{Slug: "g2", Name: "Grade 2"},
	}}
	svc := NewCatalogService(up, nil, time.Minute, nil, nil)

	grades, degraded := svc.Grades(context.Background())
	require.False(t, degraded)
	require.Len(t, grades, 3)
	assert.Equal(t, "Nursery", grades[0].Name)
	assert.Equal(t, "Grade 2", grades[1].Name)
	assert.Equal(t, "Grade 10", grades[2].Name)
}

func TestCatalogGradesDegradeOnUpstreamFailure(t *testing.T) {
	up := &fakeCatalogUpstream{gradesErr: errors.New("connection refused")}
	svc := NewCatalogService(up, nil, time.Minute, nil, nil)

	grades, degraded := svc.Grades(context.Background())
	assert.True(t, degraded)
	assert.NotNil(t, grades)
	assert.Empty(t, grades)
}

func TestCatalogGradesServedFromCache(t *testing.T) {
	up := &fakeCatalogUpstream{grades: []models.Grade{{Slug: "nur", Name: "Nursery"}}}
	cache := newMapCache()
	svc := NewCatalogService(up, cache, time.Minute, nil, nil)

	first, degraded := svc.Grades(context.Background())
	require.False(t, degraded)
	require.Len(t, first, 1)
	assert.Equal(t, 1, up.gradeCalls)

	second, degraded := svc.Grades(context.Background())
	require.False(t, degraded)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, up.gradeCalls, "second read should not hit the upstream")
}

func TestCatalogCacheSetFailureIsNonFatal(t *testing.T) {
	up := &fakeCatalogUpstream{grades: []models.Grade{{Slug: "kg", Name: "KG"}}}
	cache := newMapCache()
	cache.setErr = errors.New("redis down")
	svc := NewCatalogService(up, cache, time.Minute, nil, nil)

	grades, degraded := svc.Grades(context.Background())
	require.False(t, degraded)
	assert.Len(t, grades, 1)
}

func TestCatalogFees(t *testing.T) {
	up := &fakeCatalogUpstream{fees: []models.FeeCatalogEntry{{Amount: 50000}, {Amount: 45000}}}
	svc := NewCatalogService(up, nil, time.Minute, nil, nil)

	fees, degraded := svc.FeeCatalog(context.Background())
	require.False(t, degraded)
	assert.Len(t, fees, 2)
}

func TestCatalogFeesDegrade(t *testing.T) {
	up := &fakeCatalogUpstream{feesErr: errors.New("boom")}
	svc := NewCatalogService(up, nil, time.Minute, nil, nil)

	fees, degraded := svc.FeeCatalog(context.Background())
	assert.True(t, degraded)
	assert.Empty(t, fees)
}

func TestCatalogAcademicYears(t *testing.T) {
	up := &fakeCatalogUpstream{years: []models.AcademicYear{{Slug: "2024", Name: "2024-2025"}}}
	svc := NewCatalogService(up, nil, time.Minute, nil, nil)

	years, degraded := svc.AcademicYears(context.Background())
	require.False(t, degraded)
	require.Len(t, years, 1)
	assert.Equal(t, "2024", years[0].Slug)
}

func TestCatalogAcademicYearsDegrade(t *testing.T) {
	up := &fakeCatalogUpstream{yearsErr: errors.New("boom")}
	svc := NewCatalogService(up, nil, time.Minute, nil, nil)

	years, degraded := svc.AcademicYears(context.Background())
	assert.True(t, degraded)
	assert.Empty(t, years)
}
