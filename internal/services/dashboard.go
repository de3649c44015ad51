package services

import (
	"context"
	"errors"
	"time"

	"github.com/tonzxz12/Findr-sub000/internal/config"
	"github.com/tonzxz12/Findr-sub000/internal/logger"
	"github.com/tonzxz12/Findr-sub000/internal/models"
	"github.com/tonzxz12/Findr-sub000/internal/repositories"
	"github.com/tonzxz12/Findr-sub000/internal/tenant"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const monthLayout = "2006-01"

// DashboardMetrics instruments dashboard builds.
type DashboardMetrics struct {
	buildDuration *prometheus.HistogramVec
	cacheLookups  *prometheus.CounterVec
}

// NewDashboardMetrics registers the dashboard collectors on reg.
func NewDashboardMetrics(reg prometheus.Registerer) *DashboardMetrics {
	factory := promauto.With(reg)
	return &DashboardMetrics{
		buildDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dashboard_build_duration_seconds",
			Help:    "Time spent reading and assembling a dashboard payload",
			Buckets: prometheus.DefBuckets,
		}, []string{"outcome"}),
		cacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_cache_lookups_total",
			Help: "Dashboard cache lookups by result",
		}, []string{"result"}),
	}
}

// dashboardService implements DashboardService
type dashboardService struct {
	logger  *logger.Logger
	repo    repositories.DashboardRepository
	cache   Cache
	metrics *DashboardMetrics
	cfg     config.DashboardConfig
	ttl     time.Duration
	now     func() time.Time
}

// NewDashboardService creates a new dashboard service. cache may be nil.
func NewDashboardService(
	logger *logger.Logger,
	repo repositories.DashboardRepository,
	cache Cache,
	metrics *DashboardMetrics,
	cfg *config.Config,
) DashboardService {
	dashboardCfg := cfg.Dashboard
	if dashboardCfg.RecentLimit <= 0 {
		dashboardCfg.RecentLimit = 5
	}
	if dashboardCfg.TrendMonths <= 0 {
		dashboardCfg.TrendMonths = 12
	}

	var ttl time.Duration
	if cfg.Cache.Enabled {
		ttl = time.Duration(cfg.Cache.DashboardTTL) * time.Second
	}
	if ttl <= 0 {
		cache = nil
	}

	return &dashboardService{
		logger:  logger,
		repo:    repo,
		cache:   cache,
		metrics: metrics,
		cfg:     dashboardCfg,
		ttl:     ttl,
		now:     time.Now,
	}
}

// GetDashboardData returns the tenant's metrics, groupings and recent
// projects. Store failures are returned as-is; no partial payload is built.
func (s *dashboardService) GetDashboardData(ctx context.Context, t tenant.Tenant) (*models.DashboardPayload, error) {
	log := s.logger.WithTenant(t)

	if s.cache != nil {
		var cached models.DashboardPayload
		err := s.cache.Get(ctx, DashboardKey(t), &cached)
		switch {
		case err == nil:
			s.countLookup("hit")
			return &cached, nil
		case errors.Is(err, ErrCacheMiss):
			s.countLookup("miss")
		default:
			s.countLookup("error")
			log.WithError(err).Warn("Dashboard cache read failed")
		}
	}

	start := time.Now()
	now := s.now().UTC()
	stats, err := s.repo.LoadStats(ctx, t, repositories.DashboardQuery{
		Now:         now,
		RecentLimit: s.cfg.RecentLimit,
		TrendSince:  trendStart(now, s.cfg.TrendMonths),
	})
	if err != nil {
		s.observeBuild("error", start)
		log.WithError(err).Error("Failed to load dashboard data")
		return nil, err
	}

	payload := buildPayload(stats, now)
	s.observeBuild("ok", start)

	if ttl := s.cacheTTL(stats.Counts, now); s.cache != nil && ttl > 0 {
		if err := s.cache.SetWithTags(ctx, DashboardKey(t), payload, ttl, []string{TenantTag(t)}); err != nil {
			log.WithError(err).Warn("Dashboard cache write failed")
		}
	}

	log.WithField("total_projects", payload.Metrics.TotalProjects).Debug("Dashboard built")
	return payload, nil
}

// Invalidate drops the cached dashboard of a tenant after its rows change.
func (s *dashboardService) Invalidate(ctx context.Context, t tenant.Tenant) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateByTag(ctx, TenantTag(t)); err != nil {
		s.logger.WithTenant(t).WithError(err).Warn("Dashboard cache invalidation failed")
	}
}

// cacheTTL keeps a cached payload from outliving the next tender closing,
// after which its active and completed counts would be wrong.
func (s *dashboardService) cacheTTL(counts repositories.ProjectCounts, now time.Time) time.Duration {
	ttl := s.ttl
	if counts.NextClosingAt != nil {
		if until := counts.NextClosingAt.Sub(now); until < ttl {
			ttl = until
		}
	}
	return ttl
}

func (s *dashboardService) countLookup(result string) {
	if s.metrics != nil {
		s.metrics.cacheLookups.WithLabelValues(result).Inc()
	}
}

func (s *dashboardService) observeBuild(outcome string, start time.Time) {
	if s.metrics != nil {
		s.metrics.buildDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	}
}

// trendStart is the first instant of the oldest month in the trend window.
func trendStart(now time.Time, months int) time.Time {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, -(months - 1), 0)
}

func buildPayload(stats *repositories.DashboardStats, now time.Time) *models.DashboardPayload {
	payload := models.EmptyDashboard()
	counts := stats.Counts

	payload.Metrics = models.DashboardMetrics{
		TotalProjects:     counts.Total,
		ActiveProjects:    counts.Active,
		TotalBudget:       counts.TotalBudget,
		CompletedProjects: counts.Completed,
	}

	for _, sc := range []models.StatusCount{
		{Status: models.ProjectStatusActive, Count: counts.Active},
		{Status: models.ProjectStatusCompleted, Count: counts.Completed},
		{Status: models.ProjectStatusUnscheduled, Count: counts.Unscheduled},
	} {
		if sc.Count > 0 {
			payload.ProjectsByStatus = append(payload.ProjectsByStatus, sc)
		}
	}

	payload.ProjectsOverTime = fillMonths(stats.Months)

	if stats.Categories != nil {
		payload.BudgetByCategory = stats.Categories
	}
	if stats.Modes != nil {
		payload.ProcurementModes = stats.Modes
	}

	for _, p := range stats.Recent {
		payload.RecentProjects = append(payload.RecentProjects, summarize(p, now))
	}

	return payload
}

// fillMonths inserts zero counts for months missing between the first and
// last populated month. Input must be sorted ascending.
func fillMonths(months []models.MonthCount) []models.MonthCount {
	out := []models.MonthCount{}
	if len(months) == 0 {
		return out
	}

	counts := make(map[string]int64, len(months))
	for _, m := range months {
		counts[m.Month] += m.Count
	}

	first, errFirst := time.Parse(monthLayout, months[0].Month)
	last, errLast := time.Parse(monthLayout, months[len(months)-1].Month)
	if errFirst != nil || errLast != nil || last.Before(first) {
		return append(out, months...)
	}

	for m := first; !m.After(last); m = m.AddDate(0, 1, 0) {
		key := m.Format(monthLayout)
		out = append(out, models.MonthCount{Month: key, Count: counts[key]})
	}
	return out
}

func summarize(p *models.Project, now time.Time) models.ProjectSummary {
	return models.ProjectSummary{
		ID:              p.ID,
		ReferenceNumber: p.ReferenceNumber,
		Title:           p.Title,
		ProcuringEntity: p.ProcuringEntity,
		ABC:             p.ABC,
		Category:        p.Category,
		ProcurementMode: p.ProcurementMode,
		Status:          p.Status(now),
		ClosingAt:       p.ClosingAt,
		ParsedClosingAt: p.ParsedClosingAt,
		CreatedAt:       p.CreatedAt,
	}
}
