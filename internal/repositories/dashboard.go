package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/tonzxz12/Findr-sub000/internal/apperrors"
	"github.com/tonzxz12/Findr-sub000/internal/database"
	"github.com/tonzxz12/Findr-sub000/internal/models"
	"github.com/tonzxz12/Findr-sub000/internal/tenant"

	"gorm.io/gorm"
)

// Labels for empty grouping keys.
const (
	UncategorizedLabel = "Uncategorized"
	UnspecifiedLabel   = "Unspecified"
)

// DashboardQuery fixes the reference instant and output bounds of one read.
type DashboardQuery struct {
	Now         time.Time
	RecentLimit int
	TrendSince  time.Time
}

// ProjectCounts are the headline counters of a tenant.
type ProjectCounts struct {
	Total       int64
	Active      int64
	Completed   int64
	Unscheduled int64
	TotalBudget float64

	// NextClosingAt is the earliest closing time still in the future. The
	// active and completed counts change when it passes.
	NextClosingAt *time.Time
}

// DashboardStats is everything read for one dashboard, taken from a single
// snapshot.
type DashboardStats struct {
	Counts     ProjectCounts
	Months     []models.MonthCount
	Categories []models.CategoryBudget
	Modes      []models.ProcurementMode
	Recent     []*models.Project
}

// dashboardRepository implements DashboardRepository
type dashboardRepository struct {
	db *database.Connection
}

// NewDashboardRepository creates a new dashboard repository
func NewDashboardRepository(db *database.Connection) DashboardRepository {
	return &dashboardRepository{db: db}
}

var snapshotTx = &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}

// LoadStats runs every dashboard query inside one read-only repeatable-read
// transaction. Any failure aborts the whole read.
func (r *dashboardRepository) LoadStats(ctx context.Context, t tenant.Tenant, opts DashboardQuery) (*DashboardStats, error) {
	stats := &DashboardStats{
		Months:     []models.MonthCount{},
		Categories: []models.CategoryBudget{},
		Modes:      []models.ProcurementMode{},
		Recent:     []*models.Project{},
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := loadCounts(tx, t, opts.Now, &stats.Counts); err != nil {
			return err
		}
		if stats.Counts.Total == 0 {
			return nil
		}
		if err := loadMonths(tx, t, opts.TrendSince, &stats.Months); err != nil {
			return err
		}
		if err := loadCategories(tx, t, &stats.Categories); err != nil {
			return err
		}
		if err := loadModes(tx, t, &stats.Modes); err != nil {
			return err
		}
		return tx.Scopes(tenant.Scope(t)).
			Order("created_at DESC, id DESC").
			Limit(opts.RecentLimit).
			Find(&stats.Recent).Error
	}, snapshotTx)
	if err != nil {
		return nil, apperrors.FromDB(err, "failed to load dashboard")
	}

	return stats, nil
}

func loadCounts(tx *gorm.DB, t tenant.Tenant, now time.Time, out *ProjectCounts) error {
	var row struct {
		Total       int64
		Active      int64
		Completed   int64
		TotalBudget float64
		NextClosing *time.Time
	}
	err := tx.Model(&models.Project{}).
		Select(`COUNT(*) AS total,
			COUNT(*) FILTER (WHERE parsed_closing_at > ?) AS active,
			COUNT(*) FILTER (WHERE parsed_closing_at <= ?) AS completed,
			COALESCE(SUM(abc), 0)::float8 AS total_budget,
			MIN(parsed_closing_at) FILTER (WHERE parsed_closing_at > ?) AS next_closing`, now, now, now).
		Scopes(tenant.Scope(t)).
		Scan(&row).Error
	if err != nil {
		return err
	}

	*out = ProjectCounts{
		Total:         row.Total,
		Active:        row.Active,
		Completed:     row.Completed,
		Unscheduled:   row.Total - row.Active - row.Completed,
		TotalBudget:   row.TotalBudget,
		NextClosingAt: row.NextClosing,
	}
	return nil
}

func loadMonths(tx *gorm.DB, t tenant.Tenant, since time.Time, out *[]models.MonthCount) error {
	return tx.Model(&models.Project{}).
		Select("to_char(date_trunc('month', created_at AT TIME ZONE 'UTC'), 'YYYY-MM') AS month, COUNT(*) AS count").
		Scopes(tenant.Scope(t)).
		Where("created_at >= ?", since).
		Group("1").
		Order("1 ASC").
		Scan(out).Error
}

func loadCategories(tx *gorm.DB, t tenant.Tenant, out *[]models.CategoryBudget) error {
	return tx.Model(&models.Project{}).
		Select("COALESCE(NULLIF(TRIM(category), ''), ?) AS category, COALESCE(SUM(abc), 0)::float8 AS total_budget, COUNT(*) AS count", UncategorizedLabel).
		Scopes(tenant.Scope(t)).
		Group("1").
		Order("total_budget DESC, category ASC").
		Scan(out).Error
}

func loadModes(tx *gorm.DB, t tenant.Tenant, out *[]models.ProcurementMode) error {
	return tx.Model(&models.Project{}).
		Select("COALESCE(NULLIF(TRIM(procurement_mode), ''), ?) AS mode, COUNT(*) AS count", UnspecifiedLabel).
		Scopes(tenant.Scope(t)).
		Group("1").
		Order("count DESC, mode ASC").
		Scan(out).Error
}
