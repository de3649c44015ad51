//go:build integration

package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tonzxz12/Findr-sub000/internal/config"
	"github.com/tonzxz12/Findr-sub000/internal/database"
	"github.com/tonzxz12/Findr-sub000/internal/handlers"
	"github.com/tonzxz12/Findr-sub000/internal/logger"
	"github.com/tonzxz12/Findr-sub000/internal/middleware"
	"github.com/tonzxz12/Findr-sub000/internal/models"
	"github.com/tonzxz12/Findr-sub000/internal/repositories"
	"github.com/tonzxz12/Findr-sub000/internal/security"
	"github.com/tonzxz12/Findr-sub000/internal/server"
	"github.com/tonzxz12/Findr-sub000/internal/services"
	findr "github.com/tonzxz12/Findr-sub000/sdk/go"
)

func startAPI(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("philprocure"),
		tcpostgres.WithUsername("philprocure"),
		tcpostgres.WithPassword("philprocure"),
		tcpostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	conn, err := database.NewConnectionFromDialector(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.NewMigrator(conn).Up())

	cfg := &config.Config{
		Server:    config.ServerConfig{Port: "0"},
		Auth:      config.AuthConfig{JWTSecret: "integration-test-secret", TokenTTL: 3600, Issuer: "findr"},
		Dashboard: config.DashboardConfig{RecentLimit: 5, TrendMonths: 12},
	}
	base := logrus.New()
	base.SetLevel(logrus.PanicLevel)
	log := &logger.Logger{Logger: base}
	reg := prometheus.NewRegistry()

	userRepo := repositories.NewUserRepository(conn)
	clientRepo := repositories.NewClientRepository(conn)

	dashboardSvc := services.NewDashboardService(log, repositories.NewDashboardRepository(conn), nil, services.NewDashboardMetrics(reg), cfg)
	projectSvc := services.NewProjectService(log, repositories.NewProjectRepository(conn), repositories.NewAttachmentRepository(conn), dashboardSvc)
	clientSvc := services.NewClientService(log, clientRepo, dashboardSvc)
	authSvc := services.NewAuthenticationService(log, userRepo, clientRepo, cfg)
	authzSvc := services.NewAuthorizationService(log, clientRepo)
	userSvc := services.NewUserManagementService(log, userRepo, authSvc)

	sec := security.NewSecurityMiddleware(cfg)
	t.Cleanup(sec.Close)

	srv := server.NewServer(cfg, log, server.Handlers{
		Health:    handlers.NewHealthHandler(map[string]handlers.Pinger{"database": conn}),
		Auth:      handlers.NewAuthHandler(log, authSvc, userSvc, clientSvc),
		Dashboard: handlers.NewDashboardHandler(log, dashboardSvc),
		Projects:  handlers.NewProjectHandler(log, projectSvc),
		Inventory: handlers.NewInventoryHandler(log, services.NewInventoryService(log, repositories.NewInventoryRepository(conn))),
		Clients:   handlers.NewClientHandler(log, clientSvc, authzSvc),
		Users:     handlers.NewUserHandler(log, userSvc),
	}, middleware.NewAuthenticationMiddleware(log, authSvc, authzSvc), sec, middleware.NewHTTPMetrics(reg), reg)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts.URL
}

func TestDashboardEndToEnd(t *testing.T) {
	baseURL := startAPI(t)
	ctx := context.Background()

	api := findr.NewClient(baseURL)
	reg, err := api.Register(ctx, &models.RegisterRequest{
		Email:       "owner@example.ph",
		Password:    "correct-horse",
		FullName:    "Owner",
		CompanyName: "Acme Builders",
	})
	require.NoError(t, err)

	_, err = api.Login(ctx, "owner@example.ph", "correct-horse")
	require.NoError(t, err)

	empty, err := api.Dashboard(ctx)
	require.NoError(t, err)
	assert.Zero(t, empty.Metrics.TotalProjects)
	assert.Empty(t, empty.ProjectsByStatus)

	future := time.Now().UTC().Add(72 * time.Hour)
	past := time.Now().UTC().Add(-72 * time.Hour)
	category := "Civil Works"
	for _, in := range []*models.ProjectInput{
		{Title: "Road", ABC: 1000, Category: &category, ParsedClosingAt: &future},
		{Title: "Bridge", ABC: 2000, Category: &category, ParsedClosingAt: &past},
		{Title: "Survey", ABC: 500},
	} {
		p, err := api.CreateProject(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, reg.Client.ID, p.ClientID)
	}

	dash, err := api.Dashboard(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, dash.Metrics.TotalProjects)
	assert.EqualValues(t, 1, dash.Metrics.ActiveProjects)
	assert.EqualValues(t, 1, dash.Metrics.CompletedProjects)
	assert.InDelta(t, 3500, dash.Metrics.TotalBudget, 0.001)
	assert.Len(t, dash.RecentProjects, 3)
	require.Len(t, dash.BudgetByCategory, 1)
	assert.Equal(t, category, dash.BudgetByCategory[0].Category)

	page, err := api.ListProjects(ctx, &findr.ListOptions{Search: "ridg"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Bridge", page.Items[0].Title)
}

func TestTenantIsolationEndToEnd(t *testing.T) {
	baseURL := startAPI(t)
	ctx := context.Background()

	alice := findr.NewClient(baseURL)
	_, err := alice.Register(ctx, &models.RegisterRequest{Email: "alice@example.ph", Password: "alice-password", FullName: "Alice", CompanyName: "Alice Co"})
	require.NoError(t, err)
	_, err = alice.Login(ctx, "alice@example.ph", "alice-password")
	require.NoError(t, err)
	project, err := alice.CreateProject(ctx, &models.ProjectInput{Title: "Private", ABC: 10})
	require.NoError(t, err)

	bob := findr.NewClient(baseURL)
	bobReg, err := bob.Register(ctx, &models.RegisterRequest{Email: "bob@example.ph", Password: "bob-password", FullName: "Bob", CompanyName: "Bob Co"})
	require.NoError(t, err)
	_, err = bob.Login(ctx, "bob@example.ph", "bob-password")
	require.NoError(t, err)

	_, err = bob.GetProject(ctx, project.ID)
	var apiErr *findr.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)

	bob.SetClientID(project.ClientID)
	_, err = bob.Dashboard(ctx)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)

	bob.SetClientID(bobReg.Client.ID)
	dash, err := bob.Dashboard(ctx)
	require.NoError(t, err)
	assert.Zero(t, dash.Metrics.TotalProjects)
}
