package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"

	"github.com/tonzxz12/Findr-sub000/internal/listing"
	"github.com/tonzxz12/Findr-sub000/internal/logger"
	"github.com/tonzxz12/Findr-sub000/internal/models"
	"github.com/tonzxz12/Findr-sub000/internal/repositories"
	"github.com/tonzxz12/Findr-sub000/internal/tenant"
)

// createTestLogger creates a logger for testing
func createTestLogger() *logger.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return &logger.Logger{Logger: l}
}

// MockUserRepository is a mock implementation of UserRepository for testing
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) CreateWithClient(ctx context.Context, user *models.User, client *models.Client) error {
	args := m.Called(ctx, user, client)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetAll(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

// MockClientRepository is a mock implementation of ClientRepository
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) Create(ctx context.Context, client *models.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) GetByID(ctx context.Context, id string) (*models.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Client), args.Error(1)
}

func (m *MockClientRepository) GetAll(ctx context.Context) ([]*models.Client, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Client), args.Error(1)
}

func (m *MockClientRepository) GetByOwner(ctx context.Context, ownerID string) ([]*models.Client, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Client), args.Error(1)
}

func (m *MockClientRepository) Update(ctx context.Context, client *models.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockProjectRepository is a mock implementation of ProjectRepository
type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) Create(ctx context.Context, t tenant.Tenant, project *models.Project) error {
	args := m.Called(ctx, t, project)
	return args.Error(0)
}

func (m *MockProjectRepository) GetByID(ctx context.Context, t tenant.Tenant, id string) (*models.Project, error) {
	args := m.Called(ctx, t, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *MockProjectRepository) List(ctx context.Context, t tenant.Tenant, q listing.Query) ([]*models.Project, int64, error) {
	args := m.Called(ctx, t, q)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.Project), args.Get(1).(int64), args.Error(2)
}

func (m *MockProjectRepository) Update(ctx context.Context, t tenant.Tenant, project *models.Project) error {
	args := m.Called(ctx, t, project)
	return args.Error(0)
}

func (m *MockProjectRepository) Delete(ctx context.Context, t tenant.Tenant, id string) error {
	args := m.Called(ctx, t, id)
	return args.Error(0)
}

// MockInventoryRepository is a mock implementation of InventoryRepository
type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) Create(ctx context.Context, t tenant.Tenant, repo *models.ClientRepository) error {
	args := m.Called(ctx, t, repo)
	return args.Error(0)
}

func (m *MockInventoryRepository) GetByID(ctx context.Context, t tenant.Tenant, id string) (*models.ClientRepository, error) {
	args := m.Called(ctx, t, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ClientRepository), args.Error(1)
}

func (m *MockInventoryRepository) List(ctx context.Context, t tenant.Tenant, q listing.Query) ([]*models.ClientRepository, int64, error) {
	args := m.Called(ctx, t, q)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.ClientRepository), args.Get(1).(int64), args.Error(2)
}

func (m *MockInventoryRepository) Update(ctx context.Context, t tenant.Tenant, repo *models.ClientRepository) error {
	args := m.Called(ctx, t, repo)
	return args.Error(0)
}

func (m *MockInventoryRepository) Delete(ctx context.Context, t tenant.Tenant, id string) error {
	args := m.Called(ctx, t, id)
	return args.Error(0)
}

// MockAttachmentRepository is a mock implementation of AttachmentRepository
type MockAttachmentRepository struct {
	mock.Mock
}

func (m *MockAttachmentRepository) Create(ctx context.Context, t tenant.Tenant, attachment *models.ProjectAttachment) error {
	args := m.Called(ctx, t, attachment)
	return args.Error(0)
}

func (m *MockAttachmentRepository) ListByProject(ctx context.Context, t tenant.Tenant, projectID string) ([]*models.ProjectAttachment, error) {
	args := m.Called(ctx, t, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ProjectAttachment), args.Error(1)
}

func (m *MockAttachmentRepository) Delete(ctx context.Context, t tenant.Tenant, projectID, id string) error {
	args := m.Called(ctx, t, projectID, id)
	return args.Error(0)
}

// MockDashboardRepository is a mock implementation of DashboardRepository
type MockDashboardRepository struct {
	mock.Mock
}

func (m *MockDashboardRepository) LoadStats(ctx context.Context, t tenant.Tenant, opts repositories.DashboardQuery) (*repositories.DashboardStats, error) {
	args := m.Called(ctx, t, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.DashboardStats), args.Error(1)
}

// MockCache is a mock implementation of Cache
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string, dest interface{}) error {
	args := m.Called(ctx, key, dest)
	return args.Error(0)
}

func (m *MockCache) SetWithTags(ctx context.Context, key string, value interface{}, expiration time.Duration, tags []string) error {
	args := m.Called(ctx, key, value, expiration, tags)
	return args.Error(0)
}

func (m *MockCache) InvalidateByTag(ctx context.Context, tag string) error {
	args := m.Called(ctx, tag)
	return args.Error(0)
}

// MockDashboardService records cache invalidations
type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) GetDashboardData(ctx context.Context, t tenant.Tenant) (*models.DashboardPayload, error) {
	args := m.Called(ctx, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DashboardPayload), args.Error(1)
}

func (m *MockDashboardService) Invalidate(ctx context.Context, t tenant.Tenant) {
	m.Called(ctx, t)
}
