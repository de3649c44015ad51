package repositories

import (
	"context"
	"time"

	"github.com/tonzxz12/Findr-sub000/internal/listing"
	"github.com/tonzxz12/Findr-sub000/internal/models"
	"github.com/tonzxz12/Findr-sub000/internal/tenant"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	CreateWithClient(ctx context.Context, user *models.User, client *models.Client) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetAll(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}

// ClientRepository defines the interface for client (tenant) data operations
type ClientRepository interface {
	Create(ctx context.Context, client *models.Client) error
	GetByID(ctx context.Context, id string) (*models.Client, error)
	GetAll(ctx context.Context) ([]*models.Client, error)
	GetByOwner(ctx context.Context, ownerID string) ([]*models.Client, error)
	Update(ctx context.Context, client *models.Client) error
	Delete(ctx context.Context, id string) error
}

// ProjectRepository defines tenant-scoped project data operations
type ProjectRepository interface {
	Create(ctx context.Context, t tenant.Tenant, project *models.Project) error
	GetByID(ctx context.Context, t tenant.Tenant, id string) (*models.Project, error)
	List(ctx context.Context, t tenant.Tenant, q listing.Query) ([]*models.Project, int64, error)
	Update(ctx context.Context, t tenant.Tenant, project *models.Project) error
	Delete(ctx context.Context, t tenant.Tenant, id string) error
}

// AttachmentRepository defines tenant-scoped project attachment operations
type AttachmentRepository interface {
	Create(ctx context.Context, t tenant.Tenant, attachment *models.ProjectAttachment) error
	ListByProject(ctx context.Context, t tenant.Tenant, projectID string) ([]*models.ProjectAttachment, error)
	Delete(ctx context.Context, t tenant.Tenant, projectID, id string) error
}

// InventoryRepository defines tenant-scoped client repository (inventory) operations
type InventoryRepository interface {
	Create(ctx context.Context, t tenant.Tenant, repo *models.ClientRepository) error
	GetByID(ctx context.Context, t tenant.Tenant, id string) (*models.ClientRepository, error)
	List(ctx context.Context, t tenant.Tenant, q listing.Query) ([]*models.ClientRepository, int64, error)
	Update(ctx context.Context, t tenant.Tenant, repo *models.ClientRepository) error
	Delete(ctx context.Context, t tenant.Tenant, id string) error
}

// DashboardRepository reads the aggregates behind the dashboard
type DashboardRepository interface {
	LoadStats(ctx context.Context, t tenant.Tenant, opts DashboardQuery) (*DashboardStats, error)
}
