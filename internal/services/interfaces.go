package services

import (
	"context"
	"time"

	"github.com/tonzxz12/Findr-sub000/internal/listing"
	"github.com/tonzxz12/Findr-sub000/internal/models"
	"github.com/tonzxz12/Findr-sub000/internal/tenant"
)

// DashboardService builds the tenant dashboard
type DashboardService interface {
	GetDashboardData(ctx context.Context, t tenant.Tenant) (*models.DashboardPayload, error)
	Invalidate(ctx context.Context, t tenant.Tenant)
}

// ProjectService defines tenant-scoped project operations
type ProjectService interface {
	ListProjects(ctx context.Context, t tenant.Tenant, q listing.Query) (*listing.Page[*models.Project], error)
	GetProject(ctx context.Context, t tenant.Tenant, id string) (*models.Project, error)
	CreateProject(ctx context.Context, t tenant.Tenant, in *models.ProjectInput) (*models.Project, error)
	UpdateProject(ctx context.Context, t tenant.Tenant, id string, in *models.ProjectInput) (*models.Project, error)
	DeleteProject(ctx context.Context, t tenant.Tenant, id string) error

	ListAttachments(ctx context.Context, t tenant.Tenant, projectID string) ([]*models.ProjectAttachment, error)
	AddAttachment(ctx context.Context, t tenant.Tenant, projectID string, attachment *models.ProjectAttachment) (*models.ProjectAttachment, error)
	DeleteAttachment(ctx context.Context, t tenant.Tenant, projectID, attachmentID string) error
}

// ClientService defines client (tenant) management operations
type ClientService interface {
	ListClients(ctx context.Context, user *models.User) ([]*models.Client, error)
	GetClient(ctx context.Context, id string) (*models.Client, error)
	UpdateClient(ctx context.Context, id string, update *models.ClientUpdate) (*models.Client, error)
	DeleteClient(ctx context.Context, id string) error
}

// InventoryService defines tenant-scoped client repository operations
type InventoryService interface {
	ListRepositories(ctx context.Context, t tenant.Tenant, q listing.Query) (*listing.Page[*models.ClientRepository], error)
	GetRepository(ctx context.Context, t tenant.Tenant, id string) (*models.ClientRepository, error)
	CreateRepository(ctx context.Context, t tenant.Tenant, repo *models.ClientRepository) (*models.ClientRepository, error)
	UpdateRepository(ctx context.Context, t tenant.Tenant, id string, repo *models.ClientRepository) (*models.ClientRepository, error)
	DeleteRepository(ctx context.Context, t tenant.Tenant, id string) error
}

// AuthenticationService defines the interface for authentication operations
type AuthenticationService interface {
	Login(ctx context.Context, email, password string) (*models.LoginResponse, error)
	GenerateJWT(ctx context.Context, user *models.User) (string, time.Time, error)
	ValidateJWT(ctx context.Context, token string) (*models.User, error)
	HashPassword(password string) (string, error)
	VerifyPassword(hashedPassword, password string) error
}

// AuthorizationService decides which tenant a user may act on
type AuthorizationService interface {
	ResolveTenant(ctx context.Context, user *models.User, requestedClientID string) (tenant.Tenant, error)
	CanAccessClient(ctx context.Context, user *models.User, client *models.Client) bool
	LogSecurityViolation(ctx context.Context, user *models.User, action string, resourceID string)
}

// UserManagementService defines the interface for user management operations
type UserManagementService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, *models.Client, error)
	GetUser(ctx context.Context, userID string) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]*models.User, error)
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
	ActivateUser(ctx context.Context, userID string) error
	DeactivateUser(ctx context.Context, userID string) error
}
