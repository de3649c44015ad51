package services

import (
	"context"

	"github.com/tonzxz12/Findr-sub000/internal/listing"
	"github.com/tonzxz12/Findr-sub000/internal/logger"
	"github.com/tonzxz12/Findr-sub000/internal/models"
	"github.com/tonzxz12/Findr-sub000/internal/repositories"
	"github.com/tonzxz12/Findr-sub000/internal/tenant"
)

// projectService implements ProjectService
type projectService struct {
	logger         *logger.Logger
	projectRepo    repositories.ProjectRepository
	attachmentRepo repositories.AttachmentRepository
	dashboard      DashboardService
	validator      *models.ValidationService
}

// NewProjectService creates a new project service
func NewProjectService(
	logger *logger.Logger,
	projectRepo repositories.ProjectRepository,
	attachmentRepo repositories.AttachmentRepository,
	dashboard DashboardService,
) ProjectService {
	return &projectService{
		logger:         logger,
		projectRepo:    projectRepo,
		attachmentRepo: attachmentRepo,
		dashboard:      dashboard,
		validator:      models.NewValidationService(),
	}
}

// ListProjects returns one page of the tenant's projects
func (s *projectService) ListProjects(ctx context.Context, t tenant.Tenant, q listing.Query) (*listing.Page[*models.Project], error) {
	projects, total, err := s.projectRepo.List(ctx, t, q)
	if err != nil {
		s.logger.WithTenant(t).WithError(err).Error("Failed to list projects")
		return nil, err
	}
	return listing.NewPage(projects, total, q), nil
}

// GetProject returns a single project of the tenant
func (s *projectService) GetProject(ctx context.Context, t tenant.Tenant, id string) (*models.Project, error) {
	return s.projectRepo.GetByID(ctx, t, id)
}

// CreateProject validates and stores a new project for the tenant
func (s *projectService) CreateProject(ctx context.Context, t tenant.Tenant, in *models.ProjectInput) (*models.Project, error) {
	if err := s.validator.ValidateStruct(in); err != nil {
		return nil, invalid(err)
	}

	project := &models.Project{}
	in.Apply(project)

	if err := s.projectRepo.Create(ctx, t, project); err != nil {
		s.logger.WithTenant(t).WithError(err).Error("Failed to create project")
		return nil, err
	}

	s.logger.WithTenant(t).WithField("project_id", project.ID).Info("Project created")
	s.dashboard.Invalidate(ctx, t)
	return project, nil
}

// UpdateProject replaces the writable fields of a project
func (s *projectService) UpdateProject(ctx context.Context, t tenant.Tenant, id string, in *models.ProjectInput) (*models.Project, error) {
	if err := s.validator.ValidateStruct(in); err != nil {
		return nil, invalid(err)
	}

	project, err := s.projectRepo.GetByID(ctx, t, id)
	if err != nil {
		return nil, err
	}
	in.Apply(project)

	if err := s.projectRepo.Update(ctx, t, project); err != nil {
		s.logger.WithTenant(t).WithField("project_id", id).WithError(err).Error("Failed to update project")
		return nil, err
	}

	s.dashboard.Invalidate(ctx, t)
	return project, nil
}

// DeleteProject removes a project and, through the store, its attachments
func (s *projectService) DeleteProject(ctx context.Context, t tenant.Tenant, id string) error {
	if err := s.projectRepo.Delete(ctx, t, id); err != nil {
		return err
	}
	s.logger.WithTenant(t).WithField("project_id", id).Info("Project deleted")
	s.dashboard.Invalidate(ctx, t)
	return nil
}

func (s *projectService) ListAttachments(ctx context.Context, t tenant.Tenant, projectID string) ([]*models.ProjectAttachment, error) {
	return s.attachmentRepo.ListByProject(ctx, t, projectID)
}

func (s *projectService) AddAttachment(ctx context.Context, t tenant.Tenant, projectID string, attachment *models.ProjectAttachment) (*models.ProjectAttachment, error) {
	attachment.ProjectID = projectID
	attachment.Normalize()
	if err := s.validator.ValidateStruct(attachment); err != nil {
		return nil, invalid(err)
	}
	if err := s.attachmentRepo.Create(ctx, t, attachment); err != nil {
		return nil, err
	}
	return attachment, nil
}

func (s *projectService) DeleteAttachment(ctx context.Context, t tenant.Tenant, projectID, attachmentID string) error {
	return s.attachmentRepo.Delete(ctx, t, projectID, attachmentID)
}
