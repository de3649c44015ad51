package services

import (
	"context"

	"github.com/tonzxz12/Findr-sub000/internal/listing"
	"github.com/tonzxz12/Findr-sub000/internal/logger"
	"github.com/tonzxz12/Findr-sub000/internal/models"
	"github.com/tonzxz12/Findr-sub000/internal/repositories"
	"github.com/tonzxz12/Findr-sub000/internal/tenant"
)

// inventoryService implements InventoryService
type inventoryService struct {
	logger    *logger.Logger
	repo      repositories.InventoryRepository
	validator *models.ValidationService
}

// NewInventoryService creates a new inventory service
func NewInventoryService(logger *logger.Logger, repo repositories.InventoryRepository) InventoryService {
	return &inventoryService{
		logger:    logger,
		repo:      repo,
		validator: models.NewValidationService(),
	}
}

func (s *inventoryService) ListRepositories(ctx context.Context, t tenant.Tenant, q listing.Query) (*listing.Page[*models.ClientRepository], error) {
	items, total, err := s.repo.List(ctx, t, q)
	if err != nil {
		return nil, err
	}
	return listing.NewPage(items, total, q), nil
}

func (s *inventoryService) GetRepository(ctx context.Context, t tenant.Tenant, id string) (*models.ClientRepository, error) {
	return s.repo.GetByID(ctx, t, id)
}

// CreateRepository fills defaults, validates and stores an inventory entry
func (s *inventoryService) CreateRepository(ctx context.Context, t tenant.Tenant, repo *models.ClientRepository) (*models.ClientRepository, error) {
	repo.ID = ""
	repo.Normalize()
	if err := s.validator.ValidateStruct(repo); err != nil {
		return nil, invalid(err)
	}
	if err := s.repo.Create(ctx, t, repo); err != nil {
		s.logger.WithTenant(t).WithError(err).Error("Failed to create repository")
		return nil, err
	}
	return repo, nil
}

func (s *inventoryService) UpdateRepository(ctx context.Context, t tenant.Tenant, id string, repo *models.ClientRepository) (*models.ClientRepository, error) {
	repo.ID = id
	repo.Normalize()
	if err := s.validator.ValidateStruct(repo); err != nil {
		return nil, invalid(err)
	}
	if err := s.repo.Update(ctx, t, repo); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, t, id)
}

func (s *inventoryService) DeleteRepository(ctx context.Context, t tenant.Tenant, id string) error {
	return s.repo.Delete(ctx, t, id)
}
