package repositories

import (
	"context"

	"github.com/tonzxz12/Findr-sub000/internal/apperrors"
	"github.com/tonzxz12/Findr-sub000/internal/database"
	"github.com/tonzxz12/Findr-sub000/internal/listing"
	"github.com/tonzxz12/Findr-sub000/internal/models"
	"github.com/tonzxz12/Findr-sub000/internal/tenant"

	sq "github.com/Masterminds/squirrel"
)

// InventoryFields drives search and sort on the client repository list.
var InventoryFields = listing.Fields{
	Sortable: map[string]string{
		"name":        "name",
		"category":    "category",
		"status":      "status",
		"environment": "environment",
		"createdAt":   "created_at",
		"updatedAt":   "updated_at",
	},
	Searchable:  []string{"name", "category", "status", "environment"},
	DefaultSort: listing.Sort{Column: "name", Direction: listing.Asc},
}

// inventoryRepository implements InventoryRepository
type inventoryRepository struct {
	db *database.Connection
}

// NewInventoryRepository creates a new inventory repository
func NewInventoryRepository(db *database.Connection) InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) Create(ctx context.Context, t tenant.Tenant, repo *models.ClientRepository) error {
	repo.ClientID = t.ClientID
	repo.Normalize()
	return apperrors.FromDB(r.db.WithContext(ctx).Create(repo).Error, "failed to create repository")
}

func (r *inventoryRepository) GetByID(ctx context.Context, t tenant.Tenant, id string) (*models.ClientRepository, error) {
	if !validID(id) {
		return nil, apperrors.NotFound("repository")
	}
	var repo models.ClientRepository
	err := r.db.WithContext(ctx).Scopes(tenant.Scope(t)).First(&repo, "id = ?", id).Error
	if err != nil {
		return nil, apperrors.FromDB(err, "repository not found")
	}
	return &repo, nil
}

func (r *inventoryRepository) List(ctx context.Context, t tenant.Tenant, q listing.Query) ([]*models.ClientRepository, int64, error) {
	where := sq.Eq{"client_id": t.ClientID}

	countSQL, countArgs, err := listing.Filter(psql.Select("COUNT(*)").From("client_repositories").Where(where), q, InventoryFields).ToSql()
	if err != nil {
		return nil, 0, apperrors.Wrap(err, apperrors.CodeInternal, "failed to build repository count")
	}

	var total int64
	if err := r.db.WithContext(ctx).Raw(countSQL, countArgs...).Scan(&total).Error; err != nil {
		return nil, 0, apperrors.FromDB(err, "failed to count repositories")
	}

	repos := []*models.ClientRepository{}
	if total == 0 {
		return repos, 0, nil
	}

	pageSQL, pageArgs, err := listing.Window(
		listing.Filter(psql.Select("*").From("client_repositories").Where(where), q, InventoryFields),
		q, InventoryFields,
	).ToSql()
	if err != nil {
		return nil, 0, apperrors.Wrap(err, apperrors.CodeInternal, "failed to build repository query")
	}

	if err := r.db.WithContext(ctx).Raw(pageSQL, pageArgs...).Scan(&repos).Error; err != nil {
		return nil, 0, apperrors.FromDB(err, "failed to list repositories")
	}
	return repos, total, nil
}

func (r *inventoryRepository) Update(ctx context.Context, t tenant.Tenant, repo *models.ClientRepository) error {
	if !validID(repo.ID) {
		return apperrors.NotFound("repository")
	}
	repo.ClientID = t.ClientID
	repo.Normalize()

	result := r.db.WithContext(ctx).Model(&models.ClientRepository{}).
		Scopes(tenant.Scope(t)).
		Where("id = ?", repo.ID).
		Select(
			"name", "category", "description", "tags", "status", "environment",
			"integrations", "licenses", "contacts", "compliance", "spec", "updated_at",
		).
		Updates(repo)
	if result.Error != nil {
		return apperrors.FromDB(result.Error, "failed to update repository")
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("repository")
	}
	return nil
}

func (r *inventoryRepository) Delete(ctx context.Context, t tenant.Tenant, id string) error {
	if !validID(id) {
		return apperrors.NotFound("repository")
	}
	result := r.db.WithContext(ctx).Scopes(tenant.Scope(t)).Delete(&models.ClientRepository{}, "id = ?", id)
	if result.Error != nil {
		return apperrors.FromDB(result.Error, "failed to delete repository")
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("repository")
	}
	return nil
}
