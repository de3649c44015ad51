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

// ProjectFields drives search and sort on the project list.
var ProjectFields = listing.Fields{
	Sortable: map[string]string{
		"referenceNumber": "reference_number",
		"title":           "title",
		"procuringEntity": "procuring_entity",
		"abc":             "abc",
		"category":        "category",
		"procurementMode": "procurement_mode",
		"closingAt":       "parsed_closing_at",
		"publishedAt":     "published_at",
		"createdAt":       "created_at",
	},
	Searchable: []string{
		"title",
		"reference_number",
		"procuring_entity",
		"category",
		"procurement_mode",
	},
	DefaultSort: listing.Sort{Column: "createdAt", Direction: listing.Desc},
}

// projectRepository implements ProjectRepository
type projectRepository struct {
	db *database.Connection
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *database.Connection) ProjectRepository {
	return &projectRepository{db: db}
}

// Create stores a project under the tenant, overriding any client id the
// caller supplied.
func (r *projectRepository) Create(ctx context.Context, t tenant.Tenant, project *models.Project) error {
	project.ClientID = t.ClientID
	project.Normalize()
	return apperrors.FromDB(r.db.WithContext(ctx).Create(project).Error, "failed to create project")
}

// GetByID retrieves a project of the tenant. Projects of other tenants are
// reported as not found.
func (r *projectRepository) GetByID(ctx context.Context, t tenant.Tenant, id string) (*models.Project, error) {
	if !validID(id) {
		return nil, apperrors.NotFound("project")
	}
	var project models.Project
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(t)).
		First(&project, "id = ?", id).Error
	if err != nil {
		return nil, apperrors.FromDB(err, "project not found")
	}
	return &project, nil
}

// List returns one page of the tenant's projects and the filtered total.
func (r *projectRepository) List(ctx context.Context, t tenant.Tenant, q listing.Query) ([]*models.Project, int64, error) {
	where := sq.Eq{"client_id": t.ClientID}

	countSQL, countArgs, err := listing.Filter(psql.Select("COUNT(*)").From("projects").Where(where), q, ProjectFields).ToSql()
	if err != nil {
		return nil, 0, apperrors.Wrap(err, apperrors.CodeInternal, "failed to build project count")
	}

	var total int64
	if err := r.db.WithContext(ctx).Raw(countSQL, countArgs...).Scan(&total).Error; err != nil {
		return nil, 0, apperrors.FromDB(err, "failed to count projects")
	}

	projects := []*models.Project{}
	if total == 0 {
		return projects, 0, nil
	}

	pageSQL, pageArgs, err := listing.Window(
		listing.Filter(psql.Select("*").From("projects").Where(where), q, ProjectFields),
		q, ProjectFields,
	).ToSql()
	if err != nil {
		return nil, 0, apperrors.Wrap(err, apperrors.CodeInternal, "failed to build project query")
	}

	if err := r.db.WithContext(ctx).Raw(pageSQL, pageArgs...).Scan(&projects).Error; err != nil {
		return nil, 0, apperrors.FromDB(err, "failed to list projects")
	}
	return projects, total, nil
}

// Update writes every mutable column of a tenant project.
func (r *projectRepository) Update(ctx context.Context, t tenant.Tenant, project *models.Project) error {
	if !validID(project.ID) {
		return apperrors.NotFound("project")
	}
	project.ClientID = t.ClientID
	project.Normalize()

	result := r.db.WithContext(ctx).Model(&models.Project{}).
		Scopes(tenant.Scope(t)).
		Where("id = ?", project.ID).
		Select(
			"reference_number", "title", "procuring_entity", "abc", "category",
			"procurement_mode", "area_of_delivery", "bid_supplements", "document_requests",
			"pre_bid_conferences", "published_at", "closing_at", "parsed_closing_at", "updated_at",
		).
		Updates(project)
	if result.Error != nil {
		return apperrors.FromDB(result.Error, "failed to update project")
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("project")
	}
	return nil
}

// Delete removes a tenant project together with its attachments.
func (r *projectRepository) Delete(ctx context.Context, t tenant.Tenant, id string) error {
	if !validID(id) {
		return apperrors.NotFound("project")
	}
	result := r.db.WithContext(ctx).
		Scopes(tenant.Scope(t)).
		Delete(&models.Project{}, "id = ?", id)
	if result.Error != nil {
		return apperrors.FromDB(result.Error, "failed to delete project")
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("project")
	}
	return nil
}
