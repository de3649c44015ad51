package repositories

import (
	"context"

	"github.com/tonzxz12/Findr-sub000/internal/apperrors"
	"github.com/tonzxz12/Findr-sub000/internal/database"
	"github.com/tonzxz12/Findr-sub000/internal/models"
	"github.com/tonzxz12/Findr-sub000/internal/tenant"

	"gorm.io/gorm"
)

// attachmentRepository implements AttachmentRepository. Attachments carry no
// client id of their own; every statement joins through the owning project.
type attachmentRepository struct {
	db *database.Connection
}

// NewAttachmentRepository creates a new attachment repository
func NewAttachmentRepository(db *database.Connection) AttachmentRepository {
	return &attachmentRepository{db: db}
}

// ownedProject limits a query to a project of the tenant.
func ownedProject(t tenant.Tenant, projectID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("id = ?", projectID).Scopes(tenant.Scope(t))
	}
}

func (r *attachmentRepository) projectExists(ctx context.Context, t tenant.Tenant, projectID string) error {
	if !validID(projectID) {
		return apperrors.NotFound("project")
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Project{}).Scopes(ownedProject(t, projectID)).Count(&count).Error
	if err != nil {
		return apperrors.FromDB(err, "failed to load project")
	}
	if count == 0 {
		return apperrors.NotFound("project")
	}
	return nil
}

func (r *attachmentRepository) Create(ctx context.Context, t tenant.Tenant, attachment *models.ProjectAttachment) error {
	if err := r.projectExists(ctx, t, attachment.ProjectID); err != nil {
		return err
	}
	attachment.Normalize()
	return apperrors.FromDB(r.db.WithContext(ctx).Create(attachment).Error, "failed to create attachment")
}

func (r *attachmentRepository) ListByProject(ctx context.Context, t tenant.Tenant, projectID string) ([]*models.ProjectAttachment, error) {
	if err := r.projectExists(ctx, t, projectID); err != nil {
		return nil, err
	}
	attachments := []*models.ProjectAttachment{}
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&attachments).Error
	return attachments, apperrors.FromDB(err, "failed to list attachments")
}

func (r *attachmentRepository) Delete(ctx context.Context, t tenant.Tenant, projectID, id string) error {
	if !validID(projectID) || !validID(id) {
		return apperrors.NotFound("attachment")
	}
	owned := r.db.Model(&models.Project{}).Select("id").Scopes(ownedProject(t, projectID))
	result := r.db.WithContext(ctx).
		Where("id = ? AND project_id IN (?)", id, owned).
		Delete(&models.ProjectAttachment{})
	if result.Error != nil {
		return apperrors.FromDB(result.Error, "failed to delete attachment")
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("attachment")
	}
	return nil
}
