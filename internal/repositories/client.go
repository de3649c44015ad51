package repositories

import (
	"context"

	"github.com/tonzxz12/Findr-sub000/internal/apperrors"
	"github.com/tonzxz12/Findr-sub000/internal/database"
	"github.com/tonzxz12/Findr-sub000/internal/models"
)

// clientRepository implements ClientRepository
type clientRepository struct {
	db *database.Connection
}

// NewClientRepository creates a new client repository
func NewClientRepository(db *database.Connection) ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) Create(ctx context.Context, client *models.Client) error {
	client.Normalize()
	return apperrors.FromDB(r.db.WithContext(ctx).Create(client).Error, "failed to create client")
}

func (r *clientRepository) GetByID(ctx context.Context, id string) (*models.Client, error) {
	if !validID(id) {
		return nil, apperrors.NotFound("client")
	}
	var client models.Client
	if err := r.db.WithContext(ctx).First(&client, "id = ?", id).Error; err != nil {
		return nil, apperrors.FromDB(err, "client not found")
	}
	return &client, nil
}

func (r *clientRepository) GetAll(ctx context.Context) ([]*models.Client, error) {
	var clients []*models.Client
	err := r.db.WithContext(ctx).Order("name ASC").Find(&clients).Error
	return clients, apperrors.FromDB(err, "failed to list clients")
}

// GetByOwner lists the clients a user owns
func (r *clientRepository) GetByOwner(ctx context.Context, ownerID string) ([]*models.Client, error) {
	if !validID(ownerID) {
		return []*models.Client{}, nil
	}
	var clients []*models.Client
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("name ASC").Find(&clients).Error
	return clients, apperrors.FromDB(err, "failed to list clients")
}

func (r *clientRepository) Update(ctx context.Context, client *models.Client) error {
	client.Normalize()
	result := r.db.WithContext(ctx).Model(client).
		Select("name", "keywords", "owner_id", "updated_at").
		Updates(client)
	if result.Error != nil {
		return apperrors.FromDB(result.Error, "failed to update client")
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("client")
	}
	return nil
}

// Delete removes a client. The store refuses while projects reference it and
// removes its inventory entries with it.
func (r *clientRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return apperrors.NotFound("client")
	}
	result := r.db.WithContext(ctx).Delete(&models.Client{}, "id = ?", id)
	if result.Error != nil {
		err := apperrors.FromDB(result.Error, "failed to delete client")
		if apperrors.IsCode(err, apperrors.CodeConflict) {
			return apperrors.Wrap(result.Error, apperrors.CodeConflict, "client still has projects")
		}
		return err
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("client")
	}
	return nil
}
