package repositories

import (
	"context"
	"strings"
	"time"

	"github.com/tonzxz12/Findr-sub000/internal/apperrors"
	"github.com/tonzxz12/Findr-sub000/internal/database"
	"github.com/tonzxz12/Findr-sub000/internal/models"

	"gorm.io/gorm"
)

// userRepository implements UserRepository
type userRepository struct {
	db *database.Connection
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.Connection) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	return apperrors.FromDB(r.db.WithContext(ctx).Create(user).Error, "failed to create user")
}

// CreateWithClient creates a user and the client they own in one transaction.
func (r *userRepository) CreateWithClient(ctx context.Context, user *models.User, client *models.Client) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	client.Normalize()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		client.OwnerID = &user.ID
		return tx.Create(client).Error
	})
	return apperrors.FromDB(err, "failed to register account")
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if !validID(id) {
		return nil, apperrors.NotFound("user")
	}
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, apperrors.FromDB(err, "user not found")
	}
	return &user, nil
}

// GetByEmail retrieves a user by email, ignoring case
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error
	if err != nil {
		return nil, apperrors.FromDB(err, "user not found")
	}
	return &user, nil
}

// GetAll retrieves all users in the system
func (r *userRepository) GetAll(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&users).Error
	return users, apperrors.FromDB(err, "failed to list users")
}

// Update updates an existing user
func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	return apperrors.FromDB(r.db.WithContext(ctx).Save(user).Error, "failed to update user")
}

// UpdateLastLogin stamps the last successful sign-in
func (r *userRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("last_login_at", at).Error
	return apperrors.FromDB(err, "failed to record login")
}
