package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tonzxz12/Findr-sub000/internal/apperrors"
	"github.com/tonzxz12/Findr-sub000/internal/models"
	"github.com/tonzxz12/Findr-sub000/internal/tenant"
)

func TestListClients(t *testing.T) {
	ctx := context.Background()
	repo := &MockClientRepository{}
	repo.On("GetAll", ctx).Return([]*models.Client{{ID: "c1"}, {ID: "c2"}}, nil)
	repo.On("GetByOwner", ctx, "u1").Return([]*models.Client{{ID: "c1"}}, nil)
	svc := NewClientService(createTestLogger(), repo, &MockDashboardService{})

	all, err := svc.ListClients(ctx, &models.User{ID: "a1", Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	owned, err := svc.ListClients(ctx, &models.User{ID: "u1", Role: models.RoleClient})
	require.NoError(t, err)
	assert.Len(t, owned, 1)
}

func TestUpdateClient_Owner(t *testing.T) {
	ctx := context.Background()
	owner := "u1"
	newOwner := "u2"
	empty := ""

	tests := []struct {
		name    string
		ownerID *string
		want    *string
	}{
		{name: "unchanged", ownerID: nil, want: &owner},
		{name: "reassigned", ownerID: &newOwner, want: &newOwner},
		{name: "detached", ownerID: &empty, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockClientRepository{}
			current := owner
			repo.On("GetByID", ctx, "c1").Return(&models.Client{ID: "c1", Name: "Old", OwnerID: &current}, nil)
			repo.On("Update", ctx, mock.AnythingOfType("*models.Client")).Return(nil)

			client, err := NewClientService(createTestLogger(), repo, &MockDashboardService{}).
				UpdateClient(ctx, "c1", &models.ClientUpdate{Name: "New", OwnerID: tt.ownerID})
			require.NoError(t, err)
			assert.Equal(t, "New", client.Name)
			assert.Equal(t, tt.want, client.OwnerID)
			assert.NotNil(t, client.Keywords)
		})
	}
}

func TestDeleteClient(t *testing.T) {
	ctx := context.Background()

	t.Run("blocked by projects", func(t *testing.T) {
		repo := &MockClientRepository{}
		dashboard := &MockDashboardService{}
		repo.On("Delete", ctx, "c1").Return(apperrors.New(apperrors.CodeConflict, "client still has projects"))

		err := NewClientService(createTestLogger(), repo, dashboard).DeleteClient(ctx, "c1")
		assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict))
		dashboard.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
	})

	t.Run("deleted", func(t *testing.T) {
		repo := &MockClientRepository{}
		dashboard := &MockDashboardService{}
		repo.On("Delete", ctx, "c1").Return(nil)
		dashboard.On("Invalidate", ctx, tenant.Resolve("c1")).Return()

		require.NoError(t, NewClientService(createTestLogger(), repo, dashboard).DeleteClient(ctx, "c1"))
		dashboard.AssertExpectations(t)
	})
}
