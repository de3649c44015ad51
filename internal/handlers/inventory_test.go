package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tonzxz12/Findr-sub000/internal/apperrors"
	"github.com/tonzxz12/Findr-sub000/internal/listing"
	"github.com/tonzxz12/Findr-sub000/internal/models"
	"github.com/tonzxz12/Findr-sub000/internal/tenant"
)

// MockInventoryService is a mock implementation of InventoryService
type MockInventoryService struct {
	mock.Mock
}

func (m *MockInventoryService) ListRepositories(ctx context.Context, t tenant.Tenant, q listing.Query) (*listing.Page[*models.ClientRepository], error) {
	args := m.Called(ctx, t, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*listing.Page[*models.ClientRepository]), args.Error(1)
}

func (m *MockInventoryService) GetRepository(ctx context.Context, t tenant.Tenant, id string) (*models.ClientRepository, error) {
	args := m.Called(ctx, t, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ClientRepository), args.Error(1)
}

func (m *MockInventoryService) CreateRepository(ctx context.Context, t tenant.Tenant, repo *models.ClientRepository) (*models.ClientRepository, error) {
	args := m.Called(ctx, t, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ClientRepository), args.Error(1)
}

func (m *MockInventoryService) UpdateRepository(ctx context.Context, t tenant.Tenant, id string, repo *models.ClientRepository) (*models.ClientRepository, error) {
	args := m.Called(ctx, t, id, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ClientRepository), args.Error(1)
}

func (m *MockInventoryService) DeleteRepository(ctx context.Context, t tenant.Tenant, id string) error {
	args := m.Called(ctx, t, id)
	return args.Error(0)
}

func inventoryRouter(svc *MockInventoryService) *mux.Router {
	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()
	api.Use(withSession(testUser, testTenant))
	NewInventoryHandler(createTestLogger(), svc).RegisterRoutes(api)
	return router
}

func TestListRepositories_ParsesQuery(t *testing.T) {
	svc := &MockInventoryService{}
	expected := listing.Query{
		Search:   "erp",
		Sort:     listing.Sort{Column: "status", Direction: listing.Desc},
		Page:     3,
		PageSize: 5,
	}
	svc.On("ListRepositories", mock.Anything, testTenant, expected).
		Return(listing.NewPage([]*models.ClientRepository{{ID: "r1", Name: "ERP"}}, 11, expected), nil)

	rec := serve(inventoryRouter(svc), http.MethodGet, "/api/repositories?search=erp&sort=status&order=desc&page=3&pageSize=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"totalPages":3`)
	assert.Contains(t, rec.Body.String(), `"name":"ERP"`)
	svc.AssertExpectations(t)
}

func TestListRepositories_UnknownSortFallsBack(t *testing.T) {
	svc := &MockInventoryService{}
	svc.On("ListRepositories", mock.Anything, testTenant, mock.MatchedBy(func(q listing.Query) bool {
		return q.Sort == listing.Sort{Column: "name", Direction: listing.Asc}
	})).Return(listing.NewPage[*models.ClientRepository](nil, 0, listing.Query{Page: 1, PageSize: 10}), nil)

	rec := serve(inventoryRouter(svc), http.MethodGet, "/api/repositories?sort=description", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"items":[]`)
}

func TestGetRepository_OtherTenant(t *testing.T) {
	svc := &MockInventoryService{}
	svc.On("GetRepository", mock.Anything, testTenant, "r9").Return(nil, apperrors.NotFound("repository"))

	rec := serve(inventoryRouter(svc), http.MethodGet, "/api/repositories/r9", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "repository not found")
}

func TestCreateRepository(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := &MockInventoryService{}
		svc.On("CreateRepository", mock.Anything, testTenant, mock.MatchedBy(func(r *models.ClientRepository) bool {
			return r.Name == "Payroll" && r.Environment == "staging"
		})).Return(&models.ClientRepository{ID: "r1", ClientID: "c1", Name: "Payroll", Status: "active", Environment: "staging"}, nil)

		rec := serve(inventoryRouter(svc), http.MethodPost, "/api/repositories", `{"name":"Payroll","environment":"staging"}`)
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"clientId":"c1"`)
	})

	t.Run("invalid status", func(t *testing.T) {
		svc := &MockInventoryService{}
		svc.On("CreateRepository", mock.Anything, testTenant, mock.Anything).
			Return(nil, apperrors.New(apperrors.CodeInvalid, "validation failed"))

		rec := serve(inventoryRouter(svc), http.MethodPost, "/api/repositories", `{"name":"x","status":"archived"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := serve(inventoryRouter(&MockInventoryService{}), http.MethodPost, "/api/repositories", `[`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestUpdateRepository(t *testing.T) {
	svc := &MockInventoryService{}
	svc.On("UpdateRepository", mock.Anything, testTenant, "r1", mock.MatchedBy(func(r *models.ClientRepository) bool {
		return r.Name == "Payroll v2" && r.Status == ""
	})).Return(&models.ClientRepository{ID: "r1", Name: "Payroll v2", Status: "active", Environment: "prod"}, nil)

	rec := serve(inventoryRouter(svc), http.MethodPut, "/api/repositories/r1", `{"name":"Payroll v2"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"active"`)
	svc.AssertExpectations(t)
}

func TestDeleteRepository(t *testing.T) {
	svc := &MockInventoryService{}
	svc.On("DeleteRepository", mock.Anything, testTenant, "r1").Return(nil)
	svc.On("DeleteRepository", mock.Anything, testTenant, "r2").Return(apperrors.NotFound("repository"))

	router := inventoryRouter(svc)
	assert.Equal(t, http.StatusNoContent, serve(router, http.MethodDelete, "/api/repositories/r1", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodDelete, "/api/repositories/r2", "").Code)
}

func TestInventory_MissingTenant(t *testing.T) {
	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()
	api.Use(withSession(testUser, tenant.Tenant{}))
	NewInventoryHandler(createTestLogger(), &MockInventoryService{}).RegisterRoutes(api)

	rec := serve(router, http.MethodGet, "/api/repositories", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
