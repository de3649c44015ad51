package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tonzxz12/Findr-sub000/internal/listing"
	"github.com/tonzxz12/Findr-sub000/internal/logger"
	"github.com/tonzxz12/Findr-sub000/internal/models"
	"github.com/tonzxz12/Findr-sub000/internal/repositories"
	"github.com/tonzxz12/Findr-sub000/internal/services"
)

// InventoryHandler serves the tenant's client repository inventory
type InventoryHandler struct {
	baseHandler
	inventorySvc services.InventoryService
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(logger *logger.Logger, inventorySvc services.InventoryService) *InventoryHandler {
	return &InventoryHandler{baseHandler: baseHandler{logger: logger}, inventorySvc: inventorySvc}
}

// RegisterRoutes registers inventory routes on a tenant-scoped router
func (h *InventoryHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/repositories", h.List).Methods(http.MethodGet)
	router.HandleFunc("/repositories", h.Create).Methods(http.MethodPost)
	router.HandleFunc("/repositories/{id}", h.Get).Methods(http.MethodGet)
	router.HandleFunc("/repositories/{id}", h.Update).Methods(http.MethodPut)
	router.HandleFunc("/repositories/{id}", h.Delete).Methods(http.MethodDelete)
}

func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	t, err := requestTenant(r)
	if err != nil {
		h.writeErrorResponse(w, r, err)
		return
	}

	page, err := h.inventorySvc.ListRepositories(r.Context(), t, listing.Parse(r.URL.Query(), repositories.InventoryFields))
	if err != nil {
		h.writeErrorResponse(w, r, err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, page)
}

func (h *InventoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	t, err := requestTenant(r)
	if err != nil {
		h.writeErrorResponse(w, r, err)
		return
	}

	repo, err := h.inventorySvc.GetRepository(r.Context(), t, pathVar(r, "id"))
	if err != nil {
		h.writeErrorResponse(w, r, err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, repo)
}

func (h *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	t, err := requestTenant(r)
	if err != nil {
		h.writeErrorResponse(w, r, err)
		return
	}

	var repo models.ClientRepository
	if err := decodeJSON(r, &repo); err != nil {
		h.writeErrorResponse(w, r, err)
		return
	}

	created, err := h.inventorySvc.CreateRepository(r.Context(), t, &repo)
	if err != nil {
		h.writeErrorResponse(w, r, err)
		return
	}

	h.writeJSONResponse(w, http.StatusCreated, created)
}

func (h *InventoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	t, err := requestTenant(r)
	if err != nil {
		h.writeErrorResponse(w, r, err)
		return
	}

	var repo models.ClientRepository
	if err := decodeJSON(r, &repo); err != nil {
		h.writeErrorResponse(w, r, err)
		return
	}

	updated, err := h.inventorySvc.UpdateRepository(r.Context(), t, pathVar(r, "id"), &repo)
	if err != nil {
		h.writeErrorResponse(w, r, err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, updated)
}

func (h *InventoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	t, err := requestTenant(r)
	if err != nil {
		h.writeErrorResponse(w, r, err)
		return
	}

	if err := h.inventorySvc.DeleteRepository(r.Context(), t, pathVar(r, "id")); err != nil {
		h.writeErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
