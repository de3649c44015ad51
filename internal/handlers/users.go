package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tonzxz12/Findr-sub000/internal/logger"
	"github.com/tonzxz12/Findr-sub000/internal/services"
)

// UserHandler serves admin user management
type UserHandler struct {
	baseHandler
	userMgmtSvc services.UserManagementService
}

// NewUserHandler creates a new user handler
func NewUserHandler(logger *logger.Logger, userMgmtSvc services.UserManagementService) *UserHandler {
	return &UserHandler{baseHandler: baseHandler{logger: logger}, userMgmtSvc: userMgmtSvc}
}

// RegisterRoutes registers user routes on an admin-only router
func (h *UserHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/users", h.ListUsers).Methods(http.MethodGet)
	router.HandleFunc("/users/{id}", h.GetUser).Methods(http.MethodGet)
	router.HandleFunc("/users/{id}/activate", h.ActivateUser).Methods(http.MethodPost)
	router.HandleFunc("/users/{id}/deactivate", h.DeactivateUser).Methods(http.MethodPost)
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userMgmtSvc.GetAllUsers(r.Context())
	if err != nil {
		h.writeErrorResponse(w, r, err)
		return
	}
	h.writeJSONResponse(w, http.StatusOK, users)
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.userMgmtSvc.GetUser(r.Context(), pathVar(r, "id"))
	if err != nil {
		h.writeErrorResponse(w, r, err)
		return
	}
	h.writeJSONResponse(w, http.StatusOK, user)
}

func (h *UserHandler) ActivateUser(w http.ResponseWriter, r *http.Request) {
	if err := h.userMgmtSvc.ActivateUser(r.Context(), pathVar(r, "id")); err != nil {
		h.writeErrorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandler) DeactivateUser(w http.ResponseWriter, r *http.Request) {
	if err := h.userMgmtSvc.DeactivateUser(r.Context(), pathVar(r, "id")); err != nil {
		h.writeErrorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
