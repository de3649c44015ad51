package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tonzxz12/Findr-sub000/internal/apperrors"
	"github.com/tonzxz12/Findr-sub000/internal/logger"
	"github.com/tonzxz12/Findr-sub000/internal/middleware"
	"github.com/tonzxz12/Findr-sub000/internal/models"
	"github.com/tonzxz12/Findr-sub000/internal/services"
)

var errOwnerChangeAdminOnly = apperrors.New(apperrors.CodeForbidden, "only admins may reassign a client owner")

// ClientHandler serves client (tenant) management
type ClientHandler struct {
	baseHandler
	clientSvc services.ClientService
	authzSvc  services.AuthorizationService
}

// NewClientHandler creates a new client handler
func NewClientHandler(logger *logger.Logger, clientSvc services.ClientService, authzSvc services.AuthorizationService) *ClientHandler {
	return &ClientHandler{baseHandler: baseHandler{logger: logger}, clientSvc: clientSvc, authzSvc: authzSvc}
}

// RegisterRoutes registers client routes on an authenticated router.
// adminOnly wraps routes restricted to admins.
func (h *ClientHandler) RegisterRoutes(router *mux.Router, adminOnly func(http.Handler) http.Handler) {
	router.HandleFunc("/clients", h.ListClients).Methods(http.MethodGet)
	router.HandleFunc("/clients/{id}", h.GetClient).Methods(http.MethodGet)
	router.HandleFunc("/clients/{id}", h.UpdateClient).Methods(http.MethodPut)
	router.Handle("/clients/{id}", adminOnly(http.HandlerFunc(h.DeleteClient))).Methods(http.MethodDelete)
}

func (h *ClientHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	clients, err := h.clientSvc.ListClients(r.Context(), user)
	if err != nil {
		h.writeErrorResponse(w, r, err)
		return
	}
	if clients == nil {
		clients = []*models.Client{}
	}

	h.writeJSONResponse(w, http.StatusOK, clients)
}

func (h *ClientHandler) GetClient(w http.ResponseWriter, r *http.Request) {
	client, err := h.accessibleClient(r)
	if err != nil {
		h.writeErrorResponse(w, r, err)
		return
	}
	h.writeJSONResponse(w, http.StatusOK, client)
}

func (h *ClientHandler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	client, err := h.accessibleClient(r)
	if err != nil {
		h.writeErrorResponse(w, r, err)
		return
	}

	var update models.ClientUpdate
	if err := decodeJSON(r, &update); err != nil {
		h.writeErrorResponse(w, r, err)
		return
	}

	user := middleware.GetUserFromContext(r.Context())
	if update.OwnerID != nil && !user.IsAdmin() {
		h.authzSvc.LogSecurityViolation(r.Context(), user, "client_owner_change", client.ID)
		h.writeErrorResponse(w, r, errOwnerChangeAdminOnly)
		return
	}

	updated, err := h.clientSvc.UpdateClient(r.Context(), client.ID, &update)
	if err != nil {
		h.writeErrorResponse(w, r, err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, updated)
}

func (h *ClientHandler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	if err := h.clientSvc.DeleteClient(r.Context(), pathVar(r, "id")); err != nil {
		h.writeErrorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// accessibleClient loads the client named in the path. Clients the user may
// not open are reported as not found.
func (h *ClientHandler) accessibleClient(r *http.Request) (*models.Client, error) {
	user := middleware.GetUserFromContext(r.Context())
	id := pathVar(r, "id")

	client, err := h.clientSvc.GetClient(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if !h.authzSvc.CanAccessClient(r.Context(), user, client) {
		h.authzSvc.LogSecurityViolation(r.Context(), user, "client_access_denied", id)
		return nil, apperrors.NotFound("client")
	}
	return client, nil
}
