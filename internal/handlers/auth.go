package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tonzxz12/Findr-sub000/internal/logger"
	"github.com/tonzxz12/Findr-sub000/internal/middleware"
	"github.com/tonzxz12/Findr-sub000/internal/models"
	"github.com/tonzxz12/Findr-sub000/internal/services"
)

// AuthHandler serves registration, sign-in and the current session
type AuthHandler struct {
	baseHandler
	authSvc     services.AuthenticationService
	userMgmtSvc services.UserManagementService
	clientSvc   services.ClientService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	logger *logger.Logger,
	authSvc services.AuthenticationService,
	userMgmtSvc services.UserManagementService,
	clientSvc services.ClientService,
) *AuthHandler {
	return &AuthHandler{
		baseHandler: baseHandler{logger: logger},
		authSvc:     authSvc,
		userMgmtSvc: userMgmtSvc,
		clientSvc:   clientSvc,
	}
}

// RegisterPublicRoutes registers the unauthenticated auth routes
func (h *AuthHandler) RegisterPublicRoutes(router *mux.Router) {
	router.HandleFunc("/auth/register", h.Register).Methods(http.MethodPost)
	router.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)
}

// RegisterRoutes registers the session routes on an authenticated router
func (h *AuthHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/auth/me", h.Me).Methods(http.MethodGet)
	router.HandleFunc("/auth/password", h.ChangePassword).Methods(http.MethodPut)
}

// RegisterResponse is returned after a successful registration
type RegisterResponse struct {
	User   *models.User   `json:"user"`
	Client *models.Client `json:"client"`
}

// SessionResponse describes the signed-in user
type SessionResponse struct {
	User    *models.User     `json:"user"`
	Clients []*models.Client `json:"clients"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeErrorResponse(w, r, err)
		return
	}

	user, client, err := h.userMgmtSvc.Register(r.Context(), &req)
	if err != nil {
		h.writeErrorResponse(w, r, err)
		return
	}

	h.writeJSONResponse(w, http.StatusCreated, RegisterResponse{User: user, Client: client})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeErrorResponse(w, r, err)
		return
	}

	resp, err := h.authSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeErrorResponse(w, r, err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, resp)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	clients, err := h.clientSvc.ListClients(r.Context(), user)
	if err != nil {
		h.writeErrorResponse(w, r, err)
		return
	}
	if clients == nil {
		clients = []*models.Client{}
	}

	h.writeJSONResponse(w, http.StatusOK, SessionResponse{User: user, Clients: clients})
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var req models.ChangePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeErrorResponse(w, r, err)
		return
	}

	if err := h.userMgmtSvc.ChangePassword(r.Context(), user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		h.writeErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
