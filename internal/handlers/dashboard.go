package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tonzxz12/Findr-sub000/internal/logger"
	"github.com/tonzxz12/Findr-sub000/internal/services"
)

// DashboardHandler serves the tenant dashboard
type DashboardHandler struct {
	baseHandler
	dashboardSvc services.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(logger *logger.Logger, dashboardSvc services.DashboardService) *DashboardHandler {
	return &DashboardHandler{baseHandler: baseHandler{logger: logger}, dashboardSvc: dashboardSvc}
}

// RegisterRoutes registers dashboard routes on a tenant-scoped router
func (h *DashboardHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/dashboard", h.GetDashboard).Methods(http.MethodGet)
}

// GetDashboard handles GET /api/dashboard
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	t, err := requestTenant(r)
	if err != nil {
		h.writeErrorResponse(w, r, err)
		return
	}

	payload, err := h.dashboardSvc.GetDashboardData(r.Context(), t)
	if err != nil {
		h.writeErrorResponse(w, r, err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, payload)
}
