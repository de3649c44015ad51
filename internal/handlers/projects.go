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

// ProjectHandler serves tenant-scoped projects and their attachments
type ProjectHandler struct {
	baseHandler
	projectSvc services.ProjectService
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(logger *logger.Logger, projectSvc services.ProjectService) *ProjectHandler {
	return &ProjectHandler{baseHandler: baseHandler{logger: logger}, projectSvc: projectSvc}
}

// RegisterRoutes registers project routes on a tenant-scoped router
func (h *ProjectHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/projects", h.ListProjects).Methods(http.MethodGet)
	router.HandleFunc("/projects", h.CreateProject).Methods(http.MethodPost)
	router.HandleFunc("/projects/{id}", h.GetProject).Methods(http.MethodGet)
	router.HandleFunc("/projects/{id}", h.UpdateProject).Methods(http.MethodPut)
	router.HandleFunc("/projects/{id}", h.DeleteProject).Methods(http.MethodDelete)

	router.HandleFunc("/projects/{id}/attachments", h.ListAttachments).Methods(http.MethodGet)
	router.HandleFunc("/projects/{id}/attachments", h.AddAttachment).Methods(http.MethodPost)
	router.HandleFunc("/projects/{id}/attachments/{attachmentId}", h.DeleteAttachment).Methods(http.MethodDelete)
}

// ListProjects handles GET /api/projects?search=&sort=&order=&page=&pageSize=
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	t, err := requestTenant(r)
	if err != nil {
		h.writeErrorResponse(w, r, err)
		return
	}

	q := listing.Parse(r.URL.Query(), repositories.ProjectFields)
	page, err := h.projectSvc.ListProjects(r.Context(), t, q)
	if err != nil {
		h.writeErrorResponse(w, r, err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, page)
}

func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	t, err := requestTenant(r)
	if err != nil {
		h.writeErrorResponse(w, r, err)
		return
	}

	project, err := h.projectSvc.GetProject(r.Context(), t, pathVar(r, "id"))
	if err != nil {
		h.writeErrorResponse(w, r, err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, project)
}

func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	t, err := requestTenant(r)
	if err != nil {
		h.writeErrorResponse(w, r, err)
		return
	}

	var in models.ProjectInput
	if err := decodeJSON(r, &in); err != nil {
		h.writeErrorResponse(w, r, err)
		return
	}

	project, err := h.projectSvc.CreateProject(r.Context(), t, &in)
	if err != nil {
		h.writeErrorResponse(w, r, err)
		return
	}

	h.writeJSONResponse(w, http.StatusCreated, project)
}

func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	t, err := requestTenant(r)
	if err != nil {
		h.writeErrorResponse(w, r, err)
		return
	}

	var in models.ProjectInput
	if err := decodeJSON(r, &in); err != nil {
		h.writeErrorResponse(w, r, err)
		return
	}

	project, err := h.projectSvc.UpdateProject(r.Context(), t, pathVar(r, "id"), &in)
	if err != nil {
		h.writeErrorResponse(w, r, err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, project)
}

func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	t, err := requestTenant(r)
	if err != nil {
		h.writeErrorResponse(w, r, err)
		return
	}

	if err := h.projectSvc.DeleteProject(r.Context(), t, pathVar(r, "id")); err != nil {
		h.writeErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ProjectHandler) ListAttachments(w http.ResponseWriter, r *http.Request) {
	t, err := requestTenant(r)
	if err != nil {
		h.writeErrorResponse(w, r, err)
		return
	}

	attachments, err := h.projectSvc.ListAttachments(r.Context(), t, pathVar(r, "id"))
	if err != nil {
		h.writeErrorResponse(w, r, err)
		return
	}
	if attachments == nil {
		attachments = []*models.ProjectAttachment{}
	}

	h.writeJSONResponse(w, http.StatusOK, attachments)
}

func (h *ProjectHandler) AddAttachment(w http.ResponseWriter, r *http.Request) {
	t, err := requestTenant(r)
	if err != nil {
		h.writeErrorResponse(w, r, err)
		return
	}

	var attachment models.ProjectAttachment
	if err := decodeJSON(r, &attachment); err != nil {
		h.writeErrorResponse(w, r, err)
		return
	}
	attachment.ID = ""

	created, err := h.projectSvc.AddAttachment(r.Context(), t, pathVar(r, "id"), &attachment)
	if err != nil {
		h.writeErrorResponse(w, r, err)
		return
	}

	h.writeJSONResponse(w, http.StatusCreated, created)
}

func (h *ProjectHandler) DeleteAttachment(w http.ResponseWriter, r *http.Request) {
	t, err := requestTenant(r)
	if err != nil {
		h.writeErrorResponse(w, r, err)
		return
	}

	if err := h.projectSvc.DeleteAttachment(r.Context(), t, pathVar(r, "id"), pathVar(r, "attachmentId")); err != nil {
		h.writeErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
