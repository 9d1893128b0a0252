package api

import (
	"net/http"

	"github.com/garnizeh/nova/pkg/repository"
	"github.com/gorilla/mux"
)

// TemplatesHandler exposes the environment template catalog.
type TemplatesHandler struct {
	templates repository.EnvTemplateRepo
}

func NewTemplatesHandler(templates repository.EnvTemplateRepo) *TemplatesHandler {
	return &TemplatesHandler{templates: templates}
}

func (h *TemplatesHandler) List(w http.ResponseWriter, r *http.Request) {
	templates, err := h.templates.ListEnvTemplates(r.Context())
	if err != nil {
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{"templates": templates}, http.StatusOK)
}

func (h *TemplatesHandler) Get(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	category, tier := vars["category"], vars["tier"]
	if category == "" || tier == "" {
		writeError(w, "category and tier are required", http.StatusBadRequest)
		return
	}

	template, err := h.templates.GetEnvTemplate(r.Context(), category, tier)
	if err != nil {
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if template == nil {
		writeError(w, "template not found", http.StatusNotFound)
		return
	}

	writeJSON(w, template, http.StatusOK)
}
