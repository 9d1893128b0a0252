package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/garnizeh/nova/internal/workspace"
	"github.com/garnizeh/nova/pkg/repository"
	"github.com/google/uuid"
)

// WorkspaceHandler scaffolds ephemeral coding workspaces from the
// template catalog and evaluates submitted code.
type WorkspaceHandler struct {
	templates repository.EnvTemplateRepo
	runner    Evaluator
}

func NewWorkspaceHandler(templates repository.EnvTemplateRepo, runner Evaluator) *WorkspaceHandler {
	return &WorkspaceHandler{templates: templates, runner: runner}
}

type createWorkspaceRequest struct {
	Category string `json:"category"`
	Tier     string `json:"tier"`
}

type createWorkspaceResponse struct {
	WorkspaceID  string            `json:"workspace_id"`
	Runtime      string            `json:"runtime"`
	Files        map[string]string `json:"files"`
	Dependencies []string          `json:"dependencies"`
	EvalCommand  string            `json:"eval_command"`
	UIHints      map[string]string `json:"ui_hints,omitempty"`
}

// Create materializes a workspace from an environment template. The
// workspace itself is ephemeral: the client holds the files and sends
// them back for evaluation.
func (h *WorkspaceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createWorkspaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.Category == "" || req.Tier == "" {
		writeError(w, "category and tier are required", http.StatusBadRequest)
		return
	}

	template, err := h.templates.GetEnvTemplate(r.Context(), req.Category, req.Tier)
	if err != nil {
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if template == nil {
		writeError(w, "template not found", http.StatusNotFound)
		return
	}

	writeJSON(w, createWorkspaceResponse{
		WorkspaceID:  uuid.NewString(),
		Runtime:      template.Runtime,
		Files:        template.Scaffold,
		Dependencies: template.Dependencies,
		EvalCommand:  template.EvalCommand,
		UIHints:      template.UIHints,
	}, http.StatusCreated)
}

type evaluateRequest struct {
	Runtime string            `json:"runtime"`
	Files   map[string]string `json:"files"`
}

// Evaluate runs the submitted files against the runtime's test command
// in a throwaway directory and reports the outcome.
func (h *WorkspaceHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.Runtime == "" {
		writeError(w, "runtime is required", http.StatusBadRequest)
		return
	}
	if len(req.Files) == 0 {
		writeError(w, "files are required", http.StatusBadRequest)
		return
	}

	result, err := h.runner.Evaluate(r.Context(), req.Runtime, req.Files)
	if err != nil {
		switch {
		case errors.Is(err, workspace.ErrUnsupportedRuntime),
			errors.Is(err, workspace.ErrUnsafePath),
			errors.Is(err, workspace.ErrTooManyFiles),
			errors.Is(err, workspace.ErrFileTooLarge):
			writeError(w, err.Error(), http.StatusBadRequest)
		default:
			writeError(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, result, http.StatusOK)
}
