package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/garnizeh/nova/pkg/models"
	"github.com/garnizeh/nova/pkg/repository"
	"github.com/gorilla/mux"
)

// ApplicationsHandler manages applications on marketplace tasks.
// Listing and deciding applications is restricted to the owner of the
// project the task belongs to.
type ApplicationsHandler struct {
	tasks        repository.TaskRepo
	projects     repository.ProjectRepo
	applications repository.ApplicationRepo
}

func NewApplicationsHandler(
	tasks repository.TaskRepo,
	projects repository.ProjectRepo,
	applications repository.ApplicationRepo,
) *ApplicationsHandler {
	return &ApplicationsHandler{
		tasks:        tasks,
		projects:     projects,
		applications: applications,
	}
}

type applyRequest struct {
	Message string `json:"message"`
}

// Apply creates a pending application on an available task. One
// application per user per task.
func (h *ApplicationsHandler) Apply(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		writeError(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	taskID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || taskID <= 0 {
		writeError(w, "invalid task id", http.StatusBadRequest)
		return
	}

	// the body and its message field are both optional
	var req applyRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	ctx := r.Context()

	task, err := h.tasks.GetTask(ctx, taskID)
	if err != nil {
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if task == nil {
		writeError(w, "task not found", http.StatusNotFound)
		return
	}
	if task.Status != models.TaskAvailable {
		writeError(w, "task is not open for applications", http.StatusConflict)
		return
	}

	applied, err := h.applications.HasApplied(ctx, taskID, userID)
	if err != nil {
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if applied {
		writeError(w, "you have already applied to this task", http.StatusConflict)
		return
	}

	application := models.TaskApplication{
		TaskID:      taskID,
		ApplicantID: userID,
		Message:     strings.TrimSpace(req.Message),
		Status:      models.ApplicationPending,
	}
	id, err := h.applications.CreateApplication(ctx, &application)
	if err != nil {
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	application.ID = id

	writeJSON(w, &application, http.StatusCreated)
}

// List returns the applications on a task for the project owner.
func (h *ApplicationsHandler) List(w http.ResponseWriter, r *http.Request) {
	taskID, ok := h.authorizeOwner(w, r)
	if !ok {
		return
	}

	applications, err := h.applications.ListApplicationsByTask(r.Context(), taskID)
	if err != nil {
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{"applications": applications}, http.StatusOK)
}

// Accept assigns the task to the applicant and rejects every other
// pending application in one transaction.
func (h *ApplicationsHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, true)
}

// Reject turns down a pending application.
func (h *ApplicationsHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, false)
}

func (h *ApplicationsHandler) decide(w http.ResponseWriter, r *http.Request, accept bool) {
	taskID, ok := h.authorizeOwner(w, r)
	if !ok {
		return
	}

	applicationID, err := strconv.ParseInt(mux.Vars(r)["appID"], 10, 64)
	if err != nil || applicationID <= 0 {
		writeError(w, "invalid application id", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	application, err := h.applications.GetApplication(ctx, applicationID)
	if err != nil {
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if application == nil || application.TaskID != taskID {
		writeError(w, "application not found", http.StatusNotFound)
		return
	}

	if accept {
		err = h.applications.AcceptApplication(ctx, applicationID)
	} else {
		err = h.applications.RejectApplication(ctx, applicationID)
	}
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, "application not found", http.StatusNotFound)
		case errors.Is(err, repository.ErrConflict):
			writeError(w, "application was already decided", http.StatusConflict)
		default:
			writeError(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	decided, err := h.applications.GetApplication(ctx, applicationID)
	if err != nil || decided == nil {
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, decided, http.StatusOK)
}

// authorizeOwner resolves the task from the path and verifies the
// caller owns the project behind it, writing error responses itself.
func (h *ApplicationsHandler) authorizeOwner(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := requestUserID(r)
	if !ok {
		writeError(w, "unauthenticated", http.StatusUnauthorized)
		return 0, false
	}

	taskID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || taskID <= 0 {
		writeError(w, "invalid task id", http.StatusBadRequest)
		return 0, false
	}

	ctx := r.Context()

	task, err := h.tasks.GetTask(ctx, taskID)
	if err != nil {
		writeError(w, "internal server error", http.StatusInternalServerError)
		return 0, false
	}
	if task == nil {
		writeError(w, "task not found", http.StatusNotFound)
		return 0, false
	}

	project, err := h.projects.GetProject(ctx, task.ProjectID)
	if err != nil {
		writeError(w, "internal server error", http.StatusInternalServerError)
		return 0, false
	}
	if project == nil || project.UserID == nil || *project.UserID != userID {
		writeError(w, "only the project owner can manage applications", http.StatusForbidden)
		return 0, false
	}

	return taskID, true
}
