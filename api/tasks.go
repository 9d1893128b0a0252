package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/garnizeh/nova/pkg/models"
	"github.com/garnizeh/nova/pkg/repository"
	"github.com/gorilla/mux"
)

// TasksHandler serves the task marketplace: browse, inspect, complete.
type TasksHandler struct {
	tasks repository.TaskRepo
}

func NewTasksHandler(tasks repository.TaskRepo) *TasksHandler {
	return &TasksHandler{tasks: tasks}
}

// List returns marketplace tasks. Query parameters: difficulty, skills
// (comma separated, any-match), min_credits, max_credits, status.
// Status defaults to available so the marketplace view only shows work
// that can still be claimed.
func (h *TasksHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := repository.TaskFilter{
		Status: models.TaskAvailable,
	}

	if d := strings.TrimSpace(q.Get("difficulty")); d != "" {
		if !models.ValidDifficulty(d) {
			writeError(w, "invalid difficulty", http.StatusBadRequest)
			return
		}
		filter.Difficulty = d
	}

	if s := q.Get("skills"); s != "" {
		for _, skill := range strings.Split(s, ",") {
			if skill = strings.TrimSpace(skill); skill != "" {
				filter.Skills = append(filter.Skills, skill)
			}
		}
	}

	if v := q.Get("min_credits"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			writeError(w, "invalid min_credits", http.StatusBadRequest)
			return
		}
		filter.MinCredits = &n
	}
	if v := q.Get("max_credits"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			writeError(w, "invalid max_credits", http.StatusBadRequest)
			return
		}
		filter.MaxCredits = &n
	}

	if s := strings.TrimSpace(q.Get("status")); s != "" {
		switch s {
		case models.TaskAvailable, models.TaskAssigned, models.TaskCompleted, models.TaskCancelled, "all":
			filter.Status = s
			if s == "all" {
				filter.Status = ""
			}
		default:
			writeError(w, "invalid status", http.StatusBadRequest)
			return
		}
	}

	tasks, err := h.tasks.ListTasks(r.Context(), filter)
	if err != nil {
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{"tasks": tasks}, http.StatusOK)
}

func (h *TasksHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		writeError(w, "invalid task id", http.StatusBadRequest)
		return
	}

	task, err := h.tasks.GetTask(r.Context(), id)
	if err != nil {
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if task == nil {
		writeError(w, "task not found", http.StatusNotFound)
		return
	}

	writeJSON(w, task, http.StatusOK)
}

type completeTaskResponse struct {
	TaskID          int64 `json:"task_id"`
	CreditedCredits int64 `json:"credited_credits"`
}

// Complete marks an assigned task done and awards the reward to the
// caller. Only the assignee may complete; the repository rejects
// duplicate completion attempts so credits are awarded exactly once.
func (h *TasksHandler) Complete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		writeError(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		writeError(w, "invalid task id", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	task, err := h.tasks.GetTask(ctx, id)
	if err != nil {
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if task == nil {
		writeError(w, "task not found", http.StatusNotFound)
		return
	}
	if task.AssigneeID == nil || *task.AssigneeID != userID {
		writeError(w, "only the assignee can complete this task", http.StatusForbidden)
		return
	}

	credited, err := h.tasks.CompleteTask(ctx, id, userID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, "task not found", http.StatusNotFound)
		case errors.Is(err, repository.ErrConflict):
			writeError(w, "task is not assigned to you", http.StatusConflict)
		default:
			writeError(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, completeTaskResponse{TaskID: id, CreditedCredits: credited}, http.StatusOK)
}
