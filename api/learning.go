package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/garnizeh/nova/internal/ai"
	"github.com/garnizeh/nova/pkg/models"
	"github.com/garnizeh/nova/pkg/repository"
	"github.com/gorilla/mux"
)

// LearningHandler serves personalized learning plans and the tutoring
// chat endpoint.
type LearningHandler struct {
	plans  repository.LearningPlanRepo
	engine Engine
}

func NewLearningHandler(plans repository.LearningPlanRepo, engine Engine) *LearningHandler {
	return &LearningHandler{plans: plans, engine: engine}
}

type learningPlanResponse struct {
	Plan     *models.LearningPlan `json:"plan"`
	Degraded bool                 `json:"degraded,omitempty"`
}

// CreatePlan generates and stores a learning plan for the caller.
func (h *LearningHandler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		writeError(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	var inputs ai.LearningPlanInputs
	if err := json.NewDecoder(r.Body).Decode(&inputs); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	inputs.Normalize()

	ctx := r.Context()

	planJSON, degraded := h.engine.LearningPlan(ctx, inputs)
	inputsJSON, err := json.Marshal(inputs)
	if err != nil {
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	plan := models.LearningPlan{
		UserID:       userID,
		PlanJSON:     string(planJSON),
		InputsJSON:   string(inputsJSON),
		ProgressJSON: "{}",
	}
	id, err := h.plans.CreateLearningPlan(ctx, &plan)
	if err != nil {
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	plan.ID = id

	writeJSON(w, learningPlanResponse{Plan: &plan, Degraded: degraded}, http.StatusCreated)
}

// ListPlans returns the caller's learning plans, newest first.
func (h *LearningHandler) ListPlans(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		writeError(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	plans, err := h.plans.ListLearningPlansByUser(r.Context(), userID)
	if err != nil {
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{"plans": plans}, http.StatusOK)
}

// GetPlan returns one plan; only its owner may read it.
func (h *LearningHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	plan, ok := h.loadOwnedPlan(w, r)
	if !ok {
		return
	}
	writeJSON(w, plan, http.StatusOK)
}

type updateProgressRequest struct {
	Progress json.RawMessage `json:"progress"`
}

// UpdateProgress replaces the plan's progress blob.
func (h *LearningHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	plan, ok := h.loadOwnedPlan(w, r)
	if !ok {
		return
	}

	var req updateProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Progress) == 0 {
		writeError(w, "progress is required", http.StatusBadRequest)
		return
	}

	if err := h.plans.UpdateLearningPlanProgress(r.Context(), plan.ID, string(req.Progress)); err != nil {
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	plan.ProgressJSON = string(req.Progress)
	writeJSON(w, plan, http.StatusOK)
}

type chatRequest struct {
	Message string         `json:"message"`
	Context ai.ChatContext `json:"context"`
}

type chatResponse struct {
	Reply    string `json:"reply"`
	Degraded bool   `json:"degraded,omitempty"`
}

// Chat answers a tutoring question with optional editor context.
func (h *LearningHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		writeError(w, "message is required", http.StatusBadRequest)
		return
	}

	reply, degraded := h.engine.ChatReply(r.Context(), req.Message, req.Context)
	writeJSON(w, chatResponse{Reply: reply, Degraded: degraded}, http.StatusOK)
}

func (h *LearningHandler) loadOwnedPlan(w http.ResponseWriter, r *http.Request) (*models.LearningPlan, bool) {
	userID, ok := requestUserID(r)
	if !ok {
		writeError(w, "unauthenticated", http.StatusUnauthorized)
		return nil, false
	}

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		writeError(w, "invalid plan id", http.StatusBadRequest)
		return nil, false
	}

	plan, err := h.plans.GetLearningPlan(r.Context(), id)
	if err != nil {
		writeError(w, "internal server error", http.StatusInternalServerError)
		return nil, false
	}
	if plan == nil {
		writeError(w, "plan not found", http.StatusNotFound)
		return nil, false
	}
	if plan.UserID != userID {
		writeError(w, "you do not own this plan", http.StatusForbidden)
		return nil, false
	}
	return plan, true
}
