package api

import (
	"encoding/json"
	"net/http"

	"github.com/garnizeh/nova/internal/ai"
	"github.com/garnizeh/nova/pkg/repository"
)

// ReportsHandler generates character reports: a profile snapshot used
// for pairing engineers with suitable tasks.
type ReportsHandler struct {
	users  repository.UserRepo
	engine Engine
}

func NewReportsHandler(users repository.UserRepo, engine Engine) *ReportsHandler {
	return &ReportsHandler{users: users, engine: engine}
}

type characterReportResponse struct {
	Report   json.RawMessage `json:"report"`
	Degraded bool            `json:"degraded,omitempty"`
}

func (h *ReportsHandler) Character(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		writeError(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	var inputs ai.ReportInputs
	if err := json.NewDecoder(r.Body).Decode(&inputs); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	user, err := h.users.GetUserByID(ctx, userID)
	if err != nil {
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if user == nil {
		writeError(w, "user not found", http.StatusNotFound)
		return
	}

	report, degraded := h.engine.CharacterReport(ctx, user, inputs)
	writeJSON(w, characterReportResponse{Report: report, Degraded: degraded}, http.StatusOK)
}
