package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/garnizeh/nova/pkg/repository"
	"github.com/gorilla/mux"
)

type UsersHandler struct {
	userRepo repository.UserRepo
}

func NewUsersHandler(ur repository.UserRepo) *UsersHandler {
	return &UsersHandler{userRepo: ur}
}

func (h *UsersHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		writeError(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	user, err := h.userRepo.GetUserByID(r.Context(), userID)
	if err != nil {
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if user == nil {
		writeError(w, "user not found", http.StatusNotFound)
		return
	}

	writeJSON(w, user, http.StatusOK)
}

type updateProfileRequest struct {
	FullName *string   `json:"full_name"`
	Bio      *string   `json:"bio"`
	Skills   *[]string `json:"skills"`
	Avatar   *string   `json:"avatar"`
}

// UpdateMe applies a partial profile update; absent fields are untouched.
func (h *UsersHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		writeError(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	user, err := h.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if user == nil {
		writeError(w, "user not found", http.StatusNotFound)
		return
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Skills != nil {
		user.Skills = *req.Skills
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}

	if err := h.userRepo.UpdateUserProfile(ctx, user); err != nil {
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, user, http.StatusOK)
}

// Get returns a public view of another user.
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		writeError(w, "invalid user id", http.StatusBadRequest)
		return
	}

	user, err := h.userRepo.GetUserByID(r.Context(), id)
	if err != nil {
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if user == nil {
		writeError(w, "user not found", http.StatusNotFound)
		return
	}

	writeJSON(w, user, http.StatusOK)
}
