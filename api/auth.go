package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/garnizeh/nova/pkg/models"
	"github.com/garnizeh/nova/pkg/repository"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	userRepo      repository.UserRepo
	jwtSecret     string
	tokenDuration time.Duration
}

// NewAuthHandler creates a new AuthHandler with required dependencies.
func NewAuthHandler(ur repository.UserRepo, jwtSecret string, tokenDuration time.Duration) *AuthHandler {
	return &AuthHandler{userRepo: ur, jwtSecret: jwtSecret, tokenDuration: tokenDuration}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (h *AuthHandler) issueToken(userID int64) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(h.tokenDuration).Unix(),
	})
	return token.SignedString([]byte(h.jwtSecret))
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeError(w, "username, email and password are required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	// check both unique columns up front so the caller gets one clear
	// message; the UNIQUE constraints remain the backstop
	if existing, err := h.userRepo.GetUserByUsername(ctx, req.Username); err != nil {
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	} else if existing != nil {
		writeError(w, "Username or email already exists", http.StatusConflict)
		return
	}
	if existing, err := h.userRepo.GetUserByEmail(ctx, req.Email); err != nil {
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	} else if existing != nil {
		writeError(w, "Username or email already exists", http.StatusConflict)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Skills:       []string{},
	}

	userID, err := h.userRepo.CreateUser(ctx, &user)
	if err != nil {
		if strings.Contains(strings.ToUpper(err.Error()), "UNIQUE") {
			writeError(w, "Username or email already exists", http.StatusConflict)
			return
		}
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	tokenStr, err := h.issueToken(userID)
	if err != nil {
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	created, err := h.userRepo.GetUserByID(ctx, userID)
	if err != nil || created == nil {
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, authResponse{Token: tokenStr, User: created}, http.StatusCreated)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, "username and password are required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	user, err := h.userRepo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if user == nil {
		// allow email in the username field
		user, err = h.userRepo.GetUserByEmail(ctx, req.Username)
		if err != nil {
			writeError(w, "internal server error", http.StatusInternalServerError)
			return
		}
	}
	if user == nil {
		writeError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		writeError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	if err := h.userRepo.TouchLastLogin(ctx, user.ID); err != nil {
		logger.Error("touch last login", "err", err)
	}

	tokenStr, err := h.issueToken(user.ID)
	if err != nil {
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, authResponse{Token: tokenStr, User: user}, http.StatusOK)
}
