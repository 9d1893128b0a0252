package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/garnizeh/nova/api"
	"github.com/garnizeh/nova/pkg/models"
	"github.com/garnizeh/nova/pkg/repository/mock"
	"github.com/golang-jwt/jwt/v5"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func TestJWTAuthMiddleware(t *testing.T) {
	secret := "testsecret"

	mocks := mock.NewMocks()
	userID, _ := mocks.Users.CreateUser(context.Background(), &models.User{Username: "alice", Email: "a@example.com"})

	valid := signToken(t, secret, jwt.MapClaims{"user_id": userID, "exp": time.Now().Add(time.Hour).Unix()})
	expired := signToken(t, secret, jwt.MapClaims{"user_id": userID, "exp": time.Now().Add(-time.Hour).Unix()})
	wrongKey := signToken(t, "othersecret", jwt.MapClaims{"user_id": userID, "exp": time.Now().Add(time.Hour).Unix()})
	unknownUser := signToken(t, secret, jwt.MapClaims{"user_id": int64(999), "exp": time.Now().Add(time.Hour).Unix()})
	noClaim := signToken(t, secret, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantError  string
	}{
		{"MissingHeader", "", http.StatusUnauthorized, "missing authorization token"},
		{"NotBearer", "Basic abc", http.StatusUnauthorized, "invalid authorization header"},
		{"EmptyBearer", "Bearer   ", http.StatusUnauthorized, "invalid authorization header"},
		{"Expired", "Bearer " + expired, http.StatusUnauthorized, "token expired"},
		{"WrongSignature", "Bearer " + wrongKey, http.StatusUnauthorized, "invalid token"},
		{"MissingClaim", "Bearer " + noClaim, http.StatusUnauthorized, "invalid token"},
		{"UnknownUser", "Bearer " + unknownUser, http.StatusUnauthorized, "unknown user"},
		{"Valid", "Bearer " + valid, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUserID int64
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUserID, _ = r.Context().Value(api.CtxUserID).(int64)
				w.WriteHeader(http.StatusOK)
			})
			handler := api.JWTAuthMiddleware(secret, mocks.Users)(next)

			req := httptest.NewRequest(http.MethodGet, "/v1/users/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected %d got %d body=%s", tt.wantStatus, w.Code, w.Body.String())
			}
			if tt.wantError != "" && !strings.Contains(w.Body.String(), tt.wantError) {
				t.Fatalf("expected error %q in body %s", tt.wantError, w.Body.String())
			}
			if tt.wantStatus == http.StatusOK && gotUserID != userID {
				t.Fatalf("expected user id %d in context, got %d", userID, gotUserID)
			}
		})
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	handler := api.RecoveryMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", w.Code)
	}
}

func TestCORSMiddlewarePreflight(t *testing.T) {
	handler := api.CORSMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("preflight must not reach the handler")
	}))

	req := httptest.NewRequest(http.MethodOptions, "/v1/tasks", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("missing CORS header, got %q", got)
	}
}
