package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/garnizeh/nova/api"
	"github.com/garnizeh/nova/pkg/models"
	"github.com/garnizeh/nova/pkg/repository/mock"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

func TestAuthHandlers(t *testing.T) {
	secret := "testsecret"
	tokenDur := 1 * time.Hour

	tests := []struct {
		name       string
		path       string
		body       any
		prepare    func(m *mock.Mocks)
		wantStatus int
		checkBody  func(t *testing.T, body []byte)
	}{
		{
			name:       "Register_InvalidRequest",
			path:       "/register",
			body:       "not a json",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Register_MissingFields_Username",
			path:       "/register",
			body:       map[string]string{"email": "alice@example.com", "password": "s3cret"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Register_MissingFields_Email",
			path:       "/register",
			body:       map[string]string{"username": "alice", "password": "s3cret"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Register_MissingFields_Password",
			path:       "/register",
			body:       map[string]string{"username": "alice", "email": "alice@example.com"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Register_Success",
			path:       "/register",
			body:       map[string]string{"username": "alice", "email": "alice@example.com", "password": "s3cret"},
			wantStatus: http.StatusCreated,
			checkBody: func(t *testing.T, b []byte) {
				var ar struct {
					Token string       `json:"token"`
					User  *models.User `json:"user"`
				}
				if err := json.Unmarshal(b, &ar); err != nil {
					t.Fatalf("unmarshal response: %v", err)
				}
				if ar.Token == "" {
					t.Fatalf("empty token")
				}
				tok, err := jwt.Parse(ar.Token, func(token *jwt.Token) (any, error) { return []byte(secret), nil })
				if err != nil {
					t.Fatalf("invalid token: %v", err)
				}
				claims := tok.Claims.(jwt.MapClaims)
				if _, ok := claims["user_id"]; !ok {
					t.Fatalf("token missing user_id claim")
				}
				if ar.User == nil || ar.User.Username != "alice" {
					t.Fatalf("unexpected user in response: %+v", ar.User)
				}
				if bytes.Contains(b, []byte("password_hash")) {
					t.Fatalf("response leaks password hash")
				}
			},
		},
		{
			name: "Register_DuplicateUsername",
			path: "/register",
			body: map[string]string{"username": "dup", "email": "new@example.com", "password": "pw"},
			prepare: func(m *mock.Mocks) {
				m.Users.CreateUser(context.Background(), &models.User{Username: "dup", Email: "dup@example.com"})
			},
			wantStatus: http.StatusConflict,
		},
		{
			name: "Register_DuplicateEmail",
			path: "/register",
			body: map[string]string{"username": "fresh", "email": "dup@example.com", "password": "pw"},
			prepare: func(m *mock.Mocks) {
				m.Users.CreateUser(context.Background(), &models.User{Username: "dup", Email: "dup@example.com"})
			},
			wantStatus: http.StatusConflict,
		},
		{
			name:       "Login_InvalidRequest",
			path:       "/login",
			body:       "not a json",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Login_MissingUser",
			path:       "/login",
			body:       map[string]string{"username": "ghost", "password": "nop"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "Login_Success",
			path: "/login",
			body: map[string]string{"username": "bob", "password": "hunter2"},
			prepare: func(m *mock.Mocks) {
				hash, _ := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.DefaultCost)
				m.Users.CreateUser(context.Background(), &models.User{Username: "bob", Email: "bob@example.com", PasswordHash: string(hash)})
			},
			wantStatus: http.StatusOK,
			checkBody: func(t *testing.T, b []byte) {
				var ar struct {
					Token string `json:"token"`
				}
				if err := json.Unmarshal(b, &ar); err != nil {
					t.Fatalf("unmarshal token: %v", err)
				}
				if ar.Token == "" {
					t.Fatalf("empty token")
				}
			},
		},
		{
			name: "Login_ByEmail",
			path: "/login",
			body: map[string]string{"username": "bob@example.com", "password": "hunter2"},
			prepare: func(m *mock.Mocks) {
				hash, _ := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.DefaultCost)
				m.Users.CreateUser(context.Background(), &models.User{Username: "bob", Email: "bob@example.com", PasswordHash: string(hash)})
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "Login_WrongPassword",
			path: "/login",
			body: map[string]string{"username": "carol", "password": "wrongpw"},
			prepare: func(m *mock.Mocks) {
				hash, _ := bcrypt.GenerateFromPassword([]byte("rightpw"), bcrypt.DefaultCost)
				m.Users.CreateUser(context.Background(), &models.User{Username: "carol", Email: "c@example.com", PasswordHash: string(hash)})
			},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mocks := mock.NewMocks()
			if tt.prepare != nil {
				tt.prepare(mocks)
			}
			handler := api.NewAuthHandler(mocks.Users, secret, tokenDur)

			var bodyReader io.Reader
			if tt.body != nil {
				b, _ := json.Marshal(tt.body)
				bodyReader = bytes.NewReader(b)
			}
			req := httptest.NewRequest(http.MethodPost, tt.path, bodyReader)
			w := httptest.NewRecorder()

			switch tt.path {
			case "/register":
				handler.Register(w, req)
			case "/login":
				handler.Login(w, req)
			default:
				t.Fatalf("unknown path %s", tt.path)
			}

			res := w.Result()
			defer res.Body.Close()
			data, _ := io.ReadAll(res.Body)
			if res.StatusCode != tt.wantStatus {
				t.Fatalf("%s: expected status %d got %d body=%s", tt.name, tt.wantStatus, res.StatusCode, string(data))
			}
			if tt.checkBody != nil {
				tt.checkBody(t, data)
			}
		})
	}
}

func TestLoginTouchesLastLogin(t *testing.T) {
	mocks := mock.NewMocks()
	hash, _ := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.DefaultCost)
	id, _ := mocks.Users.CreateUser(context.Background(), &models.User{Username: "dave", Email: "d@example.com", PasswordHash: string(hash)})

	handler := api.NewAuthHandler(mocks.Users, "s", time.Hour)

	b, _ := json.Marshal(map[string]string{"username": "dave", "password": "pw"})
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(b))
	w := httptest.NewRecorder()
	handler.Login(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	if mocks.Users.Users[id].LastLogin == nil {
		t.Fatalf("last_login not updated")
	}
}
