package api

import (
	"github.com/garnizeh/nova/internal/config"
	"github.com/garnizeh/nova/internal/db"
	"github.com/garnizeh/nova/internal/repository/sqlite"
	"github.com/gorilla/mux"
)

func SetupRoutes(cfg *config.Config, version, buildTime string, conn *db.DB, engine Engine, runner Evaluator) *mux.Router {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	// Repository
	repo := sqlite.New(conn, logger)

	// Create handlers
	systemHandler := &SystemHandler{}
	authHandler := NewAuthHandler(repo, cfg.JWTSecret, cfg.TokenDuration)
	usersHandler := NewUsersHandler(repo)
	projectsHandler := NewProjectsHandler(repo, repo, repo, repo, engine)
	tasksHandler := NewTasksHandler(repo)
	applicationsHandler := NewApplicationsHandler(repo, repo, repo)
	learningHandler := NewLearningHandler(repo, engine)
	reportsHandler := NewReportsHandler(repo, engine)
	templatesHandler := NewTemplatesHandler(repo)
	workspaceHandler := NewWorkspaceHandler(repo, runner)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	r.HandleFunc("/v1/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/v1/auth/login", authHandler.Login).Methods("POST")

	// API v1 Protected routes
	apiV1 := r.PathPrefix("/v1").Subrouter()
	apiV1.Use(JWTAuthMiddleware(cfg.JWTSecret, repo))

	// User endpoints
	apiV1.HandleFunc("/users/me", usersHandler.Me).Methods("GET")
	apiV1.HandleFunc("/users/me", usersHandler.UpdateMe).Methods("PUT")
	apiV1.HandleFunc("/users/{id:[0-9]+}", usersHandler.Get).Methods("GET")

	// Project pipeline endpoints
	apiV1.HandleFunc("/projects", projectsHandler.Create).Methods("POST")
	apiV1.HandleFunc("/projects/{id:[0-9]+}", projectsHandler.Get).Methods("GET")
	apiV1.HandleFunc("/projects/{id:[0-9]+}/answers", projectsHandler.SubmitAnswer).Methods("POST")
	apiV1.HandleFunc("/projects/{id:[0-9]+}/tasks", projectsHandler.GenerateTasks).Methods("POST")
	apiV1.HandleFunc("/projects/{id:[0-9]+}/tasks", projectsHandler.ListTasks).Methods("GET")

	// Marketplace endpoints
	apiV1.HandleFunc("/tasks", tasksHandler.List).Methods("GET")
	apiV1.HandleFunc("/tasks/{id:[0-9]+}", tasksHandler.Get).Methods("GET")
	apiV1.HandleFunc("/tasks/{id:[0-9]+}/complete", tasksHandler.Complete).Methods("POST")
	apiV1.HandleFunc("/tasks/{id:[0-9]+}/applications", applicationsHandler.Apply).Methods("POST")
	apiV1.HandleFunc("/tasks/{id:[0-9]+}/applications", applicationsHandler.List).Methods("GET")
	apiV1.HandleFunc("/tasks/{id:[0-9]+}/applications/{appID:[0-9]+}/accept", applicationsHandler.Accept).Methods("POST")
	apiV1.HandleFunc("/tasks/{id:[0-9]+}/applications/{appID:[0-9]+}/reject", applicationsHandler.Reject).Methods("POST")

	// Learning endpoints
	apiV1.HandleFunc("/learning-plans", learningHandler.CreatePlan).Methods("POST")
	apiV1.HandleFunc("/learning-plans", learningHandler.ListPlans).Methods("GET")
	apiV1.HandleFunc("/learning-plans/{id:[0-9]+}", learningHandler.GetPlan).Methods("GET")
	apiV1.HandleFunc("/learning-plans/{id:[0-9]+}/progress", learningHandler.UpdateProgress).Methods("PUT")
	apiV1.HandleFunc("/chat", learningHandler.Chat).Methods("POST")

	// Report endpoints
	apiV1.HandleFunc("/reports/character", reportsHandler.Character).Methods("POST")

	// Environment template endpoints
	apiV1.HandleFunc("/env-templates", templatesHandler.List).Methods("GET")
	apiV1.HandleFunc("/env-templates/{category}/{tier}", templatesHandler.Get).Methods("GET")

	// Workspace endpoints
	apiV1.HandleFunc("/workspaces", workspaceHandler.Create).Methods("POST")
	apiV1.HandleFunc("/workspaces/evaluate", workspaceHandler.Evaluate).Methods("POST")

	return r
}
