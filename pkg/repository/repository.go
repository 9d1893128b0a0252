package repository

import (
	"context"
	"errors"

	"github.com/garnizeh/nova/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.
//
// Reads return (nil, nil) when the row does not exist. Multi-statement
// operations (accepting an application, completing a task) run inside a
// single transaction and report state conflicts via the sentinel errors
// below.

var (
	// ErrNotFound is returned by transactional operations when the target
	// row vanished between lookup and update.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a state machine precondition fails,
	// e.g. completing a task that is not assigned or accepting an
	// application that was already decided.
	ErrConflict = errors.New("state conflict")
)

type UserRepo interface {
	CreateUser(ctx context.Context, u *models.User) (int64, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUserProfile(ctx context.Context, u *models.User) error
	TouchLastLogin(ctx context.Context, id int64) error
}

type ProjectRepo interface {
	CreateProject(ctx context.Context, p *models.Project) (int64, error)
	GetProject(ctx context.Context, id int64) (*models.Project, error)
	UpdateProjectStatus(ctx context.Context, id int64, status string) error
}

type QuestionRepo interface {
	AddQuestion(ctx context.Context, q *models.Question) (int64, error)
	ListQuestions(ctx context.Context, projectID int64) ([]models.Question, error)
	CountQuestions(ctx context.Context, projectID int64) (int64, error)
}

type AnswerRepo interface {
	AddAnswer(ctx context.Context, a *models.Answer) (int64, error)
	// ListAnswers returns answers joined with their question text,
	// ordered by question_order.
	ListAnswers(ctx context.Context, projectID int64) ([]models.Answer, error)
}

// TaskFilter describes the marketplace listing filters. Zero values mean
// "no constraint". All values are bound as query parameters.
type TaskFilter struct {
	Difficulty string
	Skills     []string
	MinCredits *int64
	MaxCredits *int64
	Status     string
}

type TaskRepo interface {
	CreateTasks(ctx context.Context, projectID int64, tasks []models.Task) ([]int64, error)
	GetTask(ctx context.Context, id int64) (*models.Task, error)
	ListTasks(ctx context.Context, f TaskFilter) ([]models.Task, error)
	ListTasksByProject(ctx context.Context, projectID int64) ([]models.Task, error)
	// CompleteTask atomically moves an assigned task to completed and
	// credits the reward to the assignee. Returns the credited amount.
	// Fails with ErrConflict unless the task is currently assigned to
	// assigneeID, so a concurrent duplicate call cannot double-award.
	CompleteTask(ctx context.Context, taskID, assigneeID int64) (int64, error)
}

type ApplicationRepo interface {
	CreateApplication(ctx context.Context, a *models.TaskApplication) (int64, error)
	GetApplication(ctx context.Context, id int64) (*models.TaskApplication, error)
	ListApplicationsByTask(ctx context.Context, taskID int64) ([]models.TaskApplication, error)
	HasApplied(ctx context.Context, taskID, applicantID int64) (bool, error)
	// AcceptApplication atomically marks the application accepted, the
	// task assigned to the applicant, and every other pending
	// application on the task rejected.
	AcceptApplication(ctx context.Context, id int64) error
	RejectApplication(ctx context.Context, id int64) error
}

type LearningPlanRepo interface {
	CreateLearningPlan(ctx context.Context, p *models.LearningPlan) (int64, error)
	GetLearningPlan(ctx context.Context, id int64) (*models.LearningPlan, error)
	ListLearningPlansByUser(ctx context.Context, userID int64) ([]models.LearningPlan, error)
	UpdateLearningPlanProgress(ctx context.Context, id int64, progressJSON string) error
}

type EnvTemplateRepo interface {
	ListEnvTemplates(ctx context.Context) ([]models.EnvTemplate, error)
	GetEnvTemplate(ctx context.Context, category, tier string) (*models.EnvTemplate, error)
	CountEnvTemplates(ctx context.Context) (int64, error)
	SeedEnvTemplates(ctx context.Context, templates []models.EnvTemplate) error
}
