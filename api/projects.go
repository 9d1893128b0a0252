package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/garnizeh/nova/internal/ai"
	"github.com/garnizeh/nova/pkg/models"
	"github.com/garnizeh/nova/pkg/repository"
	"github.com/gorilla/mux"
)

// ProjectsHandler drives the clarifying-question pipeline: create a
// project, collect answers one question at a time, then break the
// problem into marketplace tasks.
type ProjectsHandler struct {
	projects  repository.ProjectRepo
	questions repository.QuestionRepo
	answers   repository.AnswerRepo
	tasks     repository.TaskRepo
	engine    Engine
}

func NewProjectsHandler(
	projects repository.ProjectRepo,
	questions repository.QuestionRepo,
	answers repository.AnswerRepo,
	tasks repository.TaskRepo,
	engine Engine,
) *ProjectsHandler {
	return &ProjectsHandler{
		projects:  projects,
		questions: questions,
		answers:   answers,
		tasks:     tasks,
		engine:    engine,
	}
}

type createProjectRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type projectResponse struct {
	Project  *models.Project  `json:"project"`
	Question *models.Question `json:"question,omitempty"`
	Degraded bool             `json:"degraded,omitempty"`
}

// Create registers a project and asks the first clarifying question.
func (h *ProjectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		writeError(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	var req createProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	if req.Title == "" || req.Description == "" {
		writeError(w, "title and description are required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	project := models.Project{
		UserID:      &userID,
		Title:       req.Title,
		Description: req.Description,
		Status:      models.ProjectQuestioning,
	}
	projectID, err := h.projects.CreateProject(ctx, &project)
	if err != nil {
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	project.ID = projectID

	questionText, degraded := h.engine.InitialQuestion(ctx, h.problemText(&project))

	question := models.Question{
		ProjectID:   projectID,
		QuestionTxt: questionText,
	}
	questionID, err := h.questions.AddQuestion(ctx, &question)
	if err != nil {
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	question.ID = questionID
	question.Order = 1

	writeJSON(w, projectResponse{
		Project:  &project,
		Question: &question,
		Degraded: degraded,
	}, http.StatusCreated)
}

type projectDetailResponse struct {
	Project   *models.Project   `json:"project"`
	Questions []models.Question `json:"questions"`
	Answers   []models.Answer   `json:"answers"`
}

// Get returns the project with its full question and answer history.
func (h *ProjectsHandler) Get(w http.ResponseWriter, r *http.Request) {
	project, ok := h.loadProject(w, r)
	if !ok {
		return
	}

	ctx := r.Context()

	questions, err := h.questions.ListQuestions(ctx, project.ID)
	if err != nil {
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	answers, err := h.answers.ListAnswers(ctx, project.ID)
	if err != nil {
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, projectDetailResponse{
		Project:   project,
		Questions: questions,
		Answers:   answers,
	}, http.StatusOK)
}

type submitAnswerRequest struct {
	QuestionID int64  `json:"question_id"`
	AnswerText string `json:"answer_text"`
}

type submitAnswerResponse struct {
	Status       string           `json:"status"`
	NextQuestion *models.Question `json:"next_question,omitempty"`
	Degraded     bool             `json:"degraded,omitempty"`
}

// SubmitAnswer records an answer and either asks the next clarifying
// question or declares the project ready for task generation.
func (h *ProjectsHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	project, ok := h.loadProject(w, r)
	if !ok {
		return
	}
	if project.Status != models.ProjectQuestioning {
		writeError(w, "project is no longer accepting answers", http.StatusConflict)
		return
	}

	var req submitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	req.AnswerText = strings.TrimSpace(req.AnswerText)
	if req.QuestionID <= 0 || req.AnswerText == "" {
		writeError(w, "question_id and answer_text are required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	// the question must belong to this project
	questions, err := h.questions.ListQuestions(ctx, project.ID)
	if err != nil {
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	known := false
	for _, q := range questions {
		if q.ID == req.QuestionID {
			known = true
			break
		}
	}
	if !known {
		writeError(w, "question not found", http.StatusNotFound)
		return
	}

	answer := models.Answer{
		ProjectID:  project.ID,
		QuestionID: req.QuestionID,
		AnswerTxt:  req.AnswerText,
	}
	if _, err := h.answers.AddAnswer(ctx, &answer); err != nil {
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	history, err := h.history(r, project.ID)
	if err != nil {
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	problem := h.problemText(project)
	more, degraded := h.engine.ShouldAskMore(ctx, problem, history)
	if !more {
		if err := h.projects.UpdateProjectStatus(ctx, project.ID, models.ProjectReadyForTasks); err != nil {
			writeError(w, "internal server error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, submitAnswerResponse{
			Status:   models.ProjectReadyForTasks,
			Degraded: degraded,
		}, http.StatusOK)
		return
	}

	questionText, qDegraded := h.engine.NextQuestion(ctx, problem, history)
	next := models.Question{
		ProjectID:   project.ID,
		QuestionTxt: questionText,
	}
	nextID, err := h.questions.AddQuestion(ctx, &next)
	if err != nil {
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	next.ID = nextID
	next.Order = int64(len(questions)) + 1

	writeJSON(w, submitAnswerResponse{
		Status:       models.ProjectQuestioning,
		NextQuestion: &next,
		Degraded:     degraded || qDegraded,
	}, http.StatusOK)
}

type generateTasksResponse struct {
	Tasks    []models.Task `json:"tasks"`
	Degraded bool          `json:"degraded,omitempty"`
}

// GenerateTasks turns the clarified problem into a batch of marketplace
// tasks. Repeat calls append a fresh batch.
func (h *ProjectsHandler) GenerateTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		writeError(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	project, ok := h.loadProject(w, r)
	if !ok {
		return
	}
	if project.UserID != nil && *project.UserID != userID {
		writeError(w, "only the project owner can generate tasks", http.StatusForbidden)
		return
	}
	if project.Status == models.ProjectQuestioning {
		writeError(w, "project is still in the questioning phase", http.StatusConflict)
		return
	}

	ctx := r.Context()

	history, err := h.history(r, project.ID)
	if err != nil {
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	drafts, degraded := h.engine.GenerateTasks(ctx, h.problemText(project), history)

	tasks := make([]models.Task, 0, len(drafts))
	for _, d := range drafts {
		tasks = append(tasks, models.Task{
			ProjectID:      project.ID,
			Title:          d.Title,
			Description:    d.Description,
			Difficulty:     d.Difficulty,
			EstimatedHours: d.EstimatedHours,
			Skills:         d.Skills,
			RewardCredits:  d.RewardCredits,
			Status:         models.TaskAvailable,
		})
	}

	ids, err := h.tasks.CreateTasks(ctx, project.ID, tasks)
	if err != nil {
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	for i := range tasks {
		tasks[i].ID = ids[i]
	}

	if project.Status != models.ProjectTasksGenerated {
		if err := h.projects.UpdateProjectStatus(ctx, project.ID, models.ProjectTasksGenerated); err != nil {
			writeError(w, "internal server error", http.StatusInternalServerError)
			return
		}
	}

	writeJSON(w, generateTasksResponse{Tasks: tasks, Degraded: degraded}, http.StatusCreated)
}

// ListTasks returns every task generated for the project.
func (h *ProjectsHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	project, ok := h.loadProject(w, r)
	if !ok {
		return
	}

	tasks, err := h.tasks.ListTasksByProject(r.Context(), project.ID)
	if err != nil {
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{"tasks": tasks}, http.StatusOK)
}

// loadProject parses the path id and fetches the project, writing the
// error response itself when either step fails.
func (h *ProjectsHandler) loadProject(w http.ResponseWriter, r *http.Request) (*models.Project, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		writeError(w, "invalid project id", http.StatusBadRequest)
		return nil, false
	}

	project, err := h.projects.GetProject(r.Context(), id)
	if err != nil {
		writeError(w, "internal server error", http.StatusInternalServerError)
		return nil, false
	}
	if project == nil {
		writeError(w, "project not found", http.StatusNotFound)
		return nil, false
	}
	return project, true
}

func (h *ProjectsHandler) problemText(p *models.Project) string {
	return p.Title + "\n\n" + p.Description
}

// history rebuilds the Q/A transcript in question order.
func (h *ProjectsHandler) history(r *http.Request, projectID int64) ([]ai.QA, error) {
	answers, err := h.answers.ListAnswers(r.Context(), projectID)
	if err != nil {
		return nil, err
	}
	history := make([]ai.QA, 0, len(answers))
	for _, a := range answers {
		history = append(history, ai.QA{Question: a.QuestionTxt, Answer: a.AnswerTxt})
	}
	return history, nil
}
