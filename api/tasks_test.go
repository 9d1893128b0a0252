package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/garnizeh/nova/api"
	"github.com/garnizeh/nova/pkg/models"
	"github.com/garnizeh/nova/pkg/repository/mock"
	"github.com/gorilla/mux"
)

// seedMarketplace loads a spread of tasks for filter tests.
func seedMarketplace(t *testing.T, m *mock.Mocks) {
	t.Helper()
	ctx := context.Background()
	tasks := []models.Task{
		{Title: "Go worker", Difficulty: models.DifficultyIntermediate, Skills: []string{"Go", "SQL"}, RewardCredits: 200, Status: models.TaskAvailable},
		{Title: "Schema design", Difficulty: models.DifficultyBeginner, Skills: []string{"SQL"}, RewardCredits: 80, Status: models.TaskAvailable},
		{Title: "Perf tuning", Difficulty: models.DifficultyAdvanced, Skills: []string{"Go", "Profiling"}, RewardCredits: 450, Status: models.TaskAvailable},
		{Title: "Taken task", Difficulty: models.DifficultyBeginner, Skills: []string{"Go"}, RewardCredits: 100, Status: models.TaskAssigned},
	}
	if _, err := m.Tasks.CreateTasks(ctx, 1, tasks); err != nil {
		t.Fatalf("seed tasks: %v", err)
	}
}

func TestListTasksFilters(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantCount  int
	}{
		{"DefaultOnlyAvailable", "", http.StatusOK, 3},
		{"ByDifficulty", "?difficulty=Beginner", http.StatusOK, 1},
		{"InvalidDifficulty", "?difficulty=Expert", http.StatusBadRequest, 0},
		{"BySkillAnyMatch", "?skills=SQL", http.StatusOK, 2},
		{"BySkillList", "?skills=Profiling,SQL", http.StatusOK, 3},
		{"MinCredits", "?min_credits=150", http.StatusOK, 2},
		{"MaxCredits", "?max_credits=100", http.StatusOK, 1},
		{"CreditsRange", "?min_credits=100&max_credits=300", http.StatusOK, 1},
		{"InvalidMinCredits", "?min_credits=abc", http.StatusBadRequest, 0},
		{"StatusAssigned", "?status=assigned", http.StatusOK, 1},
		{"StatusAll", "?status=all", http.StatusOK, 4},
		{"InvalidStatus", "?status=bogus", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mocks := mock.NewMocks()
			seedMarketplace(t, mocks)
			handler := api.NewTasksHandler(mocks.Tasks)

			req := httptest.NewRequest(http.MethodGet, "/tasks"+tt.query, nil)
			w := httptest.NewRecorder()
			handler.List(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected %d got %d body=%s", tt.wantStatus, w.Code, w.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			var resp struct {
				Tasks []models.Task `json:"tasks"`
			}
			decodeBody(t, w, &resp)
			if len(resp.Tasks) != tt.wantCount {
				t.Fatalf("expected %d tasks, got %d", tt.wantCount, len(resp.Tasks))
			}
		})
	}
}

func taskVars(req *http.Request, taskID int64) *http.Request {
	return mux.SetURLVars(req, map[string]string{"id": strconv.FormatInt(taskID, 10)})
}

func TestGetTask(t *testing.T) {
	mocks := mock.NewMocks()
	seedMarketplace(t, mocks)
	handler := api.NewTasksHandler(mocks.Tasks)

	req := httptest.NewRequest(http.MethodGet, "/tasks/1", nil)
	w := httptest.NewRecorder()
	handler.Get(w, taskVars(req, 1))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}

	var task models.Task
	decodeBody(t, w, &task)
	if task.ID != 1 {
		t.Fatalf("wrong task: %+v", task)
	}

	req = httptest.NewRequest(http.MethodGet, "/tasks/99", nil)
	w = httptest.NewRecorder()
	handler.Get(w, taskVars(req, 99))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", w.Code)
	}
}

// seedAssignedTask stores one task assigned to assigneeID with the
// given reward and returns its id.
func seedAssignedTask(t *testing.T, m *mock.Mocks, assigneeID, reward int64) int64 {
	t.Helper()
	ctx := context.Background()
	ids, err := m.Tasks.CreateTasks(ctx, 1, []models.Task{{
		Title:         "Assigned work",
		Difficulty:    models.DifficultyIntermediate,
		RewardCredits: reward,
		Status:        models.TaskAssigned,
	}})
	if err != nil {
		t.Fatalf("seed task: %v", err)
	}
	m.Tasks.Tasks[ids[0]].AssigneeID = &assigneeID
	return ids[0]
}

func TestCompleteTaskAwardsCreditsOnce(t *testing.T) {
	mocks := mock.NewMocks()
	userID, _ := mocks.Users.CreateUser(context.Background(), &models.User{Username: "worker", Email: "w@example.com"})
	taskID := seedAssignedTask(t, mocks, userID, 250)

	handler := api.NewTasksHandler(mocks.Tasks)

	req := authedRequest(http.MethodPost, "/tasks/x/complete", userID, nil)
	w := httptest.NewRecorder()
	handler.Complete(w, taskVars(req, taskID))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		TaskID          int64 `json:"task_id"`
		CreditedCredits int64 `json:"credited_credits"`
	}
	decodeBody(t, w, &resp)
	if resp.CreditedCredits != 250 {
		t.Fatalf("expected 250 credited, got %d", resp.CreditedCredits)
	}
	if got := mocks.Users.Users[userID].Credits; got != 250 {
		t.Fatalf("expected 250 credits on user, got %d", got)
	}

	// second attempt must not double-award
	req = authedRequest(http.MethodPost, "/tasks/x/complete", userID, nil)
	w = httptest.NewRecorder()
	handler.Complete(w, taskVars(req, taskID))
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 on repeat completion, got %d", w.Code)
	}
	if got := mocks.Users.Users[userID].Credits; got != 250 {
		t.Fatalf("credits changed on repeat completion: %d", got)
	}
}

func TestCompleteTaskAssigneeOnly(t *testing.T) {
	mocks := mock.NewMocks()
	assignee, _ := mocks.Users.CreateUser(context.Background(), &models.User{Username: "worker", Email: "w@example.com"})
	intruder, _ := mocks.Users.CreateUser(context.Background(), &models.User{Username: "other", Email: "o@example.com"})
	taskID := seedAssignedTask(t, mocks, assignee, 100)

	handler := api.NewTasksHandler(mocks.Tasks)

	req := authedRequest(http.MethodPost, "/tasks/x/complete", intruder, nil)
	w := httptest.NewRecorder()
	handler.Complete(w, taskVars(req, taskID))

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", w.Code)
	}
}

func TestCompleteTaskNotFound(t *testing.T) {
	mocks := mock.NewMocks()
	handler := api.NewTasksHandler(mocks.Tasks)

	req := authedRequest(http.MethodPost, "/tasks/x/complete", 1, nil)
	w := httptest.NewRecorder()
	handler.Complete(w, taskVars(req, 42))

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", w.Code)
	}
}
