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

// seedOpenTask creates an owner, a project and one available task.
func seedOpenTask(t *testing.T, m *mock.Mocks) (ownerID, taskID int64) {
	t.Helper()
	ctx := context.Background()

	ownerID, _ = m.Users.CreateUser(ctx, &models.User{Username: "owner", Email: "owner@example.com"})
	projectID, err := m.Projects.CreateProject(ctx, &models.Project{
		UserID:      &ownerID,
		Title:       "Inventory sync",
		Description: "d",
		Status:      models.ProjectTasksGenerated,
	})
	if err != nil {
		t.Fatalf("seed project: %v", err)
	}
	ids, err := m.Tasks.CreateTasks(ctx, projectID, []models.Task{{
		Title:         "Build worker",
		Difficulty:    models.DifficultyIntermediate,
		RewardCredits: 150,
		Status:        models.TaskAvailable,
	}})
	if err != nil {
		t.Fatalf("seed task: %v", err)
	}
	return ownerID, ids[0]
}

func newApplicationsHandler(m *mock.Mocks) *api.ApplicationsHandler {
	return api.NewApplicationsHandler(m.Tasks, m.Projects, m.Applications)
}

func applicationVars(req *http.Request, taskID, appID int64) *http.Request {
	vars := map[string]string{"id": strconv.FormatInt(taskID, 10)}
	if appID != 0 {
		vars["appID"] = strconv.FormatInt(appID, 10)
	}
	return mux.SetURLVars(req, vars)
}

func TestApplyToTask(t *testing.T) {
	mocks := mock.NewMocks()
	_, taskID := seedOpenTask(t, mocks)
	applicantID, _ := mocks.Users.CreateUser(context.Background(), &models.User{Username: "dev", Email: "dev@example.com"})

	handler := newApplicationsHandler(mocks)

	req := authedRequest(http.MethodPost, "/tasks/x/applications", applicantID, map[string]string{"message": "I know this domain"})
	w := httptest.NewRecorder()
	handler.Apply(w, applicationVars(req, taskID, 0))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}

	var app models.TaskApplication
	decodeBody(t, w, &app)
	if app.Status != models.ApplicationPending {
		t.Fatalf("expected pending application, got %s", app.Status)
	}
	if app.ApplicantID != applicantID {
		t.Fatalf("wrong applicant: %+v", app)
	}
	if got := mocks.Tasks.Tasks[taskID].Applicants; got != 1 {
		t.Fatalf("expected applicants_count 1, got %d", got)
	}

	// applying twice is rejected
	req = authedRequest(http.MethodPost, "/tasks/x/applications", applicantID, nil)
	w = httptest.NewRecorder()
	handler.Apply(w, applicationVars(req, taskID, 0))
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 on duplicate application, got %d", w.Code)
	}
}

func TestApplyToUnavailableTask(t *testing.T) {
	mocks := mock.NewMocks()
	_, taskID := seedOpenTask(t, mocks)
	mocks.Tasks.Tasks[taskID].Status = models.TaskAssigned

	handler := newApplicationsHandler(mocks)

	req := authedRequest(http.MethodPost, "/tasks/x/applications", 5, nil)
	w := httptest.NewRecorder()
	handler.Apply(w, applicationVars(req, taskID, 0))

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", w.Code)
	}
}

func TestListApplicationsOwnerOnly(t *testing.T) {
	mocks := mock.NewMocks()
	ownerID, taskID := seedOpenTask(t, mocks)
	mocks.Applications.CreateApplication(context.Background(), &models.TaskApplication{TaskID: taskID, ApplicantID: 5})

	handler := newApplicationsHandler(mocks)

	req := authedRequest(http.MethodGet, "/tasks/x/applications", ownerID, nil)
	w := httptest.NewRecorder()
	handler.List(w, applicationVars(req, taskID, 0))
	if w.Code != http.StatusOK {
		t.Fatalf("owner list: expected 200 got %d", w.Code)
	}

	var resp struct {
		Applications []models.TaskApplication `json:"applications"`
	}
	decodeBody(t, w, &resp)
	if len(resp.Applications) != 1 {
		t.Fatalf("expected 1 application, got %d", len(resp.Applications))
	}

	req = authedRequest(http.MethodGet, "/tasks/x/applications", 99, nil)
	w = httptest.NewRecorder()
	handler.List(w, applicationVars(req, taskID, 0))
	if w.Code != http.StatusForbidden {
		t.Fatalf("non-owner list: expected 403 got %d", w.Code)
	}
}

func TestAcceptApplicationAssignsTask(t *testing.T) {
	mocks := mock.NewMocks()
	ownerID, taskID := seedOpenTask(t, mocks)
	ctx := context.Background()

	winner, _ := mocks.Applications.CreateApplication(ctx, &models.TaskApplication{TaskID: taskID, ApplicantID: 5})
	loser, _ := mocks.Applications.CreateApplication(ctx, &models.TaskApplication{TaskID: taskID, ApplicantID: 6})

	handler := newApplicationsHandler(mocks)

	req := authedRequest(http.MethodPost, "/tasks/x/applications/y/accept", ownerID, nil)
	w := httptest.NewRecorder()
	handler.Accept(w, applicationVars(req, taskID, winner))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}

	task := mocks.Tasks.Tasks[taskID]
	if task.Status != models.TaskAssigned || task.AssigneeID == nil || *task.AssigneeID != 5 {
		t.Fatalf("task not assigned to winner: %+v", task)
	}
	if got := mocks.Applications.Applications[winner].Status; got != models.ApplicationAccepted {
		t.Fatalf("winner status %s", got)
	}
	if got := mocks.Applications.Applications[loser].Status; got != models.ApplicationRejected {
		t.Fatalf("loser should be auto-rejected, got %s", got)
	}

	// accepting again conflicts
	req = authedRequest(http.MethodPost, "/tasks/x/applications/y/accept", ownerID, nil)
	w = httptest.NewRecorder()
	handler.Accept(w, applicationVars(req, taskID, winner))
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 on repeat accept, got %d", w.Code)
	}
}

func TestRejectApplication(t *testing.T) {
	mocks := mock.NewMocks()
	ownerID, taskID := seedOpenTask(t, mocks)
	appID, _ := mocks.Applications.CreateApplication(context.Background(), &models.TaskApplication{TaskID: taskID, ApplicantID: 5})

	handler := newApplicationsHandler(mocks)

	req := authedRequest(http.MethodPost, "/tasks/x/applications/y/reject", ownerID, nil)
	w := httptest.NewRecorder()
	handler.Reject(w, applicationVars(req, taskID, appID))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}

	var app models.TaskApplication
	decodeBody(t, w, &app)
	if app.Status != models.ApplicationRejected {
		t.Fatalf("expected rejected, got %s", app.Status)
	}
	if got := mocks.Tasks.Tasks[taskID].Status; got != models.TaskAvailable {
		t.Fatalf("rejecting must not touch the task, got %s", got)
	}
}

func TestDecideApplicationAuthz(t *testing.T) {
	mocks := mock.NewMocks()
	ownerID, taskID := seedOpenTask(t, mocks)
	appID, _ := mocks.Applications.CreateApplication(context.Background(), &models.TaskApplication{TaskID: taskID, ApplicantID: 5})

	handler := newApplicationsHandler(mocks)

	// non-owner cannot decide
	req := authedRequest(http.MethodPost, "/tasks/x/applications/y/accept", 99, nil)
	w := httptest.NewRecorder()
	handler.Accept(w, applicationVars(req, taskID, appID))
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", w.Code)
	}

	// application on another task is not visible through this one
	_, otherTask := seedOpenTask(t, mocks)
	req = authedRequest(http.MethodPost, "/tasks/x/applications/y/accept", ownerID, nil)
	w = httptest.NewRecorder()
	handler.Accept(w, applicationVars(req, otherTask, appID))
	if w.Code != http.StatusForbidden && w.Code != http.StatusNotFound {
		t.Fatalf("expected 403/404 got %d", w.Code)
	}
}
