package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/garnizeh/nova/api"
	"github.com/garnizeh/nova/internal/ai"
	"github.com/garnizeh/nova/internal/workspace"
	"github.com/garnizeh/nova/pkg/models"
)

// stubEngine returns canned content so handler tests never touch the
// model provider.
type stubEngine struct {
	Question    string
	AskMore     bool
	Tasks       []ai.TaskDraft
	Plan        json.RawMessage
	Report      json.RawMessage
	Reply       string
	Degraded    bool
	HistorySeen []ai.QA
}

func (s *stubEngine) InitialQuestion(ctx context.Context, problem string) (string, bool) {
	return s.Question, s.Degraded
}

func (s *stubEngine) NextQuestion(ctx context.Context, problem string, history []ai.QA) (string, bool) {
	s.HistorySeen = history
	return s.Question, s.Degraded
}

func (s *stubEngine) ShouldAskMore(ctx context.Context, problem string, history []ai.QA) (bool, bool) {
	s.HistorySeen = history
	return s.AskMore, s.Degraded
}

func (s *stubEngine) GenerateTasks(ctx context.Context, problem string, history []ai.QA) ([]ai.TaskDraft, bool) {
	return s.Tasks, s.Degraded
}

func (s *stubEngine) LearningPlan(ctx context.Context, inputs ai.LearningPlanInputs) (json.RawMessage, bool) {
	return s.Plan, s.Degraded
}

func (s *stubEngine) CharacterReport(ctx context.Context, user *models.User, inputs ai.ReportInputs) (json.RawMessage, bool) {
	return s.Report, s.Degraded
}

func (s *stubEngine) ChatReply(ctx context.Context, message string, cc ai.ChatContext) (string, bool) {
	return s.Reply, s.Degraded
}

type stubEvaluator struct {
	Result *workspace.Result
	Err    error
}

func (s *stubEvaluator) Evaluate(ctx context.Context, runtime string, files map[string]string) (*workspace.Result, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Result, nil
}

// authedRequest builds a JSON request carrying userID as if the JWT
// middleware had run.
func authedRequest(method, path string, userID int64, body any) *http.Request {
	var reader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	ctx := context.WithValue(req.Context(), api.CtxUserID, userID)
	return req.WithContext(ctx)
}

func decodeBody(t interface{ Fatalf(string, ...any) }, res *httptest.ResponseRecorder, v any) {
	if err := json.Unmarshal(res.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response: %v body=%s", err, res.Body.String())
	}
}
