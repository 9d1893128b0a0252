package api

import (
	"context"
	"encoding/json"

	"github.com/garnizeh/nova/internal/ai"
	"github.com/garnizeh/nova/internal/workspace"
	"github.com/garnizeh/nova/pkg/models"
)

// Engine is the slice of the AI pipeline the handlers depend on. The
// concrete implementation is *ai.Engine; tests substitute a stub.
type Engine interface {
	InitialQuestion(ctx context.Context, problem string) (string, bool)
	NextQuestion(ctx context.Context, problem string, history []ai.QA) (string, bool)
	ShouldAskMore(ctx context.Context, problem string, history []ai.QA) (bool, bool)
	GenerateTasks(ctx context.Context, problem string, history []ai.QA) ([]ai.TaskDraft, bool)
	LearningPlan(ctx context.Context, inputs ai.LearningPlanInputs) (json.RawMessage, bool)
	CharacterReport(ctx context.Context, user *models.User, inputs ai.ReportInputs) (json.RawMessage, bool)
	ChatReply(ctx context.Context, message string, cc ai.ChatContext) (string, bool)
}

var _ Engine = (*ai.Engine)(nil)

// Evaluator is the slice of the workspace runner the handlers depend on.
type Evaluator interface {
	Evaluate(ctx context.Context, runtime string, files map[string]string) (*workspace.Result, error)
}

var _ Evaluator = (*workspace.Runner)(nil)
