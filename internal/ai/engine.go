package ai

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/garnizeh/nova/internal/config"
)

// Generator is the slice of the ollama client the engine depends on.
type Generator interface {
	Generate(ctx context.Context, model string, prompt string) (string, error)
}

// QA is one question/answer pair from a project transcript.
type QA struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Engine produces clarifying questions, task breakdowns, learning plans
// and reports via the LLM. Every method degrades to static fallback
// content instead of returning an error: the pipeline must never block
// the user on the model provider. The boolean result reports whether
// fallback content was substituted, so callers can log and surface a
// degraded flag.
type Engine struct {
	client  Generator
	model   string
	timeout time.Duration
	logger  *slog.Logger

	taskSchema   *compiledSchema
	reportSchema *compiledSchema
}

// NewEngine creates the pipeline engine. The embedded response schemas
// are compiled eagerly so a broken schema fails at startup, not per
// request.
func NewEngine(client Generator, cfg config.EngineConfig, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	if cfg.Model == "" {
		cfg.Model = "llama3"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 20 * time.Second
	}

	taskSchema, err := compileSchema(taskBatchSchema)
	if err != nil {
		return nil, err
	}
	reportSchema, err := compileSchema(characterReportSchema)
	if err != nil {
		return nil, err
	}

	return &Engine{
		client:       client,
		model:        cfg.Model,
		timeout:      cfg.Timeout,
		logger:       logger,
		taskSchema:   taskSchema,
		reportSchema: reportSchema,
	}, nil
}

// generate renders the template with data and runs it through the model
// with the engine timeout applied.
func (e *Engine) generate(ctx context.Context, tmpl string, data any) (string, error) {
	prompt, err := renderPrompt(tmpl, data)
	if err != nil {
		return "", err
	}

	ctxReq, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	return e.client.Generate(ctxReq, e.model, prompt)
}

func (e *Engine) degrade(op string, err error) {
	e.logger.Warn("ai degraded to fallback", slog.String("op", op), slog.Any("err", err))
}
