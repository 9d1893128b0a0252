package sqlite

import (
	"encoding/json"
	"io"
	"log/slog"
	"time"

	"github.com/garnizeh/nova/internal/db"
	"github.com/garnizeh/nova/pkg/repository"
)

// SQLiteRepo implements the repository interfaces using the internal DB
// wrapper.
type SQLiteRepo struct {
	conn   *db.DB
	logger *slog.Logger
}

// Ensure SQLiteRepo implements the public interfaces.
var _ repository.UserRepo = (*SQLiteRepo)(nil)
var _ repository.ProjectRepo = (*SQLiteRepo)(nil)
var _ repository.QuestionRepo = (*SQLiteRepo)(nil)
var _ repository.AnswerRepo = (*SQLiteRepo)(nil)
var _ repository.TaskRepo = (*SQLiteRepo)(nil)
var _ repository.ApplicationRepo = (*SQLiteRepo)(nil)
var _ repository.LearningPlanRepo = (*SQLiteRepo)(nil)
var _ repository.EnvTemplateRepo = (*SQLiteRepo)(nil)

func New(conn *db.DB, logger *slog.Logger) *SQLiteRepo {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &SQLiteRepo{conn: conn, logger: logger}
}

func now() int64 {
	return time.Now().UTC().Unix()
}

// marshalStrings stores a string slice as a JSON text column; nil becomes
// an empty array.
func marshalStrings(in []string) string {
	if in == nil {
		in = []string{}
	}
	b, _ := json.Marshal(in)
	return string(b)
}

func unmarshalStrings(in string) []string {
	var out []string
	if err := json.Unmarshal([]byte(in), &out); err != nil || out == nil {
		return []string{}
	}
	return out
}
