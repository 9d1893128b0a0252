// Package workspace materializes submitted source files into a temporary
// directory and runs a fixed test-runner command against them with a
// wall-clock timeout. The directory is removed on every exit path.
package workspace

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/garnizeh/nova/internal/config"
)

var (
	ErrUnsupportedRuntime = errors.New("unsupported runtime")
	ErrUnsafePath         = errors.New("unsafe file path")
	ErrTooManyFiles       = errors.New("too many files")
	ErrFileTooLarge       = errors.New("file too large")
)

// defaultRunners maps a runtime family to its fixed test command.
// Only the python family is supported.
var defaultRunners = map[string][]string{
	"python": {"python3", "-m", "pytest", "-q"},
}

// Result captures one evaluation run.
type Result struct {
	Success    bool   `json:"success"`
	ExitCode   int    `json:"exit_code"`
	Stdout     string `json:"stdout"`
	Stderr     string `json:"stderr"`
	TimedOut   bool   `json:"timed_out"`
	DurationMS int64  `json:"duration_ms"`
}

// Runner evaluates file sets in throwaway directories.
type Runner struct {
	cfg     config.WorkspaceConfig
	runners map[string][]string
	logger  *slog.Logger
}

func NewRunner(cfg config.WorkspaceConfig, logger *slog.Logger) *Runner {
	if cfg.EvalTimeout == 0 {
		cfg.EvalTimeout = 30 * time.Second
	}
	if cfg.MaxFiles == 0 {
		cfg.MaxFiles = 20
	}
	if cfg.MaxFileSize == 0 {
		cfg.MaxFileSize = 256 * 1024
	}
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	runners := make(map[string][]string, len(defaultRunners))
	for k, v := range defaultRunners {
		runners[k] = v
	}
	return &Runner{cfg: cfg, runners: runners, logger: logger}
}

// SetCommand overrides the runner command for a runtime. Used by tests.
func (r *Runner) SetCommand(runtime string, argv []string) {
	if len(argv) > 0 {
		r.runners[runtime] = argv
	}
}

// Evaluate writes files into a fresh temp directory, runs the runtime's
// test command there, and returns the captured output. File names that
// would escape the directory are rejected before anything is written.
func (r *Runner) Evaluate(ctx context.Context, runtime string, files map[string]string) (*Result, error) {
	argv, ok := r.runners[runtime]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedRuntime, runtime)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no files provided")
	}
	if len(files) > r.cfg.MaxFiles {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyFiles, len(files), r.cfg.MaxFiles)
	}

	dir, err := os.MkdirTemp("", "nova-eval-*")
	if err != nil {
		return nil, fmt.Errorf("create workspace dir: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			r.logger.Error("workspace cleanup failed", slog.String("dir", dir), slog.Any("err", rmErr))
		}
	}()

	for name, content := range files {
		if int64(len(content)) > r.cfg.MaxFileSize {
			return nil, fmt.Errorf("%w: %s", ErrFileTooLarge, name)
		}
		if err := safeWrite(dir, name, content); err != nil {
			return nil, err
		}
	}

	ctxRun, cancel := context.WithTimeout(ctx, r.cfg.EvalTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctxRun, argv[0], argv[1:]...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(start)

	res := &Result{
		Stdout:     stdout.String(),
		Stderr:     stderr.String(),
		DurationMS: elapsed.Milliseconds(),
	}

	switch {
	case runErr == nil:
		res.Success = true
		res.ExitCode = 0
	case ctxRun.Err() == context.DeadlineExceeded:
		res.TimedOut = true
		res.ExitCode = -1
	default:
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		} else {
			// command could not be started at all
			return nil, fmt.Errorf("run evaluation: %w", runErr)
		}
	}

	r.logger.Info("workspace evaluation finished",
		slog.String("runtime", runtime),
		slog.Bool("success", res.Success),
		slog.Int("exit_code", res.ExitCode),
		slog.Bool("timed_out", res.TimedOut),
		slog.Int64("duration_ms", res.DurationMS),
	)
	return res, nil
}

// safeWrite writes content under dir, rejecting names that are absolute
// or would traverse outside the directory.
func safeWrite(dir, name, content string) error {
	if name == "" || !filepath.IsLocal(name) {
		return fmt.Errorf("%w: %q", ErrUnsafePath, name)
	}
	dst := filepath.Join(dir, filepath.FromSlash(name))
	if sub := filepath.Dir(dst); sub != dir {
		if err := os.MkdirAll(sub, 0o755); err != nil {
			return fmt.Errorf("create subdirectory for %s: %w", name, err)
		}
	}
	if err := os.WriteFile(dst, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
