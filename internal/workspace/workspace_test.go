package workspace

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/garnizeh/nova/internal/config"
)

// shellRunner swaps the python test command for /bin/sh so the tests do
// not depend on a python toolchain.
func shellRunner(t *testing.T, cfg config.WorkspaceConfig) *Runner {
	t.Helper()
	r := NewRunner(cfg, nil)
	r.SetCommand("python", []string{"/bin/sh", "run.sh"})
	return r
}

func TestEvaluateSuccess(t *testing.T) {
	r := shellRunner(t, config.WorkspaceConfig{})

	res, err := r.Evaluate(context.Background(), "python", map[string]string{
		"run.sh": "echo all good\n",
	})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !res.Success || res.ExitCode != 0 {
		t.Fatalf("expected success: %+v", res)
	}
	if !strings.Contains(res.Stdout, "all good") {
		t.Fatalf("stdout not captured: %q", res.Stdout)
	}
}

func TestEvaluateFailureExitCode(t *testing.T) {
	r := shellRunner(t, config.WorkspaceConfig{})

	res, err := r.Evaluate(context.Background(), "python", map[string]string{
		"run.sh": "echo broken >&2\nexit 3\n",
	})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if res.Success {
		t.Fatalf("expected failure: %+v", res)
	}
	if res.ExitCode != 3 {
		t.Fatalf("expected exit code 3, got %d", res.ExitCode)
	}
	if !strings.Contains(res.Stderr, "broken") {
		t.Fatalf("stderr not captured: %q", res.Stderr)
	}
}

func TestEvaluateTimeout(t *testing.T) {
	r := shellRunner(t, config.WorkspaceConfig{EvalTimeout: 200 * time.Millisecond})

	res, err := r.Evaluate(context.Background(), "python", map[string]string{
		"run.sh": "sleep 5\n",
	})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !res.TimedOut {
		t.Fatalf("expected timeout: %+v", res)
	}
	if res.Success {
		t.Fatalf("timed-out run must not be a success")
	}
}

func TestEvaluateSubdirectoryFiles(t *testing.T) {
	r := shellRunner(t, config.WorkspaceConfig{})

	res, err := r.Evaluate(context.Background(), "python", map[string]string{
		"run.sh":        "cat sub/data.txt\n",
		"sub/data.txt":  "nested content\n",
		"sub/other.txt": "x",
	})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !strings.Contains(res.Stdout, "nested content") {
		t.Fatalf("subdirectory file not written: %+v", res)
	}
}

func TestEvaluateRejections(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.WorkspaceConfig
		runtime string
		files   map[string]string
		wantErr error
	}{
		{
			name:    "UnsupportedRuntime",
			runtime: "cobol",
			files:   map[string]string{"a": "x"},
			wantErr: ErrUnsupportedRuntime,
		},
		{
			name:    "TraversalPath",
			runtime: "python",
			files:   map[string]string{"../escape.sh": "x"},
			wantErr: ErrUnsafePath,
		},
		{
			name:    "AbsolutePath",
			runtime: "python",
			files:   map[string]string{"/etc/cron.d/evil": "x"},
			wantErr: ErrUnsafePath,
		},
		{
			name:    "EmptyName",
			runtime: "python",
			files:   map[string]string{"": "x"},
			wantErr: ErrUnsafePath,
		},
		{
			name:    "TooManyFiles",
			cfg:     config.WorkspaceConfig{MaxFiles: 1},
			runtime: "python",
			files:   map[string]string{"a": "x", "b": "y"},
			wantErr: ErrTooManyFiles,
		},
		{
			name:    "FileTooLarge",
			cfg:     config.WorkspaceConfig{MaxFileSize: 4},
			runtime: "python",
			files:   map[string]string{"a": "way too big"},
			wantErr: ErrFileTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := shellRunner(t, tt.cfg)
			_, err := r.Evaluate(context.Background(), tt.runtime, tt.files)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestEvaluateNoFiles(t *testing.T) {
	r := shellRunner(t, config.WorkspaceConfig{})
	if _, err := r.Evaluate(context.Background(), "python", nil); err == nil {
		t.Fatalf("expected error for empty file set")
	}
}

func TestDefaultPythonRunner(t *testing.T) {
	r := NewRunner(config.WorkspaceConfig{}, nil)
	argv, ok := r.runners["python"]
	if !ok {
		t.Fatalf("python runner missing")
	}
	if argv[0] != "python3" {
		t.Fatalf("unexpected python command: %v", argv)
	}
}
