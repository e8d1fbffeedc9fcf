package system

import (
	"bytes"
	"context"
	stderrors "errors"
	"os/exec"
	"time"

	shellquote "github.com/kballard/go-shellquote"

	"github.com/firefly-engineering/projrouter/internal/errors"
	"github.com/firefly-engineering/projrouter/internal/logging"
)

// osExecutor implements CommandExecutor using real OS operations.
type osExecutor struct{}

func (e *osExecutor) Run(ctx context.Context, name string, args ...string) (*Result, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := &Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}

	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
	} else if err != nil {
		res.ExitCode = -1
	}
	return res, err
}

// CommandLine renders a command as a copy-pasteable shell line.
func CommandLine(name string, args ...string) string {
	return shellquote.Join(append([]string{name}, args...)...)
}

// RunChecked runs a command bounded by timeout. Any failure, including a
// non-zero exit, becomes an ExternalCommandFailed error that carries the
// captured stdout and stderr.
func RunChecked(ctx context.Context, ex CommandExecutor, timeout time.Duration, name string, args ...string) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	line := CommandLine(name, args...)
	logging.Debug("running command", "cmd", line)

	res, err := ex.Run(ctx, name, args...)
	if res == nil {
		res = &Result{}
	}
	if err != nil {
		logging.Debug("command failed", "cmd", line, "exit", res.ExitCode, "error", err)
		return res, errors.CommandFailed(line, string(res.Stdout), string(res.Stderr), err)
	}
	return res, nil
}
