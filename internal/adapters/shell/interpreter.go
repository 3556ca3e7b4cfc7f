// Package shell provides the interpreter adapter over os/exec.
package shell

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.trai.ch/depgate/internal/core/domain"
	"go.trai.ch/depgate/internal/core/ports"
	"go.trai.ch/zerr"
)

// scriptFlag passes the inline script to the interpreter.
const scriptFlag = "-c"

// Interpreter implements ports.Interpreter using os/exec.
type Interpreter struct {
	logger ports.Logger
}

// NewInterpreter creates a new shell Interpreter.
func NewInterpreter(logger ports.Logger) *Interpreter {
	return &Interpreter{
		logger: logger,
	}
}

// Run executes the interpreter with the invocation's inline script and waits
// for it to complete. Output is captured for the caller and also streamed
// line-buffered to the logger; when the context carries a telemetry vertex,
// output is mirrored to its streams as well.
//
// The environment is the system environment with the invocation's overrides
// applied on top. A non-zero exit status is reported through the returned
// Execution; the error return is reserved for failures to start the
// interpreter at all.
func (i *Interpreter) Run(ctx context.Context, inv domain.Invocation) (domain.Execution, error) {
	cmdEnv := resolveEnvironment(os.Environ(), inv.Environment)

	// Resolve a non-absolute interpreter against the merged environment's PATH.
	executable := inv.Interpreter
	if !filepath.IsAbs(executable) {
		if lp, err := lookPath(executable, cmdEnv); err == nil {
			executable = lp
		}
	}

	cmd := exec.CommandContext(ctx, executable, scriptFlag, inv.Script) //nolint:gosec // interpreter is user configured

	// Restore the configured interpreter name in Args[0].
	// exec.CommandContext sets Args[0] to the resolved executable path.
	if len(cmd.Args) > 0 {
		cmd.Args[0] = inv.Interpreter
	}

	if inv.WorkingDir != "" {
		cmd.Dir = inv.WorkingDir
	}

	cmd.Env = cmdEnv

	var stdout, stderr bytes.Buffer
	stdoutLog := &logWriter{logger: i.logger, level: "info"}
	stderrLog := &logWriter{logger: i.logger, level: "error"}

	finalStdout := io.MultiWriter(&stdout, stdoutLog)
	finalStderr := io.MultiWriter(&stderr, stderrLog)
	if vertex, ok := ports.VertexFromContext(ctx); ok {
		finalStdout = io.MultiWriter(&stdout, stdoutLog, vertex.Stdout())
		finalStderr = io.MultiWriter(&stderr, stderrLog, vertex.Stderr())
	}
	cmd.Stdout = finalStdout
	cmd.Stderr = finalStderr

	err := cmd.Run()

	// Flush any trailing unterminated line to the logger.
	_ = stdoutLog.Close()
	_ = stderrLog.Close()

	res := domain.Execution{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		// The interpreter could not be started at all.
		res.ExitCode = -1
		return res, zerr.With(zerr.Wrap(err, "failed to run interpreter"), "interpreter", inv.Interpreter)
	}

	return res, nil
}

type logWriter struct {
	logger ports.Logger
	level  string
	buf    []byte
}

func (w *logWriter) Write(p []byte) (n int, err error) {
	w.buf = append(w.buf, p...)

	// Scan for newlines
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}

		line := w.buf[:i]
		w.logLine(line)

		// Advance buffer
		w.buf = w.buf[i+1:]
	}

	return len(p), nil
}

func (w *logWriter) Close() error {
	if len(w.buf) > 0 {
		w.logLine(w.buf)
		w.buf = nil
	}
	return nil
}

func (w *logWriter) logLine(line []byte) {
	msg := strings.TrimSuffix(string(line), "\r")

	if w.level == "info" {
		w.logger.Info(msg)
	} else {
		w.logger.Error(zerr.New(msg))
	}
}

// resolveEnvironment merges the invocation's overrides over the system
// environment.
func resolveEnvironment(sysEnv []string, overrides map[string]string) []string {
	envMap := make(map[string]string, len(sysEnv))
	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if ok {
			envMap[k] = v
		}
	}

	for k, v := range overrides {
		envMap[k] = v
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	return result
}

// lookPath searches for an executable in the directories named by the PATH environment variable.
func lookPath(file string, env []string) (string, error) {
	// Find PATH in env
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		path := filepath.Join(dir, file)
		if err := findExecutable(path); err == nil {
			return path, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
