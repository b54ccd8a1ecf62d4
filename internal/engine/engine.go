package engine

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Candidate binaries, probed in order when no engine is configured.
var candidates = []string{"docker", "podman", "nerdctl"}

// ErrNoEngine indicates no container CLI could be found on PATH.
var ErrNoEngine = errors.New("no container engine found on PATH (need docker, podman, or nerdctl)")

// ExitError reports a child engine process that exited nonzero. The launcher
// propagates Code as its own exit status.
type ExitError struct {
	Cmd  string
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Cmd, e.Code)
}

// Engine shells out to a container CLI such as docker or podman. Child
// processes inherit the launcher's stdio so build and test output stream
// straight to the terminal.
type Engine struct {
	Binary string
	DryRun bool
	Stdout io.Writer
	Stderr io.Writer
}

// New returns an Engine for a known binary.
func New(binary string) *Engine {
	return &Engine{Binary: binary}
}

// Detect resolves the engine binary: the override when given, otherwise the
// first candidate present on PATH.
func Detect(override string) (*Engine, error) {
	if override != "" {
		path, err := exec.LookPath(override)
		if err != nil {
			return nil, fmt.Errorf("engine %s not found on PATH", override)
		}
		return New(path), nil
	}
	for _, name := range candidates {
		if path, err := exec.LookPath(name); err == nil {
			return New(path), nil
		}
	}
	return nil, ErrNoEngine
}

// Build runs the image-build step. A nonzero status from the engine is fatal
// to the caller; there is no retry.
func (e *Engine) Build(spec BuildSpec) error {
	return e.invoke(BuildArgs(spec))
}

// Run launches the ephemeral test container. The test's own pass/fail signal
// arrives as the exit status, so a nonzero status here may mean either a
// detected leak or an infrastructure failure; the launcher does not
// distinguish the two.
func (e *Engine) Run(spec RunSpec) error {
	return e.invoke(RunArgs(spec))
}

func (e *Engine) invoke(args []string) error {
	stdout := e.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := e.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	display := fmt.Sprintf("%s %s", e.Binary, quoteArgs(args))
	if e.DryRun {
		fmt.Fprintf(stdout, "[dry-run] %s\n", display)
		return nil
	}

	cmd := exec.Command(e.Binary, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.Stdin = os.Stdin
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
			return &ExitError{Cmd: display, Code: exitErr.ExitCode()}
		}
		return fmt.Errorf("run %s: %w", display, err)
	}
	return nil
}
