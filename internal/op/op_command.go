package op

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/abcxyz/pkg/logging"
)

// CommandRunner abstracts process spawning so tests can fake it, the same
// way the teacher abstracts getter.Client and AbstractFS for testability.
type CommandRunner interface {
	Run(ctx context.Context, line string, env []string, dir string) error
}

// ExecRunner runs commands through os/exec via the user's shell.
type ExecRunner struct {
	Shell string // defaults to "/bin/sh" if empty
}

func (r ExecRunner) Run(ctx context.Context, line string, env []string, dir string) error {
	shell := r.Shell
	if shell == "" {
		shell = "/bin/sh"
	}
	cmd := exec.CommandContext(ctx, shell, "-c", line)
	cmd.Dir = dir
	cmd.Env = env
	out, err := cmd.CombinedOutput()
	if err != nil {
		return &OpError{Kind: KindCommand, Path: dir, Err: fmt.Errorf("%w: %s", err, out)}
	}
	return nil
}

// finishCommand spawns a shell command. Per spec.md §7, Command ops have no
// automatic inverse: a failure aborts the action and rolls back everything
// that preceded it in the same transaction, but nothing compensates a
// side-effect the command already performed externally.
func finishCommand(ctx context.Context, c *FinishCtx, o Op) (Finished, error) {
	logger := logging.FromContext(ctx).With("logger", "op.Command")
	runner := c.Runner
	if runner == nil {
		runner = ExecRunner{}
	}
	logger.DebugContext(ctx, "running command", "line", o.CommandLine, "dir", o.CommandDir)
	if err := runner.Run(ctx, o.CommandLine, o.CommandEnv, o.CommandDir); err != nil {
		return Finished{}, err
	}
	return Finished{kind: KindCommand}, nil
}
