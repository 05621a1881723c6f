package installer

import (
	"context"
	"fmt"
	"strings"

	"github.com/gopak/plugpak/internal/executil"
	"github.com/gopak/plugpak/internal/logging"
)

// Runner executes a package's build step.
type Runner interface {
	Run(ctx context.Context, name, step, dir, command string) error
}

// ShellRunner runs steps through bash and mirrors their output to the debug log.
type ShellRunner struct{}

func (ShellRunner) Run(ctx context.Context, name, step, dir, command string) error {
	logging.Debug("run step", "package", name, "step", step, "cmd", command)
	res := executil.RunShell(ctx, dir, command)
	if out := strings.TrimSpace(res.Stdout); out != "" {
		logging.Debug(out, "package", name, "step", step)
	}
	if res.Code != 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		return fmt.Errorf("command failed for %s [%s]: exit %d\n%s", name, step, res.Code, strings.TrimSpace(res.Stderr))
	}
	return nil
}

// expandCommand fills the {project}, {name} and {dir} placeholders of a build command.
func expandCommand(command, name, dir, project string) string {
	r := strings.NewReplacer(
		"{project}", executil.Quote(project),
		"{name}", executil.Quote(name),
		"{dir}", executil.Quote(dir),
	)
	return r.Replace(command)
}
