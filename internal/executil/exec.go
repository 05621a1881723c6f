package executil

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
)

type Result struct {
	Stdout string
	Stderr string
	Code   int
}

// RunShell runs command with bash -ceu inside dir. A command that could not
// be started reports exit code 1 and the start error on Stderr.
func RunShell(ctx context.Context, dir, command string) Result {
	cmd := exec.CommandContext(ctx, "bash", "-ceu", command)
	cmd.Dir = dir
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb
	err := cmd.Run()
	code := 0
	if err != nil {
		var e *exec.ExitError
		if errors.As(err, &e) && e.ExitCode() >= 0 {
			code = e.ExitCode()
		} else {
			code = 1
			if errb.Len() == 0 {
				errb.WriteString(err.Error())
			}
		}
	}
	return Result{Stdout: out.String(), Stderr: errb.String(), Code: code}
}

// Quote wraps s in single quotes for bash.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}
