package process

import (
	"fmt"
	"os/exec"
	"strings"
)

// StartDetached launches an interactive tool that outlives the launcher. The
// child gets no pipes and is never waited on; its PID is returned.
func StartDetached(spec Spec) (int, error) {
	program := strings.TrimSpace(spec.Program)
	if program == "" {
		return 0, fmt.Errorf("%w: program required", ErrStart)
	}
	cmd := exec.Command(program, spec.Args...) //nolint:gosec
	cmd.Dir = spec.Dir
	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrStart, program, err)
	}
	pid := cmd.Process.Pid
	if err := cmd.Process.Release(); err != nil {
		return pid, fmt.Errorf("release %s: %w", program, err)
	}
	return pid, nil
}
