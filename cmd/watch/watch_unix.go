//go:build !windows

package watch

import (
	"os/exec"
	"syscall"
)

// shellCommand hands cmdline to sh in a new process group, so the
// whole group can be signalled at once.
func shellCommand(cmdline string) *exec.Cmd {
	c := exec.Command("sh", "-c", cmdline)
	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	return c
}

// Kill signals the whole process group, falling back to just the
// process when the group is already gone.
func (p *shellRunner) Kill() error {
	if p.cmd.Process == nil {
		return nil
	}
	if err := syscall.Kill(-p.cmd.Process.Pid, syscall.SIGKILL); err != nil {
		return p.cmd.Process.Kill()
	}
	return nil
}
