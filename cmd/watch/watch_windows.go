//go:build windows

package watch

import (
	"os/exec"
	"strconv"
	"syscall"
)

// shellCommand hands cmdline to cmd.exe in a new process group.
func shellCommand(cmdline string) *exec.Cmd {
	c := exec.Command("cmd", "/C", cmdline)
	c.SysProcAttr = &syscall.SysProcAttr{CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP}
	return c
}

// Kill takes down the process tree. Go cannot signal a process group
// on Windows, so taskkill /T does the walking.
func (p *shellRunner) Kill() error {
	if p.cmd.Process == nil {
		return nil
	}
	return exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(p.cmd.Process.Pid)).Run()
}
