// Package exeinfo locates executables and answers capability
// questions about them, like whether a command is a GUI program.
package exeinfo

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// defaultSearchPath mirrors the historic unix locations searched when
// PATH is not set at all.
const defaultSearchPath = "/bin:/usr/bin:/usr/local/bin"

// ExecutableExists checks if the command exists in the search path.
func ExecutableExists(command string) bool {
	_, err := Resolve(command)
	return err == nil
}

// Resolve finds the absolute path of a command. Commands containing a
// path separator are checked directly, everything else is looked up in
// PATH or, when PATH is unset, in the default search path.
func Resolve(command string) (string, error) {
	if strings.ContainsRune(command, os.PathSeparator) {
		if _, err := os.Stat(command); err != nil {
			return "", err
		}
		return filepath.Abs(command)
	}

	if os.Getenv("PATH") != "" {
		return exec.LookPath(command)
	}

	for _, dir := range filepath.SplitList(defaultSearchPath) {
		candidate := filepath.Join(dir, command)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	return "", &exec.Error{Name: command, Err: exec.ErrNotFound}
}
