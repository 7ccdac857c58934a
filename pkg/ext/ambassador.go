package ext

import (
	"errors"
	"os"
	"os/exec"
)

var DefaultAmbassador = &ambassador{}

// Ambassador is the ambassador to the outside "world". Wraps methods that touch global
// state (process environment, PATH lookups, temp files, child processes) and hence make
// the code that uses them very hard to test.
type Ambassador interface {
	Environ() []string
	LookPath(string) (string, error)
	TempDir(string, string) (string, error)
	TempFile(string, string) (*os.File, error)
	Remove(string) error
	RemoveAll(string) error
	Stat(string) (os.FileInfo, error)
	RunCmd(cmd *exec.Cmd) (exitCode int, err error)
}

type ambassador struct {
}

func (a *ambassador) Environ() []string {
	return os.Environ()
}

// RunCmd runs the given command and waits for it to complete. A non-zero exit status is
// part of the normal contract of the wrapped tools, so it is reported through exitCode
// rather than err; err is reserved for invocation failures (executable missing, I/O
// errors, killed by the context).
func (a *ambassador) RunCmd(cmd *exec.Cmd) (int, error) {
	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	if err != nil {
		return -1, err
	}
	return 0, nil
}

func (a *ambassador) TempDir(dir, pattern string) (string, error) {
	return os.MkdirTemp(dir, pattern)
}

func (a *ambassador) TempFile(dir, pattern string) (*os.File, error) {
	return os.CreateTemp(dir, pattern)
}

func (a *ambassador) Remove(name string) error {
	return os.Remove(name)
}

func (a *ambassador) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

func (a *ambassador) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

func (a *ambassador) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}
