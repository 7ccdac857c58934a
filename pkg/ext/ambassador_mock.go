package ext

import (
	"os"
	"os/exec"

	"github.com/stretchr/testify/mock"
)

type MockAmbassador struct {
	mock.Mock
}

func NewMockAmbassador() *MockAmbassador {
	return &MockAmbassador{}
}

func (m *MockAmbassador) Environ() []string {
	args := m.Called()
	return args.Get(0).([]string)
}

func (m *MockAmbassador) LookPath(file string) (string, error) {
	args := m.Called(file)
	return args.String(0), args.Error(1)
}

func (m *MockAmbassador) TempDir(dir, pattern string) (string, error) {
	args := m.Called(dir, pattern)
	return args.String(0), args.Error(1)
}

func (m *MockAmbassador) TempFile(dir, pattern string) (*os.File, error) {
	args := m.Called(dir, pattern)
	var file *os.File
	if args.Get(0) != nil {
		file = args.Get(0).(*os.File)
	}
	return file, args.Error(1)
}

func (m *MockAmbassador) Remove(name string) error {
	args := m.Called(name)
	return args.Error(0)
}

func (m *MockAmbassador) RemoveAll(path string) error {
	args := m.Called(path)
	return args.Error(0)
}

func (m *MockAmbassador) Stat(name string) (os.FileInfo, error) {
	args := m.Called(name)
	var info os.FileInfo
	if args.Get(0) != nil {
		info = args.Get(0).(os.FileInfo)
	}
	return info, args.Error(1)
}

func (m *MockAmbassador) RunCmd(cmd *exec.Cmd) (int, error) {
	args := m.Called(cmd)
	return args.Int(0), args.Error(1)
}
