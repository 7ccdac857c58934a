package mock

import (
	"github.com/stretchr/testify/mock"

	"github.com/securelayer/sbom-analyzer/pkg/tool"
)

type Locator struct {
	mock.Mock
}

func NewLocator() *Locator {
	return &Locator{}
}

func (m *Locator) Locate() (tool.Paths, error) {
	args := m.Called()
	var paths tool.Paths
	if args.Get(0) != nil {
		paths = args.Get(0).(tool.Paths)
	}
	return paths, args.Error(1)
}
