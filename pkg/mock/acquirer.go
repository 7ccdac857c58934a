package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/securelayer/sbom-analyzer/pkg/source"
	"github.com/securelayer/sbom-analyzer/pkg/tool"
)

type Acquirer struct {
	mock.Mock
}

func NewAcquirer() *Acquirer {
	return &Acquirer{}
}

func (m *Acquirer) Classify(input string) (source.Target, error) {
	args := m.Called(input)
	return args.Get(0).(source.Target), args.Error(1)
}

func (m *Acquirer) Acquire(ctx context.Context, target source.Target, paths tool.Paths) (string, func(), error) {
	args := m.Called(ctx, target, paths)
	var release func()
	if args.Get(1) != nil {
		release = args.Get(1).(func())
	}
	return args.String(0), release, args.Error(2)
}
