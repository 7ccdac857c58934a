package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/securelayer/sbom-analyzer/pkg/analysis"
)

type Controller struct {
	mock.Mock
}

func NewController() *Controller {
	return &Controller{}
}

func (m *Controller) Analyze(ctx context.Context, target string) (analysis.Report, analysis.Summary) {
	args := m.Called(ctx, target)
	return args.Get(0).(analysis.Report), args.Get(1).(analysis.Summary)
}
