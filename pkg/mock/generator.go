package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/securelayer/sbom-analyzer/pkg/sbom"
	"github.com/securelayer/sbom-analyzer/pkg/tool"
)

type Generator struct {
	mock.Mock
}

func NewGenerator() *Generator {
	return &Generator{}
}

func (m *Generator) Generate(ctx context.Context, sourceDir string, paths tool.Paths) (sbom.Document, error) {
	args := m.Called(ctx, sourceDir, paths)
	return args.Get(0).(sbom.Document), args.Error(1)
}
