package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/securelayer/sbom-analyzer/pkg/osv"
	"github.com/securelayer/sbom-analyzer/pkg/sbom"
	"github.com/securelayer/sbom-analyzer/pkg/tool"
)

type Scanner struct {
	mock.Mock
}

func NewScanner() *Scanner {
	return &Scanner{}
}

func (m *Scanner) Scan(ctx context.Context, doc sbom.Document, paths tool.Paths) (osv.Report, error) {
	args := m.Called(ctx, doc, paths)
	return args.Get(0).(osv.Report), args.Error(1)
}
