package mock

import (
	"github.com/stretchr/testify/mock"

	"github.com/securelayer/sbom-analyzer/pkg/analysis"
	"github.com/securelayer/sbom-analyzer/pkg/osv"
	"github.com/securelayer/sbom-analyzer/pkg/sbom"
)

type Transformer struct {
	mock.Mock
}

func NewTransformer() *Transformer {
	return &Transformer{}
}

func (m *Transformer) Transform(doc sbom.Document, report osv.Report) (analysis.Report, analysis.Summary) {
	args := m.Called(doc, report)
	return args.Get(0).(analysis.Report), args.Get(1).(analysis.Summary)
}
