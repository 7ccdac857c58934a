package sbom

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/securelayer/sbom-analyzer/pkg/etc"
	"github.com/securelayer/sbom-analyzer/pkg/ext"
	"github.com/securelayer/sbom-analyzer/pkg/tool"
)

var testConfig = etc.Analyzer{
	GitExecutable:  "git",
	SBOMExecutable: "syft",
	VulnExecutable: "osv-scanner",
	ToolTimeout:    time.Minute,
}

var testPaths = tool.Paths{
	tool.Git:  "/usr/local/bin/git",
	tool.SBOM: "/usr/local/bin/syft",
	tool.Vuln: "/usr/local/bin/osv-scanner",
}

func TestGeneratorGenerate(t *testing.T) {
	t.Run("Should parse the generated document", func(t *testing.T) {
		outputFile := newTempFile(t)
		require.NoError(t, os.WriteFile(outputFile.Name(), []byte(sampleDocument), 0o600))
		info, err := os.Stat(outputFile.Name())
		require.NoError(t, err)

		ambassador := ext.NewMockAmbassador()
		ambassador.On("TempFile", "", "sbom-*.json").Return(outputFile, nil)
		ambassador.On("Environ").Return([]string{})
		ambassador.On("RunCmd", mock.Anything).Return(0, nil)
		ambassador.On("Stat", outputFile.Name()).Return(info, nil)
		ambassador.On("Remove", outputFile.Name()).Return(nil)

		generator := NewGenerator(testConfig, ambassador, NewFallbackBuilder())

		doc, err := generator.Generate(context.Background(), t.TempDir(), testPaths)
		require.NoError(t, err)
		require.Len(t, doc.Components, 2)
		assert.Equal(t, "flask", doc.Components[0].Name)

		ambassador.AssertExpectations(t)
		assert.ErrorIs(t, outputFile.Close(), os.ErrClosed)
	})

	t.Run("Should fall back to manifest scan when the generator exits non-zero", func(t *testing.T) {
		sourceDir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(sourceDir, "requirements.txt"), []byte("django==4.1.7"), 0o600))

		outputFile := newTempFile(t)

		ambassador := ext.NewMockAmbassador()
		ambassador.On("TempFile", "", "sbom-*.json").Return(outputFile, nil)
		ambassador.On("Environ").Return([]string{})
		ambassador.On("RunCmd", mock.Anything).Return(2, nil)
		ambassador.On("Remove", outputFile.Name()).Return(nil)

		generator := NewGenerator(testConfig, ambassador, NewFallbackBuilder())

		doc, err := generator.Generate(context.Background(), sourceDir, testPaths)
		require.NoError(t, err)
		require.Len(t, doc.Components, 1)
		assert.Equal(t, "django", doc.Components[0].Name)
		assert.Equal(t, "4.1.7", doc.Components[0].Version)

		ambassador.AssertExpectations(t)
		ambassador.AssertNotCalled(t, "Stat", mock.Anything)
	})

	t.Run("Should fall back to manifest scan when the output file is empty", func(t *testing.T) {
		outputFile := newTempFile(t)
		info, err := os.Stat(outputFile.Name())
		require.NoError(t, err)

		ambassador := ext.NewMockAmbassador()
		ambassador.On("TempFile", "", "sbom-*.json").Return(outputFile, nil)
		ambassador.On("Environ").Return([]string{})
		ambassador.On("RunCmd", mock.Anything).Return(0, nil)
		ambassador.On("Stat", outputFile.Name()).Return(info, nil)
		ambassador.On("Remove", outputFile.Name()).Return(nil)

		generator := NewGenerator(testConfig, ambassador, NewFallbackBuilder())

		doc, err := generator.Generate(context.Background(), t.TempDir(), testPaths)
		require.NoError(t, err)
		assert.Empty(t, doc.Components)
	})

	t.Run("Should degrade to an empty document when the output is malformed", func(t *testing.T) {
		outputFile := newTempFile(t)
		require.NoError(t, os.WriteFile(outputFile.Name(), []byte("not json"), 0o600))
		info, err := os.Stat(outputFile.Name())
		require.NoError(t, err)

		ambassador := ext.NewMockAmbassador()
		ambassador.On("TempFile", "", "sbom-*.json").Return(outputFile, nil)
		ambassador.On("Environ").Return([]string{})
		ambassador.On("RunCmd", mock.Anything).Return(0, nil)
		ambassador.On("Stat", outputFile.Name()).Return(info, nil)
		ambassador.On("Remove", outputFile.Name()).Return(nil)

		generator := NewGenerator(testConfig, ambassador, NewFallbackBuilder())

		doc, err := generator.Generate(context.Background(), t.TempDir(), testPaths)
		require.NoError(t, err)
		assert.Empty(t, doc.Components)
	})
}

func newTempFile(t *testing.T) *os.File {
	t.Helper()
	file, err := os.Create(filepath.Join(t.TempDir(), "sbom.json"))
	require.NoError(t, err)
	t.Cleanup(func() {
		file.Close()
	})
	return file
}
