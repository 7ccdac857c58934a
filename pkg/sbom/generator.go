package sbom

import (
	"bytes"
	"context"
	"os/exec"

	log "github.com/sirupsen/logrus"
	"golang.org/x/xerrors"

	"github.com/securelayer/sbom-analyzer/pkg/etc"
	"github.com/securelayer/sbom-analyzer/pkg/ext"
	"github.com/securelayer/sbom-analyzer/pkg/tool"
)

// Generator produces a CycloneDX document for a source tree. A failed invocation of the
// external generator is a degraded mode, not an error: the fallback builder takes over
// and the pipeline continues with whatever it can derive from manifest files.
type Generator interface {
	Generate(ctx context.Context, sourceDir string, paths tool.Paths) (Document, error)
}

type generator struct {
	config     etc.Analyzer
	ambassador ext.Ambassador
	fallback   *FallbackBuilder
}

func NewGenerator(config etc.Analyzer, ambassador ext.Ambassador, fallback *FallbackBuilder) Generator {
	return &generator{
		config:     config,
		ambassador: ambassador,
		fallback:   fallback,
	}
}

func (g *generator) Generate(ctx context.Context, sourceDir string, paths tool.Paths) (Document, error) {
	outputFile, err := g.ambassador.TempFile("", "sbom-*.json")
	if err != nil {
		return Document{}, xerrors.Errorf("creating sbom output file: %v", err)
	}
	defer func() {
		if err := outputFile.Close(); err != nil {
			log.WithError(err).Warn("Error while closing sbom output file")
		}
		if err := g.ambassador.Remove(outputFile.Name()); err != nil {
			log.WithError(err).Warn("Error while removing sbom output file")
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, g.config.ToolTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, paths[tool.SBOM],
		"packages",
		"dir:"+sourceDir,
		"-o",
		"cyclonedx-json="+outputFile.Name(),
	)
	cmd.Env = g.ambassador.Environ()

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	log.WithField("dir", sourceDir).Info("Generating SBOM")

	exitCode, err := g.ambassador.RunCmd(cmd)
	if err != nil || exitCode != 0 {
		log.WithFields(log.Fields{
			"exit_code": exitCode,
			"stderr":    stderr.String(),
		}).Warn("SBOM generator failed, falling back to manifest scan")
		return g.fallback.Build(sourceDir)
	}

	info, err := g.ambassador.Stat(outputFile.Name())
	if err != nil || info.Size() == 0 {
		log.Warn("SBOM generator produced no output, falling back to manifest scan")
		return g.fallback.Build(sourceDir)
	}

	doc, err := DocumentFrom(outputFile)
	if err != nil {
		log.WithError(err).Error("Malformed SBOM document")
		return Empty(), nil
	}

	log.WithField("components", len(doc.Components)).Info("Generated SBOM")
	return doc, nil
}
