package pipeline

import (
	"context"

	log "github.com/sirupsen/logrus"
	"golang.org/x/xerrors"

	"github.com/securelayer/sbom-analyzer/pkg/analysis"
	"github.com/securelayer/sbom-analyzer/pkg/osv"
	"github.com/securelayer/sbom-analyzer/pkg/sbom"
	"github.com/securelayer/sbom-analyzer/pkg/source"
	"github.com/securelayer/sbom-analyzer/pkg/tool"
)

// Controller sequences the analysis stages: locate tools, acquire the source tree,
// generate the SBOM, scan it, and correlate the results. Missing tools and unusable
// targets are fatal; SBOM generation and vulnerability scanning degrade instead. The
// acquisition workspace is released on every exit path, panics included.
type Controller interface {
	Analyze(ctx context.Context, target string) (analysis.Report, analysis.Summary)
}

type controller struct {
	locator     tool.Locator
	acquirer    source.Acquirer
	generator   sbom.Generator
	scanner     osv.Scanner
	transformer analysis.Transformer
	clock       analysis.Clock
}

func NewController(
	locator tool.Locator,
	acquirer source.Acquirer,
	generator sbom.Generator,
	scanner osv.Scanner,
	transformer analysis.Transformer,
	clock analysis.Clock,
) Controller {
	return &controller{
		locator:     locator,
		acquirer:    acquirer,
		generator:   generator,
		scanner:     scanner,
		transformer: transformer,
		clock:       clock,
	}
}

func (c *controller) Analyze(ctx context.Context, target string) (analysis.Report, analysis.Summary) {
	report, summary, err := c.analyze(ctx, target)
	if err != nil {
		log.WithError(err).Error("Analysis failed")
		return analysis.Report{
				GeneratedAt: c.clock.Now(),
				Rows:        []analysis.Row{},
			}, analysis.Summary{
				Error: err.Error(),
			}
	}
	return report, summary
}

func (c *controller) analyze(ctx context.Context, target string) (report analysis.Report, summary analysis.Summary, err error) {
	defer func() {
		if r := recover(); r != nil {
			var ok bool
			if err, ok = r.(error); !ok {
				err = xerrors.Errorf("unexpected fault: %v", r)
			}
		}
	}()

	log.WithField("target", target).Info("Starting analysis")

	paths, err := c.locator.Locate()
	if err != nil {
		return report, summary, err
	}

	classified, err := c.acquirer.Classify(target)
	if err != nil {
		return report, summary, err
	}

	sourceDir, release, err := c.acquirer.Acquire(ctx, classified, paths)
	if err != nil {
		return report, summary, err
	}
	defer release()

	doc, err := c.generator.Generate(ctx, sourceDir, paths)
	if err != nil {
		log.WithError(err).Error("SBOM generation failed, continuing with empty SBOM")
		doc = sbom.Empty()
	}

	vulnReport, err := c.scanner.Scan(ctx, doc, paths)
	if err != nil {
		log.WithError(err).Error("Vulnerability scan failed, continuing with empty report")
		vulnReport = osv.Empty()
	}

	report, summary = c.transformer.Transform(doc, vulnReport)

	log.WithFields(log.Fields{
		"total_packages":        summary.TotalPackages,
		"vulnerabilities_found": summary.VulnerabilitiesFound,
		"license_risks":         summary.LicenseRisks,
	}).Info("Analysis finished")

	return report, summary, nil
}
