package analysis

import (
	"time"

	"github.com/samber/lo"

	"github.com/securelayer/sbom-analyzer/pkg/osv"
	"github.com/securelayer/sbom-analyzer/pkg/sbom"
)

// Clock wraps the Now method. Introduced to allow replacing the global state with fixed
// clocks to facilitate testing.
// Now returns the current time.
type Clock interface {
	Now() time.Time
}

type SystemClock struct {
}

func (c *SystemClock) Now() time.Time {
	return time.Now()
}

// severityPriority is the fixed order used to pick a package's highest severity. The
// first label present among the package's records wins; this is a priority lookup, not
// a numeric max over counts.
var severityPriority = []string{"CRITICAL", "HIGH", "MEDIUM", "LOW", "UNKNOWN"}

var labelToSeverity = map[string]Severity{
	"CRITICAL": SevCritical,
	"HIGH":     SevHigh,
	"MEDIUM":   SevMedium,
	"LOW":      SevLow,
	"UNKNOWN":  SevUnknown,
}

// Transformer wraps the Transform method.
// Transform joins SBOM components with the scanner's vulnerability records by package
// name and classifies each component's license risk. Every component yields exactly one
// report row.
type Transformer interface {
	Transform(doc sbom.Document, report osv.Report) (Report, Summary)
}

type transformer struct {
	clock Clock
}

// NewTransformer constructs a Transformer with the given Clock.
func NewTransformer(clock Clock) Transformer {
	return &transformer{
		clock: clock,
	}
}

func (t *transformer) Transform(doc sbom.Document, report osv.Report) (Report, Summary) {
	vulnsByPackage := make(map[string][]osv.Vulnerability)
	for _, result := range report.Results {
		for _, pkg := range result.Packages {
			if pkg.Package.Name == "" || len(pkg.Vulnerabilities) == 0 {
				continue
			}
			vulnsByPackage[pkg.Package.Name] = append(vulnsByPackage[pkg.Package.Name], pkg.Vulnerabilities...)
		}
	}

	rows := make([]Row, 0, len(doc.Components))
	for _, component := range doc.Components {
		name := component.NameOrUnknown()
		vulns := vulnsByPackage[name]

		rows = append(rows, Row{
			Package:         name,
			Version:         component.VersionOrUnknown(),
			License:         component.LicenseName(),
			LicenseRisk:     ClassifyLicense(component.LicenseName()),
			Vulnerabilities: len(vulns),
			HighestSeverity: t.toHighestSeverity(vulns),
		})
	}

	summary := Summary{
		TotalPackages: len(rows),
		VulnerabilitiesFound: lo.SumBy(rows, func(row Row) int {
			return row.Vulnerabilities
		}),
		LicenseRisks: lo.CountBy(rows, func(row Row) bool {
			return row.LicenseRisk == RiskHigh || row.LicenseRisk == RiskMedium
		}),
	}

	return Report{
		GeneratedAt: t.clock.Now(),
		Rows:        rows,
	}, summary
}

func (t *transformer) toHighestSeverity(vulns []osv.Vulnerability) Severity {
	if len(vulns) == 0 {
		return SevNone
	}

	labels := lo.Map(vulns, func(vuln osv.Vulnerability, _ int) string {
		return vuln.SeverityLabel()
	})

	for _, label := range severityPriority {
		if lo.Contains(labels, label) {
			return labelToSeverity[label]
		}
	}

	// Labels outside the known tiers (e.g. GHSA's "MODERATE") leave the severity at N/A.
	return SevNone
}
