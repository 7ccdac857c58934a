package osv

import (
	"encoding/json"
	"io"
	"strings"

	"golang.org/x/xerrors"
)

// Report is the subset of the osv-scanner JSON output the pipeline consumes. Every
// optional field decodes to its zero value; call sites never probe raw maps.
type Report struct {
	Results []Result `json:"results"`
}

type Result struct {
	Packages []PackageVulns `json:"packages"`
}

type PackageVulns struct {
	Package         Package         `json:"package"`
	Vulnerabilities []Vulnerability `json:"vulnerabilities"`
}

type Package struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Ecosystem string `json:"ecosystem"`
}

type Vulnerability struct {
	ID               string           `json:"id"`
	Severity         string           `json:"severity"`
	DatabaseSpecific DatabaseSpecific `json:"database_specific"`
	CVSSV3           CVSSV3           `json:"cvss_v3"`
}

type DatabaseSpecific struct {
	Severity string `json:"severity"`
}

type CVSSV3 struct {
	Severity string `json:"severity"`
}

// SeverityLabel resolves the severity of the record by checking the database-specific
// field, then the generic field, then the CVSS-derived field, defaulting to UNKNOWN.
// The label is uppercased for comparison.
func (v Vulnerability) SeverityLabel() string {
	for _, severity := range []string{v.DatabaseSpecific.Severity, v.Severity, v.CVSSV3.Severity} {
		if severity != "" {
			return strings.ToUpper(severity)
		}
	}
	return "UNKNOWN"
}

// Empty returns a well-formed report with zero results.
func Empty() Report {
	return Report{Results: []Result{}}
}

// ReportFrom decodes an osv-scanner JSON report from the given reader.
func ReportFrom(reader io.Reader) (report Report, err error) {
	if err = json.NewDecoder(reader).Decode(&report); err != nil {
		return report, xerrors.Errorf("decoding vulnerability report: %v", err)
	}
	if report.Results == nil {
		report.Results = []Result{}
	}
	return report, nil
}
