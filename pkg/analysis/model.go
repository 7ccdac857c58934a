package analysis

import (
	"bytes"
	"encoding/json"
	"time"
)

// Severity represents the highest vulnerability severity of a correlated package.
type Severity int64

const (
	_ Severity = iota
	// SevNone means no vulnerability record matched the package. Rendered as "N/A".
	SevNone
	SevUnknown
	SevLow
	SevMedium
	SevHigh
	SevCritical
)

func (s Severity) String() string {
	return severityToString[s]
}

var severityToString = map[Severity]string{
	SevNone:     "N/A",
	SevUnknown:  "Unknown",
	SevLow:      "Low",
	SevMedium:   "Medium",
	SevHigh:     "High",
	SevCritical: "Critical",
}

var stringToSeverity = map[string]Severity{
	"N/A":      SevNone,
	"Unknown":  SevUnknown,
	"Low":      SevLow,
	"Medium":   SevMedium,
	"High":     SevHigh,
	"Critical": SevCritical,
}

// MarshalJSON marshals the Severity enum value as a quoted JSON string.
func (s Severity) MarshalJSON() ([]byte, error) {
	buffer := bytes.NewBufferString(`"`)
	buffer.WriteString(severityToString[s])
	buffer.WriteString(`"`)
	return buffer.Bytes(), nil
}

// UnmarshalJSON unmarshals quoted JSON string to the Severity enum value.
func (s *Severity) UnmarshalJSON(b []byte) error {
	var value string
	if err := json.Unmarshal(b, &value); err != nil {
		return err
	}
	*s = stringToSeverity[value]
	return nil
}

// LicenseRisk is the compliance risk tier assigned to a declared license.
type LicenseRisk int64

const (
	_ LicenseRisk = iota
	RiskLow
	RiskMedium
	RiskHigh
	// RiskNeedsReview flags components with no usable license data at all.
	RiskNeedsReview
)

func (r LicenseRisk) String() string {
	return licenseRiskToString[r]
}

var licenseRiskToString = map[LicenseRisk]string{
	RiskLow:         "Low",
	RiskMedium:      "Medium",
	RiskHigh:        "High",
	RiskNeedsReview: "NeedsReview",
}

var stringToLicenseRisk = map[string]LicenseRisk{
	"Low":         RiskLow,
	"Medium":      RiskMedium,
	"High":        RiskHigh,
	"NeedsReview": RiskNeedsReview,
}

// MarshalJSON marshals the LicenseRisk enum value as a quoted JSON string.
func (r LicenseRisk) MarshalJSON() ([]byte, error) {
	buffer := bytes.NewBufferString(`"`)
	buffer.WriteString(licenseRiskToString[r])
	buffer.WriteString(`"`)
	return buffer.Bytes(), nil
}

// UnmarshalJSON unmarshals quoted JSON string to the LicenseRisk enum value.
func (r *LicenseRisk) UnmarshalJSON(b []byte) error {
	var value string
	if err := json.Unmarshal(b, &value); err != nil {
		return err
	}
	*r = stringToLicenseRisk[value]
	return nil
}

// Row is one report row: an inventoried dependency correlated with its vulnerability
// records and license risk tier.
type Row struct {
	Package         string      `json:"package"`
	Version         string      `json:"version"`
	License         string      `json:"license"`
	LicenseRisk     LicenseRisk `json:"license_risk"`
	Vulnerabilities int         `json:"vulnerabilities"`
	HighestSeverity Severity    `json:"highest_severity"`
}

// Report is the consolidated analysis output.
type Report struct {
	GeneratedAt time.Time `json:"generated_at"`
	Rows        []Row     `json:"rows"`
}

// Columns returns the declared report column headers, present even when a failed
// analysis yields zero rows.
func Columns() []string {
	return []string{"Package", "Version", "License", "License Risk", "Vulnerabilities", "Highest Severity"}
}

// Summary aggregates the report. Error is populated only when the pipeline terminated
// abnormally, in which case the report carries zero rows.
type Summary struct {
	TotalPackages        int    `json:"total_packages"`
	VulnerabilitiesFound int    `json:"vulnerabilities_found"`
	LicenseRisks         int    `json:"license_risks"`
	Error                string `json:"error,omitempty"`
}
