package analysis

import "strings"

// Keyword sets matched against the lowercased license name, in this order. The first
// matching keyword wins; no SPDX-expression parsing is attempted.
var (
	highRiskLicenses   = []string{"gpl", "agpl", "lgpl", "mpl", "eupl", "osl", "afl"}
	mediumRiskLicenses = []string{"apache", "eclipse", "cddl", "artistic"}
	lowRiskLicenses    = []string{"mit", "bsd", "isc", "unlicense", "cc0", "wtfpl", "zlib", "x11"}
)

// ClassifyLicense maps a declared license name to a risk tier. Copyleft families are
// high risk, weak-copyleft/file-level families medium, permissive families low. An
// empty or "unknown" name needs review, and any unrecognized license defaults to
// medium rather than low.
func ClassifyLicense(name string) LicenseRisk {
	lower := strings.ToLower(name)

	if lower == "" {
		return RiskNeedsReview
	}

	for _, keyword := range highRiskLicenses {
		if strings.Contains(lower, keyword) {
			return RiskHigh
		}
	}

	for _, keyword := range mediumRiskLicenses {
		if strings.Contains(lower, keyword) {
			return RiskMedium
		}
	}

	for _, keyword := range lowRiskLicenses {
		if strings.Contains(lower, keyword) {
			return RiskLow
		}
	}

	if strings.Contains(lower, "unknown") {
		return RiskNeedsReview
	}

	return RiskMedium
}
