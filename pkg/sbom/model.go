package sbom

import (
	"encoding/json"
	"io"

	"golang.org/x/xerrors"
)

const (
	BOMFormat   = "CycloneDX"
	SpecVersion = "1.4"
)

// Document is the subset of a CycloneDX JSON document the pipeline consumes and
// produces. Fields outside this subset are ignored on decode.
type Document struct {
	BOMFormat   string      `json:"bomFormat"`
	SpecVersion string      `json:"specVersion"`
	Components  []Component `json:"components"`
}

type Component struct {
	Type       string          `json:"type,omitempty"`
	Name       string          `json:"name"`
	Version    string          `json:"version,omitempty"`
	PackageURL string          `json:"purl,omitempty"`
	Licenses   []LicenseChoice `json:"licenses,omitempty"`
}

type LicenseChoice struct {
	License License `json:"license"`
}

type License struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// Empty returns a well-formed document with zero components, used whenever a stage
// degrades rather than aborts.
func Empty() Document {
	return Document{
		BOMFormat:   BOMFormat,
		SpecVersion: SpecVersion,
		Components:  []Component{},
	}
}

// DocumentFrom decodes a CycloneDX JSON document from the given reader.
func DocumentFrom(reader io.Reader) (doc Document, err error) {
	if err = json.NewDecoder(reader).Decode(&doc); err != nil {
		return doc, xerrors.Errorf("decoding sbom document: %v", err)
	}
	if doc.Components == nil {
		doc.Components = []Component{}
	}
	return doc, nil
}

// LicenseName resolves the declared license of the component, preferring the free-form
// name over the SPDX id of the first license entry. Components without license data
// report "Unknown".
func (c Component) LicenseName() string {
	if len(c.Licenses) == 0 {
		return "Unknown"
	}
	license := c.Licenses[0].License
	if license.Name != "" {
		return license.Name
	}
	if license.ID != "" {
		return license.ID
	}
	return "Unknown"
}

// NameOrUnknown returns the component name, or "Unknown" when absent.
func (c Component) NameOrUnknown() string {
	if c.Name == "" {
		return "Unknown"
	}
	return c.Name
}

// VersionOrUnknown returns the component version, or "Unknown" when absent.
func (c Component) VersionOrUnknown() string {
	if c.Version == "" {
		return "Unknown"
	}
	return c.Version
}
