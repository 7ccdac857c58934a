package sbom

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/package-url/packageurl-go"
	log "github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

// manifestFiles are the dependency manifests the fallback builder recognizes, checked
// in this fixed order. All of them are scanned line by line; the Pipfile and
// pyproject.toml formats get no semantic parsing beyond that.
var manifestFiles = []string{
	"requirements.txt",
	"requirements.pip",
	"requirements.in",
	"Pipfile",
	"pyproject.toml",
}

// versionOperators are matched against a requirement line in priority order.
var versionOperators = []string{"==", ">=", "<=", "~="}

// FallbackBuilder derives a minimal SBOM from dependency-manifest files when the
// external generator is unavailable. The resulting components carry no license data;
// the classifier later buckets them as NeedsReview.
type FallbackBuilder struct {
}

func NewFallbackBuilder() *FallbackBuilder {
	return &FallbackBuilder{}
}

// Build scans the root of sourceDir for known manifests and collects one component per
// requirement line. Finding no manifest at all is not an error; it yields a document
// with zero components.
func (b *FallbackBuilder) Build(sourceDir string) (Document, error) {
	components := []Component{}

	found := false
	for _, name := range manifestFiles {
		path := filepath.Join(sourceDir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		found = true
		log.WithField("manifest", name).Info("Found dependency manifest")

		parsed, err := b.parseManifest(path)
		if err != nil {
			return Document{}, err
		}
		components = append(components, parsed...)
	}

	if !found {
		log.Warn("No dependency manifest found")
	}

	log.WithField("components", len(components)).Info("Built fallback SBOM")

	return Document{
		BOMFormat:   BOMFormat,
		SpecVersion: SpecVersion,
		Components:  components,
	}, nil
}

func (b *FallbackBuilder) parseManifest(path string) ([]Component, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, xerrors.Errorf("opening manifest %s: %v", path, err)
	}
	defer file.Close()

	var components []Component

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if component, ok := parseRequirementLine(line); ok {
			components = append(components, component)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, xerrors.Errorf("reading manifest %s: %v", path, err)
	}

	return components, nil
}

// parseRequirementLine splits a requirement into a (name, version) pair by matching
// version operators in priority order. Pinned versions ("==") are recorded verbatim;
// range constraints keep their operator so the report shows the constraint rather than
// a version that was never resolved. A line without any operator yields version
// "unknown" with any bracketed extras suffix stripped from the name.
func parseRequirementLine(line string) (Component, bool) {
	for _, op := range versionOperators {
		if !strings.Contains(line, op) {
			continue
		}
		parts := strings.SplitN(line, op, 2)
		name := strings.TrimSpace(parts[0])
		version := strings.TrimSpace(parts[1])
		if op != "==" {
			version = op + version
		}
		return newPythonComponent(name, version), true
	}

	name := strings.TrimSpace(strings.SplitN(line, "[", 2)[0])
	if name == "" {
		return Component{}, false
	}
	return newPythonComponent(name, "unknown"), true
}

func newPythonComponent(name, version string) Component {
	purlVersion := ""
	if version != "unknown" && !strings.ContainsAny(version, "><~=") {
		purlVersion = version
	}
	purl := packageurl.NewPackageURL(packageurl.TypePyPi, "", name, purlVersion, nil, "")
	return Component{
		Type:       "python",
		Name:       name,
		Version:    version,
		PackageURL: purl.ToString(),
	}
}
