package tool

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/securelayer/sbom-analyzer/pkg/etc"
	"github.com/securelayer/sbom-analyzer/pkg/ext"
)

// Logical tool identifiers. Paths is keyed by these rather than by executable names so
// that the executables stay configurable without touching the pipeline stages.
const (
	Git  = "git"
	SBOM = "sbom-generator"
	Vuln = "vuln-scanner"
)

// Paths maps a logical tool identifier to the resolved absolute path of its executable.
// Built once per pipeline run and never mutated afterwards.
type Paths map[string]string

// MissingToolsError enumerates every required executable that could not be resolved,
// not just the first one, so the caller can report all gaps at once.
type MissingToolsError struct {
	Missing []string
}

func (e *MissingToolsError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "required tools not installed: %s\n", strings.Join(e.Missing, ", "))
	sb.WriteString("make sure each tool is installed and registered on the system PATH\n")
	for _, name := range e.Missing {
		if hint, ok := installHints[name]; ok {
			fmt.Fprintf(&sb, "- %s: %s\n", name, hint)
		}
	}
	return sb.String()
}

var installHints = map[string]string{
	"git":         "https://git-scm.com/downloads",
	"syft":        "curl -sSfL https://raw.githubusercontent.com/anchore/syft/main/install.sh | sh -s -- -b /usr/local/bin",
	"osv-scanner": "go install github.com/google/osv-scanner/cmd/osv-scanner@latest",
}

// Locator resolves the external executables the analysis pipeline shells out to.
type Locator interface {
	Locate() (Paths, error)
}

type locator struct {
	config     etc.Analyzer
	ambassador ext.Ambassador
}

func NewLocator(config etc.Analyzer, ambassador ext.Ambassador) Locator {
	return &locator{
		config:     config,
		ambassador: ambassador,
	}
}

func (l *locator) Locate() (Paths, error) {
	executables := map[string]string{
		Git:  l.config.GitExecutable,
		SBOM: l.config.SBOMExecutable,
		Vuln: l.config.VulnExecutable,
	}

	paths := make(Paths, len(executables))
	var missing []string

	for _, id := range []string{Git, SBOM, Vuln} {
		executable := executables[id]
		path, err := l.ambassador.LookPath(executable)
		if err != nil {
			log.WithField("executable", executable).Error("Required tool not found")
			missing = append(missing, executable)
			continue
		}
		log.WithFields(log.Fields{
			"executable": executable,
			"path":       path,
		}).Debug("Resolved required tool")
		paths[id] = path
	}

	if len(missing) > 0 {
		return nil, &MissingToolsError{Missing: missing}
	}

	return paths, nil
}
