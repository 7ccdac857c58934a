package osv

import (
	"bytes"
	"context"
	"encoding/json"
	"os/exec"

	log "github.com/sirupsen/logrus"
	"golang.org/x/xerrors"

	"github.com/securelayer/sbom-analyzer/pkg/etc"
	"github.com/securelayer/sbom-analyzer/pkg/ext"
	"github.com/securelayer/sbom-analyzer/pkg/sbom"
	"github.com/securelayer/sbom-analyzer/pkg/tool"
)

// Scanner runs the external vulnerability scanner against an SBOM. Exit code 0 (no
// vulnerabilities) and exit code 1 (vulnerabilities found) are both success outcomes;
// anything else degrades to an empty report so that a broken scanner never prevents
// SBOM-only results from being returned.
type Scanner interface {
	Scan(ctx context.Context, doc sbom.Document, paths tool.Paths) (Report, error)
}

type scanner struct {
	config     etc.Analyzer
	ambassador ext.Ambassador
}

func NewScanner(config etc.Analyzer, ambassador ext.Ambassador) Scanner {
	return &scanner{
		config:     config,
		ambassador: ambassador,
	}
}

func (s *scanner) Scan(ctx context.Context, doc sbom.Document, paths tool.Paths) (Report, error) {
	sbomFile, err := s.writeSBOM(doc)
	if err != nil {
		log.WithError(err).Error("Error while writing sbom file, skipping vulnerability scan")
		return Empty(), nil
	}
	defer func() {
		if err := s.ambassador.Remove(sbomFile); err != nil {
			log.WithError(err).Warn("Error while removing sbom file")
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, s.config.ToolTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, paths[tool.Vuln],
		"--sbom="+sbomFile,
		"--format=json",
	)
	cmd.Env = s.ambassador.Environ()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.WithField("sbom", sbomFile).Info("Scanning for vulnerabilities")

	exitCode, err := s.ambassador.RunCmd(cmd)
	if err != nil {
		log.WithError(err).Error("Vulnerability scanner invocation failed")
		return Empty(), nil
	}

	// Exit code 1 is the scanner's way of saying vulnerabilities were found.
	if exitCode != 0 && exitCode != 1 {
		log.WithFields(log.Fields{
			"exit_code": exitCode,
			"stderr":    stderr.String(),
		}).Error("Vulnerability scanner failed")
		return Empty(), nil
	}

	if exitCode == 1 {
		log.Warn("Vulnerabilities found")
	} else {
		log.Info("No vulnerabilities found")
	}

	if stdout.Len() == 0 {
		return Empty(), nil
	}

	report, err := ReportFrom(&stdout)
	if err != nil {
		log.WithError(err).Error("Malformed vulnerability report")
		return Empty(), nil
	}

	return report, nil
}

func (s *scanner) writeSBOM(doc sbom.Document) (string, error) {
	file, err := s.ambassador.TempFile("", "sbom-scan-*.json")
	if err != nil {
		return "", xerrors.Errorf("creating sbom file: %v", err)
	}
	defer file.Close()

	if err = json.NewEncoder(file).Encode(doc); err != nil {
		if removeErr := s.ambassador.Remove(file.Name()); removeErr != nil {
			log.WithError(removeErr).Warn("Error while removing sbom file")
		}
		return "", xerrors.Errorf("encoding sbom file: %v", err)
	}
	return file.Name(), nil
}
