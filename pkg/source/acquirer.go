package source

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/xerrors"

	"github.com/securelayer/sbom-analyzer/pkg/etc"
	"github.com/securelayer/sbom-analyzer/pkg/ext"
	"github.com/securelayer/sbom-analyzer/pkg/tool"
)

type TargetKind int

const (
	_ TargetKind = iota
	KindRemoteRepository
	KindLocalDirectory
)

// Target is the classified analysis input: either a remote repository URL to be cloned
// or a local directory to be analyzed in place. Derived once from the raw input string
// and never mutated.
type Target struct {
	Kind TargetKind
	URL  string
	Path string
}

// InvalidTargetError indicates that the raw input is neither a recognizable remote
// repository URL nor an existing local directory.
type InvalidTargetError struct {
	Input  string
	Reason string
}

func (e *InvalidTargetError) Error() string {
	return fmt.Sprintf("invalid analysis target %q: %s", e.Input, e.Reason)
}

// AcquisitionError indicates that cloning a remote repository failed.
type AcquisitionError struct {
	ExitCode int
	Stderr   string
}

func (e *AcquisitionError) Error() string {
	msg := fmt.Sprintf("git clone exited with code %d", e.ExitCode)
	if e.Stderr != "" {
		msg = fmt.Sprintf("%s: %s", msg, strings.TrimSpace(e.Stderr))
	}
	return msg
}

var knownHostingDomains = []string{"github.com", "gitlab.com"}

// Acquirer classifies the raw analysis input and materializes it as a directory on
// disk. Remote repositories are shallow-cloned into an ephemeral workspace owned by the
// acquisition; local directories are used as-is and never cleaned up.
type Acquirer interface {
	Classify(input string) (Target, error)
	Acquire(ctx context.Context, target Target, paths tool.Paths) (dir string, release func(), err error)
}

type acquirer struct {
	config     etc.Analyzer
	ambassador ext.Ambassador
}

func NewAcquirer(config etc.Analyzer, ambassador ext.Ambassador) Acquirer {
	return &acquirer{
		config:     config,
		ambassador: ambassador,
	}
}

// Classify treats the input as a remote repository when it parses as an absolute URL
// with a non-empty host and either ends with ".git" or points at a known hosting
// domain. Anything else must be an existing local directory.
func (a *acquirer) Classify(input string) (Target, error) {
	if u, err := url.Parse(input); err == nil && u.Scheme != "" && u.Host != "" {
		if strings.HasSuffix(input, ".git") || hasKnownHostingDomain(u.Host) {
			return Target{Kind: KindRemoteRepository, URL: input}, nil
		}
	}

	info, err := a.ambassador.Stat(input)
	if err != nil {
		return Target{}, &InvalidTargetError{Input: input, Reason: "path does not exist"}
	}
	if !info.IsDir() {
		return Target{}, &InvalidTargetError{Input: input, Reason: "path is not a directory"}
	}

	return Target{Kind: KindLocalDirectory, Path: input}, nil
}

func hasKnownHostingDomain(host string) bool {
	for _, domain := range knownHostingDomains {
		if strings.Contains(host, domain) {
			return true
		}
	}
	return false
}

// Acquire returns the directory to analyze together with a release func that removes
// any workspace owned by this acquisition. The release func is never nil; callers must
// defer it on every exit path.
func (a *acquirer) Acquire(ctx context.Context, target Target, paths tool.Paths) (string, func(), error) {
	switch target.Kind {
	case KindRemoteRepository:
		return a.clone(ctx, target.URL, paths)
	case KindLocalDirectory:
		return a.validateLocal(target.Path)
	default:
		return "", func() {}, xerrors.Errorf("unknown target kind: %d", target.Kind)
	}
}

func (a *acquirer) validateLocal(path string) (string, func(), error) {
	info, err := a.ambassador.Stat(path)
	if err != nil {
		return "", func() {}, &InvalidTargetError{Input: path, Reason: "path does not exist"}
	}
	if !info.IsDir() {
		return "", func() {}, &InvalidTargetError{Input: path, Reason: "path is not a directory"}
	}
	log.WithField("path", path).Info("Using local directory")
	return path, func() {}, nil
}

func (a *acquirer) clone(ctx context.Context, repoURL string, paths tool.Paths) (string, func(), error) {
	workspace, err := a.ambassador.TempDir("", "sbom_analysis_")
	if err != nil {
		return "", func() {}, xerrors.Errorf("creating acquisition workspace: %v", err)
	}

	release := func() {
		log.WithField("workspace", workspace).Debug("Removing acquisition workspace")
		if err := a.ambassador.RemoveAll(workspace); err != nil {
			log.WithError(err).Warn("Error while removing acquisition workspace")
		}
	}

	repoDir := filepath.Join(workspace, "repo")
	log.WithFields(log.Fields{
		"url": repoURL,
		"dir": repoDir,
	}).Info("Cloning repository")

	ctx, cancel := context.WithTimeout(ctx, a.config.ToolTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, paths[tool.Git], "clone", "--depth", "1", repoURL, repoDir)
	cmd.Env = a.ambassador.Environ()

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	exitCode, err := a.ambassador.RunCmd(cmd)
	if ctx.Err() == context.DeadlineExceeded {
		release()
		return "", func() {}, xerrors.Errorf("git clone timed out after %s", a.config.ToolTimeout)
	}
	if err != nil {
		release()
		return "", func() {}, xerrors.Errorf("running git clone: %v", err)
	}
	if exitCode != 0 {
		release()
		return "", func() {}, &AcquisitionError{ExitCode: exitCode, Stderr: stderr.String()}
	}

	return repoDir, release, nil
}
