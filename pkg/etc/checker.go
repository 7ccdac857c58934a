package etc

import (
	"errors"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
)

// Check checks config values to fail fast in case of any problems
// that we might have due to invalid config.
func Check(config Config) error {
	log.WithFields(log.Fields{
		"pid": os.Getpid(),
	}).Debug("Current process")

	if config.Analyzer.GitExecutable == "" {
		return errors.New("git executable must not be blank")
	}

	if config.Analyzer.SBOMExecutable == "" {
		return errors.New("sbom executable must not be blank")
	}

	if config.Analyzer.VulnExecutable == "" {
		return errors.New("vulnerability scanner executable must not be blank")
	}

	if config.Analyzer.ToolTimeout < time.Second {
		return errors.New("tool timeout must be at least 1s")
	}

	if config.API.Addr == "" {
		return errors.New("API address must not be blank")
	}

	return nil
}
