package main

import (
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/securelayer/sbom-analyzer/pkg/etc"
)

var (
	// Set at release time by GoReleaser via ldflags.
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	log.SetOutput(os.Stderr)
	log.SetLevel(etc.GetLogLevel())
	log.SetReportCaller(false)
	log.SetFormatter(&log.JSONFormatter{})

	info := etc.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}

	if err := NewRootCommand(info).Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}
