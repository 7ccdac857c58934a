package etc

import (
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	log "github.com/sirupsen/logrus"
)

type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

type Config struct {
	API      API
	Metrics  Metrics
	Analyzer Analyzer
}

type Analyzer struct {
	GitExecutable  string        `env:"ANALYZER_GIT_EXECUTABLE" envDefault:"git"`
	SBOMExecutable string        `env:"ANALYZER_SBOM_EXECUTABLE" envDefault:"syft"`
	VulnExecutable string        `env:"ANALYZER_VULN_EXECUTABLE" envDefault:"osv-scanner"`
	ToolTimeout    time.Duration `env:"ANALYZER_TOOL_TIMEOUT" envDefault:"5m"`
}

type API struct {
	Addr         string        `env:"ANALYZER_API_ADDR" envDefault:":8080"`
	ReadTimeout  time.Duration `env:"ANALYZER_API_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout time.Duration `env:"ANALYZER_API_WRITE_TIMEOUT" envDefault:"15m"`
	IdleTimeout  time.Duration `env:"ANALYZER_API_IDLE_TIMEOUT" envDefault:"60s"`
}

type Metrics struct {
	Addr     string `env:"ANALYZER_METRICS_ADDR" envDefault:":9090"`
	Endpoint string `env:"ANALYZER_METRICS_ENDPOINT" envDefault:"/metrics"`
}

func GetConfig() (cfg Config, err error) {
	err = env.Parse(&cfg)
	return
}

func GetLogLevel() log.Level {
	if value, ok := os.LookupEnv("ANALYZER_LOG_LEVEL"); ok {
		level, err := log.ParseLevel(value)
		if err != nil {
			return log.InfoLevel
		}
		return level
	}
	return log.InfoLevel
}
