package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/securelayer/sbom-analyzer/pkg/analysis"
	"github.com/securelayer/sbom-analyzer/pkg/etc"
	"github.com/securelayer/sbom-analyzer/pkg/ext"
	"github.com/securelayer/sbom-analyzer/pkg/http/api"
	v1 "github.com/securelayer/sbom-analyzer/pkg/http/api/v1"
	"github.com/securelayer/sbom-analyzer/pkg/metrics"
	"github.com/securelayer/sbom-analyzer/pkg/osv"
	"github.com/securelayer/sbom-analyzer/pkg/pipeline"
	"github.com/securelayer/sbom-analyzer/pkg/sbom"
	"github.com/securelayer/sbom-analyzer/pkg/source"
	"github.com/securelayer/sbom-analyzer/pkg/tool"
)

func NewRootCommand(info etc.BuildInfo) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "sbom-analyzer",
		Short:         "Dependency inventory, vulnerability and license risk analyzer",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newAnalyzeCommand(),
		newServeCommand(info),
		newVersionCommand(info),
	)

	return rootCmd
}

func newAnalyzeCommand() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "analyze <target>",
		Short: "Analyze a remote repository URL or a local directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := etc.GetConfig()
			if err != nil {
				return fmt.Errorf("getting config: %w", err)
			}
			if err = etc.Check(config); err != nil {
				return fmt.Errorf("checking config: %w", err)
			}

			controller := newController(config)
			report, summary := controller.Analyze(cmd.Context(), args[0])

			switch outputFormat {
			case "json":
				return writeJSON(cmd.OutOrStdout(), report, summary)
			case "table":
				return writeTable(cmd.OutOrStdout(), report, summary)
			default:
				return fmt.Errorf("unsupported output format: %s", outputFormat)
			}
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", "table", "output format: table or json")

	return cmd
}

func newServeCommand(info etc.BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the analysis API and metrics servers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			config, err := etc.GetConfig()
			if err != nil {
				return fmt.Errorf("getting config: %w", err)
			}
			if err = etc.Check(config); err != nil {
				return fmt.Errorf("checking config: %w", err)
			}

			controller := newController(config)
			apiServer := api.NewServer(config.API, v1.NewAPIHandler(info, controller))
			metricsServer := metrics.NewServer(config.Metrics)

			shutdownComplete := make(chan struct{})
			go func() {
				sigint := make(chan os.Signal, 1)
				signal.Notify(sigint, syscall.SIGINT, syscall.SIGTERM)
				captured := <-sigint
				log.WithField("signal", captured.String()).Debug("Trapped os signal")

				apiServer.Shutdown(context.Background())
				metricsServer.Shutdown(context.Background())

				close(shutdownComplete)
			}()

			metricsServer.ListenAndServe()
			apiServer.ListenAndServe()

			<-shutdownComplete
			return nil
		},
	}
}

func newVersionCommand(info etc.BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "sbom-analyzer %s (commit %s, built %s)\n", info.Version, info.Commit, info.Date)
		},
	}
}

func newController(config etc.Config) pipeline.Controller {
	ambassador := ext.DefaultAmbassador
	clock := &analysis.SystemClock{}

	return pipeline.NewController(
		tool.NewLocator(config.Analyzer, ambassador),
		source.NewAcquirer(config.Analyzer, ambassador),
		sbom.NewGenerator(config.Analyzer, ambassador, sbom.NewFallbackBuilder()),
		osv.NewScanner(config.Analyzer, ambassador),
		analysis.NewTransformer(clock),
		clock,
	)
}

func writeJSON(out io.Writer, report analysis.Report, summary analysis.Summary) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(struct {
		Report  analysis.Report  `json:"report"`
		Summary analysis.Summary `json:"summary"`
	}{report, summary})
}

func writeTable(out io.Writer, report analysis.Report, summary analysis.Summary) error {
	w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)

	fmt.Fprintln(w, strings.Join(analysis.Columns(), "\t"))
	for _, row := range report.Rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			row.Package,
			row.Version,
			row.License,
			row.LicenseRisk,
			row.Vulnerabilities,
			row.HighestSeverity,
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nPackages: %d, vulnerabilities: %d, license risks: %d\n",
		summary.TotalPackages, summary.VulnerabilitiesFound, summary.LicenseRisks)
	if summary.Error != "" {
		fmt.Fprintf(out, "Error: %s\n", summary.Error)
	}
	return nil
}
