package main

import (
	"fmt"
	"os"

	"github.com/GoSim-25-26J-441/scc-reporter/config"
	"github.com/GoSim-25-26J-441/scc-reporter/internal/bootstrap"
	"github.com/GoSim-25-26J-441/scc-reporter/internal/observability"
	"github.com/GoSim-25-26J-441/scc-reporter/internal/scc_reports/domain"
	"github.com/GoSim-25-26J-441/scc-reporter/internal/scc_reports/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "worker",
		Short: "Security Command Center report worker",
		Long:  `Generates SCC vulnerability workbooks per project and uploads them to Cloud Storage.`,
	}
	root.AddCommand(newRunCmd(), newProjectsCmd())
	return root
}

func newRunCmd() *cobra.Command {
	var (
		projects []string
		bucket   string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Generate and upload reports once",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if bucket != "" {
				cfg.Report.Bucket = bucket
			}
			if cfg.Report.Bucket == "" {
				return domain.ErrBucketNotConfigured
			}

			catalog := cfg.Catalog
			if len(projects) > 0 {
				catalog = catalog.WithProjects(projects)
				if err := catalog.Validate(); err != nil {
					return err
				}
			}

			logger := observability.InitializeLogger(cfg.Logger)
			defer observability.Sync()

			reporter, err := bootstrap.BuildReporter(cmd.Context(), cfg, catalog, logger)
			if err != nil {
				return err
			}
			defer reporter.Close()

			return runOnce(cmd, reporter.Generator, cfg.Report.Bucket, logger)
		},
	}

	cmd.Flags().StringSliceVar(&projects, "project", nil, "Restrict the run to these project ids (repeatable)")
	cmd.Flags().StringVar(&bucket, "bucket", "", "Destination bucket, overrides GCS_BUCKET")
	return cmd
}

// runOnce prints the summary; failed projects do not change the exit code.
func runOnce(cmd *cobra.Command, runner service.Runner, bucket string, logger *zap.Logger) error {
	summary, err := runner.Run(cmd.Context(), bucket)
	if err != nil {
		return err
	}
	logger.Info("run finished", zap.String("run_id", summary.RunID), zap.Int("failed", summary.Failed()))
	fmt.Fprintln(cmd.OutOrStdout(), summary.Body())
	return nil
}

func newProjectsCmd() *cobra.Command {
	var catalogPath string

	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List configured projects and their report folders",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := config.LoadCatalog(catalogPath)
			if err != nil {
				return err
			}
			for _, p := range catalog.Projects {
				folder, ok := catalog.ProjectFolders[p]
				if !ok {
					folder = "(unmapped)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", p, folder)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", os.Getenv("REPORT_CATALOG_PATH"), "Path to the report catalog YAML")
	return cmd
}
