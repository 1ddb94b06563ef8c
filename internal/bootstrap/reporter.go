package bootstrap

import (
	"context"
	"fmt"

	"github.com/GoSim-25-26J-441/scc-reporter/config"
	"github.com/GoSim-25-26J-441/scc-reporter/internal/scc_reports/fetcher"
	"github.com/GoSim-25-26J-441/scc-reporter/internal/scc_reports/layout"
	"github.com/GoSim-25-26J-441/scc-reporter/internal/scc_reports/report"
	"github.com/GoSim-25-26J-441/scc-reporter/internal/scc_reports/service"
	"github.com/GoSim-25-26J-441/scc-reporter/internal/scc_reports/storage"
	"go.uber.org/zap"
)

// Reporter owns the generator and the clients behind it.
type Reporter struct {
	Generator *service.Generator
	uploader  *storage.GCSUploader
}

// BuildReporter wires the SCC client, the GCS uploader and the report writers
// from cfg. catalog overrides cfg.Catalog when not nil.
func BuildReporter(ctx context.Context, cfg *config.Config, catalog *config.Catalog, logger *zap.Logger) (*Reporter, error) {
	if catalog == nil {
		catalog = cfg.Catalog
	}

	svc, err := fetcher.NewService(ctx)
	if err != nil {
		return nil, err
	}
	source := fetcher.NewSCCClient(svc,
		cfg.SCC.OrganizationID,
		catalog.Filter,
		fetcher.NewPageLimiter(cfg.SCC.PageRate, cfg.SCC.PageBurst),
		logger.Named("scc"))

	uploader, err := storage.NewGCSUploader(ctx)
	if err != nil {
		return nil, fmt.Errorf("build uploader: %w", err)
	}

	opts := service.Options{
		Projects: catalog.Projects,
		TmpDir:   cfg.Report.TmpDir,
	}
	if cfg.Report.CSVEnabled {
		opts.CSVWriter = report.NewCSVWriter()
	}

	resolver := layout.NewResolver(cfg.Report.Root, catalog.CategoryFolders, catalog.ProjectFolders)
	generator := service.NewGenerator(source, report.NewXLSXWriter(logger.Named("xlsx")), uploader, resolver, opts, logger.Named("generator"))

	return &Reporter{Generator: generator, uploader: uploader}, nil
}

func (r *Reporter) Close() error {
	return r.uploader.Close()
}
