package service

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/GoSim-25-26J-441/scc-reporter/internal/scc_reports/domain"
	"github.com/GoSim-25-26J-441/scc-reporter/internal/scc_reports/extract"
	"github.com/GoSim-25-26J-441/scc-reporter/internal/scc_reports/fetcher"
	"github.com/GoSim-25-26J-441/scc-reporter/internal/scc_reports/layout"
	"github.com/GoSim-25-26J-441/scc-reporter/internal/scc_reports/report"
	"github.com/GoSim-25-26J-441/scc-reporter/internal/scc_reports/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Runner produces one run summary per invocation.
type Runner interface {
	Run(ctx context.Context, bucket string) (*domain.RunSummary, error)
}

// Options configures a Generator.
type Options struct {
	Projects []string
	TmpDir   string
	// CSVWriter, when set, also writes and uploads the combined CSV.
	CSVWriter report.Writer
	Now       func() time.Time
}

// Generator walks the configured projects and uploads one workbook per
// (project, category) pair.
type Generator struct {
	source   fetcher.Source
	writer   report.Writer
	uploader storage.Uploader
	resolver *layout.Resolver
	opts     Options
	logger   *zap.Logger

	mu sync.Mutex
}

func NewGenerator(source fetcher.Source, writer report.Writer, uploader storage.Uploader, resolver *layout.Resolver, opts Options, logger *zap.Logger) *Generator {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.TmpDir == "" {
		opts.TmpDir = os.TempDir()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		source:   source,
		writer:   writer,
		uploader: uploader,
		resolver: resolver,
		opts:     opts,
		logger:   logger,
	}
}

// Run processes every project in order. A failing project is recorded in the
// summary and does not stop the run. The only error returned is a missing bucket.
func (g *Generator) Run(ctx context.Context, bucket string) (*domain.RunSummary, error) {
	if bucket == "" {
		return nil, domain.ErrBucketNotConfigured
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	summary := &domain.RunSummary{
		RunID:     uuid.New().String(),
		Timestamp: g.opts.Now().UTC().Format(layout.TimestampLayout),
	}
	logger := g.logger.With(zap.String("run_id", summary.RunID), zap.String("timestamp", summary.Timestamp))
	logger.Info("report run started", zap.Int("projects", len(g.opts.Projects)), zap.String("bucket", bucket))

	for _, projectID := range g.opts.Projects {
		result := g.processProject(ctx, logger, bucket, projectID, summary.Timestamp)
		if result.Status == domain.StatusFailed {
			logger.Error("project failed", zap.String("project", projectID), zap.Error(result.Err))
		}
		summary.Results = append(summary.Results, result)
	}

	logger.Info("report run finished",
		zap.Int("projects", len(summary.Results)),
		zap.Int("failed", summary.Failed()))

	return summary, nil
}

func (g *Generator) processProject(ctx context.Context, logger *zap.Logger, bucket, projectID, timestamp string) domain.ProjectResult {
	result := domain.ProjectResult{ProjectID: projectID}
	logger = logger.With(zap.String("project", projectID))
	logger.Info("processing project")

	findings, err := g.source.ListFindings(ctx, projectID)
	if err != nil {
		return failed(result, err)
	}
	logger.Info("findings retrieved", zap.Int("count", len(findings)))

	if len(findings) == 0 {
		result.Status = domain.StatusNoFindings
		return result
	}

	buckets := extract.GroupByCategory(findings)
	for _, category := range buckets.Order {
		uploaded, err := g.processCategory(ctx, logger, bucket, projectID, category, timestamp, buckets.Findings[category])
		result.Uploaded = append(result.Uploaded, uploaded...)
		if err != nil {
			return failed(result, err)
		}
	}

	result.Status = domain.StatusSuccess
	return result
}

// processCategory returns the objects it managed to upload, even on error.
func (g *Generator) processCategory(ctx context.Context, logger *zap.Logger, bucket, projectID, category, timestamp string, findings []domain.FindingResult) ([]string, error) {
	objectPath, err := g.resolver.ObjectPath(category, projectID, timestamp)
	if err != nil {
		return nil, err
	}

	vms, k8s := extract.Rows(findings)
	if dropped := len(findings) - len(vms) - len(k8s); dropped > 0 {
		logger.Debug("findings without a report row", zap.String("category", category), zap.Int("dropped", dropped))
	}

	var uploaded []string

	localPath := layout.LocalPath(g.opts.TmpDir, projectID, category, timestamp, ".xlsx")
	if err := g.writeAndUpload(ctx, g.writer, bucket, objectPath, localPath, vms, k8s); err != nil {
		return uploaded, err
	}
	uploaded = append(uploaded, objectPath)

	if g.opts.CSVWriter != nil {
		csvObject, err := g.resolver.CSVObjectPath(category, projectID, timestamp)
		if err != nil {
			return uploaded, err
		}
		csvLocal := layout.LocalPath(g.opts.TmpDir, projectID, category, timestamp, ".csv")
		if err := g.writeAndUpload(ctx, g.opts.CSVWriter, bucket, csvObject, csvLocal, vms, k8s); err != nil {
			return uploaded, err
		}
		uploaded = append(uploaded, csvObject)
	}

	logger.Info("report uploaded",
		zap.String("category", category),
		zap.Strings("objects", uploaded),
		zap.Int("vms", len(vms)),
		zap.Int("k8s", len(k8s)))

	return uploaded, nil
}

// writeAndUpload removes the local file only after a successful upload.
func (g *Generator) writeAndUpload(ctx context.Context, w report.Writer, bucket, objectPath, localPath string, vms []domain.VMRow, k8s []domain.KubernetesRow) error {
	if err := w.Write(localPath, vms, k8s); err != nil {
		return err
	}
	if err := g.uploader.Upload(ctx, bucket, objectPath, localPath); err != nil {
		return err
	}
	if err := os.Remove(localPath); err != nil {
		return fmt.Errorf("remove %s: %w", localPath, err)
	}
	return nil
}

func failed(result domain.ProjectResult, err error) domain.ProjectResult {
	result.Status = domain.StatusFailed
	result.Err = err
	return result
}
