package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/linuxoverapi/scangate/internal/metrics"
	"github.com/linuxoverapi/scangate/internal/model"
	"github.com/linuxoverapi/scangate/internal/repository"
	"github.com/linuxoverapi/scangate/internal/scanner"
)

// History limits.
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// Authenticator is the quota enforcer contract the dispatcher depends on.
type Authenticator interface {
	AuthenticateAndCharge(ctx context.Context, token string) (*model.APIKey, error)
	AuthenticateOnly(ctx context.Context, token string) (*model.APIKey, error)
}

// ScanStore is the repository subset the dispatcher and history reader need.
type ScanStore interface {
	CreateScanRecord(ctx context.Context, record *model.ScanRecord) error
	ListScanRecords(ctx context.Context, token string, limit int) ([]*model.ScanRecord, error)
	GetScanRecord(ctx context.Context, token, id string) (*model.ScanRecord, error)
}

// ScanService orchestrates scan dispatch and history reads.
type ScanService struct {
	quota    Authenticator
	registry *scanner.Registry
	runner   scanner.Runner
	store    ScanStore
	timeout  time.Duration
	logger   *slog.Logger
	metrics  metrics.Recorder
}

// NewScanService creates a ScanService. The timeout is the per-scan
// wall-clock budget for the external process.
func NewScanService(
	quota Authenticator,
	registry *scanner.Registry,
	runner scanner.Runner,
	store ScanStore,
	timeout time.Duration,
	logger *slog.Logger,
	recorder metrics.Recorder,
) *ScanService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &ScanService{
		quota:    quota,
		registry: registry,
		runner:   runner,
		store:    store,
		timeout:  timeout,
		logger:   logger,
		metrics:  recorder,
	}
}

// Tools lists the available tool catalog.
func (s *ScanService) Tools() []scanner.ToolInfo {
	return s.registry.List()
}

// Run dispatches one scan end to end: charge quota, resolve the tool,
// invoke the process under the time budget, persist the outcome.
//
// Quota is charged before the tool name is even looked at, so invalid tool
// names cannot be used to probe the catalog for free. No database
// transaction is held while the subprocess runs: the charge commits first,
// the record is written after.
func (s *ScanService) Run(ctx context.Context, toolName, domain, token string) (*model.ScanOutcome, error) {
	key, err := s.quota.AuthenticateAndCharge(ctx, token)
	if err != nil {
		return nil, err
	}

	tool, err := s.registry.Resolve(toolName)
	if err != nil {
		s.metrics.IncScanFailed("unknown_tool")
		return nil, scanner.ErrUnknownTool
	}

	if err := scanner.ValidateDomain(domain); err != nil {
		s.metrics.IncScanFailed("invalid_domain")
		return nil, err
	}

	s.metrics.IncScanStarted(tool.Name)
	start := time.Now()

	result, err := s.runner.Run(ctx, tool.Args(domain), s.timeout)
	if err != nil {
		switch {
		case errors.Is(err, scanner.ErrTimeout):
			s.metrics.IncScanFailed("timeout")
			s.logger.Warn("scan timed out",
				slog.String("tool", tool.Name),
				slog.String("domain", domain),
				slog.Duration("budget", s.timeout),
			)
			return nil, ErrScanTimeout
		default:
			s.metrics.IncScanFailed("exec_error")
			s.logger.Error("scan process failed",
				slog.String("tool", tool.Name),
				slog.String("domain", domain),
				slog.String("error", err.Error()),
			)
			return nil, fmt.Errorf("%w: %v", ErrExecution, err)
		}
	}

	s.metrics.IncScanCompleted(tool.Name)
	s.metrics.ObserveScanDuration(time.Since(start))

	// The process ran and produced output; that is the unit of record even
	// when the tool's own exit code reports failure.
	record := &model.ScanRecord{
		ID:        ulid.Make().String(),
		Token:     key.Token,
		Domain:    domain,
		Tool:      tool.Name,
		Output:    result.Stdout,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateScanRecord(ctx, record); err != nil {
		return nil, fmt.Errorf("persist scan record: %w", err)
	}

	s.logger.Info("scan completed",
		slog.String("tool", tool.Name),
		slog.String("domain", domain),
		slog.Int("exit_code", result.ExitCode),
		slog.String("scan_id", record.ID),
	)

	return &model.ScanOutcome{
		Tool:   tool.Name,
		Domain: domain,
		Output: result.Stdout,
	}, nil
}

// History returns up to limit most-recent summaries for the token,
// newest first. Authenticates without charging.
func (s *ScanService) History(ctx context.Context, token string, limit int) ([]model.ScanSummary, error) {
	if _, err := s.quota.AuthenticateOnly(ctx, token); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	records, err := s.store.ListScanRecords(ctx, token, limit)
	if err != nil {
		return nil, fmt.Errorf("list scan records: %w", err)
	}

	summaries := make([]model.ScanSummary, 0, len(records))
	for _, record := range records {
		summaries = append(summaries, record.Summary())
	}
	return summaries, nil
}

// Result returns the full record for (token, scanID). The ownership check is
// part of the lookup itself, so records owned by other keys look missing.
func (s *ScanService) Result(ctx context.Context, token, scanID string) (*model.ScanDetail, error) {
	if _, err := s.quota.AuthenticateOnly(ctx, token); err != nil {
		return nil, err
	}

	record, err := s.store.GetScanRecord(ctx, token, scanID)
	if err != nil {
		if errors.Is(err, repository.ErrScanNotFound) {
			return nil, ErrScanNotFound
		}
		return nil, fmt.Errorf("get scan record: %w", err)
	}

	detail := record.Detail()
	return &detail, nil
}
