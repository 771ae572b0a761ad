package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/DanielPopoola/ficmart-payment-ledger/internal/application"
	"github.com/DanielPopoola/ficmart-payment-ledger/internal/config"
	"github.com/DanielPopoola/ficmart-payment-ledger/internal/history"
)

type LedgerSummarizer interface {
	Summary(ctx context.Context, orderID string) (history.Summary, error)
}

// AuditReport describes one audit cycle.
type AuditReport struct {
	Checked int
	Corrupt []string
}

// LedgerAuditor periodically re-reconciles orders that received events since
// the previous cycle and reports ledgers that no longer reconcile.
type LedgerAuditor struct {
	repo      application.LedgerRepository
	ledger    LedgerSummarizer
	interval  time.Duration
	batchSize int
	watermark time.Time
	logger    *slog.Logger
}

func NewLedgerAuditor(
	repo application.LedgerRepository,
	ledger LedgerSummarizer,
	cfg config.WorkerConfig,
	logger *slog.Logger,
) *LedgerAuditor {
	return &LedgerAuditor{
		repo:      repo,
		ledger:    ledger,
		interval:  cfg.Interval,
		batchSize: cfg.BatchSize,
		watermark: time.Now().Add(-cfg.Lookback),
		logger:    logger,
	}
}

func (a *LedgerAuditor) Start(ctx context.Context) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	a.logger.Info("starting ledger auditor", "interval", a.interval, "batch_size", a.batchSize)

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("stopping ledger auditor")
			return
		case <-ticker.C:
			a.run(ctx)
		}
	}
}

// RunOnce executes a single audit cycle.
func (a *LedgerAuditor) RunOnce(ctx context.Context) AuditReport {
	return a.run(ctx)
}

// Watermark is the recorded_at of the last audited activity.
func (a *LedgerAuditor) Watermark() time.Time {
	return a.watermark
}

func (a *LedgerAuditor) run(ctx context.Context) AuditReport {
	var report AuditReport

	activity, err := a.repo.FindOrdersWithEventsSince(ctx, a.watermark, a.batchSize)
	if err != nil {
		a.logger.Error("failed to fetch order activity", "since", a.watermark, "error", err)
		return report
	}

	if len(activity) == 0 {
		return report
	}

	a.logger.Debug("auditing ledgers", "count", len(activity))

	for _, order := range activity {
		_, err := a.ledger.Summary(ctx, order.OrderID)
		if err != nil {
			category := application.CategorizeError(err)
			if category == application.CategoryBusinessRule || category == application.CategoryClientError {
				report.Corrupt = append(report.Corrupt, order.OrderID)
				a.logger.Error("ledger does not reconcile",
					"order_id", order.OrderID,
					"category", category,
					"error", err,
				)
			} else {
				// Leave the watermark so the order is retried next cycle.
				a.logger.Error("failed to audit ledger", "order_id", order.OrderID, "error", err)
				break
			}
		}

		report.Checked++
		a.watermark = order.LastRecordedAt
	}

	if len(report.Corrupt) > 0 {
		a.logger.Warn("ledger audit found corrupt ledgers", "checked", report.Checked, "corrupt", len(report.Corrupt))
	}
	return report
}
