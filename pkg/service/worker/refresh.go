package worker

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mnemo-lab/mnemosyne/pkg/domain/interfaces"
	"github.com/mnemo-lab/mnemosyne/pkg/domain/model"
	"github.com/mnemo-lab/mnemosyne/pkg/utils/logging"
)

// Ingester stores a list of source documents, skipping the ones that are
// already fresh. It reports how many documents were actually (re)stored.
type Ingester interface {
	IngestAll(ctx context.Context, docs []*model.SourceDocument, force bool) (int, error)
}

// RefreshWorker re-ingests the document source on a fixed interval so the
// store follows upstream edits without manual runs.
//
// Architecture assumptions:
// - Single instance (no distributed locking)
// - For horizontal scaling, add distributed locking or leader election
type RefreshWorker struct {
	source   interfaces.DocumentSource
	ingester Ingester
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewRefreshWorker creates a worker that periodically re-ingests documents
func NewRefreshWorker(source interfaces.DocumentSource, ingester Ingester, interval time.Duration) *RefreshWorker {
	return &RefreshWorker{
		source:   source,
		ingester: ingester,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the refresh loop in a background goroutine. The first cycle
// runs immediately; the caller is not blocked.
func (w *RefreshWorker) Start(ctx context.Context) error {
	logging.Default().Info("document refresh worker starting",
		"interval", w.interval.String())

	go w.run(ctx)

	return nil
}

// Stop signals the worker to stop and waits for the current cycle to finish
func (w *RefreshWorker) Stop() {
	logging.Default().Info("document refresh worker stopping")
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("document refresh worker stopped")
}

func (w *RefreshWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	if err := w.refresh(ctx); err != nil {
		logging.Default().Error("initial document refresh failed (will retry next interval)",
			"error", err.Error())
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.refresh(ctx); err != nil {
				logging.Default().Error("document refresh failed (will retry next interval)",
					"error", err.Error())
			}

		case <-w.stopCh:
			logging.Default().Info("document refresh worker received stop signal")
			return

		case <-ctx.Done():
			logging.Default().Info("document refresh worker context cancelled")
			return
		}
	}
}

// refresh performs a single cycle: list the source, ingest what changed
func (w *RefreshWorker) refresh(ctx context.Context) error {
	startTime := time.Now()
	logging.Default().Info("starting document refresh")

	docs, err := w.source.ListDocuments(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to list source documents")
	}

	stored, err := w.ingester.IngestAll(ctx, docs, false)
	if err != nil {
		return goerr.Wrap(err, "failed to ingest source documents", goerr.V("count", len(docs)))
	}

	logging.Default().Info("document refresh completed",
		"listed", len(docs),
		"stored", stored,
		"duration", time.Since(startTime).String())

	return nil
}
