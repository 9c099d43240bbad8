package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rescueops/stationstock/pkg/inventory"
)

// ScanResult summarizes one low stock scan.
type ScanResult struct {
	ResourcesScanned int
	RequestsFiled    int
}

// StockScanner executes a low stock scan for one station. It is satisfied by
// LowStockScanner but kept as an interface so worker tests can stub it.
type StockScanner interface {
	Scan(ctx context.Context, station, actor string) (ScanResult, error)
}

// LowStockScanner walks the active inventory of a station and files a pending
// supply request for every resource at or below its minimum stock level that
// does not already have one open.
type LowStockScanner struct {
	resources *inventory.ResourceStore
	requests  *inventory.RequestStore
	service   *inventory.Service
}

// NewLowStockScanner creates a scanner backed by the inventory stores.
func NewLowStockScanner(resources *inventory.ResourceStore, requests *inventory.RequestStore, service *inventory.Service) *LowStockScanner {
	return &LowStockScanner{resources: resources, requests: requests, service: service}
}

// Scan implements StockScanner.
func (s *LowStockScanner) Scan(ctx context.Context, station, actor string) (ScanResult, error) {
	var result ScanResult

	filter := inventory.ResourceListFilter{ActiveOnly: true, LowStockOnly: true}
	pageToken := ""
	for {
		page, nextToken, err := s.resources.List(station, filter, 100, pageToken)
		if err != nil {
			return result, fmt.Errorf("list low stock resources: %w", err)
		}

		for i := range page {
			res := &page[i]
			result.ResourcesScanned++

			open, err := s.requests.HasOpenSupplyRequest(res.ID)
			if err != nil {
				return result, fmt.Errorf("check open supply request for %s: %w", res.ID, err)
			}
			if open {
				continue
			}

			quantity := res.ReorderQuantity
			if quantity <= 0 {
				quantity = res.MinStockLevel - res.AvailableQuantity
			}
			if quantity <= 0 {
				quantity = 1
			}

			priority := inventory.PriorityMedium
			if res.AvailableQuantity == 0 {
				priority = inventory.PriorityHigh
			}

			_, err = s.service.SubmitRequest(ctx, inventory.RequestInput{
				Station:    station,
				ResourceID: res.ID,
				Actor:      actor,
				Category:   inventory.CategorySupply,
				Quantity:   quantity,
				Priority:   priority,
				Justification: fmt.Sprintf("Automated stock scan: %d of %d %s available, minimum is %d",
					res.AvailableQuantity, res.Quantity, res.Unit, res.MinStockLevel),
			})
			if err != nil {
				return result, fmt.Errorf("submit supply request for %s: %w", res.ID, err)
			}
			result.RequestsFiled++
		}

		if nextToken == "" {
			return result, nil
		}
		pageToken = nextToken
	}
}

// ScanMetrics counts processed scan jobs by outcome. Implemented by the
// server's Prometheus wiring; nil disables instrumentation.
type ScanMetrics interface {
	ScanJobRun(outcome string)
}

// WorkerPool processes queued scan jobs using a pool of goroutines.
type WorkerPool struct {
	store   *JobStore
	scanner StockScanner
	cfg     *JobConfig
	logger  *slog.Logger
	metrics ScanMetrics
	wg      sync.WaitGroup
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(store *JobStore, scanner StockScanner, cfg *JobConfig, logger *slog.Logger) *WorkerPool {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkerPool{
		store:   store,
		scanner: scanner,
		cfg:     cfg,
		logger:  logger,
	}
}

// SetMetrics attaches a metrics sink. Call before Run.
func (wp *WorkerPool) SetMetrics(m ScanMetrics) {
	wp.metrics = m
}

func (wp *WorkerPool) recordOutcome(outcome string) {
	if wp.metrics != nil {
		wp.metrics.ScanJobRun(outcome)
	}
}

// Run starts the worker pool. It spawns cfg.Concurrency goroutines,
// each polling for jobs. It blocks until the context is cancelled,
// then waits for all workers to finish.
func (wp *WorkerPool) Run(ctx context.Context) {
	if wp.store == nil || !wp.cfg.Enabled {
		wp.logger.Info("scan worker pool disabled")
		return
	}

	wp.logger.Info("scan worker pool starting",
		"concurrency", wp.cfg.Concurrency,
		"maxRetries", wp.cfg.MaxRetries,
		"pollInterval", wp.cfg.PollInterval.String())

	// Start stuck job cleanup goroutine.
	wp.wg.Add(1)
	go func() {
		defer wp.wg.Done()
		wp.cleanupLoop(ctx)
	}()

	// Start worker goroutines.
	for i := 0; i < wp.cfg.Concurrency; i++ {
		wp.wg.Add(1)
		go func(workerID int) {
			defer wp.wg.Done()
			wp.workerLoop(ctx, workerID)
		}(i)
	}

	<-ctx.Done()
	wp.logger.Info("scan worker pool shutting down, waiting for workers to finish")
	wp.wg.Wait()
	wp.logger.Info("scan worker pool stopped")
}

// workerLoop is the main loop for a single worker goroutine.
func (wp *WorkerPool) workerLoop(ctx context.Context, workerID int) {
	ticker := time.NewTicker(wp.cfg.PollInterval)
	defer ticker.Stop()

	wp.logger.Info("worker started", "workerID", workerID)

	for {
		select {
		case <-ctx.Done():
			wp.logger.Info("worker stopped", "workerID", workerID)
			return
		case <-ticker.C:
			wp.processOne(ctx, workerID)
		}
	}
}

// processOne tries to claim and process a single job.
func (wp *WorkerPool) processOne(ctx context.Context, workerID int) {
	job, err := wp.store.Claim(wp.cfg.MaxRetries)
	if err != nil {
		wp.logger.Error("failed to claim job", "workerID", workerID, "error", err)
		return
	}
	if job == nil {
		return // No jobs available.
	}

	wp.logger.Info("processing scan job",
		"workerID", workerID,
		"jobID", job.ID,
		"station", job.Station,
		"attempt", job.AttemptCount)

	start := time.Now()
	result, err := wp.scanner.Scan(ctx, job.Station, job.RequestedBy)
	if err != nil {
		wp.logger.Error("scan job failed",
			"workerID", workerID,
			"jobID", job.ID,
			"error", err)
		if failErr := wp.store.Fail(job.ID, err.Error(), wp.cfg.MaxRetries); failErr != nil {
			wp.logger.Error("failed to mark job as failed", "jobID", job.ID, "error", failErr)
		}
		wp.recordOutcome("failed")
		return
	}

	duration := time.Since(start)
	wp.logger.Info("scan job completed",
		"workerID", workerID,
		"jobID", job.ID,
		"resourcesScanned", result.ResourcesScanned,
		"requestsFiled", result.RequestsFiled,
		"duration", duration.String())

	if err := wp.store.Complete(job.ID, result.ResourcesScanned, result.RequestsFiled, duration.Milliseconds()); err != nil {
		wp.logger.Error("failed to mark job as complete", "jobID", job.ID, "error", err)
	}
	wp.recordOutcome("succeeded")
}

// cleanupLoop periodically cleans up stuck jobs and old completed jobs.
func (wp *WorkerPool) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Recover stuck jobs.
			if wp.cfg.ClaimTimeout > 0 {
				recovered, err := wp.store.CleanupStuckJobs(wp.cfg.ClaimTimeout)
				if err != nil {
					wp.logger.Error("failed to cleanup stuck jobs", "error", err)
				} else if recovered > 0 {
					wp.logger.Info("recovered stuck jobs", "count", recovered)
				}
			}

			// Delete old terminal jobs.
			if wp.cfg.RetentionDays > 0 {
				cutoff := time.Now().AddDate(0, 0, -wp.cfg.RetentionDays)
				deleted, err := wp.store.DeleteOlderThan(cutoff)
				if err != nil {
					wp.logger.Error("failed to delete old jobs", "error", err)
				} else if deleted > 0 {
					wp.logger.Info("deleted old jobs", "count", deleted)
				}
			}
		}
	}
}
