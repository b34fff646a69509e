package service

import (
	"context"
	"sync"
	"time"
)

// SyncJob runs [SyncService.Push] on a ticker. The job is idle until Start
// is called.
type SyncJob struct {
	syncService *SyncService
	interval    time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSyncJob creates a [SyncJob] pushing every interval. Zero or negative
// intervals default to 5 minutes.
func NewSyncJob(syncService *SyncService, interval time.Duration) *SyncJob {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	return &SyncJob{syncService: syncService, interval: interval}
}

// Start stops any previously running job, then launches a background
// goroutine that pushes once immediately and again on every tick. The
// goroutine exits when ctx is cancelled or Stop is called. Push failures do
// not stop the job; the next tick retries.
func (j *SyncJob) Start(ctx context.Context) {
	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(j.interval)
		defer t.Stop()

		_, _ = j.syncService.Push(jobCtx)

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				_, _ = j.syncService.Push(jobCtx)
			}
		}
	}()
}

// Stop cancels the background goroutine and blocks until it has exited.
// Safe to call when the job is not running.
func (j *SyncJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}

// Run implements the workers contract: it starts the job detached from any
// caller lifetime. Use Start directly when shutdown coordination matters.
func (j *SyncJob) Run() {
	j.Start(context.Background())
}
