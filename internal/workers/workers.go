// Package workers manages the application's background workers in a
// unified way.
package workers

// Worker is implemented by any background worker. Run starts the worker's
// execution; implementations either block for the duration of their work or
// spawn goroutines internally.
type Worker interface {
	Run()
}

// Workers aggregates workers so the application can start them as one unit.
type Workers struct {
	workers []Worker
}

// NewWorkers groups the given workers.
func NewWorkers(workers ...Worker) *Workers {
	return &Workers{workers: workers}
}

// Run starts every worker in registration order.
func (w *Workers) Run() {
	for _, worker := range w.workers {
		worker.Run()
	}
}
