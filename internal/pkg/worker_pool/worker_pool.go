package worker_pool

import (
	"context"
	"sync"

	"phishing_url_analyzer/internal/pkg/errors"

	log "github.com/sirupsen/logrus"
)

var ErrPoolClosed = errors.Sentinel(`worker pool is closed; cannot accept new tasks`)

type TaskFunc func(ctx context.Context) (any, error)

// TaskResult holds the outcome of a finished task (its ID, result value, or error).
type TaskResult struct {
	ID     string
	Result any
	Err    error
}

type workItem struct {
	id string
	fn TaskFunc
}

// WorkerPool runs submitted tasks on a fixed number of workers. Results are
// delivered on ResultsCh, which is closed once the pool is closed and every
// accepted task has finished. Callers must drain ResultsCh.
type WorkerPool struct {
	tasksCh     chan workItem
	ResultsCh   chan TaskResult
	ctx         context.Context
	cancelFunc  context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.RWMutex
	closed      bool
	stopOnError bool
	log         *log.Logger
}

// NewWorkerPool starts numWorkers workers. If stopOnError is true the pool
// context is canceled on the first task error.
func NewWorkerPool(parentCtx context.Context, numWorkers int, stopOnError bool, logger *log.Logger) *WorkerPool {
	if numWorkers < 1 {
		numWorkers = 1
	}
	ctx, cancel := context.WithCancel(parentCtx)
	wp := &WorkerPool{
		tasksCh:     make(chan workItem),
		ResultsCh:   make(chan TaskResult, numWorkers),
		ctx:         ctx,
		cancelFunc:  cancel,
		stopOnError: stopOnError,
		log:         logger,
	}

	wp.wg.Add(numWorkers)
	for i := 1; i <= numWorkers; i++ {
		go wp.worker(i)
	}
	go func() {
		wp.wg.Wait()
		logger.Debug(`all workers exited, closing results channel`)
		close(wp.ResultsCh)
		cancel()
	}()
	return wp
}

// Submit hands a task to the next free worker. It blocks while every worker
// is busy and fails once the pool is closed or canceled.
func (wp *WorkerPool) Submit(id string, taskFn TaskFunc) error {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	if wp.closed {
		wp.log.Warnf(`submit rejected for task %s: pool is closed`, id)
		return ErrPoolClosed
	}

	select {
	case wp.tasksCh <- workItem{id: id, fn: taskFn}:
		return nil
	case <-wp.ctx.Done():
		wp.log.Warnf(`submit failed for task %s: pool was canceled`, id)
		return errors.Wrap(wp.ctx.Err(), `worker pool is canceled; task not accepted`)
	}
}

// Close stops accepting tasks. Tasks already accepted still run.
func (wp *WorkerPool) Close() {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if wp.closed {
		return
	}
	wp.closed = true
	close(wp.tasksCh)
}

// Stop cancels the pool context and closes it. Running tasks observe the
// cancellation through their context.
func (wp *WorkerPool) Stop() {
	wp.log.Debug(`manual stop invoked: canceling worker pool`)
	wp.cancelFunc()
	wp.Close()
}

func (wp *WorkerPool) worker(workerID int) {
	defer wp.wg.Done()

	for task := range wp.tasksCh {
		var (
			result any
			err    error
		)
		if ctxErr := wp.ctx.Err(); ctxErr != nil {
			err = errors.Wrap(ctxErr, `task skipped after cancellation`)
		} else {
			wp.log.Debugf(`worker %d starting task %s`, workerID, task.id)
			result, err = task.fn(wp.ctx)
		}

		if err != nil {
			wp.log.WithError(err).Debugf(`task %s failed`, task.id)
			if wp.stopOnError {
				wp.log.Warnf(`stop on error active, canceling pool due to task %s`, task.id)
				wp.cancelFunc()
			}
		}

		wp.ResultsCh <- TaskResult{ID: task.id, Result: result, Err: err}
	}
	wp.log.Debugf(`worker %d exiting: task channel closed`, workerID)
}
