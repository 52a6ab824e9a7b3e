// Package parallel runs independent simulation trials on a bounded set of
// goroutines.
package parallel

import (
	"errors"
	"fmt"
	"math"
	"sync"
)

// Task is a unit of work. Its error is collected by the pool.
type Task func() error

// WorkerPool manages a pool of worker goroutines
type WorkerPool struct {
	workers   int
	taskQueue chan Task
	wg        sync.WaitGroup
	once      sync.Once
	mu        sync.RWMutex // Protects taskQueue from concurrent close during send
	closed    bool         // Protected by mu

	errMu sync.Mutex
	errs  []error
}

var (
	// ErrTooManyWorkers is returned when the worker count exceeds the maximum allowed.
	ErrTooManyWorkers = errors.New("worker count exceeds maximum")
	// ErrTaskPanic wraps the value recovered from a panicking task.
	ErrTaskPanic = errors.New("task panicked")
)

// MaxWorkers is the maximum number of workers allowed in a pool.
const MaxWorkers = math.MaxInt / 2

// NewWorkerPool creates a new worker pool with specified number of workers.
// A non-positive count means one worker.
func NewWorkerPool(workers int) (*WorkerPool, error) {
	if workers <= 0 {
		workers = 1
	}

	// Prevent overflow in buffer size calculation
	if workers > MaxWorkers {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrTooManyWorkers, workers, MaxWorkers)
	}

	pool := &WorkerPool{
		workers:   workers,
		taskQueue: make(chan Task, workers*2), // Buffer for 2x workers
	}

	pool.start()
	return pool, nil
}

// Workers is the number of worker goroutines.
func (wp *WorkerPool) Workers() int {
	return wp.workers
}

// start initializes the worker goroutines
func (wp *WorkerPool) start() {
	for i := 0; i < wp.workers; i++ {
		wp.wg.Add(1)
		go wp.worker()
	}
}

// worker processes tasks from the queue
func (wp *WorkerPool) worker() {
	defer wp.wg.Done()

	for task := range wp.taskQueue {
		if err := wp.run(task); err != nil {
			wp.errMu.Lock()
			wp.errs = append(wp.errs, err)
			wp.errMu.Unlock()
		}
	}
}

// run executes one task, turning a panic into an error so the worker survives
func (wp *WorkerPool) run(task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrTaskPanic, r)
		}
	}()
	return task()
}

// Submit adds a task to the worker pool
// Returns false if the pool is closed, true if task was submitted
func (wp *WorkerPool) Submit(task Task) bool {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	// Check if pool is closed while holding read lock
	if wp.closed {
		return false
	}

	// Safe to send because we hold the lock and pool is not closed
	wp.taskQueue <- task
	return true
}

// Close shuts down the worker pool and waits for queued tasks to finish
func (wp *WorkerPool) Close() {
	wp.once.Do(func() {
		// Acquire write lock before closing
		wp.mu.Lock()
		wp.closed = true
		close(wp.taskQueue)
		wp.mu.Unlock()
	})
	wp.wg.Wait()
}

// Wait closes the pool, waits for all submitted tasks and returns their
// errors joined, or nil.
func (wp *WorkerPool) Wait() error {
	wp.Close()

	wp.errMu.Lock()
	defer wp.errMu.Unlock()
	return errors.Join(wp.errs...)
}

// Run executes tasks with the given number of workers and returns their
// joined errors.
func Run(workers int, tasks []Task) error {
	pool, err := NewWorkerPool(workers)
	if err != nil {
		return err
	}
	for _, task := range tasks {
		pool.Submit(task)
	}
	return pool.Wait()
}
