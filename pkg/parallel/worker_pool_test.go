package parallel

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func newPool(t testing.TB, workers int) *WorkerPool {
	t.Helper()
	pool, err := NewWorkerPool(workers)
	if err != nil {
		t.Fatalf("NewWorkerPool(%d) error = %v", workers, err)
	}
	return pool
}

// TestWorkerPoolBasicOperations tests basic worker pool functionality
func TestWorkerPoolBasicOperations(t *testing.T) {
	pool := newPool(t, 4)
	defer pool.Close()

	// Submit a simple task
	executed := false
	success := pool.Submit(func() error {
		executed = true
		return nil
	})

	if !success {
		t.Error("Task submission failed")
	}

	// Wait for task to complete
	if err := pool.Wait(); err != nil {
		t.Errorf("Wait() error = %v", err)
	}

	if !executed {
		t.Error("Task was not executed")
	}
}

func TestNewWorkerPoolDefaults(t *testing.T) {
	pool := newPool(t, 0)
	defer pool.Close()

	if pool.Workers() != 1 {
		t.Errorf("Workers() = %d, want 1", pool.Workers())
	}

	if _, err := NewWorkerPool(MaxWorkers + 1); !errors.Is(err, ErrTooManyWorkers) {
		t.Errorf("NewWorkerPool(MaxWorkers+1) error = %v, want ErrTooManyWorkers", err)
	}
}

// TestWorkerPoolConcurrentSubmissions tests concurrent task submissions
func TestWorkerPoolConcurrentSubmissions(t *testing.T) {
	pool := newPool(t, 10)
	defer pool.Close()

	numTasks := 100
	var counter int64

	var wg sync.WaitGroup
	for i := 0; i < numTasks; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pool.Submit(func() error {
				atomic.AddInt64(&counter, 1)
				return nil
			})
		}()
	}

	wg.Wait()
	pool.Close()

	if counter != int64(numTasks) {
		t.Errorf("Expected counter %d, got %d", numTasks, counter)
	}
}

// TestWorkerPoolCloseRace validates that closing the pool while submitting
// tasks doesn't panic
func TestWorkerPoolCloseRace(t *testing.T) {
	numIterations := 100

	for iteration := 0; iteration < numIterations; iteration++ {
		pool := newPool(t, 4)

		// Start submitting tasks concurrently
		var wg sync.WaitGroup
		numSubmitters := 10

		for i := 0; i < numSubmitters; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 10; j++ {
					// Try to submit - might fail if closed
					pool.Submit(func() error {
						time.Sleep(1 * time.Millisecond)
						return nil
					})
				}
			}()
		}

		// Close pool concurrently with submissions
		time.Sleep(5 * time.Millisecond)
		pool.Close()

		wg.Wait()
	}
}

// TestWorkerPoolSubmitAfterClose tests that submissions after close return false
func TestWorkerPoolSubmitAfterClose(t *testing.T) {
	pool := newPool(t, 4)

	success := pool.Submit(func() error {
		time.Sleep(10 * time.Millisecond)
		return nil
	})
	if !success {
		t.Error("Task submission before close should succeed")
	}

	pool.Close()

	success = pool.Submit(func() error {
		t.Error("This task should never execute")
		return nil
	})

	if success {
		t.Error("Task submission after close should return false")
	}
}

// TestWorkerPoolConcurrentClose tests concurrent close calls
func TestWorkerPoolConcurrentClose(t *testing.T) {
	pool := newPool(t, 4)

	for i := 0; i < 20; i++ {
		pool.Submit(func() error {
			time.Sleep(1 * time.Millisecond)
			return nil
		})
	}

	// Close concurrently from multiple goroutines
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pool.Close()
		}()
	}

	wg.Wait()
	pool.Close()
}

// TestWorkerPoolTaskExecution tests that all submitted tasks execute
func TestWorkerPoolTaskExecution(t *testing.T) {
	pool := newPool(t, 5)

	numTasks := 50
	executed := make([]bool, numTasks)

	// Each task owns one slot, so no lock is needed
	for i := 0; i < numTasks; i++ {
		pool.Submit(func() error {
			executed[i] = true
			return nil
		})
	}

	if err := pool.Wait(); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}

	for i, exec := range executed {
		if !exec {
			t.Errorf("Task %d was not executed", i)
		}
	}
}

// TestWorkerPoolErrors tests that task errors are joined by Wait
func TestWorkerPoolErrors(t *testing.T) {
	errFirst := errors.New("first")
	errSecond := errors.New("second")

	pool := newPool(t, 3)
	pool.Submit(func() error { return errFirst })
	pool.Submit(func() error { return nil })
	pool.Submit(func() error { return errSecond })

	err := pool.Wait()
	if !errors.Is(err, errFirst) || !errors.Is(err, errSecond) {
		t.Errorf("Wait() error = %v, want both task errors", err)
	}
}

// TestWorkerPoolWithPanic tests that panics in tasks become errors and the
// workers keep running
func TestWorkerPoolWithPanic(t *testing.T) {
	pool := newPool(t, 4)

	var counter int64

	for i := 0; i < 5; i++ {
		pool.Submit(func() error {
			panic("intentional panic")
		})
	}

	for i := 0; i < 10; i++ {
		pool.Submit(func() error {
			atomic.AddInt64(&counter, 1)
			return nil
		})
	}

	err := pool.Wait()
	if !errors.Is(err, ErrTaskPanic) {
		t.Errorf("Wait() error = %v, want ErrTaskPanic", err)
	}
	if counter != 10 {
		t.Errorf("Expected counter 10, got %d", counter)
	}
}

func TestRun(t *testing.T) {
	results := make([]int, 20)
	tasks := make([]Task, len(results))
	for i := range tasks {
		tasks[i] = func() error {
			results[i] = i * i
			return nil
		}
	}

	if err := Run(4, tasks); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	for i, got := range results {
		if got != i*i {
			t.Errorf("results[%d] = %d, want %d", i, got, i*i)
		}
	}
}

// BenchmarkWorkerPoolThroughput benchmarks worker pool throughput
func BenchmarkWorkerPoolThroughput(b *testing.B) {
	pool := newPool(b, 10)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pool.Submit(func() error {
			return nil
		})
	}

	_ = pool.Wait()
}
