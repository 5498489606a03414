package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestSingleFlightDeduplicatesConcurrentCalls(t *testing.T) {
	t.Parallel()

	var g SingleFlight
	var executions atomic.Int32

	release := make(chan struct{})
	started := make(chan struct{})

	go func() {
		_, _, _ = g.Do("token", func() (any, error) {
			close(started)
			<-release
			executions.Add(1)
			return "principal", nil
		})
	}()
	<-started

	var wg sync.WaitGroup
	shared := make([]bool, 4)
	for i := 0; i < 4; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			value, err, wasShared := g.Do("token", func() (any, error) {
				executions.Add(1)
				return "principal", nil
			})
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if value != "principal" {
				t.Errorf("unexpected value: %v", value)
			}
			shared[i] = wasShared
		}()
	}

	close(release)
	wg.Wait()

	if got := executions.Load(); got != 1 {
		t.Fatalf("expected exactly one execution, got %d", got)
	}
	for i, wasShared := range shared {
		if !wasShared {
			t.Fatalf("waiter %d did not share the in-flight call", i)
		}
	}
}

func TestSingleFlightSequentialCallsRunIndependently(t *testing.T) {
	t.Parallel()

	var g SingleFlight
	var executions atomic.Int32

	for i := 0; i < 3; i++ {
		_, _, wasShared := g.Do("key", func() (any, error) {
			executions.Add(1)
			return nil, nil
		})
		if wasShared {
			t.Fatalf("sequential call %d unexpectedly shared", i)
		}
	}

	if got := executions.Load(); got != 3 {
		t.Fatalf("expected 3 executions, got %d", got)
	}
}
