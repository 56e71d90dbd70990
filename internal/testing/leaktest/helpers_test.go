package leaktest

import (
	"testing"
	"time"
)

// recordingTB captures failures instead of failing the real test
type recordingTB struct {
	testing.TB
	failed bool
}

func (r *recordingTB) Helper() {}

func (r *recordingTB) Errorf(string, ...any) {
	r.failed = true
}

func TestGoroutineChecker_Clean(t *testing.T) {
	rec := &recordingTB{TB: t}
	NewGoroutineChecker(rec).Check(0)
	if rec.failed {
		t.Fatal("no goroutines were started, checker must not report a leak")
	}
}

func TestGoroutineChecker_ReportsBlockedGoroutine(t *testing.T) {
	rec := &recordingTB{TB: t}
	checker := NewGoroutineChecker(rec)

	release := make(chan struct{})
	defer close(release)
	go func() { <-release }()

	checker.Check(0)
	if !rec.failed {
		t.Fatal("blocked goroutine should be reported")
	}
}

func TestGoroutineChecker_ToleratesSlowExit(t *testing.T) {
	checker := NewGoroutineChecker(t)

	go time.Sleep(50 * time.Millisecond)

	// Check polls until the sleeper exits
	checker.Check(0)
}

func TestCheckNoGoroutineLeak_Pipeline(t *testing.T) {
	CheckNoGoroutineLeak(t, func() {
		in := make(chan int)
		out := make(chan int)
		go func() {
			defer close(out)
			for v := range in {
				out <- v * 2
			}
		}()
		go func() {
			defer close(in)
			for i := 0; i < 8; i++ {
				in <- i
			}
		}()

		sum := 0
		for v := range out {
			sum += v
		}
		if sum != 56 {
			t.Errorf("sum = %d, want 56", sum)
		}
	})
}
