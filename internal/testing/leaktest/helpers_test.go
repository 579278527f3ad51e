package leaktest

import (
	"testing"
	"time"
)

// fakeTB records Errorf calls instead of failing the real test.
type fakeTB struct {
	testing.TB
	failed bool
}

func (f *fakeTB) Helper() {}

func (f *fakeTB) Errorf(string, ...any) { f.failed = true }

func TestGoroutineChecker_NoLeak(t *testing.T) {
	CheckNoGoroutineLeak(t, func() {
		done := make(chan struct{})
		go func() { close(done) }()
		<-done
	})
}

func TestGoroutineChecker_WaitsForExit(t *testing.T) {
	checker := NewGoroutineChecker(t)
	go func() { time.Sleep(50 * time.Millisecond) }()
	checker.Check(0)
}

func TestGoroutineChecker_DetectsLeak(t *testing.T) {
	fake := &fakeTB{TB: t}
	checker := NewGoroutineChecker(fake)

	stop := make(chan struct{})
	defer close(stop)
	go func() { <-stop }()

	checker.Check(0)
	if !fake.failed {
		t.Fatal("expected a leak to be reported")
	}
}
