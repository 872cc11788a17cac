package observ

import (
	"strings"
	"testing"
	"time"
)

func fakeClock(step time.Duration) func() time.Time {
	now := time.Unix(0, 0)
	return func() time.Time {
		now = now.Add(step)
		return now
	}
}

func TestTimerPhases(t *testing.T) {
	tm := NewTimer()
	tm.now = fakeClock(10 * time.Millisecond)

	start := tm.Begin("start")
	tm.End(start, "pid 42")
	run := tm.Begin("run")
	tm.End(run, "")

	phases := tm.Phases()
	if len(phases) != 2 {
		t.Fatalf("len(phases) = %d, want 2", len(phases))
	}
	if phases[0].Name != "start" || phases[0].Dur != 10*time.Millisecond || phases[0].Note != "pid 42" {
		t.Errorf("phases[0] = %+v", phases[0])
	}
	if tm.Total() != 20*time.Millisecond {
		t.Errorf("Total() = %v, want 20ms", tm.Total())
	}
}

func TestTimerSummary(t *testing.T) {
	tm := NewTimer()
	tm.now = fakeClock(time.Millisecond)
	tm.End(tm.Begin("teardown"), "interrupted")

	got := tm.Summary()
	want := "pyright-polite timings:\n" +
		"  teardown        1.0 ms  (interrupted)\n" +
		"  total           1.0 ms\n"
	if got != want {
		t.Errorf("Summary() = %q, want %q", got, want)
	}
}

func TestTimerEdgeCases(t *testing.T) {
	var nilTimer *Timer
	if idx := nilTimer.Begin("x"); idx != -1 {
		t.Errorf("nil Begin = %d, want -1", idx)
	}
	nilTimer.End(0, "")
	if nilTimer.Summary() != "" || nilTimer.Total() != 0 {
		t.Error("nil timer must be empty")
	}

	tm := NewTimer()
	tm.End(5, "ignored")
	if tm.Summary() != "" {
		t.Error("empty timer must render nothing")
	}
	tm.Begin("open")
	if !strings.Contains(tm.Summary(), "open") {
		t.Error("unfinished phase should still be listed")
	}
}
