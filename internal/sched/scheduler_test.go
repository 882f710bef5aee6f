package sched

import (
	"testing"

	"github.com/LunNova/fundament-scopes/internal/ir"
	"github.com/LunNova/fundament-scopes/internal/typesys"
)

func constInt(v int64) ir.Value {
	return ir.NewConstInt(ir.NoAnchor, typesys.NewInteger(32, true), v)
}

func TestDrainRunsJobToCompletionWithoutYield(t *testing.T) {
	var s Scheduler
	j := s.Enqueue(func(j *Job) (ir.Value, error) {
		return constInt(7), nil
	})
	s.Drain()
	if !j.Done() {
		t.Fatalf("expected job to complete")
	}
	v, err := j.Result()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.(*ir.ConstInt).V != 7 {
		t.Fatalf("expected 7, got %v", v)
	}
}

// TestDrainResumesParkedJobAfterSibling mirrors the If-branch scheduling
// spec §4.10 describes: one job parks waiting on state a sibling job
// sets, and Drain must give the sibling a turn and then resume the first.
func TestDrainResumesParkedJobAfterSibling(t *testing.T) {
	var s Scheduler
	ready := false

	first := s.Enqueue(func(j *Job) (ir.Value, error) {
		if !ready {
			j.Yield()
		}
		return constInt(1), nil
	})
	s.Enqueue(func(j *Job) (ir.Value, error) {
		ready = true
		return constInt(2), nil
	})

	s.Drain()

	if !first.Done() {
		t.Fatalf("expected first job to eventually complete once resumed")
	}
	v, err := first.Result()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.(*ir.ConstInt).V != 1 {
		t.Fatalf("expected 1, got %v", v)
	}
}

func TestDrainStopsOnFullRotationWithNoProgress(t *testing.T) {
	var s Scheduler
	j := s.Enqueue(func(j *Job) (ir.Value, error) {
		j.Yield()
		return constInt(0), nil
	})
	s.Drain()
	if j.Done() {
		t.Fatalf("expected a permanently parked job to remain undone after Drain gives up")
	}
}

func TestRunToCompletionReturnsResult(t *testing.T) {
	var s Scheduler
	v, err := s.RunToCompletion(func(j *Job) (ir.Value, error) {
		return constInt(42), nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.(*ir.ConstInt).V != 42 {
		t.Fatalf("expected 42, got %v", v)
	}
}
