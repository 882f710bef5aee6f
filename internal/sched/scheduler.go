// Package sched implements the specializer's cooperative job scheduler
// (spec §4.10, §5): a strictly single-threaded queue of suspendable jobs
// used to break return-type cycles between If-branches and between
// callers and callees of not-yet-typed recursive functions.
//
// The source implementation (spec Design Notes §9) uses an explicit
// coroutine library with per-job stacks. This package's idiomatic-Go
// translation uses one goroutine per job, parked on a channel at its
// single suspension point — the goroutine's own call stack is the job's
// "complete local state" the design notes require persisting across a
// yield, which a plain closure/state-machine cannot give us for free.
// Only one goroutine is ever runnable at a time; every other job is
// blocked on a channel receive, so the scheduler is cooperative and
// unpreemptive exactly as spec §5 requires.
package sched

import "github.com/LunNova/fundament-scopes/internal/ir"

// JobFunc is the body of a scheduled job. It receives the Job itself so
// it can call Yield at its single suspension point.
type JobFunc func(j *Job) (ir.Value, error)

// Job is one suspendable unit of work. A job's Result is only valid once
// Done() reports true.
type Job struct {
	fn      JobFunc
	started bool
	result  ir.Value
	err     error
	done    chan struct{}
	resume  chan struct{}
	parked  chan struct{}
}

func newJob(fn JobFunc) *Job {
	return &Job{
		fn:     fn,
		done:   make(chan struct{}),
		resume: make(chan struct{}),
		parked: make(chan struct{}),
	}
}

// Yield suspends the calling job at its single suspension point (spec
// §4.10): it signals the scheduler that it has parked, then blocks until
// the scheduler resumes it after giving the rest of the queue a turn.
func (j *Job) Yield() {
	j.parked <- struct{}{}
	<-j.resume
}

func (j *Job) Done() bool { return j.started && isClosed(j.done) }

func (j *Job) Result() (ir.Value, error) { return j.result, j.err }

func isClosed(ch chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

// Scheduler is a single-threaded FIFO of jobs (spec §4.10). The zero value
// is a usable, empty scheduler.
type Scheduler struct {
	queue []*Job
}

// Enqueue adds a new job to the back of the FIFO without starting it
// (spec §4.10 "Enqueue"). Nested Enqueue calls from inside a running job
// append to this same queue, which the Design Notes' re-entrancy
// guarantee relies on: the FIFO naturally serializes them.
func (s *Scheduler) Enqueue(fn JobFunc) *Job {
	j := newJob(fn)
	s.queue = append(s.queue, j)
	return j
}

// runOne starts j if it has never run, or resumes it if it's parked, and
// blocks until it either completes or parks again. It returns true if j
// completed.
func (s *Scheduler) runOne(j *Job) bool {
	if !j.started {
		j.started = true
		go func() {
			j.result, j.err = j.fn(j)
			close(j.done)
		}()
	} else {
		j.resume <- struct{}{}
	}
	select {
	case <-j.done:
		return true
	case <-j.parked:
		return false
	}
}

// Drain processes the FIFO to quiescence (spec §4.10 "Completion",
// §5 "Cancellation": "the scheduler runs until quiescence"): it repeatedly
// takes the job at the front, gives it a turn, and puts it back at the
// end if it merely parked. It stops once a full rotation of the queue
// parks with no job completing — i.e. no further progress is possible
// without outside help. Jobs still parked at that point stay parked and
// never finish; package specializer's If rule reports
// untyped_recursive_call when one of its branch jobs is left unfinished.
func (s *Scheduler) Drain() {
	noProgress := 0
	for len(s.queue) > 0 && noProgress < len(s.queue) {
		j := s.queue[0]
		s.queue = s.queue[1:]
		if s.runOne(j) {
			noProgress = 0
			continue
		}
		s.queue = append(s.queue, j)
		noProgress++
	}
}

// RunToCompletion enqueues fn as a job and drains the scheduler until
// that specific job is done, giving any jobs it enqueues along the way
// (nested Ifs, sibling recursive calls) their turns via the same FIFO.
func (s *Scheduler) RunToCompletion(fn JobFunc) (ir.Value, error) {
	j := s.Enqueue(fn)
	for !j.Done() {
		before := len(s.queue)
		s.Drain()
		if j.Done() {
			break
		}
		// Drain returned without finishing j and without growing the
		// queue: nothing left that could ever unblock it.
		if len(s.queue) <= before {
			break
		}
	}
	if !j.Done() {
		return nil, nil
	}
	return j.Result()
}
