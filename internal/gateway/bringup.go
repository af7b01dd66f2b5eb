package gateway

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
)

// StepStatus tracks one bring-up step. Transitions only move forward:
// pending, then ok or failed.
type StepStatus int

const (
	StepPending StepStatus = iota
	StepOK
	StepFailed
)

// Step is one named initialization action. A fatal step that fails aborts
// the whole bring-up; a non-fatal one is logged and skipped.
type Step struct {
	Name  string
	Fatal bool
	Run   func(ctx context.Context) error
}

// StepResult is the recorded outcome of a step.
type StepResult struct {
	Name   string
	Status StepStatus
	Err    error
}

// Sequencer executes the bring-up steps exactly once. The transport may
// signal readiness multiple times; every run after the first successful one
// is a silent no-op. No message is dispatched while Ready is false.
type Sequencer struct {
	mu      sync.Mutex
	steps   []Step
	results []StepResult
	ready   atomic.Bool
	onFatal func(step string, err error)
}

// NewSequencer builds a sequencer. onFatal is invoked after a fatal step
// failure has been logged; it is expected to shut the transport down and
// terminate the process.
func NewSequencer(onFatal func(step string, err error), steps ...Step) *Sequencer {
	results := make([]StepResult, len(steps))
	for i, s := range steps {
		results[i] = StepResult{Name: s.Name, Status: StepPending}
	}
	return &Sequencer{steps: steps, results: results, onFatal: onFatal}
}

// Ready reports whether bring-up completed.
func (s *Sequencer) Ready() bool {
	return s.ready.Load()
}

// Run executes the steps in order. Safe to call concurrently; duplicate
// invocations after success return immediately.
func (s *Sequencer) Run(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ready.Load() {
		return nil
	}

	for i, step := range s.steps {
		err := step.Run(ctx)
		if err == nil {
			s.results[i] = StepResult{Name: step.Name, Status: StepOK}
			log.Printf("[INFO] Bring-up step %q completed", step.Name)
			continue
		}
		s.results[i] = StepResult{Name: step.Name, Status: StepFailed, Err: err}
		if step.Fatal {
			log.Printf("[ERR] Bring-up step %q failed: %v", step.Name, err)
			if s.onFatal != nil {
				s.onFatal(step.Name, err)
			}
			return fmt.Errorf("bring-up step %q: %w", step.Name, err)
		}
		log.Printf("[WARN] Bring-up step %q failed, continuing degraded: %v", step.Name, err)
	}

	s.ready.Store(true)
	log.Println("[INFO] Initialisation complete")
	return nil
}

// Results returns a snapshot of every step's recorded outcome.
func (s *Sequencer) Results() []StepResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]StepResult, len(s.results))
	copy(out, s.results)
	return out
}
