package gateway

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequencerRunsStepsInOrder(t *testing.T) {
	var order []string
	step := func(name string) Step {
		return Step{Name: name, Fatal: true, Run: func(ctx context.Context) error {
			order = append(order, name)
			return nil
		}}
	}

	s := NewSequencer(nil, step("first"), step("second"), step("third"))
	require.NoError(t, s.Run(context.Background()))

	assert.Equal(t, []string{"first", "second", "third"}, order)
	assert.True(t, s.Ready())
}

func TestSequencerSecondRunIsNoop(t *testing.T) {
	runs := 0
	s := NewSequencer(nil, Step{Name: "once", Fatal: true, Run: func(ctx context.Context) error {
		runs++
		return nil
	}})

	require.NoError(t, s.Run(context.Background()))
	require.NoError(t, s.Run(context.Background()))
	assert.Equal(t, 1, runs)
}

func TestSequencerFatalFailureAborts(t *testing.T) {
	boom := errors.New("wallet unreachable")
	var fatalStep string
	ran := false

	s := NewSequencer(
		func(step string, err error) { fatalStep = step },
		Step{Name: "wallet", Fatal: true, Run: func(ctx context.Context) error { return boom }},
		Step{Name: "after", Fatal: true, Run: func(ctx context.Context) error {
			ran = true
			return nil
		}},
	)

	err := s.Run(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Equal(t, "wallet", fatalStep)
	assert.False(t, ran, "steps after a fatal failure must not run")
	assert.False(t, s.Ready())
}

func TestSequencerNonFatalFailureContinues(t *testing.T) {
	s := NewSequencer(nil,
		Step{Name: "channels", Fatal: false, Run: func(ctx context.Context) error {
			return errors.New("table missing")
		}},
		Step{Name: "after", Fatal: true, Run: func(ctx context.Context) error { return nil }},
	)

	require.NoError(t, s.Run(context.Background()))
	assert.True(t, s.Ready())

	results := s.Results()
	require.Len(t, results, 2)
	assert.Equal(t, StepFailed, results[0].Status)
	assert.Equal(t, StepOK, results[1].Status)
}

func TestSequencerRetryAfterFatalFailure(t *testing.T) {
	attempts := 0
	s := NewSequencer(nil, Step{Name: "flaky", Fatal: true, Run: func(ctx context.Context) error {
		attempts++
		if attempts == 1 {
			return errors.New("first connect failed")
		}
		return nil
	}})

	require.Error(t, s.Run(context.Background()))
	assert.False(t, s.Ready())

	// A reconnect triggers another run; this one succeeds.
	require.NoError(t, s.Run(context.Background()))
	assert.True(t, s.Ready())
}
