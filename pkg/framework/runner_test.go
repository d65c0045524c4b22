package framework

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRunnerAggregatesErrors(t *testing.T) {
	errA, errB := errors.New("a"), errors.New("b")
	r := NewRunner().Go(
		RunFunc(func(context.Context) error { return errA }),
		RunFunc(func(context.Context) error { return nil }),
		NamedRun("b", RunFunc(func(context.Context) error { return errB })),
	)
	err := r.Wait()
	require.Error(t, err)
	agg, ok := err.(*AggregatedError)
	require.True(t, ok)
	require.ElementsMatch(t, []error{errA, errB}, agg.Errors)
}

func TestRunnerStopOnExit(t *testing.T) {
	r := NewRunner()
	r.StopOnExit = true
	r.Go(
		RunFunc(func(context.Context) error { return nil }),
		RunFunc(func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		}),
	)
	require.NoError(t, r.Wait())
}

func TestNameOf(t *testing.T) {
	require.Equal(t, "feeder", NameOf(NamedRun("feeder", RunFunc(nil)), "0"))
	require.Equal(t, "0", NameOf(RunFunc(nil), "0"))
}

func TestRunWithContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	unblock := make(chan struct{})
	var cancels int
	time.AfterFunc(10*time.Millisecond, cancel)
	err := RunWithContextCancel(ctx, func() {
		cancels++
		close(unblock)
	}, func() error {
		<-unblock
		return errors.New("closed")
	})
	require.Equal(t, context.Canceled, err)
	require.Equal(t, 1, cancels)

	err = RunWithContextCancel(context.Background(), func() {
		cancels++
	}, func() error { return nil })
	require.NoError(t, err)
	require.Equal(t, 1, cancels)
}

func TestAggregate(t *testing.T) {
	require.NoError(t, Aggregate(nil, nil))
	err := errors.New("one")
	require.Equal(t, "one", Aggregate(nil, err).Error())
	require.Contains(t, Aggregate(err, errors.New("two")).Error(), "Multiple errors:")
}
