package indexer

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRunAllFansOutAcrossChains(t *testing.T) {
	t.Parallel()

	// Every run blocks until all of them have started. Sequential
	// execution would stall on the first one and time out.
	const chains = 4
	var started atomic.Int32
	release := make(chan struct{})

	runs := map[string]func(context.Context) error{}
	for i := 0; i < chains; i++ {
		runs[fmt.Sprintf("chain%d", i)] = func(context.Context) error {
			if started.Add(1) == chains {
				close(release)
			}
			select {
			case <-release:
				return nil
			case <-time.After(5 * time.Second):
				return errors.New("peers never started")
			}
		}
	}

	require.NoError(t, RunAll(context.Background(), runs))
}

func TestRunAllReportsFailureAfterAllFinish(t *testing.T) {
	t.Parallel()

	var ran atomic.Int32
	boom := errors.New("rpc down")
	runs := map[string]func(context.Context) error{
		"polygon": func(context.Context) error {
			ran.Add(1)
			return boom
		},
		"bsc": func(context.Context) error {
			ran.Add(1)
			return nil
		},
		"arbitrum": func(context.Context) error {
			ran.Add(1)
			return nil
		},
	}

	err := RunAll(context.Background(), runs)
	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), "polygon")
	// One chain failing must not stop the others.
	require.Equal(t, int32(3), ran.Load())
}
