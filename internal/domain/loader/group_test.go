package loader

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGroupKeepsKeysIsolatedUnderConcurrency(t *testing.T) {
	release := make(chan struct{})
	g := NewGroup[string]("home", 0, func(ctx context.Context, in string) (payload, error) {
		if in == "slow" {
			<-release
		}
		return payload{A: in}, nil
	}, newTestLogger())

	slowDone := make(chan State[payload], 1)
	go func() { slowDone <- g.Load(context.Background(), "slow", "slow") }()
	require.Eventually(t, func() bool { return g.Len() == 1 }, time.Second, 5*time.Millisecond)

	fast := g.Load(context.Background(), "fast", "fast")
	require.Equal(t, "fast", fast.Data.A)

	close(release)
	slow := <-slowDone
	require.NotNil(t, slow.Data)
	require.Equal(t, "slow", slow.Data.A)
}

func TestGroupFailureDoesNotSurfaceOtherKeysData(t *testing.T) {
	g := NewGroup[string]("health", 0, func(ctx context.Context, in string) (payload, error) {
		if in == "bad" {
			return payload{}, errors.New("health/recommendations: status 502")
		}
		return payload{A: in}, nil
	}, newTestLogger())

	ok := g.Load(context.Background(), "children", "children")
	require.Equal(t, "children", ok.Data.A)

	failed := g.Load(context.Background(), "bad", "bad")
	require.Nil(t, failed.Data)
	require.Contains(t, failed.Error, "502")
}

func TestGroupRefreshUsesTheKeysOwnInput(t *testing.T) {
	calls := map[string]int{}
	g := NewGroup[string]("home", 0, func(ctx context.Context, in string) (payload, error) {
		calls[in]++
		return payload{A: in}, nil
	}, newTestLogger())

	_, found := g.Refresh(context.Background(), "a")
	require.False(t, found)

	g.Load(context.Background(), "a", "a")
	g.Load(context.Background(), "b", "b")

	state, found := g.Refresh(context.Background(), "a")
	require.True(t, found)
	require.Equal(t, "a", state.Data.A)
	require.Equal(t, 2, calls["a"])
	require.Equal(t, 1, calls["b"])
}

func TestGroupEvictsLeastRecentlyUsed(t *testing.T) {
	g := NewGroup[string]("home", 2, func(ctx context.Context, in string) (payload, error) {
		return payload{A: in}, nil
	}, newTestLogger())
	clock := time.Date(2024, 11, 3, 9, 0, 0, 0, time.UTC)
	g.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	g.Load(context.Background(), "a", "a")
	g.Load(context.Background(), "b", "b")
	g.Load(context.Background(), "a", "a")
	g.Load(context.Background(), "c", "c")

	require.Equal(t, 2, g.Len())
	_, found := g.Snapshot("b")
	require.False(t, found)
	_, found = g.Snapshot("a")
	require.True(t, found)
}

func TestGroupCloseStopsLoads(t *testing.T) {
	calls := 0
	g := NewGroup[string]("home", 0, func(ctx context.Context, in string) (payload, error) {
		calls++
		return payload{A: in}, nil
	}, newTestLogger())

	g.Load(context.Background(), "a", "a")
	g.Close()

	state := g.Load(context.Background(), "a", "a")
	require.Nil(t, state.Data)
	require.Equal(t, 1, calls)
	require.Zero(t, g.Len())
}
