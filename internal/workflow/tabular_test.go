package workflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"omnidesk/internal/api"
)

func TestTabularUploadThenQuery(t *testing.T) {
	t.Parallel()

	svc := &fakeService{
		queryTableFn: func(ctx context.Context, question string) (string, error) {
			require.Equal(t, "How many rows?", question)
			return "120", nil
		},
	}
	data := NewTabular(svc)

	require.NoError(t, data.Select(csvRef("data.csv")))
	require.NoError(t, data.Upload(context.Background()))
	require.Equal(t, StateReady, data.Snapshot().State)

	require.NoError(t, data.Query(context.Background(), "How many rows?"))

	snap := data.Snapshot()
	require.Equal(t, "120", snap.Answer)
	require.False(t, snap.Querying)
	require.Equal(t, StateReady, snap.State)
}

func TestTabularQueryRejectedBeforeReady(t *testing.T) {
	t.Parallel()

	svc := &fakeService{}
	data := NewTabular(svc)

	// no file at all
	err := data.Query(context.Background(), "How many rows?")
	require.True(t, IsValidation(err))
	require.Zero(t, svc.queryCalls.Load())

	// selected but not uploaded
	require.NoError(t, data.Select(csvRef("data.csv")))
	err = data.Query(context.Background(), "How many rows?")
	require.True(t, IsValidation(err))
	require.Zero(t, svc.queryCalls.Load())
}

func TestTabularQueryRejectsEmptyQuestion(t *testing.T) {
	t.Parallel()

	svc := &fakeService{}
	data := NewTabular(svc)
	require.NoError(t, data.Select(csvRef("data.csv")))
	require.NoError(t, data.Upload(context.Background()))

	err := data.Query(context.Background(), "   ")
	require.True(t, IsValidation(err))
	require.Zero(t, svc.queryCalls.Load())
}

func TestTabularRepeatedQueries(t *testing.T) {
	t.Parallel()

	answers := []string{"120", "7 columns"}
	var i int
	svc := &fakeService{
		queryTableFn: func(ctx context.Context, question string) (string, error) {
			a := answers[i]
			i++
			return a, nil
		},
	}
	data := NewTabular(svc)
	require.NoError(t, data.Select(csvRef("data.csv")))
	require.NoError(t, data.Upload(context.Background()))

	require.NoError(t, data.Query(context.Background(), "rows?"))
	require.Equal(t, "120", data.Snapshot().Answer)
	require.NoError(t, data.Query(context.Background(), "columns?"))
	require.Equal(t, "7 columns", data.Snapshot().Answer)
	require.Equal(t, StateReady, data.Snapshot().State)
}

func TestTabularQueryFailureKeepsReady(t *testing.T) {
	t.Parallel()

	svc := &fakeService{
		queryTableFn: func(ctx context.Context, question string) (string, error) {
			return "", &api.TransportError{Message: "analysis failed"}
		},
	}
	data := NewTabular(svc)
	require.NoError(t, data.Select(csvRef("data.csv")))
	require.NoError(t, data.Upload(context.Background()))

	require.Error(t, data.Query(context.Background(), "rows?"))

	snap := data.Snapshot()
	require.Equal(t, StateReady, snap.State, "query failure does not lose the upload")
	require.Equal(t, "analysis failed", snap.Err)
	require.False(t, snap.Querying)
}

func TestTabularRejectsOverlappingQuery(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	started := make(chan struct{})
	svc := &fakeService{
		queryTableFn: func(ctx context.Context, question string) (string, error) {
			close(started)
			<-release
			return "42", nil
		},
	}
	data := NewTabular(svc)
	require.NoError(t, data.Select(csvRef("data.csv")))
	require.NoError(t, data.Upload(context.Background()))

	done := make(chan error, 1)
	go func() { done <- data.Query(context.Background(), "slow?") }()
	<-started

	require.ErrorIs(t, data.Query(context.Background(), "second?"), ErrBusy)
	require.ErrorIs(t, data.Upload(context.Background()), ErrBusy)

	close(release)
	require.NoError(t, <-done)
	require.Equal(t, int64(1), svc.queryCalls.Load())
}

func TestTabularReselectClearsAnswer(t *testing.T) {
	t.Parallel()

	svc := &fakeService{}
	data := NewTabular(svc)
	require.NoError(t, data.Select(csvRef("a.csv")))
	require.NoError(t, data.Upload(context.Background()))
	require.NoError(t, data.Query(context.Background(), "rows?"))
	require.NotEmpty(t, data.Snapshot().Answer)

	require.NoError(t, data.Select(csvRef("b.csv")))
	snap := data.Snapshot()
	require.Equal(t, StateSelected, snap.State)
	require.Empty(t, snap.Answer)
	require.Empty(t, snap.Message)
}
