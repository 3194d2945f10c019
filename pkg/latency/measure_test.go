package latency

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeasureReturnsResultAndElapsed(t *testing.T) {
	result, ms, err := Measure(context.Background(), "classification", func(ctx context.Context) (string, error) {
		time.Sleep(20 * time.Millisecond)
		return "data_perusahaan", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "data_perusahaan", result)
	assert.GreaterOrEqual(t, ms, int64(20))
}

func TestMeasureReportsElapsedOnError(t *testing.T) {
	boom := errors.New("boom")
	result, ms, err := Measure(context.Background(), "execution", func(ctx context.Context) ([]int, error) {
		time.Sleep(5 * time.Millisecond)
		return nil, boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Nil(t, result)
	assert.GreaterOrEqual(t, ms, int64(5))
}

func TestMeasurePassesContext(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "room-7")

	got, _, err := Measure(ctx, "retrieval", func(ctx context.Context) (any, error) {
		return ctx.Value(key{}), nil
	})

	require.NoError(t, err)
	assert.Equal(t, "room-7", got)
}
