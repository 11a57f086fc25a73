package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgmocks "github.com/sendcycle/sendcycle/pkg/mocks"
)

func TestChunkedProcessor_Process(t *testing.T) {
	t.Run("partitions by count and sums results", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		items := make([]int, 23)
		for i := range items {
			items[i] = i
		}

		processor := NewChunkedProcessor[int](5, 0, newLenientLogger(ctrl))

		var sizes []int
		result := processor.Process(context.Background(), items, func(ctx context.Context, chunk []int) (int, int, error) {
			sizes = append(sizes, len(chunk))
			return len(chunk), 0, nil
		})

		assert.Equal(t, []int{5, 5, 5, 5, 3}, sizes)
		assert.Equal(t, 23, result.Success)
		assert.Equal(t, 0, result.Failure)
		assert.Equal(t, 5, result.Chunks)
	})

	t.Run("failing chunk counts fully failed and run continues", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		items := make([]int, 25)
		processor := NewChunkedProcessor[int](5, 0, newLenientLogger(ctrl))

		chunkIdx := 0
		result := processor.Process(context.Background(), items, func(ctx context.Context, chunk []int) (int, int, error) {
			chunkIdx++
			if chunkIdx == 3 {
				return 0, 0, errors.New("smtp connection dropped")
			}
			return len(chunk), 0, nil
		})

		assert.Equal(t, 20, result.Success)
		assert.Equal(t, 5, result.Failure)
		assert.Equal(t, 5, result.Chunks)
	})

	t.Run("panicking chunk counts fully failed and run continues", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		items := make([]int, 25)
		processor := NewChunkedProcessor[int](5, 0, newLenientLogger(ctrl))

		chunkIdx := 0
		result := processor.Process(context.Background(), items, func(ctx context.Context, chunk []int) (int, int, error) {
			chunkIdx++
			if chunkIdx == 3 {
				panic("nil dereference in renderer")
			}
			return len(chunk), 0, nil
		})

		assert.Equal(t, 20, result.Success)
		assert.Equal(t, 5, result.Failure)
	})

	t.Run("cancellation stops before the next chunk", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		items := make([]int, 25)
		processor := NewChunkedProcessor[int](5, 0, newLenientLogger(ctrl))

		ctx, cancel := context.WithCancel(context.Background())
		result := processor.Process(ctx, items, func(ctx context.Context, chunk []int) (int, int, error) {
			cancel()
			return len(chunk), 0, nil
		})

		// The in-flight chunk completed, no new chunk started
		assert.Equal(t, 5, result.Success)
		assert.Equal(t, 1, result.Chunks)
	})

	t.Run("empty list runs zero chunks", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		processor := NewChunkedProcessor[int](5, 0, newLenientLogger(ctrl))
		result := processor.Process(context.Background(), nil, func(ctx context.Context, chunk []int) (int, int, error) {
			t.Fatal("should not be called")
			return 0, 0, nil
		})

		assert.Equal(t, ChunkResult{}, result)
	})

	t.Run("slow runs log progress at chunk boundaries", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		log := pkgmocks.NewMockLogger(ctrl)
		log.EXPECT().WithFields(gomock.Any()).Return(log).MinTimes(1)
		log.EXPECT().Info("Chunk processing progress").MinTimes(1)

		processor := NewChunkedProcessor[int](1, 0, log).WithProgressLogging(time.Millisecond)
		result := processor.Process(context.Background(), []int{1, 2, 3}, func(ctx context.Context, chunk []int) (int, int, error) {
			time.Sleep(5 * time.Millisecond)
			return len(chunk), 0, nil
		})

		assert.Equal(t, 3, result.Success)
	})

	t.Run("chunk size below one is clamped", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		processor := NewChunkedProcessor[int](0, 0, newLenientLogger(ctrl))
		result := processor.Process(context.Background(), []int{1, 2, 3}, func(ctx context.Context, chunk []int) (int, int, error) {
			require.Len(t, chunk, 1)
			return 1, 0, nil
		})

		assert.Equal(t, 3, result.Success)
		assert.Equal(t, 3, result.Chunks)
	})
}

func TestChunkedProcessor_ProcessSeq(t *testing.T) {
	t.Run("pulls until exhausted", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		remaining := 12
		source := func(ctx context.Context, n int) ([]int, error) {
			if remaining == 0 {
				return nil, nil
			}
			size := n
			if remaining < size {
				size = remaining
			}
			remaining -= size
			return make([]int, size), nil
		}

		processor := NewChunkedProcessor[int](5, 0, newLenientLogger(ctrl))
		result, err := processor.ProcessSeq(context.Background(), source, func(ctx context.Context, chunk []int) (int, int, error) {
			return len(chunk), 0, nil
		})

		require.NoError(t, err)
		assert.Equal(t, 12, result.Success)
		assert.Equal(t, 3, result.Chunks)
	})

	t.Run("source error returns partial totals", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		calls := 0
		source := func(ctx context.Context, n int) ([]int, error) {
			calls++
			if calls > 2 {
				return nil, errors.New("cursor closed")
			}
			return make([]int, n), nil
		}

		processor := NewChunkedProcessor[int](4, 0, newLenientLogger(ctrl))
		result, err := processor.ProcessSeq(context.Background(), source, func(ctx context.Context, chunk []int) (int, int, error) {
			return len(chunk), 0, nil
		})

		assert.Error(t, err)
		assert.Equal(t, 8, result.Success)
		assert.Equal(t, 2, result.Chunks)
	})
}
