package pipeline

import (
	"context"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/kbukum/fusekit/stage"
)

func ints() *rapid.Generator[[]int] {
	return rapid.SliceOfN(rapid.IntRange(-1000, 1000), 0, 50)
}

func TestPropertyMapFilterMatchSliceSemantics(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		xs := ints().Draw(rt, "xs")

		p := Map(Filter(FromSlice(xs), func(n int) bool { return n%3 != 0 }),
			func(_ context.Context, n int) (int, error) { return n * 2, nil })
		got, err := Collect(context.Background(), p)
		require.NoError(rt, err)

		var want []int
		for _, n := range xs {
			if n%3 != 0 {
				want = append(want, n*2)
			}
		}
		assert.Equal(rt, len(want), len(got))
		assert.True(rt, slices.Equal(want, got), "got %v want %v", got, want)
	})
}

func TestPropertyTakeIsPrefix(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		xs := ints().Draw(rt, "xs")
		n := rapid.IntRange(0, 60).Draw(rt, "n")

		src := &sliceSource{items: xs}
		got, err := Collect(context.Background(), Take(From[int](src), n))
		require.NoError(rt, err)

		k := min(n, len(xs))
		assert.True(rt, slices.Equal(xs[:k], got), "got %v want %v", got, xs[:k])
		// the source is never read past the n-th element, or one element for Take(0)
		assert.LessOrEqual(rt, src.index, max(n, 1))
	})
}

func TestPropertyDropIsSuffix(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		xs := ints().Draw(rt, "xs")
		n := rapid.IntRange(0, 60).Draw(rt, "n")

		got, err := Collect(context.Background(), Drop(FromSlice(xs), n))
		require.NoError(rt, err)
		want := xs[min(n, len(xs)):]
		assert.True(rt, slices.Equal(want, got), "got %v want %v", got, want)
	})
}

func TestPropertyGroupedPartitionsInput(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		xs := ints().Draw(rt, "xs")
		n := rapid.IntRange(1, 10).Draw(rt, "n")

		groups, err := Collect(context.Background(), Grouped(FromSlice(xs), n))
		require.NoError(rt, err)

		var flat []int
		for i, g := range groups {
			if i < len(groups)-1 {
				assert.Len(rt, g, n)
			} else {
				assert.True(rt, len(g) >= 1 && len(g) <= n, "last group size %d", len(g))
			}
			flat = append(flat, g...)
		}
		assert.True(rt, slices.Equal(xs, flat), "flattened %v want %v", flat, xs)
	})
}

func TestPropertyScanEndsWithFold(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		xs := ints().Draw(rt, "xs")
		add := func(acc, n int) int { return acc + n }

		scanned, err := Collect(context.Background(), Scan(FromSlice(xs), 0, add))
		require.NoError(rt, err)
		folded, err := Collect(context.Background(), Reduce(FromSlice(xs), 0, add))
		require.NoError(rt, err)

		require.Len(rt, scanned, len(xs)+1)
		require.Len(rt, folded, 1)
		assert.Equal(rt, 0, scanned[0])
		assert.Equal(rt, folded[0], scanned[len(scanned)-1])
	})
}

func TestPropertyBufferPreservesOrder(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		xs := ints().Draw(rt, "xs")
		size := rapid.IntRange(1, 8).Draw(rt, "size")
		strategy := rapid.SampledFrom([]stage.OverflowStrategy{
			stage.DropHead, stage.DropTail, stage.DropBuffer, stage.Backpressure,
		}).Draw(rt, "strategy")

		got, err := Collect(context.Background(), Buffer(FromSlice(xs), size, strategy))
		require.NoError(rt, err)

		// every strategy may only drop: the output is a subsequence of the input
		i := 0
		for _, x := range xs {
			if i < len(got) && got[i] == x {
				i++
			}
		}
		assert.Equal(rt, len(got), i, "output %v is not a subsequence of %v", got, xs)
		if strategy == stage.Backpressure {
			assert.True(rt, slices.Equal(xs, got))
		}
	})
}

func TestPropertyFlatMapConcatenates(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		xs := rapid.SliceOfN(rapid.IntRange(0, 4), 0, 20).Draw(rt, "xs")
		repeat := func(_ context.Context, n int) []int { return slices.Repeat([]int{n}, n) }

		got, err := Collect(context.Background(), FlatMap(FromSlice(xs), repeat))
		require.NoError(rt, err)

		var want []int
		for _, n := range xs {
			want = append(want, repeat(context.Background(), n)...)
		}
		assert.True(rt, slices.Equal(want, got), "got %v want %v", got, want)
	})
}

// sliceSource is a slice iterator that exposes how far it was read.
type sliceSource struct {
	items []int
	index int
}

func (s *sliceSource) Next(_ context.Context) (int, bool, error) {
	if s.index >= len(s.items) {
		return 0, false, nil
	}
	s.index++
	return s.items[s.index-1], true, nil
}

func (s *sliceSource) Close() error { return nil }
