package rng

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntBetweenStaysInBounds(t *testing.T) {
	s := NewService(1, nil)
	for i := 0; i < 200; i++ {
		v, err := s.IntBetween(3, 7)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, v, 3)
		assert.LessOrEqual(t, v, 7)
	}
}

func TestIntBetweenSwapsReversedBounds(t *testing.T) {
	s := NewService(1, nil)
	v, err := s.IntBetween(7, 3)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, v, 3)
	assert.LessOrEqual(t, v, 7)
}

func TestSameSeedSameStream(t *testing.T) {
	a := NewService(42, nil)
	b := NewService(42, nil)
	for i := 0; i < 50; i++ {
		va, err := a.IntBetween(0, 1000)
		require.NoError(t, err)
		vb, err := b.IntBetween(0, 1000)
		require.NoError(t, err)
		assert.Equal(t, va, vb)
	}
}

func TestReplayReproducesRecording(t *testing.T) {
	recorder := NewService(7, nil)
	var drawn []int
	for i := 0; i < 20; i++ {
		v, err := recorder.IntBetween(1, 30)
		require.NoError(t, err)
		drawn = append(drawn, v)
	}

	replayer := NewService(999, nil) // different seed, must not matter
	replayer.LoadSequence(recorder.RecordedSequence())
	require.Equal(t, ModeReplay, replayer.Mode())

	for i := 0; i < 20; i++ {
		v, err := replayer.IntBetween(1, 30)
		require.NoError(t, err)
		assert.Equal(t, drawn[i], v, "draw %d diverged", i)
	}
}

func TestReplayCoversAllHelpers(t *testing.T) {
	recorder := NewService(3, nil)
	i1, _ := recorder.IntBetween(0, 9)
	f1, _ := recorder.Float64Between(0, 1)
	c1, _ := recorder.Chance(0.5)
	p1, _ := recorder.Shuffle(5)
	w1, _ := recorder.Weighted([]float64{1, 2, 3})

	replayer := NewService(0, nil)
	replayer.LoadSequence(recorder.RecordedSequence())
	i2, _ := replayer.IntBetween(0, 9)
	f2, _ := replayer.Float64Between(0, 1)
	c2, _ := replayer.Chance(0.5)
	p2, _ := replayer.Shuffle(5)
	w2, _ := replayer.Weighted([]float64{1, 2, 3})

	assert.Equal(t, i1, i2)
	assert.Equal(t, f1, f2)
	assert.Equal(t, c1, c2)
	assert.Equal(t, p1, p2)
	assert.Equal(t, w1, w2)
	assert.Equal(t, 0, replayer.Remaining())
}

func TestReplayExhaustionFails(t *testing.T) {
	s := NewService(0, nil)
	s.LoadSequence([]float64{0.5})

	_, err := s.IntBetween(0, 9)
	require.NoError(t, err)

	_, err = s.IntBetween(0, 9)
	assert.ErrorIs(t, err, ErrSequenceExhausted)
}

func TestShuffleIsPermutation(t *testing.T) {
	s := NewService(11, nil)
	perm, err := s.Shuffle(10)
	require.NoError(t, err)
	require.Len(t, perm, 10)

	seen := make(map[int]bool)
	for _, i := range perm {
		assert.GreaterOrEqual(t, i, 0)
		assert.Less(t, i, 10)
		assert.False(t, seen[i], "index %d repeated", i)
		seen[i] = true
	}
}

func TestWeightedSkipsNonPositiveWeights(t *testing.T) {
	s := NewService(5, nil)
	for i := 0; i < 100; i++ {
		idx, err := s.Weighted([]float64{0, -1, 4})
		require.NoError(t, err)
		assert.Equal(t, 2, idx)
	}
}

func TestWeightedEmptyFails(t *testing.T) {
	s := NewService(5, nil)
	_, err := s.Weighted(nil)
	assert.Error(t, err)
}

func TestIndexUniformBounds(t *testing.T) {
	s := NewService(5, nil)
	for i := 0; i < 100; i++ {
		idx, err := s.Index(4)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, idx, 0)
		assert.Less(t, idx, 4)
	}
	_, err := s.Index(0)
	assert.Error(t, err)
}

func TestResetRestoresGenerateMode(t *testing.T) {
	s := NewService(21, nil)
	first, err := s.IntBetween(0, 1000)
	require.NoError(t, err)

	s.LoadSequence([]float64{0.1})
	s.Reset()

	require.Equal(t, ModeGenerate, s.Mode())
	again, err := s.IntBetween(0, 1000)
	require.NoError(t, err)
	assert.Equal(t, first, again, "reset must reseed the original stream")
	assert.Len(t, s.RecordedSequence(), 1)
}
