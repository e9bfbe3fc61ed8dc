// Package rng provides the engine's random service. In generate mode values
// come from a seedable PRNG and every draw is recorded; in replay mode the
// service plays a previously recorded sequence back verbatim, which makes
// whole games reproducible from their logs.
package rng

import (
	"errors"
	"math/rand"
	"sync"

	"go.uber.org/zap"
)

// ErrSequenceExhausted is returned in replay mode when the recorded sequence
// has no values left.
var ErrSequenceExhausted = errors.New("rng: replay sequence exhausted")

// Mode selects where random values come from.
type Mode string

const (
	ModeGenerate Mode = "GENERATE"
	ModeReplay   Mode = "REPLAY"
)

// Service produces random values and records them for replay.
type Service struct {
	mu       sync.Mutex
	mode     Mode
	src      *rand.Rand
	seed     int64
	recorded []float64
	sequence []float64
	cursor   int
	logger   *zap.Logger
}

// NewService creates a service in generate mode with the given seed.
func NewService(seed int64, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		mode:   ModeGenerate,
		src:    rand.New(rand.NewSource(seed)),
		seed:   seed,
		logger: logger,
	}
}

// Mode reports whether the service is generating or replaying.
func (s *Service) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Seed returns the seed the generator was created with.
func (s *Service) Seed() int64 {
	return s.seed
}

// next produces the next unit-interval value, recording or replaying it
// depending on mode. All public draws are derived from this single stream so
// a recorded game replays regardless of which helpers it called.
func (s *Service) next() (float64, error) {
	if s.mode == ModeReplay {
		if s.cursor >= len(s.sequence) {
			return 0, ErrSequenceExhausted
		}
		v := s.sequence[s.cursor]
		s.cursor++
		return v, nil
	}
	v := s.src.Float64()
	s.recorded = append(s.recorded, v)
	return v, nil
}

// IntBetween returns an integer in [min, max]. Both bounds are inclusive; if
// min > max the bounds are swapped.
func (s *Service) IntBetween(min, max int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if min > max {
		min, max = max, min
	}
	v, err := s.next()
	if err != nil {
		return 0, err
	}
	return min + int(v*float64(max-min+1)), nil
}

// Float64Between returns a float in [min, max).
func (s *Service) Float64Between(min, max float64) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if min > max {
		min, max = max, min
	}
	v, err := s.next()
	if err != nil {
		return 0, err
	}
	return min + v*(max-min), nil
}

// Chance returns true with the given probability in [0, 1].
func (s *Service) Chance(probability float64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.next()
	if err != nil {
		return false, err
	}
	return v < probability, nil
}

// Index returns a uniform index into a collection of length n. n must be
// positive.
func (s *Service) Index(n int) (int, error) {
	if n <= 0 {
		return 0, errors.New("rng: index into empty collection")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.next()
	if err != nil {
		return 0, err
	}
	i := int(v * float64(n))
	if i >= n {
		i = n - 1
	}
	return i, nil
}

// Shuffle permutes indices 0..n-1 with Fisher-Yates and returns the
// permutation. Callers apply it to their own slices.
func (s *Service) Shuffle(n int) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	for i := n - 1; i > 0; i-- {
		v, err := s.next()
		if err != nil {
			return nil, err
		}
		j := int(v * float64(i+1))
		if j > i {
			j = i
		}
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm, nil
}

// Weighted picks an index with probability proportional to its weight.
// Non-positive weights contribute nothing; if the total weight is zero the
// pick is uniform.
func (s *Service) Weighted(weights []float64) (int, error) {
	if len(weights) == 0 {
		return 0, errors.New("rng: weighted pick from empty collection")
	}
	var total float64
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.next()
	if err != nil {
		return 0, err
	}
	if total == 0 {
		i := int(v * float64(len(weights)))
		if i >= len(weights) {
			i = len(weights) - 1
		}
		return i, nil
	}
	target := v * total
	var acc float64
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		acc += w
		if target < acc {
			return i, nil
		}
	}
	return len(weights) - 1, nil
}

// RecordedSequence returns a copy of every value drawn so far in generate
// mode.
func (s *Service) RecordedSequence() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]float64, len(s.recorded))
	copy(out, s.recorded)
	return out
}

// LoadSequence switches the service into replay mode over the given values.
func (s *Service) LoadSequence(values []float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = ModeReplay
	s.sequence = make([]float64, len(values))
	copy(s.sequence, values)
	s.cursor = 0
	s.logger.Debug("rng replay sequence loaded", zap.Int("len", len(values)))
}

// Remaining reports how many replay values are left. In generate mode it
// returns 0.
func (s *Service) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode != ModeReplay {
		return 0
	}
	return len(s.sequence) - s.cursor
}

// Reset returns the service to generate mode, reseeds the generator with its
// original seed and clears the recording.
func (s *Service) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = ModeGenerate
	s.src = rand.New(rand.NewSource(s.seed))
	s.recorded = nil
	s.sequence = nil
	s.cursor = 0
}
