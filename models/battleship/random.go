package battleship

import (
	"math/rand/v2"
	"sync"
	"time"
)

// RandomSource feeds the placement engine. Implementations decide how
// directions and anchors are drawn; tests script them.
type RandomSource interface {
	Direction() Direction
	// Between returns a value in [lo, hi], both inclusive.
	Between(lo, hi int) int
}

type rngSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

var _ RandomSource = (*rngSource)(nil)

// NewRandomSource returns a deterministic source for the given seed.
func NewRandomSource(seed uint64) RandomSource {
	return &rngSource{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func NewTimeSeededSource() RandomSource {
	return NewRandomSource(uint64(time.Now().UnixNano()))
}

func (s *rngSource) Direction() Direction {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Directions[s.rng.IntN(len(Directions))]
}

func (s *rngSource) Between(lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return lo + s.rng.IntN(hi-lo+1)
}
