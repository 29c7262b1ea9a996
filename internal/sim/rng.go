package sim

import (
	"math/rand"
	"time"
)

// rngService centralizes every random draw made during a simulation run, so
// that a fixed seed reproduces byte-identical results regardless of which
// component happens to ask for a number next. Draw order is pinned by the
// scheduler's deterministic dispatch order, not by this type.
type rngService struct {
	r *rand.Rand
}

// newRNGService seeds a fresh generator. seed == 0 derives a seed from the
// clock (non-deterministic); any other value is used verbatim.
func newRNGService(seed int64) *rngService {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &rngService{r: rand.New(rand.NewSource(seed))}
}

// uniform01 returns a draw in [0, 1).
func (s *rngService) uniform01() float64 {
	return s.r.Float64()
}

// uniformInt returns a draw in [lo, hi] inclusive. Returns lo if hi <= lo.
func (s *rngService) uniformInt(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.r.Intn(hi-lo+1)
}

// uniformIntRange64 returns a draw in [0, n] inclusive, as int64. Returns 0
// if n <= 0.
func (s *rngService) uniformIntRange64(n int64) int64 {
	if n <= 0 {
		return 0
	}
	return s.r.Int63n(n + 1)
}

// classDraw returns a uniform class index in [0, k).
func (s *rngService) classDraw(k int) int {
	return s.r.Intn(k)
}
