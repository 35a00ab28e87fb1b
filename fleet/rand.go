package fleet

import "github.com/MichaelTJones/pcg"

// Rand is a seedable PCG source, stable across platforms and Go releases.
type Rand struct {
	r *pcg.PCG32
}

func NewRand(seed int64) *Rand {
	r := &Rand{r: pcg.NewPCG32()}
	r.r.Seed(uint64(seed), 0xda3e39cb94b95bdb)
	return r
}

// Float64 returns a value in [0,1).
func (r *Rand) Float64() float64 {
	return float64(r.r.Random()) / (1 << 32)
}

func (r *Rand) Intn(n int) int {
	return int(r.r.Bounded(uint32(n)))
}
