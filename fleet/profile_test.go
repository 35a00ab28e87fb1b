package fleet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a-bouts/nav-planner/route"
)

func TestCounts(t *testing.T) {
	assert.Equal(t, []int{40, 35, 15, 10}, DefaultGenerator.Counts(100))
	assert.Equal(t, []int{4, 4, 2, 0}, DefaultGenerator.Counts(10))
	assert.Equal(t, []int{0, 0, 0, 1}, DefaultGenerator.Counts(1))

	for n := 0; n <= 200; n++ {
		sum := 0
		for _, c := range DefaultGenerator.Counts(n) {
			require.GreaterOrEqual(t, c, 0, "n=%d", n)
			sum += c
		}
		require.Equal(t, n, sum, "n=%d", n)
	}
}

func TestProfilesAreSeeded(t *testing.T) {
	a := DefaultGenerator.Profiles(100, NewRand(42))
	b := DefaultGenerator.Profiles(100, NewRand(42))
	c := DefaultGenerator.Profiles(100, NewRand(43))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestProfileRanges(t *testing.T) {
	ranges := map[route.Mode][2]float64{
		route.Safest:   {1.6, 2.2},
		route.Balanced: {1.0, 1.6},
		route.Fuel:     {0.8, 1.2},
		route.Fastest:  {0.6, 0.9},
	}
	modes := map[route.Mode]int{}
	for i, p := range DefaultGenerator.Profiles(100, NewRand(1)) {
		assert.Equal(t, i, p.ID)
		r := ranges[p.Mode]
		assert.GreaterOrEqual(t, p.RiskWeight, r[0], "%+v", p)
		assert.Less(t, p.RiskWeight, r[1], "%+v", p)
		assert.GreaterOrEqual(t, p.Step, 0.24)
		assert.Less(t, p.Step, 0.40)
		assert.Contains(t, []float64{10, 11, 12, 13, 14, 15}, p.Pad)
		modes[p.Mode]++
	}
	assert.Equal(t, map[route.Mode]int{route.Safest: 40, route.Balanced: 35, route.Fuel: 15, route.Fastest: 10}, modes)
}

func TestRand(t *testing.T) {
	r := NewRand(7)
	for i := 0; i < 1000; i++ {
		f := r.Float64()
		require.GreaterOrEqual(t, f, 0.0)
		require.Less(t, f, 1.0)
		n := r.Intn(6)
		require.GreaterOrEqual(t, n, 0)
		require.Less(t, n, 6)
	}
}
