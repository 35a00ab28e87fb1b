package fleet

import (
	"math"

	"github.com/a-bouts/nav-planner/route"
)

// Profile is the parameter bundle of one ensemble member.
type Profile struct {
	ID         int        `json:"id"`
	Mode       route.Mode `json:"mode"`
	RiskWeight float64    `json:"riskWeight"`
	Step       float64    `json:"gridStepDeg"`
	Pad        float64    `json:"pad"`
}

// Preset is the share of the fleet sailing a mode and the range its risk
// weight is drawn from.
type Preset struct {
	Mode     route.Mode `json:"mode"`
	Share    float64    `json:"share"`
	RiskMin  float64    `json:"riskMin"`
	RiskSpan float64    `json:"riskSpan"`
}

// Generator draws profiles. The last preset takes whatever the rounded
// shares of the others leave.
type Generator struct {
	Presets  []Preset
	StepMin  float64
	StepSpan float64
	PadMin   int
	PadSpan  int
}

var DefaultGenerator = Generator{
	Presets: []Preset{
		{Mode: route.Safest, Share: 0.40, RiskMin: 1.6, RiskSpan: 0.6},
		{Mode: route.Balanced, Share: 0.35, RiskMin: 1.0, RiskSpan: 0.6},
		{Mode: route.Fuel, Share: 0.15, RiskMin: 0.8, RiskSpan: 0.4},
		{Mode: route.Fastest, RiskMin: 0.6, RiskSpan: 0.3},
	},
	StepMin:  0.24,
	StepSpan: 0.16,
	PadMin:   10,
	PadSpan:  6,
}

// Counts returns how many of n profiles each preset gets.
func (gen Generator) Counts(n int) []int {
	counts := make([]int, len(gen.Presets))
	left := n
	for i, p := range gen.Presets {
		c := left
		if i < len(gen.Presets)-1 {
			c = min(int(math.Round(float64(n)*p.Share)), left)
		}
		counts[i] = c
		left -= c
	}
	return counts
}

// Profiles draws n profiles from r, grouped by preset order.
func (gen Generator) Profiles(n int, r *Rand) []Profile {
	res := make([]Profile, 0, n)
	for i, c := range gen.Counts(n) {
		p := gen.Presets[i]
		for j := 0; j < c; j++ {
			pad := gen.PadMin
			if gen.PadSpan > 0 {
				pad += r.Intn(gen.PadSpan)
			}
			res = append(res, Profile{
				ID:         len(res),
				Mode:       p.Mode,
				RiskWeight: p.RiskMin + r.Float64()*p.RiskSpan,
				Step:       gen.StepMin + r.Float64()*gen.StepSpan,
				Pad:        float64(pad),
			})
		}
	}
	return res
}
