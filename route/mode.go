package route

import (
	"fmt"
	"math"
	"strings"
)

type Mode string

const (
	Safest   Mode = "safest"
	Balanced Mode = "balanced"
	Fuel     Mode = "fuel"
	Fastest  Mode = "fastest"
)

// Modes lists every routing mode in preset order.
var Modes = []Mode{Safest, Balanced, Fuel, Fastest}

// ParseMode accepts any case. The empty string is Balanced.
func ParseMode(s string) (Mode, error) {
	if s == "" {
		return Balanced, nil
	}
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Modes {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

// Weights are the coefficients of the composite step cost.
type Weights struct {
	Dist  float64 `json:"wDist"`
	Risk  float64 `json:"wRisk"`
	Turn  float64 `json:"wTurn"`
	Coast float64 `json:"wCoast"`
}

// WeightsFor scales the mode preset by the profile's risk weight. Each mode
// keeps a floor on the risk coefficient. Unknown modes use Balanced.
func WeightsFor(mode Mode, riskWeight float64) Weights {
	switch mode {
	case Fastest:
		return Weights{Dist: 1.0, Risk: math.Max(0.2, riskWeight*0.4), Turn: 0.06, Coast: 70}
	case Safest:
		return Weights{Dist: 1.2, Risk: math.Max(1.5, riskWeight*1.8), Turn: 0.12, Coast: 90}
	case Fuel:
		return Weights{Dist: 0.9, Risk: math.Max(0.9, riskWeight*1.2), Turn: 0.20, Coast: 80}
	default:
		return Weights{Dist: 1.0, Risk: math.Max(1.2, riskWeight), Turn: 0.15, Coast: 80}
	}
}
