package route

import (
	"container/heap"
	"math"

	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/nav-planner/grid"
	"github.com/a-bouts/nav-planner/latlon"
	"github.com/a-bouts/nav-planner/risk"
)

// Mask is the navigability oracle the search runs against.
type Mask interface {
	grid.Mask
	SegmentOK(a, b latlon.LatLon) bool
	CoastPenalty(lat, lon float64) float64
}

// TurnScale converts a heading change in radians into cost units.
const TurnScale = 10.0

type direction struct {
	dRow int
	dCol int
}

type search struct {
	mask    Mask
	grid    *grid.Grid
	field   risk.Field
	weights Weights
	goal    grid.Node

	g       map[grid.Key]float64
	f       map[grid.Key]float64
	came    map[grid.Key]grid.Key
	heading map[grid.Key]direction
	closed  map[grid.Key]bool
	open    priorityQueue

	expanded int
}

func newSearch(mask Mask, g *grid.Grid, field risk.Field, w Weights, goal grid.Node) *search {
	return &search{
		mask:    mask,
		grid:    g,
		field:   field,
		weights: w,
		goal:    goal,
		g:       make(map[grid.Key]float64),
		f:       make(map[grid.Key]float64),
		came:    make(map[grid.Key]grid.Key),
		heading: make(map[grid.Key]direction),
		closed:  make(map[grid.Key]bool),
	}
}

func (s *search) heuristic(k grid.Key) float64 {
	return latlon.DistanceTo(s.grid.Position(k), s.goal.LatLon)
}

func (s *search) turnPenalty(k grid.Key, d direction) float64 {
	prev, ok := s.heading[k]
	if !ok {
		return 0
	}
	return latlon.Angle(float64(prev.dRow), float64(prev.dCol), float64(d.dRow), float64(d.dCol)) * TurnScale
}

func (s *search) stepCost(from, to grid.Key, d direction) float64 {
	a := s.grid.Position(from)
	b := s.grid.Position(to)
	mid := latlon.Midpoint(a, b)
	w := s.weights
	return w.Dist*latlon.DistanceTo(a, b) +
		w.Risk*s.field.Value(to) +
		w.Turn*s.turnPenalty(from, d) +
		w.Coast*s.mask.CoastPenalty(mid.Lat, mid.Lon)
}

func (s *search) push(k grid.Key, g float64) {
	f := g + s.heuristic(k)
	s.g[k] = g
	s.f[k] = f
	heap.Push(&s.open, pqItem{key: k, f: f})
}

// run returns the lattice keys from start to goal inclusive, or false when
// the frontier empties first.
func (s *search) run(start grid.Key) ([]grid.Key, bool) {
	s.push(start, 0)

	for s.open.Len() > 0 {
		item := heap.Pop(&s.open).(pqItem)
		cur := item.key
		if s.closed[cur] || item.f > s.f[cur] {
			continue
		}
		if cur == s.goal.Key {
			return s.reconstruct(cur), true
		}
		s.closed[cur] = true
		s.expanded++

		gc := s.g[cur]
		for dr := -1; dr <= 1; dr++ {
			for dc := -1; dc <= 1; dc++ {
				if dr == 0 && dc == 0 {
					continue
				}
				nb := grid.Key{Row: cur.Row + dr, Col: cur.Col + dc}
				if !s.grid.InRange(nb) || !s.grid.Has(nb) || s.closed[nb] {
					continue
				}
				if !s.mask.SegmentOK(s.grid.Position(cur), s.grid.Position(nb)) {
					continue
				}
				d := direction{dRow: dr, dCol: dc}
				tentative := gc + s.stepCost(cur, nb, d)
				old, seen := s.g[nb]
				if !seen {
					old = math.Inf(1)
				}
				if tentative < old {
					s.came[nb] = cur
					s.heading[nb] = d
					s.push(nb, tentative)
				}
			}
		}
	}
	log.Debugf("Frontier exhausted after %d expansions", s.expanded)
	return nil, false
}

func (s *search) reconstruct(k grid.Key) []grid.Key {
	rev := []grid.Key{k}
	for {
		p, ok := s.came[k]
		if !ok {
			break
		}
		rev = append(rev, p)
		k = p
	}
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return rev
}
