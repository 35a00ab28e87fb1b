package fleet

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/a-bouts/nav-planner/grid"
	"github.com/a-bouts/nav-planner/hazard"
	"github.com/a-bouts/nav-planner/latlon"
	"github.com/a-bouts/nav-planner/metrics"
	"github.com/a-bouts/nav-planner/route"
)

const (
	// DefaultSize is the number of captains consulted.
	DefaultSize = 100
	// BaselineSteps is the resolution of the straight line the bounds are
	// derived from.
	BaselineSteps = 8

	riskFactor     = 3.0
	distanceFactor = 0.02
)

// ErrNoConsensus is returned when no profile produced a route.
var ErrNoConsensus = errors.New("no ocean-only path found")

// Score ranks a candidate route. Lower is better.
func Score(meanRisk, distKm float64) float64 {
	return riskFactor*meanRisk + distanceFactor*distKm
}

type Request struct {
	Origin      latlon.LatLon   `json:"origin"`
	Destination latlon.LatLon   `json:"destination"`
	Hazards     []hazard.Hazard `json:"hazards"`
	Size        int             `json:"fleetSize"`
	// Seed makes the profile set reproducible. Zero draws a fresh seed.
	Seed int64 `json:"seed"`
}

type Candidate struct {
	Profile    Profile      `json:"profile"`
	Route      *route.Route `json:"-"`
	DistanceKm float64      `json:"distanceKm"`
	MeanRisk   float64      `json:"meanRisk"`
	Score      float64      `json:"score"`
}

type Result struct {
	Seed           int64       `json:"seed"`
	Winner         Candidate   `json:"winner"`
	Candidates     []Candidate `json:"candidates"`
	Successful     int         `json:"successful"`
	Total          int         `json:"total"`
	Abandoned      int         `json:"abandoned"`
	SafestFraction float64     `json:"safestFraction"`
}

func (r *Result) Route() *route.Route {
	return r.Winner.Route
}

// Rationale phrases how strongly the fleet leaned towards safety.
func (r *Result) Rationale() string {
	return fmt.Sprintf("Consensus favored staying clear: %d%% of captains prioritized safety.", int(math.Round(100*r.SafestFraction)))
}

func (r *Result) Summary() string {
	return fmt.Sprintf("Fleet consensus selected a safe route • %d/%d valid • distance %d km", r.Successful, r.Total, int(math.Round(r.Winner.DistanceKm)))
}

// Planner runs an ensemble of path searches against one mask.
type Planner struct {
	Mask      route.Mask
	Workers   int
	Generator Generator
}

func NewPlanner(mask route.Mask, workers int) *Planner {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Planner{
		Mask:      mask,
		Workers:   workers,
		Generator: DefaultGenerator,
	}
}

// Bounds returns the search area of a profile: the baseline box padded by
// the profile's own padding.
func Bounds(baseline []latlon.LatLon, p Profile) grid.Bounds {
	return grid.Around(baseline, p.Pad)
}

type outcome int

const (
	abandoned outcome = iota
	failed
	succeeded
)

// Consensus plans one route per profile and keeps the lowest score. Runs
// still queued when ctx is done are abandoned and left out of the result.
func (p *Planner) Consensus(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	size := req.Size
	if size <= 0 {
		size = DefaultSize
	}
	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	profiles := p.Generator.Profiles(size, NewRand(seed))
	baseline := route.Baseline(req.Origin, req.Destination, BaselineSteps)

	slots := make([]Candidate, len(profiles))
	outcomes := make([]outcome, len(profiles))

	var g errgroup.Group
	g.SetLimit(max(1, p.Workers))
	for i, prof := range profiles {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			t := time.Now()
			r, err := route.Plan(p.Mask, route.Request{
				Origin:      req.Origin,
				Destination: req.Destination,
				Hazards:     req.Hazards,
				Bounds:      Bounds(baseline, prof),
				Mode:        prof.Mode,
				RiskWeight:  prof.RiskWeight,
				Step:        prof.Step,
			})
			metrics.PlanDuration.WithLabelValues(string(prof.Mode)).Observe(time.Since(t).Seconds())
			if err != nil {
				metrics.Plans.WithLabelValues(string(prof.Mode), "failed").Inc()
				log.Debugf("Captain %d (%s) found no route: %v", prof.ID, prof.Mode, err)
				outcomes[i] = failed
				return nil
			}
			metrics.Plans.WithLabelValues(string(prof.Mode), "ok").Inc()
			slots[i] = Candidate{
				Profile:    prof,
				Route:      r,
				DistanceKm: r.DistanceKm,
				MeanRisk:   r.MeanRisk,
				Score:      Score(r.MeanRisk, r.DistanceKm),
			}
			outcomes[i] = succeeded
			return nil
		})
	}
	// tasks never return errors
	_ = g.Wait()

	res := &Result{Seed: seed, Total: len(profiles)}
	safest := 0
	for i, o := range outcomes {
		switch o {
		case abandoned:
			res.Abandoned++
		case succeeded:
			res.Candidates = append(res.Candidates, slots[i])
			if slots[i].Profile.Mode == route.Safest {
				safest++
			}
		}
	}
	res.Successful = len(res.Candidates)
	metrics.Candidates.WithLabelValues("ok").Add(float64(res.Successful))
	metrics.Candidates.WithLabelValues("failed").Add(float64(res.Total - res.Successful - res.Abandoned))
	metrics.Candidates.WithLabelValues("abandoned").Add(float64(res.Abandoned))

	if res.Successful == 0 {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoConsensus, err)
		}
		return nil, ErrNoConsensus
	}

	sort.SliceStable(res.Candidates, func(i, j int) bool {
		return res.Candidates[i].Score < res.Candidates[j].Score
	})
	res.Winner = res.Candidates[0]
	res.SafestFraction = float64(safest) / float64(res.Successful)

	log.Debugf("Consensus seed %d: %d/%d valid, %d abandoned, winner %d (%s) score %.3f in %s",
		seed, res.Successful, res.Total, res.Abandoned, res.Winner.Profile.ID, res.Winner.Profile.Mode, res.Winner.Score, time.Since(start))
	return res, nil
}
