package forecast

import (
	"sync"
	"time"

	"github.com/jasonlvhit/gocron"
	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/nav-planner/hazard"
	"github.com/a-bouts/nav-planner/metrics"
	"github.com/a-bouts/nav-planner/wind"
)

type Options struct {
	HazardFile    string
	GribDir       string
	GaleThreshold float64
	Refresh       time.Duration
}

// Store is the current hazard set: the hazard file merged with the gale
// cells of the closest wind forecast. Readers always get a copy.
type Store struct {
	opts  Options
	winds *wind.Winds

	lock    sync.RWMutex
	file    []hazard.Hazard
	gales   []hazard.Hazard
	updated time.Time

	now  func() time.Time
	stop chan bool
}

// NewStore loads the sources once. A broken hazard file is an error here;
// later refreshes keep the last good set instead.
func NewStore(opts Options) (*Store, error) {
	s := &Store{opts: opts, now: time.Now}
	if opts.GribDir != "" {
		s.winds = wind.NewWinds(opts.GribDir)
	}
	if opts.HazardFile != "" {
		hs, err := hazard.Load(opts.HazardFile)
		if err != nil {
			return nil, err
		}
		s.file = hs
	}
	s.refreshGales()
	s.publish()
	return s, nil
}

// InitStore creates the store and refreshes it on a schedule.
func InitStore(opts Options) (*Store, error) {
	s, err := NewStore(opts)
	if err != nil {
		return nil, err
	}
	if opts.Refresh <= 0 {
		return s, nil
	}

	sch := gocron.NewScheduler()
	job := sch.Every(uint64(opts.Refresh.Seconds())).Seconds()
	job.Do(s.Refresh)
	s.stop = sch.Start()

	return s, nil
}

func (s *Store) Close() {
	if s.stop != nil {
		s.stop <- true
	}
}

// Refresh reloads the hazard file and the wind forecasts.
func (s *Store) Refresh() {
	if s.opts.HazardFile != "" {
		hs, err := hazard.Load(s.opts.HazardFile)
		if err != nil {
			log.WithError(err).Errorf("Error reloading hazards '%s', keeping %d", s.opts.HazardFile, len(s.Hazards()))
		} else {
			s.lock.Lock()
			s.file = hs
			s.lock.Unlock()
		}
	}
	s.refreshGales()
	s.publish()
}

func (s *Store) refreshGales() {
	if s.winds == nil {
		return
	}
	if err := s.winds.Merge(); err != nil {
		log.WithError(err).Errorf("Error merging winds from '%s'", s.opts.GribDir)
	}
	gales := s.winds.Gales(s.now(), s.opts.GaleThreshold)

	s.lock.Lock()
	s.gales = gales
	s.lock.Unlock()
}

func (s *Store) publish() {
	s.lock.Lock()
	s.updated = s.now()
	nFile, nGales := len(s.file), len(s.gales)
	s.lock.Unlock()

	metrics.Hazards.WithLabelValues("file").Set(float64(nFile))
	metrics.Hazards.WithLabelValues("gale").Set(float64(nGales))
	log.Debugf("Hazards refreshed: %d from file, %d gales", nFile, nGales)
}

func (s *Store) Hazards() []hazard.Hazard {
	s.lock.RLock()
	defer s.lock.RUnlock()

	res := make([]hazard.Hazard, 0, len(s.file)+len(s.gales))
	res = append(res, s.file...)
	res = append(res, s.gales...)
	return res
}

func (s *Store) Updated() time.Time {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.updated
}

// Winds exposes the forecast set, nil without a GRIB directory.
func (s *Store) Winds() *wind.Winds {
	return s.winds
}
