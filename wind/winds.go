package wind

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/nav-planner/hazard"
)

const stampLayout = "2006010215"

// Winds holds the forecasts found in a GRIB directory, keyed by validity
// time. Files are named <run YYYYMMDDHH>.f<hours>, e.g. 2020051706.f003.
type Winds struct {
	dir   string
	winds map[string]*Wind
	lock  sync.RWMutex
	now   func() time.Time
}

func NewWinds(dir string) *Winds {
	return &Winds{
		dir:   dir,
		winds: make(map[string]*Wind),
		now:   time.Now,
	}
}

// ParseName returns the validity time of a forecast file.
func ParseName(name string) (time.Time, error) {
	parts := strings.Split(name, ".")
	if len(parts) != 2 || len(parts[1]) < 2 || parts[1][0] != 'f' {
		return time.Time{}, fmt.Errorf("unexpected grib file name '%s'", name)
	}
	h, err := strconv.Atoi(parts[1][1:])
	if err != nil {
		return time.Time{}, fmt.Errorf("forecast hour of '%s': %w", name, err)
	}
	t, err := time.Parse(stampLayout, parts[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("run date of '%s': %w", name, err)
	}
	return t.Add(time.Hour * time.Duration(h)), nil
}

func (w *Winds) files() ([]string, error) {
	var files []string
	err := filepath.Walk(w.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			log.WithError(err).Errorf("Error walking file '%s'", path)
		} else if info.Mode().IsRegular() && !strings.HasSuffix(info.Name(), ".tmp") {
			files = append(files, info.Name())
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}

// Merge drops forecasts whose file is gone and loads new ones. Forecasts more
// than 3 hours old are skipped unless nothing newer exists. For a given
// validity time the most recent run wins.
func (w *Winds) Merge() error {
	files, err := w.files()
	if err != nil {
		return err
	}

	w.lock.Lock()
	defer w.lock.Unlock()

	present := make(map[string]bool, len(files))
	for _, f := range files {
		present[f] = true
	}
	for k, wd := range w.winds {
		if !present[wd.File] {
			log.Debugf("Remove from winds %s", k)
			delete(w.winds, k)
		}
	}

	now := w.now()
	for cpt, f := range files {
		t, err := ParseName(f)
		if err != nil {
			log.WithError(err).Warn("Skipping grib file")
			continue
		}
		if int(math.Round(t.Sub(now).Hours())) < -3 && cpt < len(files)-1 {
			continue
		}
		stamp := t.Format(stampLayout)
		if known, found := w.winds[stamp]; found && known.File >= f {
			continue
		}
		wd, err := Init(w.dir, t, f)
		if err != nil {
			log.WithError(err).Errorf("Error loading grib file '%s'", f)
			continue
		}
		log.Debugf("Init %s %s", stamp, wd.File)
		w.winds[stamp] = &wd
	}
	return nil
}

// Put registers a forecast directly.
func (w *Winds) Put(wd *Wind) {
	w.lock.Lock()
	defer w.lock.Unlock()
	w.winds[wd.Date.Format(stampLayout)] = wd
}

func (w *Winds) Len() int {
	w.lock.RLock()
	defer w.lock.RUnlock()
	return len(w.winds)
}

// Find returns the forecast valid closest to m.
func (w *Winds) Find(m time.Time) (*Wind, bool) {
	w.lock.RLock()
	defer w.lock.RUnlock()

	var best *Wind
	bd := time.Duration(math.MaxInt64)
	for _, wd := range w.winds {
		d := wd.Date.Sub(m)
		if d < 0 {
			d = -d
		}
		if d < bd || (d == bd && wd.Date.Before(best.Date)) {
			best = wd
			bd = d
		}
	}
	return best, best != nil
}

// Gales returns the gale hazards of the forecast closest to m.
func (w *Winds) Gales(m time.Time, threshold float64) []hazard.Hazard {
	wd, ok := w.Find(m)
	if !ok {
		return nil
	}
	return wd.Gales(threshold, BlockDeg)
}
