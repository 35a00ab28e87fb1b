package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/pkg/profile"
	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/nav-planner/api/model"
	"github.com/a-bouts/nav-planner/fleet"
	"github.com/a-bouts/nav-planner/hazard"
	"github.com/a-bouts/nav-planner/land"
	"github.com/a-bouts/nav-planner/metrics"
	"github.com/a-bouts/nav-planner/route"
	"github.com/a-bouts/nav-planner/wind"
)

const msToKnots = 1.9438444924406

// HazardSource provides the current hazards when a request carries none.
type HazardSource interface {
	Hazards() []hazard.Hazard
	Updated() time.Time
	Winds() *wind.Winds
}

// Notifier receives the summary of every fleet consensus.
type Notifier interface {
	Enabled() bool
	Send(message string) error
}

type Config struct {
	CPUProfile bool
	FleetSize  int
	Workers    int
	CacheSize  int
	CacheTTL   time.Duration
}

type server struct {
	cpuprofile bool
	fleetSize  int
	l          *land.Land
	hazards    HazardSource
	x          Notifier
	planner    *fleet.Planner
	cache      *expirable.LRU[string, model.FleetResult]
}

func InitServer(c Config, l *land.Land, hs HazardSource, x Notifier) *mux.Router {

	router := mux.NewRouter().StrictSlash(true)

	s := server{
		cpuprofile: c.CPUProfile,
		fleetSize:  c.FleetSize,
		l:          l,
		hazards:    hs,
		x:          x,
		planner:    fleet.NewPlanner(l, c.Workers),
	}
	if s.fleetSize <= 0 {
		s.fleetSize = fleet.DefaultSize
	}
	if c.CacheSize > 0 {
		s.cache = expirable.NewLRU[string, model.FleetResult](c.CacheSize, nil, c.CacheTTL)
	}

	router.Use(instrument)
	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	apiV1 := router.PathPrefix("/route/api/v1").Subrouter()
	apiV1.HandleFunc("/-/healthz", s.healthz).Methods(http.MethodGet)
	apiV1.HandleFunc("/modes", s.modes).Methods(http.MethodGet)
	apiV1.HandleFunc("/hazards", s.listHazards).Methods(http.MethodGet)
	apiV1.HandleFunc("/wind/{lat}/{lon}", s.wind).Methods(http.MethodGet)
	apiV1.HandleFunc("/route", s.route).Methods(http.MethodPost)
	apiV1.HandleFunc("/fleet", s.fleet).Methods(http.MethodPost)

	return router
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		path := r.URL.Path
		if cr := mux.CurrentRoute(r); cr != nil {
			if tpl, err := cr.GetPathTemplate(); err == nil {
				path = tpl
			}
		}
		status := strconv.Itoa(rec.status)
		metrics.HTTPRequests.WithLabelValues(r.Method, path, status).Inc()
		metrics.HTTPDuration.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Error("Error encoding response")
	}
}

func writeError(w http.ResponseWriter, status int, reason string, err error) {
	writeJSON(w, status, model.Error{Error: err.Error(), Reason: reason})
}

// planError maps planning failures to 422 and anything else to 500.
func planError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, route.ErrInvalidEndpoint):
		writeError(w, http.StatusUnprocessableEntity, "invalid_endpoint", err)
	case errors.Is(err, route.ErrNoPath), errors.Is(err, fleet.ErrNoConsensus):
		writeError(w, http.StatusUnprocessableEntity, "no_path", err)
	default:
		writeError(w, http.StatusInternalServerError, "", err)
	}
}

func geojsonRequested(req *http.Request) bool {
	return strings.EqualFold(req.URL.Query().Get("format"), "geojson")
}

func (s *server) currentHazards(given []hazard.Hazard) []hazard.Hazard {
	if given != nil || s.hazards == nil {
		return given
	}
	return s.hazards.Hazards()
}

func (s *server) requestLogger(action string, req *http.Request) *log.Entry {
	fields := log.Fields{
		"action": action,
	}
	if ip, err := getIp(req); err == nil {
		fields["IP"] = ip
	}
	return log.WithFields(fields)
}

func (s *server) healthz(w http.ResponseWriter, r *http.Request) {
	type health struct {
		Status string `json:"status"`
	}

	writeJSON(w, http.StatusOK, health{Status: "Ok"})
}

func (s *server) modes(w http.ResponseWriter, r *http.Request) {
	type mode struct {
		Mode    route.Mode    `json:"mode"`
		Weights route.Weights `json:"weights"`
		Preset  fleet.Preset  `json:"preset"`
	}

	var res []mode
	for _, p := range s.planner.Generator.Presets {
		res = append(res, mode{Mode: p.Mode, Weights: route.WeightsFor(p.Mode, 1), Preset: p})
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *server) listHazards(w http.ResponseWriter, r *http.Request) {
	type hazards struct {
		Updated time.Time       `json:"updated"`
		Hazards []hazard.Hazard `json:"hazards"`
	}

	res := hazards{Hazards: []hazard.Hazard{}}
	if s.hazards != nil {
		res.Updated = s.hazards.Updated()
		res.Hazards = s.hazards.Hazards()
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *server) wind(w http.ResponseWriter, r *http.Request) {
	lat, err := strconv.ParseFloat(mux.Vars(r)["lat"], 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	lon, err := strconv.ParseFloat(mux.Vars(r)["lon"], 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	type windResult struct {
		Date  time.Time `json:"date"`
		Wind  float64   `json:"wind"`
		Speed float64   `json:"speed"`
	}

	if s.hazards == nil || s.hazards.Winds() == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	wi, ok := s.hazards.Winds().Find(time.Now())
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	var res windResult
	res.Date = wi.Date
	res.Wind, res.Speed, ok = wi.At(lat, lon)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	res.Speed *= msToKnots

	log.Infof("Wind %s (%f,%f) : %.1f° %.1f kt", wi.File, lat, lon, res.Wind, res.Speed)
	writeJSON(w, http.StatusOK, res)
}

func (s *server) route(w http.ResponseWriter, req *http.Request) {
	if s.cpuprofile {
		defer profile.Start(profile.ProfilePath("."), profile.Quiet).Stop()
	}
	requestLogger := s.requestLogger("route", req)

	var r model.Route
	if err := json.NewDecoder(req.Body).Decode(&r); err != nil {
		writeError(w, http.StatusBadRequest, "decode", err)
		return
	}
	if err := r.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid", err)
		return
	}

	hs := s.currentHazards(r.Hazards)
	request := r.Request(hs)
	requestLogger.Infof("Route %v -> %v mode '%s' risk weight %.2f with %d hazards", r.Origin, r.Destination, request.Mode, r.RiskWeight, len(hs))

	start := time.Now()
	res, err := route.Plan(s.l, request)
	metrics.PlanDuration.WithLabelValues(string(request.Mode)).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.Plans.WithLabelValues(string(request.Mode), "failed").Inc()
		requestLogger.WithError(err).Warn("No route")
		planError(w, err)
		return
	}
	metrics.Plans.WithLabelValues(string(request.Mode), "ok").Inc()

	out := model.RouteResult{
		ID:         uuid.NewString(),
		Path:       res.Path,
		DistanceKm: res.DistanceKm,
		MeanRisk:   res.MeanRisk,
		Exposure:   route.Exposure(res.Path, hs),
		Mode:       res.Mode,
		Weights:    res.Weights,
		Expanded:   res.Expanded,
		Voyage:     route.Estimate(res.Path, r.ShipSize, r.FuelTankTons),
		Risk:       route.Analyze(res.Path, hs),
	}
	requestLogger.Infof("Route %s took %s: %d vertices, %.0f km", out.ID, time.Since(start), len(out.Path), out.DistanceKm)

	if geojsonRequested(req) {
		writeJSON(w, http.StatusOK, out.GeoJSON())
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func cacheKey(f model.Fleet) string {
	b, _ := json.Marshal(f)
	return string(b)
}

func (s *server) fleet(w http.ResponseWriter, req *http.Request) {
	if s.cpuprofile {
		defer profile.Start(profile.ProfilePath("."), profile.Quiet).Stop()
	}
	requestLogger := s.requestLogger("fleet", req)

	var f model.Fleet
	if err := json.NewDecoder(req.Body).Decode(&f); err != nil {
		writeError(w, http.StatusBadRequest, "decode", err)
		return
	}
	if err := f.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid", err)
		return
	}

	f.Hazards = s.currentHazards(f.Hazards)
	if f.FleetSize == 0 {
		f.FleetSize = s.fleetSize
	}

	key := ""
	if s.cache != nil && f.Seed != 0 {
		key = cacheKey(f)
		if out, ok := s.cache.Get(key); ok {
			requestLogger.Debugf("Fleet %s served from cache", out.ID)
			s.writeFleet(w, req, out)
			return
		}
	}

	requestLogger.Infof("Fleet of %d from %v to %v with %d hazards", f.FleetSize, f.Origin, f.Destination, len(f.Hazards))
	start := time.Now()
	res, err := s.planner.Consensus(req.Context(), f.Request(f.Hazards, s.fleetSize))
	if err != nil {
		requestLogger.WithError(err).Warn("No consensus")
		planError(w, err)
		return
	}

	best := res.Route()
	out := model.FleetResult{
		ID:                       uuid.NewString(),
		Seed:                     res.Seed,
		WinningRoute:             best.Path,
		DistanceKm:               res.Winner.DistanceKm,
		MeanRisk:                 res.Winner.MeanRisk,
		SuccessfulCandidateCount: res.Successful,
		TotalCandidateCount:      res.Total,
		AbandonedCandidateCount:  res.Abandoned,
		SafestModeFraction:       res.SafestFraction,
		Winner:                   res.Winner.Profile,
		Candidates:               res.Candidates,
		Summary:                  res.Summary(),
		Voyage:                   route.Estimate(best.Path, f.ShipSize, f.FuelTankTons),
		Risk:                     route.Analyze(best.Path, f.Hazards),
	}
	if out.Risk.Alert {
		out.Rationale = res.Rationale()
	}
	requestLogger.Infof("Fleet %s took %s: %s", out.ID, time.Since(start), out.Summary)

	if res.Abandoned > 0 {
		requestLogger.Warnf("Fleet %s is partial, %d captains abandoned", out.ID, res.Abandoned)
		s.writeFleet(w, req, out)
		return
	}
	if key != "" {
		s.cache.Add(key, out)
	}
	s.notify(out)
	s.writeFleet(w, req, out)
}

func (s *server) writeFleet(w http.ResponseWriter, req *http.Request, out model.FleetResult) {
	if geojsonRequested(req) {
		writeJSON(w, http.StatusOK, out.GeoJSON())
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *server) notify(out model.FleetResult) {
	if s.x == nil || !s.x.Enabled() {
		return
	}
	msg := fmt.Sprintf("%s, ETA %s", out.Summary, out.Voyage.ETA)
	if out.Rationale != "" {
		msg += ". " + out.Rationale
	}
	go func() {
		if err := s.x.Send(msg); err != nil {
			log.WithError(err).Warn("Error notifying fleet consensus")
		}
	}()
}

func getIp(r *http.Request) (string, error) {
	//Get IP from the X-REAL-IP header
	ip := r.Header.Get("X-REAL-IP")
	netIP := net.ParseIP(ip)
	if netIP != nil {
		return ip, nil
	}

	//Get IP from X-FORWARDED-FOR header
	ips := r.Header.Get("X-FORWARDED-FOR")
	splitIps := strings.Split(ips, ",")
	for _, ip := range splitIps {
		ip = strings.TrimSpace(ip)
		netIP := net.ParseIP(ip)
		if netIP != nil {
			return ip, nil
		}
	}

	//Get IP from RemoteAddr
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return "", err
	}
	netIP = net.ParseIP(ip)
	if netIP != nil {
		return ip, nil
	}
	return "", fmt.Errorf("No valid ip found")
}
