package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/peterbourgon/ff"
	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/nav-planner/api"
	"github.com/a-bouts/nav-planner/fleet"
	"github.com/a-bouts/nav-planner/forecast"
	"github.com/a-bouts/nav-planner/land"
	"github.com/a-bouts/nav-planner/metrics"
	"github.com/a-bouts/nav-planner/wind"
	"github.com/a-bouts/nav-planner/xmpp"
)

func main() {

	fs := flag.NewFlagSet("nav-planner", flag.ExitOnError)
	var (
		listen        = fs.String("listen", ":8888", "http listen address")
		logLevel      = fs.String("log-level", "info", "trace, debug, info, warn or error")
		logJSON       = fs.Bool("log-json", false, "log as json")
		cpuprofile    = fs.Bool("cpuprofile", false, "profile every planning request")
		landFile      = fs.String("land-file", "", "yaml land mask, built-in mask when empty")
		hazardFile    = fs.String("hazard-file", "", "yaml or json hazard file")
		gribDir       = fs.String("grib-dir", "", "directory of grib2 wind forecasts")
		galeThreshold = fs.Float64("gale-threshold", wind.GaleThreshold, "wind speed in m/s from which a gale is a hazard")
		refresh       = fs.Duration("refresh", time.Minute, "hazard refresh interval")
		fleetSize     = fs.Int("fleet-size", fleet.DefaultSize, "default number of captains")
		workers       = fs.Int("workers", 0, "concurrent searches per consensus, number of cpus when 0")
		cacheSize     = fs.Int("cache-size", 128, "consensus results kept for seeded requests, 0 disables")
		cacheTTL      = fs.Duration("cache-ttl", 10*time.Minute, "consensus cache expiry")
		xmppHost      = fs.String("xmpp-host", "", "")
		xmppJid       = fs.String("xmpp-jid", "", "")
		xmppPassword  = fs.String("xmpp-password", "", "")
		xmppTo        = fs.String("xmpp-to", "", "")
		_             = fs.String("config", "", "config file")
	)
	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarNoPrefix(),
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.PlainParser),
	); err != nil {
		log.WithError(err).Fatal("Error parsing configuration")
	}

	level, err := log.ParseLevel(*logLevel)
	if err != nil {
		log.WithError(err).Fatalf("Unknown log level '%s'", *logLevel)
	}
	log.SetLevel(level)
	if *logJSON {
		log.SetFormatter(&log.JSONFormatter{})
	}

	log.Info("Load lands")
	l, err := land.InitLand(*landFile)
	if err != nil {
		log.WithError(err).Fatal("Error loading land mask")
	}

	log.Info("Load hazards")
	store, err := forecast.InitStore(forecast.Options{
		HazardFile:    *hazardFile,
		GribDir:       *gribDir,
		GaleThreshold: *galeThreshold,
		Refresh:       *refresh,
	})
	if err != nil {
		log.WithError(err).Fatal("Error loading hazards")
	}
	defer store.Close()

	x := xmpp.New(xmpp.Config{Host: *xmppHost, Jid: *xmppJid, Password: *xmppPassword, To: *xmppTo})

	metrics.RegisterDefault()

	router := api.InitServer(api.Config{
		CPUProfile: *cpuprofile,
		FleetSize:  *fleetSize,
		Workers:    *workers,
		CacheSize:  *cacheSize,
		CacheTTL:   *cacheTTL,
	}, l, store, x)

	accessLog := log.StandardLogger().Writer()
	defer accessLog.Close()

	srv := &http.Server{
		Addr: *listen,
		Handler: handlers.CombinedLoggingHandler(accessLog, handlers.CORS(
			handlers.AllowedOrigins([]string{"*"}),
			handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
			handlers.AllowedHeaders([]string{"Content-Type"}),
		)(router)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("Start server on %s", *listen)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Error serving http")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Error shutting down")
	}
}
