package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"time"

	"github.com/go-playground/validator/v10"

	echoapi "github.com/xuandat7/tkb-ptit-react-sub000/apps/api/echo"
	"github.com/xuandat7/tkb-ptit-react-sub000/core"
	"github.com/xuandat7/tkb-ptit-react-sub000/core/batch"
	catalogsvc "github.com/xuandat7/tkb-ptit-react-sub000/services/catalog"
	generatorsvc "github.com/xuandat7/tkb-ptit-react-sub000/services/generator"
	logsvc "github.com/xuandat7/tkb-ptit-react-sub000/services/logger"
	inmemdb "github.com/xuandat7/tkb-ptit-react-sub000/storage/inmem"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	// set up storage
	db, err := inmemdb.Open()
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up storage: %v", err), err)
	}

	// set up services
	batchSvc := batch.NewService(
		inmemdb.NewSessionRepository(db),
		catalogsvc.NewClient(conf.Catalog),
		generatorsvc.NewClient(conf.Generator),
		logger,
	)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	batch.InitValidators(validate, translator)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go serveDebug(conf.Server.DebugHost, logger)

	// =========================================================================
	// Start Session Janitor

	stopPurge := make(chan struct{})
	defer close(stopPurge)
	go purgeSessions(batchSvc, conf.Batch, logger, stopPurge)

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:       conf,
			Logger:     logger,
			BatchSvc:   batchSvc,
			Validate:   validate,
			Translator: translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

// serveDebug serves the default mux on addr until it fails.
func serveDebug(addr string, logger core.Logger) {
	if err := http.ListenAndServe(addr, http.DefaultServeMux); err != nil {
		logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
	}
}

// purgeSessions drops idle batches every conf.PurgeInterval until stop is closed.
func purgeSessions(svc *batch.Service, conf core.BatchConfig, logger core.Logger, stop <-chan struct{}) {
	if conf.PurgeInterval <= 0 || conf.SessionTTL <= 0 {
		return
	}
	ticker := time.NewTicker(conf.PurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := svc.Purge(conf.SessionTTL); err != nil {
				logger.Error(fmt.Sprintf("purging sessions: %v", err), err)
			}
		case <-stop:
			return
		}
	}
}
