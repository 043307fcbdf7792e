package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	log "github.com/mealwise/recommender/backend/chassis/logging"

	"github.com/mealwise/recommender/backend/api"
	"github.com/mealwise/recommender/backend/chassis/config"
	"github.com/mealwise/recommender/backend/chassis/llm"
	"github.com/mealwise/recommender/backend/chassis/storage"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	appCfg, err := config.Read()

	if err != nil {
		log.WithFields(log.Fields{
			"event": "config_read_failed",
		}).Fatal(err)
	}
	log.Init("api", appCfg.API.LogLevel)
	log.WithFields(log.Fields{
		"event": "init_service",
		"port":  appCfg.API.Port,
	}).Info("service initialized")
	repoCfg := storage.Config{
		DSN: appCfg.Storage.DSN + "?pool_max_conns=100",
	}
	repo, err := storage.InitPGRepository(repoCfg)
	if err != nil {
		log.WithFields(log.Fields{
			"event": "init_storage_failed",
		}).Fatal(err)
	}
	planner := llm.InitHFClient(llm.Config{
		Endpoint: appCfg.LLM.Endpoint,
		Model:    appCfg.LLM.Model,
		Token:    appCfg.LLM.Token,
		Timeout:  time.Duration(appCfg.LLM.Timeout) * time.Second,
	})
	svc := api.New(&api.Config{
		Repository: repo,
		Planner:    planner,
		PlanTTL:    time.Duration(appCfg.API.PlanTTL) * time.Second,
	})
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())

	opsRouter := mux.NewRouter()
	opsRouter.Handle("/metrics", promhttp.Handler())
	opsSrv := &http.Server{
		Addr:    ":2112",
		Handler: opsRouter,
	}
	go func() {
		if err := opsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("ops listen: ", err)
		}
	}()

	// PORT is resolved here, at process start - never baked into the
	// image.
	srv := &http.Server{
		Addr:    "0.0.0.0:" + appCfg.API.Port,
		Handler: svc.Router(),
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithFields(log.Fields{
				"event": "listen_failed",
				"port":  appCfg.API.Port,
			}).Fatal(err)
		}
	}()
	log.WithFields(log.Fields{
		"event": "listen",
		"port":  appCfg.API.Port,
	}).Info("serving API")
	<-done
	log.WithFields(log.Fields{
		"event": "ctx_cancel",
	}).Info("received syscall")
	cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server Shutdown Failed:", err)
	}
	if err := opsSrv.Shutdown(ctx); err != nil {
		log.Error("Ops Server Shutdown Failed:", err)
	}
}
