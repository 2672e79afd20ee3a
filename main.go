package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	intconfig "usersadmin/internal/config"
	"usersadmin/internal/events"
	router "usersadmin/internal/http"
	"usersadmin/internal/migrations"
	"usersadmin/internal/utils"
)

func main() {
	env, err := intconfig.LoadEnv()
	if err != nil {
		utils.L().Fatal().Err(err).Msg("invalid configuration")
	}
	utils.InitLogger(env.LogLevel, env.LogFormat)
	log := utils.L()

	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	if env.AutoMigrate {
		if err := migrations.UpDSN(env.DBDriver, env.DBDSN); err != nil {
			log.Fatal().Err(err).Msg("migrations failed")
		}
		log.Info().Str("module", "migrate").Msg("schema up to date")
	}

	db, err := intconfig.ConnectDB(env)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer intconfig.CloseDB()

	var pub events.Publisher = events.NoopPublisher{}
	if env.NATSURL != "" {
		np, err := events.NewNATSPublisher(env.NATSURL)
		if err != nil {
			log.Warn().Err(err).Str("module", "events").Msg("NATS unavailable, events disabled")
		} else {
			pub = np
		}
	}
	defer pub.Close()

	r := router.NewRouter(env, router.Deps{DB: db, Events: pub})

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", env.AppAddr).Str("driver", env.DBDriver).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
		return
	}

	log.Info().Msg("server stopped")
}
