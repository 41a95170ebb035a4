package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/saeidalz13/battleship-solo/api"
	"github.com/saeidalz13/battleship-solo/db"
	"github.com/saeidalz13/battleship-solo/db/sqlc"
	"github.com/saeidalz13/battleship-solo/internal"
	"github.com/saeidalz13/battleship-solo/internal/cache"
	"github.com/saeidalz13/battleship-solo/internal/config"
	cerr "github.com/saeidalz13/battleship-solo/internal/error"
	"github.com/saeidalz13/battleship-solo/internal/session"
	mc "github.com/saeidalz13/battleship-solo/models/connection"
)

func main() {
	cfg := config.MustLoad(config.DefaultEnvFile)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sessionOpts := []session.Option{session.WithTTL(cfg.SessionTTL)}
	serverOpts := []api.Option{api.WithPort(cfg.Port), api.WithStage(cfg.Stage)}

	var store cache.Store
	switch cfg.CacheBackend {
	case cache.BackendMemory:
		memory := cache.NewMemoryStore(cache.WithCleanupInterval(cfg.CacheCleanupInterval))
		go memory.CleanupPeriodically(ctx)
		store = memory

	case cache.BackendSQLite:
		sqlite, err := cache.OpenSQLiteStore(cfg.SQLitePath)
		if err != nil {
			panic(err)
		}
		defer sqlite.Close()
		go sqlite.PurgePeriodically(ctx, cfg.CacheCleanupInterval)
		store = sqlite

	case cache.BackendPostgres:
		psql := db.MustConnectToDb(cfg.DatabaseURL)
		defer psql.Close()

		dbManager := sqlc.NewDbManager(sqlc.New(psql), internal.MustGetServerIpNet())
		postgres := cache.NewPostgresStore(psql, cfg.CacheCleanupInterval)
		go postgres.PurgePeriodically(ctx)
		store = postgres

		sessionOpts = append(sessionOpts, session.WithAnalytics(dbManager.Analytics))
		serverOpts = append(serverOpts, api.WithAnalytics(dbManager.Analytics))

	default:
		panic(cerr.ErrUnknownCacheBackend(cfg.CacheBackend))
	}

	sessionManager := mc.NewBattleshipSessionManager(cfg.WsSessionCleanupInterval)
	go sessionManager.CleanupPeriodically(ctx)

	game := session.NewManager(store, sessionOpts...)
	serverOpts = append(serverOpts, api.WithGameService(game), api.WithSessionManager(sessionManager))
	server := api.NewServer(serverOpts...)

	httpServer := &http.Server{
		Addr:              server.Addr(),
		Handler:           server.Router(),
		ReadHeaderTimeout: time.Second * 10,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Println("shutdown:", err)
		}
	}()

	log.Printf("Listening to %s (stage: %s, cache: %s)\n", server.Addr(), server.Stage(), cfg.CacheBackend)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalln(err)
	}
}
