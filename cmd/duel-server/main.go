package main

import (
	"context"
	"net/http"
	"time"

	"duel-arena/internal/arena"
	"duel-arena/internal/config"
	"duel-arena/internal/logging"
	"duel-arena/internal/provider"
	httptransport "duel-arena/internal/transport/http"
	"duel-arena/internal/users"
	"duel-arena/internal/ws"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.LoadApp()
	if err != nil {
		panic(err)
	}
	logging.Init(cfg.Log)

	dir := users.NewDirectory()
	store := arena.NewStore()
	hub := ws.NewHub(store)

	records := provider.NewRecordClient(
		cfg.Judge.ProviderBaseURL,
		time.Duration(cfg.Judge.ProviderTimeoutSecs)*time.Second,
	)
	judge := arena.NewJudge(
		records,
		hub,
		time.Duration(cfg.Judge.PollIntervalSecs)*time.Second,
		time.Duration(cfg.Judge.ProviderTimeoutSecs)*time.Second,
	)

	r := httptransport.NewRouter(httptransport.Deps{
		Directory: dir,
		Store:     store,
		Hub:       hub,
		Judge:     judge,
		JudgeCtx:  context.Background(),
		Server:    cfg.Server,
		Judging:   cfg.Judge,
	})

	server := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	log.Info().Str("addr", cfg.Server.HTTPAddr).Msg("http listening")
	log.Fatal().Err(server.ListenAndServe()).Msg("server stopped")
}
