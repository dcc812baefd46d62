package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"pagekit/internal/commands"
	"pagekit/internal/config"
	"pagekit/internal/discord"
	"pagekit/internal/middleware"
	"pagekit/internal/storage"
	"pagekit/pkg/pages"
	"pagekit/pkg/router"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		log.Fatal().Err(err).Msg("could not load configuration")
	}
	zerolog.SetGlobalLevel(cfg.ZerologLevel())
	logger := log.Logger

	store, err := storage.New(cfg.StoragePath)
	if err != nil {
		log.Fatal().Err(err).Msg("could not open storage")
	}
	defer store.Close()

	reg := pages.NewRegistry()
	for _, t := range commands.PageTypes() {
		if err := reg.Register(t); err != nil {
			log.Fatal().Err(err).Msg("page type registration failed")
		}
	}
	pm := pages.NewManager(pages.Config{
		Registry: reg,
		Store:    store,
		TTL:      cfg.PageTTL(),
		Logger:   logger,
	})
	defer pm.Stop()

	deps := &commands.Deps{Pages: pm, Log: logger}
	r, err := router.Load(router.Config{
		Logger:                     logger,
		SkipAutocompleteValidation: cfg.SkipAutocompleteValidation,
	}, commands.Manifest(deps))
	if err != nil {
		log.Fatal().Err(err).Msg("command manifest failed to load")
	}
	r.UseChat(middleware.WithCommandLogger(logger), middleware.WithGuildOnly())
	r.UseAutocomplete(middleware.WithAutocompleteLogger(logger))
	r.UseMenu(middleware.WithMenuLogger(logger))

	bot := discord.NewBot(cfg, r, pm, store, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.Info().Msg("starting bot")
	if err := bot.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("bot exited with error")
	}
	log.Info().Msg("bot exited cleanly")
}
