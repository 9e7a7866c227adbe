package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/masmgr/changelog-go/internal/server"
	"github.com/masmgr/changelog-go/internal/source"
)

// ServeCmd creates the serve command.
func ServeCmd() *cli.Command {
	flags := append(sourceFlags(),
		&cli.StringFlag{
			Name:  "addr",
			Usage: "Listen address (default: from config or ':8080')",
		},
		&cli.BoolFlag{
			Name:  "watch",
			Usage: "Reload the changelog when a local source file changes",
		},
	)

	return &cli.Command{
		Name:   "serve",
		Usage:  "Serve the changelog over HTTP",
		Flags:  flags,
		Action: serveAction,
	}
}

func serveAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	loader, err := newLoader(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := server.NewStore(ctx, loader)
	if err != nil {
		return err
	}

	if cfg.Server.Watch {
		if path, ok := source.IsLocal(loader); ok {
			go watch(ctx, store, path)
		} else {
			log.Warn().Str("source", loader.Describe()).Msg("Watching is only supported for local files")
		}
	}

	srv := server.New(store, server.Options{
		Addr:     cfg.Server.Addr,
		Title:    cfg.Title,
		PageSize: cfg.PageSize,
	})
	return srv.Run(ctx)
}

func watch(ctx context.Context, store *server.Store, path string) {
	log.Info().Str("path", path).Msg("Watching changelog for changes")
	if err := store.Watch(ctx, path); err != nil {
		log.Error().Err(err).Msg("Failed to watch changelog")
	}
}
