package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pbaille/skycat/internal/api"
	"github.com/pbaille/skycat/internal/catalogfile"
	"github.com/pbaille/skycat/internal/domain"
	"github.com/pbaille/skycat/internal/logging"
	"github.com/pbaille/skycat/internal/observability"
	"github.com/pbaille/skycat/internal/store"
)

func serveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			metrics, err := observability.NewCollector(nil)
			if err != nil {
				return err
			}
			if n, err := s.Count(); err == nil {
				metrics.SetCatalogObjects(n)
			}

			if a.cfg.WatchFile != "" {
				stopWatch, err := a.watchCatalog(ctx, s, metrics)
				if err != nil {
					return err
				}
				defer stopWatch()
			}

			server := api.New(s, a.cfg.Addr,
				api.WithLogger(a.log),
				api.WithMetrics(metrics),
				api.WithMatchRadius(a.cfg.MatchRadius),
			)
			return server.Run(ctx)
		},
	}

	cmd.Flags().StringP("addr", "a", "", "server address (default :8080)")
	cmd.Flags().String("watch", "", "TOML catalog to import now and re-import on change")
	viper.BindPFlag("addr", cmd.Flags().Lookup("addr"))
	viper.BindPFlag("watch_file", cmd.Flags().Lookup("watch"))
	return cmd
}

// watchCatalog imports the watched catalog once, then upserts it again on
// every change. The returned stop function blocks until the last change has
// been applied, so the store must stay open until it returns.
func (a *app) watchCatalog(ctx context.Context, s *store.Store, metrics *observability.Collector) (func(), error) {
	log := a.log.With(logging.String("file", a.cfg.WatchFile))

	objects, err := catalogfile.Load(a.cfg.WatchFile)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Warn(ctx, "watched catalog does not exist yet")
	case err != nil:
		return nil, err
	default:
		a.syncCatalog(ctx, log, s, metrics, objects)
	}

	w, err := catalogfile.NewWatcher(a.cfg.WatchFile)
	if err != nil {
		return nil, err
	}
	if err := w.Start(); err != nil {
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for change := range w.Changes {
			switch {
			case change.Kind == catalogfile.ChangeRemoved:
				log.Warn(ctx, "watched catalog removed")
			case change.Err != nil:
				log.Error(ctx, "reload catalog", logging.Err(change.Err))
			default:
				a.syncCatalog(ctx, log, s, metrics, change.Objects)
			}
		}
	}()

	return func() {
		w.Stop()
		<-done
	}, nil
}

func (a *app) syncCatalog(ctx context.Context, log logging.Logger, s *store.Store, metrics *observability.Collector, objects []domain.CelestialObject) {
	n, err := upsertAll(s, objects)
	if err != nil {
		log.Error(ctx, "import catalog", logging.Int("imported", n), logging.Err(err))
	} else {
		log.Info(ctx, "imported catalog", logging.Int("objects", n))
	}
	if total, err := s.Count(); err == nil {
		metrics.SetCatalogObjects(total)
	}
}
