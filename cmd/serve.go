package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/crossword/assets"
	"github.com/robalobadob/crossword/internal/catalog"
	"github.com/robalobadob/crossword/internal/daily"
	"github.com/robalobadob/crossword/internal/httpserver"
	"github.com/robalobadob/crossword/internal/session"
	"github.com/robalobadob/crossword/internal/store"
)

const shutdownTimeout = 10 * time.Second

var serveFlags struct {
	port string
	db   string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP session API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if serveFlags.port != "" {
			cfg.Port = serveFlags.port
		}
		if serveFlags.db != "" {
			cfg.DBPath = serveFlags.db
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveFlags.port, "port", "", "listen port (default $PORT or 5175)")
	serveCmd.Flags().StringVar(&serveFlags.db, "db", "", "sqlite file (default $DB_PATH; empty keeps sessions in memory)")
}

func serve(ctx context.Context) error {
	cat, err := catalog.Init(cfg.PuzzlesDir)
	if err != nil {
		return err
	}
	log.Info().Int("puzzles", cat.Len()).Str("dir", cfg.PuzzlesDir).Msg("catalog loaded")

	var (
		st      store.Store
		results *daily.Store
	)
	opts := session.Options{Catalog: cat, HistoryLen: cfg.SessionHistory}
	if cfg.DBPath != "" {
		db, err := store.OpenSQLite(cfg.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := store.Migrate(ctx, db, assets.Migrations()); err != nil {
			return err
		}
		st = store.NewSQLiteStore(db)
		results = daily.NewStore(db)
		opts.Results = results
		log.Info().Str("path", cfg.DBPath).Msg("using sqlite")
	} else {
		st = store.NewMemoryStore()
		log.Warn().Msg("DB_PATH not set; sessions are kept in memory and the leaderboard is off")
	}
	opts.Store = st

	srv := httpserver.New(cfg, cat, session.NewManager(opts), results)
	hs := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Msg("starting crossword server")
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info().Msg("shutting down")
		return hs.Shutdown(sctx)
	})
	return g.Wait()
}
