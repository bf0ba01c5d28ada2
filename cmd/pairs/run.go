package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tinytelemetry/pairs/internal/duckdb"
	"github.com/tinytelemetry/pairs/internal/game"
	"github.com/tinytelemetry/pairs/internal/httpserver"
	"github.com/tinytelemetry/pairs/internal/localstore"
	"github.com/tinytelemetry/pairs/internal/model"
	"github.com/tinytelemetry/pairs/internal/ranking"
	"github.com/tinytelemetry/pairs/internal/session"
	"github.com/tinytelemetry/pairs/internal/tui"
)

// run wires storage, the session, the optional API and the TUI, and blocks
// until the player quits or a signal arrives.
func run(cfg appConfig) error {
	logger, err := newLogger(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting pairs",
		zap.String("version", version),
		zap.String("config", cfg.ConfigPath),
		zap.String("storage", cfg.Storage),
	)

	if err := tui.InitializeSkin(cfg.Skin, cfg.ConfigDir); err != nil {
		logger.Warn("failed to load skin, using default", zap.String("skin", cfg.Skin), zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var db *duckdb.Store
	if cfg.usesDuckDB() {
		db, err = duckdb.NewStore(cfg.DBPath, cfg.QueryTimeout)
		if err != nil {
			return fmt.Errorf("failed to initialize DuckDB: %w", err)
		}
		defer db.Close()
	}

	persister, err := openPersister(cfg, db)
	if err != nil {
		return err
	}

	rankOpts := []ranking.Option{ranking.WithLogger(logger.Named("ranking"))}
	if persister != nil {
		rankOpts = append(rankOpts, ranking.WithPersister(persister))
	}
	rankings := ranking.NewStore(rankOpts...)
	if err := rankings.Load(ctx); err != nil {
		return fmt.Errorf("loading rankings: %w", err)
	}
	logger.Info("rankings loaded", zap.Int("entries", rankings.Len()))

	sched := tui.NewTickScheduler()
	sessOpts := []session.Option{
		session.WithLogger(logger.Named("session")),
		session.WithEngineOptions(game.WithRand(newRand(cfg.Seed))),
	}
	var history model.GameHistory
	if cfg.HistoryEnabled && db != nil {
		sessOpts = append(sessOpts, session.WithRecorder(db))
		history = db

		cleaner := duckdb.NewRetentionCleaner(db, duckdb.RetentionConfig{
			RetentionDays: cfg.HistoryDays,
			Logger:        logger.Named("retention"),
		})
		if cleaner != nil {
			defer cleaner.Stop()
		}
	}
	sess := session.New(sched, game.SystemClock{}, rankings, sessOpts...)

	app := tui.NewApp(
		tui.NewGamePage(ctx, sess, sched),
		tui.NewRankingsPage(sess.Rankings),
	)
	program := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))

	g, gctx := errgroup.WithContext(ctx)

	if cfg.APIEnabled {
		api := httpserver.NewServer(cfg.APIAddr, rankings, history, logger.Named("api"))
		if err := api.Start(); err != nil {
			logger.Warn("failed to start API server", zap.String("addr", cfg.APIAddr), zap.Error(err))
		} else {
			g.Go(func() error {
				<-gctx.Done()
				return api.Stop()
			})
		}
	}

	g.Go(func() error {
		// Leaving the program ends the API goroutine too.
		defer stop()
		if _, err := program.Run(); err != nil {
			if errors.Is(err, tea.ErrProgramKilled) {
				return nil
			}
			if strings.Contains(err.Error(), "TTY") || strings.Contains(err.Error(), "/dev/tty") {
				return fmt.Errorf("pairs requires a real terminal")
			}
			return fmt.Errorf("error running TUI: %w", err)
		}
		return nil
	})

	err = g.Wait()
	logger.Info("shutting down", zap.Error(err))
	return err
}

// openPersister picks the ranking backend. The memory backend persists
// nothing.
func openPersister(cfg appConfig, db *duckdb.Store) (model.RankingPersister, error) {
	switch cfg.Storage {
	case storageFile:
		fs, err := localstore.Open(cfg.DataDir, cfg.Namespace)
		if err != nil {
			return nil, fmt.Errorf("opening ranking file: %w", err)
		}
		return fs, nil
	case storageDuckDB:
		if db == nil {
			return nil, errors.New("duckdb storage selected without a database")
		}
		return db, nil
	case storageMemory:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown storage %q", cfg.Storage)
	}
}

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
