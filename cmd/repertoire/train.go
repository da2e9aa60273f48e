package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/corentings/repertoire"
	"github.com/corentings/repertoire/internal/corpus"
	"github.com/corentings/repertoire/internal/tui"
	"github.com/corentings/repertoire/trainer"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train on the corpus in the terminal (default)",
	RunE:  runTrain,
}

func runTrain(cmd *cobra.Command, args []string) error {
	if f := cmd.Flags().Lookup("watch"); f != nil && f.Changed {
		cfg.Watch, _ = cmd.Flags().GetBool("watch")
	}
	if f := cmd.Flags().Lookup("svg"); f != nil && f.Changed {
		cfg.Board.SVG, _ = cmd.Flags().GetString("svg")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// a bad corpus is refused before the terminal is taken over
	mt, err := corpus.Load(ctx, cfg.Corpus)
	if err != nil {
		return err
	}
	logger.Info("corpus loaded",
		zap.Strings("paths", cfg.Corpus),
		zap.Int("lines", len(mt.Lines())),
		zap.Int("moves", mt.Size()))

	bridge, program := tui.NewBridge(logger,
		tui.WithHints(cfg.Trainer.ShowHints),
		tui.WithSnapshot(cfg.Board.SVG))

	options := append(cfg.TrainerOptions(), trainer.WithLogger(logger))
	session, err := trainer.New(mt, bridge, options...)
	if err != nil {
		return err
	}

	if cfg.Watch && len(cfg.Corpus) > 0 {
		w, err := corpus.NewWatcher(ctx, cfg.Corpus, logger, func(next *repertoire.MoveTree) {
			if err := session.Reload(next); err != nil {
				logger.Warn("corpus reload ignored", zap.Error(err))
			}
		})
		if err != nil {
			return err
		}
		if err := w.Start(ctx); err != nil {
			return err
		}
		defer w.Stop()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := session.Run(gctx)
		// a corpus fault ends the program too
		program.Quit()
		return err
	})
	g.Go(func() error {
		_, err := program.Run()
		cancel()
		if err != nil {
			return fmt.Errorf("terminal: %w", err)
		}
		return nil
	})

	logger.Info("training started", zap.String("session", session.ID()))
	return g.Wait()
}
