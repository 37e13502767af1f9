package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/baiirun/kanban/internal/board"
	"github.com/baiirun/kanban/internal/config"
	"github.com/baiirun/kanban/internal/logging"
	"github.com/baiirun/kanban/internal/storage"
)

var (
	flagConfig  string
	flagBackend string
	flagPath    string
	flagJSON    bool
)

var rootCmd = &cobra.Command{
	Use:   "kanban",
	Short: "A three-column kanban board",
	Long: `A kanban board with To Do, In Progress and Done columns.

Run without a command to open the interactive board. Tasks are saved after
every change to the configured backend (sqlite, file, redis or memory).`,
	SilenceUsage: true,
	RunE:         runBoard,
}

// app is everything a command needs once configuration is resolved.
type app struct {
	cfg     *config.Config
	store   *board.Store
	closers []io.Closer
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i].Close()
	}
}

// openApp loads configuration, sets up logging and loads the board. Quiet
// keeps log output off the terminal unless a log file is configured.
func openApp(ctx context.Context, quiet bool) (*app, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagBackend != "" {
		cfg.Storage.Backend = flagBackend
	}
	if flagPath != "" {
		cfg.Storage.Path = flagPath
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &app{cfg: cfg}
	logCloser, err := logging.Init(logging.Options{
		Level: cfg.Log.Level,
		File:  cfg.Log.File,
		Quiet: quiet,
	})
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, logCloser)

	slot, err := config.OpenSlot(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Backend, err)
	}
	log := logging.Logger.WithField("backend", cfg.Storage.Backend)
	adapter := storage.NewAdapter(slot, cfg.Storage.Key, log)
	a.closers = append(a.closers, adapter)

	a.store = board.New(ctx, adapter, board.WithLogger(log))
	return a, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default ~/.kanban/config.yaml and ./.kanban.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "storage backend: sqlite, file, redis or memory")
	rootCmd.PersistentFlags().StringVar(&flagPath, "path", "", "database file or board directory")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
