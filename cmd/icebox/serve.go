// The serve command: run the session loop over stdin/stdout.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/coldchain/icebox/internal/fridge"
	"github.com/coldchain/icebox/internal/protocol"
	"github.com/coldchain/icebox/internal/sqlite"
)

var serveCmd = &cobra.Command{
	Use:   "serve <storage-file>",
	Short: "Serve the JSON request protocol on stdin/stdout",
	Long: `Serve reads blank-line-terminated JSON requests from stdin, applies them
to the storage file, and writes one JSON response per request to stdout.
The storage file must already exist with the fridge schema; see "icebox init".`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(args[0])
	},
}

func runServe(path string) error {
	log := slog.Default()
	log.Info("starting icebox", "storage", path, "backend", cfg.Backend)

	store, err := sqlite.Open(cfg, path)
	if err != nil {
		// The one fatal error: the storage file cannot be opened.
		return fmt.Errorf("open storage: %w", err)
	}
	defer store.Close()

	router := protocol.NewRouter(os.Stdout, log, cfg.Pretty)
	service := fridge.NewService(store, cfg, log)
	service.Register(router)

	frames := protocol.NewFrameReader(os.Stdin)
	session := fridge.NewSession(frames, router, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("ready")
	err = session.Run(ctx)
	if errors.Is(err, context.Canceled) {
		// Interrupt is an orderly shutdown, not a failure.
		err = nil
	}
	log.Info("done")
	return err
}
