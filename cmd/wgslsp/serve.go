package main

import (
	"errors"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"wgslsp/internal/lsp"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"lsp"},
	Short:   "Run the language server over stdio",
	Args:    cobra.NoArgs,
	RunE:    runServe,
}

func init() {
	serveCmd.Flags().Bool("no-watch", false, "do not watch workspace files for changes on disk")
}

func runServe(cmd *cobra.Command, _ []string) error {
	logger, err := newLogger(cmd, log.InfoLevel)
	if err != nil {
		return err
	}
	tracer, cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()
	noWatch, err := cmd.Flags().GetBool("no-watch")
	if err != nil {
		return err
	}

	server := lsp.NewServer(os.Stdin, os.Stdout, lsp.Options{
		Logger:   logger,
		Tracer:   tracer,
		Watch:    !noWatch,
		TraceOut: os.Stderr,
	})
	defer server.Close()
	logger.Info("serving", "pid", os.Getpid())
	err = server.Run(cmd.Context())
	switch {
	case err == nil, errors.Is(err, lsp.ErrExit):
		return nil
	case errors.Is(err, lsp.ErrExitWithoutShutdown):
		// клиент ушёл без shutdown, по протоколу код выхода 1
		return errFindings
	}
	return err
}
