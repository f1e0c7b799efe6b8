package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/VantageDataChat/GoSlideshow/history"
	"github.com/VantageDataChat/GoSlideshow/server"
)

var serveListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the export, history and sharing API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&serveListen, "listen", "l", "", "listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveListen != "" {
		cfg.Listen = serveListen
	}
	log := openLogger(cfg)
	defer log.Close()

	store, err := history.Open(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()

	e, release, err := newExporter(cfg, log)
	if err != nil {
		return err
	}
	defer release()

	srv := server.New(server.Options{
		Config:       cfg,
		Materializer: e.Materializer,
		Rasterizer:   e.Rasterizer,
		Store:        store,
		Logger:       log,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	log.Logf("[SERVER] Database: %s", cfg.DatabasePath)
	return srv.ListenAndServe(ctx, cfg.Listen)
}
