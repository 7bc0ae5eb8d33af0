package main

import (
	"net/http"

	"ai_writer_tools/adgate"
	"ai_writer_tools/config"
	"ai_writer_tools/server"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config.server_addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	writer, err := buildWriter(cfg)
	if err != nil {
		return err
	}
	store, err := buildStore(cfg)
	if err != nil {
		return err
	}
	gate, err := buildCounter(cfg, store, adgate.DefaultKey)
	if err != nil {
		return err
	}
	imageGate, err := buildCounter(cfg, store, adgate.ImageToolsKey)
	if err != nil {
		return err
	}
	srv, err := server.New(writer, gate, imageGate, logger.Named("server"))
	if err != nil {
		return err
	}

	listen := cfg.ServerAddr
	if serveAddr != "" {
		listen = serveAddr
	}
	if listen == "" {
		listen = config.DefaultServerAddr
	}
	logger.Info("starting web server", zap.String("addr", listen))
	return http.ListenAndServe(listen, srv.Routes())
}
