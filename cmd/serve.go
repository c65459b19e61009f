package cmd

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/remylog/internal/config"
	"github.com/Tiliavir/remylog/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the web form and the JSON API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config, "+config.DefaultListenAddr+")")
}

func runServe(cmd *cobra.Command, args []string) error {
	if env.dataFile == "" {
		return usageErr(errors.New("serve needs a local data file; drop --server"))
	}

	addr := serveAddr
	if addr == "" {
		addr = env.cfg.ListenAddr
	}
	if addr == "" {
		addr = config.DefaultListenAddr
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	srv, err := server.New(server.Options{
		Store:    env.store,
		Location: env.loc,
		Reporter: env.reporter,
		Logger:   env.logger,
		Registry: reg,
	})
	if err != nil {
		return err
	}

	env.logger.Info("serving activity log", "data", env.dataFile, "timezone", env.loc.String())
	return srv.ListenAndServe(cmd.Context(), addr)
}
