package main

import (
	"github.com/amonks/tasklist/internal/tui"
	"github.com/amonks/tasklist/web"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive terminal client",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Serve the browser client",
	Args:  cobra.NoArgs,
	RunE:  runWeb,
}

var (
	webAddr    string
	tuiLogFile string
)

func init() {
	rootCmd.AddCommand(tuiCmd, webCmd)
	tuiCmd.Flags().StringVar(&tuiLogFile, "log-file", "", "Append logs to this file (default from config, discarded)")
	webCmd.Flags().StringVar(&webAddr, "addr", "", "Listen address (default from config, 127.0.0.1:8080)")
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-file") {
		cfg.Log.File = tuiLogFile
	}
	w, closeLog, err := openLogFile(cfg.Log.File)
	if err != nil {
		return err
	}
	defer closeLog()

	app, err := newApp(cfg, w)
	if err != nil {
		return err
	}
	return tui.Run(cmd.Context(), app.client, tui.Options{
		Logger: app.logger,
		Limit:  app.cfg.API.PageSize,
	})
}

func runWeb(cmd *cobra.Command, args []string) error {
	app, err := loadApp(cmd)
	if err != nil {
		return err
	}
	addr := app.cfg.Web.Addr
	if cmd.Flags().Changed("addr") {
		addr = webAddr
	}

	handler := web.NewHandler(web.Options{
		Service: app.client,
		Logger:  app.logger,
		Limit:   app.cfg.API.PageSize,
	})
	return web.ListenAndServe(cmd.Context(), addr, handler, app.logger)
}
