package main

import (
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/rs/zerolog"

	"relaydash/internal/api"
	"relaydash/internal/config"
	"relaydash/internal/logx"
	"relaydash/internal/session"
)

var (
	mainApp fyne.App
	window  fyne.Window

	cfg     *config.AppConfig
	logger  zerolog.Logger
	client  *api.Client
	current session.Session
)

func main() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		log.Panic("could not load configuration: " + err.Error())
	}
	logger = logx.New(cfg.Environment)
	client = api.New(cfg.Server.BaseURL, cfg.Server.RequestTimeout, logger)

	logger.Info().Str("server", cfg.Server.BaseURL).Msg("starting relaydash")

	mainApp = app.New()
	window = mainApp.NewWindow("RelayDash")
	window.Resize(fyne.NewSize(1100, 780))

	// Every page load goes through the gate; start at the landing page.
	showPage("landing")

	window.ShowAndRun()
}
