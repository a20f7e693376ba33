// Package main provides the entry point for the Text Overlay application.
package main

import (
	"log"
	"os"
	"time"

	fyneapp "fyne.io/fyne/v2/app"

	"text-overlay/internal/app"
	"text-overlay/internal/version"
	"text-overlay/ui/mainwindow"
	"text-overlay/ui/prefs"

	"fyne.io/fyne/v2"
)

const appTitle = "Text Overlay"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s v%s", appTitle, version.Version)

	cfgPath, err := app.ConfigPath()
	if err != nil {
		log.Printf("Config path unavailable: %v", err)
	}
	cfg, err := app.LoadConfig(cfgPath)
	if err != nil {
		log.Printf("Failed to load config, using defaults: %v", err)
		cfg = app.DefaultConfig()
	}

	fyneApp := fyneapp.New()
	fyneApp.Settings().SetTheme(&app.OverlayTheme{})

	appState := app.NewState(cfg)
	session := prefs.Load()

	win := mainwindow.New(fyneApp, appState, session)
	win.Resize(fyne.NewSize(1400, 900))

	// Open a document given on the command line, else the last session's.
	if len(os.Args) > 1 {
		docPath := os.Args[1]
		if err := appState.LoadDocument(docPath); err != nil {
			log.Printf("Failed to load document %s: %v", docPath, err)
		}
	} else {
		win.RestoreLastDocument()
	}

	if saver := app.NewAutosaver(appState, time.Duration(cfg.AutosaveSeconds)*time.Second); saver != nil {
		saver.OnSave(func(path string) { log.Printf("Autosaved %s", path) })
		saver.Start()
		defer saver.Stop()
	}

	win.ShowAndRun()
}
