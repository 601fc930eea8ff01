package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/opendraft/auctionhall/session"
	"github.com/opendraft/auctionhall/ui"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config (optional)")
	logFile := flag.String("log-file", "auctionhall.log", "log file path")
	flag.Parse()

	// .env is optional; it just seeds the AUCTIONHALL_* overrides.
	_ = godotenv.Load()

	cfg, err := session.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	// The TUI owns stdout, so logs go to a file.
	if f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
		log.SetOutput(f)
		defer f.Close()
	} else {
		log.SetOutput(os.Stderr)
	}

	sess := session.New(cfg, log)
	if err := sess.LoadCatalog(); err != nil {
		fmt.Fprintln(os.Stderr, "load catalog:", err)
		os.Exit(1)
	}

	program := tea.NewProgram(ui.NewModel(sess), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
