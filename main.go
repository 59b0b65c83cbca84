package main

import (
	"flag"
	"fmt"
	"os"

	"trainings/internal/app"
	"trainings/internal/config"
	"trainings/internal/logger"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	envFile := flag.String("env", ".env", "path to a .env file (ignored when missing)")
	flag.Parse()

	cfg, err := config.Load(*configPath, *envFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := app.ServeMCP(cfg, log); err != nil {
		log.Error("exiting", "error", err)
		log.Sync()
		os.Exit(1)
	}
}
