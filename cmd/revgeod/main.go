// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package main implements the revgeod reverse geocoding service.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/wneessen/go-revgeo/internal/config"
	"github.com/wneessen/go-revgeo/internal/logger"
	"github.com/wneessen/go-revgeo/internal/service"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, os.Interrupt)
	defer cancel()

	// Initialize Logger
	log := logger.New(slog.LevelError)

	// Read config
	confRead := false
	confPath := flag.String("config", "", "path to the config file")
	flag.Parse()

	// Read default config
	conf, err := config.New()
	if err != nil {
		log.Error("failed to load config", logger.Err(err))
		os.Exit(1)
	}

	// If config file was specified, read it
	if *confPath != "" {
		file := filepath.Base(*confPath)
		path := filepath.Dir(*confPath)
		conf, err = config.NewFromFile(path, file)
		if err != nil {
			log.Error("failed to load config from file", logger.Err(err))
			os.Exit(1)
		}
		confRead = true
	}

	// Check if we have a config file in the default location
	if path, file := findConfigFile(); !confRead && (path != "" && file != "") {
		conf, err = config.NewFromFile(path, file)
		if err != nil {
			log.Error("failed to load config from file", logger.Err(err))
			os.Exit(1)
		}
	}

	log = logger.New(conf.LogLevel)

	// Initialize the service
	serv, err := service.New(conf, log)
	if err != nil {
		log.Error("failed to initialize revgeod service", logger.Err(err))
		os.Exit(1)
	}

	// Start the service loop
	log.Info("starting revgeod service", slog.String("version", version),
		slog.String("commit", commit), slog.String("date", date))
	if err = serv.Run(ctx); err != nil {
		log.Error("failed to run revgeod service", logger.Err(err))
		os.Exit(1)
	}
	log.Info("shutting down revgeod service")
}

func findConfigFile() (string, string) {
	homedir, err := os.UserHomeDir()
	if err != nil {
		return "", ""
	}
	exts := []string{"toml", "yaml", "yml", "json"}
	for _, ext := range exts {
		path := filepath.Join(homedir, ".config", "revgeod", "config."+ext)
		if _, err = os.Stat(path); err == nil {
			return filepath.Dir(path), filepath.Base(path)
		}
	}
	return "", ""
}
