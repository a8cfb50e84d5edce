// Copyright 2026 The ScopeServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the scope selection server and CLI [DBG] application.

Note: This is a BETA release. APIs and functionality may rapidly change.

ScopeServe serves ranked workspace suggestions for attaching context to a
coding session. It indexes the tracked files of a project, derives folders
from them, and accepts analyzer-fed symbol pools, then ranks all of them
with a cost-based fuzzy matcher. It can operate as a MessagePack IPC
server for integration with editors, or as a CLI application for testing
and debugging.

Selection runs in one of five modes: files, folders, classes, methods and
usages. File and folder modes are always available; the symbol modes are
gated on what the project's analyzer currently offers, and the active mode
falls back to files whenever its capability disappears.

# Usage

Start the server with default settings:

	scopeserve

Use a custom project root and enable debug mode:

	scopeserve -root /path/to/project -d

Run in CLI mode for interactive testing:

	scopeserve -c -limit 10

The project root must be a git work tree; file and folder pools stay empty
otherwise. When watching is enabled the index refreshes itself on
filesystem changes.

# Configuration

Runtime configuration is managed through a TOML file:

	[rank]
	tolerance = 300
	max_suggestions = 100

	[server]
	max_limit = 100
	min_pattern = 1
	max_pattern = 120

	[pool]
	cache_ttl_seconds = 30
	watch = true

The config file is automatically created with defaults if it doesn't
exist.

# IPC Protocol

The server communicates via MessagePack over stdin/stdout. Requests are
processed synchronously with microsecond timing information included in
responses.

Send a completion request:

	{"id": "req1", "op": "complete", "p": "util", "l": 20}

Switch modes and push analyzer capabilities:

	{"id": "m1", "op": "mode", "m": "folders"}
	{"id": "c1", "op": "caps", "ready": true, "source": true}

See the server package for the full message catalogue.

# CLI Mode

CLI mode provides an interactive interface for testing and debugging the
pipeline. Plain lines are ranked as patterns; ':' prefixed lines switch
modes, apply capability snapshots and confirm selections.

	inputHandler := cli.NewInputHandler(session, minLen, maxLen, limit)
	err := inputHandler.Start()

This mode is primarily intended for development and testing new features
before deploying to server mode.

# Command Line Flags

The following flags control application behavior:

	-root string
	    Project root to index (default ".")
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
	-limit int
	    Number of suggestions to return (default from config)
	-config string
	    Explicit config file path
	-no-watch
	    Disable the filesystem watcher
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/scopekit/scopeserve/internal/cli"
	"github.com/scopekit/scopeserve/internal/logger"
	"github.com/scopekit/scopeserve/pkg/config"
	"github.com/scopekit/scopeserve/pkg/fuzzy"
	"github.com/scopekit/scopeserve/pkg/gate"
	"github.com/scopekit/scopeserve/pkg/pool"
	"github.com/scopekit/scopeserve/pkg/rank"
	"github.com/scopekit/scopeserve/pkg/resolve"
	"github.com/scopekit/scopeserve/pkg/selector"
	"github.com/scopekit/scopeserve/pkg/server"
)

const (
	Version = "0.3.0-beta"
	AppName = "scopeserve"
	gh      = "https://github.com/scopekit/scopeserve"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main calls other packages to initialize the server or CLI inputs.
// main() does not implement logic for them and only manages the flow.
func main() {
	sigHandler()
	defaultConfig := config.DefaultConfig()

	// custom Flags
	showVersion := flag.Bool("version", false, "Show current version")
	rootDir := flag.String("root", ".", "Project root to index")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	limit := flag.Int("limit", defaultConfig.Rank.MaxSuggestions, "Number of suggestions to return")
	configPath := flag.String("config", "", "Explicit config file path")
	noWatch := flag.Bool("no-watch", false, "Disable the filesystem watcher")

	flag.Parse()

	if *showVersion {
		banner := logger.NewWithConfig("", log.InfoLevel, false, false, log.TextFormatter)

		styles := log.DefaultStyles()

		styles.Values["version"] = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})

		styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})

		banner.SetStyles(styles)

		banner.Print("")
		banner.Print("[ ScopeServe ] Serves ranked workspace suggestions!")
		banner.Print("", "version", Version)
		banner.Print("")
		banner.Print("use -h or --help to see available options")
		banner.Print("Github Repo", "gh", gh)

		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	appConfig, activePath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: (%s)", activePath)

	if *limit > 0 && *limit != appConfig.Rank.MaxSuggestions {
		appConfig.Rank.MaxSuggestions = *limit
	}

	index := pool.NewFileIndex(
		pool.NewGitLister(*rootDir),
		time.Duration(appConfig.Pool.CacheTTLSeconds)*time.Second,
	)
	defer index.Close()

	if appConfig.Pool.Watch && !*noWatch {
		watcher, err := pool.NewWatcher(index, *rootDir)
		if err != nil {
			log.Warnf("Watcher unavailable, index will not auto-refresh: %v", err)
		} else {
			defer watcher.Close()
		}
	}

	g := gate.New()
	ranker := rank.NewRanker(fuzzy.NewScorer, rank.Options{
		Tolerance:      appConfig.Rank.Tolerance,
		MaxSuggestions: appConfig.Rank.MaxSuggestions,
		MinPattern:     appConfig.Rank.MinPattern,
	})

	// Symbol modes stay empty until an analyzer host pushes caps and a
	// symbol source; file and folder pools are always live.
	symbols := pool.SymbolsProvider{}
	providers := map[gate.Mode]pool.Provider{
		gate.Files:   pool.FilesProvider{Index: index},
		gate.Folders: pool.FoldersProvider{Index: index},
		gate.Classes: symbols,
		gate.Methods: symbols,
		gate.Usages:  symbols,
	}

	resolver := &resolve.Resolver{Index: index}
	session := selector.New(g, ranker, providers, resolver)
	defer session.Close()

	if *cliMode {
		log.SetReportTimestamp(false)
		log.Debug("Input info:",
			"minPattern", appConfig.Server.MinPattern,
			"maxPattern", appConfig.Server.MaxPattern,
			"limit", appConfig.Rank.MaxSuggestions)

		inputHandler := cli.NewInputHandler(session,
			appConfig.Server.MinPattern,
			appConfig.Server.MaxPattern,
			appConfig.Rank.MaxSuggestions)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(session, appConfig)

	showStartupInfo(*rootDir)

	if err := srv.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(rootDir string) {
	pid := os.Getpid()
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	println("============")
	println(" ScopeServe ")
	println("============")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", pid)
	log.Info("init: OK")
	log.Infof("project root: ( %s )", rootDir)
	log.Info("status: ready")
	println("============")
	println("Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}
