// Command playlink-client is an interactive Playlink game client.
//
// It connects to a Playlink game server over WebSocket, keeps the
// connection alive with heartbeats, reconnects automatically on
// abnormal closures, and exposes the protocol through an interactive
// prompt.
//
// Usage:
//
//	playlink-client [flags]
//
// Flags:
//
//	-endpoint string   Server URL (ws:// or wss://)
//	-config string     Configuration file path (YAML)
//	-discover          Find a server via mDNS when no endpoint is given
//	-journal string    Write a protocol journal to this file
//	-log-level string  Log level: debug, info, warn, error (default "info")
//
// Examples:
//
//	# Connect to a known server
//	playlink-client -endpoint ws://localhost:8080/play
//
//	# Find a server on the local network
//	playlink-client -discover
//
//	# Capture a protocol journal for later analysis
//	playlink-client -endpoint ws://localhost:8080/play -journal session.pjl
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/playlink-protocol/playlink-go/pkg/config"
	"github.com/playlink-protocol/playlink-go/pkg/discovery"
	"github.com/playlink-protocol/playlink-go/pkg/log"
	"github.com/playlink-protocol/playlink-go/pkg/session"
)

func main() {
	endpoint := flag.String("endpoint", "", "Server URL (ws:// or wss://)")
	configPath := flag.String("config", "", "Configuration file path (YAML)")
	discover := flag.Bool("discover", false, "Find a server via mDNS when no endpoint is given")
	journalPath := flag.String("journal", "", "Write a protocol journal to this file")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *endpoint != "" {
		cfg.Endpoint = *endpoint
	}
	if *journalPath != "" {
		cfg.JournalPath = *journalPath
	}
	if *discover {
		cfg.Discover = true
	}

	logger := newLogger(*logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Resolve the endpoint via mDNS when none is configured.
	if cfg.Endpoint == "" && cfg.Discover {
		ep, err := discoverEndpoint(ctx, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: discovery failed: %v\n", err)
			os.Exit(1)
		}
		cfg.Endpoint = ep
	}
	if cfg.Endpoint == "" {
		fmt.Fprintln(os.Stderr, "Error: no endpoint; use -endpoint, -config, or -discover")
		os.Exit(1)
	}

	sess := session.New(cfg.Session())
	sess.SetLogger(logger)
	defer sess.Close()

	if cfg.JournalPath != "" {
		journal, err := log.NewFileLogger(cfg.JournalPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer journal.Close()
		sess.SetJournal(journal)
		logger.Info("protocol journal enabled", "path", cfg.JournalPath)
	}

	client, err := newClient(sess, cfg.Endpoint)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Ctrl-C tears the session down cleanly.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	client.run(ctx, cancel)
}

// newLogger builds the application logger at the requested level.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		fmt.Fprintf(os.Stderr, "Unknown log level %q, using info\n", level)
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// discoverEndpoint browses for the first joinable game server.
func discoverEndpoint(ctx context.Context, logger *slog.Logger) (string, error) {
	logger.Info("browsing for game servers", "service", discovery.ServiceType)

	browseCtx, cancel := context.WithTimeout(ctx, discovery.BrowseTimeout)
	defer cancel()

	browser := discovery.NewBrowser(discovery.BrowserConfig{})
	server, err := browser.FindFirst(browseCtx)
	if err != nil {
		return "", err
	}

	logger.Info("found game server",
		"name", server.Name,
		"mode", server.Mode,
		"players", fmt.Sprintf("%d/%d", server.Players, server.MaxPlayers),
		"endpoint", server.Endpoint())
	return server.Endpoint(), nil
}
