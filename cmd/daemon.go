// Copyright (C) 2026 GatewayKit Contributors
//
// This program is free software; you can redistribute it and/or
// modify it under the terms of the GNU General Public License
// as published by the Free Software Foundation; version 2.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.

// Package cmd implements the CLI commands for dcnet using cobra.
package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gatewaykit/dcnet/daemon"
	"github.com/gatewaykit/dcnet/daemon/logger"
	"github.com/gatewaykit/dcnet/netmgr"
	"github.com/gatewaykit/dcnet/plugins"
	"github.com/gatewaykit/dcnet/system"
)

var configPath string

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run dcnet as a daemon",
	Long:  `Starts the dcnet daemon which listens for commands on a Unix socket.`,
	Run:   runDaemon,
}

func init() {
	rootCmd.AddCommand(daemonCmd)
	daemonCmd.Flags().StringVarP(&configPath, "config", "c", "/etc/dcnet/dcnetd.toml", "Configuration file path")
}

func runDaemon(cmd *cobra.Command, args []string) {
	cfg, err := loadDaemonConfig(configPath, cmd.Flags().Changed("config"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		os.Exit(1)
	}

	// Check for existing daemon via PID file
	pidFile := os.Getenv("DCNET_PID_FILE")
	if pidFile == "" {
		pidFile = cfg.Daemon.PIDFile
	}
	if pidFile == "" {
		pidFile = "/var/run/dcnetd.pid"
	}
	if err := checkExistingDaemon(pidFile); err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		os.Exit(1)
	}

	// Write our PID to file
	if err := writePIDFile(pidFile); err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] Failed to write PID file: %v\n", err)
		os.Exit(1)
	}
	defer os.Remove(pidFile)

	// Initialize structured logger
	if err := initializeLogger(cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	// Launch the modem provider plugin if one is configured
	var modem netmgr.ModemProvider
	var pluginClient *plugins.PluginClient
	if cfg.Daemon.ModemPlugin != "" {
		modem, pluginClient, err = startModemPlugin(cfg.Daemon.ModemPlugin)
		if err != nil {
			logger.Warn("Modem plugin unavailable, cellular channels disabled",
				logger.Field{Key: "plugin", Value: cfg.Daemon.ModemPlugin},
				logger.Field{Key: "error", Value: err.Error()})
		}
	}
	if pluginClient != nil {
		defer pluginClient.Close()
	}

	var journal *daemon.Journal
	if cfg.Daemon.JournalPath != "" {
		journal, err = daemon.OpenJournal(cfg.Daemon.JournalPath)
		if err != nil {
			logger.Warn("Mutation journal unavailable",
				logger.Field{Key: "path", Value: cfg.Daemon.JournalPath},
				logger.Field{Key: "error", Value: err.Error()})
		} else {
			defer journal.Close()
		}
	}

	platform := system.NewPlatform(
		system.NewDefaultNetlinkClient(),
		system.NewDefaultFilesystemClient(),
		cfg.Network.LeaseFilePattern,
		cfg.Network.ResolvConfPath,
	)
	registry := daemon.NewRegistry(cfg.Channels)
	manager := netmgr.NewManager(registry, platform, modem, cfg.Daemon.MaxClientSessions)

	server, err := daemon.NewServer(cfg.Daemon.SocketPath, manager, journal)
	if err != nil {
		logger.Error("Failed to create server", logger.Field{Key: "error", Value: err.Error()})
		os.Exit(1)
	}

	logger.Info("Daemon starting",
		logger.Field{Key: "channels", Value: len(cfg.Channels)},
		logger.Field{Key: "max_sessions", Value: cfg.Daemon.MaxClientSessions})

	// Handle shutdown gracefully
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutting down...")
		if err := server.Stop(); err != nil {
			logger.Error("Failed to stop server", logger.Field{Key: "error", Value: err.Error()})
		}
		if pluginClient != nil {
			pluginClient.Close()
		}
		if journal != nil {
			journal.Close()
		}
		os.Remove(pidFile)
		os.Exit(0)
	}()

	if err := server.Start(); err != nil {
		logger.Error("Server failed", logger.Field{Key: "error", Value: err.Error()})
		os.Exit(1)
	}
}

// loadDaemonConfig loads the config file. A missing file is only an
// error when the path was given explicitly; the built-in default path
// falls back to the default configuration.
func loadDaemonConfig(path string, explicit bool) (*daemon.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) && !explicit {
		return daemon.DefaultConfig(), nil
	}
	return daemon.LoadConfig(path)
}

// startModemPlugin locates, launches, and dispenses the modem provider.
func startModemPlugin(name string) (netmgr.ModemProvider, *plugins.PluginClient, error) {
	pm := plugins.NewPluginManager()
	path, err := pm.FindPlugin(name)
	if err != nil {
		return nil, nil, err
	}

	pluginClient, err := plugins.NewPluginClient(path)
	if err != nil {
		return nil, nil, err
	}

	provider, err := pluginClient.Dispense()
	if err != nil {
		pluginClient.Close()
		return nil, nil, err
	}

	logger.Info("Modem plugin loaded", logger.Field{Key: "path", Value: path})
	return plugins.NewModemAdapter(provider), pluginClient, nil
}

// checkExistingDaemon checks if another daemon is already running
func checkExistingDaemon(pidFile string) error {
	data, err := os.ReadFile(pidFile)
	if err != nil {
		if os.IsNotExist(err) {
			// No PID file exists, we're good to start
			return nil
		}
		// PID file exists but can't be read - warn but allow start
		return fmt.Errorf("PID file exists but cannot be read: %w (remove %s manually if daemon is not running)", err, pidFile)
	}

	// Parse PID from file
	pidStr := strings.TrimSpace(string(data))
	pid, err := strconv.Atoi(pidStr)
	if err != nil {
		// Invalid PID in file - warn but allow start
		return fmt.Errorf("invalid PID in %s: %s (remove file manually if daemon is not running)", pidFile, pidStr)
	}

	// Check if process with this PID exists
	process, err := os.FindProcess(pid)
	if err != nil {
		// Process doesn't exist, safe to remove stale PID file
		os.Remove(pidFile)
		return nil
	}

	// Try to signal the process to see if it's actually running
	err = process.Signal(syscall.Signal(0))
	if err != nil {
		// Process doesn't exist or we can't signal it, remove stale PID file
		os.Remove(pidFile)
		return nil
	}

	// Process exists and is running
	return fmt.Errorf("daemon already running with PID %d (stop it first or remove %s if it's stale)", pid, pidFile)
}

// writePIDFile writes the current process PID to a file
func writePIDFile(pidFile string) error {
	pid := os.Getpid()
	return os.WriteFile(pidFile, []byte(fmt.Sprintf("%d\n", pid)), 0600)
}

// initializeLogger sets up the structured logger from the log config
func initializeLogger(cfg daemon.LogConfig) error {
	config := logger.Config{
		Level:     cfg.Level,
		Format:    cfg.Format,
		Component: "daemon",
	}

	var backends []logger.Backend
	if cfg.File != "" {
		fileBackend, err := logger.NewFileBackend(cfg.File, config.Format)
		if err != nil {
			return fmt.Errorf("failed to initialize file backend: %w", err)
		}
		backends = append(backends, fileBackend)
	} else {
		backends = append(backends, logger.NewStderrBackend(config.Format))
	}

	logger.Init(config, backends)

	logger.Info("Logging initialized",
		logger.Field{Key: "level", Value: config.Level},
		logger.Field{Key: "format", Value: config.Format})

	return nil
}
