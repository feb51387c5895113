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

package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatewaykit/dcnet/daemon"
)

func TestCommandsRegistered(t *testing.T) {
	expected := []string{
		"daemon", "status", "stats",
		"backup-gw", "set-gw", "restore-gw", "get-gw",
		"set-dns", "restore-dns", "get-dns",
		"route", "intf-state",
	}

	registered := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		registered[cmd.Name()] = true
	}

	for _, name := range expected {
		assert.True(t, registered[name], "command %s not registered", name)
	}
}

func TestAssignedLabel(t *testing.T) {
	assert.Equal(t, "assigned", assignedLabel(true))
	assert.Equal(t, "not assigned", assignedLabel(false))
	assert.Equal(t, "not assigned", assignedLabel(nil))
	assert.Equal(t, "not assigned", assignedLabel("garbage"))
}

func TestFillHourlySeries(t *testing.T) {
	now := time.Now()
	since := now.Add(-3 * time.Hour)
	hourStart := func(t time.Time) time.Time {
		return time.Unix(t.Unix()/3600*3600, 0)
	}

	buckets := []daemon.ActivityBucket{
		{Hour: hourStart(since), Count: 2},
		{Hour: hourStart(now), Count: 5},
	}

	series := fillHourlySeries(since, 3, buckets)
	assert.Len(t, series, 4)
	assert.Equal(t, 2.0, series[0])
	assert.Equal(t, 0.0, series[1])
	assert.Equal(t, 0.0, series[2])
	assert.Equal(t, 5.0, series[3])
}

func TestFillHourlySeriesEmpty(t *testing.T) {
	since := time.Now().Add(-time.Hour)
	series := fillHourlySeries(since, 1, nil)

	assert.Len(t, series, 2)
	for _, v := range series {
		assert.Zero(t, v)
	}
}

func TestLoadDaemonConfig(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "dcnetd.toml")

	// The built-in default path may be absent; an explicit one may not.
	cfg, err := loadDaemonConfig(missing, false)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Daemon.MaxClientSessions)

	_, err = loadDaemonConfig(missing, true)
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "dcnetd.toml")
	require.NoError(t, os.WriteFile(path, []byte("[daemon]\nmax_client_sessions = 3\n"), 0644))

	cfg, err = loadDaemonConfig(path, true)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Daemon.MaxClientSessions)
}

func TestDaemonCommandFlags(t *testing.T) {
	assert.NotNil(t, daemonCmd.Flags().Lookup("config"))
	assert.NotNil(t, daemonCmd.Run)
}

func TestVersionTemplate(t *testing.T) {
	SetVersion("1.2.3", "2026-01-01")
	assert.Equal(t, "1.2.3", rootCmd.Version)
	assert.Equal(t, "1.2.3", Version)
	assert.Equal(t, "2026-01-01", BuildTime)
}
