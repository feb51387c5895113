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

// Package plugins defines the modem provider plugin system for dcnet
// using Hashicorp's go-plugin framework. Cellular address resolution
// is delegated to an out-of-process modem plugin so the daemon stays
// independent of any particular modem stack.
package plugins

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gatewaykit/dcnet/types"
)

// Provider is the interface every modem plugin must implement for RPC
// communication.
type Provider interface {
	// Metadata returns plugin information
	Metadata(ctx context.Context) (MetadataResponse, error)

	// GetNetInterface returns the network interface carrying the data
	// session identified by techRef
	GetNetInterface(ctx context.Context, techRef string) (string, error)

	// GetDefaultGWAddress returns the session's default gateway
	// address per family; unassigned families are empty
	GetDefaultGWAddress(ctx context.Context, techRef string) (GatewayReply, error)

	// GetDNSAddresses returns the session's DNS servers per family;
	// unassigned slots are empty
	GetDNSAddresses(ctx context.Context, techRef string) (DNSReply, error)
}

// MetadataResponse contains plugin metadata
type MetadataResponse struct {
	// Name identifies the modem stack (e.g., "qmi", "mbim")
	Name string `json:"name"`

	// Version is the plugin version
	Version string `json:"version"`

	// Description is a human-readable description
	Description string `json:"description"`
}

// GatewayReply carries the per-family gateway addresses of a session.
type GatewayReply struct {
	IPv4 string `json:"ipv4,omitempty"`
	IPv6 string `json:"ipv6,omitempty"`
}

// DNSReply carries the per-family DNS server addresses of a session.
type DNSReply struct {
	IPv4 [types.MaxDNSAddrs]string `json:"ipv4"`
	IPv6 [types.MaxDNSAddrs]string `json:"ipv6"`
}

// PluginManager manages modem plugin discovery.
// It searches for plugins in multiple directories and provides methods to load them.
type PluginManager struct {
	pluginDirs []string
}

// NewPluginManager creates a new plugin manager with default search directories.
// Search order: ./bin (dev), /usr/lib/dcnet/plugins (system), /opt/dcnet/plugins (alt).
func NewPluginManager() *PluginManager {
	return &PluginManager{
		pluginDirs: []string{
			"./bin",                  // Local development
			"/usr/lib/dcnet/plugins", // System installation
			"/opt/dcnet/plugins",     // Alternative installation
		},
	}
}

// FindPlugin searches for a plugin binary by name.
// The name is converted to the full plugin binary name (e.g., "qmi" -> "dcnet-modem-qmi").
// Returns the full path to the plugin binary or an error if not found.
func (pm *PluginManager) FindPlugin(name string) (string, error) {
	pluginName := fmt.Sprintf("dcnet-modem-%s", name)

	for _, dir := range pm.pluginDirs {
		pluginPath := filepath.Join(dir, pluginName)

		// Check if plugin exists and is executable
		if info, err := os.Stat(pluginPath); err == nil {
			if info.Mode().IsRegular() && (info.Mode().Perm()&0111) != 0 {
				return pluginPath, nil
			}
		}
	}

	return "", fmt.Errorf("modem plugin not found: %s", name)
}
