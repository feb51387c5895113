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

package plugins

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"
)

// PluginClient wraps a go-plugin client for lifecycle management
type PluginClient struct {
	client    *plugin.Client
	rpcClient plugin.ClientProtocol
}

// NewPluginClient creates a new plugin client and starts the plugin
func NewPluginClient(pluginPath string) (*PluginClient, error) {
	// Check DCNET_DEBUG environment variable to enable framework logs
	logLevel := hclog.Error
	if os.Getenv("DCNET_DEBUG") != "" {
		logLevel = hclog.Debug
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "modem-plugin",
		Output: io.Discard, // Discard all plugin framework logs by default
		Level:  logLevel,
	})

	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig: Handshake,
		Plugins: map[string]plugin.Plugin{
			"modem": &RPCPlugin{},
		},
		Cmd:    exec.Command(pluginPath),
		Logger: logger,
		AllowedProtocols: []plugin.Protocol{
			plugin.ProtocolNetRPC,
		},
	})

	rpcClient, err := client.Client()
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("failed to get RPC client: %w", err)
	}

	return &PluginClient{
		client:    client,
		rpcClient: rpcClient,
	}, nil
}

// Dispense dispenses the modem provider
func (c *PluginClient) Dispense() (Provider, error) {
	raw, err := c.rpcClient.Dispense("modem")
	if err != nil {
		return nil, fmt.Errorf("failed to dispense plugin: %w", err)
	}

	provider, ok := raw.(Provider)
	if !ok {
		return nil, fmt.Errorf("dispensed plugin is not a Provider")
	}

	return provider, nil
}

// Close terminates the plugin
func (c *PluginClient) Close() error {
	if c.client != nil {
		c.client.Kill()
	}
	return nil
}
