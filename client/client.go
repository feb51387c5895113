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

// Package client provides a client library for communicating with the dcnet daemon.
package client

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/gatewaykit/dcnet/daemon"
)

// DefaultTimeout bounds the connect and the full request/response
// exchange. Commands are short; a slow daemon is a stuck daemon.
const DefaultTimeout = 10 * time.Second

// GetSocketPath returns the socket path, preferring DCNET_SOCKET_PATH env var
func GetSocketPath() string {
	if path := os.Getenv("DCNET_SOCKET_PATH"); path != "" {
		return path
	}
	return "/var/run/dcnetd.sock"
}

// Client issues requests to the daemon over its unix socket. The zero
// value is not usable; construct with New.
type Client struct {
	socketPath string
	timeout    time.Duration
}

// New creates a client for the default socket path.
func New() *Client {
	return &Client{
		socketPath: GetSocketPath(),
		timeout:    DefaultTimeout,
	}
}

// NewWithSocket creates a client for a specific socket path. A zero
// timeout means DefaultTimeout.
func NewWithSocket(socketPath string, timeout time.Duration) *Client {
	if socketPath == "" {
		socketPath = GetSocketPath()
	}
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &Client{socketPath: socketPath, timeout: timeout}
}

// Send performs one request/response exchange with the daemon.
func (c *Client) Send(req daemon.Request) (*daemon.Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon (is it running?): %w", err)
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
		return nil, fmt.Errorf("failed to set connection deadline: %w", err)
	}

	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	data = append(data, '\n')
	if _, err = conn.Write(data); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	respData, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp daemon.Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return &resp, nil
}

// Send performs one exchange using a default client.
func Send(req daemon.Request) (*daemon.Response, error) {
	return New().Send(req)
}
