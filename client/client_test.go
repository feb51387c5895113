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

package client

import (
	"bufio"
	"encoding/json"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatewaykit/dcnet/daemon"
)

// stubDaemon accepts one connection and answers every request with the
// given response.
func stubDaemon(t *testing.T, resp daemon.Response) string {
	t.Helper()

	socketPath := filepath.Join(t.TempDir(), "dcnetd.sock")
	listener, err := net.Listen("unix", socketPath)
	require.NoError(t, err)
	t.Cleanup(func() { listener.Close() })

	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		if _, err := bufio.NewReader(conn).ReadBytes('\n'); err != nil {
			return
		}
		data, _ := json.Marshal(resp)
		conn.Write(append(data, '\n'))
	}()

	return socketPath
}

func TestClientSend(t *testing.T) {
	socketPath := stubDaemon(t, daemon.Response{
		Success: true,
		Code:    "ok",
		Message: "daemon running",
	})

	c := NewWithSocket(socketPath, time.Second)
	resp, err := c.Send(daemon.Request{Command: "status"})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "ok", resp.Code)
	assert.Equal(t, "daemon running", resp.Message)
}

func TestClientSendNoDaemon(t *testing.T) {
	c := NewWithSocket(filepath.Join(t.TempDir(), "absent.sock"), time.Second)

	_, err := c.Send(daemon.Request{Command: "status"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to daemon")
}

func TestClientSocketPathOverride(t *testing.T) {
	t.Setenv("DCNET_SOCKET_PATH", "/tmp/custom.sock")
	assert.Equal(t, "/tmp/custom.sock", GetSocketPath())

	c := NewWithSocket("", 0)
	assert.Equal(t, "/tmp/custom.sock", c.socketPath)
	assert.Equal(t, DefaultTimeout, c.timeout)
}
