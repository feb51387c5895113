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

package daemon

import (
	"bufio"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vishvananda/netlink"

	"github.com/gatewaykit/dcnet/netmgr"
	"github.com/gatewaykit/dcnet/system"
)

type serverFixture struct {
	server   *Server
	netlink  *system.MockNetlinkClient
	fs       *system.MockFilesystemClient
	leaseDir string
}

func newServerFixture(t *testing.T) *serverFixture {
	t.Helper()

	dir := t.TempDir()
	nl := system.NewMockNetlinkClient()
	nl.Links["eth0"] = &netlink.Dummy{LinkAttrs: netlink.LinkAttrs{Name: "eth0", Index: 1}}

	fs := system.NewMockFilesystemClient()

	platform := system.NewPlatform(nl, fs,
		filepath.Join(dir, "dhclient.%s.leases"), "/etc/resolv.conf")

	registry := NewRegistry([]*ChannelConfig{
		{Ref: "ch-eth0", Name: "office-lan", Technology: "ethernet", Interface: "eth0"},
	})

	manager := netmgr.NewManager(registry, platform, nil, 4)

	journal, err := OpenJournal(filepath.Join(dir, "journal.db"))
	require.NoError(t, err)

	server, err := NewServer(filepath.Join(dir, "dcnetd.sock"), manager, journal)
	require.NoError(t, err)

	t.Cleanup(func() {
		server.Stop()
		journal.Close()
	})

	return &serverFixture{
		server:   server,
		netlink:  nl,
		fs:       fs,
		leaseDir: dir,
	}
}

func (f *serverFixture) writeLease(t *testing.T, intf, content string) {
	t.Helper()
	path := filepath.Join(f.leaseDir, "dhclient."+intf+".leases")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestServerUnknownCommand(t *testing.T) {
	f := newServerFixture(t)

	resp := f.server.handleRequest(Request{Command: "frobnicate"})
	assert.False(t, resp.Success)
	assert.Equal(t, "bad-parameter", resp.Code)
	assert.Contains(t, resp.Error, "unknown command")
}

func TestServerStatus(t *testing.T) {
	f := newServerFixture(t)

	resp := f.server.handleRequest(Request{Command: "status"})
	require.True(t, resp.Success)
	assert.Equal(t, "ok", resp.Code)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 0, data["gw_backups"])
	assert.Equal(t, true, data["journaling"])
}

func TestServerGatewayLifecycle(t *testing.T) {
	f := newServerFixture(t)
	f.writeLease(t, "eth0", "option routers 192.168.1.1;\n")
	f.netlink.Routes = append(f.netlink.Routes, netlink.Route{
		Gw:        net.ParseIP("10.0.0.1"),
		LinkIndex: 1,
	})

	resp := f.server.handleRequest(Request{Command: "backup-gw", SessionID: "session-a"})
	require.True(t, resp.Success)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "session-a", data["session"])

	resp = f.server.handleRequest(Request{
		Command: "set-gw", SessionID: "session-a", Channel: "ch-eth0",
	})
	require.True(t, resp.Success)
	assert.Equal(t, "ok", resp.Code)
	assert.Equal(t, 1, f.netlink.RouteReplaceCalls)

	resp = f.server.handleRequest(Request{Command: "restore-gw", SessionID: "session-a"})
	require.True(t, resp.Success)
	assert.Equal(t, 2, f.netlink.RouteReplaceCalls)

	// The journal saw all three mutations.
	entries, err := f.server.journal.QueryMutations("", 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "restore-gw", entries[0].Op)
	assert.Equal(t, "session-a", entries[0].Session)
}

func TestServerRestoreWithoutBackup(t *testing.T) {
	f := newServerFixture(t)

	resp := f.server.handleRequest(Request{Command: "restore-gw", SessionID: "session-a"})
	assert.False(t, resp.Success)
	assert.Equal(t, "not-found", resp.Code)
}

func TestServerAssignsSession(t *testing.T) {
	f := newServerFixture(t)

	resp := f.server.handleRequest(Request{Command: "backup-gw"})
	require.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "session-1", data["session"])

	resp = f.server.handleRequest(Request{Command: "backup-gw"})
	data = resp.Data.(map[string]interface{})
	assert.Equal(t, "session-2", data["session"])
}

func TestServerSetDNSDuplicate(t *testing.T) {
	f := newServerFixture(t)
	f.writeLease(t, "eth0", "option domain-name-servers 8.8.8.8,8.8.4.4;\n")

	resp := f.server.handleRequest(Request{
		Command: "set-dns", SessionID: "session-a", Channel: "ch-eth0",
	})
	require.True(t, resp.Success)
	assert.Equal(t, "ok", resp.Code)

	resp = f.server.handleRequest(Request{
		Command: "set-dns", SessionID: "session-a", Channel: "ch-eth0",
	})
	assert.True(t, resp.Success)
	assert.Equal(t, "duplicate", resp.Code)
	assert.Equal(t, "already configured", resp.Message)
}

func TestServerRouteValidation(t *testing.T) {
	f := newServerFixture(t)

	resp := f.server.handleRequest(Request{
		Command: "route", Channel: "ch-eth0",
		Dest: "not-an-address", PrefixLength: "24", IsAdd: true,
	})
	assert.False(t, resp.Success)
	assert.Equal(t, "bad-parameter", resp.Code)
	assert.Zero(t, f.netlink.RouteAddCalls)
}

func TestServerRouteAdd(t *testing.T) {
	f := newServerFixture(t)

	resp := f.server.handleRequest(Request{
		Command: "route", Channel: "ch-eth0",
		Dest: "8.8.8.8", PrefixLength: "", IsAdd: true,
	})
	require.True(t, resp.Success)
	assert.Equal(t, 1, f.netlink.RouteAddCalls)

	entries, err := f.server.journal.QueryMutations("route", 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Detail, "added dest=8.8.8.8")
}

func TestServerIntfState(t *testing.T) {
	f := newServerFixture(t)
	f.netlink.Addresses["eth0"] = []netlink.Addr{
		{IPNet: &net.IPNet{IP: net.ParseIP("192.168.1.10"), Mask: net.CIDRMask(24, 32)}},
	}

	resp := f.server.handleRequest(Request{Command: "intf-state", Interface: "eth0"})
	require.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, true, data["ipv4"])
	assert.Equal(t, false, data["ipv6"])
}

func TestServerSocketRoundTrip(t *testing.T) {
	f := newServerFixture(t)

	go f.server.Start()

	conn, err := net.Dial("unix", f.server.socketPath)
	require.NoError(t, err)
	defer conn.Close()

	payload, err := json.Marshal(Request{Command: "status"})
	require.NoError(t, err)
	payload = append(payload, '\n')
	_, err = conn.Write(payload)
	require.NoError(t, err)

	line, err := bufio.NewReader(conn).ReadBytes('\n')
	require.NoError(t, err)

	var resp Response
	require.NoError(t, json.Unmarshal(line, &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "ok", resp.Code)
}

func TestServerMalformedRequest(t *testing.T) {
	f := newServerFixture(t)

	go f.server.Start()

	conn, err := net.Dial("unix", f.server.socketPath)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte("this is not json\n"))
	require.NoError(t, err)

	line, err := bufio.NewReader(conn).ReadBytes('\n')
	require.NoError(t, err)

	var resp Response
	require.NoError(t, json.Unmarshal(line, &resp))
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "invalid request")
}
