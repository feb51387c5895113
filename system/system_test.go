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

package system

import (
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vishvananda/netlink"

	"github.com/gatewaykit/dcnet/types"
)

func newTestPlatform() (*Platform, *MockNetlinkClient, *MockFilesystemClient) {
	nl := NewMockNetlinkClient()
	nl.Links["eth0"] = &netlink.Dummy{LinkAttrs: netlink.LinkAttrs{Name: "eth0", Index: 1}}
	fs := NewMockFilesystemClient()
	return NewPlatform(nl, fs, "", ""), nl, fs
}

func TestSetDefaultGateway(t *testing.T) {
	tests := []struct {
		name    string
		intf    string
		addr    string
		isIPv6  bool
		wantDst string
		wantErr bool
	}{
		{"IPv4 gateway", "eth0", "192.168.1.1", false, "0.0.0.0/0", false},
		{"IPv6 gateway", "eth0", "2001:db8::1", true, "::/0", false},
		{"unknown interface", "wlan0", "192.168.1.1", false, "", true},
		{"invalid address", "eth0", "bogus", false, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			platform, nl, _ := newTestPlatform()

			err := platform.SetDefaultGateway(tt.intf, tt.addr, tt.isIPv6)
			if tt.wantErr {
				require.ErrorIs(t, err, types.ErrFault)
				assert.Equal(t, 0, nl.RouteReplaceCalls)
				return
			}
			require.NoError(t, err)
			require.Len(t, nl.Routes, 1)
			assert.Equal(t, tt.wantDst, nl.Routes[0].Dst.String())
			assert.Equal(t, tt.addr, nl.Routes[0].Gw.String())
		})
	}
}

func TestSetDefaultGatewayIdempotent(t *testing.T) {
	platform, nl, _ := newTestPlatform()

	require.NoError(t, platform.SetDefaultGateway("eth0", "192.168.1.1", false))
	require.NoError(t, platform.SetDefaultGateway("eth0", "192.168.1.254", false))

	// The second call replaces the default route instead of stacking one.
	require.Len(t, nl.Routes, 1)
	assert.Equal(t, "192.168.1.254", nl.Routes[0].Gw.String())
}

func TestGetDefaultGateway(t *testing.T) {
	platform, nl, _ := newTestPlatform()
	nl.Routes = append(nl.Routes,
		netlink.Route{Gw: net.ParseIP("192.168.1.1"), LinkIndex: 1},
		netlink.Route{Gw: net.ParseIP("fe80::1"), LinkIndex: 1},
	)

	state, v4Err, v6Err := platform.GetDefaultGateway()
	require.NoError(t, v4Err)
	require.NoError(t, v6Err)
	assert.Equal(t, "192.168.1.1", state.V4Gateway)
	assert.Equal(t, "eth0", state.V4Interface)
	assert.Equal(t, "fe80::1", state.V6Gateway)
	assert.Equal(t, "eth0", state.V6Interface)
}

func TestGetDefaultGatewayAbsent(t *testing.T) {
	platform, nl, _ := newTestPlatform()
	// A scoped route is not a default route.
	_, prefix, err := net.ParseCIDR("10.0.0.0/8")
	require.NoError(t, err)
	nl.Routes = append(nl.Routes, netlink.Route{Dst: prefix, LinkIndex: 1})

	state, v4Err, v6Err := platform.GetDefaultGateway()
	require.NoError(t, v4Err)
	require.NoError(t, v6Err)
	assert.Empty(t, state.V4Gateway)
	assert.Empty(t, state.V6Gateway)
}

func TestGetDefaultGatewayListFailure(t *testing.T) {
	platform, nl, _ := newTestPlatform()
	nl.RouteListError = fmt.Errorf("netlink down")

	_, v4Err, v6Err := platform.GetDefaultGateway()
	assert.Error(t, v4Err)
	assert.Error(t, v6Err)
}

func TestChangeRoute(t *testing.T) {
	tests := []struct {
		name         string
		action       RouteAction
		destAddr     string
		prefixLength string
		wantDst      string
		wantErr      error
	}{
		{"add IPv4 network route", RouteAdd, "10.1.0.0", "16", "10.1.0.0/16", nil},
		{"add host route", RouteAdd, "10.1.1.1", "", "10.1.1.1/32", nil},
		{"add IPv6 route", RouteAdd, "2001:db8::", "64", "2001:db8::/64", nil},
		{"invalid address", RouteAdd, "bogus", "", "", types.ErrBadParameter},
		{"prefix too large", RouteAdd, "10.1.0.0", "33", "", types.ErrBadParameter},
		{"non-numeric prefix", RouteAdd, "10.1.0.0", "abc", "", types.ErrBadParameter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			platform, nl, _ := newTestPlatform()

			err := platform.ChangeRoute(tt.action, tt.destAddr, tt.prefixLength, "eth0")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Len(t, nl.Routes, 1)
			assert.Equal(t, tt.wantDst, nl.Routes[0].Dst.String())
		})
	}
}

func TestChangeRouteDelete(t *testing.T) {
	platform, nl, _ := newTestPlatform()

	require.NoError(t, platform.ChangeRoute(RouteAdd, "10.1.0.0", "16", "eth0"))
	require.NoError(t, platform.ChangeRoute(RouteDelete, "10.1.0.0", "16", "eth0"))
	assert.Empty(t, nl.Routes)
}

func TestChangeRouteDeleteMissing(t *testing.T) {
	platform, _, _ := newTestPlatform()

	err := platform.ChangeRoute(RouteDelete, "10.1.0.0", "16", "eth0")
	assert.Error(t, err)
}

func TestSetDnsNameServers(t *testing.T) {
	tests := []struct {
		name     string
		existing string
		dns1     string
		dns2     string
		want     string
		wantErr  error
	}{
		{
			name: "fresh file",
			dns1: "8.8.8.8", dns2: "8.8.4.4",
			want: "nameserver 8.8.8.8\nnameserver 8.8.4.4\n",
		},
		{
			name:     "prepended before existing servers",
			existing: "nameserver 10.0.0.53\n",
			dns1:     "8.8.8.8", dns2: "",
			want: "nameserver 8.8.8.8\nnameserver 10.0.0.53\n",
		},
		{
			name:     "one of the pair already present",
			existing: "nameserver 8.8.8.8\n",
			dns1:     "8.8.8.8", dns2: "8.8.4.4",
			want: "nameserver 8.8.4.4\nnameserver 8.8.8.8\n",
		},
		{
			name:     "both already present",
			existing: "nameserver 8.8.8.8\nnameserver 8.8.4.4\n",
			dns1:     "8.8.8.8", dns2: "8.8.4.4",
			wantErr:  types.ErrDuplicate,
		},
		{
			name:    "no address given",
			dns1:    "", dns2: "",
			wantErr: types.ErrBadParameter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			platform, _, fs := newTestPlatform()
			if tt.existing != "" {
				fs.Files[DefaultResolvConfPath] = []byte(tt.existing)
			}

			err := platform.SetDnsNameServers(tt.dns1, tt.dns2)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(fs.Files[DefaultResolvConfPath]))
		})
	}
}

func TestRestoreInitialDnsNameServers(t *testing.T) {
	platform, _, fs := newTestPlatform()
	fs.Files[DefaultResolvConfPath] = []byte(
		"search lan\nnameserver 8.8.8.8\nnameserver 10.0.0.53\nnameserver 8.8.4.4\n")

	require.NoError(t, platform.RestoreInitialDnsNameServers([]string{"8.8.8.8", "8.8.4.4", ""}))

	content := string(fs.Files[DefaultResolvConfPath])
	assert.Equal(t, "search lan\nnameserver 10.0.0.53\n", content)
}

func TestRestoreInitialDnsNameServersMissingFile(t *testing.T) {
	platform, _, fs := newTestPlatform()

	require.NoError(t, platform.RestoreInitialDnsNameServers([]string{"8.8.8.8"}))
	assert.Equal(t, 0, fs.WriteFileCalls)
}

func TestGetInterfaceState(t *testing.T) {
	tests := []struct {
		name     string
		addrs    []string
		wantIPv4 bool
		wantIPv6 bool
	}{
		{"no addresses", nil, false, false},
		{"IPv4 only", []string{"192.168.1.50/24"}, true, false},
		{"dual stack", []string{"192.168.1.50/24", "2001:db8::50/64"}, true, true},
		{"link-local IPv6 does not count", []string{"fe80::50/64"}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			platform, nl, _ := newTestPlatform()
			for _, cidr := range tt.addrs {
				ip, prefix, err := net.ParseCIDR(cidr)
				require.NoError(t, err)
				nl.Addresses["eth0"] = append(nl.Addresses["eth0"],
					netlink.Addr{IPNet: &net.IPNet{IP: ip, Mask: prefix.Mask}})
			}

			ipv4, ipv6, err := platform.GetInterfaceState("eth0")
			require.NoError(t, err)
			assert.Equal(t, tt.wantIPv4, ipv4)
			assert.Equal(t, tt.wantIPv6, ipv6)
		})
	}
}

func TestGetInterfaceStateUnknown(t *testing.T) {
	platform, _, _ := newTestPlatform()

	_, _, err := platform.GetInterfaceState("wlan0")
	assert.ErrorIs(t, err, types.ErrFault)
}

func TestDhcpLeaseFilePath(t *testing.T) {
	platform := NewPlatform(NewMockNetlinkClient(), NewMockFilesystemClient(), "", "")

	path, err := platform.DhcpLeaseFilePath("eth0")
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/dhcp/dhclient.eth0.leases", path)

	for _, bad := range []string{"", "eth 0", "../etc"} {
		_, err := platform.DhcpLeaseFilePath(bad)
		assert.ErrorIs(t, err, types.ErrFault, bad)
	}
}
