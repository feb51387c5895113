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

	"github.com/vishvananda/netlink"

	"github.com/gatewaykit/dcnet/daemon/logger"
	"github.com/gatewaykit/dcnet/types"
)

// DefaultGatewayState holds the system's current default-gateway
// configuration per address family. Empty strings mean the family has
// no default route installed.
type DefaultGatewayState struct {
	V4Gateway   string
	V4Interface string
	V6Gateway   string
	V6Interface string
}

// SetDefaultGateway installs addr as the system default gateway on the
// given interface. The replace verb makes the call idempotent at the
// OS level.
func (p *Platform) SetDefaultGateway(intf, addr string, isIPv6 bool) error {
	link, err := p.netlink.LinkByName(intf)
	if err != nil {
		return fmt.Errorf("interface %s not found: %w", intf, types.ErrFault)
	}

	gw := net.ParseIP(addr)
	if gw == nil {
		return fmt.Errorf("invalid gateway address %q: %w", addr, types.ErrFault)
	}

	route := &netlink.Route{
		Dst:       defaultDst(isIPv6),
		Gw:        gw,
		LinkIndex: link.Attrs().Index,
	}

	if err := p.netlink.RouteReplace(route); err != nil {
		return fmt.Errorf("failed to set default gateway %s on %s: %w", addr, intf, err)
	}

	logger.Info("Default gateway set",
		logger.Field{Key: "interface", Value: intf},
		logger.Field{Key: "gateway", Value: addr},
		logger.Field{Key: "ipv6", Value: isIPv6})
	return nil
}

// GetDefaultGateway retrieves the current default gateway per family.
// Each family reports its own error; a family without a default route
// yields empty fields and a nil error.
func (p *Platform) GetDefaultGateway() (DefaultGatewayState, error, error) {
	var state DefaultGatewayState

	v4Err := p.captureDefaultRoute(netlink.FAMILY_V4, &state.V4Gateway, &state.V4Interface)
	v6Err := p.captureDefaultRoute(netlink.FAMILY_V6, &state.V6Gateway, &state.V6Interface)
	return state, v4Err, v6Err
}

func (p *Platform) captureDefaultRoute(family int, gw, intf *string) error {
	routes, err := p.netlink.RouteList(nil, family)
	if err != nil {
		return fmt.Errorf("failed to list routes: %w", err)
	}

	for _, route := range routes {
		if !isDefaultRoute(&route) || route.Gw == nil {
			continue
		}
		link, err := p.netlink.LinkByIndex(route.LinkIndex)
		if err != nil {
			return fmt.Errorf("failed to resolve interface for default route: %w", err)
		}
		*gw = route.Gw.String()
		*intf = link.Attrs().Name
		return nil
	}
	return nil
}

// isDefaultRoute reports whether a route covers all destinations.
func isDefaultRoute(route *netlink.Route) bool {
	if route.Dst == nil {
		return true
	}
	ones, _ := route.Dst.Mask.Size()
	return ones == 0
}

// defaultDst returns the all-destinations prefix for the family. The
// netlink library treats a nil Dst as IPv4 default, so the IPv6 prefix
// is spelled out.
func defaultDst(isIPv6 bool) *net.IPNet {
	if isIPv6 {
		return &net.IPNet{IP: net.IPv6zero, Mask: net.CIDRMask(0, 128)}
	}
	return &net.IPNet{IP: net.IPv4zero, Mask: net.CIDRMask(0, 32)}
}
