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
	"strconv"
	"strings"

	"github.com/vishvananda/netlink"

	"github.com/gatewaykit/dcnet/daemon/logger"
	"github.com/gatewaykit/dcnet/types"
)

// RouteAction selects the routing-table verb for ChangeRoute.
type RouteAction int

const (
	RouteAdd RouteAction = iota
	RouteDelete
)

// String returns the verb name of a route action.
func (a RouteAction) String() string {
	if a == RouteDelete {
		return "delete"
	}
	return "add"
}

// ChangeRoute adds or deletes a route for destAddr on the given
// interface. An empty prefixLength means no mask constraint: the route
// covers the single host address.
func (p *Platform) ChangeRoute(action RouteAction, destAddr, prefixLength, intf string) error {
	link, err := p.netlink.LinkByName(intf)
	if err != nil {
		return fmt.Errorf("interface %s not found: %w", intf, types.ErrFault)
	}

	dst, err := destNet(destAddr, prefixLength)
	if err != nil {
		return err
	}

	route := &netlink.Route{
		Dst:       dst,
		LinkIndex: link.Attrs().Index,
	}

	switch action {
	case RouteDelete:
		err = p.netlink.RouteDel(route)
	default:
		err = p.netlink.RouteAdd(route)
	}
	if err != nil {
		return fmt.Errorf("failed to %s route for %s on %s: %w", action, destAddr, intf, err)
	}

	logger.Info("Route changed",
		logger.Field{Key: "action", Value: action.String()},
		logger.Field{Key: "destination", Value: destAddr},
		logger.Field{Key: "prefix_length", Value: prefixLength},
		logger.Field{Key: "interface", Value: intf})
	return nil
}

// destNet builds the destination prefix from address text and an
// optional prefix length.
func destNet(destAddr, prefixLength string) (*net.IPNet, error) {
	ip := net.ParseIP(destAddr)
	if ip == nil {
		return nil, fmt.Errorf("invalid destination address %q: %w", destAddr, types.ErrBadParameter)
	}

	bitLen := 32
	if strings.Contains(destAddr, ":") {
		bitLen = 128
	}

	ones := bitLen
	if prefixLength != "" {
		n, err := strconv.Atoi(prefixLength)
		if err != nil || n < 0 || n > bitLen {
			return nil, fmt.Errorf("invalid prefix length %q: %w", prefixLength, types.ErrBadParameter)
		}
		ones = n
	}

	return &net.IPNet{IP: ip, Mask: net.CIDRMask(ones, bitLen)}, nil
}
