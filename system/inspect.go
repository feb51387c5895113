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
	"strings"

	"github.com/vishvananda/netlink"

	"github.com/gatewaykit/dcnet/types"
)

// GetInterfaceState reports whether the interface has an IPv4 and an
// IPv6 address assigned. Link-local IPv6 addresses do not count as an
// assignment.
func (p *Platform) GetInterfaceState(intf string) (bool, bool, error) {
	link, err := p.netlink.LinkByName(intf)
	if err != nil {
		return false, false, fmt.Errorf("interface %s not found: %w", intf, types.ErrFault)
	}

	v4Addrs, err := p.netlink.AddrList(link, netlink.FAMILY_V4)
	if err != nil {
		return false, false, fmt.Errorf("failed to list IPv4 addresses on %s: %w", intf, err)
	}

	v6Addrs, err := p.netlink.AddrList(link, netlink.FAMILY_V6)
	if err != nil {
		return false, false, fmt.Errorf("failed to list IPv6 addresses on %s: %w", intf, err)
	}

	v6Assigned := false
	for _, addr := range v6Addrs {
		if !addr.IP.IsLinkLocalUnicast() {
			v6Assigned = true
			break
		}
	}

	return len(v4Addrs) > 0, v6Assigned, nil
}

// DhcpLeaseFilePath resolves the DHCP lease file for an interface.
func (p *Platform) DhcpLeaseFilePath(intf string) (string, error) {
	if intf == "" || strings.ContainsAny(intf, "/ ") {
		return "", fmt.Errorf("invalid interface name %q: %w", intf, types.ErrFault)
	}
	return fmt.Sprintf(p.leasePattern, intf), nil
}
