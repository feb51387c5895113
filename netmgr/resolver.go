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

package netmgr

import (
	"fmt"

	"github.com/gatewaykit/dcnet/types"
)

// ModemProvider is the synchronous query surface of the cellular modem
// stack. The daemon wires it to the modem plugin.
type ModemProvider interface {
	// GetNetInterface returns the network interface carrying the data
	// session identified by techRef.
	GetNetInterface(techRef string) (string, error)

	// GetDefaultGWAddress returns the session's default gateway
	// address per family; unassigned families are empty.
	GetDefaultGWAddress(techRef string) (v4 string, v6 string, err error)

	// GetDNSAddresses returns the session's DNS servers per family;
	// unassigned slots are empty.
	GetDNSAddresses(techRef string) (v4 [types.MaxDNSAddrs]string, v6 [types.MaxDNSAddrs]string, err error)
}

// AddressResolver resolves a channel's network interface and its
// gateway/DNS address assignments. There are exactly two variants:
// modem-backed resolution for cellular channels and lease-file-backed
// resolution for everything else.
type AddressResolver interface {
	NetInterface(ch *types.Channel) (string, error)
	GatewayAddresses(ch *types.Channel, intf string) (types.GatewayAddresses, error)
	DNSAddresses(ch *types.Channel, intf string) (types.DNSAddresses, error)
}

// modemResolver answers from the cellular modem stack; lease files are
// never consulted.
type modemResolver struct {
	modem ModemProvider
}

func (r *modemResolver) NetInterface(ch *types.Channel) (string, error) {
	intf, err := r.modem.GetNetInterface(ch.TechRef)
	if err != nil {
		return "", fmt.Errorf("modem interface query for channel %s: %w", ch.Name, err)
	}
	return intf, nil
}

func (r *modemResolver) GatewayAddresses(ch *types.Channel, _ string) (types.GatewayAddresses, error) {
	v4, v6, err := r.modem.GetDefaultGWAddress(ch.TechRef)
	if err != nil {
		return types.GatewayAddresses{}, fmt.Errorf("modem gateway query for channel %s: %w", ch.Name, err)
	}
	return types.GatewayAddresses{IPv4: v4, IPv6: v6}, nil
}

func (r *modemResolver) DNSAddresses(ch *types.Channel, _ string) (types.DNSAddresses, error) {
	v4, v6, err := r.modem.GetDNSAddresses(ch.TechRef)
	if err != nil {
		return types.DNSAddresses{}, fmt.Errorf("modem DNS query for channel %s: %w", ch.Name, err)
	}
	return types.DNSAddresses{IPv4: v4, IPv6: v6}, nil
}

// leaseResolver answers from the interface's DHCP lease file.
type leaseResolver struct {
	leases *LeaseReader
}

func (r *leaseResolver) NetInterface(ch *types.Channel) (string, error) {
	if ch.Interface == "" {
		return "", fmt.Errorf("no interface registered for channel %s: %w", ch.Name, types.ErrFault)
	}
	return ch.Interface, nil
}

func (r *leaseResolver) GatewayAddresses(_ *types.Channel, intf string) (types.GatewayAddresses, error) {
	raw, err := r.leases.ReadOption(intf, LeaseGateway, LeaseValueMaxLen)
	if err != nil {
		return types.GatewayAddresses{}, err
	}

	v4, v6, err := ExtractAddresses(raw, types.MaxGatewayAddrs)
	if err != nil {
		return types.GatewayAddresses{}, err
	}
	return types.GatewayAddresses{IPv4: v4[0], IPv6: v6[0]}, nil
}

func (r *leaseResolver) DNSAddresses(_ *types.Channel, intf string) (types.DNSAddresses, error) {
	raw, err := r.leases.ReadOption(intf, LeaseDNS, LeaseValueMaxLen)
	if err != nil {
		return types.DNSAddresses{}, err
	}

	v4, v6, err := ExtractAddresses(raw, types.MaxDNSAddrs)
	if err != nil {
		return types.DNSAddresses{}, err
	}

	var addrs types.DNSAddresses
	copy(addrs.IPv4[:], v4)
	copy(addrs.IPv6[:], v6)
	return addrs, nil
}

// resolverFor dispatches on the channel technology. The technology
// must already have passed the supported-range check.
func (m *Manager) resolverFor(tech types.Technology) (AddressResolver, error) {
	if tech == types.TechCellular {
		if m.modem == nil {
			return nil, fmt.Errorf("no modem provider configured: %w", types.ErrFault)
		}
		return &modemResolver{modem: m.modem}, nil
	}
	return &leaseResolver{leases: m.leases}, nil
}
