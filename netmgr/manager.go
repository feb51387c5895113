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
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gatewaykit/dcnet/daemon/logger"
	"github.com/gatewaykit/dcnet/system"
	"github.com/gatewaykit/dcnet/types"
)

// ChannelRegistry resolves channel references to channel records.
type ChannelRegistry interface {
	ChannelByRef(ref string) (*types.Channel, error)
}

// Manager orchestrates gateway, DNS, and route configuration on behalf
// of client sessions. It is not safe for concurrent use; the daemon
// serializes calls.
type Manager struct {
	registry ChannelRegistry
	platform *system.Platform
	leases   *LeaseReader
	modem    ModemProvider

	backups *GatewayBackupStack
	dns     DNSBackup
}

// NewManager creates a manager. modem may be nil when no cellular
// provider is available; cellular channels then fail with a fault.
func NewManager(registry ChannelRegistry, platform *system.Platform, modem ModemProvider, sessionCapacity int) *Manager {
	return &Manager{
		registry: registry,
		platform: platform,
		leases:   NewLeaseReader(platform),
		modem:    modem,
		backups:  NewGatewayBackupStack(sessionCapacity),
	}
}

// channelTarget resolves the channel reference, validates its
// technology, and resolves the network interface carrying it.
func (m *Manager) channelTarget(channelRef string) (*types.Channel, AddressResolver, string, error) {
	ch, err := m.registry.ChannelByRef(channelRef)
	if err != nil || ch == nil {
		return nil, nil, "", fmt.Errorf("invalid channel reference %q: %w", channelRef, types.ErrFault)
	}

	if !ch.Technology.Valid() {
		return nil, nil, "", fmt.Errorf("technology %s of channel %s not supported: %w",
			ch.Technology, ch.Name, types.ErrUnsupported)
	}

	resolver, err := m.resolverFor(ch.Technology)
	if err != nil {
		return nil, nil, "", err
	}

	intf, err := resolver.NetInterface(ch)
	if err != nil {
		return nil, nil, "", fmt.Errorf("failed to resolve interface of channel %s: %w",
			ch.Name, types.ErrFault)
	}
	return ch, resolver, intf, nil
}

// BackupDefaultGW captures the system's current default-gateway
// configuration into the session's backup slot. The capture tolerates
// a family that cannot be read; that family is recorded as absent.
func (m *Manager) BackupDefaultGW(session SessionID) error {
	state, v4Err, v6Err := m.platform.GetDefaultGateway()
	if v4Err != nil {
		logger.Warn("Failed to read IPv4 default GW for backup",
			logger.Field{Key: "error", Value: v4Err.Error()})
	}
	if v6Err != nil {
		logger.Warn("Failed to read IPv6 default GW for backup",
			logger.Field{Key: "error", Value: v6Err.Error()})
	}

	_, err := m.backups.Push(session, GatewayBackup{
		V4Gateway:   state.V4Gateway,
		V4Interface: state.V4Interface,
		V6Gateway:   state.V6Gateway,
		V6Interface: state.V6Interface,
	})
	if err != nil {
		return err
	}

	logger.Info("Default GW configs backed up",
		logger.Field{Key: "session", Value: string(session)},
		logger.Field{Key: "v4Gateway", Value: state.V4Gateway},
		logger.Field{Key: "v6Gateway", Value: state.V6Gateway})
	return nil
}

// SetDefaultGW installs the channel's gateway addresses as the
// system's default gateways. It succeeds when at least one of the
// channel's address families is installed.
func (m *Manager) SetDefaultGW(session SessionID, channelRef string) error {
	ch, resolver, intf, err := m.channelTarget(channelRef)
	if err != nil {
		return err
	}

	gw, err := resolver.GatewayAddresses(ch, intf)
	if err != nil {
		return fmt.Errorf("failed to get gateway addresses of channel %s: %w",
			ch.Name, types.ErrFault)
	}
	if gw.Empty() {
		return fmt.Errorf("channel %s provides no gateway address: %w", ch.Name, types.ErrFault)
	}

	entry, recent := m.backups.Lookup(session)
	if entry == nil {
		logger.Warn("Default GW config not backed up before being changed",
			logger.Field{Key: "session", Value: string(session)})
	} else if !recent {
		logger.Warn("Default GW config changed after another session's backup",
			logger.Field{Key: "session", Value: string(session)})
	}

	v6Set := false
	if gw.IPv6 != "" {
		if err := m.platform.SetDefaultGateway(intf, gw.IPv6, true); err != nil {
			logger.Error("Failed to set IPv6 default GW",
				logger.Field{Key: "channel", Value: ch.Name},
				logger.Field{Key: "error", Value: err.Error()})
		} else {
			v6Set = true
			if entry != nil {
				entry.V6Applied = true
			}
		}
	}

	v4Set := false
	if gw.IPv4 != "" {
		if err := m.platform.SetDefaultGateway(intf, gw.IPv4, false); err != nil {
			logger.Error("Failed to set IPv4 default GW",
				logger.Field{Key: "channel", Value: ch.Name},
				logger.Field{Key: "error", Value: err.Error()})
		} else {
			v4Set = true
			if entry != nil {
				entry.V4Applied = true
			}
		}
	}

	if !v4Set && !v6Set {
		return fmt.Errorf("failed to set default GW for channel %s: %w", ch.Name, types.ErrFault)
	}

	logger.Info("Default GW set",
		logger.Field{Key: "session", Value: string(session)},
		logger.Field{Key: "channel", Value: ch.Name},
		logger.Field{Key: "interface", Value: intf})
	return nil
}

// RestoreDefaultGW reinstates the default-gateway configuration backed
// up by the session and releases its backup slot. Only the address
// families this session actually overwrote are reinstated.
func (m *Manager) RestoreDefaultGW(session SessionID) error {
	entry := m.backups.PopForRestore(session)
	if entry == nil {
		return fmt.Errorf("no default GW backup for session %q: %w",
			session, types.ErrNotFound)
	}

	attempted, restored := 0, 0
	if entry.V6Applied {
		attempted++
		if entry.V6Gateway == "" {
			logger.Debug("No IPv6 default GW backed up to restore",
				logger.Field{Key: "session", Value: string(session)})
			restored++
		} else if err := m.platform.SetDefaultGateway(entry.V6Interface, entry.V6Gateway, true); err != nil {
			logger.Error("Failed to restore IPv6 default GW",
				logger.Field{Key: "error", Value: err.Error()})
		} else {
			restored++
		}
	}
	if entry.V4Applied {
		attempted++
		if entry.V4Gateway == "" {
			logger.Debug("No IPv4 default GW backed up to restore",
				logger.Field{Key: "session", Value: string(session)})
			restored++
		} else if err := m.platform.SetDefaultGateway(entry.V4Interface, entry.V4Gateway, false); err != nil {
			logger.Error("Failed to restore IPv4 default GW",
				logger.Field{Key: "error", Value: err.Error()})
		} else {
			restored++
		}
	}

	if attempted > 0 && restored == 0 {
		return fmt.Errorf("failed to restore default GW for session %q: %w",
			session, types.ErrFault)
	}

	logger.Info("Default GW configs restored",
		logger.Field{Key: "session", Value: string(session)})
	return nil
}

// GetDefaultGW returns the default-gateway addresses assigned to the
// channel by its technology, resolved from the modem or the lease
// file, along with the carrying interface.
func (m *Manager) GetDefaultGW(channelRef string) (types.GatewayAddresses, string, error) {
	ch, resolver, intf, err := m.channelTarget(channelRef)
	if err != nil {
		return types.GatewayAddresses{}, "", err
	}

	gw, err := resolver.GatewayAddresses(ch, intf)
	if err != nil {
		return types.GatewayAddresses{}, "", fmt.Errorf("failed to get default GW address of channel %s: %w",
			ch.Name, types.ErrFault)
	}
	return gw, intf, nil
}

// SetDNS installs the channel's DNS servers into the system resolver
// configuration and records them for a later RestoreDNS. Servers
// already configured count as duplicates, not failures.
func (m *Manager) SetDNS(session SessionID, channelRef string) error {
	ch, resolver, intf, err := m.channelTarget(channelRef)
	if err != nil {
		return err
	}

	dns, err := resolver.DNSAddresses(ch, intf)
	if err != nil {
		return fmt.Errorf("failed to get DNS addresses of channel %s: %w",
			ch.Name, types.ErrFault)
	}
	if dns.Empty() {
		return fmt.Errorf("channel %s provides no DNS address: %w", ch.Name, types.ErrFault)
	}

	set, duplicate := 0, 0
	if dns.IPv4[0] != "" || dns.IPv4[1] != "" {
		switch err := m.platform.SetDnsNameServers(dns.IPv4[0], dns.IPv4[1]); {
		case err == nil:
			m.dns.RecordIPv4(dns.IPv4[0], dns.IPv4[1])
			set++
		case errors.Is(err, types.ErrDuplicate):
			duplicate++
		default:
			logger.Error("Failed to set IPv4 DNS servers",
				logger.Field{Key: "channel", Value: ch.Name},
				logger.Field{Key: "error", Value: err.Error()})
		}
	}
	if dns.IPv6[0] != "" || dns.IPv6[1] != "" {
		switch err := m.platform.SetDnsNameServers(dns.IPv6[0], dns.IPv6[1]); {
		case err == nil:
			m.dns.RecordIPv6(dns.IPv6[0], dns.IPv6[1])
			set++
		case errors.Is(err, types.ErrDuplicate):
			duplicate++
		default:
			logger.Error("Failed to set IPv6 DNS servers",
				logger.Field{Key: "channel", Value: ch.Name},
				logger.Field{Key: "error", Value: err.Error()})
		}
	}

	// A duplicate in either family outranks a fresh install in the
	// other: the caller learns the configuration was already at least
	// partially in place.
	switch {
	case duplicate > 0:
		return fmt.Errorf("DNS servers of channel %s already configured: %w",
			ch.Name, types.ErrDuplicate)
	case set > 0:
		logger.Info("DNS servers set",
			logger.Field{Key: "session", Value: string(session)},
			logger.Field{Key: "channel", Value: ch.Name})
		return nil
	default:
		return fmt.Errorf("failed to set DNS servers of channel %s: %w",
			ch.Name, types.ErrFault)
	}
}

// RestoreDNS removes every DNS server previously installed by SetDNS
// from the system resolver configuration and clears the record. It is
// a blanket rollback, not scoped to a session.
func (m *Manager) RestoreDNS() error {
	addrs := make([]string, 0, types.MaxDNSAddrs*2)
	for _, addr := range m.dns.Addresses() {
		if addr != "" {
			addrs = append(addrs, addr)
		}
	}
	if len(addrs) == 0 {
		logger.Debug("No DNS servers to restore")
		return nil
	}

	if err := m.platform.RestoreInitialDnsNameServers(addrs); err != nil {
		return fmt.Errorf("failed to restore DNS configuration: %w", types.ErrFault)
	}

	m.dns = DNSBackup{}
	logger.Info("DNS configuration restored")
	return nil
}

// GetDNS returns the DNS server addresses assigned to the channel.
func (m *Manager) GetDNS(channelRef string) (types.DNSAddresses, error) {
	ch, resolver, intf, err := m.channelTarget(channelRef)
	if err != nil {
		return types.DNSAddresses{}, err
	}

	dns, err := resolver.DNSAddresses(ch, intf)
	if err != nil {
		return types.DNSAddresses{}, fmt.Errorf("failed to get DNS addresses of channel %s: %w",
			ch.Name, types.ErrFault)
	}
	return dns, nil
}

// ChangeRoute adds or removes a route to destAddr over the channel's
// network interface. prefixLength may be a decimal prefix length, an
// IPv4 dotted-quad netmask, or blank for a host route.
func (m *Manager) ChangeRoute(channelRef, destAddr, prefixLength string, isAdd bool) error {
	ch, _, intf, err := m.channelTarget(channelRef)
	if err != nil {
		return err
	}

	dest := strings.TrimSpace(destAddr)
	var family Family
	switch {
	case ValidAddress(FamilyIPv4, dest):
		family = FamilyIPv4
	case ValidAddress(FamilyIPv6, dest):
		family = FamilyIPv6
	default:
		return fmt.Errorf("invalid destination address %q: %w", destAddr, types.ErrBadParameter)
	}

	prefix, err := normalizePrefix(family, strings.TrimSpace(prefixLength))
	if err != nil {
		return err
	}

	action := system.RouteDelete
	if isAdd {
		action = system.RouteAdd
	}
	if err := m.platform.ChangeRoute(action, dest, prefix, intf); err != nil {
		return fmt.Errorf("failed to %s route to %s on %s for channel %s: %w",
			action, dest, intf, ch.Name, types.ErrFault)
	}
	return nil
}

// normalizePrefix reduces the prefix-length argument to a canonical
// decimal string, or empty for a host route. IPv4 additionally accepts
// a dotted-quad netmask in place of a number.
func normalizePrefix(family Family, text string) (string, error) {
	if text == "" {
		return "", nil
	}

	n := parsePrefixLength(text)
	if n < 0 || n > prefixLengthMax {
		if family == FamilyIPv4 && ValidAddress(FamilyIPv4, text) {
			return NetmaskToPrefixLength(text)
		}
		return "", fmt.Errorf("invalid prefix length %q: %w", text, types.ErrBadParameter)
	}
	if n == 0 {
		return "", nil
	}
	return strconv.Itoa(n), nil
}

// GetNetIntfState reports whether the interface currently has an IPv4
// and an IPv6 address assigned.
func (m *Manager) GetNetIntfState(intf string) (ipv4, ipv6 bool, err error) {
	ipv4, ipv6, err = m.platform.GetInterfaceState(intf)
	if err != nil {
		return false, false, fmt.Errorf("failed to query state of interface %s: %w",
			intf, types.ErrFault)
	}
	return ipv4, ipv6, nil
}

// BackupCount reports how many gateway backups are currently held.
func (m *Manager) BackupCount() int {
	return m.backups.Len()
}
