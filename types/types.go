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

// Package types defines the shared data types for the dcnet daemon:
// channel descriptors, technology tags, and address records.
package types

// Technology identifies the transport technology backing a data channel.
type Technology int

const (
	TechUnknown Technology = iota
	TechCellular
	TechWiFi
	TechEthernet

	techMax
)

// String returns the display name of a technology tag.
func (t Technology) String() string {
	switch t {
	case TechCellular:
		return "cellular"
	case TechWiFi:
		return "wifi"
	case TechEthernet:
		return "ethernet"
	default:
		return "unknown"
	}
}

// Valid reports whether the tag is inside the supported enumerated range.
func (t Technology) Valid() bool {
	return t > TechUnknown && t < techMax
}

// ParseTechnology maps a display name back to its technology tag.
// Unrecognized names map to TechUnknown.
func ParseTechnology(name string) Technology {
	switch name {
	case "cellular":
		return TechCellular
	case "wifi":
		return TechWiFi
	case "ethernet":
		return TechEthernet
	default:
		return TechUnknown
	}
}

// Bounds on the textual representations handled by the daemon.
const (
	// IPv4AddrMaxLen is the longest dotted-quad form (255.255.255.255).
	IPv4AddrMaxLen = 15

	// IPv6AddrMaxLen is the longest textual IPv6 form, mixed notation included.
	IPv6AddrMaxLen = 45

	// InterfaceNameMaxLen matches the kernel's IFNAMSIZ minus the terminator.
	InterfaceNameMaxLen = 15
)

// Per-family address counts a lease entry may carry.
const (
	MaxGatewayAddrs = 1
	MaxDNSAddrs     = 2
)

// Channel describes a data channel as known to the channel registry.
// The orchestrator consumes it read-only.
type Channel struct {
	// Ref is the opaque reference clients hand to the daemon.
	Ref string

	// Name is the channel's display name.
	Name string

	// Technology is the transport backing this channel.
	Technology Technology

	// TechRef is the technology-specific reference, e.g. a modem
	// profile identifier for cellular channels.
	TechRef string

	// Interface is the network interface associated with the channel,
	// where the registry already knows it. Cellular channels resolve
	// theirs through the modem provider instead.
	Interface string
}

// GatewayAddresses holds a channel's default-gateway address per family.
// An empty string means no address is assigned for that family.
type GatewayAddresses struct {
	IPv4 string `json:"ipv4,omitempty"`
	IPv6 string `json:"ipv6,omitempty"`
}

// DNSAddresses holds up to two DNS server addresses per family.
// Unassigned positions are empty strings.
type DNSAddresses struct {
	IPv4 [MaxDNSAddrs]string `json:"ipv4"`
	IPv6 [MaxDNSAddrs]string `json:"ipv6"`
}

// Empty reports whether no DNS address at all is assigned.
func (d DNSAddresses) Empty() bool {
	return d.IPv4[0] == "" && d.IPv4[1] == "" && d.IPv6[0] == "" && d.IPv6[1] == ""
}

// Empty reports whether no gateway address at all is assigned.
func (g GatewayAddresses) Empty() bool {
	return g.IPv4 == "" && g.IPv6 == ""
}
