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

// Package netmgr implements the network configuration manager of the
// data-channel service: it mutates and restores the system's default
// gateway and DNS configuration per channel, and resolves route and
// address-family-specific parameters.
package netmgr

import (
	"encoding/binary"
	"fmt"
	"math/bits"
	"net/netip"
	"strconv"

	"github.com/gatewaykit/dcnet/types"
)

// Family selects an address family for validation.
type Family int

const (
	FamilyIPv4 Family = iota
	FamilyIPv6
)

// Maximum IPv6 subnet prefix length.
const prefixLengthMax = 128

// Digits a prefix length's decimal representation may occupy.
const prefixLenStrMax = 3

// ValidAddress reports whether text is a well-formed address of the
// given family. Leading or trailing garbage rejects the whole input;
// zone suffixes are not accepted.
func ValidAddress(family Family, text string) bool {
	addr, err := netip.ParseAddr(text)
	if err != nil || addr.Zone() != "" {
		return false
	}
	if family == FamilyIPv4 {
		return addr.Is4()
	}
	return !addr.Is4()
}

// NetmaskToPrefixLength converts a legacy dotted-quad netmask into its
// prefix length in decimal text, e.g. "255.255.255.0" to "24".
func NetmaskToPrefixLength(netmask string) (string, error) {
	addr, err := netip.ParseAddr(netmask)
	if err != nil || !addr.Is4() {
		return "", fmt.Errorf("cannot parse netmask %q: %w", netmask, types.ErrFault)
	}

	quad := addr.As4()
	length := bits.OnesCount32(binary.BigEndian.Uint32(quad[:]))

	text := strconv.Itoa(length)
	if len(text) > prefixLenStrMax {
		return "", types.ErrOverflow
	}
	return text, nil
}

// parsePrefixLength interprets prefix-length text: empty yields 0,
// more than three characters yields -1, and otherwise an optional
// sign followed by the leading decimal digits is taken so that
// non-numeric text yields 0, matching the historical prefix handling.
// A signed value like "-1" parses negative and fails range checks.
func parsePrefixLength(text string) int {
	if text == "" {
		return 0
	}
	if len(text) > prefixLenStrMax {
		return -1
	}

	start, sign := 0, 1
	switch text[0] {
	case '-':
		start, sign = 1, -1
	case '+':
		start = 1
	}

	end := start
	for end < len(text) && text[end] >= '0' && text[end] <= '9' {
		end++
	}
	if end == start {
		return 0
	}
	n, err := strconv.Atoi(text[start:end])
	if err != nil {
		return 0
	}
	return sign * n
}
