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
	"strings"

	"github.com/gatewaykit/dcnet/types"
)

// ExtractAddresses splits an address list into IPv4 and IPv6 buckets.
// Addresses are delimited by whitespace or commas, the two list styles
// DHCP lease files use. Tokens containing a colon are classified as
// IPv6. Each bucket is a fixed-size slice of perFamily entries padded
// with empty strings; tokens beyond a bucket's capacity are dropped
// silently. Requesting more than types.MaxDNSAddrs per family fails.
func ExtractAddresses(raw string, perFamily int) ([]string, []string, error) {
	if perFamily > types.MaxDNSAddrs {
		return nil, nil, fmt.Errorf("requested %d addresses per family, max is %d: %w",
			perFamily, types.MaxDNSAddrs, types.ErrFault)
	}

	ipv4 := make([]string, perFamily)
	ipv6 := make([]string, perFamily)

	v4Count, v6Count := 0, 0
	tokens := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ','
	})
	for _, token := range tokens {
		if strings.Contains(token, ":") {
			if v6Count < perFamily {
				ipv6[v6Count] = token
				v6Count++
			}
		} else if v4Count < perFamily {
			ipv4[v4Count] = token
			v4Count++
		}
	}

	return ipv4, ipv6, nil
}
