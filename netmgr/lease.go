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
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/gatewaykit/dcnet/daemon/logger"
	"github.com/gatewaykit/dcnet/types"
)

// LeaseOption selects which option to look up in a DHCP lease file.
type LeaseOption int

const (
	// LeaseGateway looks up the default gateway address list.
	LeaseGateway LeaseOption = iota
	// LeaseDNS looks up the DNS server address list.
	LeaseDNS
)

// Textual keys the lease file records the options under.
const (
	gatewayOptionKey = "routers"
	dnsOptionKey     = "domain-name-servers"
)

// key returns the lease file search key for the option.
func (o LeaseOption) key() (string, error) {
	switch o {
	case LeaseGateway:
		return gatewayOptionKey, nil
	case LeaseDNS:
		return dnsOptionKey, nil
	default:
		return "", fmt.Errorf("unknown lease option %d: %w", o, types.ErrFault)
	}
}

// Bounds on lease file content.
const (
	leaseOptionKeyMaxLen = 50

	// leaseLineMaxLen bounds a scanned lease file line: the option key
	// plus the longest address list an entry may carry.
	leaseLineMaxLen = leaseOptionKeyMaxLen +
		types.MaxDNSAddrs*(types.IPv6AddrMaxLen+1) +
		types.MaxDNSAddrs*(types.IPv4AddrMaxLen+1)

	// LeaseValueMaxLen bounds an extracted option value.
	LeaseValueMaxLen = types.MaxDNSAddrs * (types.IPv4AddrMaxLen + types.IPv6AddrMaxLen + 2)
)

// PathResolver resolves an interface name to its DHCP lease file path.
type PathResolver interface {
	DhcpLeaseFilePath(intf string) (string, error)
}

// LeaseReader extracts option values from DHCP lease files. Reads are
// guarded by a shared advisory lock held for the duration of the scan.
type LeaseReader struct {
	paths PathResolver
}

// NewLeaseReader creates a LeaseReader resolving paths through the
// given resolver.
func NewLeaseReader(paths PathResolver) *LeaseReader {
	return &LeaseReader{paths: paths}
}

// ReadOption scans the interface's lease file for the first line
// carrying the option and returns its value with the trailing
// semicolon stripped. Returns types.ErrNotFound when the file has no
// matching line, and types.ErrOverflow alongside the truncated value
// when it does not fit maxLen.
func (r *LeaseReader) ReadOption(intf string, option LeaseOption, maxLen int) (string, error) {
	path, err := r.paths.DhcpLeaseFilePath(intf)
	if err != nil {
		return "", fmt.Errorf("unable to resolve %s DHCP lease file path: %w", intf, types.ErrFault)
	}

	searchKey, err := option.key()
	if err != nil {
		return "", err
	}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("lease file %s: %w", path, types.ErrNotFound)
		}
		return "", fmt.Errorf("could not open lease file %s: %w", path, err)
	}
	defer file.Close()

	// Shared advisory lock for the duration of the scan; writers use
	// an exclusive lock while renewing the lease.
	if err := unix.Flock(int(file.Fd()), unix.LOCK_SH|unix.LOCK_NB); err != nil {
		return "", fmt.Errorf("could not lock lease file %s: %w", path, err)
	}
	defer unix.Flock(int(file.Fd()), unix.LOCK_UN)

	logger.Debug("Scanning DHCP lease file",
		logger.Field{Key: "path", Value: path},
		logger.Field{Key: "option", Value: searchKey})

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, leaseLineMaxLen), leaseLineMaxLen)

	for scanner.Scan() {
		line := scanner.Text()
		idx := strings.Index(line, searchKey)
		if idx < 0 {
			continue
		}

		// The value starts one separator byte past the key.
		start := idx + len(searchKey) + 1
		if start > len(line) {
			start = len(line)
		}
		value := line[start:]

		truncated := false
		if len(value) > maxLen {
			value = value[:maxLen]
			truncated = true
		}
		if semi := strings.IndexByte(value, ';'); semi >= 0 {
			value = value[:semi]
		}
		value = strings.TrimSpace(value)

		if truncated {
			return value, fmt.Errorf("lease option %s on %s: %w", searchKey, intf, types.ErrOverflow)
		}
		return value, nil
	}

	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to scan lease file %s: %w", path, err)
	}
	return "", fmt.Errorf("option %s not in lease file %s: %w", searchKey, path, types.ErrNotFound)
}
