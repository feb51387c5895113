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
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/gatewaykit/dcnet/daemon/logger"
	"github.com/gatewaykit/dcnet/types"
)

// SetDnsNameServers installs the given pair of DNS servers as the
// preferred resolvers. Returns types.ErrDuplicate without touching the
// system when every requested address is already configured.
func (p *Platform) SetDnsNameServers(dns1, dns2 string) error {
	if dns1 == "" && dns2 == "" {
		return fmt.Errorf("no DNS address given: %w", types.ErrBadParameter)
	}

	content, err := p.fs.ReadFile(p.resolvConf)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to read %s: %w", p.resolvConf, err)
	}

	existing := nameservers(string(content))
	missing := make([]string, 0, 2)
	for _, addr := range []string{dns1, dns2} {
		if addr != "" && !existing[addr] {
			missing = append(missing, addr)
		}
	}
	if len(missing) == 0 {
		logger.Debug("Requested DNS servers already configured",
			logger.Field{Key: "dns1", Value: dns1},
			logger.Field{Key: "dns2", Value: dns2})
		return types.ErrDuplicate
	}

	// New servers go first so the resolver prefers them.
	var sb strings.Builder
	for _, addr := range missing {
		sb.WriteString("nameserver " + addr + "\n")
	}
	sb.Write(content)

	if err := p.fs.WriteFile(p.resolvConf, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", p.resolvConf, err)
	}

	logger.Info("DNS servers installed",
		logger.Field{Key: "servers", Value: strings.Join(missing, " ")})
	return nil
}

// RestoreInitialDnsNameServers removes the previously installed DNS
// servers from the system resolver configuration.
func (p *Platform) RestoreInitialDnsNameServers(addrs []string) error {
	content, err := p.fs.ReadFile(p.resolvConf)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", p.resolvConf, err)
	}

	installed := make(map[string]bool)
	for _, addr := range addrs {
		if addr != "" {
			installed[addr] = true
		}
	}
	if len(installed) == 0 {
		return nil
	}

	var kept []string
	removed := 0
	for line := range strings.Lines(string(content)) {
		if addr, ok := nameserverAddr(line); ok && installed[addr] {
			removed++
			continue
		}
		kept = append(kept, strings.TrimRight(line, "\n"))
	}
	if removed == 0 {
		return nil
	}

	out := strings.Join(kept, "\n")
	if out != "" && !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	if err := p.fs.WriteFile(p.resolvConf, []byte(out), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", p.resolvConf, err)
	}

	logger.Info("DNS servers removed",
		logger.Field{Key: "count", Value: removed})
	return nil
}

// nameservers collects the nameserver addresses present in resolv.conf
// content.
func nameservers(content string) map[string]bool {
	servers := make(map[string]bool)
	for line := range strings.Lines(content) {
		if addr, ok := nameserverAddr(line); ok {
			servers[addr] = true
		}
	}
	return servers
}

// nameserverAddr extracts the address from a "nameserver" line.
func nameserverAddr(line string) (string, bool) {
	fields := strings.Fields(line)
	if len(fields) >= 2 && fields[0] == "nameserver" {
		return fields[1], true
	}
	return "", false
}
