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

package plugins

import (
	"context"

	"github.com/gatewaykit/dcnet/types"
)

// ModemAdapter bridges a plugin Provider to the synchronous modem
// query surface the orchestrator consumes. Plugin calls carry no
// deadline; the go-plugin transport handles a dead plugin process.
type ModemAdapter struct {
	provider Provider
}

// NewModemAdapter wraps a dispensed plugin provider.
func NewModemAdapter(provider Provider) *ModemAdapter {
	return &ModemAdapter{provider: provider}
}

func (a *ModemAdapter) GetNetInterface(techRef string) (string, error) {
	return a.provider.GetNetInterface(context.Background(), techRef)
}

func (a *ModemAdapter) GetDefaultGWAddress(techRef string) (string, string, error) {
	gw, err := a.provider.GetDefaultGWAddress(context.Background(), techRef)
	if err != nil {
		return "", "", err
	}
	return gw.IPv4, gw.IPv6, nil
}

func (a *ModemAdapter) GetDNSAddresses(techRef string) ([types.MaxDNSAddrs]string, [types.MaxDNSAddrs]string, error) {
	dns, err := a.provider.GetDNSAddresses(context.Background(), techRef)
	if err != nil {
		return [types.MaxDNSAddrs]string{}, [types.MaxDNSAddrs]string{}, err
	}
	return dns.IPv4, dns.IPv6, nil
}
