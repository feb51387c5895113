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

package daemon

import (
	"fmt"

	"github.com/gatewaykit/dcnet/types"
)

// Registry resolves channel references against the static channel
// definitions from the daemon configuration.
type Registry struct {
	byRef map[string]*types.Channel
}

// NewRegistry builds a channel registry from config definitions.
func NewRegistry(defs []*ChannelConfig) *Registry {
	byRef := make(map[string]*types.Channel, len(defs))
	for _, def := range defs {
		byRef[def.Ref] = &types.Channel{
			Ref:        def.Ref,
			Name:       def.Name,
			Technology: types.ParseTechnology(def.Technology),
			TechRef:    def.TechRef,
			Interface:  def.Interface,
		}
	}
	return &Registry{byRef: byRef}
}

// ChannelByRef returns the channel for a reference.
func (r *Registry) ChannelByRef(ref string) (*types.Channel, error) {
	ch, ok := r.byRef[ref]
	if !ok {
		return nil, fmt.Errorf("unknown channel %q", ref)
	}
	return ch, nil
}

// Channels returns all registered channels in no particular order.
func (r *Registry) Channels() []*types.Channel {
	channels := make([]*types.Channel, 0, len(r.byRef))
	for _, ch := range r.byRef {
		channels = append(channels, ch)
	}
	return channels
}
