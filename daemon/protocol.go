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

// Request represents a request from client to daemon. One JSON object
// per line over the unix socket.
type Request struct {
	// Command is the operation to perform.
	Command string `json:"command"`
	// SessionID identifies the client session owning gateway backups.
	// Empty means the daemon assigns one for the connection.
	SessionID string `json:"session_id,omitempty"`
	// Channel is the data channel reference.
	Channel string `json:"channel,omitempty"`
	// Dest is the route destination address.
	Dest string `json:"dest,omitempty"`
	// PrefixLength is the route prefix length or IPv4 netmask.
	PrefixLength string `json:"prefix_length,omitempty"`
	// Interface is a network interface name.
	Interface string `json:"interface,omitempty"`
	// IsAdd selects route addition over removal.
	IsAdd bool `json:"is_add,omitempty"`
}

// Response represents a response from daemon to client.
type Response struct {
	// Data carries command-specific payload.
	Data interface{} `json:"data,omitempty"`
	// Code is the outcome classification: ok, duplicate, not-found,
	// overflow, bad-parameter, unsupported, fault.
	Code string `json:"code"`
	// Message is a human-readable status.
	Message string `json:"message,omitempty"`
	// Error holds the failure detail when Success is false.
	Error string `json:"error,omitempty"`
	// Success reports whether the command took effect. A duplicate
	// outcome counts as success; the value was already in place.
	Success bool `json:"success"`
}
