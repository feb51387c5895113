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
	"net/rpc"

	"github.com/hashicorp/go-plugin"
)

// Handshake is used to verify that client and server are compatible.
var Handshake = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "DCNET_MODEM_PLUGIN",
	MagicCookieValue: "modem",
}

// RPCPlugin is the go-plugin Plugin implementation
type RPCPlugin struct {
	plugin.Plugin
	Impl Provider
}

// Server returns the RPC server for this plugin
func (p *RPCPlugin) Server(broker *plugin.MuxBroker) (interface{}, error) {
	return &RPCServer{Impl: p.Impl}, nil
}

// Client returns the RPC client for this plugin
func (p *RPCPlugin) Client(broker *plugin.MuxBroker, client *rpc.Client) (interface{}, error) {
	return &RPCClient{client: client}, nil
}

// ============================================================================
// RPC Server Implementation
// ============================================================================

// RPCServer is the RPC server that wraps Provider
type RPCServer struct {
	Impl Provider
}

type MetadataArgs struct{}
type MetadataReply struct {
	Error    string
	Metadata MetadataResponse
}

func (s *RPCServer) Metadata(args *MetadataArgs, reply *MetadataReply) error {
	metadata, err := s.Impl.Metadata(context.Background())
	if err != nil {
		reply.Error = err.Error()
		return nil
	}
	reply.Metadata = metadata
	return nil
}

type GetNetInterfaceArgs struct {
	TechRef string
}
type GetNetInterfaceReply struct {
	Error     string
	Interface string
}

func (s *RPCServer) GetNetInterface(args *GetNetInterfaceArgs, reply *GetNetInterfaceReply) error {
	intf, err := s.Impl.GetNetInterface(context.Background(), args.TechRef)
	if err != nil {
		reply.Error = err.Error()
		return nil
	}
	reply.Interface = intf
	return nil
}

type GetDefaultGWAddressArgs struct {
	TechRef string
}
type GetDefaultGWAddressReply struct {
	Error   string
	Gateway GatewayReply
}

func (s *RPCServer) GetDefaultGWAddress(args *GetDefaultGWAddressArgs, reply *GetDefaultGWAddressReply) error {
	gw, err := s.Impl.GetDefaultGWAddress(context.Background(), args.TechRef)
	if err != nil {
		reply.Error = err.Error()
		return nil
	}
	reply.Gateway = gw
	return nil
}

type GetDNSAddressesArgs struct {
	TechRef string
}
type GetDNSAddressesReply struct {
	Error string
	DNS   DNSReply
}

func (s *RPCServer) GetDNSAddresses(args *GetDNSAddressesArgs, reply *GetDNSAddressesReply) error {
	dns, err := s.Impl.GetDNSAddresses(context.Background(), args.TechRef)
	if err != nil {
		reply.Error = err.Error()
		return nil
	}
	reply.DNS = dns
	return nil
}

// ============================================================================
// RPC Client Implementation
// ============================================================================

// RPCClient is the RPC client that implements Provider
type RPCClient struct {
	client *rpc.Client
}

func (c *RPCClient) Metadata(ctx context.Context) (MetadataResponse, error) {
	var reply MetadataReply
	err := c.client.Call("Plugin.Metadata", &MetadataArgs{}, &reply)
	if err != nil {
		return MetadataResponse{}, err
	}
	if reply.Error != "" {
		return MetadataResponse{}, ErrFromString(reply.Error)
	}
	return reply.Metadata, nil
}

func (c *RPCClient) GetNetInterface(ctx context.Context, techRef string) (string, error) {
	var reply GetNetInterfaceReply
	err := c.client.Call("Plugin.GetNetInterface", &GetNetInterfaceArgs{TechRef: techRef}, &reply)
	if err != nil {
		return "", err
	}
	if reply.Error != "" {
		return "", ErrFromString(reply.Error)
	}
	return reply.Interface, nil
}

func (c *RPCClient) GetDefaultGWAddress(ctx context.Context, techRef string) (GatewayReply, error) {
	var reply GetDefaultGWAddressReply
	err := c.client.Call("Plugin.GetDefaultGWAddress", &GetDefaultGWAddressArgs{TechRef: techRef}, &reply)
	if err != nil {
		return GatewayReply{}, err
	}
	if reply.Error != "" {
		return GatewayReply{}, ErrFromString(reply.Error)
	}
	return reply.Gateway, nil
}

func (c *RPCClient) GetDNSAddresses(ctx context.Context, techRef string) (DNSReply, error) {
	var reply GetDNSAddressesReply
	err := c.client.Call("Plugin.GetDNSAddresses", &GetDNSAddressesArgs{TechRef: techRef}, &reply)
	if err != nil {
		return DNSReply{}, err
	}
	if reply.Error != "" {
		return DNSReply{}, ErrFromString(reply.Error)
	}
	return reply.DNS, nil
}

// ============================================================================
// Helper Functions
// ============================================================================

// ErrFromString creates an error from a string
func ErrFromString(s string) error {
	if s == "" {
		return nil
	}
	return &rpcError{msg: s}
}

type rpcError struct {
	msg string
}

func (e *rpcError) Error() string {
	return e.msg
}

// ServePlugin is a helper to serve a modem plugin using the generic protocol
func ServePlugin(impl Provider) {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: Handshake,
		Plugins: map[string]plugin.Plugin{
			"modem": &RPCPlugin{Impl: impl},
		},
	})
}
