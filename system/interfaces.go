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

// Package system is the platform adaptation layer: it applies default
// gateway, route, and DNS changes to the operating system and reports
// interface state.
package system

import (
	"os"

	"github.com/vishvananda/netlink"
)

// NetlinkClient abstracts netlink operations for testability.
// This interface allows mocking of all netlink system calls.
type NetlinkClient interface {
	// Link operations
	LinkByName(name string) (netlink.Link, error)
	LinkByIndex(index int) (netlink.Link, error)
	LinkList() ([]netlink.Link, error)

	// Address operations
	AddrList(link netlink.Link, family int) ([]netlink.Addr, error)

	// Route operations
	RouteAdd(route *netlink.Route) error
	RouteDel(route *netlink.Route) error
	RouteReplace(route *netlink.Route) error
	RouteList(link netlink.Link, family int) ([]netlink.Route, error)
}

// FilesystemClient abstracts filesystem operations for testability.
type FilesystemClient interface {
	// ReadFile reads the entire file content
	ReadFile(filename string) ([]byte, error)
	// WriteFile writes data to a file
	WriteFile(filename string, data []byte, perm uint32) error
}

// DefaultNetlinkClient implements NetlinkClient using real netlink calls.
type DefaultNetlinkClient struct{}

// NewDefaultNetlinkClient creates a new DefaultNetlinkClient.
func NewDefaultNetlinkClient() *DefaultNetlinkClient {
	return &DefaultNetlinkClient{}
}

func (c *DefaultNetlinkClient) LinkByName(name string) (netlink.Link, error) {
	return netlink.LinkByName(name)
}

func (c *DefaultNetlinkClient) LinkByIndex(index int) (netlink.Link, error) {
	return netlink.LinkByIndex(index)
}

func (c *DefaultNetlinkClient) LinkList() ([]netlink.Link, error) {
	return netlink.LinkList()
}

func (c *DefaultNetlinkClient) AddrList(link netlink.Link, family int) ([]netlink.Addr, error) {
	return netlink.AddrList(link, family)
}

func (c *DefaultNetlinkClient) RouteAdd(route *netlink.Route) error {
	return netlink.RouteAdd(route)
}

func (c *DefaultNetlinkClient) RouteDel(route *netlink.Route) error {
	return netlink.RouteDel(route)
}

func (c *DefaultNetlinkClient) RouteReplace(route *netlink.Route) error {
	return netlink.RouteReplace(route)
}

func (c *DefaultNetlinkClient) RouteList(link netlink.Link, family int) ([]netlink.Route, error) {
	return netlink.RouteList(link, family)
}

// DefaultFilesystemClient implements FilesystemClient using real filesystem operations.
type DefaultFilesystemClient struct{}

// NewDefaultFilesystemClient creates a new DefaultFilesystemClient.
func NewDefaultFilesystemClient() *DefaultFilesystemClient {
	return &DefaultFilesystemClient{}
}

func (c *DefaultFilesystemClient) ReadFile(filename string) ([]byte, error) {
	return os.ReadFile(filename)
}

func (c *DefaultFilesystemClient) WriteFile(filename string, data []byte, perm uint32) error {
	return os.WriteFile(filename, data, os.FileMode(perm))
}

// Defaults used when the daemon config leaves the paths unset.
const (
	DefaultLeaseFilePattern = "/var/lib/dhcp/dhclient.%s.leases"
	DefaultResolvConfPath   = "/etc/resolv.conf"
)

// Platform applies network configuration changes to the operating
// system with dependency injection for testability.
type Platform struct {
	netlink      NetlinkClient
	fs           FilesystemClient
	leasePattern string
	resolvConf   string
}

// NewPlatform creates a Platform with the given clients. Empty paths
// fall back to the package defaults.
func NewPlatform(nl NetlinkClient, fs FilesystemClient, leasePattern, resolvConf string) *Platform {
	if leasePattern == "" {
		leasePattern = DefaultLeaseFilePattern
	}
	if resolvConf == "" {
		resolvConf = DefaultResolvConfPath
	}
	return &Platform{
		netlink:      nl,
		fs:           fs,
		leasePattern: leasePattern,
		resolvConf:   resolvConf,
	}
}

// NewDefaultPlatform creates a Platform with real system clients.
func NewDefaultPlatform() *Platform {
	return NewPlatform(NewDefaultNetlinkClient(), NewDefaultFilesystemClient(), "", "")
}
