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
	"fmt"
	"io/fs"
	"sync"

	"github.com/vishvananda/netlink"
)

// MockNetlinkClient is a mock implementation of NetlinkClient for testing.
type MockNetlinkClient struct {
	mu sync.Mutex

	// State
	Links     map[string]netlink.Link
	Addresses map[string][]netlink.Addr
	Routes    []netlink.Route

	// Call counters for verification
	LinkByNameCalls   int
	LinkByIndexCalls  int
	LinkListCalls     int
	AddrListCalls     int
	RouteAddCalls     int
	RouteDelCalls     int
	RouteReplaceCalls int
	RouteListCalls    int

	// Error injection for testing error paths
	LinkByNameError   error
	LinkByIndexError  error
	LinkListError     error
	AddrListError     error
	RouteAddError     error
	RouteDelError     error
	RouteReplaceError error
	RouteListError    error
}

// NewMockNetlinkClient creates a new MockNetlinkClient.
func NewMockNetlinkClient() *MockNetlinkClient {
	return &MockNetlinkClient{
		Links:     make(map[string]netlink.Link),
		Addresses: make(map[string][]netlink.Addr),
		Routes:    make([]netlink.Route, 0),
	}
}

func (m *MockNetlinkClient) LinkByName(name string) (netlink.Link, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LinkByNameCalls++

	if m.LinkByNameError != nil {
		return nil, m.LinkByNameError
	}

	link, ok := m.Links[name]
	if !ok {
		return nil, fmt.Errorf("Link not found")
	}
	return link, nil
}

func (m *MockNetlinkClient) LinkByIndex(index int) (netlink.Link, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LinkByIndexCalls++

	if m.LinkByIndexError != nil {
		return nil, m.LinkByIndexError
	}

	for _, link := range m.Links {
		if link.Attrs().Index == index {
			return link, nil
		}
	}
	return nil, fmt.Errorf("Link not found")
}

func (m *MockNetlinkClient) LinkList() ([]netlink.Link, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LinkListCalls++

	if m.LinkListError != nil {
		return nil, m.LinkListError
	}

	links := make([]netlink.Link, 0, len(m.Links))
	for _, link := range m.Links {
		links = append(links, link)
	}
	return links, nil
}

func (m *MockNetlinkClient) AddrList(link netlink.Link, family int) ([]netlink.Addr, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AddrListCalls++

	if m.AddrListError != nil {
		return nil, m.AddrListError
	}

	var matched []netlink.Addr
	for _, addr := range m.Addresses[link.Attrs().Name] {
		v4 := addr.IP.To4() != nil
		if (family == netlink.FAMILY_V4 && v4) ||
			(family == netlink.FAMILY_V6 && !v4) ||
			family == netlink.FAMILY_ALL {
			matched = append(matched, addr)
		}
	}
	return matched, nil
}

func (m *MockNetlinkClient) RouteAdd(route *netlink.Route) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RouteAddCalls++

	if m.RouteAddError != nil {
		return m.RouteAddError
	}

	m.Routes = append(m.Routes, *route)
	return nil
}

func (m *MockNetlinkClient) RouteDel(route *netlink.Route) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RouteDelCalls++

	if m.RouteDelError != nil {
		return m.RouteDelError
	}

	for i, r := range m.Routes {
		if routesEqual(&r, route) {
			m.Routes = append(m.Routes[:i], m.Routes[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("route not found")
}

func (m *MockNetlinkClient) RouteReplace(route *netlink.Route) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RouteReplaceCalls++

	if m.RouteReplaceError != nil {
		return m.RouteReplaceError
	}

	for i, r := range m.Routes {
		if routesEqual(&r, route) {
			m.Routes[i] = *route
			return nil
		}
	}
	m.Routes = append(m.Routes, *route)
	return nil
}

func (m *MockNetlinkClient) RouteList(link netlink.Link, family int) ([]netlink.Route, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RouteListCalls++

	if m.RouteListError != nil {
		return nil, m.RouteListError
	}

	var matched []netlink.Route
	for _, r := range m.Routes {
		if family == netlink.FAMILY_ALL || routeFamily(&r) == family {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

// routeFamily classifies a route by its gateway or destination address.
func routeFamily(r *netlink.Route) int {
	switch {
	case r.Gw != nil:
		if r.Gw.To4() != nil {
			return netlink.FAMILY_V4
		}
		return netlink.FAMILY_V6
	case r.Dst != nil:
		if r.Dst.IP.To4() != nil {
			return netlink.FAMILY_V4
		}
		return netlink.FAMILY_V6
	default:
		return netlink.FAMILY_V4
	}
}

// Helper function to compare routes by destination
func routesEqual(r1, r2 *netlink.Route) bool {
	if (r1.Dst == nil) != (r2.Dst == nil) {
		return false
	}
	if r1.Dst != nil && r1.Dst.String() != r2.Dst.String() {
		return false
	}
	return r1.LinkIndex == r2.LinkIndex
}

// MockFilesystemClient is a mock implementation of FilesystemClient for testing.
type MockFilesystemClient struct {
	mu sync.Mutex

	// State
	Files map[string][]byte

	// Call counters
	ReadFileCalls  int
	WriteFileCalls int

	// Error injection
	ReadFileError  error
	WriteFileError error
}

// NewMockFilesystemClient creates a new MockFilesystemClient.
func NewMockFilesystemClient() *MockFilesystemClient {
	return &MockFilesystemClient{
		Files: make(map[string][]byte),
	}
}

func (m *MockFilesystemClient) ReadFile(filename string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReadFileCalls++

	if m.ReadFileError != nil {
		return nil, m.ReadFileError
	}

	data, ok := m.Files[filename]
	if !ok {
		return nil, fmt.Errorf("file not found: %s: %w", filename, fs.ErrNotExist)
	}
	return data, nil
}

func (m *MockFilesystemClient) WriteFile(filename string, data []byte, perm uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WriteFileCalls++

	if m.WriteFileError != nil {
		return m.WriteFileError
	}

	m.Files[filename] = data
	return nil
}
