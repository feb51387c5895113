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

	"github.com/gatewaykit/dcnet/daemon/logger"
	"github.com/gatewaykit/dcnet/types"
)

// SessionID identifies the client session a backup belongs to. The
// empty ID is the internal system client.
type SessionID string

// GatewayBackup records the system's default-gateway state captured
// before a session modified it.
type GatewayBackup struct {
	Session SessionID

	V4Gateway   string
	V4Interface string
	V6Gateway   string
	V6Interface string

	// V4Applied and V6Applied record that this session wrote a gateway
	// of that family to the system, so restore knows what to undo.
	V4Applied bool
	V6Applied bool
}

// GatewayBackupStack keeps one GatewayBackup per session in
// last-in-first-out order. The newest backup sits at the head.
// Capacity is fixed to the maximum number of concurrently registered
// client sessions; it never grows.
type GatewayBackupStack struct {
	capacity int
	slots    map[SessionID]*GatewayBackup
	order    []SessionID // order[0] is the head, the most recent backup
}

// NewGatewayBackupStack creates a stack holding at most capacity
// session backups.
func NewGatewayBackupStack(capacity int) *GatewayBackupStack {
	return &GatewayBackupStack{
		capacity: capacity,
		slots:    make(map[SessionID]*GatewayBackup, capacity),
		order:    make([]SessionID, 0, capacity),
	}
}

// Len returns the number of session backups held.
func (s *GatewayBackupStack) Len() int {
	return len(s.order)
}

// Lookup returns the backup for the session, if any, and whether it is
// the most recent backup on the stack.
func (s *GatewayBackupStack) Lookup(session SessionID) (*GatewayBackup, bool) {
	entry, ok := s.slots[session]
	if !ok {
		return nil, false
	}
	return entry, s.order[0] == session
}

// Push inserts or updates the session's backup and moves it to the
// head. An updated entry keeps an applied flag only when that family's
// address and interface are unchanged from what was recorded before;
// fresh entries start with both flags cleared. Fails once capacity is
// reached.
func (s *GatewayBackupStack) Push(session SessionID, cfg GatewayBackup) (*GatewayBackup, error) {
	entry, ok := s.slots[session]
	if !ok {
		if len(s.slots) >= s.capacity {
			return nil, fmt.Errorf("gateway backup capacity %d exhausted: %w",
				s.capacity, types.ErrFault)
		}
		entry = &GatewayBackup{}
		s.slots[session] = entry
		logger.Debug("New default GW config backup created",
			logger.Field{Key: "session", Value: string(session)})

		cfg.V4Applied = false
		cfg.V6Applied = false
	} else {
		// A changed address or interface invalidates the assumption
		// that the recorded value is still the one this session wrote.
		cfg.V4Applied = entry.V4Applied &&
			entry.V4Gateway == cfg.V4Gateway && entry.V4Interface == cfg.V4Interface
		cfg.V6Applied = entry.V6Applied &&
			entry.V6Gateway == cfg.V6Gateway && entry.V6Interface == cfg.V6Interface

		s.unlink(session)
	}

	cfg.Session = session
	*entry = cfg
	s.order = append([]SessionID{session}, s.order...)
	return entry, nil
}

// PopForRestore removes and returns the session's backup, or nil when
// none exists. A pop that does not hit the head is honored but logged,
// since restoration order then does not mirror backup order.
func (s *GatewayBackupStack) PopForRestore(session SessionID) *GatewayBackup {
	entry, ok := s.slots[session]
	if !ok {
		return nil
	}

	if s.order[0] != session {
		logger.Warn("Default GW configs restored not in the reversed order of being backed up",
			logger.Field{Key: "session", Value: string(session)})
	}

	s.unlink(session)
	delete(s.slots, session)
	return entry
}

// unlink removes the session from the LIFO order without releasing its
// slot.
func (s *GatewayBackupStack) unlink(session SessionID) {
	for i, id := range s.order {
		if id == session {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}

// DNSBackup is the single global record of the DNS servers last
// installed by this component, one pair per address family. DNS
// rollback is blanket, not per session.
type DNSBackup struct {
	IPv4 [types.MaxDNSAddrs]string
	IPv6 [types.MaxDNSAddrs]string
}

// RecordIPv4 remembers the last IPv4 pair written to the system.
func (b *DNSBackup) RecordIPv4(dns1, dns2 string) {
	b.IPv4[0], b.IPv4[1] = dns1, dns2
}

// RecordIPv6 remembers the last IPv6 pair written to the system.
func (b *DNSBackup) RecordIPv6(dns1, dns2 string) {
	b.IPv6[0], b.IPv6[1] = dns1, dns2
}

// Addresses returns every recorded address, empty slots included.
func (b *DNSBackup) Addresses() []string {
	return []string{b.IPv4[0], b.IPv4[1], b.IPv6[0], b.IPv6[1]}
}
