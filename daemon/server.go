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

// Package daemon implements the dcnet daemon server and IPC protocol.
package daemon

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"sync/atomic"

	"github.com/gatewaykit/dcnet/daemon/logger"
	"github.com/gatewaykit/dcnet/netmgr"
	"github.com/gatewaykit/dcnet/types"
)

// GetSocketPath returns the socket path, preferring DCNET_SOCKET_PATH env var
func GetSocketPath() string {
	if path := os.Getenv("DCNET_SOCKET_PATH"); path != "" {
		return path
	}
	return "/var/run/dcnetd.sock"
}

// handlerFunc is a function that handles a daemon command
type handlerFunc func(Request) Response

// Server owns the unix socket and dispatches commands to the network
// configuration manager. The manager is single-threaded; mu serializes
// all calls into it.
type Server struct {
	manager    *netmgr.Manager
	journal    *Journal
	listener   net.Listener
	socketPath string
	done       chan struct{}
	handlers   map[string]handlerFunc
	mu         sync.Mutex
	sessionSeq uint64
}

// NewServer creates the daemon server listening on socketPath. An
// empty socketPath means GetSocketPath(). journal may be nil to
// disable mutation journaling.
func NewServer(socketPath string, manager *netmgr.Manager, journal *Journal) (*Server, error) {
	if socketPath == "" {
		socketPath = GetSocketPath()
	}
	os.Remove(socketPath)

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create socket: %w", err)
	}

	if err := os.Chmod(socketPath, 0666); err != nil {
		listener.Close()
		return nil, fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s := &Server{
		manager:    manager,
		journal:    journal,
		listener:   listener,
		socketPath: socketPath,
		done:       make(chan struct{}),
	}

	// Initialize command handlers
	s.handlers = map[string]handlerFunc{
		"status":      func(req Request) Response { return s.handleStatus() },
		"backup-gw":   s.handleBackupGW,
		"set-gw":      s.handleSetGW,
		"restore-gw":  s.handleRestoreGW,
		"get-gw":      s.handleGetGW,
		"set-dns":     s.handleSetDNS,
		"restore-dns": s.handleRestoreDNS,
		"get-dns":     s.handleGetDNS,
		"route":       s.handleRoute,
		"intf-state":  s.handleIntfState,
	}

	return s, nil
}

// Start runs the accept loop until Stop is called.
func (s *Server) Start() error {
	logger.Info("Daemon listening", logger.Field{Key: "socket", Value: s.socketPath})

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			// Check if we're shutting down
			select {
			case <-s.done:
				return nil
			default:
				logger.Error("Failed to accept connection",
					logger.Field{Key: "error", Value: err.Error()})
				continue
			}
		}

		go s.handleConnection(conn)
	}
}

// Stop shuts the server down and removes the socket.
func (s *Server) Stop() error {
	close(s.done)
	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
	return nil
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)
	data, err := reader.ReadBytes('\n')
	if err != nil {
		return
	}

	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		s.sendResponse(conn, Response{
			Success: false,
			Code:    types.ResultCode(types.ErrBadParameter),
			Error:   fmt.Sprintf("invalid request: %v", err),
		})
		return
	}

	resp := s.handleRequest(req)
	s.sendResponse(conn, resp)
}

func (s *Server) handleRequest(req Request) Response {
	handler, exists := s.handlers[req.Command]
	if !exists {
		return Response{
			Success: false,
			Code:    types.ResultCode(types.ErrBadParameter),
			Error:   fmt.Sprintf("unknown command: %s", req.Command),
		}
	}
	return handler(req)
}

func (s *Server) sendResponse(conn net.Conn, resp Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		logger.Error("Failed to marshal response",
			logger.Field{Key: "error", Value: err.Error()})
		return
	}

	data = append(data, '\n')
	if _, err := conn.Write(data); err != nil {
		logger.Error("Failed to write response",
			logger.Field{Key: "error", Value: err.Error()})
	}
}

// session returns the request's session ID, assigning a fresh one when
// the client did not supply any.
func (s *Server) session(req Request) netmgr.SessionID {
	if req.SessionID != "" {
		return netmgr.SessionID(req.SessionID)
	}
	n := atomic.AddUint64(&s.sessionSeq, 1)
	return netmgr.SessionID(fmt.Sprintf("session-%d", n))
}

// record writes a journal entry for a mutation. Journal failures are
// logged, never surfaced to the client.
func (s *Server) record(op string, session netmgr.SessionID, channel, detail string, err error) {
	if s.journal == nil {
		return
	}
	if jerr := s.journal.Record(op, string(session), channel, detail, types.ResultCode(err)); jerr != nil {
		logger.Warn("Failed to journal mutation",
			logger.Field{Key: "op", Value: op},
			logger.Field{Key: "error", Value: jerr.Error()})
	}
}

// result builds the response for a completed manager call. Duplicate
// outcomes are reported as success; the requested value was already in
// effect.
func result(err error, okMessage string, data interface{}) Response {
	code := types.ResultCode(err)
	if err == nil {
		return Response{Success: true, Code: code, Message: okMessage, Data: data}
	}
	if errors.Is(err, types.ErrDuplicate) {
		return Response{Success: true, Code: code, Message: "already configured", Data: data}
	}
	return Response{Success: false, Code: code, Error: err.Error()}
}

func (s *Server) handleStatus() Response {
	s.mu.Lock()
	backups := s.manager.BackupCount()
	s.mu.Unlock()

	return Response{
		Success: true,
		Code:    types.ResultCode(nil),
		Message: "daemon running",
		Data: map[string]interface{}{
			"socket":     s.socketPath,
			"gw_backups": backups,
			"journaling": s.journal != nil,
		},
	}
}

func (s *Server) handleBackupGW(req Request) Response {
	session := s.session(req)

	s.mu.Lock()
	err := s.manager.BackupDefaultGW(session)
	s.mu.Unlock()

	s.record("backup-gw", session, "", "", err)
	return result(err, "default gateway backed up", map[string]interface{}{
		"session": string(session),
	})
}

func (s *Server) handleSetGW(req Request) Response {
	session := s.session(req)

	s.mu.Lock()
	err := s.manager.SetDefaultGW(session, req.Channel)
	s.mu.Unlock()

	s.record("set-gw", session, req.Channel, "", err)
	return result(err, "default gateway configured", map[string]interface{}{
		"session": string(session),
	})
}

func (s *Server) handleRestoreGW(req Request) Response {
	session := netmgr.SessionID(req.SessionID)

	s.mu.Lock()
	err := s.manager.RestoreDefaultGW(session)
	s.mu.Unlock()

	s.record("restore-gw", session, "", "", err)
	return result(err, "default gateway restored", nil)
}

func (s *Server) handleGetGW(req Request) Response {
	s.mu.Lock()
	addrs, intf, err := s.manager.GetDefaultGW(req.Channel)
	s.mu.Unlock()

	return result(err, "", map[string]interface{}{
		"gateway":   addrs,
		"interface": intf,
	})
}

func (s *Server) handleSetDNS(req Request) Response {
	session := s.session(req)

	s.mu.Lock()
	err := s.manager.SetDNS(session, req.Channel)
	s.mu.Unlock()

	s.record("set-dns", session, req.Channel, "", err)
	return result(err, "DNS servers configured", nil)
}

func (s *Server) handleRestoreDNS(req Request) Response {
	session := netmgr.SessionID(req.SessionID)

	s.mu.Lock()
	err := s.manager.RestoreDNS()
	s.mu.Unlock()

	s.record("restore-dns", session, "", "", err)
	return result(err, "DNS servers restored", nil)
}

func (s *Server) handleGetDNS(req Request) Response {
	s.mu.Lock()
	addrs, err := s.manager.GetDNS(req.Channel)
	s.mu.Unlock()

	return result(err, "", map[string]interface{}{
		"dns": addrs,
	})
}

func (s *Server) handleRoute(req Request) Response {
	session := s.session(req)

	s.mu.Lock()
	err := s.manager.ChangeRoute(req.Channel, req.Dest, req.PrefixLength, req.IsAdd)
	s.mu.Unlock()

	verb := "removed"
	if req.IsAdd {
		verb = "added"
	}
	s.record("route", session, req.Channel,
		fmt.Sprintf("%s dest=%s prefix=%s", verb, req.Dest, req.PrefixLength), err)
	return result(err, fmt.Sprintf("route %s", verb), nil)
}

func (s *Server) handleIntfState(req Request) Response {
	s.mu.Lock()
	ipv4, ipv6, err := s.manager.GetNetIntfState(req.Interface)
	s.mu.Unlock()

	return result(err, "", map[string]interface{}{
		"interface": req.Interface,
		"ipv4":      ipv4,
		"ipv6":      ipv6,
	})
}
