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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatewaykit/dcnet/types"
)

// tempPathResolver maps interface names to lease files under a temp dir.
type tempPathResolver struct {
	dir string
}

func (r tempPathResolver) DhcpLeaseFilePath(intf string) (string, error) {
	if intf == "" {
		return "", fmt.Errorf("empty interface name: %w", types.ErrBadParameter)
	}
	return filepath.Join(r.dir, fmt.Sprintf("dhclient.%s.leases", intf)), nil
}

func writeLeaseFile(t *testing.T, dir, intf, content string) {
	t.Helper()
	path := filepath.Join(dir, fmt.Sprintf("dhclient.%s.leases", intf))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

const sampleLease = `lease {
  interface "eth0";
  fixed-address 192.168.1.50;
  option subnet-mask 255.255.255.0;
  option routers 192.168.1.1;
  option domain-name-servers 8.8.8.8,8.8.4.4;
  renew 2 2026/09/01 10:00:00;
}
`

func TestLeaseReaderReadOption(t *testing.T) {
	dir := t.TempDir()
	writeLeaseFile(t, dir, "eth0", sampleLease)
	reader := NewLeaseReader(tempPathResolver{dir: dir})

	tests := []struct {
		name    string
		intf    string
		option  LeaseOption
		want    string
		wantErr error
	}{
		{"gateway option", "eth0", LeaseGateway, "192.168.1.1", nil},
		{"DNS option", "eth0", LeaseDNS, "8.8.8.8,8.8.4.4", nil},
		{"missing lease file", "wlan0", LeaseGateway, "", types.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reader.ReadOption(tt.intf, tt.option, LeaseValueMaxLen)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLeaseReaderOptionAbsent(t *testing.T) {
	dir := t.TempDir()
	writeLeaseFile(t, dir, "eth0", "lease {\n  interface \"eth0\";\n}\n")
	reader := NewLeaseReader(tempPathResolver{dir: dir})

	_, err := reader.ReadOption("eth0", LeaseGateway, LeaseValueMaxLen)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestLeaseReaderValueTruncated(t *testing.T) {
	dir := t.TempDir()
	long := strings.Repeat("1.2.3.4 ", 8)
	writeLeaseFile(t, dir, "eth0", fmt.Sprintf("  option routers %s;\n", long))
	reader := NewLeaseReader(tempPathResolver{dir: dir})

	got, err := reader.ReadOption("eth0", LeaseGateway, 10)
	assert.ErrorIs(t, err, types.ErrOverflow)
	assert.Equal(t, "1.2.3.4 1.", got)
}

func TestLeaseReaderFirstMatchWins(t *testing.T) {
	dir := t.TempDir()
	content := "  option routers 10.0.0.1;\n  option routers 10.0.0.2;\n"
	writeLeaseFile(t, dir, "eth0", content)
	reader := NewLeaseReader(tempPathResolver{dir: dir})

	got, err := reader.ReadOption("eth0", LeaseGateway, LeaseValueMaxLen)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1", got)
}

func TestLeaseReaderBadPathResolution(t *testing.T) {
	reader := NewLeaseReader(tempPathResolver{dir: t.TempDir()})

	_, err := reader.ReadOption("", LeaseGateway, LeaseValueMaxLen)
	assert.ErrorIs(t, err, types.ErrFault)
}
