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
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := OpenJournal(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestJournalRecordAndQuery(t *testing.T) {
	j := openTestJournal(t)

	require.NoError(t, j.Record("set-gw", "session-1", "ch-eth0", "", "ok"))
	require.NoError(t, j.Record("set-dns", "session-1", "ch-eth0", "", "duplicate"))
	require.NoError(t, j.Record("restore-gw", "session-1", "", "", "fault"))

	entries, err := j.QueryMutations("", 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Newest first.
	assert.Equal(t, "restore-gw", entries[0].Op)
	assert.Equal(t, "set-gw", entries[2].Op)
	assert.Equal(t, "ch-eth0", entries[2].Channel)
	assert.Equal(t, "ok", entries[2].Code)
	assert.WithinDuration(t, time.Now(), entries[0].Timestamp, time.Minute)
}

func TestJournalQueryFilterAndLimit(t *testing.T) {
	j := openTestJournal(t)

	require.NoError(t, j.Record("route", "session-1", "ch-eth0", "added dest=8.8.8.8 prefix=32", "ok"))
	require.NoError(t, j.Record("route", "session-2", "ch-eth0", "removed dest=8.8.8.8 prefix=32", "ok"))
	require.NoError(t, j.Record("set-gw", "session-1", "ch-eth0", "", "ok"))

	entries, err := j.QueryMutations("route", 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, "route", e.Op)
	}

	entries, err = j.QueryMutations("", 1)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestJournalActivityByHour(t *testing.T) {
	j := openTestJournal(t)

	require.NoError(t, j.Record("set-gw", "session-1", "ch-eth0", "", "ok"))
	require.NoError(t, j.Record("set-dns", "session-1", "ch-eth0", "", "ok"))
	require.NoError(t, j.Record("route", "session-1", "ch-eth0", "", "ok"))

	buckets, err := j.ActivityByHour(time.Now().Add(-time.Hour))
	require.NoError(t, err)
	require.NotEmpty(t, buckets)

	total := 0
	for _, b := range buckets {
		total += b.Count
		assert.Zero(t, b.Hour.Unix()%3600)
	}
	assert.Equal(t, 3, total)
}

func TestJournalActivitySinceFuture(t *testing.T) {
	j := openTestJournal(t)

	require.NoError(t, j.Record("set-gw", "session-1", "ch-eth0", "", "ok"))

	buckets, err := j.ActivityByHour(time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, buckets)
}
