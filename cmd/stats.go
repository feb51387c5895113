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

// Package cmd implements the CLI commands for dcnet using cobra.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/gatewaykit/dcnet/daemon"
)

var (
	statsJournalPath string
	statsHours       int
	statsRecent      int
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show mutation journal statistics",
	Long: `Reads the mutation journal and renders configuration activity per
hour, followed by the most recent mutations.`,
	Run: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringVarP(&statsJournalPath, "journal", "j", "/var/lib/dcnet/journal.db", "Mutation journal path")
	statsCmd.Flags().IntVar(&statsHours, "hours", 24, "Hours of history to graph")
	statsCmd.Flags().IntVar(&statsRecent, "recent", 10, "Number of recent mutations to list")
}

func runStats(cmd *cobra.Command, args []string) {
	journal, err := daemon.OpenJournal(statsJournalPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		exitWithError()
		return
	}
	defer journal.Close()

	since := time.Now().Add(-time.Duration(statsHours) * time.Hour)
	buckets, err := journal.ActivityByHour(since)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		exitWithError()
		return
	}

	fmt.Printf("Mutations per hour - last %d hours:\n", statsHours)
	if len(buckets) == 0 {
		fmt.Println("  no activity")
	} else {
		graph := asciigraph.Plot(fillHourlySeries(since, statsHours, buckets),
			asciigraph.Height(8),
			asciigraph.Width(60),
			asciigraph.Caption(""))
		fmt.Println(graph)
	}
	fmt.Println()

	entries, err := journal.QueryMutations("", statsRecent)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		exitWithError()
		return
	}

	fmt.Printf("Recent mutations (%d):\n", len(entries))
	for _, e := range entries {
		line := fmt.Sprintf("  %s  %-12s %-10s %s",
			e.Timestamp.Format("2006-01-02 15:04:05"), e.Op, e.Code, e.Session)
		if e.Channel != "" {
			line += "  " + e.Channel
		}
		if e.Detail != "" {
			line += "  " + e.Detail
		}
		fmt.Println(line)
	}
}

// fillHourlySeries expands sparse hour buckets into a dense series with
// zeros for hours without activity.
func fillHourlySeries(since time.Time, hours int, buckets []daemon.ActivityBucket) []float64 {
	counts := make(map[int64]int, len(buckets))
	for _, b := range buckets {
		counts[b.Hour.Unix()] = b.Count
	}

	start := since.Unix() / 3600 * 3600
	series := make([]float64, 0, hours+1)
	for h := start; h <= time.Now().Unix(); h += 3600 {
		series = append(series, float64(counts[h]))
	}
	return series
}
