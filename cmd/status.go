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

	"github.com/spf13/cobra"

	"github.com/gatewaykit/dcnet/daemon"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon status",
	Run:   runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) {
	resp := sendOrExit(daemon.Request{
		Command: "status",
	})

	fmt.Println("dcnet Network Configuration Daemon")
	fmt.Println("==================================")
	fmt.Println()

	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		fmt.Println(resp.Message)
		return
	}

	fmt.Printf("Socket:          %v\n", data["socket"])
	fmt.Printf("Gateway backups: %v\n", data["gw_backups"])

	journaling := "disabled"
	if enabled, _ := data["journaling"].(bool); enabled {
		journaling = "enabled"
	}
	fmt.Printf("Journaling:      %s\n", journaling)
}
