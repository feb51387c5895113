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

var intfStateCmd = &cobra.Command{
	Use:   "intf-state <interface>",
	Short: "Show whether an interface has IPv4 and IPv6 addresses",
	Args:  cobra.ExactArgs(1),
	Run:   runIntfState,
}

func init() {
	rootCmd.AddCommand(intfStateCmd)
}

func runIntfState(cmd *cobra.Command, args []string) {
	resp := sendOrExit(daemon.Request{
		Command:   "intf-state",
		Interface: args[0],
	})

	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		fmt.Println("Unable to parse interface data")
		return
	}

	fmt.Printf("Interface: %v\n", data["interface"])
	fmt.Printf("  IPv4: %s\n", assignedLabel(data["ipv4"]))
	fmt.Printf("  IPv6: %s\n", assignedLabel(data["ipv6"]))
}

func assignedLabel(value interface{}) string {
	if assigned, _ := value.(bool); assigned {
		return "assigned"
	}
	return "not assigned"
}
