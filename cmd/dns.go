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

var dnsSession string

var setDNSCmd = &cobra.Command{
	Use:   "set-dns <channel>",
	Short: "Install a channel's DNS servers",
	Long: `Resolves the channel's DNS server addresses and installs them as
the system name servers, backing up the previous ones.`,
	Args: cobra.ExactArgs(1),
	Run:  runSetDNS,
}

var restoreDNSCmd = &cobra.Command{
	Use:   "restore-dns",
	Short: "Restore the previously installed DNS servers",
	Run:   runRestoreDNS,
}

var getDNSCmd = &cobra.Command{
	Use:   "get-dns <channel>",
	Short: "Show a channel's DNS server addresses",
	Args:  cobra.ExactArgs(1),
	Run:   runGetDNS,
}

func init() {
	rootCmd.AddCommand(setDNSCmd)
	rootCmd.AddCommand(restoreDNSCmd)
	rootCmd.AddCommand(getDNSCmd)

	setDNSCmd.Flags().StringVarP(&dnsSession, "session", "s", "", "Client session identifier")
}

func runSetDNS(cmd *cobra.Command, args []string) {
	resp := sendOrExit(daemon.Request{
		Command:   "set-dns",
		SessionID: dnsSession,
		Channel:   args[0],
	})

	fmt.Println(resp.Message)
}

func runRestoreDNS(cmd *cobra.Command, args []string) {
	resp := sendOrExit(daemon.Request{
		Command: "restore-dns",
	})

	fmt.Println(resp.Message)
}

func runGetDNS(cmd *cobra.Command, args []string) {
	resp := sendOrExit(daemon.Request{
		Command: "get-dns",
		Channel: args[0],
	})

	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		fmt.Println("Unable to parse DNS data")
		return
	}

	dns, ok := data["dns"].(map[string]interface{})
	if !ok {
		fmt.Println("No DNS data")
		return
	}

	printDNSFamily("IPv4", dns["ipv4"])
	printDNSFamily("IPv6", dns["ipv6"])
}

func printDNSFamily(label string, value interface{}) {
	addrs, ok := value.([]interface{})
	if !ok {
		return
	}
	for i, addr := range addrs {
		if s, _ := addr.(string); s != "" {
			fmt.Printf("%s DNS %d: %s\n", label, i+1, s)
		}
	}
}
