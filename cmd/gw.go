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

	"github.com/spf13/cobra"

	"github.com/gatewaykit/dcnet/client"
	"github.com/gatewaykit/dcnet/daemon"
)

var gwSession string

var backupGWCmd = &cobra.Command{
	Use:   "backup-gw",
	Short: "Back up the current default gateway configuration",
	Long: `Captures the system's current default gateway per address family
so it can be restored later with restore-gw.`,
	Run: runBackupGW,
}

var setGWCmd = &cobra.Command{
	Use:   "set-gw <channel>",
	Short: "Set the default gateway from a data channel",
	Long: `Resolves the channel's gateway addresses and installs them as the
system default gateway, IPv6 first, then IPv4.`,
	Args: cobra.ExactArgs(1),
	Run:  runSetGW,
}

var restoreGWCmd = &cobra.Command{
	Use:   "restore-gw",
	Short: "Restore the backed-up default gateway configuration",
	Run:   runRestoreGW,
}

var getGWCmd = &cobra.Command{
	Use:   "get-gw <channel>",
	Short: "Show a channel's gateway addresses",
	Args:  cobra.ExactArgs(1),
	Run:   runGetGW,
}

func init() {
	rootCmd.AddCommand(backupGWCmd)
	rootCmd.AddCommand(setGWCmd)
	rootCmd.AddCommand(restoreGWCmd)
	rootCmd.AddCommand(getGWCmd)

	for _, cmd := range []*cobra.Command{backupGWCmd, setGWCmd, restoreGWCmd} {
		cmd.Flags().StringVarP(&gwSession, "session", "s", "", "Client session identifier")
	}
}

// sendOrExit sends a request and exits on transport or command failure.
func sendOrExit(req daemon.Request) *daemon.Response {
	resp, err := client.Send(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		exitWithError()
		return nil
	}
	if !resp.Success {
		fmt.Fprintf(os.Stderr, "[ERROR] %s (%s)\n", resp.Error, resp.Code)
		exitWithError()
		return nil
	}
	return resp
}

func runBackupGW(cmd *cobra.Command, args []string) {
	resp := sendOrExit(daemon.Request{
		Command:   "backup-gw",
		SessionID: gwSession,
	})

	fmt.Println(resp.Message)
	if data, ok := resp.Data.(map[string]interface{}); ok {
		fmt.Printf("Session: %v\n", data["session"])
	}
}

func runSetGW(cmd *cobra.Command, args []string) {
	resp := sendOrExit(daemon.Request{
		Command:   "set-gw",
		SessionID: gwSession,
		Channel:   args[0],
	})

	fmt.Println(resp.Message)
}

func runRestoreGW(cmd *cobra.Command, args []string) {
	resp := sendOrExit(daemon.Request{
		Command:   "restore-gw",
		SessionID: gwSession,
	})

	fmt.Println(resp.Message)
}

func runGetGW(cmd *cobra.Command, args []string) {
	resp := sendOrExit(daemon.Request{
		Command: "get-gw",
		Channel: args[0],
	})

	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		fmt.Println("Unable to parse gateway data")
		return
	}

	if intf, ok := data["interface"].(string); ok && intf != "" {
		fmt.Printf("Interface: %s\n", intf)
	}
	if gw, ok := data["gateway"].(map[string]interface{}); ok {
		printAddr("IPv4 gateway", gw["ipv4"])
		printAddr("IPv6 gateway", gw["ipv6"])
	}
}

func printAddr(label string, value interface{}) {
	s, _ := value.(string)
	if s == "" {
		s = "(none)"
	}
	fmt.Printf("%s: %s\n", label, s)
}
