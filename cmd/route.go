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

var routePrefix string

var routeCmd = &cobra.Command{
	Use:   "route",
	Short: "Manage routes through a data channel",
}

var routeAddCmd = &cobra.Command{
	Use:   "add <channel> <dest>",
	Short: "Add a route to a destination through a channel",
	Long: `Adds a route to the destination address through the channel's
network interface. Without --prefix the destination is treated as a
host route. An IPv4 dotted-quad netmask is accepted as a prefix.`,
	Args: cobra.ExactArgs(2),
	Run:  runRouteAdd,
}

var routeDelCmd = &cobra.Command{
	Use:   "del <channel> <dest>",
	Short: "Remove a route to a destination through a channel",
	Args:  cobra.ExactArgs(2),
	Run:   runRouteDel,
}

func init() {
	rootCmd.AddCommand(routeCmd)
	routeCmd.AddCommand(routeAddCmd)
	routeCmd.AddCommand(routeDelCmd)

	for _, cmd := range []*cobra.Command{routeAddCmd, routeDelCmd} {
		cmd.Flags().StringVarP(&routePrefix, "prefix", "p", "", "Prefix length or IPv4 netmask")
	}
}

func runRouteAdd(cmd *cobra.Command, args []string) {
	changeRoute(args[0], args[1], true)
}

func runRouteDel(cmd *cobra.Command, args []string) {
	changeRoute(args[0], args[1], false)
}

func changeRoute(channel, dest string, isAdd bool) {
	resp := sendOrExit(daemon.Request{
		Command:      "route",
		Channel:      channel,
		Dest:         dest,
		PrefixLength: routePrefix,
		IsAdd:        isAdd,
	})

	fmt.Println(resp.Message)
}
