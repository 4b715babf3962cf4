// go-kinectfw
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-kinectfw.
//
// go-kinectfw is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-kinectfw is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-kinectfw; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package main

import (
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/ZaparooProject/go-kinectfw/internal/config"
)

var (
	configFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Device profile (YAML)",
		EnvVars: []string{"K4WFW_CONFIG"},
	}
	transportFlag = &cli.StringFlag{
		Name:    "transport",
		Aliases: []string{"t"},
		Usage:   "Transport: usb (libusb) or usbfs (linux)",
	}
	deviceFlag = &cli.StringFlag{
		Name:    "device",
		Aliases: []string{"d"},
		Usage:   "Device selector: BUS:ADDRESS for usb, /dev/bus/usb/BBB/DDD for usbfs",
	}
	vidFlag = &cli.StringFlag{
		Name:  "vid",
		Usage: "USB vendor ID (hex)",
	}
	pidFlag = &cli.StringFlag{
		Name:  "pid",
		Usage: "USB product ID (hex)",
	}
	debugFlag = &cli.BoolFlag{
		Name:  "debug",
		Usage: "Log every command frame and packet",
	}
	noProgressFlag = &cli.BoolFlag{
		Name:  "no-progress",
		Usage: "Log upload steps instead of drawing a progress bar",
	}
)

func globalFlags() []cli.Flag {
	return []cli.Flag{
		configFlag,
		transportFlag,
		deviceFlag,
		vidFlag,
		pidFlag,
		debugFlag,
		noProgressFlag,
	}
}

// resolveProfile loads the profile, if any, and applies flag overrides.
func resolveProfile(c *cli.Context) (*config.Profile, error) {
	profile := config.Default()
	if path := c.String(configFlag.Name); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		profile = *loaded
	}

	if c.IsSet(transportFlag.Name) {
		profile.Transport = c.String(transportFlag.Name)
	}
	if c.IsSet(deviceFlag.Name) {
		profile.Device = c.String(deviceFlag.Name)
	}
	if c.IsSet(vidFlag.Name) {
		id, err := parseID(c.String(vidFlag.Name))
		if err != nil {
			return nil, fmt.Errorf("--vid: %w", err)
		}
		profile.VendorID = id
	}
	if c.IsSet(pidFlag.Name) {
		id, err := parseID(c.String(pidFlag.Name))
		if err != nil {
			return nil, fmt.Errorf("--pid: %w", err)
		}
		profile.ProductID = id
	}
	if c.Bool(debugFlag.Name) {
		profile.LogLevel = "debug"
	}

	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return &profile, nil
}

func parseID(s string) (config.ID, error) {
	v, err := strconv.ParseUint(trimHexPrefix(s), 16, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid USB ID %q", s)
	}
	return config.ID(v), nil
}

func trimHexPrefix(s string) string {
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}

func parseTag(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid tag %q", s)
	}
	return uint32(v), nil
}
