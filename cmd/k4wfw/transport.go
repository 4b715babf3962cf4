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
	"context"
	"fmt"

	kinectfw "github.com/ZaparooProject/go-kinectfw"
	"github.com/ZaparooProject/go-kinectfw/detection"
	"github.com/ZaparooProject/go-kinectfw/detection/sysfs"
	"github.com/ZaparooProject/go-kinectfw/internal/config"
	"github.com/ZaparooProject/go-kinectfw/transport/usb"
	"github.com/ZaparooProject/go-kinectfw/transport/usbfs"

	// Registers the libusb detector for the detect command
	_ "github.com/ZaparooProject/go-kinectfw/detection/libusb"
)

// openTransport is replaced in tests.
var openTransport = newTransport

// newTransport opens the transport a profile names.
func newTransport(ctx context.Context, profile *config.Profile) (kinectfw.Transport, error) {
	switch profile.Transport {
	case "usb":
		transport, err := usb.New(usb.Options{
			BusAddress:    profile.Device,
			VendorID:      uint16(profile.VendorID),
			ProductID:     uint16(profile.ProductID),
			Configuration: profile.Configuration,
			Interface:     profile.Interface,
			EndpointIn:    profile.EndpointIn,
			EndpointOut:   profile.EndpointOut,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create USB transport: %w", err)
		}
		return transport, nil

	case "usbfs":
		path := profile.Device
		if path == "" {
			found, err := findNode(ctx, profile)
			if err != nil {
				return nil, err
			}
			path = found
		}
		transport, err := usbfs.New(usbfs.Options{
			Path:          path,
			Configuration: profile.Configuration,
			Interface:     profile.Interface,
			EndpointIn:    profile.EndpointIn,
			EndpointOut:   profile.EndpointOut,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create usbfs transport: %w", err)
		}
		return transport, nil

	default:
		return nil, fmt.Errorf("unsupported transport type: %s", profile.Transport)
	}
}

// findNode locates the usbfs node of the profile's device through sysfs.
func findNode(ctx context.Context, profile *config.Profile) (string, error) {
	opts := detection.DefaultOptions()
	opts.VendorID = uint16(profile.VendorID)
	opts.Products = []uint16{uint16(profile.ProductID)}

	devices, err := sysfs.New().Detect(ctx, &opts)
	if err != nil {
		return "", fmt.Errorf("failed to find %s:%s: %w", profile.VendorID, profile.ProductID, err)
	}
	for _, d := range devices {
		if d.Confidence == detection.High {
			return d.Path, nil
		}
	}
	return "", fmt.Errorf("%w: %s:%s", detection.ErrNoDevicesFound, profile.VendorID, profile.ProductID)
}
