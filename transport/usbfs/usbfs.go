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

// Package usbfs talks to the audio bootloader through the Linux usbfs
// character devices under /dev/bus/usb, without libusb or cgo.
package usbfs

import (
	"errors"
	"fmt"

	kinectfw "github.com/ZaparooProject/go-kinectfw"
)

// DeviceRoot is where usbfs exposes device nodes.
const DeviceRoot = "/dev/bus/usb"

// ErrUnsupportedPlatform is returned by New outside Linux.
var ErrUnsupportedPlatform = errors.New("usbfs is only available on linux")

// Options selects the device node and the endpoint pair.
type Options struct {
	// Path is the device node, e.g. /dev/bus/usb/001/004
	Path          string
	Configuration int
	Interface     int
	EndpointIn    uint8
	EndpointOut   uint8
}

// DefaultOptions returns the audio interface layout for the node at path.
func DefaultOptions(path string) Options {
	return Options{
		Path:          path,
		Configuration: kinectfw.AudioConfiguration,
		Interface:     kinectfw.AudioInterface,
		EndpointIn:    kinectfw.AudioEndpointIn,
		EndpointOut:   kinectfw.AudioEndpointOut,
	}
}

// DevicePath returns the usbfs node for a bus number and device address.
func DevicePath(bus, addr int) string {
	return fmt.Sprintf("%s/%03d/%03d", DeviceRoot, bus, addr)
}

// Type returns the transport type
func (*Transport) Type() kinectfw.TransportType {
	return kinectfw.TransportUSBFS
}
