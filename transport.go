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

package kinectfw

// Transport is a bulk endpoint pair on the device. Write sends one bulk
// OUT transfer and Read receives one bulk IN transfer; both block until
// the transfer completes or fails. Implementations live under transport/.
type Transport interface {
	// Write sends p as a single transfer
	Write(p []byte) (int, error)

	// Read receives a single transfer into p
	Read(p []byte) (int, error)

	// Close releases the interface and the device handle
	Close() error

	// Type returns the transport type
	Type() TransportType
}

// TransportType represents the type of transport
type TransportType string

const (
	// TransportUSB is libusb through gousb.
	TransportUSB TransportType = "usb"
	// TransportUSBFS is the Linux usbfs character device.
	TransportUSBFS TransportType = "usbfs"
	// TransportMock represents a mock transport for testing
	TransportMock TransportType = "mock"
)

// Kinect for Windows audio USB identity
const (
	VendorMicrosoft = 0x045e

	// ProductK4WAudioBootloader is the audio processor before firmware is
	// loaded. Uploads go to this product.
	ProductK4WAudioBootloader = 0x02be

	// ProductK4WAudio is the audio processor running uploaded firmware.
	ProductK4WAudio = 0x02c3

	AudioConfiguration = 1
	AudioInterface     = 0
	AudioEndpointIn    = 0x81
	AudioEndpointOut   = 0x01
)
