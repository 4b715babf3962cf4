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

// Package frame provides the wire layout and protocol constants for the
// Kinect audio bootloader command/status protocol
package frame

// Frame magic values, little-endian on the wire
const (
	CommandMagic = 0x06022009 // 09 20 02 06
	StatusMagic  = 0x0a6fe000 // 00 e0 6f 0a
)

// Frame sizes
const (
	CommandSize = 24 // magic + tag + size + operation + address + reserved
	StatusSize  = 12 // magic + tag + result
)

// Transfer limits dictated by the device
const (
	PacketSize      = 512 // payload bytes per bulk OUT write
	MaxTransferSize = 512 // largest single bulk IN transfer
)

// Operation codes understood by the bootloader
const (
	OpcodeStatus  = 0x00 // probe device state
	OpcodePage    = 0x03 // write one page at an address
	OpcodeExecute = 0x04 // finish upload, jump to entry point
)
