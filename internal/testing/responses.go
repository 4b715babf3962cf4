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

// Package testing provides a simulated audio bootloader and frame builders
// for tests
package testing

import (
	"encoding/binary"

	"github.com/ZaparooProject/go-kinectfw/internal/frame"
)

// Image header constants, duplicated here to avoid importing the root
// package from its own tests
const (
	ImageMagic  = 0xca77f00d
	HeaderSize  = 24
	BaseAddress = 0x80000
	EntryPoint  = 0x80030
)

// TestHeaderBytes is a real audio firmware header: version 01.02.390.00,
// base 0x80000, size 0x20400, entry 0x80030.
var TestHeaderBytes = []byte{
	0x0d, 0xf0, 0x77, 0xca, 0x02, 0x00, 0x01, 0x00,
	0x86, 0x01, 0x00, 0x00, 0x00, 0x00, 0x08, 0x00,
	0x00, 0x04, 0x02, 0x00, 0x30, 0x00, 0x08, 0x00,
}

// BuildHeader encodes an image header.
func BuildHeader(minor, major, release, patch uint16, base, size, entry uint32) []byte {
	le := binary.LittleEndian
	hdr := make([]byte, 0, HeaderSize)
	hdr = le.AppendUint32(hdr, ImageMagic)
	hdr = le.AppendUint16(hdr, minor)
	hdr = le.AppendUint16(hdr, major)
	hdr = le.AppendUint16(hdr, release)
	hdr = le.AppendUint16(hdr, patch)
	hdr = le.AppendUint32(hdr, base)
	hdr = le.AppendUint32(hdr, size)
	hdr = le.AppendUint32(hdr, entry)
	return hdr
}

// BuildImage creates a valid image of size bytes loading at base with the
// given entry point. The body is a position dependent pattern so page
// boundaries can be checked.
func BuildImage(size int, base, entry uint32) []byte {
	image := make([]byte, size)
	for i := range image {
		image[i] = byte(i ^ (i >> 8))
	}
	hdr := BuildHeader(2, 1, 390, 0, base, uint32(size), entry)
	copy(image, hdr)
	return image
}

// BuildStatusFrame encodes a status frame.
func BuildStatusFrame(tag, result uint32) []byte {
	raw := frame.BuildStatus(tag, result)
	return raw[:]
}

// BuildFirmwareStatusBlock encodes a 0x60 byte status block carrying the
// given version records, each as minor, major, release, patch.
func BuildFirmwareStatusBlock(versions ...[4]uint32) []byte {
	le := binary.LittleEndian
	block := make([]byte, 0, 0x60)
	for _, v := range versions {
		block = le.AppendUint16(block, uint16(v[0]))
		block = le.AppendUint16(block, uint16(v[1]))
		block = le.AppendUint32(block, v[2])
		block = le.AppendUint32(block, v[3])
	}
	return append(block, make([]byte, 0x60-len(block))...)
}
