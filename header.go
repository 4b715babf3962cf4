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

import (
	"encoding/binary"
	"fmt"
)

// Firmware image header layout
const (
	ImageMagic = 0xca77f00d // 0d f0 77 ca
	HeaderSize = 24
)

// Version is the four part image version. Minor precedes major on disk.
type Version struct {
	Minor   uint16
	Major   uint16
	Release uint16
	Patch   uint16
}

func (v Version) String() string {
	return fmt.Sprintf("%02d.%02d.%02d.%02d", v.Major, v.Minor, v.Release, v.Patch)
}

// Header is the fixed header at the start of every firmware image.
type Header struct {
	Version     Version
	BaseAddress uint32 // load address; the audio firmware sits at 0x80000
	Size        uint32 // image length in bytes, header included
	EntryPoint  uint32 // absolute code entry address
}

// ParseHeader decodes the header from the first HeaderSize bytes of buf.
// It does not compare Size against len(buf).
func ParseHeader(buf []byte) (*Header, error) {
	if len(buf) < HeaderSize {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the %d byte header",
			ErrInvalidImage, len(buf), HeaderSize)
	}

	le := binary.LittleEndian
	if magic := le.Uint32(buf[0:4]); magic != ImageMagic {
		return nil, fmt.Errorf("%w: bad magic 0x%08x", ErrInvalidImage, magic)
	}

	return &Header{
		Version: Version{
			Minor:   le.Uint16(buf[4:6]),
			Major:   le.Uint16(buf[6:8]),
			Release: le.Uint16(buf[8:10]),
			Patch:   le.Uint16(buf[10:12]),
		},
		BaseAddress: le.Uint32(buf[12:16]),
		Size:        le.Uint32(buf[16:20]),
		EntryPoint:  le.Uint32(buf[20:24]),
	}, nil
}

// CheckSize verifies that the header describes an image of n bytes.
func (h *Header) CheckSize(n int) error {
	if uint64(h.Size) != uint64(n) {
		return &ImageSizeError{Declared: h.Size, Actual: n}
	}
	return nil
}

func (h *Header) String() string {
	return fmt.Sprintf("version      %s\nbase address 0x%06x\nsize         0x%06x\nentry point  0x%06x\n",
		h.Version, h.BaseAddress, h.Size, h.EntryPoint)
}
