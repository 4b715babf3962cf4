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

package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Status frame decode errors
var (
	ErrFrameLength = errors.New("status frame has wrong length")
	ErrBadMagic    = errors.New("status frame has wrong magic")
)

// Status is a decoded status frame.
type Status struct {
	Tag     uint32
	Result  uint32
	Success bool
}

// ParseStatus decodes a status frame. The buffer must be exactly
// StatusSize bytes; nothing is truncated or padded.
func ParseStatus(b []byte) (Status, error) {
	if len(b) != StatusSize {
		return Status{}, fmt.Errorf("%w: got %d bytes, want %d", ErrFrameLength, len(b), StatusSize)
	}

	magic := binary.LittleEndian.Uint32(b[0:4])
	if magic != StatusMagic {
		return Status{}, fmt.Errorf("%w: got 0x%08x, want 0x%08x", ErrBadMagic, magic, StatusMagic)
	}

	result := binary.LittleEndian.Uint32(b[8:12])
	return Status{
		Tag:     binary.LittleEndian.Uint32(b[4:8]),
		Result:  result,
		Success: result == 0,
	}, nil
}

// BuildStatus encodes a status frame. The host never sends one; this
// exists for device simulators.
func BuildStatus(tag, result uint32) [StatusSize]byte {
	var buf [StatusSize]byte
	binary.LittleEndian.PutUint32(buf[0:4], StatusMagic)
	binary.LittleEndian.PutUint32(buf[4:8], tag)
	binary.LittleEndian.PutUint32(buf[8:12], result)
	return buf
}
