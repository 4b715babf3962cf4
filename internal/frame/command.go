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

import "encoding/binary"

// Command is the fixed 24-byte request sent ahead of every exchange.
// The magic and the reserved word are not stored; Bytes fills them in.
type Command struct {
	Tag       uint32
	Size      uint32
	Operation uint32
	Address   uint32
}

// Bytes serializes the command in wire order.
func (c Command) Bytes() [CommandSize]byte {
	var buf [CommandSize]byte
	binary.LittleEndian.PutUint32(buf[0:4], CommandMagic)
	binary.LittleEndian.PutUint32(buf[4:8], c.Tag)
	binary.LittleEndian.PutUint32(buf[8:12], c.Size)
	binary.LittleEndian.PutUint32(buf[12:16], c.Operation)
	binary.LittleEndian.PutUint32(buf[16:20], c.Address)
	// buf[20:24] reserved, always zero
	return buf
}
