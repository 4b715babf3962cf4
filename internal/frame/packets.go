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

import "iter"

// Packets splits payload into PacketSize chunks. The last chunk may be
// shorter and an empty payload yields nothing.
func Packets(payload []byte) iter.Seq[[]byte] {
	return Chunks(payload, PacketSize)
}

// Chunks splits b into size byte chunks, the last possibly shorter. The
// sequence holds no state of its own, so ranging over it again starts
// from the beginning. Chunks alias b. size must be positive.
func Chunks(b []byte, size int) iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		rest := b
		for len(rest) > 0 {
			n := min(len(rest), size)
			if !yield(rest[:n:n]) {
				return
			}
			rest = rest[n:]
		}
	}
}

// PacketCount returns how many packets Packets yields for n bytes.
func PacketCount(n int) int {
	return ChunkCount(n, PacketSize)
}

// ChunkCount returns how many chunks Chunks yields for n bytes.
func ChunkCount(n, size int) int {
	return (n + size - 1) / size
}
