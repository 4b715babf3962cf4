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
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func collect(payload []byte) [][]byte {
	var out [][]byte
	for p := range Packets(payload) {
		out = append(out, p)
	}
	return out
}

func TestPackets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		length  int
		packets int
		last    int
	}{
		{name: "empty", length: 0, packets: 0},
		{name: "one byte", length: 1, packets: 1, last: 1},
		{name: "exactly one packet", length: 512, packets: 1, last: 512},
		{name: "one over", length: 513, packets: 2, last: 1},
		{name: "full page", length: 0x4000, packets: 32, last: 512},
		{name: "short page", length: 0x400, packets: 2, last: 512},
		{name: "odd length", length: 1500, packets: 3, last: 476},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			payload := make([]byte, tt.length)
			for i := range payload {
				payload[i] = byte(i * 7)
			}

			got := collect(payload)
			assert.Len(t, got, tt.packets)
			assert.Equal(t, tt.packets, PacketCount(tt.length))

			for i, p := range got {
				if i < len(got)-1 {
					assert.Len(t, p, PacketSize, "packet %d", i)
				} else {
					assert.Len(t, p, tt.last, "last packet")
				}
			}
			assert.Equal(t, payload, bytes.Join(got, nil))
		})
	}
}

func TestPackets_Restartable(t *testing.T) {
	t.Parallel()

	payload := bytes.Repeat([]byte{0xAB}, 1300)
	seq := Packets(payload)

	var first, second []int
	for p := range seq {
		first = append(first, len(p))
	}
	for p := range seq {
		second = append(second, len(p))
	}
	assert.Equal(t, []int{512, 512, 276}, first)
	assert.Equal(t, first, second)
}

func TestPackets_EarlyStop(t *testing.T) {
	t.Parallel()

	count := 0
	for range Packets(make([]byte, 4096)) {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}

func TestPackets_ChunksDoNotGrowIntoNeighbour(t *testing.T) {
	t.Parallel()

	payload := make([]byte, 1024)
	for p := range Packets(payload) {
		assert.Equal(t, len(p), cap(p))
	}
}
