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

package testing

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/ZaparooProject/go-kinectfw/internal/frame"
)

// Simulator errors. A real device would stall or hang instead.
var (
	ErrNoReply           = errors.New("virtual device has nothing to send")
	ErrProtocolViolation = errors.New("virtual device protocol violation")
	ErrClosed            = errors.New("virtual device closed")
)

// Exchange is one command observed by the virtual device.
type Exchange struct {
	Payload   []byte
	Packets   []int // length of every payload write
	Tag       uint32
	Size      uint32
	Operation uint32
	Address   uint32
}

// VirtualDevice simulates the audio bootloader at the bulk transfer level.
// It accepts command frames and payload packets through Write and queues
// response payloads and status frames for Read.
type VirtualDevice struct {
	// Rejections maps a tag to the nonzero result its status frame carries
	Rejections map[uint32]uint32

	// StatusBlock is returned for status requests; 0x60 zero bytes if nil
	StatusBlock []byte

	// TagSkew is added to the tag echoed in every status frame
	TagSkew uint32

	exchanges []Exchange
	replies   [][]byte
	pending   *Exchange
	mu        sync.Mutex
	booted    bool
	closed    bool
}

// NewVirtualDevice creates a bootloader that accepts everything.
func NewVirtualDevice() *VirtualDevice {
	return &VirtualDevice{Rejections: make(map[uint32]uint32)}
}

// Reject makes the status frame for tag carry result.
func (v *VirtualDevice) Reject(tag, result uint32) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.Rejections[tag] = result
}

// Write accepts a command frame, or a payload packet of the page write in
// progress.
func (v *VirtualDevice) Write(p []byte) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return 0, ErrClosed
	}

	if v.pending != nil {
		return v.writePayload(p)
	}
	return v.writeCommand(p)
}

func (v *VirtualDevice) writeCommand(p []byte) (int, error) {
	if len(p) != frame.CommandSize {
		return 0, fmt.Errorf("%w: command frame of %d bytes", ErrProtocolViolation, len(p))
	}

	le := binary.LittleEndian
	if magic := le.Uint32(p[0:4]); magic != frame.CommandMagic {
		return 0, fmt.Errorf("%w: command magic 0x%08x", ErrProtocolViolation, magic)
	}
	if reserved := le.Uint32(p[20:24]); reserved != 0 {
		return 0, fmt.Errorf("%w: reserved word 0x%08x", ErrProtocolViolation, reserved)
	}

	ex := Exchange{
		Tag:       le.Uint32(p[4:8]),
		Size:      le.Uint32(p[8:12]),
		Operation: le.Uint32(p[12:16]),
		Address:   le.Uint32(p[16:20]),
	}

	switch ex.Operation {
	case frame.OpcodeStatus:
		block := v.StatusBlock
		if block == nil {
			block = make([]byte, 0x60)
		}
		v.replies = append(v.replies, append([]byte(nil), block...))
		v.finish(ex)
	case frame.OpcodePage:
		if ex.Size == 0 {
			v.finish(ex)
			break
		}
		v.pending = &ex
	case frame.OpcodeExecute:
		v.booted = true
		v.finish(ex)
	default:
		v.exchanges = append(v.exchanges, ex)
		v.replies = append(v.replies, BuildStatusFrame(ex.Tag+v.TagSkew, 1))
	}

	return len(p), nil
}

func (v *VirtualDevice) writePayload(p []byte) (int, error) {
	ex := v.pending
	if len(p) > frame.PacketSize {
		return 0, fmt.Errorf("%w: packet of %d bytes", ErrProtocolViolation, len(p))
	}
	if uint64(len(ex.Payload)+len(p)) > uint64(ex.Size) {
		return 0, fmt.Errorf("%w: payload overruns declared size %d", ErrProtocolViolation, ex.Size)
	}

	ex.Payload = append(ex.Payload, p...)
	ex.Packets = append(ex.Packets, len(p))
	if uint64(len(ex.Payload)) == uint64(ex.Size) {
		v.pending = nil
		v.finish(*ex)
	}
	return len(p), nil
}

// finish records ex and queues its status frame.
func (v *VirtualDevice) finish(ex Exchange) {
	v.exchanges = append(v.exchanges, ex)
	v.replies = append(v.replies, BuildStatusFrame(ex.Tag+v.TagSkew, v.Rejections[ex.Tag]))
}

// Read returns the next queued transfer.
func (v *VirtualDevice) Read(p []byte) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return 0, ErrClosed
	}
	if len(v.replies) == 0 {
		return 0, ErrNoReply
	}

	reply := v.replies[0]
	v.replies = v.replies[1:]
	return copy(p, reply), nil
}

// Close marks the device closed. Further transfers fail.
func (v *VirtualDevice) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
	return nil
}

// Exchanges returns every command the device has completed, in order.
func (v *VirtualDevice) Exchanges() []Exchange {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]Exchange(nil), v.exchanges...)
}

// Booted reports whether an execute command was received.
func (v *VirtualDevice) Booted() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.booted
}

// Memory reassembles the page payloads into the flash image they describe,
// starting at base.
func (v *VirtualDevice) Memory(base uint32) []byte {
	v.mu.Lock()
	defer v.mu.Unlock()

	var mem []byte
	for _, ex := range v.exchanges {
		if ex.Operation != frame.OpcodePage || ex.Address < base {
			continue
		}
		end := int(ex.Address-base) + len(ex.Payload)
		if end > len(mem) {
			mem = append(mem, make([]byte, end-len(mem))...)
		}
		copy(mem[ex.Address-base:], ex.Payload)
	}
	return mem
}
