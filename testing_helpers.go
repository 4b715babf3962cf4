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
	"errors"
	"io"
	"sync"
)

// ErrNoMockReply is returned by MockTransport.Read when nothing is queued.
var ErrNoMockReply = errors.New("mock transport has no queued reply")

// MockTransport is a scripted transport for tests. Reads pop queued
// replies in order and writes are recorded. When a Backend is set every
// transfer is forwarded to it instead, which lets a device simulator
// stand in for hardware.
type MockTransport struct {
	Backend  io.ReadWriter
	writeErr error
	writes   [][]byte
	reads    []mockRead
	// failWriteAt is the 1-based write that fails with writeErr; 0 fails all
	failWriteAt int
	shortWrites bool
	mu          sync.Mutex
	closed      bool
}

type mockRead struct {
	err  error
	data []byte
}

// NewMockTransport creates an empty scripted transport
func NewMockTransport() *MockTransport {
	return &MockTransport{}
}

// NewMockTransportWithBackend creates a transport that forwards to rw
func NewMockTransportWithBackend(rw io.ReadWriter) *MockTransport {
	return &MockTransport{Backend: rw}
}

// QueueRead appends a reply for a future Read
func (m *MockTransport) QueueRead(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads = append(m.reads, mockRead{data: append([]byte(nil), data...)})
}

// QueueReadError appends a failing Read
func (m *MockTransport) QueueReadError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads = append(m.reads, mockRead{err: err})
}

// SetWriteError makes writes fail with err, starting with write number at
// (1-based). at of 0 fails every write.
func (m *MockTransport) SetWriteError(at int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWriteAt = at
	m.writeErr = err
}

// SetShortWrites makes every write report one byte less than requested
func (m *MockTransport) SetShortWrites(short bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shortWrites = short
}

// Write records p, or forwards it to Backend
func (m *MockTransport) Write(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, io.ErrClosedPipe
	}

	m.writes = append(m.writes, append([]byte(nil), p...))
	if m.writeErr != nil && (m.failWriteAt == 0 || len(m.writes) >= m.failWriteAt) {
		return 0, m.writeErr
	}
	if m.shortWrites && len(p) > 0 {
		return len(p) - 1, nil
	}
	if m.Backend != nil {
		return m.Backend.Write(p)
	}
	return len(p), nil
}

// Read pops the next queued reply, or reads from Backend
func (m *MockTransport) Read(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, io.ErrClosedPipe
	}

	if len(m.reads) == 0 {
		if m.Backend != nil {
			return m.Backend.Read(p)
		}
		return 0, ErrNoMockReply
	}

	next := m.reads[0]
	m.reads = m.reads[1:]
	if next.err != nil {
		return 0, next.err
	}
	return copy(p, next.data), nil
}

// Writes returns a copy of every write seen so far
func (m *MockTransport) Writes() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.writes))
	copy(out, m.writes)
	return out
}

// PendingReads returns how many queued replies have not been read
func (m *MockTransport) PendingReads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.reads)
}

// Close marks the transport closed
func (m *MockTransport) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// IsClosed reports whether Close was called
func (m *MockTransport) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Type returns TransportMock
func (*MockTransport) Type() TransportType {
	return TransportMock
}
