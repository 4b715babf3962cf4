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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockTransport_QueuedReads(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport()
	mock.QueueRead([]byte{0x01, 0x02})
	mock.QueueReadError(io.ErrUnexpectedEOF)
	assert.Equal(t, 2, mock.PendingReads())

	buf := make([]byte, 8)
	n, err := mock.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02}, buf[:n])

	_, err = mock.Read(buf)
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)

	_, err = mock.Read(buf)
	require.ErrorIs(t, err, ErrNoMockReply)
	assert.Equal(t, 0, mock.PendingReads())
}

func TestMockTransport_WriteErrors(t *testing.T) {
	t.Parallel()

	errBroken := errors.New("broken pipe")
	mock := NewMockTransport()
	mock.SetWriteError(2, errBroken)

	n, err := mock.Write([]byte{0xaa})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = mock.Write([]byte{0xbb})
	require.ErrorIs(t, err, errBroken)
	_, err = mock.Write([]byte{0xcc})
	require.ErrorIs(t, err, errBroken)

	assert.Equal(t, [][]byte{{0xaa}, {0xbb}, {0xcc}}, mock.Writes())
}

func TestMockTransport_ShortWrites(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport()
	mock.SetShortWrites(true)

	n, err := mock.Write(make([]byte, 24))
	require.NoError(t, err)
	assert.Equal(t, 23, n)
}

type loopback struct {
	data []byte
}

func (l *loopback) Write(p []byte) (int, error) {
	l.data = append(l.data, p...)
	return len(p), nil
}

func (l *loopback) Read(p []byte) (int, error) {
	n := copy(p, l.data)
	l.data = l.data[n:]
	return n, nil
}

func TestMockTransport_Backend(t *testing.T) {
	t.Parallel()

	backend := &loopback{}
	mock := NewMockTransportWithBackend(backend)
	mock.QueueRead([]byte{0xff})

	_, err := mock.Write([]byte{0x10, 0x20})
	require.NoError(t, err)

	buf := make([]byte, 4)
	n, err := mock.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff}, buf[:n], "queued replies come before the backend")

	n, err = mock.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x10, 0x20}, buf[:n])
}

func TestMockTransport_Close(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport()
	assert.Equal(t, TransportMock, mock.Type())
	require.NoError(t, mock.Close())
	assert.True(t, mock.IsClosed())

	_, err := mock.Write([]byte{0x01})
	require.ErrorIs(t, err, io.ErrClosedPipe)
	_, err = mock.Read(make([]byte, 1))
	require.ErrorIs(t, err, io.ErrClosedPipe)
}
