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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	testutil "github.com/ZaparooProject/go-kinectfw/internal/testing"
)

func TestDevice_FirmwareStatus(t *testing.T) {
	t.Parallel()

	block := testutil.BuildFirmwareStatusBlock(
		[4]uint32{2, 1, 390, 0},
		[4]uint32{0, 1, 7, 1},
		[4]uint32{5, 3, 100000, 2},
	)

	mock := NewMockTransport()
	mock.QueueRead(block)
	mock.QueueRead(testutil.BuildStatusFrame(FirmwareStatusTag, 0))
	device := newTestDevice(t, mock)

	status, err := device.FirmwareStatus(FirmwareStatusTag)
	require.NoError(t, err)

	assert.Equal(t, StatusVersion{Minor: 2, Major: 1, Release: 390, Patch: 0}, status.Versions[0])
	assert.Equal(t, "01.00.07.01", status.Versions[1].String())
	assert.Equal(t, "03.05.100000.02", status.Versions[2].String())
	assert.Equal(t, block, status.Raw)

	writes := mock.Writes()
	require.Len(t, writes, 1)
	assert.Equal(t, commandBytes(OpStatus, 0x1337, 0x00, 0x60), writes[0])
}

func TestDevice_FirmwareStatusRejected(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport()
	mock.QueueRead(make([]byte, FirmwareStatusSize))
	mock.QueueRead(testutil.BuildStatusFrame(FirmwareStatusTag, 2))
	device := newTestDevice(t, mock)

	status, err := device.FirmwareStatus(FirmwareStatusTag)
	require.ErrorIs(t, err, ErrDeviceRejected)
	assert.Nil(t, status)
}

func TestDevice_FirmwareStatusFromVirtualDevice(t *testing.T) {
	t.Parallel()

	device, vdev := virtualDevice(t)
	vdev.StatusBlock = testutil.BuildFirmwareStatusBlock([4]uint32{4, 2, 1, 0})

	status, err := device.FirmwareStatus(7)
	require.NoError(t, err)
	assert.Equal(t, "02.04.01.00", status.Versions[0].String())
	assert.Equal(t, StatusVersion{}, status.Versions[1])
}

func TestParseFirmwareStatus_Short(t *testing.T) {
	t.Parallel()

	_, err := ParseFirmwareStatus(make([]byte, 35))
	require.ErrorIs(t, err, ErrMalformedFrame)

	status, err := ParseFirmwareStatus(make([]byte, 36))
	require.NoError(t, err)
	assert.Len(t, status.Raw, 36)
}

func TestParseFirmwareStatus_CopiesInput(t *testing.T) {
	t.Parallel()

	data := testutil.BuildFirmwareStatusBlock([4]uint32{1, 1, 1, 1})
	status, err := ParseFirmwareStatus(data)
	require.NoError(t, err)

	data[0] = 0xFF
	assert.Equal(t, byte(1), status.Raw[0])
}
