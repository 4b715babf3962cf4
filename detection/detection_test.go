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

package detection

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsBlocked(t *testing.T) {
	t.Parallel()

	blocklist := []string{"045E:02BF", " 1234:abcd ", "not-an-id"}

	assert.True(t, IsBlocked(0x045e, 0x02bf, blocklist))
	assert.True(t, IsBlocked(0x1234, 0xabcd, blocklist))
	assert.False(t, IsBlocked(0x045e, 0x02be, blocklist))
	assert.False(t, IsBlocked(0x045e, 0x02bf, nil))
}

func TestDefaultBlocklistKeepsAudioDevices(t *testing.T) {
	t.Parallel()

	blocklist := DefaultBlocklist()
	assert.False(t, IsBlocked(0x045e, 0x02be, blocklist))
	assert.False(t, IsBlocked(0x045e, 0x02c3, blocklist))
	assert.True(t, IsBlocked(0x045e, 0x02bf, blocklist))
}

func TestParseVIDPID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		vid     uint16
		pid     uint16
		wantErr bool
	}{
		{name: "plain", input: "045e:02be", vid: 0x045e, pid: 0x02be},
		{name: "upper with prefix", input: "0x045E:0x02BE", vid: 0x045e, pid: 0x02be},
		{name: "digits are hex", input: "1234:0200", vid: 0x1234, pid: 0x0200},
		{name: "vid pid labels", input: "VID:045e PID:02be", vid: 0x045e, pid: 0x02be},
		{name: "vendor product", input: "vendor=045e product=02c3", vid: 0x045e, pid: 0x02c3},
		{name: "uevent product", input: "45e/2be/100", vid: 0x045e, pid: 0x02be},
		{name: "missing product", input: "VID:045e", wantErr: true},
		{name: "swapped labels", input: "PID:02be VID:045e", wantErr: true},
		{name: "not hex", input: "bus:addr", wantErr: true},
		{name: "too wide", input: "10000:0001", wantErr: true},
		{name: "empty half", input: "045e:", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			vid, pid, err := ParseVIDPID(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidVIDPID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.vid, vid)
			assert.Equal(t, tt.pid, pid)
		})
	}
}

func TestFormatVIDPID(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "045E:02BE", FormatVIDPID(0x045e, 0x02be))
}

func TestOptionsClassify(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()

	conf, ok := opts.Classify(0x045e, 0x02be)
	assert.True(t, ok)
	assert.Equal(t, High, conf)

	conf, ok = opts.Classify(0x045e, 0x0001)
	assert.True(t, ok)
	assert.Equal(t, Medium, conf)

	_, ok = opts.Classify(0x1234, 0x02be)
	assert.False(t, ok)

	opts.AllVendors = true
	conf, ok = opts.Classify(0x1234, 0x02be)
	assert.True(t, ok)
	assert.Equal(t, Low, conf)
}

type stubDetector struct {
	err       error
	transport string
	devices   []DeviceInfo
}

func (s *stubDetector) Transport() string { return s.transport }

func (s *stubDetector) Detect(context.Context, *Options) ([]DeviceInfo, error) {
	return append([]DeviceInfo(nil), s.devices...), s.err
}

// TestDetectAll mutates the global registry so it does not run in parallel.
//
//nolint:paralleltest // shared registry
func TestDetectAll(t *testing.T) {
	registryMu.Lock()
	saved := registry
	registry = make(map[string]Detector)
	registryMu.Unlock()
	t.Cleanup(func() {
		registryMu.Lock()
		registry = saved
		registryMu.Unlock()
	})

	RegisterDetector(&stubDetector{
		transport: "usbfs",
		devices: []DeviceInfo{
			{Transport: "usbfs", Path: "/dev/bus/usb/001/003", VendorID: 0x045e, ProductID: 0x02bf, Confidence: Medium},
			{Transport: "usbfs", Path: "/dev/bus/usb/001/004", VendorID: 0x045e, ProductID: 0x02be, Confidence: High},
			{Transport: "usbfs", Path: "/dev/bus/usb/001/009", VendorID: 0x045e, ProductID: 0x0001, Confidence: Medium},
		},
	})
	RegisterDetector(&stubDetector{transport: "usb", err: ErrUnsupportedPlatform})

	opts := DefaultOptions()
	opts.IgnorePaths = []string{"/dev/bus/usb/001/009"}

	devices, err := DetectAll(context.Background(), &opts)
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "/dev/bus/usb/001/004", devices[0].Path)

	RegisterDetector(&stubDetector{transport: "usbfs", err: errors.New("sysfs unreadable")})
	_, err = DetectAll(context.Background(), &opts)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoDevicesFound)
	assert.ErrorIs(t, err, ErrUnsupportedPlatform)

	RegisterDetector(&stubDetector{transport: "usbfs"})
	RegisterDetector(&stubDetector{transport: "usb"})
	_, err = DetectAll(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoDevicesFound)
}

func TestDetectorsSorted(t *testing.T) {
	t.Parallel()

	detectors := Detectors()
	for i := 1; i < len(detectors); i++ {
		assert.LessOrEqual(t, detectors[i-1].Transport(), detectors[i].Transport())
	}
}
