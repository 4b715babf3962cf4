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

package sysfs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZaparooProject/go-kinectfw/detection"
)

func writeDevice(t *testing.T, root, name string, attrs map[string]string) {
	t.Helper()

	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for k, v := range attrs {
		require.NoError(t, os.WriteFile(filepath.Join(dir, k), []byte(v+"\n"), 0o600))
	}
}

func fakeSysfs(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	writeDevice(t, root, "1-1", map[string]string{
		"idVendor": "045e", "idProduct": "02be", "busnum": "1", "devnum": "4",
		"manufacturer": "Microsoft", "product": "Kinect for Windows Audio",
	})
	writeDevice(t, root, "1-1:1.0", map[string]string{"bInterfaceNumber": "00"})
	writeDevice(t, root, "1-2", map[string]string{
		"idVendor": "045e", "idProduct": "02bf", "busnum": "1", "devnum": "5",
	})
	writeDevice(t, root, "2-1", map[string]string{
		"idVendor": "1d6b", "idProduct": "0002", "busnum": "2", "devnum": "1",
	})
	writeDevice(t, root, "usb3", map[string]string{"idVendor": "zzzz"})
	return root
}

func TestDetect(t *testing.T) {
	t.Parallel()

	opts := detection.DefaultOptions()
	devices, err := NewWithRoot(fakeSysfs(t)).Detect(context.Background(), &opts)
	require.NoError(t, err)
	require.Len(t, devices, 2)

	byPath := make(map[string]detection.DeviceInfo)
	for _, d := range devices {
		byPath[d.Path] = d
	}

	audio, ok := byPath["/dev/bus/usb/001/004"]
	require.True(t, ok)
	assert.Equal(t, "usbfs", audio.Transport)
	assert.Equal(t, detection.High, audio.Confidence)
	assert.Equal(t, uint16(0x02be), audio.ProductID)
	assert.Equal(t, "Microsoft", audio.Metadata["manufacturer"])
	assert.Equal(t, "Kinect for Windows Audio on bus 1 device 4", audio.Name)

	camera, ok := byPath["/dev/bus/usb/001/005"]
	require.True(t, ok)
	assert.Equal(t, detection.Medium, camera.Confidence)
	assert.Equal(t, "045E:02BF on bus 1 device 5", camera.Name)
}

func TestDetect_AllVendors(t *testing.T) {
	t.Parallel()

	opts := detection.DefaultOptions()
	opts.AllVendors = true
	devices, err := NewWithRoot(fakeSysfs(t)).Detect(context.Background(), &opts)
	require.NoError(t, err)
	assert.Len(t, devices, 3)
}

func TestDetect_Empty(t *testing.T) {
	t.Parallel()

	opts := detection.DefaultOptions()
	_, err := NewWithRoot(t.TempDir()).Detect(context.Background(), &opts)
	assert.ErrorIs(t, err, detection.ErrNoDevicesFound)
}

func TestDetect_MissingRoot(t *testing.T) {
	t.Parallel()

	opts := detection.DefaultOptions()
	_, err := NewWithRoot(filepath.Join(t.TempDir(), "missing")).Detect(context.Background(), &opts)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDetect_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := detection.DefaultOptions()
	_, err := NewWithRoot(fakeSysfs(t)).Detect(ctx, &opts)
	assert.ErrorIs(t, err, detection.ErrDetectionTimeout)
}

func TestTransport(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "usbfs", New().Transport())
}
