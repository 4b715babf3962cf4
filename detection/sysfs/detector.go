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

// Package sysfs lists USB devices from the Linux sysfs tree and reports
// them as usbfs device nodes. Importing it registers the detector.
package sysfs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/ZaparooProject/go-kinectfw/detection"
	"github.com/ZaparooProject/go-kinectfw/transport/usbfs"
)

// DefaultRoot is the sysfs directory holding one entry per USB device.
const DefaultRoot = "/sys/bus/usb/devices"

type detector struct {
	root string
}

// New creates a detector reading DefaultRoot
func New() detection.Detector {
	return &detector{root: DefaultRoot}
}

// NewWithRoot creates a detector reading another sysfs devices directory
func NewWithRoot(root string) detection.Detector {
	return &detector{root: root}
}

// init registers the detector on package import
func init() {
	detection.RegisterDetector(New())
}

// Transport returns the transport type
func (*detector) Transport() string {
	return "usbfs"
}

// Detect reads every device entry under the sysfs root
func (d *detector) Detect(ctx context.Context, opts *detection.Options) ([]detection.DeviceInfo, error) {
	if runtime.GOOS != "linux" && d.root == DefaultRoot {
		return nil, detection.ErrUnsupportedPlatform
	}

	entries, err := os.ReadDir(d.root)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", d.root, err)
	}

	var devices []detection.DeviceInfo
	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return devices, detection.ErrDetectionTimeout
		default:
		}

		// Interface entries look like 1-1:1.0 and carry no IDs
		if strings.Contains(entry.Name(), ":") {
			continue
		}

		device, ok := readDevice(filepath.Join(d.root, entry.Name()), opts)
		if !ok {
			continue
		}
		devices = append(devices, device)
	}

	if len(devices) == 0 {
		return nil, detection.ErrNoDevicesFound
	}
	return devices, nil
}

// readDevice builds a DeviceInfo from one sysfs device directory
func readDevice(dir string, opts *detection.Options) (detection.DeviceInfo, bool) {
	vid, err := readHex(dir, "idVendor")
	if err != nil {
		return detection.DeviceInfo{}, false
	}
	pid, err := readHex(dir, "idProduct")
	if err != nil {
		return detection.DeviceInfo{}, false
	}

	confidence, ok := opts.Classify(vid, pid)
	if !ok {
		return detection.DeviceInfo{}, false
	}

	bus, err := readDecimal(dir, "busnum")
	if err != nil {
		return detection.DeviceInfo{}, false
	}
	addr, err := readDecimal(dir, "devnum")
	if err != nil {
		return detection.DeviceInfo{}, false
	}

	device := detection.DeviceInfo{
		Transport:  "usbfs",
		Path:       usbfs.DevicePath(bus, addr),
		VendorID:   vid,
		ProductID:  pid,
		Confidence: confidence,
		Metadata: map[string]string{
			"sysfs":   dir,
			"bus":     strconv.Itoa(bus),
			"address": strconv.Itoa(addr),
		},
	}

	product := readString(dir, "product")
	for _, key := range []string{"manufacturer", "product", "serial"} {
		if v := readString(dir, key); v != "" {
			device.Metadata[key] = v
		}
	}
	if product == "" {
		product = detection.FormatVIDPID(vid, pid)
	}
	device.Name = fmt.Sprintf("%s on bus %d device %d", product, bus, addr)

	return device, true
}

func readString(dir, name string) string {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func readHex(dir, name string) (uint16, error) {
	v, err := strconv.ParseUint(readString(dir, name), 16, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return uint16(v), nil
}

func readDecimal(dir, name string) (int, error) {
	v, err := strconv.Atoi(readString(dir, name))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return v, nil
}
