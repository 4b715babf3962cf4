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

// Package libusb enumerates USB devices through libusb (gousb) and reports
// them as bus:address selectors for the usb transport. Importing it
// registers the detector.
package libusb

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/gousb"

	"github.com/ZaparooProject/go-kinectfw/detection"
)

type detector struct{}

// New creates a new libusb detector
func New() detection.Detector {
	return &detector{}
}

// init registers the detector on package import
func init() {
	detection.RegisterDetector(New())
}

// Transport returns the transport type
func (*detector) Transport() string {
	return "usb"
}

// Detect walks the libusb device list without opening any device
func (*detector) Detect(ctx context.Context, opts *detection.Options) ([]detection.DeviceInfo, error) {
	usbCtx := gousb.NewContext()
	defer func() { _ = usbCtx.Close() }()

	var descs []*gousb.DeviceDesc
	devs, err := usbCtx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		descs = append(descs, desc)
		return false
	})
	for _, d := range devs {
		_ = d.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate USB devices: %w", err)
	}

	select {
	case <-ctx.Done():
		return nil, detection.ErrDetectionTimeout
	default:
	}

	devices := fromDescriptors(descs, opts)
	if len(devices) == 0 {
		return nil, detection.ErrNoDevicesFound
	}
	return devices, nil
}

// fromDescriptors keeps the descriptors the options classify as reportable
func fromDescriptors(descs []*gousb.DeviceDesc, opts *detection.Options) []detection.DeviceInfo {
	devices := make([]detection.DeviceInfo, 0, len(descs))
	for _, desc := range descs {
		vid, pid := uint16(desc.Vendor), uint16(desc.Product)
		confidence, ok := opts.Classify(vid, pid)
		if !ok {
			continue
		}

		devices = append(devices, detection.DeviceInfo{
			Transport:  "usb",
			Path:       fmt.Sprintf("%d:%d", desc.Bus, desc.Address),
			Name:       fmt.Sprintf("%s on bus %d device %d", detection.FormatVIDPID(vid, pid), desc.Bus, desc.Address),
			VendorID:   vid,
			ProductID:  pid,
			Confidence: confidence,
			Metadata: map[string]string{
				"bus":     strconv.Itoa(desc.Bus),
				"address": strconv.Itoa(desc.Address),
				"port":    strconv.Itoa(desc.Port),
				"speed":   desc.Speed.String(),
			},
		})
	}
	return devices
}
