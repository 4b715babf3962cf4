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

// Package detection finds candidate devices without opening them. Detectors
// register themselves on import; DetectAll runs every registered detector.
package detection

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

var (
	// ErrNoDevicesFound is returned when no detector found a device
	ErrNoDevicesFound = errors.New("no devices found")

	// ErrDetectionTimeout is returned when the context expires mid-scan
	ErrDetectionTimeout = errors.New("detection timed out")

	// ErrUnsupportedPlatform is returned by detectors that cannot run here
	ErrUnsupportedPlatform = errors.New("detection not supported on this platform")
)

// Confidence ranks how likely a detected device is the audio bootloader.
type Confidence int

const (
	// Low means the device matched loosely
	Low Confidence = iota
	// Medium means the vendor matched
	Medium
	// High means both vendor and product IDs matched
	High
)

// String returns the confidence name
func (c Confidence) String() string {
	switch c {
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	default:
		return "unknown"
	}
}

// DeviceInfo describes one detected device.
type DeviceInfo struct {
	Metadata   map[string]string
	Transport  string // transport name to open it with, "usb" or "usbfs"
	Path       string // transport-specific path
	Name       string
	VendorID   uint16
	ProductID  uint16
	Confidence Confidence
}

// Options controls a detection run.
type Options struct {
	// Products lists the product IDs reported with High confidence. Empty
	// means the bootloader and the booted audio device.
	Products    []uint16
	Blocklist   []string
	IgnorePaths []string
	Timeout     time.Duration
	VendorID    uint16
	// AllVendors also reports devices from other vendors with Low confidence
	AllVendors bool
}

// DefaultOptions returns options matching the Microsoft audio devices.
func DefaultOptions() Options {
	return Options{
		VendorID:  0x045e,
		Products:  []uint16{0x02be, 0x02c3},
		Blocklist: DefaultBlocklist(),
		Timeout:   5 * time.Second,
	}
}

// Classify returns the confidence for a device with the given IDs, and
// false when the device should not be reported at all.
func (o *Options) Classify(vid, pid uint16) (Confidence, bool) {
	if vid != o.VendorID {
		return Low, o.AllVendors
	}
	for _, p := range o.Products {
		if p == pid {
			return High, true
		}
	}
	return Medium, true
}

// Detector discovers devices reachable through one transport.
type Detector interface {
	// Transport returns the transport name this detector produces paths for
	Transport() string
	// Detect lists devices; it must honour ctx cancellation
	Detect(ctx context.Context, opts *Options) ([]DeviceInfo, error)
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Detector)
)

// RegisterDetector adds a detector, replacing any previous one for the same
// transport.
func RegisterDetector(d Detector) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[d.Transport()] = d
}

// Detectors returns the registered detectors sorted by transport name.
func Detectors() []Detector {
	registryMu.RLock()
	defer registryMu.RUnlock()

	detectors := make([]Detector, 0, len(registry))
	for _, d := range registry {
		detectors = append(detectors, d)
	}
	sort.Slice(detectors, func(i, j int) bool {
		return detectors[i].Transport() < detectors[j].Transport()
	})
	return detectors
}

// DetectAll runs every registered detector and merges the results, highest
// confidence first. Detector failures are skipped unless every detector
// failed.
func DetectAll(ctx context.Context, opts *Options) ([]DeviceInfo, error) {
	if opts == nil {
		defaults := DefaultOptions()
		opts = &defaults
	}
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	var (
		devices []DeviceInfo
		errs    []error
	)
	detectors := Detectors()
	for _, d := range detectors {
		found, err := d.Detect(ctx, opts)
		if err != nil && !errors.Is(err, ErrNoDevicesFound) {
			errs = append(errs, err)
		}
		devices = append(devices, filter(found, opts)...)
	}

	if len(devices) == 0 {
		if len(errs) > 0 && len(errs) == len(detectors) {
			return nil, errors.Join(errs...)
		}
		return nil, ErrNoDevicesFound
	}

	sort.SliceStable(devices, func(i, j int) bool {
		return devices[i].Confidence > devices[j].Confidence
	})
	return devices, nil
}

func filter(devices []DeviceInfo, opts *Options) []DeviceInfo {
	kept := devices[:0]
	for _, d := range devices {
		if IsBlocked(d.VendorID, d.ProductID, opts.Blocklist) {
			continue
		}
		if IsPathIgnored(d.Path, opts.IgnorePaths) {
			continue
		}
		kept = append(kept, d)
	}
	return kept
}
