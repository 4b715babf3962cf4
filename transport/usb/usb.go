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

// Package usb provides a libusb transport for the audio bootloader through
// gousb. It needs cgo and libusb-1.0 at build time.
package usb

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/gousb"

	kinectfw "github.com/ZaparooProject/go-kinectfw"
)

// ErrDeviceNotFound is returned when no device matches the options.
var ErrDeviceNotFound = errors.New("usb device not found")

// Options selects the device and the endpoint pair to use.
type Options struct {
	// BusAddress selects a device as "bus:address" (decimal) instead of by
	// VendorID and ProductID
	BusAddress    string
	VendorID      uint16
	ProductID     uint16
	Configuration int
	Interface     int
	AltSetting    int
	EndpointIn    uint8 // endpoint address, direction bit included
	EndpointOut   uint8
}

// DefaultOptions targets the audio processor in bootloader mode.
func DefaultOptions() Options {
	return Options{
		VendorID:      kinectfw.VendorMicrosoft,
		ProductID:     kinectfw.ProductK4WAudioBootloader,
		Configuration: kinectfw.AudioConfiguration,
		Interface:     kinectfw.AudioInterface,
		EndpointIn:    kinectfw.AudioEndpointIn,
		EndpointOut:   kinectfw.AudioEndpointOut,
	}
}

// Transport implements kinectfw.Transport over libusb bulk transfers.
// Transfers have no timeout.
type Transport struct {
	ctx   *gousb.Context
	dev   *gousb.Device
	cfg   *gousb.Config
	intf  *gousb.Interface
	in    *gousb.InEndpoint
	out   *gousb.OutEndpoint
	label string
}

// New opens the device, activates the configuration, detaches any kernel
// driver and claims the interface.
func New(opts Options) (*Transport, error) {
	t := &Transport{ctx: gousb.NewContext()}
	if err := t.open(opts); err != nil {
		_ = t.Close()
		return nil, err
	}
	return t, nil
}

func (t *Transport) open(opts Options) error {
	dev, err := openDevice(t.ctx, opts)
	if err != nil {
		return err
	}
	t.dev = dev
	t.label = fmt.Sprintf("%d:%d", dev.Desc.Bus, dev.Desc.Address)

	if err := dev.SetAutoDetach(true); err != nil {
		return fmt.Errorf("failed to enable kernel driver auto-detach: %w", err)
	}

	t.cfg, err = dev.Config(opts.Configuration)
	if err != nil {
		return fmt.Errorf("failed to activate configuration %d: %w", opts.Configuration, err)
	}

	t.intf, err = t.cfg.Interface(opts.Interface, opts.AltSetting)
	if err != nil {
		return fmt.Errorf("failed to claim interface %d: %w", opts.Interface, err)
	}

	// The device may re-enumerate with another configuration while the
	// interface is claimed.
	active, err := dev.ActiveConfigNum()
	if err != nil {
		return fmt.Errorf("failed to read active configuration: %w", err)
	}
	if active != opts.Configuration {
		return fmt.Errorf("device configuration changed to %d", active)
	}

	t.in, err = t.intf.InEndpoint(endpointNumber(opts.EndpointIn))
	if err != nil {
		return fmt.Errorf("failed to open IN endpoint %#02x: %w", opts.EndpointIn, err)
	}
	t.out, err = t.intf.OutEndpoint(endpointNumber(opts.EndpointOut))
	if err != nil {
		return fmt.Errorf("failed to open OUT endpoint %#02x: %w", opts.EndpointOut, err)
	}
	return nil
}

func openDevice(ctx *gousb.Context, opts Options) (*gousb.Device, error) {
	if opts.BusAddress == "" {
		dev, err := ctx.OpenDeviceWithVIDPID(gousb.ID(opts.VendorID), gousb.ID(opts.ProductID))
		if err != nil {
			return nil, fmt.Errorf("failed to open %04x:%04x: %w", opts.VendorID, opts.ProductID, err)
		}
		if dev == nil {
			return nil, fmt.Errorf("%w: %04x:%04x", ErrDeviceNotFound, opts.VendorID, opts.ProductID)
		}
		return dev, nil
	}

	bus, addr, err := ParseBusAddress(opts.BusAddress)
	if err != nil {
		return nil, err
	}

	devs, err := ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		return desc.Bus == bus && desc.Address == addr
	})
	if err != nil {
		for _, d := range devs {
			_ = d.Close()
		}
		return nil, fmt.Errorf("failed to open device %s: %w", opts.BusAddress, err)
	}
	if len(devs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrDeviceNotFound, opts.BusAddress)
	}
	for _, d := range devs[1:] {
		_ = d.Close()
	}
	return devs[0], nil
}

// ParseBusAddress splits a "bus:address" device selector.
func ParseBusAddress(s string) (bus, addr int, err error) {
	busStr, addrStr, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("invalid bus address %q: want BUS:ADDRESS", s)
	}
	bus, err = strconv.Atoi(busStr)
	if err != nil || bus < 0 {
		return 0, 0, fmt.Errorf("invalid bus number in %q", s)
	}
	addr, err = strconv.Atoi(addrStr)
	if err != nil || addr < 0 {
		return 0, 0, fmt.Errorf("invalid device address in %q", s)
	}
	return bus, addr, nil
}

// endpointNumber strips the direction bit from an endpoint address.
func endpointNumber(address uint8) int {
	return int(address & 0x0f)
}

// Write sends p as one bulk OUT transfer
func (t *Transport) Write(p []byte) (int, error) {
	if t.out == nil {
		return 0, errors.New("transport not open")
	}
	n, err := t.out.Write(p)
	if err != nil {
		return n, fmt.Errorf("bulk write on %s: %w", t.label, err)
	}
	return n, nil
}

// Read receives one bulk IN transfer into p
func (t *Transport) Read(p []byte) (int, error) {
	if t.in == nil {
		return 0, errors.New("transport not open")
	}
	n, err := t.in.Read(p)
	if err != nil {
		return n, fmt.Errorf("bulk read on %s: %w", t.label, err)
	}
	return n, nil
}

// Close releases the interface, the configuration, the device and the
// libusb context, in that order
func (t *Transport) Close() error {
	var errs []error
	if t.intf != nil {
		t.intf.Close()
		t.intf = nil
	}
	t.in, t.out = nil, nil
	if t.cfg != nil {
		errs = append(errs, t.cfg.Close())
		t.cfg = nil
	}
	if t.dev != nil {
		errs = append(errs, t.dev.Close())
		t.dev = nil
	}
	if t.ctx != nil {
		errs = append(errs, t.ctx.Close())
		t.ctx = nil
	}
	return errors.Join(errs...)
}

// IsConnected returns true if the interface is claimed
func (t *Transport) IsConnected() bool {
	return t.in != nil && t.out != nil
}

// Type returns the transport type
func (*Transport) Type() kinectfw.TransportType {
	return kinectfw.TransportUSB
}
