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

//go:build linux

package usbfs

import (
	"errors"
	"fmt"
	"runtime"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	iocWrite = 1
	iocRead  = 2
)

// bulkTransfer mirrors struct usbdevfs_bulktransfer.
type bulkTransfer struct {
	Ep      uint32
	Len     uint32
	Timeout uint32 // milliseconds, 0 waits forever
	Data    unsafe.Pointer
}

// ioctlRequest mirrors struct usbdevfs_ioctl.
type ioctlRequest struct {
	Ifno      int32
	IoctlCode int32
	Data      unsafe.Pointer
}

func ioc(dir, nr, size uintptr) uintptr {
	return dir<<30 | size<<16 | 'U'<<8 | nr
}

var (
	ioctlSetConfiguration = ioc(iocRead, 5, unsafe.Sizeof(uint32(0)))
	ioctlClaimInterface   = ioc(iocRead, 15, unsafe.Sizeof(uint32(0)))
	ioctlReleaseInterface = ioc(iocRead, 16, unsafe.Sizeof(uint32(0)))
	ioctlBulk             = ioc(iocRead|iocWrite, 2, unsafe.Sizeof(bulkTransfer{}))
	ioctlIoctl            = ioc(iocRead|iocWrite, 18, unsafe.Sizeof(ioctlRequest{}))
	ioctlDisconnect       = ioc(0, 22, 0)
)

// Transport implements kinectfw.Transport with usbfs bulk ioctls.
type Transport struct {
	path    string
	fd      int
	iface   uint32
	epIn    uint8
	epOut   uint8
	claimed bool
}

// New opens the device node, detaches the kernel driver from the interface,
// activates the configuration and claims the interface.
func New(opts Options) (*Transport, error) {
	fd, err := unix.Open(opts.Path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", opts.Path, err)
	}

	t := &Transport{
		path:  opts.Path,
		fd:    fd,
		iface: uint32(opts.Interface),
		epIn:  opts.EndpointIn,
		epOut: opts.EndpointOut,
	}
	if err := t.setup(opts); err != nil {
		_ = t.Close()
		return nil, err
	}
	return t, nil
}

func (t *Transport) setup(opts Options) error {
	if err := t.disconnectDriver(); err != nil {
		return fmt.Errorf("failed to detach kernel driver: %w", err)
	}

	config := uint32(opts.Configuration)
	if err := t.ioctl(ioctlSetConfiguration, unsafe.Pointer(&config)); err != nil {
		return fmt.Errorf("failed to set configuration %d: %w", opts.Configuration, err)
	}

	if err := t.ioctl(ioctlClaimInterface, unsafe.Pointer(&t.iface)); err != nil {
		return fmt.Errorf("failed to claim interface %d: %w", opts.Interface, err)
	}
	t.claimed = true
	return nil
}

// disconnectDriver detaches whatever kernel driver is bound to the
// interface. ENODATA means none was bound.
func (t *Transport) disconnectDriver() error {
	req := ioctlRequest{
		Ifno:      int32(t.iface),
		IoctlCode: int32(ioctlDisconnect),
	}
	err := t.ioctl(ioctlIoctl, unsafe.Pointer(&req))
	if errors.Is(err, unix.ENODATA) {
		return nil
	}
	return err
}

func (t *Transport) ioctl(req uintptr, arg unsafe.Pointer) error {
	_, err := t.ioctlValue(req, arg)
	return err
}

func (t *Transport) ioctlValue(req uintptr, arg unsafe.Pointer) (int, error) {
	for {
		r, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(t.fd), req, uintptr(arg))
		switch errno {
		case 0:
			return int(r), nil
		case unix.EINTR:
			continue
		default:
			return 0, errno
		}
	}
}

func (t *Transport) bulk(ep uint8, p []byte) (int, error) {
	if t.fd < 0 {
		return 0, errors.New("transport not open")
	}

	xfer := bulkTransfer{Ep: uint32(ep), Len: uint32(len(p))}
	var pinner runtime.Pinner
	defer pinner.Unpin()
	if len(p) > 0 {
		pinner.Pin(&p[0])
		xfer.Data = unsafe.Pointer(&p[0])
	}

	return t.ioctlValue(ioctlBulk, unsafe.Pointer(&xfer))
}

// Write sends p as one bulk OUT transfer
func (t *Transport) Write(p []byte) (int, error) {
	n, err := t.bulk(t.epOut, p)
	if err != nil {
		return 0, fmt.Errorf("bulk write on %s: %w", t.path, err)
	}
	return n, nil
}

// Read receives one bulk IN transfer into p
func (t *Transport) Read(p []byte) (int, error) {
	n, err := t.bulk(t.epIn, p)
	if err != nil {
		return 0, fmt.Errorf("bulk read on %s: %w", t.path, err)
	}
	return n, nil
}

// Close releases the interface and closes the device node
func (t *Transport) Close() error {
	if t.fd < 0 {
		return nil
	}
	var errs []error
	if t.claimed {
		errs = append(errs, t.ioctl(ioctlReleaseInterface, unsafe.Pointer(&t.iface)))
		t.claimed = false
	}
	errs = append(errs, unix.Close(t.fd))
	t.fd = -1
	return errors.Join(errs...)
}

// IsConnected returns true while the interface is claimed
func (t *Transport) IsConnected() bool {
	return t.fd >= 0 && t.claimed
}
