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

/*
Package kinectfw uploads firmware to the Kinect for Windows audio processor.

Until firmware is loaded the audio processor enumerates as a bootloader
(VID 0x045e, PID 0x02be) with one bulk endpoint pair. The bootloader speaks
a small command/status protocol: every exchange starts with a 24-byte
command frame, optionally moves a payload in either direction, and ends
with a 12-byte status frame echoing the command's tag. There is exactly
one exchange in flight at any time and the protocol has no recovery path.

Features:
  - Firmware image header decoding and validation
  - Exchange engine with tag, result and payload length checks
  - Upload planning (status probe, page writes, execute)
  - Firmware status query for booted devices
  - libusb (gousb) and Linux usbfs transports
  - Device detection through sysfs and libusb (package detection)
  - Structured logging through zap

Basic Usage:

	import (
	    "github.com/ZaparooProject/go-kinectfw"
	    "github.com/ZaparooProject/go-kinectfw/transport/usb"
	)

	transport, err := usb.New(usb.DefaultOptions())
	if err != nil {
	    log.Fatal(err)
	}

	device, err := kinectfw.New(transport)
	if err != nil {
	    log.Fatal(err)
	}
	defer device.Close()

	image, err := os.ReadFile("firmware.bin")
	if err != nil {
	    log.Fatal(err)
	}

	if err := device.Upload(image); err != nil {
	    log.Fatal(err)
	}

Error Handling:

Every failure aborts the upload. Errors wrap one of ErrTransport,
ErrMalformedFrame, ErrTagMismatch, ErrDeviceRejected,
ErrPayloadSizeMismatch or ErrInvalidImage, and the typed errors
(TagMismatchError, PayloadSizeError, RejectedError, ImageSizeError,
TransportError) carry expected and actual values:

	var mismatch *kinectfw.TagMismatchError
	if errors.As(err, &mismatch) {
	    fmt.Printf("device answered tag %d, sent %d\n", mismatch.Actual, mismatch.Expected)
	}
*/
package kinectfw
