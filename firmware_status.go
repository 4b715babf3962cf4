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
	"encoding/binary"
	"fmt"
)

// Firmware status query parameters. The device answers with 0x60 bytes
// whatever size is requested and ignores the address.
const (
	FirmwareStatusTag     = 0x1337
	FirmwareStatusAddress = 0x00
	FirmwareStatusSize    = 0x60

	statusVersionSize  = 12
	statusVersionCount = 3
)

// StatusVersion is a version record in the firmware status response. It
// is laid out like Version but with 32-bit release and patch fields. The
// layout is inferred from observed responses and not documented.
type StatusVersion struct {
	Minor   uint16
	Major   uint16
	Release uint32
	Patch   uint32
}

func (v StatusVersion) String() string {
	return fmt.Sprintf("%02d.%02d.%02d.%02d", v.Major, v.Minor, v.Release, v.Patch)
}

// FirmwareStatus is the decoded response of a status query.
type FirmwareStatus struct {
	Raw      []byte
	Versions [statusVersionCount]StatusVersion
}

// FirmwareStatus queries a running device for its status block. Use
// FirmwareStatusTag unless the tag must be coordinated with other traffic.
func (d *Device) FirmwareStatus(tag uint32) (*FirmwareStatus, error) {
	response, err := d.Receive(OpStatus, tag, FirmwareStatusAddress, FirmwareStatusSize)
	if err != nil {
		return nil, fmt.Errorf("firmware status: %w", err)
	}
	return ParseFirmwareStatus(response.Bytes())
}

// ParseFirmwareStatus decodes the version records at the start of a status
// response. Raw is a copy of data.
func ParseFirmwareStatus(data []byte) (*FirmwareStatus, error) {
	if len(data) < statusVersionSize*statusVersionCount {
		return nil, fmt.Errorf("%w: firmware status is %d bytes, need %d",
			ErrMalformedFrame, len(data), statusVersionSize*statusVersionCount)
	}

	status := &FirmwareStatus{Raw: append([]byte(nil), data...)}
	le := binary.LittleEndian
	for i := range status.Versions {
		rec := data[i*statusVersionSize:]
		status.Versions[i] = StatusVersion{
			Minor:   le.Uint16(rec[0:2]),
			Major:   le.Uint16(rec[2:4]),
			Release: le.Uint32(rec[4:8]),
			Patch:   le.Uint32(rec[8:12]),
		}
	}
	return status, nil
}
