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
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultBlocklist returns Kinect sensor functions that share the vendor ID
// but never run the audio bootloader.
// Entries use any spelling ParseVIDPID accepts.
func DefaultBlocklist() []string {
	return []string{
		"045E:02BF", // Kinect for Windows camera, shares the vendor ID
		"045E:02C2", // Kinect for Windows hub
	}
}

// FormatVIDPID renders IDs the way the blocklist spells them.
func FormatVIDPID(vid, pid uint16) string {
	return fmt.Sprintf("%04X:%04X", vid, pid)
}

// ErrInvalidVIDPID is returned for text that does not name a vendor and
// product ID pair.
var ErrInvalidVIDPID = errors.New("invalid VID:PID")

// IsBlocked reports whether the blocklist names vid:pid. Entries that do not
// parse never match.
func IsBlocked(vid, pid uint16, blocklist []string) bool {
	for _, entry := range blocklist {
		v, p, err := ParseVIDPID(entry)
		if err == nil && v == vid && p == pid {
			return true
		}
	}
	return false
}

// ParseVIDPID reads a vendor/product pair. Accepted spellings:
//
//	045e:02be
//	VID:045e PID:02be
//	vendor=045e product=02be
//	45e/2be/100 (PRODUCT= value of a USB uevent, bcdDevice ignored)
//
// Digits are always hex, with or without a 0x prefix.
func ParseVIDPID(s string) (vid, pid uint16, err error) {
	fields := strings.Fields(strings.ToLower(s))

	var vidText, pidText string
	switch len(fields) {
	case 1:
		if parts := strings.Split(fields[0], "/"); len(parts) == 3 {
			vidText, pidText = parts[0], parts[1]
		} else if v, p, ok := strings.Cut(fields[0], ":"); ok {
			vidText, pidText = v, p
		}
	case 2:
		vidText = trimLabel(fields[0], "vid:", "vid=", "vendor=")
		pidText = trimLabel(fields[1], "pid:", "pid=", "product=")
	}

	if vid, err = parseHexID(vidText); err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidVIDPID, s)
	}
	if pid, err = parseHexID(pidText); err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidVIDPID, s)
	}
	return vid, pid, nil
}

// trimLabel strips the first matching label, or returns "" if none match.
func trimLabel(field string, labels ...string) string {
	for _, label := range labels {
		if rest, ok := strings.CutPrefix(field, label); ok {
			return rest
		}
	}
	return ""
}

func parseHexID(s string) (uint16, error) {
	s = strings.TrimPrefix(s, "0x")
	if s == "" {
		return 0, ErrInvalidVIDPID
	}
	v, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, err
	}
	return uint16(v), nil
}

// IsPathIgnored checks if a device path should be ignored.
// Supports exact path matching and normalized path comparison.
func IsPathIgnored(devicePath string, ignorePaths []string) bool {
	if devicePath == "" || len(ignorePaths) == 0 {
		return false
	}

	// Normalize the device path for comparison
	normalizedDevice := normalizedPath(devicePath)

	for _, ignorePath := range ignorePaths {
		if ignorePath == "" {
			continue
		}

		normalizedIgnore := normalizedPath(ignorePath)

		// Exact match
		if normalizedDevice == normalizedIgnore {
			return true
		}

		// Also check original paths for exact match
		if devicePath == ignorePath {
			return true
		}
	}
	return false
}

// normalizedPath normalizes a device path for comparison
func normalizedPath(path string) string {
	// Clean the path to resolve any relative components
	cleaned := filepath.Clean(path)

	// Case-insensitive so bus:address selectors and node paths compare alike
	return strings.ToLower(cleaned)
}
