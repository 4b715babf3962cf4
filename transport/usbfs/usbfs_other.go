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

//go:build !linux

package usbfs

// Transport is unavailable outside Linux.
type Transport struct{}

// New always fails with ErrUnsupportedPlatform.
func New(Options) (*Transport, error) {
	return nil, ErrUnsupportedPlatform
}

// Write always fails
func (*Transport) Write([]byte) (int, error) {
	return 0, ErrUnsupportedPlatform
}

// Read always fails
func (*Transport) Read([]byte) (int, error) {
	return 0, ErrUnsupportedPlatform
}

// Close is a no-op
func (*Transport) Close() error {
	return nil
}

// IsConnected is always false
func (*Transport) IsConnected() bool {
	return false
}

