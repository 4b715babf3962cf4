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
	"errors"
	"fmt"
)

// Protocol errors. Every failure aborts the upload; typed errors below
// carry the detail and match these with errors.Is.
var (
	ErrTransport           = errors.New("transport failure")
	ErrMalformedFrame      = errors.New("malformed frame")
	ErrTagMismatch         = errors.New("status tag mismatch")
	ErrDeviceRejected      = errors.New("device rejected request")
	ErrPayloadSizeMismatch = errors.New("payload size mismatch")
	ErrInvalidImage        = errors.New("invalid firmware image")
)

// TransportError wraps a failure reported by the Transport.
type TransportError struct {
	Err error
	Op  string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Is reports ErrTransport so callers need not know the cause.
func (*TransportError) Is(target error) bool { return target == ErrTransport }

// TagMismatchError reports a status frame answering a different exchange.
type TagMismatchError struct {
	Expected uint32
	Actual   uint32
}

func (e *TagMismatchError) Error() string {
	return fmt.Sprintf("%v: expected tag %d, got %d", ErrTagMismatch, e.Expected, e.Actual)
}

func (*TagMismatchError) Is(target error) bool { return target == ErrTagMismatch }

// RejectedError reports a status frame with a nonzero result.
type RejectedError struct {
	Operation Operation
	Tag       uint32
	Result    uint32
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%v: %s tag %d result 0x%08x", ErrDeviceRejected, e.Operation, e.Tag, e.Result)
}

func (*RejectedError) Is(target error) bool { return target == ErrDeviceRejected }

// PayloadSizeError reports a response payload of unexpected length.
type PayloadSizeError struct {
	Expected int
	Actual   int
}

func (e *PayloadSizeError) Error() string {
	return fmt.Sprintf("%v: expected %d bytes, got %d", ErrPayloadSizeMismatch, e.Expected, e.Actual)
}

func (*PayloadSizeError) Is(target error) bool { return target == ErrPayloadSizeMismatch }

// ImageSizeError reports a header whose size field disagrees with the image.
type ImageSizeError struct {
	Declared uint32
	Actual   int
}

func (e *ImageSizeError) Error() string {
	return fmt.Sprintf("%v: header declares %d bytes, image has %d", ErrInvalidImage, e.Declared, e.Actual)
}

func (*ImageSizeError) Is(target error) bool { return target == ErrInvalidImage }

// malformed wraps a frame decode error so it matches ErrMalformedFrame
// while keeping the decoder's reason.
func malformed(what string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrMalformedFrame, what, err)
}
