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

	"go.uber.org/zap"
)

// Option is a functional option for configuring a Device
type Option func(*Device) error

// WithLogger sets the logger used for per-exchange debug output.
// The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(d *Device) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		d.log = logger
		return nil
	}
}

// WithProgress sets a callback invoked after every completed upload step.
func WithProgress(fn ProgressFunc) Option {
	return func(d *Device) error {
		d.progress = fn
		return nil
	}
}
