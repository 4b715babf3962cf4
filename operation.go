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
	"fmt"

	"github.com/ZaparooProject/go-kinectfw/internal/frame"
)

// Operation is a bootloader request code.
type Operation uint32

// Supported operations. These are the only codes the host ever sends.
const (
	OpStatus  Operation = frame.OpcodeStatus
	OpPage    Operation = frame.OpcodePage
	OpExecute Operation = frame.OpcodeExecute
)

func (o Operation) String() string {
	switch o {
	case OpStatus:
		return "status"
	case OpPage:
		return "page"
	case OpExecute:
		return "execute"
	default:
		return fmt.Sprintf("operation(0x%02x)", uint32(o))
	}
}
