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
	"math"

	"go.uber.org/zap"

	"github.com/ZaparooProject/go-kinectfw/internal/frame"
)

// Upload parameters fixed by the bootloader
const (
	// PageSize is the largest payload of a single page write.
	PageSize = 0x4000

	// ProbeAddress and ProbeResponseSize parameterize the status probe
	// that opens every upload.
	ProbeAddress      = 0x15
	ProbeResponseSize = 0x60
)

// Step is one exchange of an upload.
type Step struct {
	// Payload is sent after the command frame; empty for probe and execute
	Payload []byte

	Operation Operation
	Tag       uint32
	Address   uint32

	// ResponseSize is the expected response length of a receive step
	ResponseSize uint32

	// Receive marks a step that reads a response instead of sending Payload
	Receive bool
}

// Progress describes an upload step that just completed.
type Progress struct {
	Operation    Operation
	Step         int // 1-based
	Steps        int
	Tag          uint32
	Address      uint32
	BytesWritten int
	TotalBytes   int
}

// ProgressFunc is called after each successful step. It runs on the
// uploading goroutine and should return quickly.
type ProgressFunc func(Progress)

// Plan validates image and returns the exchanges that flash it: a status
// probe with tag 1, one page write per PageSize bytes starting at the
// header base address, and an execute at the entry point. Tags increase
// by one per step. Payloads alias image.
func Plan(image []byte) ([]Step, error) {
	header, err := ParseHeader(image)
	if err != nil {
		return nil, err
	}
	if err := header.CheckSize(len(image)); err != nil {
		return nil, err
	}
	if uint64(header.BaseAddress)+uint64(len(image)) > math.MaxUint32+1 {
		return nil, fmt.Errorf("%w: %d bytes at %#x overflow the address space",
			ErrInvalidImage, len(image), header.BaseAddress)
	}

	steps := make([]Step, 0, frame.ChunkCount(len(image), PageSize)+2)

	tag := uint32(1)
	steps = append(steps, Step{
		Operation:    OpStatus,
		Tag:          tag,
		Address:      ProbeAddress,
		ResponseSize: ProbeResponseSize,
		Receive:      true,
	})

	address := header.BaseAddress
	for page := range frame.Chunks(image, PageSize) {
		tag++
		steps = append(steps, Step{
			Operation: OpPage,
			Tag:       tag,
			Address:   address,
			Payload:   page,
		})
		address += PageSize
	}

	tag++
	steps = append(steps, Step{
		Operation: OpExecute,
		Tag:       tag,
		Address:   header.EntryPoint,
	})

	return steps, nil
}

// Upload flashes image and tells the device to boot it. The first failed
// exchange aborts the upload and the device is left in an undefined state;
// nothing is retried and nothing is read back.
func (d *Device) Upload(image []byte) error {
	steps, err := Plan(image)
	if err != nil {
		return err
	}

	written := 0
	for i, step := range steps {
		if err := d.runStep(step); err != nil {
			return fmt.Errorf("upload step %d/%d (%s, tag %d, address %#x): %w",
				i+1, len(steps), step.Operation, step.Tag, step.Address, err)
		}

		written += len(step.Payload)
		if d.progress != nil {
			d.progress(Progress{
				Operation:    step.Operation,
				Step:         i + 1,
				Steps:        len(steps),
				Tag:          step.Tag,
				Address:      step.Address,
				BytesWritten: written,
				TotalBytes:   len(image),
			})
		}
	}

	d.log.Info("upload complete",
		zap.Int("pages", len(steps)-2),
		zap.Int("bytes", written))
	return nil
}

func (d *Device) runStep(step Step) error {
	if step.Receive {
		_, err := d.Receive(step.Operation, step.Tag, step.Address, step.ResponseSize)
		return err
	}
	return d.Send(step.Operation, step.Tag, step.Address, step.Payload)
}
